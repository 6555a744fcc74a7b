package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type ReferralRepository struct {
	DB *sql.DB
}

func NewReferralRepository(db *sql.DB) *ReferralRepository {
	return &ReferralRepository{DB: db}
}

func (r *ReferralRepository) findCode(ctx context.Context, where string, arg string) (*entity.ReferralCode, error) {
	var c entity.ReferralCode
	err := r.DB.QueryRowContext(ctx,
		`SELECT code, user_id, email, created_at FROM referral_codes WHERE `+where+` = $1`, arg,
	).Scan(&c.Code, &c.UserID, &c.Email, &c.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &c, nil
}

func (r *ReferralRepository) FindCodeByUser(ctx context.Context, userID string) (*entity.ReferralCode, error) {
	return r.findCode(ctx, "user_id", userID)
}

func (r *ReferralRepository) FindCode(ctx context.Context, code string) (*entity.ReferralCode, error) {
	return r.findCode(ctx, "code", code)
}

func (r *ReferralRepository) CreateCode(ctx context.Context, c *entity.ReferralCode) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO referral_codes (code, user_id, email, created_at) VALUES ($1, $2, $3, $4)`,
		c.Code, c.UserID, c.Email, c.CreatedAt)
	if isUniqueViolation(err) {
		return entity.ErrAlreadyExists
	}
	return err
}

func (r *ReferralRepository) Track(ctx context.Context, ref *entity.Referral) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO referrals (id, code, referrer_id, referred_email, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ref.ID, ref.Code, ref.ReferrerID, ref.ReferredEmail, ref.Status, ref.CreatedAt)
	if isUniqueViolation(err) {
		return entity.ErrReferralDuplicate
	}
	return err
}

func (r *ReferralRepository) ListByReferrer(ctx context.Context, userID string) ([]*entity.Referral, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, code, referrer_id, referred_email, status, created_at, converted_at
		FROM referrals
		WHERE referrer_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Referral
	for rows.Next() {
		var ref entity.Referral
		var converted sql.NullTime
		if err := rows.Scan(&ref.ID, &ref.Code, &ref.ReferrerID, &ref.ReferredEmail, &ref.Status,
			&ref.CreatedAt, &converted); err != nil {
			return nil, err
		}
		if converted.Valid {
			t := converted.Time
			ref.ConvertedAt = &t
		}
		out = append(out, &ref)
	}
	return out, rows.Err()
}

// MarkConverted is a no-op when the email was never referred or already converted.
func (r *ReferralRepository) MarkConverted(ctx context.Context, referredEmail string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE referrals SET status = $1, converted_at = $2
		WHERE referred_email = $3 AND status = $4
	`, entity.ReferralConverted, at, referredEmail, entity.ReferralPending)
	return err
}
