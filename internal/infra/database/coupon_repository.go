package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type CouponRepository struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewCouponRepository(db *sql.DB) *CouponRepository {
	return &CouponRepository{DB: db, Now: time.Now}
}

const couponColumns = `id, code, kind, value, COALESCE(offer_id::text, ''), max_redemptions,
	redeemed_count, expires_at, active, created_at`

func scanCoupon(row scanner) (*entity.Coupon, error) {
	var c entity.Coupon
	var expires sql.NullTime
	err := row.Scan(&c.ID, &c.Code, &c.Kind, &c.Value, &c.OfferID, &c.MaxRedemptions,
		&c.RedeemedCount, &expires, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if expires.Valid {
		t := expires.Time
		c.ExpiresAt = &t
	}
	return &c, nil
}

func (r *CouponRepository) Create(ctx context.Context, c *entity.Coupon) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO coupons (id, code, kind, value, offer_id, max_redemptions, expires_at, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, c.ID, c.Code, c.Kind, c.Value, nullString(c.OfferID), c.MaxRedemptions, c.ExpiresAt, c.Active, c.CreatedAt)
	if isUniqueViolation(err) {
		return entity.ErrAlreadyExists
	}
	return err
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	c, err := scanCoupon(r.DB.QueryRowContext(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return c, nil
}

func (r *CouponRepository) HasRedemption(ctx context.Context, couponID, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM coupon_redemptions WHERE coupon_id = $1 AND email = $2)`,
		couponID, email).Scan(&exists)
	return exists, err
}

// Redeem serializes concurrent redemptions of the same code on the row lock.
func (r *CouponRepository) Redeem(ctx context.Context, code, offerID, email, subscriptionID string) (*entity.Coupon, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	c, err := scanCoupon(tx.QueryRowContext(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1 FOR UPDATE`, code))
	if err != nil {
		return nil, notFoundOr(err)
	}
	if reason := c.Check(offerID, r.Now()); reason != "" {
		return nil, &entity.CouponRejection{Reason: reason}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO coupon_redemptions (coupon_id, email, subscription_id)
		VALUES ($1, $2, $3)
	`, c.ID, email, subscriptionID)
	if isUniqueViolation(err) {
		return nil, &entity.CouponRejection{Reason: entity.CouponReasonAlreadyRedeemed}
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE coupons SET redeemed_count = redeemed_count + 1 WHERE id = $1`, c.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	c.RedeemedCount++
	return c, nil
}

// ReleaseRedemption undoes Redeem for a subscription that was rolled back.
func (r *CouponRepository) ReleaseRedemption(ctx context.Context, couponID, subscriptionID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM coupon_redemptions WHERE coupon_id = $1 AND subscription_id = $2`,
		couponID, subscriptionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE coupons SET redeemed_count = GREATEST(redeemed_count - $2, 0) WHERE id = $1`,
			couponID, n); err != nil {
			return err
		}
	}
	return tx.Commit()
}
