package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type SubscriptionRepository struct {
	DB *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

const subscriptionColumns = `id, user_id, email, name, offer_id, COALESCE(variant_id::text, ''),
	COALESCE(coupon_id::text, ''), amount_cents, currency, status, current_period_end,
	created_at, updated_at`

func scanSubscription(row scanner) (*entity.Subscription, error) {
	var s entity.Subscription
	var periodEnd sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.Email, &s.Name, &s.OfferID, &s.VariantID,
		&s.CouponID, &s.AmountCents, &s.Currency, &s.Status, &periodEnd,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if periodEnd.Valid {
		t := periodEnd.Time
		s.CurrentPeriodEnd = &t
	}
	return &s, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, user_id, email, name, offer_id, variant_id, coupon_id,
			amount_cents, currency, status, current_period_end, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, NULLIF($6, '')::uuid, NULLIF($7, '')::uuid,
			$8, $9, $10, $11, $12, $13
		)
	`
	_, err := r.DB.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.Email, sub.Name, sub.OfferID, sub.VariantID, sub.CouponID,
		sub.AmountCents, sub.Currency, sub.Status, sub.CurrentPeriodEnd, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	return err
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*entity.Subscription, error) {
	s, err := scanSubscription(r.DB.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return s, nil
}

func (r *SubscriptionRepository) FindLastByUserID(ctx context.Context, userID string) (*entity.Subscription, error) {
	s, err := scanSubscription(r.DB.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return s, nil
}

// FindActiveByUserID returns the active subscription with the latest period end.
func (r *SubscriptionRepository) FindActiveByUserID(ctx context.Context, userID string) (*entity.Subscription, error) {
	s, err := scanSubscription(r.DB.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = $1 AND status = $2
			AND (current_period_end IS NULL OR current_period_end > NOW())
		ORDER BY current_period_end DESC NULLS LAST
		LIMIT 1
	`, userID, entity.SubscriptionActive))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return s, nil
}

func (r *SubscriptionRepository) SetCoupon(ctx context.Context, id, couponID string, amountCents int) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE subscriptions
		SET coupon_id = NULLIF($2, '')::uuid, amount_cents = $3, updated_at = NOW()
		WHERE id = $1
	`, id, couponID, amountCents)
	return affectedOrNotFound(res, err)
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id, status string, periodEnd *time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = $2, current_period_end = $3, updated_at = NOW()
		WHERE id = $1
	`, id, status, periodEnd)
	return affectedOrNotFound(res, err)
}

// ExpireLapsed moves active subscriptions whose period ended before now to EXPIRED.
func (r *SubscriptionRepository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND current_period_end IS NOT NULL AND current_period_end < $3
	`, entity.SubscriptionExpired, entity.SubscriptionActive, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AbandonStale moves checkouts still pending since before olderThan to ABANDONED.
func (r *SubscriptionRepository) AbandonStale(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND created_at < $3
	`, entity.SubscriptionAbandoned, entity.SubscriptionPending, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
