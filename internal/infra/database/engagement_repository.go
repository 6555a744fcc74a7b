package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type EngagementRepository struct {
	DB *sql.DB
}

func NewEngagementRepository(db *sql.DB) *EngagementRepository {
	return &EngagementRepository{DB: db}
}

// Stats gathers the scoring inputs in one round trip. Bookings are matched
// through the email on the user's latest subscription or referral code.
func (r *EngagementRepository) Stats(ctx context.Context, userID string, since time.Time) (entity.EngagementStats, error) {
	query := `
		WITH emails AS (
			SELECT email FROM subscriptions WHERE user_id = $1
			UNION
			SELECT email FROM referral_codes WHERE user_id = $1
		)
		SELECT
			(SELECT COUNT(*) FROM lesson_views WHERE user_id = $1 AND created_at >= $2),
			(SELECT COUNT(*) FROM bookings WHERE email IN (SELECT email FROM emails) AND status <> $3),
			(SELECT COUNT(*) FROM referrals WHERE referrer_id = $1 AND status = $4),
			EXISTS (
				SELECT 1 FROM subscriptions
				WHERE user_id = $1 AND status = $5
					AND (current_period_end IS NULL OR current_period_end > NOW())
			)
	`
	var s entity.EngagementStats
	err := r.DB.QueryRowContext(ctx, query,
		userID, since, entity.BookingCanceled, entity.ReferralConverted, entity.SubscriptionActive,
	).Scan(&s.LessonsLast30d, &s.Bookings, &s.ConvertedReferrals, &s.ActiveSubscription)
	return s, err
}
