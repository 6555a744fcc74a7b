package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionPending   = "PENDING"
	SubscriptionActive    = "ACTIVE"
	SubscriptionPastDue   = "PAST_DUE"
	SubscriptionCanceled  = "CANCELED"
	SubscriptionExpired   = "EXPIRED"
	SubscriptionAbandoned = "ABANDONED"
)

type Subscription struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	OfferID          string     `json:"offer_id"`
	VariantID        string     `json:"variant_id,omitempty"`
	CouponID         string     `json:"coupon_id,omitempty"`
	AmountCents      int        `json:"amount_cents"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Subscription, error)
	FindLastByUserID(ctx context.Context, userID string) (*Subscription, error)
	FindActiveByUserID(ctx context.Context, userID string) (*Subscription, error)
	SetCoupon(ctx context.Context, id, couponID string, amountCents int) error
	UpdateStatus(ctx context.Context, id, status string, periodEnd *time.Time) error
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
	AbandonStale(ctx context.Context, olderThan time.Time) (int64, error)
}

func NewSubscription(userID, email, name string, offer *Offer, amountCents int) *Subscription {
	now := time.Now().UTC()
	return &Subscription{
		ID:          uuid.New().String(),
		UserID:      userID,
		Email:       NormalizeEmail(email),
		Name:        name,
		OfferID:     offer.ID,
		AmountCents: amountCents,
		Currency:    offer.Currency,
		Status:      SubscriptionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// PeriodEnd is the access end for a payment received at paidAt.
func PeriodEnd(interval string, paidAt time.Time) time.Time {
	if interval == IntervalOneTime {
		return paidAt.AddDate(100, 0, 0)
	}
	return paidAt.AddDate(0, 1, 0)
}
