package entity

import (
	"context"
	"strings"
	"time"
)

const (
	CouponPercent = "percent"
	CouponFixed   = "fixed"
)

// Reasons returned by coupon validation.
const (
	CouponReasonNotFound        = "not_found"
	CouponReasonInactive        = "inactive"
	CouponReasonExpired         = "expired"
	CouponReasonWrongOffer      = "wrong_offer"
	CouponReasonExhausted       = "exhausted"
	CouponReasonAlreadyRedeemed = "already_redeemed"
)

type Coupon struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	Kind           string     `json:"kind"`
	Value          int        `json:"value"` // percent points or cents
	OfferID        string     `json:"offer_id,omitempty"`
	MaxRedemptions int        `json:"max_redemptions"` // 0 = unlimited
	RedeemedCount  int        `json:"redeemed_count"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
}

func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Check reports why the coupon cannot be used for the offer, or "" when it can.
// Per-email redemption is checked separately because it needs the redemption table.
func (c *Coupon) Check(offerID string, now time.Time) string {
	if !c.Active {
		return CouponReasonInactive
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return CouponReasonExpired
	}
	if c.OfferID != "" && c.OfferID != offerID {
		return CouponReasonWrongOffer
	}
	if c.MaxRedemptions > 0 && c.RedeemedCount >= c.MaxRedemptions {
		return CouponReasonExhausted
	}
	return ""
}

// CouponRejection carries the reason a locked coupon failed its re-check.
type CouponRejection struct {
	Reason string
}

func (e *CouponRejection) Error() string {
	return "coupon rejected: " + e.Reason
}

type CouponRepositoryInterface interface {
	Create(ctx context.Context, c *Coupon) error
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	HasRedemption(ctx context.Context, couponID, email string) (bool, error)
	// Redeem locks the coupon row, re-checks it and records the redemption atomically.
	// A failed re-check is reported as *CouponRejection.
	Redeem(ctx context.Context, code, offerID, email, subscriptionID string) (*Coupon, error)
	ReleaseRedemption(ctx context.Context, couponID, subscriptionID string) error
}
