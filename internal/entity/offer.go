package entity

import (
	"context"
	"math"
)

const (
	IntervalOneTime = "one_time"
	IntervalMonth   = "month"
)

// Offer is a coaching package sold on the site.
type Offer struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PriceCents  int      `json:"price_cents"`
	Currency    string   `json:"currency"`
	Interval    string   `json:"interval"`
	LessonLimit int      `json:"lesson_limit"` // 0 = unlimited
	Features    []string `json:"features"`
	Active      bool     `json:"active"`
	SortOrder   int      `json:"sort_order"`
}

type OfferRepositoryInterface interface {
	ListActive(ctx context.Context) ([]*Offer, error)
	FindBySlug(ctx context.Context, slug string) (*Offer, error)
	FindByID(ctx context.Context, id string) (*Offer, error)
}

// ApplyDiscount returns the price after the coupon, floored at zero.
func ApplyDiscount(priceCents int, c *Coupon) int {
	if c == nil {
		return priceCents
	}
	var out int
	switch c.Kind {
	case CouponPercent:
		pct := c.Value
		if pct > 100 {
			pct = 100
		}
		off := int(math.Round(float64(priceCents) * float64(pct) / 100))
		out = priceCents - off
	case CouponFixed:
		out = priceCents - c.Value
	default:
		out = priceCents
	}
	if out < 0 {
		return 0
	}
	return out
}
