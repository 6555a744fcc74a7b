package entity

import (
	"context"
	"math/rand/v2"
	"time"
)

// PricingVariant is one arm of a price experiment.
type PricingVariant struct {
	ID         string `json:"id"`
	Experiment string `json:"experiment"`
	OfferID    string `json:"offer_id"`
	Label      string `json:"label"`
	PriceCents int    `json:"price_cents"`
	Weight     int    `json:"weight"`
	Active     bool   `json:"active"`
}

type PricingAssignment struct {
	Experiment string          `json:"experiment"`
	VisitorID  string          `json:"visitor_id"`
	Variant    *PricingVariant `json:"variant"`
	AssignedAt time.Time       `json:"assigned_at"`
}

type PricingRepositoryInterface interface {
	ActiveVariants(ctx context.Context, experiment string) ([]*PricingVariant, error)
	FindVariant(ctx context.Context, id string) (*PricingVariant, error)
	FindAssignment(ctx context.Context, experiment, visitorID string) (*PricingAssignment, error)
	// InsertAssignment does nothing when the visitor is already assigned.
	InsertAssignment(ctx context.Context, experiment, visitorID, variantID string) error
}

// PickWeighted selects a variant with probability proportional to its weight.
// Variants with a non-positive weight are never picked. r returns a value in [0, n).
func PickWeighted(variants []*PricingVariant, r func(n int) int) *PricingVariant {
	total := 0
	for _, v := range variants {
		if v.Weight > 0 {
			total += v.Weight
		}
	}
	if total == 0 {
		return nil
	}
	if r == nil {
		r = rand.IntN
	}
	n := r(total)
	for _, v := range variants {
		if v.Weight <= 0 {
			continue
		}
		if n < v.Weight {
			return v
		}
		n -= v.Weight
	}
	return nil
}
