package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type ValidateCouponInput struct {
	Code      string `json:"code"`
	OfferSlug string `json:"offer_slug"`
	Email     string `json:"email"`
}

type ValidateCouponOutput struct {
	Valid                bool   `json:"valid"`
	Reason               string `json:"reason,omitempty"`
	Code                 string `json:"code"`
	OriginalPriceCents   int    `json:"original_price_cents"`
	DiscountedPriceCents int    `json:"discounted_price_cents"`
}

type CreateCouponInput struct {
	Code           string     `json:"code"`
	Kind           string     `json:"kind"`
	Value          int        `json:"value"`
	OfferSlug      string     `json:"offer_slug,omitempty"`
	MaxRedemptions int        `json:"max_redemptions"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

type CouponUseCase struct {
	Repo   entity.CouponRepositoryInterface
	Offers OfferReader
	Clock  Clock
}

func NewCouponUseCase(repo entity.CouponRepositoryInterface, offers OfferReader) *CouponUseCase {
	return &CouponUseCase{Repo: repo, Offers: offers}
}

// Validate is a read-only preview; redemption happens at checkout.
func (uc *CouponUseCase) Validate(ctx context.Context, input ValidateCouponInput) (*ValidateCouponOutput, error) {
	var errs []ValidationError
	errs = requireField(errs, "code", input.Code)
	errs = requireField(errs, "offer_slug", input.OfferSlug)
	errs = requireEmail(errs, "email", input.Email)
	if err := validationResult(errs); err != nil {
		return nil, err
	}

	offer, err := uc.Offers.FindBySlug(ctx, input.OfferSlug)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("offer not found")
		}
		return nil, dbError("failed to load offer", err)
	}

	code := entity.NormalizeCouponCode(input.Code)
	out := &ValidateCouponOutput{
		Code:                 code,
		OriginalPriceCents:   offer.PriceCents,
		DiscountedPriceCents: offer.PriceCents,
	}

	coupon, err := uc.Repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			out.Reason = entity.CouponReasonNotFound
			return out, nil
		}
		return nil, dbError("failed to load coupon", err)
	}

	if reason := coupon.Check(offer.ID, uc.Clock.now()); reason != "" {
		out.Reason = reason
		return out, nil
	}

	redeemed, err := uc.Repo.HasRedemption(ctx, coupon.ID, entity.NormalizeEmail(input.Email))
	if err != nil {
		return nil, dbError("failed to check redemption", err)
	}
	if redeemed {
		out.Reason = entity.CouponReasonAlreadyRedeemed
		return out, nil
	}

	out.Valid = true
	out.DiscountedPriceCents = entity.ApplyDiscount(offer.PriceCents, coupon)
	return out, nil
}

func (uc *CouponUseCase) Create(ctx context.Context, input CreateCouponInput) (*entity.Coupon, error) {
	var errs []ValidationError
	code := entity.NormalizeCouponCode(input.Code)
	if code == "" {
		errs = append(errs, ValidationError{"code", "is required"})
	} else if len(code) > 32 || strings.ContainsAny(code, " \t") {
		errs = append(errs, ValidationError{"code", "must be at most 32 characters without spaces"})
	}
	switch input.Kind {
	case entity.CouponPercent:
		if input.Value <= 0 || input.Value > 100 {
			errs = append(errs, ValidationError{"value", "must be between 1 and 100 for percent coupons"})
		}
	case entity.CouponFixed:
		if input.Value <= 0 {
			errs = append(errs, ValidationError{"value", "must be positive"})
		}
	default:
		errs = append(errs, ValidationError{"kind", "must be percent or fixed"})
	}
	if input.MaxRedemptions < 0 {
		errs = append(errs, ValidationError{"max_redemptions", "must not be negative"})
	}
	if input.ExpiresAt != nil && !input.ExpiresAt.After(uc.Clock.now()) {
		errs = append(errs, ValidationError{"expires_at", "must be in the future"})
	}
	if err := validationResult(errs); err != nil {
		return nil, err
	}

	c := &entity.Coupon{
		ID:             uuid.New().String(),
		Code:           code,
		Kind:           input.Kind,
		Value:          input.Value,
		MaxRedemptions: input.MaxRedemptions,
		ExpiresAt:      input.ExpiresAt,
		Active:         true,
		CreatedAt:      uc.Clock.now(),
	}
	if input.OfferSlug != "" {
		offer, err := uc.Offers.FindBySlug(ctx, input.OfferSlug)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return nil, notFound("offer not found")
			}
			return nil, dbError("failed to load offer", err)
		}
		c.OfferID = offer.ID
	}

	if err := uc.Repo.Create(ctx, c); err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			return nil, &DomainError{Code: CodeConflict, Message: "coupon code already exists"}
		}
		return nil, dbError("failed to create coupon", err)
	}
	return c, nil
}
