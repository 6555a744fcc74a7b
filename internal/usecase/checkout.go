package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type CheckoutInput struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	OfferSlug  string `json:"offer_slug"`
	CouponCode string `json:"coupon_code,omitempty"`
	VariantID  string `json:"variant_id,omitempty"`
}

type CheckoutOutput struct {
	SubscriptionID string `json:"subscription_id"`
	Status         string `json:"status"`
	AmountCents    int    `json:"amount_cents"`
	Currency       string `json:"currency"`
	CouponApplied  bool   `json:"coupon_applied"`
}

type CheckoutUseCase struct {
	SubRepo     entity.SubscriptionRepository
	Offers      OfferReader
	Coupons     entity.CouponRepositoryInterface
	PricingRepo entity.PricingRepositoryInterface
	Logger      *zap.Logger
}

func NewCheckoutUseCase(
	subRepo entity.SubscriptionRepository,
	offers OfferReader,
	coupons entity.CouponRepositoryInterface,
	pricingRepo entity.PricingRepositoryInterface,
	logger *zap.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		SubRepo:     subRepo,
		Offers:      offers,
		Coupons:     coupons,
		PricingRepo: pricingRepo,
		Logger:      logger,
	}
}

func ValidateCheckoutInput(input CheckoutInput) []ValidationError {
	var errs []ValidationError
	errs = requireField(errs, "user_id", input.UserID)
	errs = requireEmail(errs, "email", input.Email)
	errs = requireField(errs, "name", input.Name)
	errs = maxLen(errs, "name", input.Name, 200)
	if strings.TrimSpace(input.OfferSlug) == "" {
		errs = append(errs, ValidationError{"offer_slug", "is required"})
	} else if !isValidSlug(input.OfferSlug) {
		errs = append(errs, ValidationError{"offer_slug", "is invalid"})
	}
	return errs
}

func (uc *CheckoutUseCase) Execute(ctx context.Context, input CheckoutInput) (*CheckoutOutput, error) {
	if err := validationResult(ValidateCheckoutInput(input)); err != nil {
		return nil, err
	}

	offer, err := uc.Offers.FindBySlug(ctx, input.OfferSlug)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("offer not found")
		}
		return nil, dbError("failed to load offer", err)
	}
	if !offer.Active {
		return nil, notFound("offer not found")
	}

	price := offer.PriceCents
	variantID := ""
	if input.VariantID != "" {
		variant, err := uc.PricingRepo.FindVariant(ctx, input.VariantID)
		switch {
		case err == nil && variant.OfferID == offer.ID && variant.Active:
			price = variant.PriceCents
			variantID = variant.ID
		case err == nil, errors.Is(err, entity.ErrNotFound):
			// stale or foreign variant: list price applies
			uc.Logger.Info("ignoring variant for checkout", zap.String("variant_id", input.VariantID), zap.String("offer", offer.Slug))
		default:
			return nil, dbError("failed to load pricing variant", err)
		}
	}

	sub := entity.NewSubscription(strings.TrimSpace(input.UserID), input.Email, strings.TrimSpace(input.Name), offer, price)
	sub.VariantID = variantID

	txn := NewTransaction()
	txn.AddOperation("create_subscription",
		func(ctx context.Context) error { return uc.SubRepo.Create(ctx, sub) },
		func(ctx context.Context) error { return uc.SubRepo.Delete(ctx, sub.ID) },
	)

	var couponErr error
	if code := entity.NormalizeCouponCode(input.CouponCode); code != "" {
		txn.AddOperation("redeem_coupon", func(ctx context.Context) error {
			coupon, err := uc.Coupons.Redeem(ctx, code, offer.ID, sub.Email, sub.ID)
			if err != nil {
				couponErr = err
				return err
			}
			sub.CouponID = coupon.ID
			sub.AmountCents = entity.ApplyDiscount(price, coupon)
			return nil
		}, func(ctx context.Context) error {
			return uc.Coupons.ReleaseRedemption(ctx, sub.CouponID, sub.ID)
		})
		txn.AddOperation("attach_coupon", func(ctx context.Context) error {
			return uc.SubRepo.SetCoupon(ctx, sub.ID, sub.CouponID, sub.AmountCents)
		}, nil)
	}

	if err := txn.Execute(ctx); err != nil {
		if couponErr != nil {
			if reason := couponReason(couponErr); reason != "" {
				return nil, &DomainError{Code: CodeCouponInvalid, Message: "coupon cannot be applied: " + reason}
			}
		}
		return nil, dbError("failed to create subscription", err)
	}

	return &CheckoutOutput{
		SubscriptionID: sub.ID,
		Status:         sub.Status,
		AmountCents:    sub.AmountCents,
		Currency:       sub.Currency,
		CouponApplied:  sub.CouponID != "",
	}, nil
}

// couponReason maps repository refusals to validation reasons.
func couponReason(err error) string {
	var ce *entity.CouponRejection
	if errors.As(err, &ce) {
		return ce.Reason
	}
	if errors.Is(err, entity.ErrNotFound) {
		return entity.CouponReasonNotFound
	}
	return ""
}
