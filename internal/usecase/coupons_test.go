package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zhengrowth/growth-api/internal/entity"
)

func newCoupons() (*CouponUseCase, *MockCouponRepository, *MockOfferRepository) {
	repo := new(MockCouponRepository)
	offers := new(MockOfferRepository)
	uc := NewCouponUseCase(repo, offers)
	uc.Clock = fixedClock()
	return uc, repo, offers
}

func TestCouponValidate(t *testing.T) {
	ctx := context.Background()
	past := testNow.Add(-time.Hour)
	in := ValidateCouponInput{Code: "spring20", OfferSlug: "clarity", Email: "ana@example.com"}

	t.Run("valid coupon previews the discount", func(t *testing.T) {
		uc, repo, offers := newCoupons()
		offers.On("FindBySlug", ctx, "clarity").Return(clarityOffer, nil)
		repo.On("FindByCode", ctx, "SPRING20").Return(&entity.Coupon{ID: "cpn-1", Kind: entity.CouponPercent, Value: 20, Active: true}, nil)
		repo.On("HasRedemption", ctx, "cpn-1", "ana@example.com").Return(false, nil)

		out, err := uc.Validate(ctx, in)
		require.NoError(t, err)
		assert.True(t, out.Valid)
		assert.Equal(t, 9900, out.OriginalPriceCents)
		assert.Equal(t, 7920, out.DiscountedPriceCents)
	})

	tests := []struct {
		name     string
		coupon   *entity.Coupon
		redeemed bool
		reason   string
	}{
		{"expired", &entity.Coupon{ID: "c", Active: true, ExpiresAt: &past}, false, entity.CouponReasonExpired},
		{"inactive", &entity.Coupon{ID: "c"}, false, entity.CouponReasonInactive},
		{"other offer", &entity.Coupon{ID: "c", Active: true, OfferID: "off-2"}, false, entity.CouponReasonWrongOffer},
		{"exhausted", &entity.Coupon{ID: "c", Active: true, MaxRedemptions: 5, RedeemedCount: 5}, false, entity.CouponReasonExhausted},
		{"already used by this email", &entity.Coupon{ID: "c", Active: true}, true, entity.CouponReasonAlreadyRedeemed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, offers := newCoupons()
			offers.On("FindBySlug", ctx, "clarity").Return(clarityOffer, nil)
			repo.On("FindByCode", ctx, "SPRING20").Return(tt.coupon, nil)
			repo.On("HasRedemption", ctx, "c", "ana@example.com").Return(tt.redeemed, nil)

			out, err := uc.Validate(ctx, in)
			require.NoError(t, err)
			assert.False(t, out.Valid)
			assert.Equal(t, tt.reason, out.Reason)
			assert.Equal(t, out.OriginalPriceCents, out.DiscountedPriceCents)
		})
	}

	t.Run("unknown code", func(t *testing.T) {
		uc, repo, offers := newCoupons()
		offers.On("FindBySlug", ctx, "clarity").Return(clarityOffer, nil)
		repo.On("FindByCode", ctx, "SPRING20").Return(nil, entity.ErrNotFound)

		out, err := uc.Validate(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, entity.CouponReasonNotFound, out.Reason)
	})
}

func TestCouponCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("scoped to an offer", func(t *testing.T) {
		uc, repo, offers := newCoupons()
		offers.On("FindBySlug", ctx, "clarity").Return(clarityOffer, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(c *entity.Coupon) bool {
			return c.Code == "LAUNCH" && c.OfferID == "off-1" && c.Active
		})).Return(nil)

		c, err := uc.Create(ctx, CreateCouponInput{Code: "launch", Kind: entity.CouponFixed, Value: 1500, OfferSlug: "clarity"})
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
	})

	t.Run("duplicate code", func(t *testing.T) {
		uc, repo, _ := newCoupons()
		repo.On("Create", ctx, mock.Anything).Return(entity.ErrAlreadyExists)

		_, err := uc.Create(ctx, CreateCouponInput{Code: "LAUNCH", Kind: entity.CouponPercent, Value: 10})
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, CodeConflict, de.Code)
	})

	t.Run("invalid values", func(t *testing.T) {
		uc, _, _ := newCoupons()
		past := testNow.Add(-time.Minute)
		_, err := uc.Create(ctx, CreateCouponInput{Code: "BAD CODE", Kind: entity.CouponPercent, Value: 120, MaxRedemptions: -1, ExpiresAt: &past})
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 4)
	})
}
