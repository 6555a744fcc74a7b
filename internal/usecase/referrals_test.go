package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zhengrowth/growth-api/internal/entity"
)

func newReferrals(codes ...string) (*ReferralUseCase, *MockReferralRepository) {
	repo := new(MockReferralRepository)
	uc := NewReferralUseCase(repo)
	uc.Clock = fixedClock()
	i := 0
	uc.NewCode = func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
	return uc, repo
}

func TestReferralGetOrCreateCode(t *testing.T) {
	ctx := context.Background()

	t.Run("existing code is reused", func(t *testing.T) {
		uc, repo := newReferrals("UNUSED22")
		repo.On("FindCodeByUser", ctx, "u-1").Return(&entity.ReferralCode{Code: "ANA2HELP"}, nil)

		rc, err := uc.GetOrCreateCode(ctx, caller)
		require.NoError(t, err)
		assert.Equal(t, "ANA2HELP", rc.Code)
		repo.AssertNotCalled(t, "CreateCode", mock.Anything, mock.Anything)
	})

	t.Run("retries after a collision", func(t *testing.T) {
		uc, repo := newReferrals("TAKEN222", "FRESH333")
		repo.On("FindCodeByUser", ctx, "u-1").Return(nil, entity.ErrNotFound)
		repo.On("CreateCode", ctx, mock.MatchedBy(func(c *entity.ReferralCode) bool { return c.Code == "TAKEN222" })).
			Return(entity.ErrAlreadyExists)
		repo.On("CreateCode", ctx, mock.MatchedBy(func(c *entity.ReferralCode) bool { return c.Code == "FRESH333" })).
			Return(nil)

		rc, err := uc.GetOrCreateCode(ctx, caller)
		require.NoError(t, err)
		assert.Equal(t, "FRESH333", rc.Code)
		assert.Equal(t, "ana@example.com", rc.Email)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		uc, repo := newReferrals("TAKEN222")
		repo.On("FindCodeByUser", ctx, "u-1").Return(nil, entity.ErrNotFound)
		repo.On("CreateCode", ctx, mock.Anything).Return(entity.ErrAlreadyExists)

		_, err := uc.GetOrCreateCode(ctx, caller)
		assert.True(t, IsTechnicalError(err))
		repo.AssertNumberOfCalls(t, "CreateCode", maxCodeAttempts)
	})
}

func TestReferralTrack(t *testing.T) {
	ctx := context.Background()
	code := &entity.ReferralCode{Code: "ANA2HELP", UserID: "u-1", Email: "ana@example.com"}

	t.Run("tracks a new referral", func(t *testing.T) {
		uc, repo := newReferrals("X")
		repo.On("FindCode", ctx, "ANA2HELP").Return(code, nil)
		repo.On("Track", ctx, mock.MatchedBy(func(r *entity.Referral) bool {
			return r.ReferrerID == "u-1" && r.ReferredEmail == "bo@example.com" && r.Status == entity.ReferralPending
		})).Return(nil)

		r, err := uc.Track(ctx, TrackReferralInput{Code: " ana2help ", ReferredEmail: "Bo@Example.com"})
		require.NoError(t, err)
		assert.NotEmpty(t, r.ID)
	})

	t.Run("self referral", func(t *testing.T) {
		uc, repo := newReferrals("X")
		repo.On("FindCode", ctx, "ANA2HELP").Return(code, nil)

		_, err := uc.Track(ctx, TrackReferralInput{Code: "ANA2HELP", ReferredEmail: "ANA@example.com"})
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, CodeSelfReferral, de.Code)
	})

	t.Run("email already referred", func(t *testing.T) {
		uc, repo := newReferrals("X")
		repo.On("FindCode", ctx, "ANA2HELP").Return(code, nil)
		repo.On("Track", ctx, mock.Anything).Return(entity.ErrReferralDuplicate)

		_, err := uc.Track(ctx, TrackReferralInput{Code: "ANA2HELP", ReferredEmail: "bo@example.com"})
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, CodeConflict, de.Code)
	})
}

func TestReferralSummary(t *testing.T) {
	ctx := context.Background()
	uc, repo := newReferrals("X")
	repo.On("ListByReferrer", ctx, "u-1").Return([]*entity.Referral{
		{ID: "r1", Status: entity.ReferralConverted},
		{ID: "r2", Status: entity.ReferralPending},
	}, nil)
	repo.On("FindCodeByUser", ctx, "u-1").Return(&entity.ReferralCode{Code: "ANA2HELP"}, nil)

	s, err := uc.Summary(ctx, "u-1")

	require.NoError(t, err)
	assert.Equal(t, "ANA2HELP", s.Code)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Converted)
}
