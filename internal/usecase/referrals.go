package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/zhengrowth/growth-api/internal/entity"
)

const maxCodeAttempts = 5

type TrackReferralInput struct {
	Code          string `json:"code"`
	ReferredEmail string `json:"referred_email"`
}

type ReferralSummary struct {
	Code      string             `json:"code,omitempty"`
	Total     int                `json:"total"`
	Converted int                `json:"converted"`
	Referrals []*entity.Referral `json:"referrals"`
}

type ReferralUseCase struct {
	Repo    entity.ReferralRepositoryInterface
	NewCode func() (string, error)
	Clock   Clock
}

func NewReferralUseCase(repo entity.ReferralRepositoryInterface) *ReferralUseCase {
	return &ReferralUseCase{Repo: repo, NewCode: entity.NewReferralCode}
}

func (uc *ReferralUseCase) GetOrCreateCode(ctx context.Context, caller Caller) (*entity.ReferralCode, error) {
	existing, err := uc.Repo.FindCodeByUser(ctx, caller.UserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return nil, dbError("failed to read referral code", err)
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := uc.NewCode()
		if err != nil {
			return nil, &TechnicalError{Code: CodeRandomSource, Message: "failed to generate code", Err: err}
		}
		rc := &entity.ReferralCode{
			Code:      code,
			UserID:    caller.UserID,
			Email:     entity.NormalizeEmail(caller.Email),
			CreatedAt: uc.Clock.now(),
		}
		err = uc.Repo.CreateCode(ctx, rc)
		if err == nil {
			return rc, nil
		}
		if !errors.Is(err, entity.ErrAlreadyExists) {
			return nil, dbError("failed to store referral code", err)
		}
		// either a code collision or a concurrent request for the same user
		if mine, err := uc.Repo.FindCodeByUser(ctx, caller.UserID); err == nil {
			return mine, nil
		}
	}
	return nil, &TechnicalError{Code: CodeDatabase, Message: "could not allocate a unique referral code"}
}

func (uc *ReferralUseCase) Track(ctx context.Context, input TrackReferralInput) (*entity.Referral, error) {
	var errs []ValidationError
	errs = requireField(errs, "code", input.Code)
	errs = requireEmail(errs, "referred_email", input.ReferredEmail)
	if err := validationResult(errs); err != nil {
		return nil, err
	}

	rc, err := uc.Repo.FindCode(ctx, strings.ToUpper(strings.TrimSpace(input.Code)))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("referral code not found")
		}
		return nil, dbError("failed to read referral code", err)
	}

	email := entity.NormalizeEmail(input.ReferredEmail)
	if email == rc.Email {
		return nil, &DomainError{Code: CodeSelfReferral, Message: "you cannot refer yourself"}
	}

	r := &entity.Referral{
		ID:            uuid.New().String(),
		Code:          rc.Code,
		ReferrerID:    rc.UserID,
		ReferredEmail: email,
		Status:        entity.ReferralPending,
		CreatedAt:     uc.Clock.now(),
	}
	if err := uc.Repo.Track(ctx, r); err != nil {
		if errors.Is(err, entity.ErrReferralDuplicate) {
			return nil, &DomainError{Code: CodeConflict, Message: "this email was already referred"}
		}
		return nil, dbError("failed to track referral", err)
	}
	return r, nil
}

func (uc *ReferralUseCase) Summary(ctx context.Context, userID string) (*ReferralSummary, error) {
	list, err := uc.Repo.ListByReferrer(ctx, userID)
	if err != nil {
		return nil, dbError("failed to list referrals", err)
	}
	s := &ReferralSummary{Total: len(list), Referrals: list}
	if s.Referrals == nil {
		s.Referrals = []*entity.Referral{}
	}
	for _, r := range list {
		if r.Status == entity.ReferralConverted {
			s.Converted++
		}
	}
	if rc, err := uc.Repo.FindCodeByUser(ctx, userID); err == nil {
		s.Code = rc.Code
	} else if !errors.Is(err, entity.ErrNotFound) {
		return nil, dbError("failed to read referral code", err)
	}
	return s, nil
}
