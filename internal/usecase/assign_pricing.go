package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type AssignPricingInput struct {
	VisitorID  string `json:"visitor_id"`
	Experiment string `json:"experiment"`
}

type AssignPricingUseCase struct {
	Repo entity.PricingRepositoryInterface
	Rand func(n int) int
}

func NewAssignPricingUseCase(repo entity.PricingRepositoryInterface) *AssignPricingUseCase {
	return &AssignPricingUseCase{Repo: repo}
}

func (uc *AssignPricingUseCase) Execute(ctx context.Context, input AssignPricingInput) (*entity.PricingAssignment, error) {
	var errs []ValidationError
	errs = requireField(errs, "visitor_id", input.VisitorID)
	errs = maxLen(errs, "visitor_id", input.VisitorID, visitorIDMax)
	errs = requireField(errs, "experiment", input.Experiment)
	if err := validationResult(errs); err != nil {
		return nil, err
	}
	experiment := strings.TrimSpace(input.Experiment)
	visitor := strings.TrimSpace(input.VisitorID)

	existing, err := uc.Repo.FindAssignment(ctx, experiment, visitor)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return nil, dbError("failed to read assignment", err)
	}

	variants, err := uc.Repo.ActiveVariants(ctx, experiment)
	if err != nil {
		return nil, dbError("failed to load variants", err)
	}
	picked := entity.PickWeighted(variants, uc.Rand)
	if picked == nil {
		return nil, &DomainError{Code: CodeNoVariants, Message: "experiment has no active variants"}
	}

	if err := uc.Repo.InsertAssignment(ctx, experiment, visitor, picked.ID); err != nil {
		return nil, dbError("failed to store assignment", err)
	}

	// Re-read so a concurrent first request for the same visitor wins consistently.
	assigned, err := uc.Repo.FindAssignment(ctx, experiment, visitor)
	if err != nil {
		return nil, dbError("failed to read assignment", err)
	}
	return assigned, nil
}
