package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/infra/queue"
)

type CaptureLeadInput struct {
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Source string `json:"source,omitempty"`
}

type CaptureLeadOutput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type CaptureLeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Queue  EventPublisher
	Logger *zap.Logger
}

func NewCaptureLeadUseCase(repo entity.LeadRepositoryInterface, q EventPublisher, logger *zap.Logger) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{Repo: repo, Queue: q, Logger: logger}
}

func ValidateCaptureLeadInput(input CaptureLeadInput) []ValidationError {
	var errs []ValidationError
	errs = requireEmail(errs, "email", input.Email)
	errs = maxLen(errs, "name", input.Name, 200)
	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errs = append(errs, ValidationError{"phone", "must be a valid phone number"})
	}
	errs = maxLen(errs, "source", input.Source, 64)
	return errs
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	if err := validationResult(ValidateCaptureLeadInput(input)); err != nil {
		return nil, err
	}

	lead := &entity.Lead{
		Email:  entity.NormalizeEmail(input.Email),
		Name:   strings.TrimSpace(input.Name),
		Phone:  strings.TrimSpace(input.Phone),
		Source: strings.TrimSpace(input.Source),
	}
	if err := uc.Repo.Upsert(ctx, lead); err != nil {
		return nil, dbError("failed to capture lead", err)
	}

	// The lead is stored; a lost welcome email is not worth failing the request.
	if err := uc.Queue.Publish(ctx, queue.EventLeadCaptured, queue.LeadPayload{
		LeadID: lead.ID,
		Email:  lead.Email,
		Name:   lead.Name,
		Source: lead.Source,
	}); err != nil {
		uc.Logger.Warn("lead captured but event not published", zap.String("lead_id", lead.ID), zap.Error(err))
	}

	return &CaptureLeadOutput{ID: lead.ID, Status: lead.Status}, nil
}

func (uc *CaptureLeadUseCase) List(ctx context.Context, status string, limit int) ([]*entity.Lead, error) {
	if limit <= 0 {
		limit = entity.DefaultLeadListLimit
	}
	if limit > entity.MaxLeadListLimit {
		limit = entity.MaxLeadListLimit
	}
	status = strings.ToUpper(strings.TrimSpace(status))
	switch status {
	case "", entity.LeadStatusNew, entity.LeadStatusNurturing, entity.LeadStatusConverted:
	default:
		return nil, ValidationErrors{{"status", "must be NEW, NURTURING or CONVERTED"}}
	}
	leads, err := uc.Repo.List(ctx, status, limit)
	if err != nil {
		return nil, dbError("failed to list leads", err)
	}
	return leads, nil
}
