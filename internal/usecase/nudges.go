package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/infra/queue"
)

type EvaluateNudgeInput struct {
	Trigger string            `json:"trigger"`
	Context map[string]string `json:"context,omitempty"`
}

type EvaluateNudgeOutput struct {
	Created bool          `json:"created"`
	Nudge   *entity.Nudge `json:"nudge,omitempty"`
}

type NudgeUseCase struct {
	Repo     entity.NudgeRepositoryInterface
	Queue    EventPublisher
	Cooldown time.Duration
	Logger   *zap.Logger
	Clock    Clock
}

func NewNudgeUseCase(repo entity.NudgeRepositoryInterface, q EventPublisher, cooldown time.Duration, logger *zap.Logger) *NudgeUseCase {
	return &NudgeUseCase{Repo: repo, Queue: q, Cooldown: cooldown, Logger: logger}
}

func (uc *NudgeUseCase) Evaluate(ctx context.Context, caller Caller, input EvaluateNudgeInput) (*EvaluateNudgeOutput, error) {
	tmpl, ok := entity.LookupNudgeTemplate(input.Trigger)
	if !ok {
		return nil, &DomainError{Code: CodeUnknownTrigger, Message: "unknown trigger " + input.Trigger}
	}

	now := uc.Clock.now()
	last, err := uc.Repo.LastForTrigger(ctx, caller.UserID, input.Trigger)
	switch {
	case err == nil && now.Sub(last.CreatedAt) < uc.Cooldown:
		return &EvaluateNudgeOutput{Created: false}, nil
	case err != nil && !errors.Is(err, entity.ErrNotFound):
		return nil, dbError("failed to read nudges", err)
	}

	vars := map[string]string{"name": caller.Name}
	for k, v := range input.Context {
		vars[k] = v
	}
	title, body := tmpl.Render(vars)

	n := &entity.Nudge{
		ID:        uuid.New().String(),
		UserID:    caller.UserID,
		Trigger:   input.Trigger,
		Kind:      tmpl.Kind,
		Channel:   tmpl.Channel,
		Title:     title,
		Body:      body,
		CreatedAt: now,
	}
	if err := uc.Repo.Create(ctx, n); err != nil {
		return nil, dbError("failed to create nudge", err)
	}

	if n.Channel == entity.ChannelEmail && caller.Email != "" {
		if err := uc.Queue.Publish(ctx, queue.EventNudgeCreated, queue.NudgePayload{
			NudgeID: n.ID,
			UserID:  n.UserID,
			Email:   caller.Email,
			Title:   n.Title,
			Body:    n.Body,
		}); err != nil {
			uc.Logger.Warn("nudge stored but email not queued", zap.String("nudge_id", n.ID), zap.Error(err))
		}
	}
	return &EvaluateNudgeOutput{Created: true, Nudge: n}, nil
}

func (uc *NudgeUseCase) Pending(ctx context.Context, userID string) ([]*entity.Nudge, error) {
	list, err := uc.Repo.ListPending(ctx, userID)
	if err != nil {
		return nil, dbError("failed to list nudges", err)
	}
	return list, nil
}

func (uc *NudgeUseCase) Dismiss(ctx context.Context, userID, id string) error {
	if err := uc.Repo.Dismiss(ctx, userID, id, uc.Clock.now()); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return notFound("nudge not found")
		}
		return dbError("failed to dismiss nudge", err)
	}
	return nil
}
