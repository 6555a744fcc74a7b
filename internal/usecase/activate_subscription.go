package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/infra/queue"
)

const (
	PaymentSucceeded     = "payment.succeeded"
	PaymentFailed        = "payment.failed"
	SubscriptionCanceled = "subscription.canceled"
)

// ErrEventSkipped reports a payment event that was valid but changed nothing:
// a replayed success on a paid-up subscription, or a success arriving after
// the subscription was canceled or abandoned.
var ErrEventSkipped = errors.New("payment event skipped")

// PaymentEventInput is the part of a payment provider webhook we act on.
type PaymentEventInput struct {
	Type           string `json:"type"`
	SubscriptionID string `json:"subscription_id"`
}

func IsKnownPaymentEvent(t string) bool {
	switch t {
	case PaymentSucceeded, PaymentFailed, SubscriptionCanceled:
		return true
	}
	return false
}

type ActivateSubscriptionUseCase struct {
	SubRepo      entity.SubscriptionRepository
	Offers       OfferReader
	ReferralRepo entity.ReferralRepositoryInterface
	Queue        EventPublisher
	Logger       *zap.Logger
	Clock        Clock
}

func NewActivateSubscriptionUseCase(
	subRepo entity.SubscriptionRepository,
	offers OfferReader,
	referralRepo entity.ReferralRepositoryInterface,
	q EventPublisher,
	logger *zap.Logger,
) *ActivateSubscriptionUseCase {
	return &ActivateSubscriptionUseCase{
		SubRepo:      subRepo,
		Offers:       offers,
		ReferralRepo: referralRepo,
		Queue:        q,
		Logger:       logger,
	}
}

func (uc *ActivateSubscriptionUseCase) Execute(ctx context.Context, input PaymentEventInput) error {
	if !IsKnownPaymentEvent(input.Type) {
		return &DomainError{Code: CodeValidation, Message: "unsupported event type " + input.Type}
	}
	if input.SubscriptionID == "" {
		return ValidationErrors{{"subscription_id", "is required"}}
	}

	sub, err := uc.SubRepo.FindByID(ctx, input.SubscriptionID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return notFound("subscription not found")
		}
		return dbError("failed to load subscription", err)
	}
	log := uc.Logger.With(zap.String("subscription_id", sub.ID), zap.String("event", input.Type))

	switch input.Type {
	case PaymentFailed:
		if err := uc.SubRepo.UpdateStatus(ctx, sub.ID, entity.SubscriptionPastDue, sub.CurrentPeriodEnd); err != nil {
			return dbError("failed to mark subscription past due", err)
		}
		log.Info("subscription past due")
		return nil

	case SubscriptionCanceled:
		if err := uc.SubRepo.UpdateStatus(ctx, sub.ID, entity.SubscriptionCanceled, sub.CurrentPeriodEnd); err != nil {
			return dbError("failed to cancel subscription", err)
		}
		log.Info("subscription canceled")
		return nil
	}

	now := uc.Clock.now()
	switch {
	case sub.Status == entity.SubscriptionCanceled || sub.Status == entity.SubscriptionAbandoned:
		log.Warn("payment on closed subscription not applied", zap.String("status", sub.Status))
		return ErrEventSkipped
	case sub.Status == entity.SubscriptionActive && sub.CurrentPeriodEnd != nil && sub.CurrentPeriodEnd.After(now):
		log.Info("subscription already active")
		return ErrEventSkipped
	}

	offer, err := uc.Offers.FindByID(ctx, sub.OfferID)
	if err != nil {
		return dbError("failed to load offer", err)
	}

	periodEnd := entity.PeriodEnd(offer.Interval, now)
	if err := uc.SubRepo.UpdateStatus(ctx, sub.ID, entity.SubscriptionActive, &periodEnd); err != nil {
		return dbError("failed to activate subscription", err)
	}

	if err := uc.ReferralRepo.MarkConverted(ctx, sub.Email, now); err != nil {
		log.Warn("referral conversion not recorded", zap.Error(err))
	}

	if err := uc.Queue.Publish(ctx, queue.EventSubscriptionActivated, queue.SubscriptionPayload{
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		Email:          sub.Email,
		Name:           sub.Name,
		OfferTitle:     offer.Title,
	}); err != nil {
		log.Error("activated but event not published", zap.Error(err))
	}

	log.Info("subscription activated", zap.Time("period_end", periodEnd))
	return nil
}
