package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/ics"
	"github.com/zhengrowth/growth-api/internal/infra/queue"
)

type CreateBookingInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Topic           string `json:"topic"`
	StartsAt        string `json:"starts_at"`
	DurationMinutes int    `json:"duration_minutes"`
	Timezone        string `json:"timezone"`
	Notes           string `json:"notes,omitempty"`
}

type BookingUseCase struct {
	Repo      entity.BookingRepositoryInterface
	Queue     EventPublisher
	Organizer ics.Organizer
	Logger    *zap.Logger
	Clock     Clock
}

func NewBookingUseCase(repo entity.BookingRepositoryInterface, q EventPublisher, org ics.Organizer, logger *zap.Logger) *BookingUseCase {
	return &BookingUseCase{Repo: repo, Queue: q, Organizer: org, Logger: logger}
}

func (uc *BookingUseCase) validate(input CreateBookingInput) (time.Time, []ValidationError) {
	var errs []ValidationError
	errs = requireField(errs, "name", input.Name)
	errs = maxLen(errs, "name", input.Name, 200)
	errs = noControl(errs, "name", input.Name, false)
	errs = requireEmail(errs, "email", input.Email)
	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errs = append(errs, ValidationError{"phone", "must be a valid phone number"})
	}
	errs = requireField(errs, "topic", input.Topic)
	errs = maxLen(errs, "topic", input.Topic, 200)
	errs = noControl(errs, "topic", input.Topic, false)
	errs = maxLen(errs, "notes", input.Notes, 2000)
	errs = noControl(errs, "notes", input.Notes, true)

	if input.DurationMinutes != 30 && input.DurationMinutes != 60 {
		errs = append(errs, ValidationError{"duration_minutes", "must be 30 or 60"})
	}
	if input.Timezone == "" {
		errs = append(errs, ValidationError{"timezone", "is required"})
	} else if _, err := time.LoadLocation(input.Timezone); err != nil {
		errs = append(errs, ValidationError{"timezone", "must be an IANA time zone"})
	}

	var start time.Time
	if strings.TrimSpace(input.StartsAt) == "" {
		errs = append(errs, ValidationError{"starts_at", "is required"})
	} else if t, ok := parseRFC3339(input.StartsAt); !ok {
		errs = append(errs, ValidationError{"starts_at", "must be an RFC3339 datetime"})
	} else if !t.After(uc.Clock.now()) {
		errs = append(errs, ValidationError{"starts_at", "must be in the future"})
	} else {
		start = t.UTC()
	}
	return start, errs
}

func (uc *BookingUseCase) Create(ctx context.Context, input CreateBookingInput) (*entity.Booking, error) {
	start, errs := uc.validate(input)
	if err := validationResult(errs); err != nil {
		return nil, err
	}

	now := uc.Clock.now()
	b := &entity.Booking{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		Email:     entity.NormalizeEmail(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Topic:     strings.TrimSpace(input.Topic),
		StartsAt:  start,
		EndsAt:    start.Add(time.Duration(input.DurationMinutes) * time.Minute),
		Timezone:  input.Timezone,
		Status:    entity.BookingConfirmed,
		Notes:     strings.TrimSpace(input.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.Repo.CreateIfFree(ctx, b); err != nil {
		if errors.Is(err, entity.ErrSlotTaken) {
			return nil, &DomainError{Code: CodeSlotTaken, Message: "that time slot is no longer available"}
		}
		return nil, dbError("failed to create booking", err)
	}

	if err := uc.Queue.Publish(ctx, queue.EventBookingCreated, queue.BookingPayload{Booking: *b}); err != nil {
		uc.Logger.Warn("booking stored but confirmation not queued", zap.String("booking_id", b.ID), zap.Error(err))
	}
	return b, nil
}

// Cancel is idempotent; the email must match the booking.
func (uc *BookingUseCase) Cancel(ctx context.Context, id, email string) (*entity.Booking, error) {
	b, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.NormalizeEmail(email) != b.Email {
		return nil, &DomainError{Code: CodeForbidden, Message: "email does not match booking"}
	}
	if b.Status == entity.BookingCanceled {
		return b, nil
	}

	if err := uc.Repo.UpdateStatus(ctx, b.ID, entity.BookingCanceled); err != nil {
		return nil, dbError("failed to cancel booking", err)
	}
	b.Status = entity.BookingCanceled
	b.UpdatedAt = uc.Clock.now()

	if err := uc.Queue.Publish(ctx, queue.EventBookingCanceled, queue.BookingPayload{Booking: *b}); err != nil {
		uc.Logger.Warn("booking canceled but notice not queued", zap.String("booking_id", b.ID), zap.Error(err))
	}
	return b, nil
}

// Invite renders the booking as an ICS document.
func (uc *BookingUseCase) Invite(ctx context.Context, id string) ([]byte, error) {
	b, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return ics.BookingInvite(b, uc.Organizer, uc.Clock.now()), nil
}

func (uc *BookingUseCase) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	if !to.After(from) {
		return nil, ValidationErrors{{"to", "must be after from"}}
	}
	list, err := uc.Repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, dbError("failed to list bookings", err)
	}
	return list, nil
}

func (uc *BookingUseCase) find(ctx context.Context, id string) (*entity.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, notFound("booking not found")
	}
	b, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("booking not found")
		}
		return nil, dbError("failed to load booking", err)
	}
	return b, nil
}
