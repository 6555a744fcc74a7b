package usecase

import (
	"context"
	"time"

	"github.com/zhengrowth/growth-api/internal/entity"
)

// EventPublisher is satisfied by queue.RabbitMQProducer.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// Sealer encrypts admin secrets at rest.
type Sealer interface {
	Seal(plain []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// Clock lets tests pin time.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// Caller is the authenticated user behind a request.
type Caller struct {
	UserID string
	Email  string
	Name   string
}

type SubscriptionActivator interface {
	Execute(ctx context.Context, input PaymentEventInput) error
}

type OfferReader interface {
	FindBySlug(ctx context.Context, slug string) (*entity.Offer, error)
	FindByID(ctx context.Context, id string) (*entity.Offer, error)
}
