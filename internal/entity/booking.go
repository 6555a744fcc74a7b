package entity

import (
	"context"
	"time"
)

const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCanceled  = "CANCELED"
)

// Booking is a discovery or coaching call slot.
type Booking struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Topic     string    `json:"topic"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Timezone  string    `json:"timezone"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartsAt.Before(end) && b.EndsAt.After(start)
}

type BookingRepositoryInterface interface {
	// CreateIfFree returns ErrSlotTaken when an active booking overlaps.
	CreateIfFree(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id string) (*Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ListBetween(ctx context.Context, from, to time.Time) ([]*Booking, error)
	CountByEmail(ctx context.Context, email string) (int, error)
}
