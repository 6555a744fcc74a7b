package entity

import (
	"context"
	"crypto/rand"
	"time"
)

const (
	ReferralPending   = "PENDING"
	ReferralConverted = "CONVERTED"
	ReferralCodeLen   = 8
)

// Crockford-style alphabet without easily confused characters.
const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type ReferralCode struct {
	Code      string    `json:"code"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Referral struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	ReferrerID    string     `json:"referrer_id"`
	ReferredEmail string     `json:"referred_email"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ConvertedAt   *time.Time `json:"converted_at,omitempty"`
}

func NewReferralCode() (string, error) {
	buf := make([]byte, ReferralCodeLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = referralAlphabet[int(b)%len(referralAlphabet)]
	}
	return string(buf), nil
}

type ReferralRepositoryInterface interface {
	FindCodeByUser(ctx context.Context, userID string) (*ReferralCode, error)
	FindCode(ctx context.Context, code string) (*ReferralCode, error)
	// CreateCode returns ErrAlreadyExists on a code collision.
	CreateCode(ctx context.Context, c *ReferralCode) error
	Track(ctx context.Context, r *Referral) error
	ListByReferrer(ctx context.Context, userID string) ([]*Referral, error)
	MarkConverted(ctx context.Context, referredEmail string, at time.Time) error
}
