package queue

import (
	"encoding/json"
	"time"

	"github.com/zhengrowth/growth-api/internal/entity"
)

const (
	EventLeadCaptured          = "lead.captured"
	EventBookingCreated        = "booking.created"
	EventBookingCanceled       = "booking.canceled"
	EventSubscriptionActivated = "subscription.activated"
	EventNudgeCreated          = "nudge.created"
	EventSocialDispatch        = "social.dispatch"
)

// Envelope is the message body on the wire. The routing key equals Type.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

type LeadPayload struct {
	LeadID string `json:"lead_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

type BookingPayload struct {
	Booking entity.Booking `json:"booking"`
}

type SubscriptionPayload struct {
	SubscriptionID string `json:"subscription_id"`
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	OfferTitle     string `json:"offer_title"`
}

type NudgePayload struct {
	NudgeID string `json:"nudge_id"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

type SocialPayload struct {
	PostID  string `json:"post_id"`
	Channel string `json:"channel"`
	Body    string `json:"body"`
}
