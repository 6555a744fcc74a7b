package ics

import (
	"fmt"
	"time"

	"github.com/zhengrowth/growth-api/internal/entity"
)

// Organizer of every coaching call invite.
type Organizer struct {
	Name   string
	Email  string
	Domain string
}

// BookingInvite renders the invite, or the cancellation when the booking is canceled.
func BookingInvite(b *entity.Booking, org Organizer, now time.Time) []byte {
	canceled := b.Status == entity.BookingCanceled
	method := MethodRequest
	seq := 0
	if canceled {
		method = MethodCancel
		seq = 1
	}

	desc := fmt.Sprintf("Topic: %s\nTime zone: %s", b.Topic, b.Timezone)
	if b.Notes != "" {
		desc += "\nNotes: " + b.Notes
	}

	return Write(method, Event{
		UID:         fmt.Sprintf("%s@%s", b.ID, org.Domain),
		Sequence:    seq,
		Summary:     fmt.Sprintf("ZhenGrowth coaching call: %s", b.Topic),
		Description: desc,
		Location:    "Online",
		Start:       b.StartsAt,
		End:         b.EndsAt,
		Stamp:       now,
		Organizer:   Person{Name: org.Name, Email: org.Email},
		Attendee:    Person{Name: b.Name, Email: b.Email},
		Canceled:    canceled,
	})
}
