package entity

import (
	"context"
	"sort"
	"time"
)

const (
	ContentBlog       = "blog"
	ContentSocial     = "social"
	ContentNewsletter = "newsletter"

	SocialScheduled  = "scheduled"
	SocialDispatched = "dispatched"
)

// CalendarItem is the unified view over blog posts, social posts and newsletters.
type CalendarItem struct {
	Kind        string    `json:"kind"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Channel     string    `json:"channel,omitempty"`
	Status      string    `json:"status"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func SortCalendar(items []CalendarItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.ScheduledAt.Equal(b.ScheduledAt) {
			return a.ScheduledAt.Before(b.ScheduledAt)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ID < b.ID
	})
}

type SocialPost struct {
	ID          string    `json:"id"`
	Channel     string    `json:"channel"`
	Body        string    `json:"body"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

type ContentRepositoryInterface interface {
	BlogPosts(ctx context.Context, from, to time.Time) ([]CalendarItem, error)
	SocialPosts(ctx context.Context, from, to time.Time) ([]CalendarItem, error)
	Newsletters(ctx context.Context, from, to time.Time) ([]CalendarItem, error)
	// ClaimDueSocialPosts marks due scheduled posts dispatched and returns them.
	ClaimDueSocialPosts(ctx context.Context, now time.Time) ([]*SocialPost, error)
	// RequeueSocialPost returns a claimed post to scheduled.
	RequeueSocialPost(ctx context.Context, id string) error
}
