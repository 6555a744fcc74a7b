package entity

import (
	"context"
	"sort"
	"strings"
	"time"
)

const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
)

const (
	TriggerBookingAbandoned   = "booking_abandoned"
	TriggerPaywallHit         = "paywall_hit"
	TriggerLessonStreakBroken = "lesson_streak_broken"
	TriggerTrialEnding        = "trial_ending"
	TriggerReferralMilestone  = "referral_milestone"
)

type NudgeTemplate struct {
	Kind    string
	Channel string
	Title   string
	Body    string
}

// nudgeTemplates maps a trigger to the nudge it produces.
var nudgeTemplates = map[string]NudgeTemplate{
	TriggerBookingAbandoned: {
		Kind:    "reminder",
		Channel: ChannelEmail,
		Title:   "Your discovery call is one click away",
		Body:    "Hi {{name}}, you started booking a call but did not finish. Pick a time that works for you.",
	},
	TriggerPaywallHit: {
		Kind:    "upsell",
		Channel: ChannelInApp,
		Title:   "Unlock every lesson",
		Body:    "You have used your free lessons this month. Upgrade to keep growing.",
	},
	TriggerLessonStreakBroken: {
		Kind:    "habit",
		Channel: ChannelInApp,
		Title:   "Pick up where you left off",
		Body:    "A short lesson today keeps your momentum going, {{name}}.",
	},
	TriggerTrialEnding: {
		Kind:    "billing",
		Channel: ChannelEmail,
		Title:   "Your trial ends soon",
		Body:    "Hi {{name}}, your trial ends in a few days. Choose a plan to keep access.",
	},
	TriggerReferralMilestone: {
		Kind:    "celebration",
		Channel: ChannelInApp,
		Title:   "Thank you for spreading the word",
		Body:    "{{name}}, your referrals just hit a new milestone.",
	},
}

func LookupNudgeTemplate(trigger string) (NudgeTemplate, bool) {
	t, ok := nudgeTemplates[trigger]
	return t, ok
}

func NudgeTriggers() []string {
	out := make([]string, 0, len(nudgeTemplates))
	for k := range nudgeTemplates {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Render replaces {{key}} placeholders from vars in a single pass. An empty
// name renders as "there"; placeholders without a value are left as is.
func (t NudgeTemplate) Render(vars map[string]string) (title, body string) {
	name := vars["name"]
	if name == "" {
		name = "there"
	}
	pairs := []string{"{{name}}", name}
	for k, v := range vars {
		if k != "name" {
			pairs = append(pairs, "{{"+k+"}}", v)
		}
	}
	r := strings.NewReplacer(pairs...)
	return r.Replace(t.Title), r.Replace(t.Body)
}

type Nudge struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Trigger     string     `json:"trigger"`
	Kind        string     `json:"kind"`
	Channel     string     `json:"channel"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	CreatedAt   time.Time  `json:"created_at"`
	DismissedAt *time.Time `json:"dismissed_at,omitempty"`
}

type NudgeRepositoryInterface interface {
	LastForTrigger(ctx context.Context, userID, trigger string) (*Nudge, error)
	Create(ctx context.Context, n *Nudge) error
	ListPending(ctx context.Context, userID string) ([]*Nudge, error)
	// Dismiss returns ErrNotFound when the nudge does not belong to the user.
	Dismiss(ctx context.Context, userID, id string, at time.Time) error
}
