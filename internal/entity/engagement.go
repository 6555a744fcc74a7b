package entity

import (
	"context"
	"time"
)

const (
	TierCold = "cold"
	TierWarm = "warm"
	TierHot  = "hot"
)

type EngagementStats struct {
	LessonsLast30d     int  `json:"lessons_last_30d"`
	Bookings           int  `json:"bookings"`
	ConvertedReferrals int  `json:"converted_referrals"`
	ActiveSubscription bool `json:"active_subscription"`
}

type EngagementScore struct {
	UserID string          `json:"user_id"`
	Score  int             `json:"score"`
	Tier   string          `json:"tier"`
	Stats  EngagementStats `json:"stats"`
}

func ScoreEngagement(s EngagementStats) (int, string) {
	score := 5*s.LessonsLast30d + 15*s.Bookings + 10*s.ConvertedReferrals
	if s.ActiveSubscription {
		score += 20
	}
	if score > 100 {
		score = 100
	}
	switch {
	case score < 25:
		return score, TierCold
	case score < 60:
		return score, TierWarm
	default:
		return score, TierHot
	}
}

type EngagementRepositoryInterface interface {
	Stats(ctx context.Context, userID string, since time.Time) (EngagementStats, error)
}
