package usecase

import (
	"context"

	"github.com/zhengrowth/growth-api/internal/entity"
)

const engagementWindowDays = 30

type EngagementUseCase struct {
	Repo  entity.EngagementRepositoryInterface
	Clock Clock
}

func NewEngagementUseCase(repo entity.EngagementRepositoryInterface) *EngagementUseCase {
	return &EngagementUseCase{Repo: repo}
}

func (uc *EngagementUseCase) Score(ctx context.Context, userID string) (*entity.EngagementScore, error) {
	if userID == "" {
		return nil, ValidationErrors{{"user_id", "is required"}}
	}
	since := uc.Clock.now().AddDate(0, 0, -engagementWindowDays)
	stats, err := uc.Repo.Stats(ctx, userID, since)
	if err != nil {
		return nil, dbError("failed to load engagement stats", err)
	}
	score, tier := entity.ScoreEngagement(stats)
	return &entity.EngagementScore{UserID: userID, Score: score, Tier: tier, Stats: stats}, nil
}
