package usecase

import (
	"context"
	"errors"

	"github.com/zhengrowth/growth-api/internal/entity"
)

const (
	ReasonFreePreview = "free_preview"
	ReasonRewatch     = "rewatch"
	ReasonWithinLimit = "within_limit"
	ReasonUnlimited   = "unlimited"
	ReasonLimitHit    = "limit_reached"
)

type WatchDecision struct {
	Allowed bool   `json:"allowed"`
	Used    int    `json:"used"`
	Limit   int    `json:"limit"` // 0 = unlimited
	Reason  string `json:"reason"`
}

type MarkWatchOutput struct {
	Counted bool `json:"counted"`
	Used    int  `json:"used"`
}

type PaywallUseCase struct {
	Lessons   entity.LessonRepositoryInterface
	Views     entity.LessonViewRepositoryInterface
	SubRepo   entity.SubscriptionRepository
	Offers    OfferReader
	FreeLimit int
	Clock     Clock
}

func NewPaywallUseCase(
	lessons entity.LessonRepositoryInterface,
	views entity.LessonViewRepositoryInterface,
	subRepo entity.SubscriptionRepository,
	offers OfferReader,
	freeLimit int,
) *PaywallUseCase {
	return &PaywallUseCase{
		Lessons:   lessons,
		Views:     views,
		SubRepo:   subRepo,
		Offers:    offers,
		FreeLimit: freeLimit,
	}
}

func (uc *PaywallUseCase) CanWatch(ctx context.Context, userID, lessonID string) (*WatchDecision, error) {
	if lessonID == "" {
		return nil, ValidationErrors{{"lesson_id", "is required"}}
	}
	lesson, err := uc.Lessons.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("lesson not found")
		}
		return nil, dbError("failed to load lesson", err)
	}
	return uc.decide(ctx, userID, lesson, entity.ViewPeriod(uc.Clock.now()))
}

func (uc *PaywallUseCase) decide(ctx context.Context, userID string, lesson *entity.Lesson, period string) (*WatchDecision, error) {
	used, err := uc.Views.CountViews(ctx, userID, period)
	if err != nil {
		return nil, dbError("failed to count views", err)
	}
	limit, err := uc.limitFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	d := &WatchDecision{Used: used, Limit: limit}

	if lesson.FreePreview {
		d.Allowed, d.Reason = true, ReasonFreePreview
		return d, nil
	}
	if limit == 0 {
		d.Allowed, d.Reason = true, ReasonUnlimited
		return d, nil
	}

	seen, err := uc.Views.HasViewed(ctx, userID, lesson.ID, period)
	if err != nil {
		return nil, dbError("failed to read views", err)
	}
	switch {
	case seen:
		d.Allowed, d.Reason = true, ReasonRewatch
	case used < limit:
		d.Allowed, d.Reason = true, ReasonWithinLimit
	default:
		d.Reason = ReasonLimitHit
	}
	return d, nil
}

// limitFor returns the monthly lesson allowance, 0 meaning unlimited.
func (uc *PaywallUseCase) limitFor(ctx context.Context, userID string) (int, error) {
	sub, err := uc.SubRepo.FindActiveByUserID(ctx, userID)
	if errors.Is(err, entity.ErrNotFound) {
		return uc.FreeLimit, nil
	}
	if err != nil {
		return 0, dbError("failed to load subscription", err)
	}
	offer, err := uc.Offers.FindByID(ctx, sub.OfferID)
	if err != nil {
		return 0, dbError("failed to load offer", err)
	}
	return offer.LessonLimit, nil
}

// MarkWatch records a view once per lesson and month. Free previews are not counted.
func (uc *PaywallUseCase) MarkWatch(ctx context.Context, userID, lessonID string) (*MarkWatchOutput, error) {
	if lessonID == "" {
		return nil, ValidationErrors{{"lesson_id", "is required"}}
	}
	lesson, err := uc.Lessons.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("lesson not found")
		}
		return nil, dbError("failed to load lesson", err)
	}

	period := entity.ViewPeriod(uc.Clock.now())
	d, err := uc.decide(ctx, userID, lesson, period)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		return nil, &DomainError{Code: CodePaywall, Message: "monthly lesson limit reached"}
	}
	if lesson.FreePreview {
		return &MarkWatchOutput{Counted: false, Used: d.Used}, nil
	}

	counted, err := uc.Views.RecordView(ctx, userID, lesson.ID, period)
	if err != nil {
		return nil, dbError("failed to record view", err)
	}
	used := d.Used
	if counted {
		used++
	}
	return &MarkWatchOutput{Counted: counted, Used: used}, nil
}
