package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/infra/queue"
)

const defaultCalendarDays = 30

type ContentCalendarUseCase struct {
	Repo   entity.ContentRepositoryInterface
	Queue  EventPublisher
	Logger *zap.Logger
	Clock  Clock
}

func NewContentCalendarUseCase(repo entity.ContentRepositoryInterface, q EventPublisher, logger *zap.Logger) *ContentCalendarUseCase {
	return &ContentCalendarUseCase{Repo: repo, Queue: q, Logger: logger}
}

// Window fills a missing range with today .. today+30d.
func (uc *ContentCalendarUseCase) Window(from, to *time.Time) (time.Time, time.Time, error) {
	now := uc.Clock.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, defaultCalendarDays)
	if from != nil {
		start = from.UTC()
	}
	if to != nil {
		end = to.UTC()
	}
	if !end.After(start) {
		return start, end, ValidationErrors{{"to", "must be after from"}}
	}
	return start, end, nil
}

func (uc *ContentCalendarUseCase) Calendar(ctx context.Context, from, to time.Time) ([]entity.CalendarItem, error) {
	var blog, social, news []entity.CalendarItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		blog, err = uc.Repo.BlogPosts(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		social, err = uc.Repo.SocialPosts(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		news, err = uc.Repo.Newsletters(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dbError("failed to load content calendar", err)
	}

	items := make([]entity.CalendarItem, 0, len(blog)+len(social)+len(news))
	items = append(items, blog...)
	items = append(items, social...)
	items = append(items, news...)
	entity.SortCalendar(items)
	return items, nil
}

// DispatchSocial claims due posts and emits one event per post. Posts whose
// event could not be published go back to scheduled and are left out of the
// returned ids.
func (uc *ContentCalendarUseCase) DispatchSocial(ctx context.Context) ([]string, error) {
	posts, err := uc.Repo.ClaimDueSocialPosts(ctx, uc.Clock.now())
	if err != nil {
		return nil, dbError("failed to claim social posts", err)
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		err := uc.Queue.Publish(ctx, queue.EventSocialDispatch, queue.SocialPayload{
			PostID:  p.ID,
			Channel: p.Channel,
			Body:    p.Body,
		})
		if err == nil {
			ids = append(ids, p.ID)
			continue
		}
		uc.Logger.Error("social post not published, requeueing", zap.String("post_id", p.ID), zap.Error(err))
		if rerr := uc.Repo.RequeueSocialPost(ctx, p.ID); rerr != nil {
			uc.Logger.Error("social post stuck in dispatched", zap.String("post_id", p.ID), zap.Error(rerr))
		}
	}
	return ids, nil
}
