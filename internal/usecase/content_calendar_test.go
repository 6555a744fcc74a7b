package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/infra/queue"
)

func newCalendar() (*ContentCalendarUseCase, *MockContentRepository, *MockPublisher) {
	repo := new(MockContentRepository)
	pub := new(MockPublisher)
	uc := NewContentCalendarUseCase(repo, pub, zap.NewNop())
	uc.Clock = fixedClock()
	return uc, repo, pub
}

func TestContentCalendarWindowDefaults(t *testing.T) {
	uc, _, _ := newCalendar()

	from, to, err := uc.Window(nil, nil)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC), to)

	_, _, err = uc.Window(&to, &from)
	var verrs ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestContentCalendarMergesAndSorts(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := newCalendar()
	from, to := testNow, testNow.AddDate(0, 0, 7)
	day := func(n int) time.Time { return testNow.AddDate(0, 0, n) }

	repo.On("BlogPosts", mock.Anything, from, to).Return([]entity.CalendarItem{{Kind: entity.ContentBlog, ID: "b1", ScheduledAt: day(3)}}, nil)
	repo.On("SocialPosts", mock.Anything, from, to).Return([]entity.CalendarItem{{Kind: entity.ContentSocial, ID: "s1", ScheduledAt: day(1)}}, nil)
	repo.On("Newsletters", mock.Anything, from, to).Return([]entity.CalendarItem{{Kind: entity.ContentNewsletter, ID: "n1", ScheduledAt: day(3)}}, nil)

	items, err := uc.Calendar(ctx, from, to)

	require.NoError(t, err)
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	assert.Equal(t, []string{"s1", "b1", "n1"}, ids)
}

func TestContentCalendarSourceFailure(t *testing.T) {
	uc, repo, _ := newCalendar()
	repo.On("BlogPosts", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("down"))
	repo.On("SocialPosts", mock.Anything, mock.Anything, mock.Anything).Return([]entity.CalendarItem{}, nil)
	repo.On("Newsletters", mock.Anything, mock.Anything, mock.Anything).Return([]entity.CalendarItem{}, nil)

	_, err := uc.Calendar(context.Background(), testNow, testNow.Add(time.Hour))
	assert.True(t, IsTechnicalError(err))
}

func TestContentCalendarDispatchSocial(t *testing.T) {
	ctx := context.Background()
	uc, repo, pub := newCalendar()
	repo.On("ClaimDueSocialPosts", ctx, testNow).Return([]*entity.SocialPost{
		{ID: "sp-1", Channel: "instagram", Body: "New lesson"},
		{ID: "sp-2", Channel: "linkedin", Body: "Workshop"},
	}, nil)
	pub.On("Publish", ctx, queue.EventSocialDispatch, mock.AnythingOfType("queue.SocialPayload")).Return(nil).Twice()

	ids, err := uc.DispatchSocial(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"sp-1", "sp-2"}, ids)
	pub.AssertExpectations(t)
}

func TestContentCalendarDispatchSocialRequeuesOnPublishFailure(t *testing.T) {
	ctx := context.Background()
	uc, repo, pub := newCalendar()
	repo.On("ClaimDueSocialPosts", ctx, testNow).Return([]*entity.SocialPost{
		{ID: "sp-1", Channel: "instagram", Body: "New lesson"},
		{ID: "sp-2", Channel: "linkedin", Body: "Workshop"},
	}, nil)
	pub.On("Publish", ctx, queue.EventSocialDispatch, queue.SocialPayload{PostID: "sp-1", Channel: "instagram", Body: "New lesson"}).
		Return(errors.New("channel closed")).Once()
	pub.On("Publish", ctx, queue.EventSocialDispatch, queue.SocialPayload{PostID: "sp-2", Channel: "linkedin", Body: "Workshop"}).
		Return(nil).Once()
	repo.On("RequeueSocialPost", ctx, "sp-1").Return(nil).Once()

	ids, err := uc.DispatchSocial(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"sp-2"}, ids)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "RequeueSocialPost", ctx, "sp-2")
}

func TestContentCalendarDispatchSocialNothingPublished(t *testing.T) {
	ctx := context.Background()
	uc, repo, pub := newCalendar()
	repo.On("ClaimDueSocialPosts", ctx, testNow).Return([]*entity.SocialPost{{ID: "sp-1", Channel: "instagram"}}, nil)
	pub.On("Publish", ctx, queue.EventSocialDispatch, mock.Anything).Return(errors.New("channel closed"))
	repo.On("RequeueSocialPost", ctx, "sp-1").Return(errors.New("conn reset"))

	ids, err := uc.DispatchSocial(ctx)

	require.NoError(t, err)
	assert.Empty(t, ids)
}
