package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockLeads struct{ mock.Mock }

func (m *mockLeads) Execute(ctx context.Context, input usecase.CaptureLeadInput) (*usecase.CaptureLeadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CaptureLeadOutput), args.Error(1)
}

func (m *mockLeads) List(ctx context.Context, status string, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

type mockActivator struct{ mock.Mock }

func (m *mockActivator) Execute(ctx context.Context, input usecase.PaymentEventInput) error {
	return m.Called(ctx, input).Error(0)
}

type mockBookings struct{ mock.Mock }

func (m *mockBookings) Create(ctx context.Context, input usecase.CreateBookingInput) (*entity.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *mockBookings) Cancel(ctx context.Context, id, email string) (*entity.Booking, error) {
	args := m.Called(ctx, id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *mockBookings) Invite(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockBookings) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Booking), args.Error(1)
}

type mockPaywall struct{ mock.Mock }

func (m *mockPaywall) CanWatch(ctx context.Context, userID, lessonID string) (*usecase.WatchDecision, error) {
	args := m.Called(ctx, userID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.WatchDecision), args.Error(1)
}

func (m *mockPaywall) MarkWatch(ctx context.Context, userID, lessonID string) (*usecase.MarkWatchOutput, error) {
	args := m.Called(ctx, userID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.MarkWatchOutput), args.Error(1)
}

type mockNudges struct{ mock.Mock }

func (m *mockNudges) Evaluate(ctx context.Context, caller usecase.Caller, input usecase.EvaluateNudgeInput) (*usecase.EvaluateNudgeOutput, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.EvaluateNudgeOutput), args.Error(1)
}

func (m *mockNudges) Pending(ctx context.Context, userID string) ([]*entity.Nudge, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Nudge), args.Error(1)
}

func (m *mockNudges) Dismiss(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type mockContent struct{ mock.Mock }

func (m *mockContent) Window(from, to *time.Time) (time.Time, time.Time, error) {
	args := m.Called(from, to)
	return args.Get(0).(time.Time), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockContent) Calendar(ctx context.Context, from, to time.Time) ([]entity.CalendarItem, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CalendarItem), args.Error(1)
}

func (m *mockContent) DispatchSocial(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockSecrets struct{ mock.Mock }

func (m *mockSecrets) Put(ctx context.Context, name, value, actor string) (*entity.SecretView, error) {
	args := m.Called(ctx, name, value, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SecretView), args.Error(1)
}

func (m *mockSecrets) List(ctx context.Context) ([]*entity.SecretView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SecretView), args.Error(1)
}

func (m *mockSecrets) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

type mockOffers struct{ mock.Mock }

func (m *mockOffers) ListActive(ctx context.Context) ([]*entity.Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Offer), args.Error(1)
}

func (m *mockOffers) FindBySlug(ctx context.Context, slug string) (*entity.Offer, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Offer), args.Error(1)
}

func (m *mockOffers) FindByID(ctx context.Context, id string) (*entity.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Offer), args.Error(1)
}

type stubPinger struct{ err error }

func (s stubPinger) PingContext(context.Context) error { return s.err }

type stubBroker struct{ closed bool }

func (s stubBroker) IsClosed() bool { return s.closed }

type mockCoupons struct{ mock.Mock }

func (m *mockCoupons) Validate(ctx context.Context, input usecase.ValidateCouponInput) (*usecase.ValidateCouponOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.ValidateCouponOutput)
	return out, args.Error(1)
}

func (m *mockCoupons) Create(ctx context.Context, input usecase.CreateCouponInput) (*entity.Coupon, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*entity.Coupon)
	return out, args.Error(1)
}

type mockCheckout struct{ mock.Mock }

func (m *mockCheckout) Execute(ctx context.Context, input usecase.CheckoutInput) (*usecase.CheckoutOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.CheckoutOutput)
	return out, args.Error(1)
}

// mockSubscriptions implements only the reads the HTTP layer makes.
type mockSubscriptions struct {
	mock.Mock
	entity.SubscriptionRepository
}

func (m *mockSubscriptions) FindLastByUserID(ctx context.Context, userID string) (*entity.Subscription, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).(*entity.Subscription)
	return out, args.Error(1)
}

type mockLessons struct {
	mock.Mock
	entity.LessonRepositoryInterface
}

func (m *mockLessons) ListPublished(ctx context.Context) ([]*entity.Lesson, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*entity.Lesson)
	return out, args.Error(1)
}

func (m *mockLessons) FindBySlug(ctx context.Context, slug string) (*entity.LessonDetail, error) {
	args := m.Called(ctx, slug)
	out, _ := args.Get(0).(*entity.LessonDetail)
	return out, args.Error(1)
}

type mockLessonVersions struct{ mock.Mock }

func (m *mockLessonVersions) Publish(ctx context.Context, lessonID string, input usecase.PublishVersionInput) (*entity.LessonVersion, error) {
	args := m.Called(ctx, lessonID, input)
	out, _ := args.Get(0).(*entity.LessonVersion)
	return out, args.Error(1)
}

func (m *mockLessonVersions) Restore(ctx context.Context, lessonID string, version int, author string) (*entity.LessonVersion, error) {
	args := m.Called(ctx, lessonID, version, author)
	out, _ := args.Get(0).(*entity.LessonVersion)
	return out, args.Error(1)
}

func (m *mockLessonVersions) History(ctx context.Context, lessonID string) ([]*entity.LessonVersion, error) {
	args := m.Called(ctx, lessonID)
	out, _ := args.Get(0).([]*entity.LessonVersion)
	return out, args.Error(1)
}

type mockReferrals struct{ mock.Mock }

func (m *mockReferrals) GetOrCreateCode(ctx context.Context, caller usecase.Caller) (*entity.ReferralCode, error) {
	args := m.Called(ctx, caller)
	out, _ := args.Get(0).(*entity.ReferralCode)
	return out, args.Error(1)
}

func (m *mockReferrals) Track(ctx context.Context, input usecase.TrackReferralInput) (*entity.Referral, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*entity.Referral)
	return out, args.Error(1)
}

func (m *mockReferrals) Summary(ctx context.Context, userID string) (*usecase.ReferralSummary, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).(*usecase.ReferralSummary)
	return out, args.Error(1)
}

type mockEngagement struct{ mock.Mock }

func (m *mockEngagement) Score(ctx context.Context, userID string) (*entity.EngagementScore, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).(*entity.EngagementScore)
	return out, args.Error(1)
}
