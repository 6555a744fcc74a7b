package usecase

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zhengrowth/growth-api/internal/entity"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() Clock { return func() time.Time { return testNow } }

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType string, data any) error {
	args := m.Called(ctx, eventType, data)
	return args.Error(0)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) List(ctx context.Context, status string, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, status, limit)
	out, _ := args.Get(0).([]*entity.Lead)
	return out, args.Error(1)
}

type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) FindBySlug(ctx context.Context, slug string) (*entity.Offer, error) {
	args := m.Called(ctx, slug)
	o, _ := args.Get(0).(*entity.Offer)
	return o, args.Error(1)
}

func (m *MockOfferRepository) FindByID(ctx context.Context, id string) (*entity.Offer, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*entity.Offer)
	return o, args.Error(1)
}

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(ctx context.Context, c *entity.Coupon) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*entity.Coupon)
	return c, args.Error(1)
}

func (m *MockCouponRepository) HasRedemption(ctx context.Context, couponID, email string) (bool, error) {
	args := m.Called(ctx, couponID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCouponRepository) Redeem(ctx context.Context, code, offerID, email, subscriptionID string) (*entity.Coupon, error) {
	args := m.Called(ctx, code, offerID, email, subscriptionID)
	c, _ := args.Get(0).(*entity.Coupon)
	return c, args.Error(1)
}

func (m *MockCouponRepository) ReleaseRedemption(ctx context.Context, couponID, subscriptionID string) error {
	return m.Called(ctx, couponID, subscriptionID).Error(0)
}

type MockPricingRepository struct {
	mock.Mock
}

func (m *MockPricingRepository) ActiveVariants(ctx context.Context, experiment string) ([]*entity.PricingVariant, error) {
	args := m.Called(ctx, experiment)
	out, _ := args.Get(0).([]*entity.PricingVariant)
	return out, args.Error(1)
}

func (m *MockPricingRepository) FindVariant(ctx context.Context, id string) (*entity.PricingVariant, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*entity.PricingVariant)
	return v, args.Error(1)
}

func (m *MockPricingRepository) FindAssignment(ctx context.Context, experiment, visitorID string) (*entity.PricingAssignment, error) {
	args := m.Called(ctx, experiment, visitorID)
	a, _ := args.Get(0).(*entity.PricingAssignment)
	return a, args.Error(1)
}

func (m *MockPricingRepository) InsertAssignment(ctx context.Context, experiment, visitorID, variantID string) error {
	return m.Called(ctx, experiment, visitorID, variantID).Error(0)
}

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSubscriptionRepository) FindByID(ctx context.Context, id string) (*entity.Subscription, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*entity.Subscription)
	return s, args.Error(1)
}

func (m *MockSubscriptionRepository) FindLastByUserID(ctx context.Context, userID string) (*entity.Subscription, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*entity.Subscription)
	return s, args.Error(1)
}

func (m *MockSubscriptionRepository) FindActiveByUserID(ctx context.Context, userID string) (*entity.Subscription, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*entity.Subscription)
	return s, args.Error(1)
}

func (m *MockSubscriptionRepository) SetCoupon(ctx context.Context, id, couponID string, amountCents int) error {
	return m.Called(ctx, id, couponID, amountCents).Error(0)
}

func (m *MockSubscriptionRepository) UpdateStatus(ctx context.Context, id, status string, periodEnd *time.Time) error {
	return m.Called(ctx, id, status, periodEnd).Error(0)
}

func (m *MockSubscriptionRepository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) AbandonStale(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) ListPublished(ctx context.Context) ([]*entity.Lesson, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*entity.Lesson)
	return out, args.Error(1)
}

func (m *MockLessonRepository) FindBySlug(ctx context.Context, slug string) (*entity.LessonDetail, error) {
	args := m.Called(ctx, slug)
	d, _ := args.Get(0).(*entity.LessonDetail)
	return d, args.Error(1)
}

func (m *MockLessonRepository) FindByID(ctx context.Context, id string) (*entity.Lesson, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*entity.Lesson)
	return l, args.Error(1)
}

func (m *MockLessonRepository) AddVersion(ctx context.Context, v *entity.LessonVersion) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockLessonRepository) Versions(ctx context.Context, lessonID string) ([]*entity.LessonVersion, error) {
	args := m.Called(ctx, lessonID)
	out, _ := args.Get(0).([]*entity.LessonVersion)
	return out, args.Error(1)
}

func (m *MockLessonRepository) FindVersion(ctx context.Context, lessonID string, version int) (*entity.LessonVersion, error) {
	args := m.Called(ctx, lessonID, version)
	v, _ := args.Get(0).(*entity.LessonVersion)
	return v, args.Error(1)
}

type MockViewRepository struct {
	mock.Mock
}

func (m *MockViewRepository) HasViewed(ctx context.Context, userID, lessonID, period string) (bool, error) {
	args := m.Called(ctx, userID, lessonID, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockViewRepository) CountViews(ctx context.Context, userID, period string) (int, error) {
	args := m.Called(ctx, userID, period)
	return args.Int(0), args.Error(1)
}

func (m *MockViewRepository) RecordView(ctx context.Context, userID, lessonID, period string) (bool, error) {
	args := m.Called(ctx, userID, lessonID, period)
	return args.Bool(0), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateIfFree(ctx context.Context, b *entity.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*entity.Booking)
	return b, args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockBookingRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	args := m.Called(ctx, from, to)
	out, _ := args.Get(0).([]*entity.Booking)
	return out, args.Error(1)
}

func (m *MockBookingRepository) CountByEmail(ctx context.Context, email string) (int, error) {
	args := m.Called(ctx, email)
	return args.Int(0), args.Error(1)
}

type MockNudgeRepository struct {
	mock.Mock
}

func (m *MockNudgeRepository) LastForTrigger(ctx context.Context, userID, trigger string) (*entity.Nudge, error) {
	args := m.Called(ctx, userID, trigger)
	n, _ := args.Get(0).(*entity.Nudge)
	return n, args.Error(1)
}

func (m *MockNudgeRepository) Create(ctx context.Context, n *entity.Nudge) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNudgeRepository) ListPending(ctx context.Context, userID string) ([]*entity.Nudge, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).([]*entity.Nudge)
	return out, args.Error(1)
}

func (m *MockNudgeRepository) Dismiss(ctx context.Context, userID, id string, at time.Time) error {
	return m.Called(ctx, userID, id, at).Error(0)
}

type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) FindCodeByUser(ctx context.Context, userID string) (*entity.ReferralCode, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*entity.ReferralCode)
	return c, args.Error(1)
}

func (m *MockReferralRepository) FindCode(ctx context.Context, code string) (*entity.ReferralCode, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*entity.ReferralCode)
	return c, args.Error(1)
}

func (m *MockReferralRepository) CreateCode(ctx context.Context, c *entity.ReferralCode) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockReferralRepository) Track(ctx context.Context, r *entity.Referral) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReferralRepository) ListByReferrer(ctx context.Context, userID string) ([]*entity.Referral, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).([]*entity.Referral)
	return out, args.Error(1)
}

func (m *MockReferralRepository) MarkConverted(ctx context.Context, referredEmail string, at time.Time) error {
	return m.Called(ctx, referredEmail, at).Error(0)
}

type MockEngagementRepository struct {
	mock.Mock
}

func (m *MockEngagementRepository) Stats(ctx context.Context, userID string, since time.Time) (entity.EngagementStats, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(entity.EngagementStats), args.Error(1)
}

type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) BlogPosts(ctx context.Context, from, to time.Time) ([]entity.CalendarItem, error) {
	args := m.Called(ctx, from, to)
	out, _ := args.Get(0).([]entity.CalendarItem)
	return out, args.Error(1)
}

func (m *MockContentRepository) SocialPosts(ctx context.Context, from, to time.Time) ([]entity.CalendarItem, error) {
	args := m.Called(ctx, from, to)
	out, _ := args.Get(0).([]entity.CalendarItem)
	return out, args.Error(1)
}

func (m *MockContentRepository) Newsletters(ctx context.Context, from, to time.Time) ([]entity.CalendarItem, error) {
	args := m.Called(ctx, from, to)
	out, _ := args.Get(0).([]entity.CalendarItem)
	return out, args.Error(1)
}

func (m *MockContentRepository) ClaimDueSocialPosts(ctx context.Context, now time.Time) ([]*entity.SocialPost, error) {
	args := m.Called(ctx, now)
	out, _ := args.Get(0).([]*entity.SocialPost)
	return out, args.Error(1)
}

func (m *MockContentRepository) RequeueSocialPost(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockSecretRepository struct {
	mock.Mock
}

func (m *MockSecretRepository) Put(ctx context.Context, s *entity.SealedSecret) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSecretRepository) List(ctx context.Context) ([]*entity.SealedSecret, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*entity.SealedSecret)
	return out, args.Error(1)
}

func (m *MockSecretRepository) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

// prefixSealer marks sealed values with a prefix so tests can read them back.
type prefixSealer struct{}

var sealedPrefix = []byte("sealed:")

func (prefixSealer) Seal(plain []byte) ([]byte, error) {
	return append(append([]byte{}, sealedPrefix...), plain...), nil
}

func (prefixSealer) Open(sealed []byte) ([]byte, error) {
	if !bytes.HasPrefix(sealed, sealedPrefix) {
		return nil, errors.New("not sealed")
	}
	return sealed[len(sealedPrefix):], nil
}
