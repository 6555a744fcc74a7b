package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	deliver  chan amqp.Delivery
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliver, nil
}

type fakeAck struct {
	acked  int
	nacked int
}

func (a *fakeAck) Ack(uint64, bool) error { a.acked++; return nil }
func (a *fakeAck) Nack(uint64, bool, bool) error { a.nacked++; return nil }
func (a *fakeAck) Reject(uint64, bool) error { a.nacked++; return nil }

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendLeadWelcome(p LeadPayload) error {
	return m.Called(p).Error(0)
}

func (m *MockNotifier) SendBookingConfirmation(b *entity.Booking) error {
	return m.Called(b).Error(0)
}

func (m *MockNotifier) SendBookingCancellation(b *entity.Booking) error {
	return m.Called(b).Error(0)
}

func (m *MockNotifier) SendProgramWelcome(p SubscriptionPayload) error {
	return m.Called(p).Error(0)
}

func (m *MockNotifier) SendNudge(p NudgePayload) error {
	return m.Called(p).Error(0)
}

func TestProducerPublish(t *testing.T) {
	ch := &fakeChannel{}
	p := NewProducer(ch)
	p.now = func() time.Time { return time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC) }

	err := p.Publish(context.Background(), EventLeadCaptured, LeadPayload{LeadID: "l-1", Email: "a@b.co"})
	require.NoError(t, err)

	assert.Equal(t, ExchangeName, ch.exchange)
	assert.Equal(t, EventLeadCaptured, ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var env Envelope
	require.NoError(t, json.Unmarshal(ch.msg.Body, &env))
	assert.Equal(t, EventLeadCaptured, env.Type)
	assert.JSONEq(t, `{"lead_id":"l-1","email":"a@b.co","name":"","source":""}`, string(env.Data))
}

func TestProducerPublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	err := NewProducer(ch).Publish(context.Background(), EventNudgeCreated, NudgePayload{})
	assert.ErrorContains(t, err, "channel closed")
}

func delivery(t *testing.T, ack *fakeAck, eventType string, data any) amqp.Delivery {
	body, err := Encode(eventType, data, time.Now())
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestWorkerHandle(t *testing.T) {
	booking := entity.Booking{ID: "b-1", Email: "mei@example.com"}

	t.Run("booking created sends confirmation", func(t *testing.T) {
		n := new(MockNotifier)
		n.On("SendBookingConfirmation", mock.MatchedBy(func(b *entity.Booking) bool { return b.ID == "b-1" })).Return(nil)
		ack := &fakeAck{}

		NewWorker(nil, n, zap.NewNop()).Handle(delivery(t, ack, EventBookingCreated, BookingPayload{Booking: booking}))

		assert.Equal(t, 1, ack.acked)
		n.AssertExpectations(t)
	})

	t.Run("booking canceled sends cancellation", func(t *testing.T) {
		n := new(MockNotifier)
		n.On("SendBookingCancellation", mock.Anything).Return(nil)
		ack := &fakeAck{}

		NewWorker(nil, n, zap.NewNop()).Handle(delivery(t, ack, EventBookingCanceled, BookingPayload{Booking: booking}))

		assert.Equal(t, 1, ack.acked)
		n.AssertExpectations(t)
	})

	t.Run("notifier failure is dead-lettered", func(t *testing.T) {
		n := new(MockNotifier)
		n.On("SendLeadWelcome", mock.Anything).Return(errors.New("smtp down"))
		ack := &fakeAck{}

		NewWorker(nil, n, zap.NewNop()).Handle(delivery(t, ack, EventLeadCaptured, LeadPayload{Email: "a@b.co"}))

		assert.Equal(t, 0, ack.acked)
		assert.Equal(t, 1, ack.nacked)
	})

	t.Run("malformed body is dead-lettered", func(t *testing.T) {
		ack := &fakeAck{}
		NewWorker(nil, new(MockNotifier), zap.NewNop()).Handle(amqp.Delivery{Acknowledger: ack, Body: []byte("{")})
		assert.Equal(t, 1, ack.nacked)
	})

	t.Run("social dispatch and unknown events are acked", func(t *testing.T) {
		ack := &fakeAck{}
		w := NewWorker(nil, new(MockNotifier), zap.NewNop())
		w.Handle(delivery(t, ack, EventSocialDispatch, SocialPayload{PostID: "s-1", Channel: "instagram"}))
		w.Handle(delivery(t, ack, "something.else", map[string]string{}))
		assert.Equal(t, 2, ack.acked)
	})
}

func TestWorkerStartStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	n := new(MockNotifier)
	n.On("SendNudge", mock.Anything).Return(nil)
	ch := &fakeChannel{deliver: make(chan amqp.Delivery, 1)}
	ack := &fakeAck{}
	ch.deliver <- delivery(t, ack, EventNudgeCreated, NudgePayload{NudgeID: "n-1"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewWorker(ch, n, zap.NewNop()).Start(ctx, QueueName) }()

	assert.Eventually(t, func() bool { return len(ch.deliver) == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	n.AssertExpectations(t)
}
