package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/zhengrowth/growth-api/internal/entity"
)

// Notifier delivers the emails behind each event.
type Notifier interface {
	SendLeadWelcome(p LeadPayload) error
	SendBookingConfirmation(b *entity.Booking) error
	SendBookingCancellation(b *entity.Booking) error
	SendProgramWelcome(p SubscriptionPayload) error
	SendNudge(p NudgePayload) error
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  consumer
	Notifier Notifier
	Logger   *zap.Logger
}

func NewWorker(ch consumer, notifier Notifier, logger *zap.Logger) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		Logger:   logger,
	}
}

// Start consumes until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Logger.Info("notification worker listening", zap.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("notification worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.Handle(d)
		}
	}
}

// Handle acks processed messages and nacks everything else without requeue,
// leaving failures in the dead letter queue.
func (w *Worker) Handle(d amqp.Delivery) {
	var env Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		w.Logger.Error("malformed message", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	log := w.Logger.With(zap.String("event", env.Type))
	if err := w.process(env); err != nil {
		log.Error("event processing failed", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	log.Debug("event processed")
	_ = d.Ack(false)
}

func (w *Worker) process(env Envelope) error {
	switch env.Type {
	case EventLeadCaptured:
		var p LeadPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return err
		}
		return w.Notifier.SendLeadWelcome(p)

	case EventBookingCreated, EventBookingCanceled:
		var p BookingPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return err
		}
		if env.Type == EventBookingCanceled {
			return w.Notifier.SendBookingCancellation(&p.Booking)
		}
		return w.Notifier.SendBookingConfirmation(&p.Booking)

	case EventSubscriptionActivated:
		var p SubscriptionPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return err
		}
		return w.Notifier.SendProgramWelcome(p)

	case EventNudgeCreated:
		var p NudgePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return err
		}
		return w.Notifier.SendNudge(p)

	case EventSocialDispatch:
		var p SocialPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return err
		}
		// Posting happens in the scheduler of each network; we only record the hand-off.
		w.Logger.Info("social post handed off", zap.String("post_id", p.PostID), zap.String("channel", p.Channel))
		return nil

	default:
		w.Logger.Warn("unknown event type, dropping", zap.String("type", env.Type))
		return nil
	}
}
