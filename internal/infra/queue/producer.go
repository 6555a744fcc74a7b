package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher is what use cases depend on.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// channelPublisher is the subset of *amqp.Channel the producer uses.
type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch  channelPublisher
	now func() time.Time
}

func NewProducer(ch channelPublisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch, now: time.Now}
}

func Encode(eventType string, data any, at time.Time) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return json.Marshal(Envelope{Type: eventType, OccurredAt: at.UTC(), Data: raw})
}

func (p *RabbitMQProducer) Publish(ctx context.Context, eventType string, data any) error {
	body, err := Encode(eventType, data, p.now())
	if err != nil {
		return err
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		eventType,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         eventType,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}
