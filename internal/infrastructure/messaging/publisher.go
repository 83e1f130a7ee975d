package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/domain/shared"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// Writer is the subset of *kafka.Writer the publisher uses
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the message value written for every event
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RestaurantID  string          `json:"restaurant_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// KafkaEventPublisher is an event handler that writes every event it
// receives to a Kafka topic, keyed by aggregate id
type KafkaEventPublisher struct {
	writer Writer
	logger *zap.Logger
}

// NewKafkaEventPublisher creates a publisher on the given writer
func NewKafkaEventPublisher(writer Writer, logger *zap.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{writer: writer, logger: logger}
}

// Handle writes the event. Trace context travels in the message headers.
func (p *KafkaEventPublisher) Handle(ctx context.Context, event shared.DomainEvent) error {
	msg, err := newMessage(event)
	if err != nil {
		return err
	}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{msg: &msg})

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s to kafka: %w", event.EventType(), err)
	}
	p.logger.Debug("event published to kafka",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID()),
	)
	return nil
}

// EventTypes returns nil so the publisher receives every event
func (p *KafkaEventPublisher) EventTypes() []string {
	return nil
}

// Close flushes and closes the writer
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}

func newMessage(event shared.DomainEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode %s: %w", event.EventType(), err)
	}
	value, err := json.Marshal(Envelope{
		ID:            event.EventID(),
		Type:          event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RestaurantID:  event.RestaurantID(),
		OccurredAt:    event.OccurredAt().UTC(),
		Payload:       payload,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.AggregateID()),
		Value: value,
		Time:  event.OccurredAt().UTC(),
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.EventType())},
		},
	}, nil
}

// headerCarrier adapts kafka headers to propagation.TextMapCarrier
type headerCarrier struct {
	msg *kafka.Message
}

func (c headerCarrier) Get(key string) string {
	for _, h := range c.msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range c.msg.Headers {
		if h.Key == key {
			c.msg.Headers[i].Value = []byte(value)
			return
		}
	}
	c.msg.Headers = append(c.msg.Headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, len(c.msg.Headers))
	for i, h := range c.msg.Headers {
		keys[i] = h.Key
	}
	return keys
}

var _ shared.EventHandler = (*KafkaEventPublisher)(nil)
