package messaging

import (
	"context"
	"encoding/json"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase/interfaces"
	"time"

	"github.com/segmentio/kafka-go"
)

// Header names carried by every published event.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
)

// Envelope is the message value written to the events topic.
type Envelope struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes outbox events synchronously and waits for all
// in-sync replicas, so a nil error means the event is durable on the broker.
type KafkaPublisher struct {
	writer messageWriter
}

var _ interfaces.IEventPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Publish keys the message by aggregate id so every event of one order or
// account lands on the same partition in commit order.
func (p *KafkaPublisher) Publish(ctx context.Context, event entities.OutboxEvent) error {
	msg, err := EncodeEvent(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func EncodeEvent(event entities.OutboxEvent) (kafka.Message, error) {
	value, err := json.Marshal(Envelope{
		ID:          event.ID,
		Type:        event.Type,
		AggregateID: event.AggregateID,
		OccurredAt:  event.CreatedAt,
		Payload:     event.Payload,
	})
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(event.ID)},
			{Key: HeaderEventType, Value: []byte(event.Type)},
		},
		Time: event.CreatedAt,
	}, nil
}
