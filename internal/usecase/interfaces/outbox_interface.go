package interfaces

import (
	"context"
	"marketplace_escrow/internal/domain/entities"
	"time"
)

// IOutboxRepository is the relay's view of committed events.
type IOutboxRepository interface {
	// ListPending returns unpublished events oldest first.
	ListPending(ctx context.Context, limit int) ([]entities.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, at time.Time) error
}

// IEventPublisher delivers events to the broker.
type IEventPublisher interface {
	Publish(ctx context.Context, event entities.OutboxEvent) error
}
