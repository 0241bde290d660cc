// Package jobs holds the background loops that run beside the HTTP service:
// the outbox relay and the decision consumer.
package jobs

import (
	"context"
	"marketplace_escrow/internal/usecase/interfaces"
	"marketplace_escrow/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// OutboxRelay moves committed events to the broker. An event is marked
// published only after the broker acknowledged it, so delivery is at least
// once and consumers dedupe by event id.
type OutboxRelay struct {
	outbox    interfaces.IOutboxRepository
	publisher interfaces.IEventPublisher
	batchSize int
	interval  time.Duration
	now       func() time.Time
}

func NewOutboxRelay(outbox interfaces.IOutboxRepository, publisher interfaces.IEventPublisher, batchSize int, interval time.Duration) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = 100
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		batchSize: batchSize,
		interval:  interval,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run polls until ctx is cancelled. Failed rounds are logged and retried on
// the next tick.
func (r *OutboxRelay) Run(ctx context.Context) error {
	logger.Info("[outbox][relay] started", zap.Duration("interval", r.interval), zap.Int("batch_size", r.batchSize))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("[outbox][relay] round failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			logger.Info("[outbox][relay] stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce publishes one batch of pending events, oldest first, and returns
// how many were published. It stops at the first failure so later events of
// the same aggregate never overtake an earlier one.
func (r *OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	pending, err := r.outbox.ListPending(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}
	published := 0
	for _, event := range pending {
		if err := r.publisher.Publish(ctx, event); err != nil {
			logger.Warn("[outbox][relay] publish failed", zap.String("event_id", event.ID), zap.String("type", event.Type), zap.Error(err))
			return published, err
		}
		if err := r.outbox.MarkPublished(ctx, event.ID, r.now()); err != nil {
			logger.Error("[outbox][relay] mark published failed", zap.String("event_id", event.ID), zap.Error(err))
			return published, err
		}
		published++
	}
	if published > 0 {
		logger.Debug("[outbox][relay] batch published", zap.Int("count", published))
	}
	return published, nil
}
