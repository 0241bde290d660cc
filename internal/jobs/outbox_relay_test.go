package jobs

import (
	"context"
	"errors"
	"marketplace_escrow/internal/domain/entities"
	mock_interfaces "marketplace_escrow/internal/usecase/interfaces/mocks"
	"marketplace_escrow/pkg/logger"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func pendingEvents(ids ...string) []entities.OutboxEvent {
	out := make([]entities.OutboxEvent, 0, len(ids))
	for _, id := range ids {
		out = append(out, entities.OutboxEvent{ID: id, Type: entities.EventOrderOpened, AggregateID: "o-1", Status: entities.OutboxPending})
	}
	return out
}

func TestOutboxRelay_RunOnce(t *testing.T) {
	logger.SetLogger(zap.NewNop())
	at := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	t.Run("publishes in order and marks each event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		outbox := mock_interfaces.NewMockIOutboxRepository(ctrl)
		pub := mock_interfaces.NewMockIEventPublisher(ctrl)

		events := pendingEvents("ev-1", "ev-2")
		outbox.EXPECT().ListPending(gomock.Any(), 50).Return(events, nil)
		gomock.InOrder(
			pub.EXPECT().Publish(gomock.Any(), events[0]).Return(nil),
			outbox.EXPECT().MarkPublished(gomock.Any(), "ev-1", at).Return(nil),
			pub.EXPECT().Publish(gomock.Any(), events[1]).Return(nil),
			outbox.EXPECT().MarkPublished(gomock.Any(), "ev-2", at).Return(nil),
		)

		r := NewOutboxRelay(outbox, pub, 50, time.Second)
		r.now = func() time.Time { return at }
		n, err := r.RunOnce(context.Background())
		if err != nil || n != 2 {
			t.Fatalf("expected 2 published, got %d err=%v", n, err)
		}
	})

	t.Run("stops at first publish failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		outbox := mock_interfaces.NewMockIOutboxRepository(ctrl)
		pub := mock_interfaces.NewMockIEventPublisher(ctrl)
		boom := errors.New("broker down")

		events := pendingEvents("ev-1", "ev-2", "ev-3")
		outbox.EXPECT().ListPending(gomock.Any(), 100).Return(events, nil)
		pub.EXPECT().Publish(gomock.Any(), events[0]).Return(nil)
		outbox.EXPECT().MarkPublished(gomock.Any(), "ev-1", gomock.Any()).Return(nil)
		pub.EXPECT().Publish(gomock.Any(), events[1]).Return(boom)

		r := NewOutboxRelay(outbox, pub, 0, 0)
		n, err := r.RunOnce(context.Background())
		if !errors.Is(err, boom) || n != 1 {
			t.Fatalf("expected 1 published and broker error, got %d err=%v", n, err)
		}
	})

	t.Run("list failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		outbox := mock_interfaces.NewMockIOutboxRepository(ctrl)
		pub := mock_interfaces.NewMockIEventPublisher(ctrl)
		outbox.EXPECT().ListPending(gomock.Any(), gomock.Any()).Return(nil, errors.New("throttled"))

		if _, err := NewOutboxRelay(outbox, pub, 10, time.Second).RunOnce(context.Background()); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestOutboxRelay_RunStopsOnCancel(t *testing.T) {
	logger.SetLogger(zap.NewNop())
	ctrl := gomock.NewController(t)
	outbox := mock_interfaces.NewMockIOutboxRepository(ctrl)
	pub := mock_interfaces.NewMockIEventPublisher(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	outbox.EXPECT().ListPending(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, int) ([]entities.OutboxEvent, error) {
		cancel()
		return nil, nil
	}).MinTimes(1)

	done := make(chan error, 1)
	go func() { done <- NewOutboxRelay(outbox, pub, 10, time.Millisecond).Run(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("relay did not stop")
	}
}
