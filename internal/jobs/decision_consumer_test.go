package jobs

import (
	"context"
	"errors"
	"marketplace_escrow/internal/domain/entities"
	mock_jobs "marketplace_escrow/internal/jobs/mocks"
	"marketplace_escrow/internal/usecase"
	"marketplace_escrow/pkg/logger"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type consumerMocks struct {
	source   *mock_jobs.MockMessageSource
	store    *mock_jobs.MockProcessedStore
	refunds  *mock_jobs.MockRefundDecider
	disputes *mock_jobs.MockDisputeResolver
	accounts *mock_jobs.MockVerificationRecorder
}

func newConsumer(t *testing.T) (*DecisionConsumer, consumerMocks) {
	t.Helper()
	logger.SetLogger(zap.NewNop())
	ctrl := gomock.NewController(t)
	m := consumerMocks{
		source:   mock_jobs.NewMockMessageSource(ctrl),
		store:    mock_jobs.NewMockProcessedStore(ctrl),
		refunds:  mock_jobs.NewMockRefundDecider(ctrl),
		disputes: mock_jobs.NewMockDisputeResolver(ctrl),
		accounts: mock_jobs.NewMockVerificationRecorder(ctrl),
	}
	return NewDecisionConsumer(m.source, m.store, m.refunds, m.disputes, m.accounts), m
}

func decisionMsg(value string) kafka.Message {
	return kafka.Message{Topic: "escrow.decisions", Offset: 7, Value: []byte(value)}
}

func TestDecisionConsumer_Handle(t *testing.T) {
	t.Run("approve with amount", func(t *testing.T) {
		c, m := newConsumer(t)
		amount := decimal.RequireFromString("60.00")
		m.store.EXPECT().Seen("d-1").Return(false, nil)
		m.refunds.EXPECT().Approve(gomock.Any(), "r-1", "sup-1", gomock.Any(), "partial").
			DoAndReturn(func(_ context.Context, _, _ string, got *decimal.Decimal, _ string) (entities.RefundRequest, error) {
				if got == nil || !got.Equal(amount) {
					t.Fatalf("expected amount 60, got %v", got)
				}
				return entities.RefundRequest{ID: "r-1"}, nil
			})
		m.store.EXPECT().Mark("d-1", gomock.Any()).Return(nil)

		if err := c.Handle(context.Background(), decisionMsg(`{"id":"d-1","type":"refund.approve","refund_id":"r-1","supervisor_id":"sup-1","amount":"60.00","note":"partial"}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("review and reject", func(t *testing.T) {
		c, m := newConsumer(t)
		m.store.EXPECT().Seen(gomock.Any()).Return(false, nil).Times(2)
		m.refunds.EXPECT().StartReview(gomock.Any(), "r-1", "sup-1").Return(entities.RefundRequest{}, nil)
		m.refunds.EXPECT().Reject(gomock.Any(), "r-1", "sup-1", "no evidence").Return(entities.RefundRequest{}, nil)
		m.store.EXPECT().Mark(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		for _, v := range []string{
			`{"id":"d-2","type":"refund.review","refund_id":"r-1","supervisor_id":"sup-1"}`,
			`{"id":"d-3","type":"refund.reject","refund_id":"r-1","supervisor_id":"sup-1","note":"no evidence"}`,
		} {
			if err := c.Handle(context.Background(), decisionMsg(v)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	})

	t.Run("dispute and verification", func(t *testing.T) {
		c, m := newConsumer(t)
		m.store.EXPECT().Seen(gomock.Any()).Return(false, nil).Times(2)
		m.disputes.EXPECT().ResolveDispute(gomock.Any(), "o-1", "sup-1", decimal.RequireFromString("150")).Return(entities.Order{}, nil)
		m.accounts.EXPECT().SetVerification(gomock.Any(), "worker-1", entities.VerificationApproved).Return(entities.WalletAccount{}, nil)
		m.store.EXPECT().Mark(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		for _, v := range []string{
			`{"id":"d-4","type":"dispute.resolve","order_id":"o-1","supervisor_id":"sup-1","amount":"150"}`,
			`{"id":"d-5","type":"verification.result","account_id":"worker-1","status":"approved"}`,
		} {
			if err := c.Handle(context.Background(), decisionMsg(v)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	})

	t.Run("duplicate is skipped", func(t *testing.T) {
		c, m := newConsumer(t)
		m.store.EXPECT().Seen("d-1").Return(true, nil)

		if err := c.Handle(context.Background(), decisionMsg(`{"id":"d-1","type":"refund.approve","refund_id":"r-1"}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("permanent failure is recorded", func(t *testing.T) {
		c, m := newConsumer(t)
		m.store.EXPECT().Seen("d-6").Return(false, nil)
		m.refunds.EXPECT().StartReview(gomock.Any(), "r-9", "sup-1").Return(entities.RefundRequest{}, usecase.ErrRefundNotFound)
		m.store.EXPECT().Mark("d-6", gomock.Any()).Return(nil)

		if err := c.Handle(context.Background(), decisionMsg(`{"id":"d-6","type":"refund.review","refund_id":"r-9","supervisor_id":"sup-1"}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("dispute without amount is rejected", func(t *testing.T) {
		c, m := newConsumer(t)
		m.store.EXPECT().Seen("d-7").Return(false, nil)
		m.store.EXPECT().Mark("d-7", gomock.Any()).Return(nil)

		if err := c.Handle(context.Background(), decisionMsg(`{"id":"d-7","type":"dispute.resolve","order_id":"o-1"}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("transient failure is left for redelivery", func(t *testing.T) {
		c, m := newConsumer(t)
		boom := errors.New("storage timeout")
		m.store.EXPECT().Seen("d-8").Return(false, nil)
		m.refunds.EXPECT().Reject(gomock.Any(), "r-1", "sup-1", "").Return(entities.RefundRequest{}, boom)

		if err := c.Handle(context.Background(), decisionMsg(`{"id":"d-8","type":"refund.reject","refund_id":"r-1","supervisor_id":"sup-1"}`)); !errors.Is(err, boom) {
			t.Fatalf("expected storage error, got %v", err)
		}
	})

	t.Run("lost conflict is transient", func(t *testing.T) {
		c, m := newConsumer(t)
		m.store.EXPECT().Seen("d-9").Return(false, nil)
		m.disputes.EXPECT().ResolveDispute(gomock.Any(), "o-1", "sup-1", gomock.Any()).
			Return(entities.Order{}, &entities.ConflictError{Entity: entities.KindOrder, ID: "o-1"})

		if err := c.Handle(context.Background(), decisionMsg(`{"id":"d-9","type":"dispute.resolve","order_id":"o-1","supervisor_id":"sup-1","amount":"0"}`)); err == nil {
			t.Fatalf("expected conflict to surface")
		}
	})

	t.Run("undecodable message is dropped", func(t *testing.T) {
		c, _ := newConsumer(t)
		if err := c.Handle(context.Background(), decisionMsg(`{`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unknown type is recorded", func(t *testing.T) {
		c, m := newConsumer(t)
		m.store.EXPECT().Seen("d-10").Return(false, nil)
		m.store.EXPECT().Mark("d-10", gomock.Any()).Return(nil)

		if err := c.Handle(context.Background(), decisionMsg(`{"id":"d-10","type":"order.teleport"}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestDecisionConsumer_Run(t *testing.T) {
	c, m := newConsumer(t)
	ctx, cancel := context.WithCancel(context.Background())
	msg := decisionMsg(`{"id":"d-1","type":"refund.review","refund_id":"r-1","supervisor_id":"sup-1"}`)

	gomock.InOrder(
		m.source.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil),
		m.store.EXPECT().Seen("d-1").Return(false, nil),
		m.refunds.EXPECT().StartReview(gomock.Any(), "r-1", "sup-1").Return(entities.RefundRequest{}, nil),
		m.store.EXPECT().Mark("d-1", gomock.Any()).Return(nil),
		m.source.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil),
		m.source.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(func(context.Context) (kafka.Message, error) {
			cancel()
			return kafka.Message{}, context.Canceled
		}),
	)

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("consumer did not stop")
	}
}

func TestDecisionConsumer_Run_RetriesBeforeMovingOn(t *testing.T) {
	c, m := newConsumer(t)
	c.retryBase = time.Millisecond
	c.retryMax = 2 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())

	approve := kafka.Message{Topic: "escrow.decisions", Offset: 10,
		Value: []byte(`{"id":"d-10","type":"refund.approve","refund_id":"r-1","supervisor_id":"sup-1"}`)}
	reject := kafka.Message{Topic: "escrow.decisions", Offset: 11,
		Value: []byte(`{"id":"d-11","type":"refund.reject","refund_id":"r-2","supervisor_id":"sup-1"}`)}
	conflict := &entities.ConflictError{Entity: entities.KindRefund, ID: "r-1"}

	var committed []int64
	commit := func(_ context.Context, msgs ...kafka.Message) error {
		for _, msg := range msgs {
			committed = append(committed, msg.Offset)
		}
		return nil
	}

	gomock.InOrder(
		m.source.EXPECT().FetchMessage(gomock.Any()).Return(approve, nil),
		m.store.EXPECT().Seen("d-10").Return(false, nil),
		m.refunds.EXPECT().Approve(gomock.Any(), "r-1", "sup-1", gomock.Any(), "").Return(entities.RefundRequest{}, conflict),
		m.store.EXPECT().Seen("d-10").Return(false, nil),
		m.refunds.EXPECT().Approve(gomock.Any(), "r-1", "sup-1", gomock.Any(), "").Return(entities.RefundRequest{ID: "r-1"}, nil),
		m.store.EXPECT().Mark("d-10", gomock.Any()).Return(nil),
		m.source.EXPECT().CommitMessages(gomock.Any(), approve).DoAndReturn(commit),
		m.source.EXPECT().FetchMessage(gomock.Any()).Return(reject, nil),
		m.store.EXPECT().Seen("d-11").Return(false, nil),
		m.refunds.EXPECT().Reject(gomock.Any(), "r-2", "sup-1", "").Return(entities.RefundRequest{}, nil),
		m.store.EXPECT().Mark("d-11", gomock.Any()).Return(nil),
		m.source.EXPECT().CommitMessages(gomock.Any(), reject).DoAndReturn(commit),
		m.source.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(func(context.Context) (kafka.Message, error) {
			cancel()
			return kafka.Message{}, context.Canceled
		}),
	)

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("consumer did not stop")
	}
	if len(committed) != 2 || committed[0] != 10 || committed[1] != 11 {
		t.Fatalf("expected offsets [10 11] committed in order, got %v", committed)
	}
}

func TestDecisionConsumer_Run_StopsWhileRetrying(t *testing.T) {
	c, m := newConsumer(t)
	c.retryBase = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	msg := decisionMsg(`{"id":"d-1","type":"refund.review","refund_id":"r-1","supervisor_id":"sup-1"}`)

	m.source.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil)
	m.store.EXPECT().Seen("d-1").Return(false, nil)
	m.refunds.EXPECT().StartReview(gomock.Any(), "r-1", "sup-1").
		DoAndReturn(func(context.Context, string, string) (entities.RefundRequest, error) {
			go func() {
				time.Sleep(10 * time.Millisecond)
				cancel()
			}()
			return entities.RefundRequest{}, errors.New("storage timeout")
		})

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("consumer did not stop")
	}
}
