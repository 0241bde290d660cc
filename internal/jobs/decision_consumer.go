package jobs

import (
	"context"
	"errors"
	"fmt"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/infrastructure/messaging"
	"marketplace_escrow/internal/usecase"
	"marketplace_escrow/pkg/logger"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MessageSource is the consumer-group side of the decisions topic.
// *kafka.Reader satisfies it.
type MessageSource interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// ProcessedStore remembers applied message ids.
type ProcessedStore interface {
	Seen(id string) (bool, error)
	Mark(id string, at time.Time) error
}

type RefundDecider interface {
	StartReview(ctx context.Context, refundID, supervisorID string) (entities.RefundRequest, error)
	Approve(ctx context.Context, refundID, supervisorID string, amount *decimal.Decimal, note string) (entities.RefundRequest, error)
	Reject(ctx context.Context, refundID, supervisorID, note string) (entities.RefundRequest, error)
}

type DisputeResolver interface {
	ResolveDispute(ctx context.Context, orderID, supervisorID string, refundAmount decimal.Decimal) (entities.Order, error)
}

type VerificationRecorder interface {
	SetVerification(ctx context.Context, accountID string, status entities.VerificationStatus) (entities.WalletAccount, error)
}

const (
	defaultRetryBase = 200 * time.Millisecond
	defaultRetryMax  = 10 * time.Second
)

// DecisionConsumer applies adjudication and verification outcomes arriving
// on the broker. A message is committed once it was applied or rejected as
// permanently invalid. Transient failures are retried on the same message;
// commits are cumulative per partition, so the consumer never fetches past a
// message it has not handled.
type DecisionConsumer struct {
	source    MessageSource
	store     ProcessedStore
	refunds   RefundDecider
	disputes  DisputeResolver
	accounts  VerificationRecorder
	now       func() time.Time
	retryBase time.Duration
	retryMax  time.Duration
}

func NewDecisionConsumer(source MessageSource, store ProcessedStore, refunds RefundDecider, disputes DisputeResolver, accounts VerificationRecorder) *DecisionConsumer {
	return &DecisionConsumer{
		source:    source,
		store:     store,
		refunds:   refunds,
		disputes:  disputes,
		accounts:  accounts,
		now:       func() time.Time { return time.Now().UTC() },
		retryBase: defaultRetryBase,
		retryMax:  defaultRetryMax,
	}
}

func (c *DecisionConsumer) Run(ctx context.Context) error {
	logger.Info("[decisions][consumer] started")
	for {
		msg, err := c.source.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("[decisions][consumer] stopped")
				return nil
			}
			return fmt.Errorf("fetch decision: %w", err)
		}
		if !c.handleWithRetry(ctx, msg) {
			logger.Info("[decisions][consumer] stopped")
			return nil
		}
		if err := c.source.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Warn("[decisions][consumer] commit failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// handleWithRetry handles msg until it succeeds, backing off exponentially
// between attempts. It reports false when ctx ended first.
func (c *DecisionConsumer) handleWithRetry(ctx context.Context, msg kafka.Message) bool {
	wait := c.retryBase
	for attempt := 1; ; attempt++ {
		err := c.Handle(ctx, msg)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		logger.Warn("[decisions][consumer] handle failed; retrying",
			zap.Int64("offset", msg.Offset), zap.Int("attempt", attempt), zap.Duration("backoff", wait), zap.Error(err))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		if wait *= 2; wait > c.retryMax {
			wait = c.retryMax
		}
	}
}

// Handle applies one message. A nil return means the message may be
// committed.
func (c *DecisionConsumer) Handle(ctx context.Context, msg kafka.Message) error {
	d, err := messaging.DecodeDecision(msg)
	if err != nil {
		logger.Warn("[decisions][consumer] dropping undecodable message", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}

	seen, err := c.store.Seen(d.ID)
	if err != nil {
		return err
	}
	if seen {
		logger.Debug("[decisions][consumer] duplicate skipped", zap.String("decision_id", d.ID))
		return nil
	}

	if err := c.apply(ctx, d); err != nil {
		if !isPermanent(err) {
			return err
		}
		logger.Warn("[decisions][consumer] decision rejected", zap.String("decision_id", d.ID), zap.String("type", d.Type), zap.Error(err))
	} else {
		logger.Info("[decisions][consumer] decision applied", zap.String("decision_id", d.ID), zap.String("type", d.Type))
	}
	return c.store.Mark(d.ID, c.now())
}

func (c *DecisionConsumer) apply(ctx context.Context, d messaging.Decision) error {
	switch d.Type {
	case messaging.DecisionRefundReview:
		_, err := c.refunds.StartReview(ctx, d.RefundID, d.SupervisorID)
		return err
	case messaging.DecisionRefundApprove:
		_, err := c.refunds.Approve(ctx, d.RefundID, d.SupervisorID, d.Amount, d.Note)
		return err
	case messaging.DecisionRefundReject:
		_, err := c.refunds.Reject(ctx, d.RefundID, d.SupervisorID, d.Note)
		return err
	case messaging.DecisionDisputeResolve:
		if d.Amount == nil {
			return entities.NewValidationError("amount", "required")
		}
		_, err := c.disputes.ResolveDispute(ctx, d.OrderID, d.SupervisorID, *d.Amount)
		return err
	case messaging.DecisionVerificationResult:
		_, err := c.accounts.SetVerification(ctx, d.AccountID, entities.VerificationStatus(d.Status))
		return err
	default:
		return fmt.Errorf("%w: unknown type %q", messaging.ErrInvalidDecision, d.Type)
	}
}

// isPermanent reports errors that redelivery cannot fix.
func isPermanent(err error) bool {
	for _, target := range []error{
		messaging.ErrInvalidDecision,
		entities.ErrValidation,
		entities.ErrStateTransition,
		entities.ErrPermission,
		usecase.ErrInvalidRefundID,
		usecase.ErrInvalidOrderID,
		usecase.ErrInvalidActorID,
		usecase.ErrInvalidAccountID,
		usecase.ErrRefundNotFound,
		usecase.ErrOrderNotFound,
		usecase.ErrRefundPending,
		usecase.ErrRefundExceedsHold,
		usecase.ErrReversalExceedsRelease,
		usecase.ErrAlreadyReleased,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
