package usecase

import (
	"context"
	"errors"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/domain/pricing"
	"marketplace_escrow/internal/usecase/interfaces"
	"marketplace_escrow/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidOrderID      = errors.New("invalid order id")
	ErrInvalidActorID      = errors.New("invalid caller id")
	ErrOrderNotFound       = errors.New("order not found")
	ErrNotOrderClient      = errors.New("caller is not the order's client")
	ErrNotAssignedWorker   = errors.New("caller is not the assigned worker")
	ErrNotOrderParticipant = errors.New("caller is not a participant of the order")
	ErrSelfAccept          = errors.New("a client cannot accept their own order")
)

const defaultAvailableLimit = 50

// OpenOrderInput is the order-creation request after parsing.
type OpenOrderInput struct {
	ClientID     string
	Quote        pricing.QuoteInput
	Details      entities.ServiceDetails
	ScheduledFor time.Time
	// InitialPrice, when set, must equal the computed total.
	InitialPrice *decimal.Decimal
	// Submit moves the new order straight to pending.
	Submit bool
}

// IOrderUseCase drives orders through their lifecycle. Transitions that move
// funds commit the order and the ledger change together.
type IOrderUseCase interface {
	Open(ctx context.Context, in OpenOrderInput) (entities.Order, error)
	Submit(ctx context.Context, orderID, clientID string) (entities.Order, error)
	Accept(ctx context.Context, orderID, workerID string) (entities.Order, error)
	RequestPermission(ctx context.Context, orderID, workerID, reason string) (entities.Order, error)
	RespondPermission(ctx context.Context, orderID, clientID string, granted bool) (entities.Order, error)
	AttachEvidence(ctx context.Context, orderID, workerID string, item entities.EvidenceItem) (entities.Order, error)
	SubmitForValidation(ctx context.Context, orderID, workerID string, overrideAck bool) (entities.Order, error)
	Validate(ctx context.Context, orderID, clientID string) (entities.Order, error)
	RaiseComplaint(ctx context.Context, orderID, clientID, reason string) (entities.Order, error)
	Cancel(ctx context.Context, orderID, actorID, reason string) (entities.Order, error)
	ResolveDispute(ctx context.Context, orderID, supervisorID string, refundAmount decimal.Decimal) (entities.Order, error)
	Get(ctx context.Context, orderID string) (entities.Order, error)
	ListByClient(ctx context.Context, clientID string) ([]entities.Order, error)
	ListByWorker(ctx context.Context, workerID string) ([]entities.Order, error)
	ListAvailable(ctx context.Context, limit int) ([]entities.Order, error)
}

type OrderUseCase struct {
	orders  interfaces.IOrderRepository
	wallets interfaces.IWalletRepository
	writer  interfaces.IChangesetWriter
	quotes  IQuoteUseCase
	ledger  *LedgerUseCase
}

var _ IOrderUseCase = (*OrderUseCase)(nil)

func NewOrderUseCase(orders interfaces.IOrderRepository, wallets interfaces.IWalletRepository, writer interfaces.IChangesetWriter, quotes IQuoteUseCase, ledger *LedgerUseCase) *OrderUseCase {
	return &OrderUseCase{orders: orders, wallets: wallets, writer: writer, quotes: quotes, ledger: ledger}
}

func orderPayload(o entities.Order) map[string]any {
	return map[string]any{
		"order_id":  o.ID,
		"status":    o.Status,
		"client_id": o.ClientID,
		"worker_id": o.WorkerID,
		"total":     entities.FormatAmount(o.Quote.Total),
	}
}

func (u *OrderUseCase) Open(ctx context.Context, in OpenOrderInput) (entities.Order, error) {
	in.ClientID = strings.TrimSpace(in.ClientID)
	if in.ClientID == "" {
		return entities.Order{}, ErrInvalidActorID
	}
	q, err := u.quotes.Compute(ctx, in.Quote)
	if err != nil {
		return entities.Order{}, err
	}
	if in.InitialPrice != nil && !entities.Round2(*in.InitialPrice).Equal(q.Total) {
		return entities.Order{}, entities.NewValidationError("initial_price",
			"does not match the quoted total "+entities.FormatAmount(q.Total))
	}

	now := clock()
	o := entities.Order{
		ID:             uuid.NewString(),
		ClientID:       in.ClientID,
		Quote:          q,
		Status:         entities.OrderStatusDraft,
		Details:        in.Details,
		ScheduledFor:   in.ScheduledFor.UTC(),
		Permission:     entities.NewPermissionRequest(),
		RefundedAmount: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	}
	events := []string{entities.EventOrderOpened}
	if in.Submit {
		if o, err = o.Submit(now); err != nil {
			return entities.Order{}, err
		}
		events = append(events, entities.EventOrderSubmitted)
	}

	err = commitBatch(ctx, u.writer, u.wallets, "open", func(b *ledgerBatch) error {
		b.cs.PutOrder(o, 0)
		for _, e := range events {
			if err := b.emit(e, o.ID, orderPayload(o)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("[order][usecase] open failed", zap.String("client_id", in.ClientID), zap.Error(err))
		return entities.Order{}, err
	}
	logger.Info("[order][usecase] opened", zap.String("order_id", o.ID), zap.String("status", string(o.Status)),
		zap.String("total", entities.FormatAmount(q.Total)))
	return o, nil
}

func (u *OrderUseCase) Submit(ctx context.Context, orderID, clientID string) (entities.Order, error) {
	return u.transition(ctx, "submit", orderID, clientID, entities.EventOrderSubmitted,
		func(_ *ledgerBatch, o entities.Order, now time.Time) (entities.Order, error) {
			if o.ClientID != clientID {
				return o, ErrNotOrderClient
			}
			return o.Submit(now)
		})
}

// Accept assigns the worker and locks the quoted total from the client's
// wallet. Exactly one of several concurrent callers wins; the others get
// *entities.ConcurrencyError.
func (u *OrderUseCase) Accept(ctx context.Context, orderID, workerID string) (entities.Order, error) {
	orderID, workerID = strings.TrimSpace(orderID), strings.TrimSpace(workerID)
	if orderID == "" {
		return entities.Order{}, ErrInvalidOrderID
	}
	if workerID == "" {
		return entities.Order{}, ErrInvalidActorID
	}

	var accepted entities.Order
	err := commitBatch(ctx, u.writer, u.wallets, "accept", func(b *ledgerBatch) error {
		o, err := u.load(ctx, orderID)
		if err != nil {
			return err
		}
		if o.ClientID == workerID {
			return ErrSelfAccept
		}
		if o.Status.Terminal() {
			return &entities.StateTransitionError{Entity: "order", From: string(o.Status), Action: "accept"}
		}
		if o.WorkerID != "" {
			return &entities.ConcurrencyError{OrderID: o.ID, Status: o.Status}
		}
		next, err := o.Accept(workerID, b.now)
		if err != nil {
			return err
		}
		if _, err := u.ledger.planLock(ctx, b, o.ClientID, workerID, o.ID, o.Quote.Total); err != nil {
			return err
		}
		b.cs.PutOrder(next, o.Version)
		accepted = next
		return b.emit(entities.EventOrderAccepted, o.ID, orderPayload(next))
	})
	err = u.ledger.mapHoldConflict(err)
	if entities.ConflictOn(err, entities.KindOrder) || errors.Is(err, ErrHoldAlreadyExists) {
		current, loadErr := u.orders.GetByID(ctx, orderID)
		if loadErr != nil {
			return entities.Order{}, loadErr
		}
		logger.Info("[order][usecase] accept lost race", zap.String("order_id", orderID), zap.String("worker_id", workerID))
		return entities.Order{}, &entities.ConcurrencyError{OrderID: orderID, Status: current.Status}
	}
	if err != nil {
		logger.Warn("[order][usecase] accept failed", zap.String("order_id", orderID), zap.String("worker_id", workerID), zap.Error(err))
		return entities.Order{}, err
	}
	logger.Info("[order][usecase] accepted", zap.String("order_id", orderID), zap.String("worker_id", workerID))
	return accepted, nil
}

func (u *OrderUseCase) RequestPermission(ctx context.Context, orderID, workerID, reason string) (entities.Order, error) {
	return u.transition(ctx, "request-permission", orderID, workerID, entities.EventPermissionRequested,
		func(_ *ledgerBatch, o entities.Order, now time.Time) (entities.Order, error) {
			if o.WorkerID != workerID {
				return o, ErrNotAssignedWorker
			}
			return o.RequestPermission(workerID, strings.TrimSpace(reason), now)
		})
}

func (u *OrderUseCase) RespondPermission(ctx context.Context, orderID, clientID string, granted bool) (entities.Order, error) {
	return u.transition(ctx, "respond-permission", orderID, clientID, entities.EventPermissionResponded,
		func(_ *ledgerBatch, o entities.Order, now time.Time) (entities.Order, error) {
			if o.ClientID != clientID {
				return o, ErrNotOrderClient
			}
			return o.RespondPermission(granted, now)
		})
}

func (u *OrderUseCase) AttachEvidence(ctx context.Context, orderID, workerID string, item entities.EvidenceItem) (entities.Order, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return u.transition(ctx, "attach-evidence", orderID, workerID, entities.EventEvidenceAttached,
		func(_ *ledgerBatch, o entities.Order, now time.Time) (entities.Order, error) {
			if o.WorkerID != workerID {
				return o, ErrNotAssignedWorker
			}
			return o.AttachEvidence(item, now)
		})
}

func (u *OrderUseCase) SubmitForValidation(ctx context.Context, orderID, workerID string, overrideAck bool) (entities.Order, error) {
	return u.transition(ctx, "submit-for-validation", orderID, workerID, entities.EventOrderAwaitingValidation,
		func(_ *ledgerBatch, o entities.Order, now time.Time) (entities.Order, error) {
			if o.WorkerID != workerID {
				return o, ErrNotAssignedWorker
			}
			return o.SubmitForValidation(overrideAck, now)
		})
}

// Validate completes the order and releases the escrow with the commission
// split.
func (u *OrderUseCase) Validate(ctx context.Context, orderID, clientID string) (entities.Order, error) {
	return u.transition(ctx, "validate", orderID, clientID, entities.EventOrderCompleted,
		func(b *ledgerBatch, o entities.Order, now time.Time) (entities.Order, error) {
			if o.ClientID != clientID {
				return o, ErrNotOrderClient
			}
			next, err := o.Complete(now)
			if err != nil {
				return o, err
			}
			if _, err := u.ledger.planRelease(ctx, b, o.ID); err != nil {
				return o, err
			}
			return next, nil
		})
}

func (u *OrderUseCase) RaiseComplaint(ctx context.Context, orderID, clientID, reason string) (entities.Order, error) {
	return u.transition(ctx, "raise-complaint", orderID, clientID, entities.EventOrderDisputed,
		func(_ *ledgerBatch, o entities.Order, now time.Time) (entities.Order, error) {
			if o.ClientID != clientID {
				return o, ErrNotOrderClient
			}
			return o.Dispute(strings.TrimSpace(reason), now)
		})
}

// Cancel is open to the client and the assigned worker. Anything still
// locked goes back to the client.
func (u *OrderUseCase) Cancel(ctx context.Context, orderID, actorID, reason string) (entities.Order, error) {
	return u.transition(ctx, "cancel", orderID, actorID, entities.EventOrderCancelled,
		func(b *ledgerBatch, o entities.Order, now time.Time) (entities.Order, error) {
			if o.ClientID != actorID && (o.WorkerID == "" || o.WorkerID != actorID) {
				return o, ErrNotOrderParticipant
			}
			next, err := o.Cancel(strings.TrimSpace(reason), now)
			if err != nil {
				return o, err
			}
			if !o.Status.FundsLocked() {
				return next, nil
			}
			h, err := b.hold(ctx, o.ID)
			if err != nil {
				return o, err
			}
			if h.PendingRefundID != "" {
				return o, ErrRefundPending
			}
			if h.OrderID == "" || !h.Remaining.IsPositive() {
				return next, nil
			}
			refunded := h.Remaining
			if _, err := u.ledger.planRefund(ctx, b, o.ID, refunded); err != nil {
				return o, err
			}
			next.RefundedAmount = next.RefundedAmount.Add(refunded)
			return next, nil
		})
}

// ResolveDispute applies a supervisor decision: refundAmount goes back to the
// client and whatever stays locked is released to the worker.
func (u *OrderUseCase) ResolveDispute(ctx context.Context, orderID, supervisorID string, refundAmount decimal.Decimal) (entities.Order, error) {
	if refundAmount.IsNegative() {
		return entities.Order{}, entities.NewValidationError("refund_amount", "must not be negative")
	}
	o, err := u.transition(ctx, "resolve-dispute", orderID, supervisorID, "",
		func(b *ledgerBatch, o entities.Order, now time.Time) (entities.Order, error) {
			if o.Status != entities.OrderStatusDisputed {
				return o, &entities.StateTransitionError{Entity: "order", From: string(o.Status), Action: "resolve dispute"}
			}
			h, err := b.hold(ctx, o.ID)
			if err != nil {
				return o, err
			}
			if h.OrderID == "" || !h.Remaining.IsPositive() {
				if refundAmount.IsPositive() {
					return o, ErrRefundExceedsHold
				}
				return o.CloseDispute(entities.OrderStatusCancelled, now)
			}
			if h.PendingRefundID != "" {
				return o, ErrRefundPending
			}
			if refundAmount.GreaterThan(h.Remaining) {
				return o, ErrRefundExceedsHold
			}
			if refundAmount.IsPositive() {
				if _, err := u.ledger.planRefund(ctx, b, o.ID, refundAmount); err != nil {
					return o, err
				}
			}
			to := entities.OrderStatusRefunded
			if refundAmount.LessThan(h.Remaining) {
				if _, err := u.ledger.planRelease(ctx, b, o.ID); err != nil {
					return o, err
				}
				to = entities.OrderStatusCompleted
			}
			next, err := o.CloseDispute(to, now)
			if err != nil {
				return o, err
			}
			next.RefundedAmount = next.RefundedAmount.Add(refundAmount)
			return next, nil
		})
	if err != nil {
		return entities.Order{}, err
	}
	logger.Info("[order][usecase] dispute resolved", zap.String("order_id", o.ID), zap.String("supervisor_id", supervisorID),
		zap.String("status", string(o.Status)), zap.String("refunded", entities.FormatAmount(refundAmount)))
	return o, nil
}

func (u *OrderUseCase) Get(ctx context.Context, orderID string) (entities.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.Order{}, ErrInvalidOrderID
	}
	return u.load(ctx, orderID)
}

func (u *OrderUseCase) ListByClient(ctx context.Context, clientID string) ([]entities.Order, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, ErrInvalidActorID
	}
	return u.orders.ListByClient(ctx, clientID)
}

func (u *OrderUseCase) ListByWorker(ctx context.Context, workerID string) ([]entities.Order, error) {
	workerID = strings.TrimSpace(workerID)
	if workerID == "" {
		return nil, ErrInvalidActorID
	}
	return u.orders.ListByWorker(ctx, workerID)
}

// ListAvailable returns pending orders a worker may accept.
func (u *OrderUseCase) ListAvailable(ctx context.Context, limit int) ([]entities.Order, error) {
	if limit <= 0 {
		limit = defaultAvailableLimit
	}
	return u.orders.ListByStatus(ctx, entities.OrderStatusPending, limit)
}

func (u *OrderUseCase) load(ctx context.Context, orderID string) (entities.Order, error) {
	o, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}
	if o.ID == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	return o, nil
}

type transitionFunc func(b *ledgerBatch, o entities.Order, now time.Time) (entities.Order, error)

// statusEvents names the event for transitions whose outcome is decided
// inside the transition.
var statusEvents = map[entities.OrderStatus]string{
	entities.OrderStatusCompleted: entities.EventOrderCompleted,
	entities.OrderStatusCancelled: entities.EventOrderCancelled,
	entities.OrderStatusRefunded:  entities.EventOrderRefunded,
}

// transition loads the order, applies fn and commits the result with its
// event. An empty eventType derives the event from the resulting status.
func (u *OrderUseCase) transition(ctx context.Context, op, orderID, actorID, eventType string, fn transitionFunc) (entities.Order, error) {
	orderID, actorID = strings.TrimSpace(orderID), strings.TrimSpace(actorID)
	if orderID == "" {
		return entities.Order{}, ErrInvalidOrderID
	}
	if actorID == "" {
		return entities.Order{}, ErrInvalidActorID
	}

	var out entities.Order
	err := commitBatch(ctx, u.writer, u.wallets, op, func(b *ledgerBatch) error {
		o, err := u.load(ctx, orderID)
		if err != nil {
			return err
		}
		next, err := fn(b, o, b.now)
		if err != nil {
			return err
		}
		b.cs.PutOrder(next, o.Version)
		out = next
		et := eventType
		if et == "" {
			et = statusEvents[next.Status]
		}
		return b.emit(et, next.ID, orderPayload(next))
	})
	if err != nil {
		err = u.ledger.mapHoldConflict(err)
		logger.Warn("[order][usecase] transition failed", zap.String("op", op), zap.String("order_id", orderID),
			zap.String("actor_id", actorID), zap.Error(err))
		return entities.Order{}, err
	}
	logger.Info("[order][usecase] transition committed", zap.String("op", op), zap.String("order_id", orderID),
		zap.String("status", string(out.Status)))
	return out, nil
}
