package usecase

import (
	"context"
	"errors"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase/interfaces"
	"marketplace_escrow/pkg/logger"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidRefundID   = errors.New("invalid refund id")
	ErrRefundNotFound    = errors.New("refund request not found")
	ErrRefundAlreadyOpen = errors.New("a refund request is already open for order")
)

type FileRefundInput struct {
	OrderID string
	FiledBy string
	Amount  decimal.Decimal
	Reason  string
}

// IRefundUseCase files refund requests and applies adjudicator decisions.
// At most one request per order is open at a time.
type IRefundUseCase interface {
	FileRequest(ctx context.Context, in FileRefundInput) (entities.RefundRequest, error)
	StartReview(ctx context.Context, refundID, supervisorID string) (entities.RefundRequest, error)
	Approve(ctx context.Context, refundID, supervisorID string, amount *decimal.Decimal, note string) (entities.RefundRequest, error)
	Reject(ctx context.Context, refundID, supervisorID, note string) (entities.RefundRequest, error)
	Get(ctx context.Context, refundID string) (entities.RefundRequest, error)
	ListByOrder(ctx context.Context, orderID string) ([]entities.RefundRequest, error)
}

type RefundUseCase struct {
	refunds interfaces.IRefundRepository
	orders  interfaces.IOrderRepository
	wallets interfaces.IWalletRepository
	writer  interfaces.IChangesetWriter
	ledger  *LedgerUseCase
}

var _ IRefundUseCase = (*RefundUseCase)(nil)

func NewRefundUseCase(refunds interfaces.IRefundRepository, orders interfaces.IOrderRepository, wallets interfaces.IWalletRepository, writer interfaces.IChangesetWriter, ledger *LedgerUseCase) *RefundUseCase {
	return &RefundUseCase{refunds: refunds, orders: orders, wallets: wallets, writer: writer, ledger: ledger}
}

func refundPayload(r entities.RefundRequest) map[string]any {
	return map[string]any{
		"refund_id":       r.ID,
		"order_id":        r.OrderID,
		"status":          r.Status,
		"target":          r.Target,
		"amount":          entities.FormatAmount(r.Amount),
		"approved_amount": entities.FormatAmount(r.ApprovedAmount),
	}
}

// FileRequest contests the order's locked funds or, after settlement, the
// released payment. The amount is bounded by what is still outstanding, so
// an oversized request never reaches the adjudicator.
func (u *RefundUseCase) FileRequest(ctx context.Context, in FileRefundInput) (entities.RefundRequest, error) {
	in.OrderID, in.FiledBy, in.Reason = strings.TrimSpace(in.OrderID), strings.TrimSpace(in.FiledBy), strings.TrimSpace(in.Reason)
	if in.OrderID == "" {
		return entities.RefundRequest{}, ErrInvalidOrderID
	}
	if in.FiledBy == "" {
		return entities.RefundRequest{}, ErrInvalidActorID
	}
	if in.Reason == "" {
		return entities.RefundRequest{}, entities.NewValidationError("reason", "required")
	}
	if err := validateAmount("amount", in.Amount); err != nil {
		return entities.RefundRequest{}, err
	}

	var filed entities.RefundRequest
	err := commitBatch(ctx, u.writer, u.wallets, "file-refund", func(b *ledgerBatch) error {
		o, err := u.orders.GetByID(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if o.ID == "" {
			return ErrOrderNotFound
		}
		if o.ClientID != in.FiledBy {
			return ErrNotOrderClient
		}
		h, err := b.hold(ctx, o.ID)
		if err != nil {
			return err
		}
		if h.OrderID == "" {
			return entities.NewValidationError("order_id", "order has no escrowed funds to contest")
		}
		if h.PendingRefundID != "" {
			return ErrRefundAlreadyOpen
		}

		target, contested, outstanding := entities.RefundTargetLocked, entities.LockTxID(o.ID), h.Remaining
		if !h.Remaining.IsPositive() {
			target, contested, outstanding = entities.RefundTargetReleased, entities.ReleaseTxID(o.ID), h.Reversible()
		}
		if !outstanding.IsPositive() {
			return entities.NewValidationError("order_id", "nothing left to refund for this order")
		}
		if in.Amount.GreaterThan(outstanding) {
			return entities.NewValidationError("amount", "exceeds the contested amount "+entities.FormatAmount(outstanding))
		}

		r := entities.RefundRequest{
			ID:             uuid.NewString(),
			OrderID:        o.ID,
			FiledBy:        in.FiledBy,
			ContestedTxID:  contested,
			Target:         target,
			Amount:         in.Amount,
			ApprovedAmount: decimal.Zero,
			Reason:         in.Reason,
			Status:         entities.RefundSubmitted,
			CreatedAt:      b.now,
			UpdatedAt:      b.now,
			Version:        1,
		}
		h.PendingRefundID = r.ID
		b.setHold(h)
		b.cs.PutRefund(r, 0)
		filed = r
		return b.emit(entities.EventRefundFiled, r.ID, refundPayload(r))
	})
	if err != nil {
		logger.Warn("[refund][usecase] file failed", zap.String("order_id", in.OrderID), zap.Error(err))
		return entities.RefundRequest{}, err
	}
	logger.Info("[refund][usecase] filed", zap.String("refund_id", filed.ID), zap.String("order_id", filed.OrderID),
		zap.String("target", string(filed.Target)), zap.String("amount", entities.FormatAmount(filed.Amount)))
	return filed, nil
}

func (u *RefundUseCase) StartReview(ctx context.Context, refundID, supervisorID string) (entities.RefundRequest, error) {
	return u.decide(ctx, "start-review", refundID, supervisorID, entities.EventRefundUnderReview,
		func(b *ledgerBatch, r entities.RefundRequest) (entities.RefundRequest, error) {
			return r.StartReview(supervisorID, b.now)
		})
}

// Approve refunds the approved amount from escrow, or reverses it from the
// released payment, and lifts the order's refund guard in the same commit.
func (u *RefundUseCase) Approve(ctx context.Context, refundID, supervisorID string, amount *decimal.Decimal, note string) (entities.RefundRequest, error) {
	return u.decide(ctx, "approve", refundID, supervisorID, entities.EventRefundApproved,
		func(b *ledgerBatch, r entities.RefundRequest) (entities.RefundRequest, error) {
			next, err := r.Approve(supervisorID, amount, strings.TrimSpace(note), b.now)
			if err != nil {
				return r, err
			}
			if err := u.clearGuard(ctx, b, r); err != nil {
				return r, err
			}
			var h entities.EscrowHold
			if r.Target == entities.RefundTargetReleased {
				h, err = u.ledger.planReverse(ctx, b, r.OrderID, next.ApprovedAmount)
			} else {
				h, err = u.ledger.planRefund(ctx, b, r.OrderID, next.ApprovedAmount)
			}
			if err != nil {
				return r, err
			}

			o, err := u.orders.GetByID(ctx, r.OrderID)
			if err != nil {
				return r, err
			}
			if o.ID == "" {
				return r, ErrOrderNotFound
			}
			full := r.Target == entities.RefundTargetLocked && h.Remaining.IsZero()
			updated := o.MarkRefunded(next.ApprovedAmount, full, b.now)
			b.cs.PutOrder(updated, o.Version)
			if updated.Status != o.Status {
				if err := b.emit(entities.EventOrderRefunded, o.ID, orderPayload(updated)); err != nil {
					return r, err
				}
			}
			return next, nil
		})
}

func (u *RefundUseCase) Reject(ctx context.Context, refundID, supervisorID, note string) (entities.RefundRequest, error) {
	return u.decide(ctx, "reject", refundID, supervisorID, entities.EventRefundRejected,
		func(b *ledgerBatch, r entities.RefundRequest) (entities.RefundRequest, error) {
			next, err := r.Reject(supervisorID, strings.TrimSpace(note), b.now)
			if err != nil {
				return r, err
			}
			return next, u.clearGuard(ctx, b, r)
		})
}

func (u *RefundUseCase) Get(ctx context.Context, refundID string) (entities.RefundRequest, error) {
	refundID = strings.TrimSpace(refundID)
	if refundID == "" {
		return entities.RefundRequest{}, ErrInvalidRefundID
	}
	return u.load(ctx, refundID)
}

func (u *RefundUseCase) ListByOrder(ctx context.Context, orderID string) ([]entities.RefundRequest, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	return u.refunds.ListByOrder(ctx, orderID)
}

func (u *RefundUseCase) load(ctx context.Context, refundID string) (entities.RefundRequest, error) {
	r, err := u.refunds.GetByID(ctx, refundID)
	if err != nil {
		return entities.RefundRequest{}, err
	}
	if r.ID == "" {
		return entities.RefundRequest{}, ErrRefundNotFound
	}
	return r, nil
}

func (u *RefundUseCase) clearGuard(ctx context.Context, b *ledgerBatch, r entities.RefundRequest) error {
	h, err := b.hold(ctx, r.OrderID)
	if err != nil {
		return err
	}
	if h.PendingRefundID != r.ID {
		logger.Error("[refund][invariant] hold guard does not match open request",
			zap.String("refund_id", r.ID), zap.String("order_id", r.OrderID), zap.String("guard", h.PendingRefundID))
		return ErrLedgerInvariant
	}
	h.PendingRefundID = ""
	b.setHold(h)
	return nil
}

func (u *RefundUseCase) decide(ctx context.Context, op, refundID, supervisorID, eventType string, fn func(b *ledgerBatch, r entities.RefundRequest) (entities.RefundRequest, error)) (entities.RefundRequest, error) {
	refundID, supervisorID = strings.TrimSpace(refundID), strings.TrimSpace(supervisorID)
	if refundID == "" {
		return entities.RefundRequest{}, ErrInvalidRefundID
	}
	if supervisorID == "" {
		return entities.RefundRequest{}, ErrInvalidActorID
	}
	var out entities.RefundRequest
	err := commitBatch(ctx, u.writer, u.wallets, op, func(b *ledgerBatch) error {
		r, err := u.load(ctx, refundID)
		if err != nil {
			return err
		}
		next, err := fn(b, r)
		if err != nil {
			return err
		}
		b.cs.PutRefund(next, r.Version)
		out = next
		return b.emit(eventType, next.ID, refundPayload(next))
	})
	if err != nil {
		logger.Warn("[refund][usecase] decision failed", zap.String("op", op), zap.String("refund_id", refundID), zap.Error(err))
		return entities.RefundRequest{}, err
	}
	logger.Info("[refund][usecase] decision committed", zap.String("op", op), zap.String("refund_id", refundID),
		zap.String("status", string(out.Status)))
	return out, nil
}
