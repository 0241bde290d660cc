package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase/interfaces"
	"strings"
	"time"
)

// OrderRepository reads orders from the local store. Like the DynamoDB
// repositories, a missing record is a zero value and a nil error.
type OrderRepository struct {
	db *sql.DB
}

var _ interfaces.IOrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, nil
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("get order %s: %w", id, err)
	}
	return o, nil
}

func (r *OrderRepository) ListByClient(ctx context.Context, clientID string) ([]entities.Order, error) {
	return r.list(ctx, "SELECT "+orderColumns+" FROM orders WHERE client_id = ? ORDER BY created_at DESC", clientID)
}

func (r *OrderRepository) ListByWorker(ctx context.Context, workerID string) ([]entities.Order, error) {
	return r.list(ctx, "SELECT "+orderColumns+" FROM orders WHERE worker_id = ? ORDER BY created_at DESC", workerID)
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status entities.OrderStatus, limit int) ([]entities.Order, error) {
	if limit <= 0 {
		limit = -1
	}
	return r.list(ctx, "SELECT "+orderColumns+" FROM orders WHERE status = ? ORDER BY created_at ASC LIMIT ?", string(status), limit)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]entities.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	orders := []entities.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type WalletRepository struct {
	db *sql.DB
}

var _ interfaces.IWalletRepository = (*WalletRepository)(nil)

func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetAccount(ctx context.Context, ownerID string) (entities.WalletAccount, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM wallet_accounts WHERE owner_id = ?", ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.WalletAccount{}, nil
	}
	if err != nil {
		return entities.WalletAccount{}, fmt.Errorf("get account %s: %w", ownerID, err)
	}
	return a, nil
}

func (r *WalletRepository) GetHold(ctx context.Context, orderID string) (entities.EscrowHold, error) {
	h, err := scanHold(r.db.QueryRowContext(ctx, "SELECT "+holdColumns+" FROM escrow_holds WHERE order_id = ?", orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.EscrowHold{}, nil
	}
	if err != nil {
		return entities.EscrowHold{}, fmt.Errorf("get hold %s: %w", orderID, err)
	}
	return h, nil
}

func (r *WalletRepository) GetTransaction(ctx context.Context, id string) (entities.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM ledger_transactions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Transaction{}, nil
	}
	if err != nil {
		return entities.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return t, nil
}

func (r *WalletRepository) ListTransactions(ctx context.Context, accountID string, filter interfaces.TransactionFilter) ([]entities.Transaction, error) {
	var (
		where = []string{"account_id = ?"}
		args  = []any{accountID}
	)
	if len(filter.Kinds) > 0 {
		marks := make([]string, len(filter.Kinds))
		for i, k := range filter.Kinds {
			marks[i] = "?"
			args = append(args, string(k))
		}
		where = append(where, "kind IN ("+strings.Join(marks, ", ")+")")
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if !filter.From.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, formatTime(filter.From))
	}
	if !filter.To.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, formatTime(filter.To))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, "SELECT "+transactionColumns+" FROM ledger_transactions WHERE "+
		strings.Join(where, " AND ")+" ORDER BY created_at DESC, rowid DESC LIMIT ?", args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions for %s: %w", accountID, err)
	}
	defer rows.Close()
	txs := []entities.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

type RefundRepository struct {
	db *sql.DB
}

var _ interfaces.IRefundRepository = (*RefundRepository)(nil)

func NewRefundRepository(db *sql.DB) *RefundRepository {
	return &RefundRepository{db: db}
}

func (r *RefundRepository) GetByID(ctx context.Context, id string) (entities.RefundRequest, error) {
	rr, err := scanRefund(r.db.QueryRowContext(ctx, "SELECT "+refundColumns+" FROM refund_requests WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.RefundRequest{}, nil
	}
	if err != nil {
		return entities.RefundRequest{}, fmt.Errorf("get refund %s: %w", id, err)
	}
	return rr, nil
}

func (r *RefundRepository) ListByOrder(ctx context.Context, orderID string) ([]entities.RefundRequest, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+refundColumns+" FROM refund_requests WHERE order_id = ? ORDER BY created_at ASC", orderID)
	if err != nil {
		return nil, fmt.Errorf("list refunds for %s: %w", orderID, err)
	}
	defer rows.Close()
	out := []entities.RefundRequest{}
	for rows.Next() {
		rr, err := scanRefund(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

type OutboxRepository struct {
	db *sql.DB
}

var _ interfaces.IOutboxRepository = (*OutboxRepository)(nil)

func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]entities.OutboxEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, "SELECT "+outboxColumns+" FROM outbox_events WHERE status = ? ORDER BY created_at ASC, rowid ASC LIMIT ?",
		string(entities.OutboxPending), limit)
	if err != nil {
		return nil, fmt.Errorf("list pending events: %w", err)
	}
	defer rows.Close()
	out := []entities.OutboxEvent{}
	for rows.Next() {
		e, err := scanOutbox(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE outbox_events SET status = ?, published_at = ?, attempts = attempts + 1 WHERE id = ? AND status = ?",
		string(entities.OutboxPublished), formatTime(at), id, string(entities.OutboxPending))
	if err != nil {
		return fmt.Errorf("mark event %s published: %w", id, err)
	}
	return nil
}
