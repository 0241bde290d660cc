package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase/interfaces"
)

// ChangesetWriter commits a changeset inside one SQL transaction. Guarded
// updates match on the expected version; a zero-row result rolls the whole
// changeset back with a *entities.ConflictError.
type ChangesetWriter struct {
	db *sql.DB
}

var _ interfaces.IChangesetWriter = (*ChangesetWriter)(nil)

func NewChangesetWriter(db *sql.DB) *ChangesetWriter {
	return &ChangesetWriter{db: db}
}

func (w *ChangesetWriter) Commit(ctx context.Context, cs interfaces.Changeset) error {
	if cs.Size() == 0 {
		return nil
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin changeset: %w", err)
	}
	defer tx.Rollback()

	for _, ow := range cs.Orders {
		if err := putOrder(ctx, tx, ow); err != nil {
			return err
		}
	}
	for _, aw := range cs.Accounts {
		if err := putAccount(ctx, tx, aw); err != nil {
			return err
		}
	}
	for _, hw := range cs.Holds {
		if err := putHold(ctx, tx, hw); err != nil {
			return err
		}
	}
	for _, rw := range cs.Refunds {
		if err := putRefund(ctx, tx, rw); err != nil {
			return err
		}
	}
	for _, t := range cs.Transactions {
		if err := insertTransaction(ctx, tx, t); err != nil {
			return err
		}
	}
	for _, e := range cs.Events {
		if err := insertEvent(ctx, tx, e); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit changeset: %w", err)
	}
	return nil
}

// guarded runs an insert (expected == 0) or a version-checked update and
// turns a zero-row result into a conflict on entity/id.
func guarded(ctx context.Context, tx *sql.Tx, entity, id string, expected int64, insert, update string, args ...any) error {
	var (
		res sql.Result
		err error
	)
	if expected == 0 {
		res, err = tx.ExecContext(ctx, insert, args...)
	} else {
		res, err = tx.ExecContext(ctx, update, append(args, id, expected)...)
	}
	if err != nil {
		return fmt.Errorf("write %s %s: %w", entity, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write %s %s: %w", entity, id, err)
	}
	if n == 0 {
		return &entities.ConflictError{Entity: entity, ID: id}
	}
	return nil
}

func putOrder(ctx context.Context, tx *sql.Tx, w interfaces.OrderWrite) error {
	o := w.Order
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", o.ID, err)
	}
	return guarded(ctx, tx, entities.KindOrder, o.ID, w.ExpectedVersion,
		`INSERT INTO orders (client_id, worker_id, status, created_at, version, data, id)
		 VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		`UPDATE orders SET client_id = ?, worker_id = ?, status = ?, created_at = ?, version = ?, data = ?
		 WHERE id = ? AND version = ?`,
		withID(w.ExpectedVersion, o.ID, o.ClientID, o.WorkerID, string(o.Status), formatTime(o.CreatedAt), o.Version, string(data))...)
}

func putAccount(ctx context.Context, tx *sql.Tx, w interfaces.AccountWrite) error {
	a := w.Account
	return guarded(ctx, tx, entities.KindAccount, a.OwnerID, w.ExpectedVersion,
		`INSERT INTO wallet_accounts (available, locked, verification, version, updated_at, owner_id)
		 VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(owner_id) DO NOTHING`,
		`UPDATE wallet_accounts SET available = ?, locked = ?, verification = ?, version = ?, updated_at = ?
		 WHERE owner_id = ? AND version = ?`,
		withID(w.ExpectedVersion, a.OwnerID, formatAmount(a.Available), formatAmount(a.Locked), string(a.Verification),
			a.Version, formatTime(a.UpdatedAt))...)
}

func putHold(ctx context.Context, tx *sql.Tx, w interfaces.HoldWrite) error {
	h := w.Hold
	return guarded(ctx, tx, entities.KindHold, h.OrderID, w.ExpectedVersion,
		`INSERT INTO escrow_holds (payer_id, worker_id, amount, remaining, refunded, released, reversed,
		   worker_amount, platform_amount, status, pending_refund_id, created_at, updated_at, version, order_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(order_id) DO NOTHING`,
		`UPDATE escrow_holds SET payer_id = ?, worker_id = ?, amount = ?, remaining = ?, refunded = ?, released = ?,
		   reversed = ?, worker_amount = ?, platform_amount = ?, status = ?, pending_refund_id = ?, created_at = ?,
		   updated_at = ?, version = ?
		 WHERE order_id = ? AND version = ?`,
		withID(w.ExpectedVersion, h.OrderID, h.PayerID, h.WorkerID, formatAmount(h.Amount), formatAmount(h.Remaining),
			formatAmount(h.Refunded), formatAmount(h.Released), formatAmount(h.Reversed), formatAmount(h.WorkerAmount),
			formatAmount(h.PlatformAmount), string(h.Status), h.PendingRefundID, formatTime(h.CreatedAt),
			formatTime(h.UpdatedAt), h.Version)...)
}

func putRefund(ctx context.Context, tx *sql.Tx, w interfaces.RefundWrite) error {
	r := w.Refund
	return guarded(ctx, tx, entities.KindRefund, r.ID, w.ExpectedVersion,
		`INSERT INTO refund_requests (order_id, filed_by, contested_tx_id, target, amount, approved_amount, reason,
		   status, reviewer_id, decision_note, created_at, updated_at, decided_at, version, id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		`UPDATE refund_requests SET order_id = ?, filed_by = ?, contested_tx_id = ?, target = ?, amount = ?,
		   approved_amount = ?, reason = ?, status = ?, reviewer_id = ?, decision_note = ?, created_at = ?,
		   updated_at = ?, decided_at = ?, version = ?
		 WHERE id = ? AND version = ?`,
		withID(w.ExpectedVersion, r.ID, r.OrderID, r.FiledBy, r.ContestedTxID, string(r.Target), formatAmount(r.Amount),
			formatAmount(r.ApprovedAmount), r.Reason, string(r.Status), r.ReviewerID, r.DecisionNote,
			formatTime(r.CreatedAt), formatTime(r.UpdatedAt), formatTime(r.DecidedAt), r.Version)...)
}

// withID appends the key for the insert form; the update form gets the key
// and expected version from guarded.
func withID(expected int64, id string, cols ...any) []any {
	if expected == 0 {
		return append(cols, id)
	}
	return cols
}

func insertTransaction(ctx context.Context, tx *sql.Tx, t entities.Transaction) error {
	var shareW, shareP string
	if t.Share != nil {
		shareW, shareP = formatAmount(t.Share.Worker), formatAmount(t.Share.Platform)
	}
	return guarded(ctx, tx, entities.KindTransaction, t.ID, 0,
		`INSERT INTO ledger_transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`, "",
		t.ID, t.OrderID, t.AccountID, string(t.Kind), string(t.Direction), formatAmount(t.Amount), shareW, shareP,
		formatAmount(t.AvailableDelta), formatAmount(t.LockedDelta), formatAmount(t.Resulting.Available),
		formatAmount(t.Resulting.Locked), string(t.Status), t.Description, t.Reference, formatTime(t.CreatedAt))
}

func insertEvent(ctx context.Context, tx *sql.Tx, e entities.OutboxEvent) error {
	return guarded(ctx, tx, entities.KindEvent, e.ID, 0,
		`INSERT INTO outbox_events (`+outboxColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`, "",
		e.ID, e.Type, e.AggregateID, string(e.Payload), string(e.Status), e.Attempts, formatTime(e.CreatedAt),
		formatTime(e.PublishedAt))
}
