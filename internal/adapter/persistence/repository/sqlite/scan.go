package sqlite

import (
	"encoding/json"
	"fmt"
	"marketplace_escrow/internal/domain/entities"
	"time"

	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const orderColumns = "data, version"

func scanOrder(s scanner) (entities.Order, error) {
	var (
		data    string
		version int64
	)
	if err := s.Scan(&data, &version); err != nil {
		return entities.Order{}, err
	}
	var o entities.Order
	if err := json.Unmarshal([]byte(data), &o); err != nil {
		return entities.Order{}, fmt.Errorf("decode order: %w", err)
	}
	o.Version = version
	return o, nil
}

const accountColumns = "owner_id, available, locked, verification, version, updated_at"

func scanAccount(s scanner) (entities.WalletAccount, error) {
	var (
		a                          entities.WalletAccount
		available, locked, updated string
		verification               string
	)
	if err := s.Scan(&a.OwnerID, &available, &locked, &verification, &a.Version, &updated); err != nil {
		return entities.WalletAccount{}, err
	}
	a.Available = parseAmount(available)
	a.Locked = parseAmount(locked)
	a.Verification = entities.VerificationStatus(verification)
	a.UpdatedAt = parseTime(updated)
	return a, nil
}

const holdColumns = "order_id, payer_id, worker_id, amount, remaining, refunded, released, reversed, " +
	"worker_amount, platform_amount, status, pending_refund_id, created_at, updated_at, version"

func scanHold(s scanner) (entities.EscrowHold, error) {
	var (
		h                                                      entities.EscrowHold
		amount, remaining, refunded, released, reversed        string
		workerAmount, platformAmount, status, created, updated string
	)
	if err := s.Scan(&h.OrderID, &h.PayerID, &h.WorkerID, &amount, &remaining, &refunded, &released, &reversed,
		&workerAmount, &platformAmount, &status, &h.PendingRefundID, &created, &updated, &h.Version); err != nil {
		return entities.EscrowHold{}, err
	}
	h.Amount = parseAmount(amount)
	h.Remaining = parseAmount(remaining)
	h.Refunded = parseAmount(refunded)
	h.Released = parseAmount(released)
	h.Reversed = parseAmount(reversed)
	h.WorkerAmount = parseAmount(workerAmount)
	h.PlatformAmount = parseAmount(platformAmount)
	h.Status = entities.HoldStatus(status)
	h.CreatedAt = parseTime(created)
	h.UpdatedAt = parseTime(updated)
	return h, nil
}

const transactionColumns = "id, order_id, account_id, kind, direction, amount, share_worker, share_platform, " +
	"available_delta, locked_delta, resulting_available, resulting_locked, status, description, reference, created_at"

func scanTransaction(s scanner) (entities.Transaction, error) {
	var (
		t                                            entities.Transaction
		kind, direction, amount, shareW, shareP      string
		availDelta, lockedDelta, resAvail, resLocked string
		status, created                              string
	)
	if err := s.Scan(&t.ID, &t.OrderID, &t.AccountID, &kind, &direction, &amount, &shareW, &shareP,
		&availDelta, &lockedDelta, &resAvail, &resLocked, &status, &t.Description, &t.Reference, &created); err != nil {
		return entities.Transaction{}, err
	}
	t.Kind = entities.TxKind(kind)
	t.Direction = entities.Direction(direction)
	t.Amount = parseAmount(amount)
	if shareW != "" || shareP != "" {
		t.Share = &entities.Share{Worker: parseAmount(shareW), Platform: parseAmount(shareP)}
	}
	t.AvailableDelta = parseAmount(availDelta)
	t.LockedDelta = parseAmount(lockedDelta)
	t.Resulting = entities.Balances{Available: parseAmount(resAvail), Locked: parseAmount(resLocked)}
	t.Status = entities.TxStatus(status)
	t.CreatedAt = parseTime(created)
	return t, nil
}

const refundColumns = "id, order_id, filed_by, contested_tx_id, target, amount, approved_amount, reason, status, " +
	"reviewer_id, decision_note, created_at, updated_at, decided_at, version"

func scanRefund(s scanner) (entities.RefundRequest, error) {
	var (
		r                                entities.RefundRequest
		target, amount, approved, status string
		created, updated, decided        string
	)
	if err := s.Scan(&r.ID, &r.OrderID, &r.FiledBy, &r.ContestedTxID, &target, &amount, &approved, &r.Reason, &status,
		&r.ReviewerID, &r.DecisionNote, &created, &updated, &decided, &r.Version); err != nil {
		return entities.RefundRequest{}, err
	}
	r.Target = entities.RefundTarget(target)
	r.Amount = parseAmount(amount)
	r.ApprovedAmount = parseAmount(approved)
	r.Status = entities.RefundStatus(status)
	r.CreatedAt = parseTime(created)
	r.UpdatedAt = parseTime(updated)
	r.DecidedAt = parseTime(decided)
	return r, nil
}

const outboxColumns = "id, type, aggregate_id, payload, status, attempts, created_at, published_at"

func scanOutbox(s scanner) (entities.OutboxEvent, error) {
	var (
		e                  entities.OutboxEvent
		payload, status    string
		created, published string
	)
	if err := s.Scan(&e.ID, &e.Type, &e.AggregateID, &payload, &status, &e.Attempts, &created, &published); err != nil {
		return entities.OutboxEvent{}, err
	}
	e.Payload = json.RawMessage(payload)
	e.Status = entities.OutboxStatus(status)
	e.CreatedAt = parseTime(created)
	e.PublishedAt = parseTime(published)
	return e, nil
}
