package repository

import (
	"encoding/json"
	"fmt"
	"marketplace_escrow/internal/domain/entities"
)

// orderItem keeps the indexed attributes flat and the rest of the order as a
// JSON document.
type orderItem struct {
	ID        string `dynamodbav:"id"`
	ClientID  string `dynamodbav:"client_id"`
	WorkerID  string `dynamodbav:"worker_id,omitempty"`
	Status    string `dynamodbav:"status"`
	CreatedAt string `dynamodbav:"created_at"`
	Version   int64  `dynamodbav:"version"`
	Data      string `dynamodbav:"data"`
}

func toOrderItem(o entities.Order) (orderItem, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return orderItem{}, fmt.Errorf("encode order %s: %w", o.ID, err)
	}
	return orderItem{
		ID:        o.ID,
		ClientID:  o.ClientID,
		WorkerID:  o.WorkerID,
		Status:    string(o.Status),
		CreatedAt: formatTime(o.CreatedAt),
		Version:   o.Version,
		Data:      string(data),
	}, nil
}

func fromOrderItem(it orderItem) (entities.Order, error) {
	var o entities.Order
	if err := json.Unmarshal([]byte(it.Data), &o); err != nil {
		return entities.Order{}, fmt.Errorf("decode order %s: %w", it.ID, err)
	}
	o.Version = it.Version
	return o, nil
}

type accountItem struct {
	OwnerID      string `dynamodbav:"owner_id"`
	Available    string `dynamodbav:"available"`
	Locked       string `dynamodbav:"locked"`
	Verification string `dynamodbav:"verification"`
	Version      int64  `dynamodbav:"version"`
	UpdatedAt    string `dynamodbav:"updated_at"`
}

func toAccountItem(a entities.WalletAccount) accountItem {
	return accountItem{
		OwnerID:      a.OwnerID,
		Available:    formatAmount(a.Available),
		Locked:       formatAmount(a.Locked),
		Verification: string(a.Verification),
		Version:      a.Version,
		UpdatedAt:    formatTime(a.UpdatedAt),
	}
}

func fromAccountItem(it accountItem) entities.WalletAccount {
	return entities.WalletAccount{
		OwnerID:      it.OwnerID,
		Available:    parseAmount(it.Available),
		Locked:       parseAmount(it.Locked),
		Verification: entities.VerificationStatus(it.Verification),
		Version:      it.Version,
		UpdatedAt:    parseTime(it.UpdatedAt),
	}
}

type holdItem struct {
	OrderID         string `dynamodbav:"order_id"`
	PayerID         string `dynamodbav:"payer_id"`
	WorkerID        string `dynamodbav:"worker_id"`
	Amount          string `dynamodbav:"amount"`
	Remaining       string `dynamodbav:"remaining"`
	Refunded        string `dynamodbav:"refunded"`
	Released        string `dynamodbav:"released"`
	Reversed        string `dynamodbav:"reversed"`
	WorkerAmount    string `dynamodbav:"worker_amount"`
	PlatformAmount  string `dynamodbav:"platform_amount"`
	Status          string `dynamodbav:"status"`
	PendingRefundID string `dynamodbav:"pending_refund_id,omitempty"`
	CreatedAt       string `dynamodbav:"created_at"`
	UpdatedAt       string `dynamodbav:"updated_at"`
	Version         int64  `dynamodbav:"version"`
}

func toHoldItem(h entities.EscrowHold) holdItem {
	return holdItem{
		OrderID:         h.OrderID,
		PayerID:         h.PayerID,
		WorkerID:        h.WorkerID,
		Amount:          formatAmount(h.Amount),
		Remaining:       formatAmount(h.Remaining),
		Refunded:        formatAmount(h.Refunded),
		Released:        formatAmount(h.Released),
		Reversed:        formatAmount(h.Reversed),
		WorkerAmount:    formatAmount(h.WorkerAmount),
		PlatformAmount:  formatAmount(h.PlatformAmount),
		Status:          string(h.Status),
		PendingRefundID: h.PendingRefundID,
		CreatedAt:       formatTime(h.CreatedAt),
		UpdatedAt:       formatTime(h.UpdatedAt),
		Version:         h.Version,
	}
}

func fromHoldItem(it holdItem) entities.EscrowHold {
	return entities.EscrowHold{
		OrderID:         it.OrderID,
		PayerID:         it.PayerID,
		WorkerID:        it.WorkerID,
		Amount:          parseAmount(it.Amount),
		Remaining:       parseAmount(it.Remaining),
		Refunded:        parseAmount(it.Refunded),
		Released:        parseAmount(it.Released),
		Reversed:        parseAmount(it.Reversed),
		WorkerAmount:    parseAmount(it.WorkerAmount),
		PlatformAmount:  parseAmount(it.PlatformAmount),
		Status:          entities.HoldStatus(it.Status),
		PendingRefundID: it.PendingRefundID,
		CreatedAt:       parseTime(it.CreatedAt),
		UpdatedAt:       parseTime(it.UpdatedAt),
		Version:         it.Version,
	}
}

type transactionItem struct {
	ID                 string `dynamodbav:"id"`
	OrderID            string `dynamodbav:"order_id,omitempty"`
	AccountID          string `dynamodbav:"account_id"`
	Kind               string `dynamodbav:"kind"`
	Direction          string `dynamodbav:"direction"`
	Amount             string `dynamodbav:"amount"`
	ShareWorker        string `dynamodbav:"share_worker,omitempty"`
	SharePlatform      string `dynamodbav:"share_platform,omitempty"`
	AvailableDelta     string `dynamodbav:"available_delta"`
	LockedDelta        string `dynamodbav:"locked_delta"`
	ResultingAvailable string `dynamodbav:"resulting_available"`
	ResultingLocked    string `dynamodbav:"resulting_locked"`
	Status             string `dynamodbav:"status"`
	Description        string `dynamodbav:"description"`
	Reference          string `dynamodbav:"reference,omitempty"`
	CreatedAt          string `dynamodbav:"created_at"`
}

func toTransactionItem(t entities.Transaction) transactionItem {
	it := transactionItem{
		ID:                 t.ID,
		OrderID:            t.OrderID,
		AccountID:          t.AccountID,
		Kind:               string(t.Kind),
		Direction:          string(t.Direction),
		Amount:             formatAmount(t.Amount),
		AvailableDelta:     formatAmount(t.AvailableDelta),
		LockedDelta:        formatAmount(t.LockedDelta),
		ResultingAvailable: formatAmount(t.Resulting.Available),
		ResultingLocked:    formatAmount(t.Resulting.Locked),
		Status:             string(t.Status),
		Description:        t.Description,
		Reference:          t.Reference,
		CreatedAt:          formatTime(t.CreatedAt),
	}
	if t.Share != nil {
		it.ShareWorker = formatAmount(t.Share.Worker)
		it.SharePlatform = formatAmount(t.Share.Platform)
	}
	return it
}

func fromTransactionItem(it transactionItem) entities.Transaction {
	t := entities.Transaction{
		ID:             it.ID,
		OrderID:        it.OrderID,
		AccountID:      it.AccountID,
		Kind:           entities.TxKind(it.Kind),
		Direction:      entities.Direction(it.Direction),
		Amount:         parseAmount(it.Amount),
		AvailableDelta: parseAmount(it.AvailableDelta),
		LockedDelta:    parseAmount(it.LockedDelta),
		Resulting: entities.Balances{
			Available: parseAmount(it.ResultingAvailable),
			Locked:    parseAmount(it.ResultingLocked),
		},
		Status:      entities.TxStatus(it.Status),
		Description: it.Description,
		Reference:   it.Reference,
		CreatedAt:   parseTime(it.CreatedAt),
	}
	if it.ShareWorker != "" || it.SharePlatform != "" {
		t.Share = &entities.Share{Worker: parseAmount(it.ShareWorker), Platform: parseAmount(it.SharePlatform)}
	}
	return t
}

type refundItem struct {
	ID             string `dynamodbav:"id"`
	OrderID        string `dynamodbav:"order_id"`
	FiledBy        string `dynamodbav:"filed_by"`
	ContestedTxID  string `dynamodbav:"contested_tx_id"`
	Target         string `dynamodbav:"target"`
	Amount         string `dynamodbav:"amount"`
	ApprovedAmount string `dynamodbav:"approved_amount"`
	Reason         string `dynamodbav:"reason"`
	Status         string `dynamodbav:"status"`
	ReviewerID     string `dynamodbav:"reviewer_id,omitempty"`
	DecisionNote   string `dynamodbav:"decision_note,omitempty"`
	CreatedAt      string `dynamodbav:"created_at"`
	UpdatedAt      string `dynamodbav:"updated_at"`
	DecidedAt      string `dynamodbav:"decided_at,omitempty"`
	Version        int64  `dynamodbav:"version"`
}

func toRefundItem(r entities.RefundRequest) refundItem {
	return refundItem{
		ID:             r.ID,
		OrderID:        r.OrderID,
		FiledBy:        r.FiledBy,
		ContestedTxID:  r.ContestedTxID,
		Target:         string(r.Target),
		Amount:         formatAmount(r.Amount),
		ApprovedAmount: formatAmount(r.ApprovedAmount),
		Reason:         r.Reason,
		Status:         string(r.Status),
		ReviewerID:     r.ReviewerID,
		DecisionNote:   r.DecisionNote,
		CreatedAt:      formatTime(r.CreatedAt),
		UpdatedAt:      formatTime(r.UpdatedAt),
		DecidedAt:      formatTime(r.DecidedAt),
		Version:        r.Version,
	}
}

func fromRefundItem(it refundItem) entities.RefundRequest {
	return entities.RefundRequest{
		ID:             it.ID,
		OrderID:        it.OrderID,
		FiledBy:        it.FiledBy,
		ContestedTxID:  it.ContestedTxID,
		Target:         entities.RefundTarget(it.Target),
		Amount:         parseAmount(it.Amount),
		ApprovedAmount: parseAmount(it.ApprovedAmount),
		Reason:         it.Reason,
		Status:         entities.RefundStatus(it.Status),
		ReviewerID:     it.ReviewerID,
		DecisionNote:   it.DecisionNote,
		CreatedAt:      parseTime(it.CreatedAt),
		UpdatedAt:      parseTime(it.UpdatedAt),
		DecidedAt:      parseTime(it.DecidedAt),
		Version:        it.Version,
	}
}

type outboxItem struct {
	ID          string `dynamodbav:"id"`
	Type        string `dynamodbav:"type"`
	AggregateID string `dynamodbav:"aggregate_id"`
	Payload     string `dynamodbav:"payload"`
	Status      string `dynamodbav:"status"`
	Attempts    int    `dynamodbav:"attempts"`
	CreatedAt   string `dynamodbav:"created_at"`
	PublishedAt string `dynamodbav:"published_at,omitempty"`
}

func toOutboxItem(e entities.OutboxEvent) outboxItem {
	return outboxItem{
		ID:          e.ID,
		Type:        e.Type,
		AggregateID: e.AggregateID,
		Payload:     string(e.Payload),
		Status:      string(e.Status),
		Attempts:    e.Attempts,
		CreatedAt:   formatTime(e.CreatedAt),
		PublishedAt: formatTime(e.PublishedAt),
	}
}

func fromOutboxItem(it outboxItem) entities.OutboxEvent {
	return entities.OutboxEvent{
		ID:          it.ID,
		Type:        it.Type,
		AggregateID: it.AggregateID,
		Payload:     json.RawMessage(it.Payload),
		Status:      entities.OutboxStatus(it.Status),
		Attempts:    it.Attempts,
		CreatedAt:   parseTime(it.CreatedAt),
		PublishedAt: parseTime(it.PublishedAt),
	}
}
