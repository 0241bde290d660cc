package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNegativeBalance = errors.New("balance would become negative")

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// WalletAccount holds a participant's funds. Available and Locked never go
// negative and change only through ledger operations.
type WalletAccount struct {
	OwnerID      string             `json:"owner_id"`
	Available    decimal.Decimal    `json:"available"`
	Locked       decimal.Decimal    `json:"locked"`
	Verification VerificationStatus `json:"verification"`
	Version      int64              `json:"version"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func NewWalletAccount(ownerID string, now time.Time) WalletAccount {
	return WalletAccount{
		OwnerID:      ownerID,
		Available:    decimal.Zero,
		Locked:       decimal.Zero,
		Verification: VerificationPending,
		UpdatedAt:    now,
	}
}

func (a WalletAccount) Balances() Balances {
	return Balances{Available: a.Available, Locked: a.Locked}
}

// Apply returns the account with both deltas applied, or ErrNegativeBalance
// when either balance would drop below zero. The receiver is never modified.
func (a WalletAccount) Apply(availableDelta, lockedDelta decimal.Decimal, now time.Time) (WalletAccount, error) {
	next := a
	next.Available = a.Available.Add(availableDelta)
	next.Locked = a.Locked.Add(lockedDelta)
	if next.Available.IsNegative() || next.Locked.IsNegative() {
		return a, ErrNegativeBalance
	}
	next.UpdatedAt = now
	return next, nil
}

type HoldStatus string

const (
	HoldLocked   HoldStatus = "locked"
	HoldReleased HoldStatus = "released"
	HoldRefunded HoldStatus = "refunded"
)

// EscrowHold is the per-order record of committed funds.
//
//	Amount == Remaining + Refunded + Released
//	WorkerAmount + PlatformAmount == Released
type EscrowHold struct {
	OrderID         string          `json:"order_id"`
	PayerID         string          `json:"payer_id"`
	WorkerID        string          `json:"worker_id"`
	Amount          decimal.Decimal `json:"amount"`
	Remaining       decimal.Decimal `json:"remaining"`
	Refunded        decimal.Decimal `json:"refunded"`
	Released        decimal.Decimal `json:"released"`
	Reversed        decimal.Decimal `json:"reversed"`
	WorkerAmount    decimal.Decimal `json:"worker_amount"`
	PlatformAmount  decimal.Decimal `json:"platform_amount"`
	Status          HoldStatus      `json:"status"`
	PendingRefundID string          `json:"pending_refund_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int64           `json:"version"`
}

func NewEscrowHold(orderID, payerID, workerID string, amount decimal.Decimal, now time.Time) EscrowHold {
	return EscrowHold{
		OrderID:        orderID,
		PayerID:        payerID,
		WorkerID:       workerID,
		Amount:         amount,
		Remaining:      amount,
		Refunded:       decimal.Zero,
		Released:       decimal.Zero,
		Reversed:       decimal.Zero,
		WorkerAmount:   decimal.Zero,
		PlatformAmount: decimal.Zero,
		Status:         HoldLocked,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Reversible is the released amount not yet clawed back.
func (h EscrowHold) Reversible() decimal.Decimal {
	return h.Released.Sub(h.Reversed)
}

func (h EscrowHold) Consistent() bool {
	if h.Remaining.IsNegative() || h.Refunded.IsNegative() || h.Released.IsNegative() {
		return false
	}
	if !h.Remaining.Add(h.Refunded).Add(h.Released).Equal(h.Amount) {
		return false
	}
	return h.WorkerAmount.Add(h.PlatformAmount).Equal(h.Released) && h.Reversed.LessThanOrEqual(h.Released)
}

// Split divides amount into the platform commission, rounded half-up to two
// places, and the worker remainder. The two always sum to amount.
func Split(amount, rate decimal.Decimal) (worker, platform decimal.Decimal) {
	platform = Round2(amount.Mul(rate))
	return amount.Sub(platform), platform
}

type TxKind string

const (
	TxLock             TxKind = "lock"
	TxRelease          TxKind = "release"
	TxRefund           TxKind = "refund"
	TxCommissionPayout TxKind = "commission_payout"
	TxDeposit          TxKind = "deposit"
	TxReversal         TxKind = "reversal"
)

type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

type TxStatus string

const (
	TxCompleted TxStatus = "completed"
	TxPending   TxStatus = "pending"
	TxFailed    TxStatus = "failed"
)

type Balances struct {
	Available decimal.Decimal `json:"available"`
	Locked    decimal.Decimal `json:"locked"`
}

// Share is the commission split recorded on release and reversal records.
type Share struct {
	Worker   decimal.Decimal `json:"worker"`
	Platform decimal.Decimal `json:"platform"`
}

// Transaction is an immutable ledger record against one account. Only
// completed records move balances.
type Transaction struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"order_id,omitempty"`
	AccountID      string          `json:"account_id"`
	Kind           TxKind          `json:"kind"`
	Direction      Direction       `json:"direction"`
	Amount         decimal.Decimal `json:"amount"`
	Share          *Share          `json:"share,omitempty"`
	AvailableDelta decimal.Decimal `json:"available_delta"`
	LockedDelta    decimal.Decimal `json:"locked_delta"`
	Resulting      Balances        `json:"resulting"`
	Status         TxStatus        `json:"status"`
	Description    string          `json:"description"`
	Reference      string          `json:"reference,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SignedAmount is the statement amount: negative for debits.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Direction == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// FoldTransactions replays the completed records of one account.
func FoldTransactions(txs []Transaction) Balances {
	b := Balances{Available: decimal.Zero, Locked: decimal.Zero}
	for _, t := range txs {
		if t.Status != TxCompleted {
			continue
		}
		b.Available = b.Available.Add(t.AvailableDelta)
		b.Locked = b.Locked.Add(t.LockedDelta)
	}
	return b
}

// Deterministic record ids. Their conditional insert is what makes lock and
// release happen at most once per order.
func LockTxID(orderID string) string { return "lock-" + orderID }

func ReleaseTxID(orderID string) string { return "release-" + orderID + "-payer" }

func WorkerReleaseTxID(orderID string) string { return "release-" + orderID + "-worker" }

func CommissionTxID(orderID string) string { return "release-" + orderID + "-platform" }
