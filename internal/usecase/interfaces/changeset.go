package interfaces

import (
	"context"
	"marketplace_escrow/internal/domain/entities"
)

// Versioned writes: ExpectedVersion is the version read before the change.
// Zero means the record must not exist yet. The stored version becomes the
// entity's Version field.
type OrderWrite struct {
	Order           entities.Order
	ExpectedVersion int64
}

type AccountWrite struct {
	Account         entities.WalletAccount
	ExpectedVersion int64
}

type HoldWrite struct {
	Hold            entities.EscrowHold
	ExpectedVersion int64
}

type RefundWrite struct {
	Refund          entities.RefundRequest
	ExpectedVersion int64
}

// Changeset is everything one lifecycle transition or ledger operation
// persists. Transactions and events are insert-only.
type Changeset struct {
	Orders       []OrderWrite
	Accounts     []AccountWrite
	Holds        []HoldWrite
	Refunds      []RefundWrite
	Transactions []entities.Transaction
	Events       []entities.OutboxEvent
}

func (c *Changeset) PutOrder(o entities.Order, expectedVersion int64) {
	c.Orders = append(c.Orders, OrderWrite{Order: o, ExpectedVersion: expectedVersion})
}

func (c *Changeset) PutAccount(a entities.WalletAccount, expectedVersion int64) {
	c.Accounts = append(c.Accounts, AccountWrite{Account: a, ExpectedVersion: expectedVersion})
}

func (c *Changeset) PutHold(h entities.EscrowHold, expectedVersion int64) {
	c.Holds = append(c.Holds, HoldWrite{Hold: h, ExpectedVersion: expectedVersion})
}

func (c *Changeset) PutRefund(r entities.RefundRequest, expectedVersion int64) {
	c.Refunds = append(c.Refunds, RefundWrite{Refund: r, ExpectedVersion: expectedVersion})
}

func (c *Changeset) AddTransaction(t entities.Transaction) {
	c.Transactions = append(c.Transactions, t)
}

func (c *Changeset) AddEvent(e entities.OutboxEvent) {
	c.Events = append(c.Events, e)
}

// Size is the number of records the commit writes.
func (c Changeset) Size() int {
	return len(c.Orders) + len(c.Accounts) + len(c.Holds) + len(c.Refunds) + len(c.Transactions) + len(c.Events)
}

// IChangesetWriter commits a changeset atomically. A failed version or
// existence check returns *entities.ConflictError naming the first record
// that failed, and nothing is written.
type IChangesetWriter interface {
	Commit(ctx context.Context, cs Changeset) error
}
