package usecase

import (
	"context"
	"errors"
	"fmt"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase/interfaces"
	"marketplace_escrow/pkg/logger"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxCommitAttempts = 3

// clock is swapped by tests that assert on timestamps.
var clock = func() time.Time { return time.Now().UTC() }

type staged[T any] struct {
	value    T
	expected int64
	dirty    bool
}

// ledgerBatch stages one atomic operation. Every account and hold is read at
// most once so several postings to the same account compose, and the
// versions read become the expected versions of the commit.
type ledgerBatch struct {
	wallets interfaces.IWalletRepository
	now     time.Time

	accounts     map[string]*staged[entities.WalletAccount]
	accountOrder []string
	holds        map[string]*staged[entities.EscrowHold]
	holdOrder    []string

	cs interfaces.Changeset
}

func newLedgerBatch(wallets interfaces.IWalletRepository, now time.Time) *ledgerBatch {
	return &ledgerBatch{
		wallets:  wallets,
		now:      now,
		accounts: map[string]*staged[entities.WalletAccount]{},
		holds:    map[string]*staged[entities.EscrowHold]{},
	}
}

// account returns the staged account, creating an empty one when the owner
// has never held funds.
func (b *ledgerBatch) account(ctx context.Context, ownerID string) (entities.WalletAccount, error) {
	if s, ok := b.accounts[ownerID]; ok {
		return s.value, nil
	}
	a, err := b.wallets.GetAccount(ctx, ownerID)
	if err != nil {
		return entities.WalletAccount{}, fmt.Errorf("load account %s: %w", ownerID, err)
	}
	if a.OwnerID == "" {
		a = entities.NewWalletAccount(ownerID, b.now)
	}
	b.accounts[ownerID] = &staged[entities.WalletAccount]{value: a, expected: a.Version}
	b.accountOrder = append(b.accountOrder, ownerID)
	return a, nil
}

func (b *ledgerBatch) setAccount(a entities.WalletAccount) {
	s := b.accounts[a.OwnerID]
	s.value = a
	s.dirty = true
}

// hold returns the staged hold; a missing hold has an empty OrderID.
func (b *ledgerBatch) hold(ctx context.Context, orderID string) (entities.EscrowHold, error) {
	if s, ok := b.holds[orderID]; ok {
		return s.value, nil
	}
	h, err := b.wallets.GetHold(ctx, orderID)
	if err != nil {
		return entities.EscrowHold{}, fmt.Errorf("load hold %s: %w", orderID, err)
	}
	b.holds[orderID] = &staged[entities.EscrowHold]{value: h, expected: h.Version}
	b.holdOrder = append(b.holdOrder, orderID)
	return h, nil
}

func (b *ledgerBatch) setHold(h entities.EscrowHold) {
	s, ok := b.holds[h.OrderID]
	if !ok {
		s = &staged[entities.EscrowHold]{}
		b.holds[h.OrderID] = s
		b.holdOrder = append(b.holdOrder, h.OrderID)
	}
	h.UpdatedAt = b.now
	s.value = h
	s.dirty = true
}

type posting struct {
	id          string
	accountID   string
	orderID     string
	kind        entities.TxKind
	direction   entities.Direction
	amount      decimal.Decimal
	share       *entities.Share
	available   decimal.Decimal
	locked      decimal.Decimal
	status      entities.TxStatus
	description string
	reference   string
}

// post applies p to its account and records the transaction. Only completed
// postings move balances. A negative result is returned as
// entities.ErrNegativeBalance and nothing is staged.
func (b *ledgerBatch) post(ctx context.Context, p posting) (entities.Transaction, error) {
	a, err := b.account(ctx, p.accountID)
	if err != nil {
		return entities.Transaction{}, err
	}
	if p.status == "" {
		p.status = entities.TxCompleted
	}
	if p.status == entities.TxCompleted {
		next, err := a.Apply(p.available, p.locked, b.now)
		if err != nil {
			return entities.Transaction{}, err
		}
		a = next
		b.setAccount(a)
	}
	if p.id == "" {
		p.id = uuid.NewString()
	}
	tx := entities.Transaction{
		ID:             p.id,
		OrderID:        p.orderID,
		AccountID:      p.accountID,
		Kind:           p.kind,
		Direction:      p.direction,
		Amount:         p.amount,
		Share:          p.share,
		AvailableDelta: p.available,
		LockedDelta:    p.locked,
		Resulting:      a.Balances(),
		Status:         p.status,
		Description:    p.description,
		Reference:      p.reference,
		CreatedAt:      b.now,
	}
	b.cs.AddTransaction(tx)
	return tx, nil
}

func (b *ledgerBatch) emit(eventType, aggregateID string, payload any) error {
	e, err := entities.NewOutboxEvent(eventType, aggregateID, payload, b.now)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", eventType, err)
	}
	b.cs.AddEvent(e)
	return nil
}

// changeset finalizes the staged records. Each dirty record is written at
// the version it was read at plus one.
func (b *ledgerBatch) changeset() interfaces.Changeset {
	cs := b.cs
	for _, id := range b.accountOrder {
		s := b.accounts[id]
		if !s.dirty {
			continue
		}
		a := s.value
		a.Version = s.expected + 1
		cs.PutAccount(a, s.expected)
	}
	for _, id := range b.holdOrder {
		s := b.holds[id]
		if !s.dirty {
			continue
		}
		h := s.value
		h.Version = s.expected + 1
		cs.PutHold(h, s.expected)
	}
	return cs
}

// commitBatch builds and commits one operation, rebuilding it from fresh
// reads when the commit loses an account or hold version race. Other
// conflicts are returned to the caller as is.
func commitBatch(ctx context.Context, writer interfaces.IChangesetWriter, wallets interfaces.IWalletRepository, op string, build func(b *ledgerBatch) error) error {
	var err error
	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		b := newLedgerBatch(wallets, clock())
		if err = build(b); err != nil {
			return err
		}
		err = writer.Commit(ctx, b.changeset())
		if err == nil {
			return nil
		}
		if !entities.ConflictOn(err, entities.KindAccount) && !entities.ConflictOn(err, entities.KindHold) {
			return err
		}
		logger.Warn("[ledger][usecase] commit conflict, retrying",
			zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))
	}
	return err
}

// invariantBreach logs a would-be negative balance. It means a guard upstream
// let an impossible operation through.
func invariantBreach(op, orderID, accountID string, err error) error {
	if !errors.Is(err, entities.ErrNegativeBalance) {
		return err
	}
	logger.Error("[ledger][invariant] negative balance prevented",
		zap.String("op", op), zap.String("order_id", orderID), zap.String("account_id", accountID))
	return fmt.Errorf("%w: %s on account %s", ErrLedgerInvariant, op, accountID)
}

func validateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return entities.NewValidationError(field, "must be greater than zero")
	}
	if !entities.Round2(amount).Equal(amount) {
		return entities.NewValidationError(field, "at most two decimal places")
	}
	return nil
}
