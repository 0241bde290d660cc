package interfaces

import (
	"context"
	"marketplace_escrow/internal/domain/entities"
	"time"
)

// TransactionFilter narrows a transaction listing. Zero fields match all.
type TransactionFilter struct {
	Kinds  []entities.TxKind
	Status entities.TxStatus
	From   time.Time
	To     time.Time
	Limit  int
}

// Match is the in-memory form of the filter, used by stores that cannot
// push every condition down.
func (f TransactionFilter) Match(t entities.Transaction) bool {
	if len(f.Kinds) > 0 {
		ok := false
		for _, k := range f.Kinds {
			if k == t.Kind {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.Status != "" && f.Status != t.Status {
		return false
	}
	if !f.From.IsZero() && t.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.CreatedAt.After(f.To) {
		return false
	}
	return true
}

// IWalletRepository reads accounts, escrow holds and the transaction log.
// Missing records come back as zero values.
type IWalletRepository interface {
	GetAccount(ctx context.Context, ownerID string) (entities.WalletAccount, error)
	GetHold(ctx context.Context, orderID string) (entities.EscrowHold, error)
	GetTransaction(ctx context.Context, id string) (entities.Transaction, error)
	// ListTransactions returns newest first.
	ListTransactions(ctx context.Context, accountID string, filter TransactionFilter) ([]entities.Transaction, error)
}
