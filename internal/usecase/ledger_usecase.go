package usecase

import (
	"context"
	"errors"
	"fmt"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase/interfaces"
	"marketplace_escrow/pkg/logger"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidAccountID       = errors.New("invalid account id")
	ErrHoldNotFound           = errors.New("escrow hold not found")
	ErrHoldAlreadyExists      = errors.New("funds already locked for order")
	ErrAlreadyReleased        = errors.New("funds already released for order")
	ErrNothingLocked          = errors.New("no locked funds remain for order")
	ErrRefundExceedsHold      = errors.New("refund exceeds locked amount")
	ErrReversalExceedsRelease = errors.New("reversal exceeds released amount")
	ErrRefundPending          = errors.New("a refund request is open for order")
	ErrPayeeNotVerified       = errors.New("payee verification not approved")
	ErrLedgerInvariant        = errors.New("ledger invariant violated")
)

const (
	DefaultCommissionRate    = "0.10"
	DefaultPlatformAccountID = "platform"
)

type LedgerConfig struct {
	CommissionRate    decimal.Decimal
	PlatformAccountID string
}

func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		CommissionRate:    entities.MustAmount(DefaultCommissionRate),
		PlatformAccountID: DefaultPlatformAccountID,
	}
}

// StatementRow is one line of the wallet statement handed to the rendering
// collaborator.
type StatementRow struct {
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Type        entities.TxKind   `json:"type"`
	Status      entities.TxStatus `json:"status"`
	OrderID     string            `json:"order_id,omitempty"`
}

// LedgerCheck compares stored balances with the fold of the account's
// transaction log.
type LedgerCheck struct {
	AccountID    string            `json:"account_id"`
	Stored       entities.Balances `json:"stored"`
	Folded       entities.Balances `json:"folded"`
	Transactions int               `json:"transactions"`
	Consistent   bool              `json:"consistent"`
}

// ILedgerUseCase is the escrow ledger. Every mutation is one atomic commit.
type ILedgerUseCase interface {
	Lock(ctx context.Context, accountID string, amount decimal.Decimal, orderID, payeeID string) (entities.EscrowHold, error)
	Release(ctx context.Context, orderID string) (entities.EscrowHold, error)
	Refund(ctx context.Context, orderID string, amount decimal.Decimal) (entities.EscrowHold, error)
	Reverse(ctx context.Context, orderID string, amount decimal.Decimal) (entities.EscrowHold, error)
	SetVerification(ctx context.Context, accountID string, status entities.VerificationStatus) (entities.WalletAccount, error)
	GetBalance(ctx context.Context, accountID string) (entities.WalletAccount, error)
	GetHold(ctx context.Context, orderID string) (entities.EscrowHold, error)
	ListTransactions(ctx context.Context, accountID string, filter interfaces.TransactionFilter) ([]entities.Transaction, error)
	Statement(ctx context.Context, accountID string, filter interfaces.TransactionFilter) ([]StatementRow, error)
	VerifyAccount(ctx context.Context, accountID string) (LedgerCheck, error)
}

type LedgerUseCase struct {
	wallets interfaces.IWalletRepository
	writer  interfaces.IChangesetWriter
	cfg     LedgerConfig
}

var _ ILedgerUseCase = (*LedgerUseCase)(nil)

func NewLedgerUseCase(wallets interfaces.IWalletRepository, writer interfaces.IChangesetWriter, cfg LedgerConfig) *LedgerUseCase {
	if cfg.PlatformAccountID == "" {
		cfg.PlatformAccountID = DefaultPlatformAccountID
	}
	return &LedgerUseCase{wallets: wallets, writer: writer, cfg: cfg}
}

func (u *LedgerUseCase) Config() LedgerConfig {
	return u.cfg
}

func (u *LedgerUseCase) Lock(ctx context.Context, accountID string, amount decimal.Decimal, orderID, payeeID string) (entities.EscrowHold, error) {
	accountID, orderID = strings.TrimSpace(accountID), strings.TrimSpace(orderID)
	if accountID == "" {
		return entities.EscrowHold{}, ErrInvalidAccountID
	}
	if orderID == "" {
		return entities.EscrowHold{}, ErrInvalidOrderID
	}
	var hold entities.EscrowHold
	err := commitBatch(ctx, u.writer, u.wallets, "lock", func(b *ledgerBatch) error {
		h, err := u.planLock(ctx, b, accountID, payeeID, orderID, amount)
		hold = h
		return err
	})
	if err != nil {
		logger.Warn("[ledger][usecase] lock failed", zap.String("order_id", orderID), zap.String("account_id", accountID), zap.Error(err))
		return entities.EscrowHold{}, u.mapHoldConflict(err)
	}
	logger.Info("[ledger][usecase] lock success", zap.String("order_id", orderID), zap.String("amount", entities.FormatAmount(amount)))
	return hold, nil
}

func (u *LedgerUseCase) Release(ctx context.Context, orderID string) (entities.EscrowHold, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.EscrowHold{}, ErrInvalidOrderID
	}
	var hold entities.EscrowHold
	err := commitBatch(ctx, u.writer, u.wallets, "release", func(b *ledgerBatch) error {
		h, err := u.planRelease(ctx, b, orderID)
		hold = h
		return err
	})
	if err != nil {
		logger.Warn("[ledger][usecase] release failed", zap.String("order_id", orderID), zap.Error(err))
		return entities.EscrowHold{}, u.mapHoldConflict(err)
	}
	logger.Info("[ledger][usecase] release success", zap.String("order_id", orderID),
		zap.String("worker_amount", entities.FormatAmount(hold.WorkerAmount)),
		zap.String("platform_amount", entities.FormatAmount(hold.PlatformAmount)))
	return hold, nil
}

func (u *LedgerUseCase) Refund(ctx context.Context, orderID string, amount decimal.Decimal) (entities.EscrowHold, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.EscrowHold{}, ErrInvalidOrderID
	}
	var hold entities.EscrowHold
	err := commitBatch(ctx, u.writer, u.wallets, "refund", func(b *ledgerBatch) error {
		h, err := u.planRefund(ctx, b, orderID, amount)
		hold = h
		return err
	})
	if err != nil {
		logger.Warn("[ledger][usecase] refund failed", zap.String("order_id", orderID), zap.Error(err))
		return entities.EscrowHold{}, err
	}
	logger.Info("[ledger][usecase] refund success", zap.String("order_id", orderID), zap.String("amount", entities.FormatAmount(amount)))
	return hold, nil
}

func (u *LedgerUseCase) Reverse(ctx context.Context, orderID string, amount decimal.Decimal) (entities.EscrowHold, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.EscrowHold{}, ErrInvalidOrderID
	}
	var hold entities.EscrowHold
	err := commitBatch(ctx, u.writer, u.wallets, "reverse", func(b *ledgerBatch) error {
		h, err := u.planReverse(ctx, b, orderID, amount)
		hold = h
		return err
	})
	if err != nil {
		logger.Warn("[ledger][usecase] reverse failed", zap.String("order_id", orderID), zap.Error(err))
		return entities.EscrowHold{}, err
	}
	logger.Info("[ledger][usecase] reverse success", zap.String("order_id", orderID), zap.String("amount", entities.FormatAmount(amount)))
	return hold, nil
}

// SetVerification records the outcome reported by the external KYC
// collaborator. It only gates settlements.
func (u *LedgerUseCase) SetVerification(ctx context.Context, accountID string, status entities.VerificationStatus) (entities.WalletAccount, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return entities.WalletAccount{}, ErrInvalidAccountID
	}
	switch status {
	case entities.VerificationApproved, entities.VerificationRejected, entities.VerificationPending:
	default:
		return entities.WalletAccount{}, entities.NewValidationError("status", "must be pending, approved or rejected")
	}
	var out entities.WalletAccount
	err := commitBatch(ctx, u.writer, u.wallets, "set-verification", func(b *ledgerBatch) error {
		a, err := b.account(ctx, accountID)
		if err != nil {
			return err
		}
		a.Verification = status
		a.UpdatedAt = b.now
		b.setAccount(a)
		out = a
		out.Version = b.accounts[accountID].expected + 1
		return b.emit(entities.EventAccountVerificationState, accountID, map[string]any{
			"account_id": accountID,
			"status":     status,
		})
	})
	if err != nil {
		return entities.WalletAccount{}, err
	}
	logger.Info("[ledger][usecase] verification updated", zap.String("account_id", accountID), zap.String("status", string(status)))
	return out, nil
}

// GetBalance returns the account, or an empty pending one when the owner
// has never held funds.
func (u *LedgerUseCase) GetBalance(ctx context.Context, accountID string) (entities.WalletAccount, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return entities.WalletAccount{}, ErrInvalidAccountID
	}
	a, err := u.wallets.GetAccount(ctx, accountID)
	if err != nil {
		return entities.WalletAccount{}, err
	}
	if a.OwnerID == "" {
		return entities.NewWalletAccount(accountID, time.Time{}), nil
	}
	return a, nil
}

func (u *LedgerUseCase) GetHold(ctx context.Context, orderID string) (entities.EscrowHold, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.EscrowHold{}, ErrInvalidOrderID
	}
	h, err := u.wallets.GetHold(ctx, orderID)
	if err != nil {
		return entities.EscrowHold{}, err
	}
	if h.OrderID == "" {
		return entities.EscrowHold{}, ErrHoldNotFound
	}
	return h, nil
}

func (u *LedgerUseCase) ListTransactions(ctx context.Context, accountID string, filter interfaces.TransactionFilter) ([]entities.Transaction, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, entities.NewValidationError("to", "must not be before from")
	}
	if filter.Limit < 0 {
		return nil, entities.NewValidationError("limit", "must not be negative")
	}
	return u.wallets.ListTransactions(ctx, accountID, filter)
}

func (u *LedgerUseCase) Statement(ctx context.Context, accountID string, filter interfaces.TransactionFilter) ([]StatementRow, error) {
	txs, err := u.ListTransactions(ctx, accountID, filter)
	if err != nil {
		return nil, err
	}
	rows := make([]StatementRow, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, StatementRow{
			Date:        t.CreatedAt,
			Description: t.Description,
			Amount:      t.SignedAmount(),
			Type:        t.Kind,
			Status:      t.Status,
			OrderID:     t.OrderID,
		})
	}
	return rows, nil
}

func (u *LedgerUseCase) VerifyAccount(ctx context.Context, accountID string) (LedgerCheck, error) {
	a, err := u.GetBalance(ctx, accountID)
	if err != nil {
		return LedgerCheck{}, err
	}
	txs, err := u.wallets.ListTransactions(ctx, a.OwnerID, interfaces.TransactionFilter{})
	if err != nil {
		return LedgerCheck{}, err
	}
	folded := entities.FoldTransactions(txs)
	check := LedgerCheck{
		AccountID:    a.OwnerID,
		Stored:       a.Balances(),
		Folded:       folded,
		Transactions: len(txs),
		Consistent:   folded.Available.Equal(a.Available) && folded.Locked.Equal(a.Locked),
	}
	if !check.Consistent {
		logger.Error("[ledger][invariant] stored balance differs from transaction fold",
			zap.String("account_id", a.OwnerID),
			zap.String("stored_available", entities.FormatAmount(a.Available)),
			zap.String("folded_available", entities.FormatAmount(folded.Available)),
			zap.String("stored_locked", entities.FormatAmount(a.Locked)),
			zap.String("folded_locked", entities.FormatAmount(folded.Locked)))
	}
	return check, nil
}

// mapHoldConflict turns a lost insert of a deterministic lock or release
// record into the idempotency error.
func (u *LedgerUseCase) mapHoldConflict(err error) error {
	var ce *entities.ConflictError
	if !errors.As(err, &ce) || ce.Entity != entities.KindTransaction {
		return err
	}
	switch {
	case strings.HasPrefix(ce.ID, "release-"):
		return ErrAlreadyReleased
	case strings.HasPrefix(ce.ID, "lock-"):
		return ErrHoldAlreadyExists
	}
	return err
}

func (u *LedgerUseCase) planLock(ctx context.Context, b *ledgerBatch, payerID, payeeID, orderID string, amount decimal.Decimal) (entities.EscrowHold, error) {
	if err := validateAmount("amount", amount); err != nil {
		return entities.EscrowHold{}, err
	}
	existing, err := b.hold(ctx, orderID)
	if err != nil {
		return entities.EscrowHold{}, err
	}
	if existing.OrderID != "" {
		return entities.EscrowHold{}, ErrHoldAlreadyExists
	}
	payer, err := b.account(ctx, payerID)
	if err != nil {
		return entities.EscrowHold{}, err
	}
	if payer.Available.LessThan(amount) {
		return entities.EscrowHold{}, &entities.InsufficientFundsError{AccountID: payerID, Available: payer.Available, Required: amount}
	}
	if _, err := b.post(ctx, posting{
		id:          entities.LockTxID(orderID),
		accountID:   payerID,
		orderID:     orderID,
		kind:        entities.TxLock,
		direction:   entities.Debit,
		amount:      amount,
		available:   amount.Neg(),
		locked:      amount,
		description: fmt.Sprintf("Funds locked for order %s", orderID),
	}); err != nil {
		return entities.EscrowHold{}, invariantBreach("lock", orderID, payerID, err)
	}
	hold := entities.NewEscrowHold(orderID, payerID, payeeID, amount, b.now)
	b.setHold(hold)
	hold.Version = 1
	return hold, b.emit(entities.EventFundsLocked, orderID, map[string]any{
		"order_id": orderID,
		"payer_id": payerID,
		"amount":   entities.FormatAmount(amount),
	})
}

func (u *LedgerUseCase) loadOpenHold(ctx context.Context, b *ledgerBatch, orderID string) (entities.EscrowHold, error) {
	h, err := b.hold(ctx, orderID)
	if err != nil {
		return entities.EscrowHold{}, err
	}
	if h.OrderID == "" {
		return entities.EscrowHold{}, ErrHoldNotFound
	}
	return h, nil
}

// planRelease settles everything still locked for the order.
func (u *LedgerUseCase) planRelease(ctx context.Context, b *ledgerBatch, orderID string) (entities.EscrowHold, error) {
	h, err := u.loadOpenHold(ctx, b, orderID)
	if err != nil {
		return entities.EscrowHold{}, err
	}
	if h.Status == entities.HoldReleased || h.Released.IsPositive() {
		return entities.EscrowHold{}, ErrAlreadyReleased
	}
	if !h.Remaining.IsPositive() {
		return entities.EscrowHold{}, ErrNothingLocked
	}
	if h.PendingRefundID != "" {
		return entities.EscrowHold{}, ErrRefundPending
	}
	if h.WorkerID == "" {
		return entities.EscrowHold{}, entities.NewValidationError("worker_id", "hold has no payee")
	}
	worker, err := b.account(ctx, h.WorkerID)
	if err != nil {
		return entities.EscrowHold{}, err
	}
	if worker.Verification != entities.VerificationApproved {
		return entities.EscrowHold{}, ErrPayeeNotVerified
	}

	amount := h.Remaining
	workerAmount, platformAmount := entities.Split(amount, u.cfg.CommissionRate)
	share := &entities.Share{Worker: workerAmount, Platform: platformAmount}

	if _, err := b.post(ctx, posting{
		id:          entities.ReleaseTxID(orderID),
		accountID:   h.PayerID,
		orderID:     orderID,
		kind:        entities.TxRelease,
		direction:   entities.Debit,
		amount:      amount,
		share:       share,
		available:   decimal.Zero,
		locked:      amount.Neg(),
		description: fmt.Sprintf("Payment released for order %s", orderID),
	}); err != nil {
		return entities.EscrowHold{}, invariantBreach("release", orderID, h.PayerID, err)
	}
	if _, err := b.post(ctx, posting{
		id:          entities.WorkerReleaseTxID(orderID),
		accountID:   h.WorkerID,
		orderID:     orderID,
		kind:        entities.TxRelease,
		direction:   entities.Credit,
		amount:      workerAmount,
		share:       share,
		available:   workerAmount,
		locked:      decimal.Zero,
		description: fmt.Sprintf("Earnings for order %s", orderID),
	}); err != nil {
		return entities.EscrowHold{}, invariantBreach("release", orderID, h.WorkerID, err)
	}
	if platformAmount.IsPositive() {
		if _, err := b.post(ctx, posting{
			id:          entities.CommissionTxID(orderID),
			accountID:   u.cfg.PlatformAccountID,
			orderID:     orderID,
			kind:        entities.TxCommissionPayout,
			direction:   entities.Credit,
			amount:      platformAmount,
			share:       share,
			available:   platformAmount,
			locked:      decimal.Zero,
			description: fmt.Sprintf("Platform commission for order %s", orderID),
		}); err != nil {
			return entities.EscrowHold{}, invariantBreach("release", orderID, u.cfg.PlatformAccountID, err)
		}
	}

	h.Remaining = decimal.Zero
	h.Released = h.Released.Add(amount)
	h.WorkerAmount = h.WorkerAmount.Add(workerAmount)
	h.PlatformAmount = h.PlatformAmount.Add(platformAmount)
	h.Status = entities.HoldReleased
	if !h.Consistent() {
		return entities.EscrowHold{}, invariantBreach("release", orderID, h.PayerID, entities.ErrNegativeBalance)
	}
	b.setHold(h)
	h.Version = b.holds[orderID].expected + 1
	return h, b.emit(entities.EventFundsReleased, orderID, map[string]any{
		"order_id":        orderID,
		"worker_id":       h.WorkerID,
		"amount":          entities.FormatAmount(amount),
		"worker_amount":   entities.FormatAmount(workerAmount),
		"platform_amount": entities.FormatAmount(platformAmount),
	})
}

// planRefund returns locked funds to the payer. Partial refunds leave the
// rest locked.
func (u *LedgerUseCase) planRefund(ctx context.Context, b *ledgerBatch, orderID string, amount decimal.Decimal) (entities.EscrowHold, error) {
	if err := validateAmount("amount", amount); err != nil {
		return entities.EscrowHold{}, err
	}
	h, err := u.loadOpenHold(ctx, b, orderID)
	if err != nil {
		return entities.EscrowHold{}, err
	}
	if amount.GreaterThan(h.Remaining) {
		return entities.EscrowHold{}, ErrRefundExceedsHold
	}
	if _, err := b.post(ctx, posting{
		accountID:   h.PayerID,
		orderID:     orderID,
		kind:        entities.TxRefund,
		direction:   entities.Credit,
		amount:      amount,
		available:   amount,
		locked:      amount.Neg(),
		description: fmt.Sprintf("Refund for order %s", orderID),
	}); err != nil {
		return entities.EscrowHold{}, invariantBreach("refund", orderID, h.PayerID, err)
	}
	h.Remaining = h.Remaining.Sub(amount)
	h.Refunded = h.Refunded.Add(amount)
	if h.Remaining.IsZero() {
		h.Status = entities.HoldRefunded
	}
	b.setHold(h)
	h.Version = b.holds[orderID].expected + 1
	return h, b.emit(entities.EventFundsRefunded, orderID, map[string]any{
		"order_id":  orderID,
		"payer_id":  h.PayerID,
		"amount":    entities.FormatAmount(amount),
		"remaining": entities.FormatAmount(h.Remaining),
	})
}

// planReverse claws back released funds from the worker and platform in the
// original commission proportion and credits the payer.
func (u *LedgerUseCase) planReverse(ctx context.Context, b *ledgerBatch, orderID string, amount decimal.Decimal) (entities.EscrowHold, error) {
	if err := validateAmount("amount", amount); err != nil {
		return entities.EscrowHold{}, err
	}
	h, err := u.loadOpenHold(ctx, b, orderID)
	if err != nil {
		return entities.EscrowHold{}, err
	}
	if amount.GreaterThan(h.Reversible()) {
		return entities.EscrowHold{}, ErrReversalExceedsRelease
	}
	workerPart, platformPart := entities.Split(amount, u.cfg.CommissionRate)
	share := &entities.Share{Worker: workerPart, Platform: platformPart}

	for _, leg := range []struct {
		accountID string
		amount    decimal.Decimal
	}{
		{h.WorkerID, workerPart},
		{u.cfg.PlatformAccountID, platformPart},
	} {
		if !leg.amount.IsPositive() {
			continue
		}
		a, err := b.account(ctx, leg.accountID)
		if err != nil {
			return entities.EscrowHold{}, err
		}
		if a.Available.LessThan(leg.amount) {
			return entities.EscrowHold{}, &entities.InsufficientFundsError{AccountID: leg.accountID, Available: a.Available, Required: leg.amount}
		}
		if _, err := b.post(ctx, posting{
			accountID:   leg.accountID,
			orderID:     orderID,
			kind:        entities.TxReversal,
			direction:   entities.Debit,
			amount:      leg.amount,
			share:       share,
			available:   leg.amount.Neg(),
			locked:      decimal.Zero,
			description: fmt.Sprintf("Reversal for order %s", orderID),
		}); err != nil {
			return entities.EscrowHold{}, invariantBreach("reverse", orderID, leg.accountID, err)
		}
	}
	if _, err := b.post(ctx, posting{
		accountID:   h.PayerID,
		orderID:     orderID,
		kind:        entities.TxReversal,
		direction:   entities.Credit,
		amount:      amount,
		share:       share,
		available:   amount,
		locked:      decimal.Zero,
		description: fmt.Sprintf("Refund of released payment for order %s", orderID),
	}); err != nil {
		return entities.EscrowHold{}, invariantBreach("reverse", orderID, h.PayerID, err)
	}
	h.Reversed = h.Reversed.Add(amount)
	b.setHold(h)
	h.Version = b.holds[orderID].expected + 1
	return h, b.emit(entities.EventFundsReversed, orderID, map[string]any{
		"order_id": orderID,
		"amount":   entities.FormatAmount(amount),
	})
}
