package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/domain/pricing"
	"marketplace_escrow/internal/infrastructure/database"
	"marketplace_escrow/internal/usecase"
	"marketplace_escrow/internal/usecase/interfaces"
	"marketplace_escrow/pkg/logger"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	db      *sql.DB
	wallets *WalletRepository
	outbox  *OutboxRepository
	ledger  *usecase.LedgerUseCase
	orders  *usecase.OrderUseCase
	refunds *usecase.RefundUseCase
	deposit *usecase.DepositUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger.SetLogger(zap.NewNop())

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "escrow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, RunMigrations(db))

	wallets := NewWalletRepository(db)
	orders := NewOrderRepository(db)
	writer := NewChangesetWriter(db)
	ledger := usecase.NewLedgerUseCase(wallets, writer, usecase.DefaultLedgerConfig())
	quotes := usecase.NewQuoteUseCase(pricing.NewEngine(pricing.DefaultCatalog()))
	return &harness{
		db:      db,
		wallets: wallets,
		outbox:  NewOutboxRepository(db),
		ledger:  ledger,
		orders:  usecase.NewOrderUseCase(orders, wallets, writer, quotes, ledger),
		refunds: usecase.NewRefundUseCase(NewRefundRepository(db), orders, wallets, writer, ledger),
		deposit: usecase.NewDepositUseCase(wallets, writer, nil, usecase.DepositConfig{MockMode: true}),
	}
}

func intp(v int) *int { return &v }

func (h *harness) fund(t *testing.T, accountID, amount string) {
	t.Helper()
	_, err := h.deposit.Deposit(context.Background(), accountID, entities.MustAmount(amount), nil)
	require.NoError(t, err)
}

func (h *harness) verify(t *testing.T, accountID string) {
	t.Helper()
	_, err := h.ledger.SetVerification(context.Background(), accountID, entities.VerificationApproved)
	require.NoError(t, err)
}

// openOrder opens and submits an order quoting 450.00: 100 base + 11 rooms
// at 25, plus 20% tax.
func (h *harness) openOrder(t *testing.T, clientID string) entities.Order {
	t.Helper()
	o, err := h.orders.Open(context.Background(), usecase.OpenOrderInput{
		ClientID: clientID,
		Quote:    pricing.ResidentialCleaningInput{Rooms: intp(11), Bathrooms: intp(0)},
		Details: entities.ServiceDetails{
			Description: "Full flat cleaning",
			Address:     "Rua das Flores 10",
			City:        "Porto",
			PostalCode:  "4050-262",
		},
		ScheduledFor: time.Now().Add(48 * time.Hour),
		Submit:       true,
	})
	require.NoError(t, err)
	require.True(t, o.Quote.Total.Equal(entities.MustAmount("450")), "total %s", o.Quote.Total)
	return o
}

func (h *harness) balance(t *testing.T, accountID string) entities.WalletAccount {
	t.Helper()
	a, err := h.ledger.GetBalance(context.Background(), accountID)
	require.NoError(t, err)
	return a
}

func (h *harness) assertFold(t *testing.T, accountIDs ...string) {
	t.Helper()
	for _, id := range accountIDs {
		check, err := h.ledger.VerifyAccount(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, check.Consistent, "account %s stored %+v folded %+v", id, check.Stored, check.Folded)
	}
}

func amountEq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, entities.MustAmount(want).Equal(got), "want %s got %s", want, got)
}

func TestEscrowFlow_ReleaseSplit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.fund(t, "client-1", "500")
	h.verify(t, "worker-1")
	o := h.openOrder(t, "client-1")

	accepted, err := h.orders.Accept(ctx, o.ID, "worker-1")
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusAccepted, accepted.Status)

	client := h.balance(t, "client-1")
	amountEq(t, "50", client.Available)
	amountEq(t, "450", client.Locked)

	_, err = h.orders.SubmitForValidation(ctx, o.ID, "worker-1", false)
	require.NoError(t, err)
	done, err := h.orders.Validate(ctx, o.ID, "client-1")
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusCompleted, done.Status)

	hold, err := h.ledger.GetHold(ctx, o.ID)
	require.NoError(t, err)
	amountEq(t, "405", hold.WorkerAmount)
	amountEq(t, "45", hold.PlatformAmount)
	assert.True(t, hold.Consistent())

	amountEq(t, "405", h.balance(t, "worker-1").Available)
	amountEq(t, "45", h.balance(t, "platform").Available)
	client = h.balance(t, "client-1")
	amountEq(t, "50", client.Available)
	amountEq(t, "0", client.Locked)

	t.Run("release is idempotent", func(t *testing.T) {
		_, err := h.ledger.Release(ctx, o.ID)
		assert.ErrorIs(t, err, usecase.ErrAlreadyReleased)
		amountEq(t, "405", h.balance(t, "worker-1").Available)
	})

	t.Run("statement shows signed amounts", func(t *testing.T) {
		rows, err := h.ledger.Statement(ctx, "client-1", interfaces.TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, entities.TxRelease, rows[0].Type)
		amountEq(t, "-450", rows[0].Amount)
		assert.Equal(t, entities.TxDeposit, rows[2].Type)
	})

	h.assertFold(t, "client-1", "worker-1", "platform")
}

func TestEscrowFlow_AcceptRequiresFunds(t *testing.T) {
	h := newHarness(t)
	h.fund(t, "client-1", "100")
	o := h.openOrder(t, "client-1")

	_, err := h.orders.Accept(context.Background(), o.ID, "worker-1")
	var ife *entities.InsufficientFundsError
	require.ErrorAs(t, err, &ife)
	amountEq(t, "100", ife.Available)
	amountEq(t, "450", ife.Required)

	current, err := h.orders.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusPending, current.Status)
	assert.Empty(t, current.WorkerID)
	h.assertFold(t, "client-1")
}

func TestEscrowFlow_ConcurrentAcceptHasOneWinner(t *testing.T) {
	h := newHarness(t)
	h.fund(t, "client-1", "1000")
	o := h.openOrder(t, "client-1")

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
		losers  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID string) {
			defer wg.Done()
			_, err := h.orders.Accept(context.Background(), o.ID, workerID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, workerID)
			case errors.Is(err, entities.ErrConcurrency):
				losers++
			default:
				t.Errorf("unexpected error for %s: %v", workerID, err)
			}
		}(string(rune('a'+i)) + "-worker")
	}
	wg.Wait()

	require.Len(t, winners, 1)
	assert.Equal(t, workers-1, losers)

	current, err := h.orders.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, winners[0], current.WorkerID)

	client := h.balance(t, "client-1")
	amountEq(t, "550", client.Available)
	amountEq(t, "450", client.Locked)
	h.assertFold(t, "client-1")
}

func TestEscrowFlow_CancelReturnsLockedFunds(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.fund(t, "client-1", "450")
	o := h.openOrder(t, "client-1")
	_, err := h.orders.Accept(ctx, o.ID, "worker-1")
	require.NoError(t, err)

	_, err = h.orders.Cancel(ctx, o.ID, "someone-else", "no")
	assert.ErrorIs(t, err, usecase.ErrNotOrderParticipant)

	cancelled, err := h.orders.Cancel(ctx, o.ID, "worker-1", "double booked")
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusCancelled, cancelled.Status)
	amountEq(t, "450", cancelled.RefundedAmount)

	client := h.balance(t, "client-1")
	amountEq(t, "450", client.Available)
	amountEq(t, "0", client.Locked)
	h.assertFold(t, "client-1")
}

func TestEscrowFlow_RefundBoundedAtFiling(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.fund(t, "client-1", "450")
	o := h.openOrder(t, "client-1")
	_, err := h.orders.Accept(ctx, o.ID, "worker-1")
	require.NoError(t, err)

	_, err = h.refunds.FileRequest(ctx, usecase.FileRefundInput{
		OrderID: o.ID, FiledBy: "client-1", Amount: entities.MustAmount("450.01"), Reason: "not done",
	})
	var ve *entities.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "amount", ve.Field)

	list, err := h.refunds.ListByOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEscrowFlow_PartialRefundThenRelease(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.fund(t, "client-1", "450")
	h.verify(t, "worker-1")
	o := h.openOrder(t, "client-1")
	_, err := h.orders.Accept(ctx, o.ID, "worker-1")
	require.NoError(t, err)

	r, err := h.refunds.FileRequest(ctx, usecase.FileRefundInput{
		OrderID: o.ID, FiledBy: "client-1", Amount: entities.MustAmount("100"), Reason: "one room skipped",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.RefundTargetLocked, r.Target)

	t.Run("second request blocked while open", func(t *testing.T) {
		_, err := h.refunds.FileRequest(ctx, usecase.FileRefundInput{
			OrderID: o.ID, FiledBy: "client-1", Amount: entities.MustAmount("1"), Reason: "again",
		})
		assert.ErrorIs(t, err, usecase.ErrRefundAlreadyOpen)
	})

	t.Run("release blocked while open", func(t *testing.T) {
		_, err := h.orders.SubmitForValidation(ctx, o.ID, "worker-1", false)
		require.NoError(t, err)
		_, err = h.orders.Validate(ctx, o.ID, "client-1")
		assert.ErrorIs(t, err, usecase.ErrRefundPending)
	})

	_, err = h.refunds.StartReview(ctx, r.ID, "sup-1")
	require.NoError(t, err)
	partial := entities.MustAmount("60")
	approved, err := h.refunds.Approve(ctx, r.ID, "sup-1", &partial, "partial")
	require.NoError(t, err)
	assert.Equal(t, entities.RefundApproved, approved.Status)
	amountEq(t, "60", approved.ApprovedAmount)

	done, err := h.orders.Validate(ctx, o.ID, "client-1")
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusCompleted, done.Status)
	amountEq(t, "60", done.RefundedAmount)

	hold, err := h.ledger.GetHold(ctx, o.ID)
	require.NoError(t, err)
	amountEq(t, "60", hold.Refunded)
	amountEq(t, "390", hold.Released)
	amountEq(t, "351", hold.WorkerAmount)
	amountEq(t, "39", hold.PlatformAmount)
	assert.True(t, hold.Consistent())

	amountEq(t, "60", h.balance(t, "client-1").Available)
	h.assertFold(t, "client-1", "worker-1", "platform")
}

func TestEscrowFlow_ReversalAfterRelease(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.fund(t, "client-1", "450")
	h.verify(t, "worker-1")
	o := h.openOrder(t, "client-1")
	_, err := h.orders.Accept(ctx, o.ID, "worker-1")
	require.NoError(t, err)
	_, err = h.orders.SubmitForValidation(ctx, o.ID, "worker-1", false)
	require.NoError(t, err)
	_, err = h.orders.Validate(ctx, o.ID, "client-1")
	require.NoError(t, err)

	r, err := h.refunds.FileRequest(ctx, usecase.FileRefundInput{
		OrderID: o.ID, FiledBy: "client-1", Amount: entities.MustAmount("100"), Reason: "damaged item",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.RefundTargetReleased, r.Target)
	assert.Equal(t, entities.ReleaseTxID(o.ID), r.ContestedTxID)

	_, err = h.refunds.Approve(ctx, r.ID, "sup-1", nil, "")
	require.NoError(t, err)

	amountEq(t, "100", h.balance(t, "client-1").Available)
	amountEq(t, "315", h.balance(t, "worker-1").Available)
	amountEq(t, "35", h.balance(t, "platform").Available)

	hold, err := h.ledger.GetHold(ctx, o.ID)
	require.NoError(t, err)
	amountEq(t, "100", hold.Reversed)
	assert.Empty(t, hold.PendingRefundID)
	h.assertFold(t, "client-1", "worker-1", "platform")
}

func TestEscrowFlow_DisputeResolution(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.fund(t, "client-1", "450")
	h.verify(t, "worker-1")
	o := h.openOrder(t, "client-1")
	_, err := h.orders.Accept(ctx, o.ID, "worker-1")
	require.NoError(t, err)
	_, err = h.orders.RaiseComplaint(ctx, o.ID, "client-1", "worker never came")
	require.NoError(t, err)

	_, err = h.orders.ResolveDispute(ctx, o.ID, "sup-1", entities.MustAmount("500"))
	assert.ErrorIs(t, err, usecase.ErrRefundExceedsHold)

	resolved, err := h.orders.ResolveDispute(ctx, o.ID, "sup-1", entities.MustAmount("450"))
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusRefunded, resolved.Status)
	amountEq(t, "450", h.balance(t, "client-1").Available)
	amountEq(t, "0", h.balance(t, "worker-1").Available)
	h.assertFold(t, "client-1", "worker-1")
}

func TestEscrowFlow_EventsRecordedWithChanges(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.fund(t, "client-1", "450")
	o := h.openOrder(t, "client-1")
	_, err := h.orders.Accept(ctx, o.ID, "worker-1")
	require.NoError(t, err)

	pending, err := h.outbox.ListPending(ctx, 0)
	require.NoError(t, err)
	var types []string
	for _, e := range pending {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{
		entities.EventFundsDeposited,
		entities.EventOrderOpened,
		entities.EventOrderSubmitted,
		entities.EventFundsLocked,
		entities.EventOrderAccepted,
	}, types)

	require.NoError(t, h.outbox.MarkPublished(ctx, pending[0].ID, time.Now()))
	require.NoError(t, h.outbox.MarkPublished(ctx, pending[0].ID, time.Now()))
	left, err := h.outbox.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, left, len(pending)-1)
}
