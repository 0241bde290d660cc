package usecase

import (
	"context"
	"errors"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/domain/pricing"
	"marketplace_escrow/internal/usecase/interfaces"
	mock_interfaces "marketplace_escrow/internal/usecase/interfaces/mocks"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func intPtr(v int) *int { return &v }

func newOrderUseCase(orders interfaces.IOrderRepository, wallets interfaces.IWalletRepository, writer interfaces.IChangesetWriter) *OrderUseCase {
	quotes := NewQuoteUseCase(pricing.NewEngine(pricing.DefaultCatalog()))
	return NewOrderUseCase(orders, wallets, writer, quotes, NewLedgerUseCase(wallets, writer, DefaultLedgerConfig()))
}

func pendingOrder() entities.Order {
	return entities.Order{
		ID:       "o-1",
		ClientID: "client-1",
		Quote:    entities.Quote{Total: entities.MustAmount("450")},
		Status:   entities.OrderStatusPending,
		Version:  2,
	}
}

func openInput() OpenOrderInput {
	return OpenOrderInput{
		ClientID: "client-1",
		Quote:    pricing.ResidentialCleaningInput{Rooms: intPtr(11), Bathrooms: intPtr(0)},
		Details: entities.ServiceDetails{
			Address:    "Rua das Flores 10",
			City:       "Porto",
			PostalCode: "4050-262",
		},
		ScheduledFor: time.Now().Add(24 * time.Hour),
	}
}

func TestOrderUseCase_Open(t *testing.T) {
	t.Run("missing client", func(t *testing.T) {
		uc := newOrderUseCase(nil, nil, nil)
		in := openInput()
		in.ClientID = " "
		if _, err := uc.Open(context.Background(), in); !errors.Is(err, ErrInvalidActorID) {
			t.Fatalf("expected ErrInvalidActorID, got %v", err)
		}
	})

	t.Run("initial price differs from quote", func(t *testing.T) {
		uc := newOrderUseCase(nil, nil, nil)
		in := openInput()
		price := entities.MustAmount("400")
		in.InitialPrice = &price
		_, err := uc.Open(context.Background(), in)
		var ve *entities.ValidationError
		if !errors.As(err, &ve) || ve.Field != "initial_price" {
			t.Fatalf("expected initial_price validation error, got %v", err)
		}
	})

	t.Run("submit without address", func(t *testing.T) {
		uc := newOrderUseCase(nil, nil, nil)
		in := openInput()
		in.Details.Address = ""
		in.Submit = true
		if _, err := uc.Open(context.Background(), in); !errors.Is(err, entities.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("draft then submitted in one commit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		writer, seen := capture(ctrl)
		uc := newOrderUseCase(nil, nil, writer)
		in := openInput()
		in.Submit = true

		o, err := uc.Open(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.Status != entities.OrderStatusPending || !o.Quote.Total.Equal(entities.MustAmount("450")) {
			t.Fatalf("unexpected order: %+v", o)
		}
		cs := (*seen)[0]
		if len(cs.Orders) != 1 || cs.Orders[0].ExpectedVersion != 0 {
			t.Fatalf("expected a single order insert, got %+v", cs.Orders)
		}
		if len(cs.Events) != 2 || cs.Events[0].Type != entities.EventOrderOpened || cs.Events[1].Type != entities.EventOrderSubmitted {
			t.Fatalf("unexpected events: %+v", cs.Events)
		}
	})
}

func TestOrderUseCase_Accept(t *testing.T) {
	funded := map[string]entities.WalletAccount{
		"client-1": account("client-1", "500", "0", entities.VerificationPending),
	}

	t.Run("locks the quoted total with the assignment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		writer, seen := capture(ctrl)
		uc := newOrderUseCase(orders, stubWallets(ctrl, funded, nil), writer)

		orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(pendingOrder(), nil)

		o, err := uc.Accept(context.Background(), "o-1", "worker-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.WorkerID != "worker-1" || o.Status != entities.OrderStatusAccepted {
			t.Fatalf("unexpected order: %+v", o)
		}
		cs := (*seen)[0]
		if len(cs.Orders) != 1 || cs.Orders[0].ExpectedVersion != 2 {
			t.Fatalf("expected guarded order update at version 2, got %+v", cs.Orders)
		}
		if len(cs.Holds) != 1 || len(cs.Transactions) != 1 {
			t.Fatalf("expected hold and lock posting in the same commit, got %+v", cs)
		}
	})

	t.Run("lost race on the order record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		writer, seen := capture(ctrl, &entities.ConflictError{Entity: entities.KindOrder, ID: "o-1"})
		uc := newOrderUseCase(orders, stubWallets(ctrl, funded, nil), writer)

		taken := pendingOrder()
		taken.Status, taken.WorkerID = entities.OrderStatusAccepted, "worker-2"
		gomock.InOrder(
			orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(pendingOrder(), nil),
			orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(taken, nil),
		)

		_, err := uc.Accept(context.Background(), "o-1", "worker-1")
		var ce *entities.ConcurrencyError
		if !errors.As(err, &ce) || ce.Status != entities.OrderStatusAccepted {
			t.Fatalf("expected ConcurrencyError, got %v", err)
		}
		if len(*seen) != 1 {
			t.Fatalf("order conflicts must not be retried, got %d commits", len(*seen))
		}
	})

	t.Run("already taken", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := newOrderUseCase(orders, stubWallets(ctrl, funded, nil), mock_interfaces.NewMockIChangesetWriter(ctrl))

		taken := pendingOrder()
		taken.Status, taken.WorkerID = entities.OrderStatusAccepted, "worker-2"
		orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(taken, nil)

		if _, err := uc.Accept(context.Background(), "o-1", "worker-1"); !errors.Is(err, entities.ErrConcurrency) {
			t.Fatalf("expected ErrConcurrency, got %v", err)
		}
	})

	t.Run("terminal orders reject acceptance", func(t *testing.T) {
		for _, status := range []entities.OrderStatus{entities.OrderStatusCompleted, entities.OrderStatusCancelled, entities.OrderStatusRefunded} {
			t.Run(string(status), func(t *testing.T) {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()
				orders := mock_interfaces.NewMockIOrderRepository(ctrl)
				uc := newOrderUseCase(orders, stubWallets(ctrl, funded, nil), mock_interfaces.NewMockIChangesetWriter(ctrl))

				closed := pendingOrder()
				closed.Status, closed.WorkerID = status, "worker-2"
				orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(closed, nil)

				_, err := uc.Accept(context.Background(), "o-1", "worker-3")
				if !errors.Is(err, entities.ErrStateTransition) {
					t.Fatalf("expected ErrStateTransition, got %v", err)
				}
				if errors.Is(err, entities.ErrConcurrency) {
					t.Fatalf("terminal order must not report a lost race: %v", err)
				}
			})
		}
	})

	t.Run("client cannot accept own order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := newOrderUseCase(orders, stubWallets(ctrl, funded, nil), mock_interfaces.NewMockIChangesetWriter(ctrl))

		orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(pendingOrder(), nil)

		if _, err := uc.Accept(context.Background(), "o-1", "client-1"); !errors.Is(err, ErrSelfAccept) {
			t.Fatalf("expected ErrSelfAccept, got %v", err)
		}
	})

	t.Run("insufficient funds leaves order pending", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		poor := map[string]entities.WalletAccount{"client-1": account("client-1", "10", "0", entities.VerificationPending)}
		uc := newOrderUseCase(orders, stubWallets(ctrl, poor, nil), mock_interfaces.NewMockIChangesetWriter(ctrl))

		orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(pendingOrder(), nil)

		if _, err := uc.Accept(context.Background(), "o-1", "worker-1"); !errors.Is(err, entities.ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := newOrderUseCase(orders, stubWallets(ctrl, nil, nil), mock_interfaces.NewMockIChangesetWriter(ctrl))

		orders.EXPECT().GetByID(gomock.Any(), "o-404").Return(entities.Order{}, nil)

		if _, err := uc.Accept(context.Background(), "o-404", "worker-1"); !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}

func TestOrderUseCase_Cancel(t *testing.T) {
	t.Run("outsider", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := newOrderUseCase(orders, stubWallets(ctrl, nil, nil), mock_interfaces.NewMockIChangesetWriter(ctrl))

		orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(pendingOrder(), nil)

		if _, err := uc.Cancel(context.Background(), "o-1", "stranger", "no"); !errors.Is(err, ErrNotOrderParticipant) {
			t.Fatalf("expected ErrNotOrderParticipant, got %v", err)
		}
	})

	t.Run("pending order moves no funds", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		writer, seen := capture(ctrl)
		uc := newOrderUseCase(orders, stubWallets(ctrl, nil, nil), writer)

		orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(pendingOrder(), nil)

		o, err := uc.Cancel(context.Background(), "o-1", "client-1", "changed plans")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.Status != entities.OrderStatusCancelled || o.CancelReason != "changed plans" {
			t.Fatalf("unexpected order: %+v", o)
		}
		cs := (*seen)[0]
		if len(cs.Transactions) != 0 || len(cs.Accounts) != 0 {
			t.Fatalf("expected no ledger writes, got %+v", cs)
		}
		if len(cs.Events) != 1 || cs.Events[0].Type != entities.EventOrderCancelled {
			t.Fatalf("unexpected events: %+v", cs.Events)
		}
	})

	t.Run("blocked while refund open", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		h := lockedHold("o-1", "450")
		h.PendingRefundID = "r-1"
		uc := newOrderUseCase(orders, stubWallets(ctrl, nil, map[string]entities.EscrowHold{"o-1": h}), mock_interfaces.NewMockIChangesetWriter(ctrl))

		o := pendingOrder()
		o.Status, o.WorkerID = entities.OrderStatusAccepted, "worker-1"
		orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(o, nil)

		if _, err := uc.Cancel(context.Background(), "o-1", "worker-1", "sick"); !errors.Is(err, ErrRefundPending) {
			t.Fatalf("expected ErrRefundPending, got %v", err)
		}
	})
}

func TestOrderUseCase_ResolveDispute(t *testing.T) {
	t.Run("negative refund", func(t *testing.T) {
		uc := newOrderUseCase(nil, nil, nil)
		_, err := uc.ResolveDispute(context.Background(), "o-1", "sup-1", entities.MustAmount("-1"))
		if !errors.Is(err, entities.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("order not disputed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := newOrderUseCase(orders, stubWallets(ctrl, nil, nil), mock_interfaces.NewMockIChangesetWriter(ctrl))

		orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(pendingOrder(), nil)

		if _, err := uc.ResolveDispute(context.Background(), "o-1", "sup-1", decimal.Zero); !errors.Is(err, entities.ErrStateTransition) {
			t.Fatalf("expected ErrStateTransition, got %v", err)
		}
	})

	t.Run("disputed before acceptance closes as cancelled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		writer, seen := capture(ctrl)
		uc := newOrderUseCase(orders, stubWallets(ctrl, nil, nil), writer)

		o := pendingOrder()
		o.Status = entities.OrderStatusDisputed
		orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(o, nil)

		out, err := uc.ResolveDispute(context.Background(), "o-1", "sup-1", decimal.Zero)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Status != entities.OrderStatusCancelled {
			t.Fatalf("expected cancelled, got %s", out.Status)
		}
		if ev := (*seen)[0].Events; len(ev) != 1 || ev[0].Type != entities.EventOrderCancelled {
			t.Fatalf("unexpected events: %+v", ev)
		}
	})

	t.Run("split outcome refunds then releases", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		wallets := stubWallets(ctrl, map[string]entities.WalletAccount{
			"client-1": account("client-1", "0", "450", entities.VerificationPending),
			"worker-1": account("worker-1", "0", "0", entities.VerificationApproved),
		}, map[string]entities.EscrowHold{"o-1": lockedHold("o-1", "450")})
		writer, seen := capture(ctrl)
		uc := newOrderUseCase(orders, wallets, writer)

		o := pendingOrder()
		o.Status, o.WorkerID = entities.OrderStatusDisputed, "worker-1"
		orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(o, nil)

		out, err := uc.ResolveDispute(context.Background(), "o-1", "sup-1", entities.MustAmount("150"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Status != entities.OrderStatusCompleted || !out.RefundedAmount.Equal(entities.MustAmount("150")) {
			t.Fatalf("unexpected order: %+v", out)
		}
		cs := (*seen)[0]
		if w := findAccount(t, cs, "worker-1"); !w.Available.Equal(entities.MustAmount("270")) {
			t.Fatalf("expected worker 270, got %s", w.Available)
		}
		if c := findAccount(t, cs, "client-1"); !c.Available.Equal(entities.MustAmount("150")) || !c.Locked.IsZero() {
			t.Fatalf("unexpected client balances: %+v", c)
		}
	})
}
