// Package app builds the dependency graph shared by the HTTP service and the
// operator CLI: the selected store, the use cases and the broker workers.
package app

import (
	"context"
	"errors"
	"fmt"
	"marketplace_escrow/internal/adapter/persistence/repository"
	"marketplace_escrow/internal/adapter/persistence/repository/sqlite"
	"marketplace_escrow/internal/domain/pricing"
	"marketplace_escrow/internal/infrastructure/config"
	"marketplace_escrow/internal/infrastructure/database"
	"marketplace_escrow/internal/infrastructure/dedupe"
	"marketplace_escrow/internal/infrastructure/messaging"
	"marketplace_escrow/internal/infrastructure/payments"
	"marketplace_escrow/internal/jobs"
	"marketplace_escrow/internal/usecase"
	"marketplace_escrow/internal/usecase/interfaces"
	"marketplace_escrow/pkg/logger"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// Wire bundles the stores and use cases built from one Config.
type Wire struct {
	Config config.Config

	Outbox interfaces.IOutboxRepository

	Quotes   *usecase.QuoteUseCase
	Ledger   *usecase.LedgerUseCase
	Orders   *usecase.OrderUseCase
	Refunds  *usecase.RefundUseCase
	Deposits *usecase.DepositUseCase

	migrate func(ctx context.Context) error
	closers []func() error
}

type stores struct {
	orders  interfaces.IOrderRepository
	wallets interfaces.IWalletRepository
	refunds interfaces.IRefundRepository
	outbox  interfaces.IOutboxRepository
	writer  interfaces.IChangesetWriter
}

func NewWire(ctx context.Context, cfg config.Config) (*Wire, error) {
	catalog, err := pricing.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	w := &Wire{Config: cfg}
	var s stores
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		w.closers = append(w.closers, db.Close)
		s = stores{
			orders:  sqlite.NewOrderRepository(db),
			wallets: sqlite.NewWalletRepository(db),
			refunds: sqlite.NewRefundRepository(db),
			outbox:  sqlite.NewOutboxRepository(db),
			writer:  sqlite.NewChangesetWriter(db),
		}
		w.migrate = func(context.Context) error { return sqlite.RunMigrations(db) }
	default:
		ddb, err := database.ConnectDynamoDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s = dynamoStores(ddb, cfg.Tables)
		w.migrate = func(ctx context.Context) error { return repository.EnsureTables(ctx, ddb, cfg.Tables) }
	}

	var gateway interfaces.IPaymentGateway
	mp, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken, cfg.PaymentGatewayMock)
	if err != nil {
		logger.Warn("[app][wire] Mercado Pago gateway not configured; deposits disabled", zap.Error(err))
	} else {
		gateway = mp
	}

	w.Outbox = s.outbox
	w.Quotes = usecase.NewQuoteUseCase(pricing.NewEngine(catalog))
	w.Ledger = usecase.NewLedgerUseCase(s.wallets, s.writer, usecase.LedgerConfig{
		CommissionRate:    cfg.CommissionRate,
		PlatformAccountID: cfg.PlatformAccountID,
	})
	w.Orders = usecase.NewOrderUseCase(s.orders, s.wallets, s.writer, w.Quotes, w.Ledger)
	w.Refunds = usecase.NewRefundUseCase(s.refunds, s.orders, s.wallets, s.writer, w.Ledger)
	w.Deposits = usecase.NewDepositUseCase(s.wallets, s.writer, gateway, usecase.DepositConfig{
		MockMode:        cfg.PaymentGatewayMock,
		AccessToken:     cfg.MercadoPagoAccessToken,
		TestPayerEmail:  cfg.MercadoPagoTestPayerEmail,
		TestPayerUserID: cfg.MercadoPagoTestPayerUserID,
	})

	logger.Info("[app][wire] ready", zap.String("storage", cfg.StorageDriver), zap.Bool("kafka", cfg.Kafka.Enabled()))
	return w, nil
}

func dynamoStores(ddb *dynamodb.Client, t config.Tables) stores {
	return stores{
		orders:  repository.NewOrderDynamoRepository(ddb, t.Orders),
		wallets: repository.NewWalletDynamoRepository(ddb, t),
		refunds: repository.NewRefundDynamoRepository(ddb, t.Refunds),
		outbox:  repository.NewOutboxDynamoRepository(ddb, t.Outbox),
		writer:  repository.NewChangesetDynamoWriter(ddb, t),
	}
}

// Migrate applies SQLite migrations or creates the DynamoDB tables. Both are
// idempotent.
func (w *Wire) Migrate(ctx context.Context) error {
	return w.migrate(ctx)
}

// RunWorkers runs the outbox relay and the decision consumer until ctx is
// cancelled. Without brokers it only waits; events stay in the outbox.
func (w *Wire) RunWorkers(ctx context.Context) error {
	k := w.Config.Kafka
	if !k.Enabled() {
		logger.Info("[app][workers] kafka disabled; outbox events are kept for a later relay")
		<-ctx.Done()
		return nil
	}

	store, err := dedupe.Open(w.Config.DedupeDir)
	if err != nil {
		return err
	}
	defer store.Close()

	publisher := messaging.NewKafkaPublisher(k.Brokers, k.EventsTopic)
	defer publisher.Close()
	reader := messaging.NewDecisionReader(k.Brokers, k.DecisionsTopic, k.GroupID)
	defer reader.Close()

	relay := jobs.NewOutboxRelay(w.Outbox, publisher, w.Config.OutboxBatchSize, w.Config.OutboxPollInterval)
	consumer := jobs.NewDecisionConsumer(reader, store, w.Refunds, w.Orders, w.Ledger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		if err := fn(ctx); err != nil {
			logger.Error("[app][workers] worker stopped", zap.String("worker", name), zap.Error(err))
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			mu.Unlock()
			cancel()
		}
	}
	wg.Add(2)
	go run("outbox-relay", relay.Run)
	go run("decision-consumer", consumer.Run)
	wg.Wait()
	return errors.Join(errs...)
}

func (w *Wire) Close() error {
	var errs []error
	for i := len(w.closers) - 1; i >= 0; i-- {
		errs = append(errs, w.closers[i]())
	}
	return errors.Join(errs...)
}
