package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StorageDynamoDB = "dynamodb"
	StorageSQLite   = "sqlite"
)

// Tables names the DynamoDB tables.
type Tables struct {
	Orders       string
	Accounts     string
	Holds        string
	Transactions string
	Refunds      string
	Outbox       string
}

type Kafka struct {
	Brokers        []string
	EventsTopic    string
	DecisionsTopic string
	GroupID        string
}

// Enabled reports whether a broker is configured. Without one the outbox
// still records every event.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

// Config is read once at startup from the environment (and .env through
// godotenv autoload in the entrypoints).
type Config struct {
	Env      string
	Port     string
	LogLevel string
	LogFile  string

	StorageDriver string
	SQLitePath    string
	AWSRegion     string
	DynamoDB      string
	Tables        Tables

	CommissionRate    decimal.Decimal
	PlatformAccountID string
	CatalogFile       string

	Kafka              Kafka
	DedupeDir          string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int

	MercadoPagoAccessToken     string
	MercadoPagoTestPayerEmail  string
	MercadoPagoTestPayerUserID string
	PaymentGatewayMock         bool
}

func Load() (Config, error) {
	cfg := Config{
		Env:           getenvDefault("ENV", "development"),
		Port:          getenvDefault("PORT", "8080"),
		LogLevel:      getenvDefault("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
		StorageDriver: strings.ToLower(getenvDefault("STORAGE_DRIVER", StorageDynamoDB)),
		SQLitePath:    getenvDefault("SQLITE_PATH", "escrow.db"),
		AWSRegion:     getenvDefault("AWS_REGION", "us-east-1"),
		DynamoDB:      os.Getenv("DYNAMODB_ENDPOINT"),
		Tables: Tables{
			Orders:       getenvDefault("ORDERS_TABLE", "orders"),
			Accounts:     getenvDefault("WALLET_ACCOUNTS_TABLE", "wallet_accounts"),
			Holds:        getenvDefault("ESCROW_HOLDS_TABLE", "escrow_holds"),
			Transactions: getenvDefault("LEDGER_TRANSACTIONS_TABLE", "ledger_transactions"),
			Refunds:      getenvDefault("REFUND_REQUESTS_TABLE", "refund_requests"),
			Outbox:       getenvDefault("OUTBOX_EVENTS_TABLE", "outbox_events"),
		},
		PlatformAccountID: getenvDefault("PLATFORM_ACCOUNT_ID", "platform"),
		CatalogFile:       os.Getenv("CATALOG_FILE"),
		Kafka: Kafka{
			Brokers:        splitList(os.Getenv("KAFKA_BROKERS")),
			EventsTopic:    getenvDefault("KAFKA_EVENTS_TOPIC", "escrow.events"),
			DecisionsTopic: getenvDefault("KAFKA_DECISIONS_TOPIC", "escrow.decisions"),
			GroupID:        getenvDefault("KAFKA_GROUP_ID", "escrow-core"),
		},
		DedupeDir:                  getenvDefault("DEDUPE_DIR", "data/dedupe"),
		MercadoPagoAccessToken:     os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		MercadoPagoTestPayerEmail:  os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL"),
		MercadoPagoTestPayerUserID: os.Getenv("MERCADOPAGO_TEST_PAYER_USER_ID"),
		PaymentGatewayMock:         isTruthy(os.Getenv("PAYMENT_GATEWAY_MOCK")) || isTruthy(os.Getenv("MERCADOPAGO_MOCK")),
	}

	switch cfg.StorageDriver {
	case StorageDynamoDB, StorageSQLite:
	default:
		return Config{}, fmt.Errorf("STORAGE_DRIVER must be %s or %s, got %q", StorageDynamoDB, StorageSQLite, cfg.StorageDriver)
	}

	rate, err := decimal.NewFromString(getenvDefault("COMMISSION_RATE", "0.10"))
	if err != nil {
		return Config{}, fmt.Errorf("COMMISSION_RATE: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return Config{}, fmt.Errorf("COMMISSION_RATE must be in [0, 1), got %s", rate)
	}
	cfg.CommissionRate = rate

	interval, err := time.ParseDuration(getenvDefault("OUTBOX_POLL_INTERVAL", "2s"))
	if err != nil || interval <= 0 {
		return Config{}, fmt.Errorf("OUTBOX_POLL_INTERVAL: invalid duration %q", os.Getenv("OUTBOX_POLL_INTERVAL"))
	}
	cfg.OutboxPollInterval = interval

	batch, err := strconv.Atoi(getenvDefault("OUTBOX_BATCH_SIZE", "100"))
	if err != nil || batch <= 0 {
		return Config{}, fmt.Errorf("OUTBOX_BATCH_SIZE: invalid size %q", os.Getenv("OUTBOX_BATCH_SIZE"))
	}
	cfg.OutboxBatchSize = batch
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}
