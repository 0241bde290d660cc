package sqlite

import (
	"database/sql"
	"fmt"
	"marketplace_escrow/pkg/logger"

	"go.uber.org/zap"
)

type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Ordered by version. Applied versions are recorded in schema_migrations.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "init_schema_migrations",
		SQL: `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		Version: 2,
		Name:    "init_orders",
		SQL: `
CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    client_id TEXT NOT NULL,
    worker_id TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    created_at TEXT NOT NULL,
    version INTEGER NOT NULL,
    data TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_client ON orders(client_id, created_at);
CREATE INDEX IF NOT EXISTS idx_orders_worker ON orders(worker_id, created_at);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at);
`,
	},
	{
		Version: 3,
		Name:    "init_wallet",
		SQL: `
CREATE TABLE IF NOT EXISTS wallet_accounts (
    owner_id TEXT PRIMARY KEY,
    available TEXT NOT NULL,
    locked TEXT NOT NULL,
    verification TEXT NOT NULL,
    version INTEGER NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS escrow_holds (
    order_id TEXT PRIMARY KEY,
    payer_id TEXT NOT NULL,
    worker_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    remaining TEXT NOT NULL,
    refunded TEXT NOT NULL,
    released TEXT NOT NULL,
    reversed TEXT NOT NULL,
    worker_amount TEXT NOT NULL,
    platform_amount TEXT NOT NULL,
    status TEXT NOT NULL,
    pending_refund_id TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_transactions (
    id TEXT PRIMARY KEY,
    order_id TEXT NOT NULL DEFAULT '',
    account_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    direction TEXT NOT NULL,
    amount TEXT NOT NULL,
    share_worker TEXT NOT NULL DEFAULT '',
    share_platform TEXT NOT NULL DEFAULT '',
    available_delta TEXT NOT NULL,
    locked_delta TEXT NOT NULL,
    resulting_available TEXT NOT NULL,
    resulting_locked TEXT NOT NULL,
    status TEXT NOT NULL,
    description TEXT NOT NULL,
    reference TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ledger_transactions_account ON ledger_transactions(account_id, created_at);
`,
	},
	{
		Version: 4,
		Name:    "init_refunds_and_outbox",
		SQL: `
CREATE TABLE IF NOT EXISTS refund_requests (
    id TEXT PRIMARY KEY,
    order_id TEXT NOT NULL,
    filed_by TEXT NOT NULL,
    contested_tx_id TEXT NOT NULL,
    target TEXT NOT NULL,
    amount TEXT NOT NULL,
    approved_amount TEXT NOT NULL,
    reason TEXT NOT NULL,
    status TEXT NOT NULL,
    reviewer_id TEXT NOT NULL DEFAULT '',
    decision_note TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    decided_at TEXT NOT NULL DEFAULT '',
    version INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_refund_requests_order ON refund_requests(order_id, created_at);

CREATE TABLE IF NOT EXISTS outbox_events (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    aggregate_id TEXT NOT NULL,
    payload TEXT NOT NULL,
    status TEXT NOT NULL,
    attempts INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    published_at TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_outbox_events_status ON outbox_events(status, created_at);
`,
	},
}

// RunMigrations applies every migration not yet recorded, all in one
// transaction.
func RunMigrations(db *sql.DB) error {
	logger.Info("[migrate][sqlite] start")

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	applied := make(map[int]bool)
	// schema_migrations does not exist on first run; that query error is
	// expected and leaves applied empty.
	rows, _ := tx.Query("SELECT version FROM schema_migrations")
	if rows != nil {
		for rows.Next() {
			var version int
			if err := rows.Scan(&version); err != nil {
				rows.Close()
				return fmt.Errorf("scan migration version: %w", err)
			}
			applied[version] = true
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterate migration versions: %w", err)
		}
		rows.Close()
	}

	for _, m := range migrations {
		if applied[m.Version] {
			logger.Debug("[migrate][sqlite] skip applied", zap.Int("version", m.Version), zap.String("name", m.Name))
			continue
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.Name, err)
		}
		logger.Info("[migrate][sqlite] applied", zap.Int("version", m.Version), zap.String("name", m.Name))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}
