package postgres

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS wallets (
		member_id     TEXT PRIMARY KEY,
		balance       BIGINT NOT NULL CHECK (balance >= 0),
		currency      CHAR(3) NOT NULL,
		version       BIGINT NOT NULL,
		frozen        BOOLEAN NOT NULL DEFAULT FALSE,
		frozen_reason TEXT,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS ledger_entries (
		id              UUID PRIMARY KEY,
		wallet_id       TEXT NOT NULL REFERENCES wallets(member_id),
		venue_id        TEXT NOT NULL DEFAULT '',
		station_id      TEXT NOT NULL DEFAULT '',
		kind            TEXT NOT NULL CHECK (kind IN ('DEBIT', 'CREDIT')),
		amount          BIGINT NOT NULL CHECK (amount > 0),
		currency        CHAR(3) NOT NULL,
		transaction_id  UUID NOT NULL,
		idempotency_key TEXT NOT NULL UNIQUE,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_entries_wallet ON ledger_entries(wallet_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS payments (
		transaction_id  UUID PRIMARY KEY,
		venue_id        TEXT NOT NULL,
		station_id      TEXT NOT NULL,
		member_id       TEXT NOT NULL,
		kind            TEXT NOT NULL,
		pass_tier       TEXT NOT NULL DEFAULT '',
		currency        CHAR(3) NOT NULL,
		gross_amount    BIGINT NOT NULL,
		scan_count      BIGINT NOT NULL,
		gas_fee         BIGINT NOT NULL,
		transaction_fee BIGINT NOT NULL,
		venue_net       BIGINT NOT NULL,
		platform_net    BIGINT NOT NULL,
		promoter_share  BIGINT NOT NULL,
		pool_share      BIGINT NOT NULL,
		ledger_entry_id UUID NOT NULL REFERENCES ledger_entries(id),
		idempotency_key TEXT NOT NULL UNIQUE,
		occurred_at     TIMESTAMPTZ NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_venue_occurred ON payments(venue_id, occurred_at)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_occurred ON payments(occurred_at)`,

	`CREATE TABLE IF NOT EXISTS settlement_periods (
		venue_id     TEXT NOT NULL,
		period_start TIMESTAMPTZ NOT NULL,
		period_end   TIMESTAMPTZ NOT NULL,
		status       TEXT NOT NULL CHECK (status IN ('OPEN', 'COMPUTING', 'FINALIZED')),
		updated_at   TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (venue_id, period_start, period_end)
	)`,

	`CREATE TABLE IF NOT EXISTS settlement_statements (
		statement_id        UUID PRIMARY KEY,
		venue_id            TEXT NOT NULL,
		period_start        TIMESTAMPTZ NOT NULL,
		period_end          TIMESTAMPTZ NOT NULL,
		tax_rate            NUMERIC(9, 6) NOT NULL,
		transaction_count   BIGINT NOT NULL,
		currency            CHAR(3) NOT NULL,
		gross_sales         BIGINT NOT NULL,
		state_tax           BIGINT NOT NULL,
		platform_commission BIGINT NOT NULL,
		gas_fees            BIGINT NOT NULL,
		promoter_shares     BIGINT NOT NULL,
		pool_shares         BIGINT NOT NULL,
		net_payout          BIGINT NOT NULL,
		computed_at         TIMESTAMPTZ NOT NULL,
		UNIQUE (venue_id, period_start, period_end)
	)`,

	`CREATE TABLE IF NOT EXISTS vendor_pool_allocations (
		period_id         TEXT NOT NULL,
		venue_id          TEXT NOT NULL,
		scan_count        BIGINT NOT NULL,
		pool_share_amount BIGINT NOT NULL,
		currency          CHAR(3) NOT NULL,
		PRIMARY KEY (period_id, venue_id)
	)`,

	`CREATE TABLE IF NOT EXISTS idempotency_logs (
		key            TEXT PRIMARY KEY,
		scope          TEXT NOT NULL,
		transaction_id UUID NOT NULL,
		response_json  JSONB NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_idempotency_logs_scope ON idempotency_logs (scope, created_at)`,

	`CREATE TABLE IF NOT EXISTS audit_logs (
		id            UUID PRIMARY KEY,
		actor         TEXT NOT NULL,
		action        TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id   TEXT,
		details       JSONB,
		ip_address    TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_actor ON audit_logs(actor, created_at)`,
}

// ledgerTables must all exist before the engine accepts writes.
var ledgerTables = []string{
	"wallets", "ledger_entries", "payments", "idempotency_logs",
	"settlement_periods", "settlement_statements", "vendor_pool_allocations", "audit_logs",
}

// VerifySchema reports an error naming the first ledger table Migrate has not
// created yet.
func VerifySchema(ctx context.Context, pool Pool) error {
	rows, err := pool.Query(ctx, `SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = ANY($1)`, ledgerTables)
	if err != nil {
		return fmt.Errorf("listing ledger tables: %w", err)
	}
	present, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("listing ledger tables: %w", err)
	}
	for _, table := range ledgerTables {
		if !slices.Contains(present, table) {
			return fmt.Errorf("schema not migrated: table %s is missing", table)
		}
	}
	return nil
}

// Migrate creates any missing tables and indexes. Every statement is idempotent.
func Migrate(ctx context.Context, pool Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
