package postgres

import (
	"context"
	"errors"
	"fmt"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

const ledgerColumns = `id, wallet_id, venue_id, station_id, kind, amount, currency, transaction_id, idempotency_key, created_at`

// LedgerRepo implements ports.LedgerRepository. Rows are never updated or deleted.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// Append inserts an entry within the debit or fund transaction.
func (r *LedgerRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.WalletID, e.VenueID, e.StationID, string(e.Kind),
		e.Amount.Amount, e.Amount.Currency, e.TransactionID, e.IdempotencyKey, e.CreatedAt,
	)
	if err != nil {
		return execErr(err, "insert ledger entry")
	}
	return nil
}

// GetByIdempotencyKey fetches the entry recorded under key.
func (r *LedgerRepo) GetByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE idempotency_key = $1`

	e, err := scanLedgerEntry(r.pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

// ListByWallet returns a wallet's entries oldest first.
func (r *LedgerRepo) ListByWallet(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE wallet_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry row: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entry rows: %w", err)
	}
	return entries, nil
}

// SumByWallet folds credits minus debits for a wallet.
func (r *LedgerRepo) SumByWallet(ctx context.Context, memberID string) (int64, error) {
	query := `SELECT COALESCE(SUM(CASE WHEN kind = 'CREDIT' THEN amount ELSE -amount END), 0)
		FROM ledger_entries WHERE wallet_id = $1`

	var sum int64
	if err := r.pool.QueryRow(ctx, query, memberID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum ledger entries: %w", err)
	}
	return sum, nil
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	e := &domain.LedgerEntry{}
	var kind string
	err := row.Scan(
		&e.ID, &e.WalletID, &e.VenueID, &e.StationID, &kind,
		&e.Amount.Amount, &e.Amount.Currency, &e.TransactionID, &e.IdempotencyKey, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Kind = domain.EntryKind(kind)
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

var _ ports.LedgerRepository = (*LedgerRepo)(nil)
