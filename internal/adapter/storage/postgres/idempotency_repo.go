package postgres

import (
	"context"
	"errors"
	"fmt"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// IdempotencyRepo persists replay records for funds, debits and payments.
// Rows are written inside the mutation's own transaction, so a record exists
// exactly when its effect committed.
type IdempotencyRepo struct {
	pool Pool
}

func NewIdempotencyRepo(pool Pool) *IdempotencyRepo {
	return &IdempotencyRepo{pool: pool}
}

// Create records the applied result under its scoped key. A second record for
// the same key fails with ports.ErrUniqueViolation.
func (r *IdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	const q = `INSERT INTO idempotency_logs (key, scope, transaction_id, response_json, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.Exec(ctx, q, log.Key, log.Scope(), log.TransactionID, log.ResponseJSON, log.CreatedAt); err != nil {
		return execErr(err, "record "+log.Scope()+" replay")
	}
	return nil
}

// Get returns the replay record for a scoped key, or nil when the key was
// never applied.
func (r *IdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	const q = `SELECT key, transaction_id, response_json, created_at
		FROM idempotency_logs WHERE key = $1`

	var log domain.IdempotencyLog
	err := r.pool.QueryRow(ctx, q, key).Scan(&log.Key, &log.TransactionID, &log.ResponseJSON, &log.CreatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("lookup replay %s: %w", key, err)
	}
	return &log, nil
}

var _ ports.IdempotencyRepository = (*IdempotencyRepo)(nil)
