package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const defaultIdempotencyTTL = 24 * time.Hour

// replayStore is the two-layer idempotency lookup: Redis first, then the
// idempotency_logs table that is written in the same DB transaction as the effect.
type replayStore struct {
	cache ports.IdempotencyCache
	repo  ports.IdempotencyRepository
	ttl   time.Duration
	log   zerolog.Logger
}

func newReplayStore(cache ports.IdempotencyCache, repo ports.IdempotencyRepository, ttl time.Duration, log zerolog.Logger) *replayStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &replayStore{cache: cache, repo: repo, ttl: ttl, log: log}
}

// lookup returns the stored response for key, or nil when the key is unused.
func (r *replayStore) lookup(ctx context.Context, key string) ([]byte, error) {
	// Layer 1: Redis
	cached, err := r.cache.Get(ctx, key)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		return cached, nil
	}

	// Layer 2: DB
	entry, err := r.repo.Get(ctx, key)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("db idempotency check: %w", err))
	}
	if entry == nil {
		return nil, nil
	}
	// Re-warm the cache for the next replay.
	if err := r.cache.Set(ctx, key, entry.ResponseJSON, r.ttl); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("failed to cache idempotency in redis")
	}
	return entry.ResponseJSON, nil
}

// record writes the idempotency log inside tx and returns the encoded response.
func (r *replayStore) record(ctx context.Context, tx pgx.Tx, key string, txnID uuid.UUID, response any) ([]byte, error) {
	respJSON, err := json.Marshal(response)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal response: %w", err))
	}
	if err := r.repo.Create(ctx, tx, &domain.IdempotencyLog{
		Key:           key,
		TransactionID: txnID,
		ResponseJSON:  respJSON,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	return respJSON, nil
}

// remember caches a committed response (best-effort).
func (r *replayStore) remember(ctx context.Context, key string, respJSON []byte) {
	if err := r.cache.Set(ctx, key, respJSON, r.ttl); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("failed to cache idempotency in redis")
	}
}

// backoff sleeps before retry attempt n (1-based) with full jitter, or returns
// early when ctx is done.
func backoff(ctx context.Context, base time.Duration, attempt int) error {
	if base <= 0 {
		return ctx.Err()
	}
	wait := time.Duration(rand.Int64N(int64(base)*int64(attempt) + 1))
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
