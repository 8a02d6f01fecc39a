package memory

import (
	"context"
	"sync"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// IdempotencyRepo implements ports.IdempotencyRepository.
type IdempotencyRepo struct {
	s *Store
}

// NewIdempotencyRepo creates a new IdempotencyRepo.
func NewIdempotencyRepo(s *Store) *IdempotencyRepo {
	return &IdempotencyRepo{s: s}
}

// Create records a response under its key; keys are unique.
func (r *IdempotencyRepo) Create(_ context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	mt, err := r.s.txFor(tx)
	if err != nil {
		return err
	}
	if _, exists := r.s.idempotency[log.Key]; exists {
		return ports.ErrUniqueViolation
	}
	r.s.idempotency[log.Key] = *log
	mt.onRollback(func() { delete(r.s.idempotency, log.Key) })
	return nil
}

// Get returns the log for key, or nil.
func (r *IdempotencyRepo) Get(_ context.Context, key string) (*domain.IdempotencyLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.idempotency[key]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

var _ ports.IdempotencyRepository = (*IdempotencyRepo)(nil)

// IdempotencyCache is a TTL map standing in for Redis when it is disabled.
type IdempotencyCache struct {
	mu    sync.Mutex
	items map[string]cacheItem
	now   func() time.Time
}

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// NewIdempotencyCache creates an empty cache.
func NewIdempotencyCache() *IdempotencyCache {
	return &IdempotencyCache{items: make(map[string]cacheItem), now: time.Now}
}

// Get returns the cached value, or nil when missing or expired.
func (c *IdempotencyCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return nil, nil
	}
	if !c.now().Before(it.expiresAt) {
		delete(c.items, key)
		return nil, nil
	}
	return append([]byte(nil), it.value...), nil
}

// Set stores value for ttl.
func (c *IdempotencyCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{value: append([]byte(nil), value...), expiresAt: c.now().Add(ttl)}
	return nil
}

var _ ports.IdempotencyCache = (*IdempotencyCache)(nil)
