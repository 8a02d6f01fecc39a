package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"venue-settlement-engine/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// IdempotencyCache answers replays of recently applied keys without touching
// the database. A miss is never authoritative: the replay path still checks
// idempotency_logs before applying anything.
type IdempotencyCache struct {
	client *goredis.Client
}

func NewIdempotencyCache(client *goredis.Client) *IdempotencyCache {
	return &IdempotencyCache{client: client}
}

// Get returns the cached result for a scoped key such as "payment:bar-1-0042",
// or nil when nothing is cached.
func (c *IdempotencyCache) Get(ctx context.Context, scopedKey string) ([]byte, error) {
	val, err := c.client.Get(ctx, key("idem", scopedKey)).Bytes()
	switch {
	case errors.Is(err, goredis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("replay cache get %s: %w", scopedKey, err)
	}
	return val, nil
}

// Set caches result for ttl unless an entry is already present; the first
// committed result for a key is the one every replay sees.
func (c *IdempotencyCache) Set(ctx context.Context, scopedKey string, result []byte, ttl time.Duration) error {
	if err := c.client.SetNX(ctx, key("idem", scopedKey), result, ttl).Err(); err != nil {
		return fmt.Errorf("replay cache set %s: %w", scopedKey, err)
	}
	return nil
}

var _ ports.IdempotencyCache = (*IdempotencyCache)(nil)
