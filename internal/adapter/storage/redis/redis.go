package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"venue-settlement-engine/config"
	"venue-settlement-engine/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	clientName = "venue-settlement-engine"
	keyPrefix  = "vse:"
)

// key joins parts under the engine namespace, e.g. key("idem", "fund:k1")
// yields "vse:idem:fund:k1".
func key(parts ...string) string {
	return keyPrefix + strings.Join(parts, ":")
}

// NewClient connects to Redis and fails fast when the server is unreachable.
// Callers own the client and must Close it.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:                  cfg.Addr(),
		Password:              cfg.Password,
		DB:                    cfg.DB,
		ClientName:            clientName,
		ContextTimeoutEnabled: true,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr(), err)
	}

	log.Info().
		Str("addr", cfg.Addr()).
		Int("db", cfg.DB).
		Msg("Redis connected for replay cache and rate limits")

	return client, nil
}

// HealthCheck probes Redis with a write. Both the replay cache and the rate
// limiter write on every request, so a read-only replica counts as down.
type HealthCheck struct {
	client *goredis.Client
	now    func() time.Time
}

func NewHealthCheck(client *goredis.Client) *HealthCheck {
	return &HealthCheck{client: client, now: time.Now}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	stamp := strconv.FormatInt(h.now().Unix(), 10)
	if err := h.client.Set(ctx, key("health"), stamp, 30*time.Second).Err(); err != nil {
		return fmt.Errorf("redis write probe: %w", err)
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "redis"
}

var _ ports.HealthChecker = (*HealthCheck)(nil)
