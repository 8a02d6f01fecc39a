package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/pkg/money"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Storage    StorageConfig     `mapstructure:"storage"`
	Database   DatabaseConfig    `mapstructure:"database"`
	Redis      RedisConfig       `mapstructure:"redis"`
	JWT        JWTConfig         `mapstructure:"jwt"`
	Log        LogConfig         `mapstructure:"log"`
	Ledger     LedgerConfig      `mapstructure:"ledger"`
	Fees       FeesConfig        `mapstructure:"fees"`
	Split      SplitConfig       `mapstructure:"split"`
	Passes     map[string]string `mapstructure:"passes"` // tier name -> price in major units
	Settlement SettlementConfig  `mapstructure:"settlement"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // postgres, memory
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

type LedgerConfig struct {
	MaxDebitAttempts int           `mapstructure:"max_debit_attempts"`
	RetryBackoff     time.Duration `mapstructure:"retry_backoff"`
	IdempotencyTTL   time.Duration `mapstructure:"idempotency_ttl"`
}

type FeesConfig struct {
	Currency           string       `mapstructure:"currency"`
	TransactionFeeRate string       `mapstructure:"transaction_fee_rate"`
	Tiers              []TierConfig `mapstructure:"tiers"`
}

// TierConfig is one gas fee band. MaxScans is omitted for the unbounded top tier.
type TierConfig struct {
	MinScans   int64  `mapstructure:"min_scans"`
	MaxScans   *int64 `mapstructure:"max_scans"`
	PerScanFee string `mapstructure:"per_scan_fee"`
}

type SplitConfig struct {
	VenuePct    int64 `mapstructure:"venue_pct"`
	PromoterPct int64 `mapstructure:"promoter_pct"`
	PoolPct     int64 `mapstructure:"pool_pct"`
	PlatformPct int64 `mapstructure:"platform_pct"`
}

type SettlementConfig struct {
	DefaultTaxRate string `mapstructure:"default_tax_rate"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: VSE_ (Venue Settlement Engine).
// Nested keys use underscore: VSE_DATABASE_HOST, VSE_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "venue_settlement")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "12h")
	v.SetDefault("jwt.issuer", "venue-settlement-engine")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("ledger.max_debit_attempts", 5)
	v.SetDefault("ledger.retry_backoff", "10ms")
	v.SetDefault("ledger.idempotency_ttl", "24h")
	v.SetDefault("fees.currency", "USD")
	v.SetDefault("fees.transaction_fee_rate", "0.015")
	v.SetDefault("fees.tiers", []map[string]any{
		{"min_scans": 0, "max_scans": 2500, "per_scan_fee": "0.25"},
		{"min_scans": 2500, "max_scans": 10000, "per_scan_fee": "0.20"},
		{"min_scans": 10000, "per_scan_fee": "0.15"},
	})
	v.SetDefault("split.venue_pct", 30)
	v.SetDefault("split.promoter_pct", 30)
	v.SetDefault("split.pool_pct", 10)
	v.SetDefault("split.platform_pct", 30)
	v.SetDefault("passes", map[string]string{
		"bronze": "10.00",
		"silver": "20.00",
		"gold":   "50.00",
	})
	v.SetDefault("settlement.default_tax_rate", "0.07")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: VSE_DATABASE_HOST -> database.host
	v.SetEnvPrefix("VSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required; env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Engine converts the pricing sections into a validated domain.EngineConfig.
// Any inconsistency (tier gaps, split not summing to 100, bad amounts) is an error.
func (c *Config) Engine() (domain.EngineConfig, error) {
	currency := strings.ToUpper(strings.TrimSpace(c.Fees.Currency))
	if len(currency) != 3 {
		return domain.EngineConfig{}, fmt.Errorf("fees.currency %q is not a 3-letter code", c.Fees.Currency)
	}

	feeRate, err := parseRate("fees.transaction_fee_rate", c.Fees.TransactionFeeRate)
	if err != nil {
		return domain.EngineConfig{}, err
	}
	taxRate, err := parseRate("settlement.default_tax_rate", c.Settlement.DefaultTaxRate)
	if err != nil {
		return domain.EngineConfig{}, err
	}

	tiers := make([]domain.FeeTier, 0, len(c.Fees.Tiers))
	for i, t := range c.Fees.Tiers {
		fee, err := money.ParseMajor(t.PerScanFee, currency)
		if err != nil {
			return domain.EngineConfig{}, fmt.Errorf("fees.tiers[%d].per_scan_fee: %w", i, err)
		}
		tiers = append(tiers, domain.FeeTier{
			MinScansPerMonth: t.MinScans,
			MaxScansPerMonth: t.MaxScans,
			PerScanFee:       fee,
		})
	}
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].MinScansPerMonth < tiers[j].MinScansPerMonth })
	if err := domain.ValidateFeeTiers(tiers, currency); err != nil {
		return domain.EngineConfig{}, fmt.Errorf("fees.tiers: %w", err)
	}

	split := domain.SplitConfig{
		VenuePct:    c.Split.VenuePct,
		PromoterPct: c.Split.PromoterPct,
		PoolPct:     c.Split.PoolPct,
		PlatformPct: c.Split.PlatformPct,
	}
	if err := split.Validate(); err != nil {
		return domain.EngineConfig{}, fmt.Errorf("split: %w", err)
	}

	if len(c.Passes) == 0 {
		return domain.EngineConfig{}, fmt.Errorf("passes: at least one GHOST Pass tier is required")
	}
	prices := make(map[string]money.Money, len(c.Passes))
	for name, raw := range c.Passes {
		price, err := money.ParseMajor(raw, currency)
		if err != nil {
			return domain.EngineConfig{}, fmt.Errorf("passes.%s: %w", name, err)
		}
		if !price.IsPositive() {
			return domain.EngineConfig{}, fmt.Errorf("passes.%s: price must be positive", name)
		}
		prices[strings.ToLower(name)] = price
	}

	return domain.EngineConfig{
		Currency:           currency,
		TransactionFeeRate: feeRate,
		FeeTiers:           tiers,
		Split:              split,
		PassPrices:         prices,
		DefaultTaxRate:     taxRate,
	}, nil
}

func parseRate(key, raw string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", key, err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Decimal{}, fmt.Errorf("%s: %s is outside [0, 1)", key, raw)
	}
	return rate, nil
}
