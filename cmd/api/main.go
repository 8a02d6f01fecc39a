package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"venue-settlement-engine/config"
	httpHandler "venue-settlement-engine/internal/adapter/http/handler"
	"venue-settlement-engine/internal/adapter/storage/memory"
	pgStorage "venue-settlement-engine/internal/adapter/storage/postgres"
	redisStorage "venue-settlement-engine/internal/adapter/storage/redis"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/internal/service"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// repositories is the storage backend selected by storage.driver.
type repositories struct {
	wallets     ports.WalletRepository
	ledger      ports.LedgerRepository
	payments    ports.PaymentRepository
	settlements ports.SettlementRepository
	pool        ports.PoolRepository
	idempotency ports.IdempotencyRepository
	audit       ports.AuditRepository
	transactor  ports.DBTransactor
	health      ports.HealthChecker
	close       func()
}

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	engineCfg, err := cfg.Engine()
	if err != nil {
		log.Fatal().Err(apperror.ErrConfigInvalid(err)).Msg("Invalid engine configuration")
	}
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("jwt.secret is required (VSE_JWT_SECRET)")
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Str("currency", engineCfg.Currency).
		Msg("Starting Venue Settlement Engine")

	gin.SetMode(cfg.Server.Mode)
	ctx := context.Background()

	repos, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open storage")
	}
	defer repos.close()
	log.Info().Str("driver", cfg.Storage.Driver).Msg("Storage ready")

	healthCheckers := []ports.HealthChecker{repos.health}

	// Redis backs the idempotency cache and rate limiting when enabled.
	var (
		idempotencyCache ports.IdempotencyCache = memory.NewIdempotencyCache()
		rateLimitStore   *redisStorage.RateLimitStore
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		idempotencyCache = redisStorage.NewIdempotencyCache(rdb)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Warn().Msg("Redis disabled: in-process idempotency cache, no rate limiting")
	}

	// Initialize core services
	fees, err := service.NewFeeScheduleService(engineCfg.FeeTiers, engineCfg.Currency, repos.payments, logger.Component(log, "fee_schedule"))
	if err != nil {
		log.Fatal().Err(apperror.ErrConfigInvalid(err)).Msg("Invalid fee schedule")
	}
	ledger := service.NewWalletLedger(
		repos.wallets,
		repos.ledger,
		repos.idempotency,
		idempotencyCache,
		repos.transactor,
		service.LedgerOptions{
			Currency:         engineCfg.Currency,
			MaxDebitAttempts: cfg.Ledger.MaxDebitAttempts,
			RetryBackoff:     cfg.Ledger.RetryBackoff,
			IdempotencyTTL:   cfg.Ledger.IdempotencyTTL,
		},
		logger.Component(log, "wallet_ledger"),
	)
	paymentSvc := service.NewPaymentService(
		service.NewClassifier(engineCfg.Currency, engineCfg.PassPrices),
		fees,
		service.NewSplitCalculator(engineCfg.TransactionFeeRate),
		ledger,
		repos.payments,
		repos.settlements,
		engineCfg.Split,
		logger.Component(log, "payments"),
	)
	settlementSvc := service.NewSettlementService(repos.payments, repos.settlements, repos.transactor, engineCfg.Currency, logger.Component(log, "settlement"))
	poolSvc := service.NewPoolDistributor(repos.payments, repos.settlements, repos.pool, repos.transactor, engineCfg.Currency, logger.Component(log, "vendor_pool"))
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	auditSvc := service.NewAuditService(repos.audit, logger.Component(log, "audit"))

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		PaymentSvc:     paymentSvc,
		Ledger:         ledger,
		Fees:           fees,
		Settlement:     settlementSvc,
		Pool:           poolSvc,
		TokenSvc:       tokenSvc,
		AuditSvc:       auditSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		Currency:       engineCfg.Currency,
		DefaultTaxRate: engineCfg.DefaultTaxRate,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openStorage connects the configured backend. The postgres schema is
// migrated on startup.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		return &repositories{
			wallets:     memory.NewWalletRepo(store),
			ledger:      memory.NewLedgerRepo(store),
			payments:    memory.NewPaymentRepo(store),
			settlements: memory.NewSettlementRepo(store),
			pool:        memory.NewPoolRepo(store),
			idempotency: memory.NewIdempotencyRepo(store),
			audit:       memory.NewAuditRepo(store),
			transactor:  store,
			health:      store,
			close:       func() {},
		}, nil

	case "postgres":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := pgStorage.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &repositories{
			wallets:     pgStorage.NewWalletRepo(pool),
			ledger:      pgStorage.NewLedgerRepo(pool),
			payments:    pgStorage.NewPaymentRepo(pool),
			settlements: pgStorage.NewSettlementRepo(pool),
			pool:        pgStorage.NewPoolRepo(pool),
			idempotency: pgStorage.NewIdempotencyRepo(pool),
			audit:       pgStorage.NewAuditRepo(pool),
			transactor:  pgStorage.NewTransactor(pool),
			health:      pgStorage.NewHealthCheck(pool),
			close:       pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q (want postgres or memory)", cfg.Storage.Driver)
	}
}
