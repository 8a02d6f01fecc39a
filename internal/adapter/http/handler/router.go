package handler

import (
	"venue-settlement-engine/internal/adapter/http/middleware"
	redisStore "venue-settlement-engine/internal/adapter/storage/redis"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	PaymentSvc     ports.PaymentService
	Ledger         ports.WalletLedger
	Fees           ports.FeeScheduleResolver
	Settlement     ports.SettlementEngine
	Pool           ports.VendorPoolDistributor
	TokenSvc       ports.TokenService
	AuditSvc       ports.AuditService         // nil = audit logging disabled
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Currency       string
	DefaultTaxRate decimal.Decimal
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep: every storage dependency)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	anyRole := middleware.RequireRole(service.RoleStation, service.RoleAdmin)
	stationOnly := middleware.RequireRole(service.RoleStation)
	adminOnly := middleware.RequireRole(service.RoleAdmin)

	v1 := r.Group("/api/v1", jwtAuth)

	paymentHandler := NewPaymentHandler(deps.PaymentSvc, deps.Currency)
	v1.POST("/payments", stationOnly, rl("payments"), paymentHandler.ProcessPayment)

	walletHandler := NewWalletHandler(deps.Ledger, deps.Currency)
	wallets := v1.Group("/wallets/:member_id")
	{
		wallets.POST("/fund", stationOnly, rl("wallets_fund"), walletHandler.Fund)
		wallets.GET("/balance", anyRole, rl("reads"), walletHandler.GetBalance)
		wallets.GET("/entries", anyRole, rl("reads"), walletHandler.ListEntries)
		wallets.POST("/reconcile", adminOnly, rl("admin"), walletHandler.Reconcile)
		wallets.POST("/unfreeze", adminOnly, rl("admin"), walletHandler.Unfreeze)
	}

	venueHandler := NewVenueHandler(deps.Fees)
	v1.GET("/venues/:venue_id/gas-fee", anyRole, rl("reads"), venueHandler.GetGasFee)
	v1.GET("/fees/tiers", anyRole, rl("reads"), venueHandler.GetFeeSchedule)

	settlementHandler := NewSettlementHandler(deps.Settlement, deps.DefaultTaxRate)
	settlements := v1.Group("/settlements", adminOnly, rl("admin"))
	{
		settlements.POST("", settlementHandler.Compute)
		settlements.POST("/batch", settlementHandler.SettleAll)
		settlements.POST("/reopen", settlementHandler.Reopen)
		settlements.GET("/:venue_id", settlementHandler.GetStatement)
		settlements.GET("/:venue_id/history", settlementHandler.ListStatements)
	}

	poolHandler := NewPoolHandler(deps.Pool, deps.Currency)
	pool := v1.Group("/pool/distributions", adminOnly, rl("admin"))
	{
		pool.POST("", poolHandler.Distribute)
		pool.GET("", poolHandler.ListAllocations)
	}

	return r
}
