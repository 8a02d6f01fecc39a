package handler

import (
	"context"
	"errors"

	"venue-settlement-engine/internal/adapter/http/dto"
	"venue-settlement-engine/internal/adapter/http/middleware"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SettlementHandler handles venue settlement endpoints.
type SettlementHandler struct {
	engine         ports.SettlementEngine
	defaultTaxRate decimal.Decimal
}

// NewSettlementHandler creates a new SettlementHandler. defaultTaxRate
// applies when a request omits tax_rate.
func NewSettlementHandler(engine ports.SettlementEngine, defaultTaxRate decimal.Decimal) *SettlementHandler {
	return &SettlementHandler{engine: engine, defaultTaxRate: defaultTaxRate}
}

// Compute handles POST /api/v1/settlements.
func (h *SettlementHandler) Compute(c *gin.Context) {
	var req dto.ComputeSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	c.Set(middleware.CtxResourceID, req.VenueID)

	stmt, err := h.engine.Compute(c.Request.Context(), req.VenueID, req.PeriodStart, req.PeriodEnd, h.taxRate(req.TaxRate))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Applied(c, stmt.Replayed, stmt)
}

// SettleAll handles POST /api/v1/settlements/batch. Per-venue failures are
// reported in the body; the request itself fails only on cancellation, and
// then the error details carry what was finalized before it stopped.
func (h *SettlementHandler) SettleAll(c *gin.Context) {
	var req dto.SettleAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.engine.SettleAll(c.Request.Context(), req.VenueIDs, req.PeriodStart, req.PeriodEnd, h.taxRate(req.TaxRate))
	if err != nil {
		if result != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			err = apperror.ErrRequestTimeout(err).
				With("statements", result.Statements).
				With("failed", result.Failed).
				With("skipped", result.Skipped)
		}
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// GetStatement handles GET /api/v1/settlements/:venue_id?period_start=&period_end=.
func (h *SettlementHandler) GetStatement(c *gin.Context) {
	venueID, ok := venueParam(c)
	if !ok {
		return
	}

	var q dto.PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.ErrInvalidPeriod(err.Error()))
		return
	}

	stmt, err := h.engine.GetStatement(c.Request.Context(), venueID, q.PeriodStart, q.PeriodEnd)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, stmt)
}

// ListStatements handles GET /api/v1/settlements/:venue_id/history.
func (h *SettlementHandler) ListStatements(c *gin.Context) {
	venueID, ok := venueParam(c)
	if !ok {
		return
	}

	stmts, err := h.engine.ListStatements(c.Request.Context(), venueID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.StatementListResponse{VenueID: venueID, Statements: stmts})
}

// Reopen handles POST /api/v1/settlements/reopen.
func (h *SettlementHandler) Reopen(c *gin.Context) {
	var req dto.ReopenSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)
	c.Set(middleware.CtxResourceID, req.VenueID)
	c.Set(middleware.CtxReason, req.Reason)

	err := h.engine.Reopen(c.Request.Context(), ports.ReopenRequest{
		VenueID:     req.VenueID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Actor:       middleware.Subject(c),
		Reason:      req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"venue_id": req.VenueID, "status": "OPEN"})
}

// taxRate parses a validated rate, falling back to the configured default.
func (h *SettlementHandler) taxRate(raw string) decimal.Decimal {
	if raw == "" {
		return h.defaultTaxRate
	}
	return decimal.RequireFromString(raw)
}

func venueParam(c *gin.Context) (string, bool) {
	id := c.Param("venue_id")
	if id == "" || len(id) > 64 || !dto.IsSafeID(id) {
		response.Error(c, apperror.Validation("invalid venue_id"))
		return "", false
	}
	return id, true
}
