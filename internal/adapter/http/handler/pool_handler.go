package handler

import (
	"venue-settlement-engine/internal/adapter/http/dto"
	"venue-settlement-engine/internal/adapter/http/middleware"
	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/money"
	"venue-settlement-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// PoolHandler handles vendor pool distribution endpoints.
type PoolHandler struct {
	distributor ports.VendorPoolDistributor
	currency    string
}

// NewPoolHandler creates a new PoolHandler.
func NewPoolHandler(distributor ports.VendorPoolDistributor, currency string) *PoolHandler {
	return &PoolHandler{distributor: distributor, currency: currency}
}

// Distribute handles POST /api/v1/pool/distributions.
func (h *PoolHandler) Distribute(c *gin.Context) {
	var req dto.DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	c.Set(middleware.CtxResourceID, req.PeriodID)

	allocs, err := h.distributor.Distribute(c.Request.Context(), req.PeriodID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, h.toResponse(req.PeriodID, allocs))
}

// ListAllocations handles GET /api/v1/pool/distributions?period_id=.
func (h *PoolHandler) ListAllocations(c *gin.Context) {
	periodID := c.Query("period_id")
	if periodID == "" {
		response.Error(c, apperror.ErrInvalidPeriod("period_id is required"))
		return
	}

	allocs, err := h.distributor.Allocations(c.Request.Context(), periodID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, h.toResponse(periodID, allocs))
}

func (h *PoolHandler) toResponse(periodID string, allocs []domain.VendorPoolAllocation) dto.AllocationListResponse {
	total := money.Zero(h.currency)
	for _, a := range allocs {
		total = total.Add(a.PoolShareAmount)
	}
	if allocs == nil {
		allocs = []domain.VendorPoolAllocation{}
	}
	return dto.AllocationListResponse{PeriodID: periodID, Allocations: allocs, Total: total}
}
