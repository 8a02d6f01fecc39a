package handler

import (
	"time"

	"venue-settlement-engine/internal/adapter/http/dto"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// VenueHandler exposes the gas fee schedule to point-of-sale displays.
type VenueHandler struct {
	fees ports.FeeScheduleResolver
	now  func() time.Time
}

// NewVenueHandler creates a new VenueHandler.
func NewVenueHandler(fees ports.FeeScheduleResolver) *VenueHandler {
	return &VenueHandler{fees: fees, now: time.Now}
}

// GetGasFee handles GET /api/v1/venues/:venue_id/gas-fee?as_of=RFC3339.
func (h *VenueHandler) GetGasFee(c *gin.Context) {
	venueID := c.Param("venue_id")
	if venueID == "" || len(venueID) > 64 || !dto.IsSafeID(venueID) {
		response.Error(c, apperror.Validation("invalid venue_id"))
		return
	}

	asOf := h.now().UTC()
	if raw := c.Query("as_of"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, apperror.Validation("as_of must be RFC3339"))
			return
		}
		asOf = t.UTC()
	}

	fee, err := h.fees.ResolveGasFee(c.Request.Context(), venueID, asOf)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.GasFeeResponse{
		VenueID:    venueID,
		AsOf:       asOf,
		PerScanFee: fee,
	})
}

// GetFeeSchedule handles GET /api/v1/fees/tiers.
func (h *VenueHandler) GetFeeSchedule(c *gin.Context) {
	response.OK(c, dto.FeeScheduleResponse{Tiers: h.fees.Tiers()})
}
