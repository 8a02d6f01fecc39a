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

// PaymentHandler handles point-of-sale payment endpoints.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
	currency   string
}

// NewPaymentHandler creates a new PaymentHandler. currency applies to
// requests that omit one.
func NewPaymentHandler(paymentSvc ports.PaymentService, currency string) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc, currency: currency}
}

// ProcessPayment handles POST /api/v1/payments.
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = h.currency
	}

	event := domain.RawEvent{
		Kind:           req.Kind,
		VenueID:        req.VenueID,
		StationID:      req.StationID,
		MemberID:       req.MemberID,
		Amount:         money.New(req.Amount, currency),
		PassTier:       req.PassTier,
		ScanEvent:      req.ScanEvent,
		IdempotencyKey: req.IdempotencyKey,
	}
	if req.OccurredAt != nil {
		event.OccurredAt = req.OccurredAt.UTC()
	}

	result, err := h.paymentSvc.ProcessEvent(c.Request.Context(), event)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, result.Transaction.ID.String())
	response.Applied(c, result.Replayed, result)
}
