package handler

import (
	"venue-settlement-engine/internal/adapter/http/dto"
	"venue-settlement-engine/internal/adapter/http/middleware"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/money"
	"venue-settlement-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles member wallet endpoints.
type WalletHandler struct {
	ledger   ports.WalletLedger
	currency string
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledger ports.WalletLedger, currency string) *WalletHandler {
	return &WalletHandler{ledger: ledger, currency: currency}
}

// Fund handles POST /api/v1/wallets/:member_id/fund.
func (h *WalletHandler) Fund(c *gin.Context) {
	memberID, ok := memberParam(c)
	if !ok {
		return
	}

	var req dto.FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = h.currency
	}

	result, err := h.ledger.Fund(c.Request.Context(), memberID, money.New(req.Amount, currency), req.IdempotencyKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Applied(c, result.Replayed, result)
}

// GetBalance handles GET /api/v1/wallets/:member_id/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	memberID, ok := memberParam(c)
	if !ok {
		return
	}

	balance, err := h.ledger.Balance(c.Request.Context(), memberID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WalletBalanceResponse{
		MemberID: memberID,
		Balance:  balance,
	})
}

// ListEntries handles GET /api/v1/wallets/:member_id/entries.
func (h *WalletHandler) ListEntries(c *gin.Context) {
	memberID, ok := memberParam(c)
	if !ok {
		return
	}

	entries, err := h.ledger.Entries(c.Request.Context(), memberID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, entries)
}

// Reconcile handles POST /api/v1/wallets/:member_id/reconcile. A mismatch
// freezes the wallet and is reported as INT_001.
func (h *WalletHandler) Reconcile(c *gin.Context) {
	memberID, ok := memberParam(c)
	if !ok {
		return
	}

	consistent, err := h.ledger.Reconcile(c.Request.Context(), memberID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ReconcileResponse{MemberID: memberID, Consistent: consistent})
}

// Unfreeze handles POST /api/v1/wallets/:member_id/unfreeze.
func (h *WalletHandler) Unfreeze(c *gin.Context) {
	memberID, ok := memberParam(c)
	if !ok {
		return
	}

	var req dto.UnfreezeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)
	c.Set(middleware.CtxReason, req.Reason)

	wallet, err := h.ledger.Unfreeze(c.Request.Context(), memberID, middleware.Subject(c), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, wallet)
}

// memberParam validates the :member_id path segment.
func memberParam(c *gin.Context) (string, bool) {
	id := c.Param("member_id")
	if id == "" || len(id) > 64 || !dto.IsSafeID(id) {
		response.Error(c, apperror.Validation("invalid member_id"))
		return "", false
	}
	return id, true
}
