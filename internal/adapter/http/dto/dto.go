package dto

import (
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/pkg/money"
)

// PaymentRequest is a point-of-sale event as submitted by a station.
// Amount is in minor units and ignored for GHOST Pass redemptions.
type PaymentRequest struct {
	Kind           string     `json:"kind,omitempty" binding:"omitempty,oneof=DIRECT_PAYMENT GHOST_PASS_REDEMPTION"`
	VenueID        string     `json:"venue_id" binding:"required,max=64,safe_id"`
	StationID      string     `json:"station_id" binding:"required,max=64,safe_id"`
	MemberID       string     `json:"member_id" binding:"required,max=64,safe_id"`
	Amount         int64      `json:"amount" binding:"gte=0,lte=100000000000"`
	Currency       string     `json:"currency,omitempty" binding:"omitempty,iso4217"`
	PassTier       string     `json:"pass_tier,omitempty" binding:"omitempty,max=32,safe_id"`
	ScanEvent      bool       `json:"scan_event"`
	OccurredAt     *time.Time `json:"occurred_at,omitempty"`
	IdempotencyKey string     `json:"idempotency_key" binding:"required,max=128,safe_id"`
}

// FundRequest credits a member wallet.
type FundRequest struct {
	Amount         int64  `json:"amount" binding:"required,gt=0,lte=100000000000"`
	Currency       string `json:"currency,omitempty" binding:"omitempty,iso4217"`
	IdempotencyKey string `json:"idempotency_key" binding:"required,max=128,safe_id"`
}

// UnfreezeRequest clears the freeze on a reconciled wallet.
type UnfreezeRequest struct {
	Reason string `json:"reason" binding:"required,max=256"`
}

// ComputeSettlementRequest settles one venue for [period_start, period_end).
// TaxRate defaults to the configured rate when empty.
type ComputeSettlementRequest struct {
	VenueID     string    `json:"venue_id" binding:"required,max=64,safe_id"`
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`
	TaxRate     string    `json:"tax_rate,omitempty" binding:"omitempty,rate"`
}

// SettleAllRequest settles several venues for the same period.
type SettleAllRequest struct {
	VenueIDs    []string  `json:"venue_ids" binding:"required,min=1,max=500,dive,required,max=64,safe_id"`
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`
	TaxRate     string    `json:"tax_rate,omitempty" binding:"omitempty,rate"`
}

// ReopenSettlementRequest moves a finalized period back to open.
type ReopenSettlementRequest struct {
	VenueID     string    `json:"venue_id" binding:"required,max=64,safe_id"`
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`
	Reason      string    `json:"reason" binding:"required,max=256"`
}

// PeriodQuery selects a settlement period through the query string.
type PeriodQuery struct {
	PeriodStart time.Time `form:"period_start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	PeriodEnd   time.Time `form:"period_end" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// DistributeRequest runs the vendor pool for a period ID ("<start>/<end>").
type DistributeRequest struct {
	PeriodID string `json:"period_id" binding:"required,max=64"`
}

// WalletBalanceResponse is the response for a balance query.
type WalletBalanceResponse struct {
	MemberID string      `json:"member_id"`
	Balance  money.Money `json:"balance"`
}

// ReconcileResponse reports the outcome of a reconciliation.
type ReconcileResponse struct {
	MemberID   string `json:"member_id"`
	Consistent bool   `json:"consistent"`
}

// GasFeeResponse is the per-scan fee in effect for a venue.
type GasFeeResponse struct {
	VenueID    string      `json:"venue_id"`
	AsOf       time.Time   `json:"as_of"`
	PerScanFee money.Money `json:"per_scan_fee"`
}

// FeeScheduleResponse lists the configured gas fee tiers.
type FeeScheduleResponse struct {
	Tiers []domain.FeeTier `json:"tiers"`
}

// StatementListResponse wraps a venue's settlement history.
type StatementListResponse struct {
	VenueID    string                       `json:"venue_id"`
	Statements []domain.SettlementStatement `json:"statements"`
}

// AllocationListResponse wraps a period's pool allocations.
type AllocationListResponse struct {
	PeriodID    string                        `json:"period_id"`
	Allocations []domain.VendorPoolAllocation `json:"allocations"`
	Total       money.Money                   `json:"total"`
}
