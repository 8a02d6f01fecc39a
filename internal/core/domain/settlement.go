package domain

import (
	"fmt"
	"strings"
	"time"

	"venue-settlement-engine/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is a half-open settlement window [Start, End).
type Period struct {
	Start time.Time `json:"period_start"`
	End   time.Time `json:"period_end"`
}

// NewPeriod normalizes both bounds to UTC and checks Start < End.
func NewPeriod(start, end time.Time) (Period, error) {
	// Bounds are whole seconds so that ID, StatementID and stored keys agree.
	p := Period{Start: start.UTC().Truncate(time.Second), End: end.UTC().Truncate(time.Second)}
	if !p.Start.Before(p.End) {
		return Period{}, fmt.Errorf("period start %s is not before end %s", p.Start.Format(time.RFC3339), p.End.Format(time.RFC3339))
	}
	return p, nil
}

// ID renders the period as an ISO-8601 interval, e.g. "2026-10-01T00:00:00Z/2026-11-01T00:00:00Z".
func (p Period) ID() string {
	return p.Start.UTC().Format(time.RFC3339) + "/" + p.End.UTC().Format(time.RFC3339)
}

// Contains reports whether t falls inside the half-open window.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// ParsePeriodID is the inverse of Period.ID.
func ParsePeriodID(id string) (Period, error) {
	startStr, endStr, ok := strings.Cut(id, "/")
	if !ok {
		return Period{}, fmt.Errorf("period id %q: missing '/' separator", id)
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return Period{}, fmt.Errorf("period id %q: start: %w", id, err)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return Period{}, fmt.Errorf("period id %q: end: %w", id, err)
	}
	return NewPeriod(start, end)
}

// SettlementStatus is the per-(venue, period) state machine.
type SettlementStatus string

const (
	SettlementStatusOpen      SettlementStatus = "OPEN"
	SettlementStatusComputing SettlementStatus = "COMPUTING"
	SettlementStatusFinalized SettlementStatus = "FINALIZED"
)

// SettlementPeriod tracks the state of one venue's period.
type SettlementPeriod struct {
	VenueID   string           `json:"venue_id"`
	Period    Period           `json:"period"`
	Status    SettlementStatus `json:"status"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// SettlementStatement is the end-of-period payout summary for a venue.
// It is a pure function of the payment records in the period plus the tax rate.
type SettlementStatement struct {
	StatementID        uuid.UUID       `json:"statement_id"`
	VenueID            string          `json:"venue_id"`
	PeriodStart        time.Time       `json:"period_start"`
	PeriodEnd          time.Time       `json:"period_end"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	TransactionCount   int64           `json:"transaction_count"`
	GrossSales         money.Money     `json:"gross_sales"`
	StateTax           money.Money     `json:"state_tax"`
	PlatformCommission money.Money     `json:"platform_commission"`
	GasFees            money.Money     `json:"gas_fees"` // informational, already inside PlatformCommission
	PromoterShares     money.Money     `json:"promoter_shares"`
	PoolShares         money.Money     `json:"pool_shares"`
	NetPayout          money.Money     `json:"net_payout"`
	ComputedAt         time.Time       `json:"computed_at"`

	// Replayed marks a statement returned from an earlier finalization.
	Replayed bool `json:"-"`
}

// Period returns the statement window.
func (s *SettlementStatement) Period() Period {
	return Period{Start: s.PeriodStart, End: s.PeriodEnd}
}

// SameFigures reports whether two statements carry identical inputs and amounts.
// ComputedAt is deliberately excluded.
func (s *SettlementStatement) SameFigures(o *SettlementStatement) bool {
	return s.StatementID == o.StatementID &&
		s.TaxRate.Equal(o.TaxRate) &&
		s.TransactionCount == o.TransactionCount &&
		s.GrossSales.Equal(o.GrossSales) &&
		s.StateTax.Equal(o.StateTax) &&
		s.PlatformCommission.Equal(o.PlatformCommission) &&
		s.GasFees.Equal(o.GasFees) &&
		s.PromoterShares.Equal(o.PromoterShares) &&
		s.PoolShares.Equal(o.PoolShares) &&
		s.NetPayout.Equal(o.NetPayout)
}

// VenueActivity aggregates one venue's scans and pool contributions in a period.
type VenueActivity struct {
	VenueID   string      `json:"venue_id"`
	ScanCount int64       `json:"scan_count"`
	PoolShare money.Money `json:"pool_share"`
}

// VendorPoolAllocation is one venue's cut of the shared vendor pool.
type VendorPoolAllocation struct {
	PeriodID        string      `json:"period_id"`
	VenueID         string      `json:"venue_id"`
	ScanCount       int64       `json:"scan_count"`
	PoolShareAmount money.Money `json:"pool_share_amount"`
}
