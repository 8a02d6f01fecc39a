package domain

import (
	"fmt"
	"time"

	"venue-settlement-engine/pkg/money"

	"github.com/google/uuid"
)

// SplitConfig holds the GHOST Pass revenue split percentages.
type SplitConfig struct {
	VenuePct    int64 `json:"venue_pct"`
	PromoterPct int64 `json:"promoter_pct"`
	PoolPct     int64 `json:"pool_pct"`
	PlatformPct int64 `json:"platform_pct"`
}

// DefaultSplitConfig is the 30/30/10/30 split.
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{VenuePct: 30, PromoterPct: 30, PoolPct: 10, PlatformPct: 30}
}

// Validate checks every share is non-negative and the total is 100.
func (c SplitConfig) Validate() error {
	for name, pct := range map[string]int64{
		"venue": c.VenuePct, "promoter": c.PromoterPct, "pool": c.PoolPct, "platform": c.PlatformPct,
	} {
		if pct < 0 {
			return fmt.Errorf("split %s percentage is negative: %d", name, pct)
		}
	}
	if sum := c.VenuePct + c.PromoterPct + c.PoolPct + c.PlatformPct; sum != 100 {
		return fmt.Errorf("split percentages sum to %d, want 100", sum)
	}
	return nil
}

// SplitResult is the per-party outcome of a GHOST Pass redemption.
// VenueShare and PlatformShare are post-deduction amounts; the four shares
// always sum to the gross amount.
type SplitResult struct {
	TransactionID  uuid.UUID   `json:"transaction_id"`
	VenueShare     money.Money `json:"venue_share"`
	PromoterShare  money.Money `json:"promoter_share"`
	PoolShare      money.Money `json:"pool_share"`
	PlatformShare  money.Money `json:"platform_share"`
	TransactionFee money.Money `json:"transaction_fee"`
	GasFee         money.Money `json:"gas_fee"`
}

// Total sums the four shares.
func (r *SplitResult) Total() money.Money {
	return r.VenueShare.Add(r.PromoterShare).Add(r.PoolShare).Add(r.PlatformShare)
}

// DirectPaymentNet is the pricing outcome of a direct charge.
type DirectPaymentNet struct {
	TransactionFee money.Money `json:"transaction_fee"`
	VenueNet       money.Money `json:"venue_net"`
	PlatformNet    money.Money `json:"platform_net"`
}

// PaymentRecord is a priced transaction as persisted next to its ledger entry.
// Settlement and pool distribution read only these records.
type PaymentRecord struct {
	TransactionID  uuid.UUID       `json:"transaction_id"`
	VenueID        string          `json:"venue_id"`
	StationID      string          `json:"station_id"`
	MemberID       string          `json:"member_id"`
	Kind           TransactionKind `json:"kind"`
	PassTier       string          `json:"pass_tier,omitempty"`
	GrossAmount    money.Money     `json:"gross_amount"`
	ScanCount      int64           `json:"scan_count"`
	GasFee         money.Money     `json:"gas_fee"`
	TransactionFee money.Money     `json:"transaction_fee"`
	VenueNet       money.Money     `json:"venue_net"`
	PlatformNet    money.Money     `json:"platform_net"`
	PromoterShare  money.Money     `json:"promoter_share"`
	PoolShare      money.Money     `json:"pool_share"`
	LedgerEntryID  uuid.UUID       `json:"ledger_entry_id"`
	IdempotencyKey string          `json:"idempotency_key"`
	OccurredAt     time.Time       `json:"occurred_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewDirectPaymentRecord builds the record for a priced direct charge.
func NewDirectPaymentRecord(txn *Transaction, gasFee money.Money, net DirectPaymentNet) *PaymentRecord {
	zero := money.Zero(txn.GrossAmount.Currency)
	return &PaymentRecord{
		TransactionID:  txn.ID,
		VenueID:        txn.VenueID,
		StationID:      txn.StationID,
		MemberID:       txn.MemberID,
		Kind:           txn.Kind,
		GrossAmount:    txn.GrossAmount,
		ScanCount:      txn.ScanCount,
		GasFee:         gasFee,
		TransactionFee: net.TransactionFee,
		VenueNet:       net.VenueNet,
		PlatformNet:    net.PlatformNet,
		PromoterShare:  zero,
		PoolShare:      zero,
		IdempotencyKey: txn.IdempotencyKey,
		OccurredAt:     txn.OccurredAt,
	}
}

// NewGhostPassRecord builds the record for a split GHOST Pass redemption.
func NewGhostPassRecord(txn *Transaction, split SplitResult) *PaymentRecord {
	return &PaymentRecord{
		TransactionID:  txn.ID,
		VenueID:        txn.VenueID,
		StationID:      txn.StationID,
		MemberID:       txn.MemberID,
		Kind:           txn.Kind,
		PassTier:       txn.PassTier,
		GrossAmount:    txn.GrossAmount,
		ScanCount:      txn.ScanCount,
		GasFee:         split.GasFee,
		TransactionFee: split.TransactionFee,
		VenueNet:       split.VenueShare,
		PlatformNet:    split.PlatformShare,
		PromoterShare:  split.PromoterShare,
		PoolShare:      split.PoolShare,
		IdempotencyKey: txn.IdempotencyKey,
		OccurredAt:     txn.OccurredAt,
	}
}

// Split reconstructs the SplitResult of a GHOST Pass record.
func (p *PaymentRecord) Split() *SplitResult {
	if p.Kind != TransactionKindGhostPassRedemption {
		return nil
	}
	return &SplitResult{
		TransactionID:  p.TransactionID,
		VenueShare:     p.VenueNet,
		PromoterShare:  p.PromoterShare,
		PoolShare:      p.PoolShare,
		PlatformShare:  p.PlatformNet,
		TransactionFee: p.TransactionFee,
		GasFee:         p.GasFee,
	}
}
