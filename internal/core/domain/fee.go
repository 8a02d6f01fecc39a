package domain

import (
	"fmt"

	"venue-settlement-engine/pkg/money"
)

// FeeTier is one band of the per-scan gas fee schedule. Bounds are
// inclusive-lower / exclusive-upper; a nil MaxScansPerMonth is unbounded.
type FeeTier struct {
	MinScansPerMonth int64       `json:"min_scans_per_month"`
	MaxScansPerMonth *int64      `json:"max_scans_per_month,omitempty"`
	PerScanFee       money.Money `json:"per_scan_fee"`
}

// Contains reports whether the scan count falls inside the band.
func (t FeeTier) Contains(scans int64) bool {
	if scans < t.MinScansPerMonth {
		return false
	}
	return t.MaxScansPerMonth == nil || scans < *t.MaxScansPerMonth
}

// ValidateFeeTiers checks the schedule is ordered, contiguous and covers
// [0, inf) so that exactly one tier matches any non-negative scan count.
func ValidateFeeTiers(tiers []FeeTier, currency string) error {
	if len(tiers) == 0 {
		return fmt.Errorf("fee schedule is empty")
	}
	if tiers[0].MinScansPerMonth != 0 {
		return fmt.Errorf("first fee tier starts at %d, want 0", tiers[0].MinScansPerMonth)
	}
	for i, t := range tiers {
		if t.PerScanFee.IsNegative() {
			return fmt.Errorf("fee tier %d has negative per-scan fee", i)
		}
		if t.PerScanFee.Currency != currency {
			return fmt.Errorf("fee tier %d currency %q, want %q", i, t.PerScanFee.Currency, currency)
		}
		last := i == len(tiers)-1
		if t.MaxScansPerMonth == nil {
			if !last {
				return fmt.Errorf("fee tier %d is unbounded but is not the last tier", i)
			}
			continue
		}
		if *t.MaxScansPerMonth <= t.MinScansPerMonth {
			return fmt.Errorf("fee tier %d is empty: [%d, %d)", i, t.MinScansPerMonth, *t.MaxScansPerMonth)
		}
		if last {
			return fmt.Errorf("last fee tier is bounded at %d; scans above it would match no tier", *t.MaxScansPerMonth)
		}
		if next := tiers[i+1].MinScansPerMonth; next != *t.MaxScansPerMonth {
			return fmt.Errorf("fee tiers %d and %d are not contiguous: %d != %d", i, i+1, *t.MaxScansPerMonth, next)
		}
	}
	return nil
}
