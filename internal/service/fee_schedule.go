package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/money"

	"github.com/rs/zerolog"
)

// gasFeeWindow is the trailing window used to measure a venue's scan volume.
const gasFeeWindow = 30 * 24 * time.Hour

// FeeScheduleService implements ports.FeeScheduleResolver over an ordered tier table.
type FeeScheduleService struct {
	tiers       []domain.FeeTier
	paymentRepo ports.PaymentRepository
	log         zerolog.Logger
}

// NewFeeScheduleService validates the tier table and returns a resolver.
// A table with gaps, overlaps or a bounded top tier is rejected with ConfigInvalid.
func NewFeeScheduleService(tiers []domain.FeeTier, currency string, paymentRepo ports.PaymentRepository, log zerolog.Logger) (*FeeScheduleService, error) {
	sorted := make([]domain.FeeTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinScansPerMonth < sorted[j].MinScansPerMonth })

	if err := domain.ValidateFeeTiers(sorted, currency); err != nil {
		return nil, apperror.ErrConfigInvalid(err)
	}
	return &FeeScheduleService{
		tiers:       sorted,
		paymentRepo: paymentRepo,
		log:         log,
	}, nil
}

// ResolveGasFee returns the per-scan fee for the venue's volume over [asOf-30d, asOf).
func (s *FeeScheduleService) ResolveGasFee(ctx context.Context, venueID string, asOf time.Time) (money.Money, error) {
	asOf = asOf.UTC()
	scans, err := s.paymentRepo.SumScans(ctx, venueID, asOf.Add(-gasFeeWindow), asOf)
	if err != nil {
		return money.Money{}, apperror.ErrDatabaseError(fmt.Errorf("sum scans for %s: %w", venueID, err))
	}

	tier, err := s.Tier(scans)
	if err != nil {
		s.log.Error().Err(err).Str("venue_id", venueID).Int64("scans", scans).Msg("fee schedule has no tier for scan count")
		return money.Money{}, err
	}
	return tier.PerScanFee, nil
}

// Tier finds the band containing scans by binary search.
func (s *FeeScheduleService) Tier(scans int64) (domain.FeeTier, error) {
	if scans < 0 {
		return domain.FeeTier{}, apperror.ErrNoMatchingTier(scans)
	}
	// First tier whose upper bound lies above scans.
	i := sort.Search(len(s.tiers), func(i int) bool {
		upper := s.tiers[i].MaxScansPerMonth
		return upper == nil || scans < *upper
	})
	if i == len(s.tiers) || !s.tiers[i].Contains(scans) {
		return domain.FeeTier{}, apperror.ErrNoMatchingTier(scans)
	}
	return s.tiers[i], nil
}

// Tiers returns a copy of the ordered tier table.
func (s *FeeScheduleService) Tiers() []domain.FeeTier {
	out := make([]domain.FeeTier, len(s.tiers))
	copy(out, s.tiers)
	return out
}
