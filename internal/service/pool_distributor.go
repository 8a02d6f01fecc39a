package service

import (
	"context"
	"fmt"
	"sort"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/money"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PoolDistributorService implements ports.VendorPoolDistributor.
type PoolDistributorService struct {
	paymentRepo    ports.PaymentRepository
	settlementRepo ports.SettlementRepository
	poolRepo       ports.PoolRepository
	transactor     ports.DBTransactor
	currency       string
	log            zerolog.Logger
}

// NewPoolDistributor creates a new PoolDistributorService.
func NewPoolDistributor(
	paymentRepo ports.PaymentRepository,
	settlementRepo ports.SettlementRepository,
	poolRepo ports.PoolRepository,
	transactor ports.DBTransactor,
	currency string,
	log zerolog.Logger,
) *PoolDistributorService {
	return &PoolDistributorService{
		paymentRepo:    paymentRepo,
		settlementRepo: settlementRepo,
		poolRepo:       poolRepo,
		transactor:     transactor,
		currency:       currency,
		log:            log,
	}
}

// Distribute splits the period's pooled GHOST Pass shares across venues in
// proportion to their scans. Every venue with activity must have a FINALIZED
// statement for the exact period first.
func (s *PoolDistributorService) Distribute(ctx context.Context, periodID string) ([]domain.VendorPoolAllocation, error) {
	period, err := domain.ParsePeriodID(periodID)
	if err != nil {
		return nil, apperror.ErrInvalidPeriod(err.Error())
	}
	periodID = period.ID()

	activity, err := s.paymentRepo.ActivityByVenue(ctx, period)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("venue activity: %w", err))
	}

	var totalScans int64
	for _, a := range activity {
		totalScans += a.ScanCount
	}
	if totalScans == 0 {
		return nil, apperror.ErrNoActivityInPeriod(periodID)
	}

	var pending []string
	for _, a := range activity {
		state, err := s.settlementRepo.GetPeriod(ctx, a.VenueID, period)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("get period for %s: %w", a.VenueID, err))
		}
		if state == nil || state.Status != domain.SettlementStatusFinalized {
			pending = append(pending, a.VenueID)
		}
	}
	if len(pending) > 0 {
		sort.Strings(pending)
		return nil, apperror.ErrPeriodNotReady(periodID, pending)
	}

	allocations, err := s.allocate(periodID, activity, totalScans)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.poolRepo.ReplaceAllocations(ctx, dbTx, periodID, allocations); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("save allocations: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("period", periodID).
		Int("venues", len(allocations)).
		Int64("total_scans", totalScans).
		Msg("vendor pool distributed")

	return allocations, nil
}

// allocate floors each venue's proportional share and gives the remainder to
// the venue with the most scans, lowest venue ID on ties.
func (s *PoolDistributorService) allocate(periodID string, activity []domain.VenueActivity, totalScans int64) ([]domain.VendorPoolAllocation, error) {
	active := make([]domain.VenueActivity, 0, len(activity))
	total := money.Zero(s.currency)
	for _, a := range activity {
		total = total.Add(a.PoolShare)
		if a.ScanCount > 0 {
			active = append(active, a)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].VenueID < active[j].VenueID })

	totalDec := decimal.NewFromInt(total.Amount)
	scansDec := decimal.NewFromInt(totalScans)

	allocations := make([]domain.VendorPoolAllocation, len(active))
	distributed := money.Zero(s.currency)
	top := 0
	for i, a := range active {
		q, _ := totalDec.Mul(decimal.NewFromInt(a.ScanCount)).QuoRem(scansDec, 0)
		share := money.New(q.IntPart(), s.currency)
		allocations[i] = domain.VendorPoolAllocation{
			PeriodID:        periodID,
			VenueID:         a.VenueID,
			ScanCount:       a.ScanCount,
			PoolShareAmount: share,
		}
		distributed = distributed.Add(share)
		// Sorted ascending, so strict > keeps the lowest ID on ties.
		if a.ScanCount > active[top].ScanCount {
			top = i
		}
	}

	remainder := total.Sub(distributed)
	if remainder.IsNegative() {
		return nil, apperror.ErrConservationViolation(
			fmt.Sprintf("pool allocations %s exceed pool %s", distributed, total))
	}
	allocations[top].PoolShareAmount = allocations[top].PoolShareAmount.Add(remainder)

	check := money.Zero(s.currency)
	for _, a := range allocations {
		check = check.Add(a.PoolShareAmount)
	}
	if !check.Equal(total) {
		return nil, apperror.ErrConservationViolation(
			fmt.Sprintf("pool allocations total %s, pool %s", check, total))
	}
	return allocations, nil
}

// Allocations returns the stored allocations for a period.
func (s *PoolDistributorService) Allocations(ctx context.Context, periodID string) ([]domain.VendorPoolAllocation, error) {
	period, err := domain.ParsePeriodID(periodID)
	if err != nil {
		return nil, apperror.ErrInvalidPeriod(err.Error())
	}
	allocs, err := s.poolRepo.ListAllocations(ctx, period.ID())
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list allocations: %w", err))
	}
	return allocs, nil
}

var _ ports.VendorPoolDistributor = (*PoolDistributorService)(nil)
