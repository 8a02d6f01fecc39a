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
	"github.com/shopspring/decimal"
)

// SettlementService implements ports.SettlementEngine.
type SettlementService struct {
	paymentRepo    ports.PaymentRepository
	settlementRepo ports.SettlementRepository
	transactor     ports.DBTransactor
	currency       string
	log            zerolog.Logger
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(
	paymentRepo ports.PaymentRepository,
	settlementRepo ports.SettlementRepository,
	transactor ports.DBTransactor,
	currency string,
	log zerolog.Logger,
) *SettlementService {
	return &SettlementService{
		paymentRepo:    paymentRepo,
		settlementRepo: settlementRepo,
		transactor:     transactor,
		currency:       currency,
		log:            log,
	}
}

// Compute settles one venue for [periodStart, periodEnd).
//
// The COMPUTING state acts as the lock: only the caller whose conditional
// transition succeeds computes. Re-invoking on a FINALIZED period recomputes
// from the store and returns the stored statement when the figures agree, or
// PeriodAlreadyFinalized when entries changed since finalization.
func (s *SettlementService) Compute(ctx context.Context, venueID string, periodStart, periodEnd time.Time, taxRate decimal.Decimal) (*domain.SettlementStatement, error) {
	period, err := s.checkInput(venueID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	if taxRate.IsNegative() || taxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, apperror.Validation("tax_rate must be in [0, 1)")
	}

	state, err := s.settlementRepo.GetPeriod(ctx, venueID, period)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get period: %w", err))
	}
	if state != nil && state.Status == domain.SettlementStatusFinalized {
		return s.replayFinalized(ctx, venueID, period, taxRate)
	}

	acquired, err := s.settlementRepo.BeginComputing(ctx, venueID, period)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("begin computing: %w", err))
	}
	if !acquired {
		state, err := s.settlementRepo.GetPeriod(ctx, venueID, period)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("get period: %w", err))
		}
		if state != nil && state.Status == domain.SettlementStatusFinalized {
			return s.replayFinalized(ctx, venueID, period, taxRate)
		}
		return nil, apperror.ErrSettlementInProgress(venueID).With("period", period.ID())
	}

	stmt, err := s.finalize(ctx, venueID, period, taxRate)
	if err != nil {
		// Back to OPEN so a later attempt can run. Detached from ctx so a
		// cancelled request still releases the lock.
		if relErr := s.settlementRepo.ReleaseComputing(context.WithoutCancel(ctx), venueID, period); relErr != nil {
			s.log.Error().Err(relErr).Str("venue_id", venueID).Str("period", period.ID()).Msg("failed to release computing state")
		}
		return nil, err
	}

	s.log.Info().
		Str("venue_id", venueID).
		Str("period", period.ID()).
		Str("statement_id", stmt.StatementID.String()).
		Int64("transactions", stmt.TransactionCount).
		Int64("gross", stmt.GrossSales.Amount).
		Int64("net_payout", stmt.NetPayout.Amount).
		Msg("settlement finalized")

	return stmt, nil
}

func (s *SettlementService) finalize(ctx context.Context, venueID string, period domain.Period, taxRate decimal.Decimal) (*domain.SettlementStatement, error) {
	stmt, err := s.build(ctx, venueID, period, taxRate)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.settlementRepo.Finalize(ctx, dbTx, stmt); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("finalize statement: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	// Return the persisted form so first and repeated calls are identical.
	stored, err := s.settlementRepo.GetStatement(ctx, venueID, period)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get statement: %w", err))
	}
	if stored == nil {
		return nil, apperror.InternalError(fmt.Errorf("statement for %s %s missing after finalize", venueID, period.ID()))
	}
	return stored, nil
}

func (s *SettlementService) replayFinalized(ctx context.Context, venueID string, period domain.Period, taxRate decimal.Decimal) (*domain.SettlementStatement, error) {
	stored, err := s.settlementRepo.GetStatement(ctx, venueID, period)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get statement: %w", err))
	}
	if stored == nil {
		return nil, apperror.InternalError(fmt.Errorf("period %s finalized for %s without a statement", period.ID(), venueID))
	}

	fresh, err := s.build(ctx, venueID, period, taxRate)
	if err != nil {
		return nil, err
	}
	if !stored.SameFigures(fresh) {
		s.log.Warn().
			Str("venue_id", venueID).
			Str("period", period.ID()).
			Int64("stored_gross", stored.GrossSales.Amount).
			Int64("current_gross", fresh.GrossSales.Amount).
			Msg("finalized period no longer matches its entries")
		return nil, apperror.ErrPeriodAlreadyFinalized(venueID).
			With("period", period.ID()).
			With("statement_id", stored.StatementID.String())
	}
	stored.Replayed = true
	return stored, nil
}

// build is a pure function of the payment records in the window and the tax rate.
func (s *SettlementService) build(ctx context.Context, venueID string, period domain.Period, taxRate decimal.Decimal) (*domain.SettlementStatement, error) {
	records, err := s.paymentRepo.ListByVenue(ctx, venueID, period)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list payments: %w", err))
	}

	gross := money.Zero(s.currency)
	commission := money.Zero(s.currency)
	gas := money.Zero(s.currency)
	promoter := money.Zero(s.currency)
	pool := money.Zero(s.currency)
	for i := range records {
		r := &records[i]
		gross = gross.Add(r.GrossAmount)
		commission = commission.Add(r.PlatformNet)
		gas = gas.Add(r.GasFee)
		promoter = promoter.Add(r.PromoterShare)
		pool = pool.Add(r.PoolShare)
	}
	tax := gross.MulRate(taxRate)

	return &domain.SettlementStatement{
		StatementID:        domain.StatementID(venueID, period),
		VenueID:            venueID,
		PeriodStart:        period.Start,
		PeriodEnd:          period.End,
		TaxRate:            taxRate,
		TransactionCount:   int64(len(records)),
		GrossSales:         gross,
		StateTax:           tax,
		PlatformCommission: commission,
		GasFees:            gas,
		PromoterShares:     promoter,
		PoolShares:         pool,
		// Gas fees are already inside the commission.
		NetPayout:  gross.Sub(tax).Sub(commission),
		ComputedAt: time.Now().UTC().Truncate(time.Microsecond),
	}, nil
}

// Reopen returns a FINALIZED period to OPEN and discards its statement.
func (s *SettlementService) Reopen(ctx context.Context, req ports.ReopenRequest) error {
	period, err := s.checkInput(req.VenueID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return err
	}
	if req.Reason == "" {
		return apperror.Validation("reason is required to reopen a period")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	reopened, err := s.settlementRepo.Reopen(ctx, dbTx, req.VenueID, period)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("reopen period: %w", err))
	}
	if !reopened {
		return apperror.ErrPeriodNotFinalized(req.VenueID).With("period", period.ID())
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Warn().
		Str("venue_id", req.VenueID).
		Str("period", period.ID()).
		Str("actor", req.Actor).
		Str("reason", req.Reason).
		Msg("settlement period reopened")
	return nil
}

// GetStatement returns the stored statement for a period.
func (s *SettlementService) GetStatement(ctx context.Context, venueID string, periodStart, periodEnd time.Time) (*domain.SettlementStatement, error) {
	period, err := s.checkInput(venueID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	stmt, err := s.settlementRepo.GetStatement(ctx, venueID, period)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get statement: %w", err))
	}
	if stmt == nil {
		return nil, apperror.ErrStatementNotFound(venueID).With("period", period.ID())
	}
	return stmt, nil
}

// ListStatements returns a venue's statements, newest period first.
func (s *SettlementService) ListStatements(ctx context.Context, venueID string) ([]domain.SettlementStatement, error) {
	if venueID == "" {
		return nil, apperror.Validation("venue_id is required")
	}
	stmts, err := s.settlementRepo.ListStatements(ctx, venueID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list statements: %w", err))
	}
	return stmts, nil
}

// SettleAll computes the period for each venue in turn. Cancellation is
// honoured between venues only; a statement in progress always completes.
func (s *SettlementService) SettleAll(ctx context.Context, venueIDs []string, periodStart, periodEnd time.Time, taxRate decimal.Decimal) (*ports.BatchResult, error) {
	venues := uniqueSorted(venueIDs)
	result := &ports.BatchResult{
		Statements: make([]domain.SettlementStatement, 0, len(venues)),
		Failed:     map[string]string{},
	}

	for i, venueID := range venues {
		if err := ctx.Err(); err != nil {
			result.Skipped = append(result.Skipped, venues[i:]...)
			s.log.Warn().Int("skipped", len(venues)-i).Msg("settlement batch cancelled")
			return result, err
		}

		stmt, err := s.Compute(context.WithoutCancel(ctx), venueID, periodStart, periodEnd, taxRate)
		if err != nil {
			code := apperror.Code(err)
			if code == "" {
				code = "SYS_001"
			}
			result.Failed[venueID] = code
			s.log.Error().Err(err).Str("venue_id", venueID).Msg("venue settlement failed")
			continue
		}
		result.Statements = append(result.Statements, *stmt)
	}
	return result, nil
}

func (s *SettlementService) checkInput(venueID string, start, end time.Time) (domain.Period, error) {
	if venueID == "" {
		return domain.Period{}, apperror.Validation("venue_id is required")
	}
	period, err := domain.NewPeriod(start, end)
	if err != nil {
		return domain.Period{}, apperror.ErrInvalidPeriod(err.Error())
	}
	return period, nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

var _ ports.SettlementEngine = (*SettlementService)(nil)
