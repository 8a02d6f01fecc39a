package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const statementColumns = `statement_id, venue_id, period_start, period_end, tax_rate::text, transaction_count, currency,
	gross_sales, state_tax, platform_commission, gas_fees, promoter_shares, pool_shares, net_payout, computed_at`

// SettlementRepo implements ports.SettlementRepository. Periods are keyed by
// (venue_id, period_start, period_end).
type SettlementRepo struct {
	pool Pool
}

// NewSettlementRepo creates a new SettlementRepo.
func NewSettlementRepo(pool Pool) *SettlementRepo {
	return &SettlementRepo{pool: pool}
}

// GetPeriod fetches the state of a venue's period, or nil when never touched.
func (r *SettlementRepo) GetPeriod(ctx context.Context, venueID string, period domain.Period) (*domain.SettlementPeriod, error) {
	query := `SELECT status, updated_at FROM settlement_periods
		WHERE venue_id = $1 AND period_start = $2 AND period_end = $3`

	p := &domain.SettlementPeriod{VenueID: venueID, Period: period}
	var status string
	err := r.pool.QueryRow(ctx, query, venueID, period.Start, period.End).Scan(&status, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settlement period: %w", err)
	}
	p.Status = domain.SettlementStatus(status)
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

// BeginComputing claims the period: a missing row is inserted as COMPUTING
// and an OPEN row is moved to COMPUTING. Any other state leaves the row alone.
func (r *SettlementRepo) BeginComputing(ctx context.Context, venueID string, period domain.Period) (bool, error) {
	query := `INSERT INTO settlement_periods (venue_id, period_start, period_end, status, updated_at)
		VALUES ($1, $2, $3, 'COMPUTING', NOW())
		ON CONFLICT (venue_id, period_start, period_end)
		DO UPDATE SET status = 'COMPUTING', updated_at = NOW()
		WHERE settlement_periods.status = 'OPEN'`

	tag, err := r.pool.Exec(ctx, query, venueID, period.Start, period.End)
	if err != nil {
		return false, fmt.Errorf("begin computing: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseComputing returns a COMPUTING period to OPEN.
func (r *SettlementRepo) ReleaseComputing(ctx context.Context, venueID string, period domain.Period) error {
	query := `UPDATE settlement_periods SET status = 'OPEN', updated_at = NOW()
		WHERE venue_id = $1 AND period_start = $2 AND period_end = $3 AND status = 'COMPUTING'`

	if _, err := r.pool.Exec(ctx, query, venueID, period.Start, period.End); err != nil {
		return fmt.Errorf("release computing: %w", err)
	}
	return nil
}

// Finalize stores the statement and moves the period from COMPUTING to FINALIZED.
func (r *SettlementRepo) Finalize(ctx context.Context, tx pgx.Tx, s *domain.SettlementStatement) error {
	insert := `INSERT INTO settlement_statements (statement_id, venue_id, period_start, period_end, tax_rate,
		transaction_count, currency, gross_sales, state_tax, platform_commission, gas_fees, promoter_shares,
		pool_shares, net_payout, computed_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := tx.Exec(ctx, insert,
		s.StatementID, s.VenueID, s.PeriodStart, s.PeriodEnd, s.TaxRate.String(),
		s.TransactionCount, s.GrossSales.Currency, s.GrossSales.Amount, s.StateTax.Amount,
		s.PlatformCommission.Amount, s.GasFees.Amount, s.PromoterShares.Amount,
		s.PoolShares.Amount, s.NetPayout.Amount, s.ComputedAt,
	)
	if err != nil {
		return execErr(err, "insert settlement statement")
	}

	update := `UPDATE settlement_periods SET status = 'FINALIZED', updated_at = $4
		WHERE venue_id = $1 AND period_start = $2 AND period_end = $3 AND status = 'COMPUTING'`

	tag, err := tx.Exec(ctx, update, s.VenueID, s.PeriodStart, s.PeriodEnd, s.ComputedAt)
	if err != nil {
		return fmt.Errorf("finalize settlement period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("settlement period %s %s is not computing", s.VenueID, s.Period().ID())
	}
	return nil
}

// Reopen moves a FINALIZED period back to OPEN and deletes its statement.
func (r *SettlementRepo) Reopen(ctx context.Context, tx pgx.Tx, venueID string, period domain.Period) (bool, error) {
	update := `UPDATE settlement_periods SET status = 'OPEN', updated_at = NOW()
		WHERE venue_id = $1 AND period_start = $2 AND period_end = $3 AND status = 'FINALIZED'`

	tag, err := tx.Exec(ctx, update, venueID, period.Start, period.End)
	if err != nil {
		return false, fmt.Errorf("reopen settlement period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	del := `DELETE FROM settlement_statements WHERE venue_id = $1 AND period_start = $2 AND period_end = $3`
	if _, err := tx.Exec(ctx, del, venueID, period.Start, period.End); err != nil {
		return false, fmt.Errorf("delete settlement statement: %w", err)
	}
	return true, nil
}

// GetStatement fetches the statement for a venue's period.
func (r *SettlementRepo) GetStatement(ctx context.Context, venueID string, period domain.Period) (*domain.SettlementStatement, error) {
	query := `SELECT ` + statementColumns + ` FROM settlement_statements
		WHERE venue_id = $1 AND period_start = $2 AND period_end = $3`

	s, err := scanStatement(r.pool.QueryRow(ctx, query, venueID, period.Start, period.End))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settlement statement: %w", err)
	}
	return s, nil
}

// ListStatements returns a venue's statements, newest period first.
func (r *SettlementRepo) ListStatements(ctx context.Context, venueID string) ([]domain.SettlementStatement, error) {
	query := `SELECT ` + statementColumns + ` FROM settlement_statements
		WHERE venue_id = $1 ORDER BY period_start DESC, period_end DESC`

	rows, err := r.pool.Query(ctx, query, venueID)
	if err != nil {
		return nil, fmt.Errorf("list settlement statements: %w", err)
	}
	defer rows.Close()

	var stmts []domain.SettlementStatement
	for rows.Next() {
		s, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settlement statement row: %w", err)
		}
		stmts = append(stmts, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settlement statement rows: %w", err)
	}
	return stmts, nil
}

// IsFinalizedAt reports whether at falls inside a FINALIZED period of the venue.
func (r *SettlementRepo) IsFinalizedAt(ctx context.Context, venueID string, at time.Time) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM settlement_periods
		WHERE venue_id = $1 AND status = 'FINALIZED' AND period_start <= $2 AND period_end > $2)`

	var finalized bool
	if err := r.pool.QueryRow(ctx, query, venueID, at).Scan(&finalized); err != nil {
		return false, fmt.Errorf("check finalized period: %w", err)
	}
	return finalized, nil
}

func scanStatement(row pgx.Row) (*domain.SettlementStatement, error) {
	s := &domain.SettlementStatement{}
	var taxRate, currency string
	err := row.Scan(
		&s.StatementID, &s.VenueID, &s.PeriodStart, &s.PeriodEnd, &taxRate, &s.TransactionCount, &currency,
		&s.GrossSales.Amount, &s.StateTax.Amount, &s.PlatformCommission.Amount, &s.GasFees.Amount,
		&s.PromoterShares.Amount, &s.PoolShares.Amount, &s.NetPayout.Amount, &s.ComputedAt,
	)
	if err != nil {
		return nil, err
	}
	s.TaxRate, err = decimal.NewFromString(taxRate)
	if err != nil {
		return nil, fmt.Errorf("parse tax rate %q: %w", taxRate, err)
	}
	for _, m := range []*string{
		&s.GrossSales.Currency, &s.StateTax.Currency, &s.PlatformCommission.Currency, &s.GasFees.Currency,
		&s.PromoterShares.Currency, &s.PoolShares.Currency, &s.NetPayout.Currency,
	} {
		*m = currency
	}
	s.PeriodStart = s.PeriodStart.UTC()
	s.PeriodEnd = s.PeriodEnd.UTC()
	s.ComputedAt = s.ComputedAt.UTC()
	return s, nil
}

var _ ports.SettlementRepository = (*SettlementRepo)(nil)
