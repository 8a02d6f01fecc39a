package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `transaction_id, venue_id, station_id, member_id, kind, pass_tier, currency,
	gross_amount, scan_count, gas_fee, transaction_fee, venue_net, platform_net, promoter_share, pool_share,
	ledger_entry_id, idempotency_key, occurred_at, created_at`

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Create inserts a priced payment within the debit's database transaction.
func (r *PaymentRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.PaymentRecord) error {
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err := tx.Exec(ctx, query,
		p.TransactionID, p.VenueID, p.StationID, p.MemberID, string(p.Kind), p.PassTier, p.GrossAmount.Currency,
		p.GrossAmount.Amount, p.ScanCount, p.GasFee.Amount, p.TransactionFee.Amount,
		p.VenueNet.Amount, p.PlatformNet.Amount, p.PromoterShare.Amount, p.PoolShare.Amount,
		p.LedgerEntryID, p.IdempotencyKey, p.OccurredAt, p.CreatedAt,
	)
	if err != nil {
		return execErr(err, "insert payment")
	}
	return nil
}

// GetByTransactionID fetches a payment by its transaction ID.
func (r *PaymentRepo) GetByTransactionID(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1`

	p, err := scanPayment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// ListByVenue returns the venue's payments that occurred inside the period,
// ordered by occurrence then transaction ID.
func (r *PaymentRepo) ListByVenue(ctx context.Context, venueID string, period domain.Period) ([]domain.PaymentRecord, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE venue_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at, transaction_id`

	rows, err := r.pool.Query(ctx, query, venueID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}
	return payments, nil
}

// SumScans counts the venue's scans that occurred in [from, to).
func (r *PaymentRepo) SumScans(ctx context.Context, venueID string, from, to time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(scan_count), 0) FROM payments
		WHERE venue_id = $1 AND occurred_at >= $2 AND occurred_at < $3`

	var scans int64
	if err := r.pool.QueryRow(ctx, query, venueID, from, to).Scan(&scans); err != nil {
		return 0, fmt.Errorf("sum scans: %w", err)
	}
	return scans, nil
}

// ActivityByVenue aggregates scans and pool contributions per venue, sorted by venue ID.
func (r *PaymentRepo) ActivityByVenue(ctx context.Context, period domain.Period) ([]domain.VenueActivity, error) {
	query := `SELECT venue_id, currency, COALESCE(SUM(scan_count), 0), COALESCE(SUM(pool_share), 0)
		FROM payments
		WHERE occurred_at >= $1 AND occurred_at < $2
		GROUP BY venue_id, currency
		ORDER BY venue_id`

	rows, err := r.pool.Query(ctx, query, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("venue activity: %w", err)
	}
	defer rows.Close()

	var activity []domain.VenueActivity
	for rows.Next() {
		var a domain.VenueActivity
		if err := rows.Scan(&a.VenueID, &a.PoolShare.Currency, &a.ScanCount, &a.PoolShare.Amount); err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}
		activity = append(activity, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity rows: %w", err)
	}
	return activity, nil
}

func scanPayment(row pgx.Row) (*domain.PaymentRecord, error) {
	p := &domain.PaymentRecord{}
	var kind, currency string
	err := row.Scan(
		&p.TransactionID, &p.VenueID, &p.StationID, &p.MemberID, &kind, &p.PassTier, &currency,
		&p.GrossAmount.Amount, &p.ScanCount, &p.GasFee.Amount, &p.TransactionFee.Amount,
		&p.VenueNet.Amount, &p.PlatformNet.Amount, &p.PromoterShare.Amount, &p.PoolShare.Amount,
		&p.LedgerEntryID, &p.IdempotencyKey, &p.OccurredAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Kind = domain.TransactionKind(kind)
	p.GrossAmount.Currency = currency
	p.GasFee.Currency = currency
	p.TransactionFee.Currency = currency
	p.VenueNet.Currency = currency
	p.PlatformNet.Currency = currency
	p.PromoterShare.Currency = currency
	p.PoolShare.Currency = currency
	p.OccurredAt = p.OccurredAt.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

var _ ports.PaymentRepository = (*PaymentRepo)(nil)
