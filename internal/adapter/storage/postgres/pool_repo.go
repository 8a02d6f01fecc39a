package postgres

import (
	"context"
	"fmt"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// PoolRepo implements ports.PoolRepository.
type PoolRepo struct {
	pool Pool
}

// NewPoolRepo creates a new PoolRepo.
func NewPoolRepo(pool Pool) *PoolRepo {
	return &PoolRepo{pool: pool}
}

// ReplaceAllocations deletes the period's allocations and inserts the new set.
func (r *PoolRepo) ReplaceAllocations(ctx context.Context, tx pgx.Tx, periodID string, allocations []domain.VendorPoolAllocation) error {
	if _, err := tx.Exec(ctx, `DELETE FROM vendor_pool_allocations WHERE period_id = $1`, periodID); err != nil {
		return fmt.Errorf("delete pool allocations: %w", err)
	}

	query := `INSERT INTO vendor_pool_allocations (period_id, venue_id, scan_count, pool_share_amount, currency)
		VALUES ($1, $2, $3, $4, $5)`
	for _, a := range allocations {
		_, err := tx.Exec(ctx, query, periodID, a.VenueID, a.ScanCount, a.PoolShareAmount.Amount, a.PoolShareAmount.Currency)
		if err != nil {
			return execErr(err, "insert pool allocation")
		}
	}
	return nil
}

// ListAllocations returns the period's allocations sorted by venue ID.
func (r *PoolRepo) ListAllocations(ctx context.Context, periodID string) ([]domain.VendorPoolAllocation, error) {
	query := `SELECT period_id, venue_id, scan_count, pool_share_amount, currency
		FROM vendor_pool_allocations WHERE period_id = $1 ORDER BY venue_id`

	rows, err := r.pool.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("list pool allocations: %w", err)
	}
	defer rows.Close()

	var allocs []domain.VendorPoolAllocation
	for rows.Next() {
		var a domain.VendorPoolAllocation
		if err := rows.Scan(&a.PeriodID, &a.VenueID, &a.ScanCount, &a.PoolShareAmount.Amount, &a.PoolShareAmount.Currency); err != nil {
			return nil, fmt.Errorf("scan pool allocation row: %w", err)
		}
		allocs = append(allocs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pool allocation rows: %w", err)
	}
	return allocs, nil
}

var _ ports.PoolRepository = (*PoolRepo)(nil)
