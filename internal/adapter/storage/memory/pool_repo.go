package memory

import (
	"context"
	"sort"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// PoolRepo implements ports.PoolRepository.
type PoolRepo struct {
	s *Store
}

// NewPoolRepo creates a new PoolRepo.
func NewPoolRepo(s *Store) *PoolRepo {
	return &PoolRepo{s: s}
}

// ReplaceAllocations swaps the period's allocations for the given set.
func (r *PoolRepo) ReplaceAllocations(_ context.Context, tx pgx.Tx, periodID string, allocations []domain.VendorPoolAllocation) error {
	mt, err := r.s.txFor(tx)
	if err != nil {
		return err
	}
	prev, had := r.s.allocations[periodID]
	r.s.allocations[periodID] = append([]domain.VendorPoolAllocation(nil), allocations...)
	mt.onRollback(func() {
		if had {
			r.s.allocations[periodID] = prev
		} else {
			delete(r.s.allocations, periodID)
		}
	})
	return nil
}

// ListAllocations returns the period's allocations sorted by venue ID.
func (r *PoolRepo) ListAllocations(_ context.Context, periodID string) ([]domain.VendorPoolAllocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := append([]domain.VendorPoolAllocation(nil), r.s.allocations[periodID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].VenueID < out[j].VenueID })
	return out, nil
}

var _ ports.PoolRepository = (*PoolRepo)(nil)
