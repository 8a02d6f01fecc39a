package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// SettlementRepo implements ports.SettlementRepository.
type SettlementRepo struct {
	s *Store
}

// NewSettlementRepo creates a new SettlementRepo.
func NewSettlementRepo(s *Store) *SettlementRepo {
	return &SettlementRepo{s: s}
}

// GetPeriod returns the period state, or nil when never touched.
func (r *SettlementRepo) GetPeriod(_ context.Context, venueID string, period domain.Period) (*domain.SettlementPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.periods[periodKey(venueID, period)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// BeginComputing moves a missing or OPEN period to COMPUTING.
func (r *SettlementRepo) BeginComputing(_ context.Context, venueID string, period domain.Period) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := periodKey(venueID, period)
	if p, ok := r.s.periods[key]; ok && p.Status != domain.SettlementStatusOpen {
		return false, nil
	}
	r.s.periods[key] = domain.SettlementPeriod{
		VenueID:   venueID,
		Period:    period,
		Status:    domain.SettlementStatusComputing,
		UpdatedAt: time.Now().UTC(),
	}
	return true, nil
}

// ReleaseComputing returns a COMPUTING period to OPEN.
func (r *SettlementRepo) ReleaseComputing(_ context.Context, venueID string, period domain.Period) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := periodKey(venueID, period)
	p, ok := r.s.periods[key]
	if !ok || p.Status != domain.SettlementStatusComputing {
		return nil
	}
	p.Status = domain.SettlementStatusOpen
	p.UpdatedAt = time.Now().UTC()
	r.s.periods[key] = p
	return nil
}

// Finalize stores the statement and marks the period FINALIZED.
func (r *SettlementRepo) Finalize(_ context.Context, tx pgx.Tx, stmt *domain.SettlementStatement) error {
	mt, err := r.s.txFor(tx)
	if err != nil {
		return err
	}
	key := periodKey(stmt.VenueID, stmt.Period())
	prevPeriod, hadPeriod := r.s.periods[key]
	if !hadPeriod || prevPeriod.Status != domain.SettlementStatusComputing {
		return fmt.Errorf("period %s is not computing", key)
	}
	prevStmt, hadStmt := r.s.statements[key]

	r.s.statements[key] = *stmt
	r.s.periods[key] = domain.SettlementPeriod{
		VenueID:   stmt.VenueID,
		Period:    stmt.Period(),
		Status:    domain.SettlementStatusFinalized,
		UpdatedAt: stmt.ComputedAt,
	}
	mt.onRollback(func() {
		r.s.periods[key] = prevPeriod
		if hadStmt {
			r.s.statements[key] = prevStmt
		} else {
			delete(r.s.statements, key)
		}
	})
	return nil
}

// Reopen moves a FINALIZED period back to OPEN and drops its statement.
func (r *SettlementRepo) Reopen(_ context.Context, tx pgx.Tx, venueID string, period domain.Period) (bool, error) {
	mt, err := r.s.txFor(tx)
	if err != nil {
		return false, err
	}
	key := periodKey(venueID, period)
	prevPeriod, ok := r.s.periods[key]
	if !ok || prevPeriod.Status != domain.SettlementStatusFinalized {
		return false, nil
	}
	prevStmt, hadStmt := r.s.statements[key]

	next := prevPeriod
	next.Status = domain.SettlementStatusOpen
	next.UpdatedAt = time.Now().UTC()
	r.s.periods[key] = next
	delete(r.s.statements, key)
	mt.onRollback(func() {
		r.s.periods[key] = prevPeriod
		if hadStmt {
			r.s.statements[key] = prevStmt
		}
	})
	return true, nil
}

// GetStatement returns the stored statement, or nil.
func (r *SettlementRepo) GetStatement(_ context.Context, venueID string, period domain.Period) (*domain.SettlementStatement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.statements[periodKey(venueID, period)]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

// ListStatements returns the venue's statements, newest period first.
func (r *SettlementRepo) ListStatements(_ context.Context, venueID string) ([]domain.SettlementStatement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.SettlementStatement
	for _, st := range r.s.statements {
		if st.VenueID == venueID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.After(out[j].PeriodStart) })
	return out, nil
}

// IsFinalizedAt reports whether at falls inside any FINALIZED period of the venue.
func (r *SettlementRepo) IsFinalizedAt(_ context.Context, venueID string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.periods {
		if p.VenueID == venueID && p.Status == domain.SettlementStatusFinalized && p.Period.Contains(at) {
			return true, nil
		}
	}
	return false, nil
}

var _ ports.SettlementRepository = (*SettlementRepo)(nil)
