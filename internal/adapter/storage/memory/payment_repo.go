package memory

import (
	"context"
	"sort"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	s *Store
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(s *Store) *PaymentRepo {
	return &PaymentRepo{s: s}
}

// Create stores a priced payment; transaction ID and idempotency key are unique.
func (r *PaymentRepo) Create(_ context.Context, tx pgx.Tx, record *domain.PaymentRecord) error {
	mt, err := r.s.txFor(tx)
	if err != nil {
		return err
	}
	if _, exists := r.s.payments[record.TransactionID]; exists {
		return ports.ErrUniqueViolation
	}
	if _, exists := r.s.paymentKeys[record.IdempotencyKey]; exists {
		return ports.ErrUniqueViolation
	}
	r.s.payments[record.TransactionID] = *record
	r.s.paymentKeys[record.IdempotencyKey] = record.TransactionID
	mt.onRollback(func() {
		delete(r.s.payments, record.TransactionID)
		delete(r.s.paymentKeys, record.IdempotencyKey)
	})
	return nil
}

// GetByTransactionID returns the record, or nil when absent.
func (r *PaymentRepo) GetByTransactionID(_ context.Context, id uuid.UUID) (*domain.PaymentRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// ListByVenue returns the venue's records with OccurredAt in the period,
// ordered by occurrence then transaction ID.
func (r *PaymentRepo) ListByVenue(_ context.Context, venueID string, period domain.Period) ([]domain.PaymentRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.PaymentRecord
	for _, p := range r.s.payments {
		if p.VenueID == venueID && period.Contains(p.OccurredAt) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].TransactionID.String() < out[j].TransactionID.String()
	})
	return out, nil
}

// SumScans counts the venue's scans with OccurredAt in [from, to).
func (r *PaymentRepo) SumScans(_ context.Context, venueID string, from, to time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var scans int64
	for _, p := range r.s.payments {
		if p.VenueID == venueID && !p.OccurredAt.Before(from) && p.OccurredAt.Before(to) {
			scans += p.ScanCount
		}
	}
	return scans, nil
}

// ActivityByVenue aggregates scans and pool shares per venue, sorted by venue ID.
func (r *PaymentRepo) ActivityByVenue(_ context.Context, period domain.Period) ([]domain.VenueActivity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byVenue := make(map[string]*domain.VenueActivity)
	for _, p := range r.s.payments {
		if !period.Contains(p.OccurredAt) {
			continue
		}
		a, ok := byVenue[p.VenueID]
		if !ok {
			a = &domain.VenueActivity{VenueID: p.VenueID, PoolShare: money.Zero(p.GrossAmount.Currency)}
			byVenue[p.VenueID] = a
		}
		a.ScanCount += p.ScanCount
		a.PoolShare = a.PoolShare.Add(p.PoolShare)
	}

	out := make([]domain.VenueActivity, 0, len(byVenue))
	for _, a := range byVenue {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VenueID < out[j].VenueID })
	return out, nil
}

var _ ports.PaymentRepository = (*PaymentRepo)(nil)
