package memory

import (
	"context"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository as an append-only slice.
type LedgerRepo struct {
	s *Store
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(s *Store) *LedgerRepo {
	return &LedgerRepo{s: s}
}

// Append adds an entry; the idempotency key is unique.
func (r *LedgerRepo) Append(_ context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	mt, err := r.s.txFor(tx)
	if err != nil {
		return err
	}
	if _, exists := r.s.entryKeys[entry.IdempotencyKey]; exists {
		return ports.ErrUniqueViolation
	}
	r.s.entries = append(r.s.entries, *entry)
	r.s.entryKeys[entry.IdempotencyKey] = len(r.s.entries) - 1
	mt.onRollback(func() {
		r.s.entries = r.s.entries[:len(r.s.entries)-1]
		delete(r.s.entryKeys, entry.IdempotencyKey)
	})
	return nil
}

// GetByIdempotencyKey returns the entry recorded under key, or nil.
func (r *LedgerRepo) GetByIdempotencyKey(_ context.Context, key string) (*domain.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := r.s.entryKeys[key]
	if !ok {
		return nil, nil
	}
	e := r.s.entries[i]
	return &e, nil
}

// ListByWallet returns a wallet's entries in append order.
func (r *LedgerRepo) ListByWallet(_ context.Context, memberID string) ([]domain.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.LedgerEntry
	for _, e := range r.s.entries {
		if e.WalletID == memberID {
			out = append(out, e)
		}
	}
	return out, nil
}

// SumByWallet folds credits minus debits for a wallet.
func (r *LedgerRepo) SumByWallet(_ context.Context, memberID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var sum int64
	for i := range r.s.entries {
		if r.s.entries[i].WalletID == memberID {
			sum += r.s.entries[i].Signed()
		}
	}
	return sum, nil
}

var _ ports.LedgerRepository = (*LedgerRepo)(nil)
