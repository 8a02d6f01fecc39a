// Package memory is an in-process storage adapter implementing every
// repository port. It backs the "memory" storage driver and service tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"venue-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Store holds all engine state behind a single mutex.
//
// Begin takes the mutex for the lifetime of the transaction, so repository
// methods that receive a tx run under it. Methods without a tx take the
// mutex themselves and must not be called while the same goroutine holds an
// open transaction.
type Store struct {
	mu sync.Mutex

	wallets     map[string]domain.Wallet
	entries     []domain.LedgerEntry
	entryKeys   map[string]int
	payments    map[uuid.UUID]domain.PaymentRecord
	paymentKeys map[string]uuid.UUID
	periods     map[string]domain.SettlementPeriod
	statements  map[string]domain.SettlementStatement
	allocations map[string][]domain.VendorPoolAllocation
	idempotency map[string]domain.IdempotencyLog
	audit       []domain.AuditLog
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		wallets:     make(map[string]domain.Wallet),
		entryKeys:   make(map[string]int),
		payments:    make(map[uuid.UUID]domain.PaymentRecord),
		paymentKeys: make(map[string]uuid.UUID),
		periods:     make(map[string]domain.SettlementPeriod),
		statements:  make(map[string]domain.SettlementStatement),
		allocations: make(map[string][]domain.VendorPoolAllocation),
		idempotency: make(map[string]domain.IdempotencyLog),
	}
}

var errTxRequired = errors.New("memory: an open transaction from this store is required")

// memTx is an undo-log transaction. Only Commit and Rollback are supported;
// the embedded pgx.Tx is nil.
type memTx struct {
	pgx.Tx
	store *Store
	undo  []func()
	done  bool
}

// Begin implements ports.DBTransactor.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &memTx{store: s}, nil
}

func (t *memTx) Commit(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.undo = nil
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) onRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

// txFor checks tx is an open transaction of this store.
func (s *Store) txFor(tx pgx.Tx) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok || mt.store != s || mt.done {
		return nil, errTxRequired
	}
	return mt, nil
}

// Ping implements ports.HealthChecker.
func (s *Store) Ping(_ context.Context) error { return nil }

// Name returns the dependency name.
func (s *Store) Name() string { return "memory" }

func periodKey(venueID string, period domain.Period) string {
	return venueID + "|" + period.ID()
}
