package memory

import (
	"context"
	"fmt"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	s *Store
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(s *Store) *WalletRepo {
	return &WalletRepo{s: s}
}

// Get returns a copy of the wallet, or nil when absent.
func (r *WalletRepo) Get(_ context.Context, memberID string) (*domain.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.wallets[memberID]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

// Create inserts a wallet.
func (r *WalletRepo) Create(_ context.Context, tx pgx.Tx, wallet *domain.Wallet) error {
	mt, err := r.s.txFor(tx)
	if err != nil {
		return err
	}
	if _, exists := r.s.wallets[wallet.MemberID]; exists {
		return ports.ErrUniqueViolation
	}
	r.s.wallets[wallet.MemberID] = *wallet
	mt.onRollback(func() { delete(r.s.wallets, wallet.MemberID) })
	return nil
}

// CompareAndSetBalance updates the balance only if the version still matches.
func (r *WalletRepo) CompareAndSetBalance(_ context.Context, tx pgx.Tx, memberID string, newBalance int64, expectedVersion int64) (bool, error) {
	mt, err := r.s.txFor(tx)
	if err != nil {
		return false, err
	}
	prev, ok := r.s.wallets[memberID]
	if !ok || prev.Version != expectedVersion || prev.Frozen {
		return false, nil
	}

	next := prev
	next.Balance.Amount = newBalance
	next.Version++
	next.UpdatedAt = time.Now().UTC()
	r.s.wallets[memberID] = next
	mt.onRollback(func() { r.s.wallets[memberID] = prev })
	return true, nil
}

// SetFrozen flags or clears a reconciliation freeze. The version is bumped
// so a debit that read the wallet before the freeze fails its CAS.
func (r *WalletRepo) SetFrozen(_ context.Context, memberID string, frozen bool, reason *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.wallets[memberID]
	if !ok {
		return fmt.Errorf("wallet not found: %s", memberID)
	}
	w.Frozen = frozen
	w.FrozenReason = nil
	if reason != nil {
		rs := *reason
		w.FrozenReason = &rs
	}
	w.Version++
	w.UpdatedAt = time.Now().UTC()
	r.s.wallets[memberID] = w
	return nil
}

var _ ports.WalletRepository = (*WalletRepo)(nil)
