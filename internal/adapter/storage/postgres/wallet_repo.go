package postgres

import (
	"context"
	"errors"
	"fmt"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Get fetches a wallet by member ID (non-locking read).
func (r *WalletRepo) Get(ctx context.Context, memberID string) (*domain.Wallet, error) {
	query := `SELECT member_id, balance, currency, version, frozen, frozen_reason, created_at, updated_at
		FROM wallets WHERE member_id = $1`

	w := &domain.Wallet{}
	err := r.pool.QueryRow(ctx, query, memberID).Scan(
		&w.MemberID, &w.Balance.Amount, &w.Balance.Currency, &w.Version,
		&w.Frozen, &w.FrozenReason, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return w, nil
}

// Create inserts a new wallet within a database transaction.
func (r *WalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `INSERT INTO wallets (member_id, balance, currency, version, frozen, frozen_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		w.MemberID, w.Balance.Amount, w.Balance.Currency, w.Version,
		w.Frozen, w.FrozenReason, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return execErr(err, "insert wallet")
	}
	return nil
}

// CompareAndSetBalance writes newBalance and bumps the version only if the
// stored version still equals expectedVersion.
func (r *WalletRepo) CompareAndSetBalance(ctx context.Context, tx pgx.Tx, memberID string, newBalance int64, expectedVersion int64) (bool, error) {
	query := `UPDATE wallets SET balance = $1, version = version + 1, updated_at = NOW()
		WHERE member_id = $2 AND version = $3 AND NOT frozen`

	tag, err := tx.Exec(ctx, query, newBalance, memberID, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("update wallet balance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetFrozen flags or clears a reconciliation freeze. The version is bumped
// so a debit that read the wallet before the freeze fails its CAS.
func (r *WalletRepo) SetFrozen(ctx context.Context, memberID string, frozen bool, reason *string) error {
	query := `UPDATE wallets SET frozen = $1, frozen_reason = $2, version = version + 1, updated_at = NOW()
		WHERE member_id = $3`

	tag, err := r.pool.Exec(ctx, query, frozen, reason, memberID)
	if err != nil {
		return fmt.Errorf("set wallet frozen: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", memberID)
	}
	return nil
}

var _ ports.WalletRepository = (*WalletRepo)(nil)
