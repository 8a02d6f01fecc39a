package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"venue-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrUniqueViolation is returned by repositories when an insert collides with
// a unique key (idempotency key, wallet primary key).
var ErrUniqueViolation = errors.New("unique constraint violation")

// WalletRepository defines persistence operations for member wallets.
// Balance changes go through CompareAndSetBalance, which only succeeds when
// the stored version still equals expectedVersion.
type WalletRepository interface {
	Get(ctx context.Context, memberID string) (*domain.Wallet, error)
	Create(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	CompareAndSetBalance(ctx context.Context, tx pgx.Tx, memberID string, newBalance int64, expectedVersion int64) (bool, error)
	SetFrozen(ctx context.Context, memberID string, frozen bool, reason *string) error
}

// LedgerRepository defines the append-only ledger entry log.
type LedgerRepository interface {
	Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error)
	ListByWallet(ctx context.Context, memberID string) ([]domain.LedgerEntry, error)
	SumByWallet(ctx context.Context, memberID string) (int64, error)
}

// PaymentRepository stores priced transactions (the split/net results).
type PaymentRepository interface {
	Create(ctx context.Context, tx pgx.Tx, record *domain.PaymentRecord) error
	GetByTransactionID(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error)
	ListByVenue(ctx context.Context, venueID string, period domain.Period) ([]domain.PaymentRecord, error)
	SumScans(ctx context.Context, venueID string, from, to time.Time) (int64, error)
	ActivityByVenue(ctx context.Context, period domain.Period) ([]domain.VenueActivity, error)
}

// SettlementRepository persists the settlement state machine and statements.
type SettlementRepository interface {
	GetPeriod(ctx context.Context, venueID string, period domain.Period) (*domain.SettlementPeriod, error)
	// BeginComputing moves a missing or OPEN period to COMPUTING. It returns
	// false when another state (COMPUTING, FINALIZED) is already recorded.
	BeginComputing(ctx context.Context, venueID string, period domain.Period) (bool, error)
	ReleaseComputing(ctx context.Context, venueID string, period domain.Period) error
	Finalize(ctx context.Context, tx pgx.Tx, stmt *domain.SettlementStatement) error
	Reopen(ctx context.Context, tx pgx.Tx, venueID string, period domain.Period) (bool, error)
	GetStatement(ctx context.Context, venueID string, period domain.Period) (*domain.SettlementStatement, error)
	ListStatements(ctx context.Context, venueID string) ([]domain.SettlementStatement, error)
	IsFinalizedAt(ctx context.Context, venueID string, at time.Time) (bool, error)
}

// PoolRepository persists vendor pool allocations per period.
type PoolRepository interface {
	ReplaceAllocations(ctx context.Context, tx pgx.Tx, periodID string, allocations []domain.VendorPoolAllocation) error
	ListAllocations(ctx context.Context, periodID string) ([]domain.VendorPoolAllocation, error)
}

// IdempotencyRepository defines persistence for idempotency logs (DB backup).
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// AuditRepository persists audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
