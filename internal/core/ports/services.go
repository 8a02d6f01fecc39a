package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(subject string, role string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
	Role    string
}

// AuditService records administrative and financial actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Engine components ---

// WalletLedger owns member balances.
type WalletLedger interface {
	Fund(ctx context.Context, memberID string, amount money.Money, idempotencyKey string) (*FundResult, error)
	Debit(ctx context.Context, req DebitRequest) (*DebitResult, error)
	Balance(ctx context.Context, memberID string) (money.Money, error)
	Reconcile(ctx context.Context, memberID string) (bool, error)
	Unfreeze(ctx context.Context, memberID string, actor string, reason string) (*domain.Wallet, error)
	Entries(ctx context.Context, memberID string) ([]domain.LedgerEntry, error)
}

// DebitHook runs inside the debit's database transaction after the entry is
// appended, so dependent rows commit or roll back together with it.
type DebitHook func(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error

// DebitRequest holds validated input for a wallet debit.
type DebitRequest struct {
	MemberID       string
	Amount         money.Money
	VenueID        string
	StationID      string
	TransactionID  uuid.UUID
	IdempotencyKey string
	Attach         DebitHook // optional
}

// FundResult is the outcome of Fund. Replayed is set when the idempotency
// key had already been applied and the original result is returned.
type FundResult struct {
	Wallet   domain.Wallet      `json:"wallet"`
	Entry    domain.LedgerEntry `json:"entry"`
	Replayed bool               `json:"replayed"`
}

// DebitResult is the outcome of Debit.
type DebitResult struct {
	Entry    domain.LedgerEntry `json:"entry"`
	Balance  money.Money        `json:"balance"`
	Replayed bool               `json:"replayed"`
}

// FeeScheduleResolver prices scans by trailing volume.
type FeeScheduleResolver interface {
	ResolveGasFee(ctx context.Context, venueID string, asOf time.Time) (money.Money, error)
	Tier(scans int64) (domain.FeeTier, error)
	Tiers() []domain.FeeTier
}

// TransactionClassifier turns raw point-of-sale events into transactions.
type TransactionClassifier interface {
	Classify(event domain.RawEvent) (*domain.Transaction, error)
}

// SplitCalculator prices transactions. Implementations are pure.
type SplitCalculator interface {
	ComputeDirectPaymentNet(gross money.Money, gasFee money.Money) (domain.DirectPaymentNet, error)
	ComputeGhostPassSplit(transactionID uuid.UUID, gross money.Money, gasFee money.Money, config domain.SplitConfig) (domain.SplitResult, error)
}

// PaymentService runs the point-of-sale pipeline end to end.
type PaymentService interface {
	ProcessEvent(ctx context.Context, event domain.RawEvent) (*PaymentResult, error)
}

// PaymentResult is what the point-of-sale front end displays.
type PaymentResult struct {
	Transaction domain.Transaction       `json:"transaction"`
	Entry       domain.LedgerEntry       `json:"entry"`
	GasFee      money.Money              `json:"gas_fee"`
	DirectNet   *domain.DirectPaymentNet `json:"direct_net,omitempty"`
	Split       *domain.SplitResult      `json:"split,omitempty"`
	Balance     money.Money              `json:"balance"`
	Replayed    bool                     `json:"replayed"`
}

// SettlementEngine produces per-venue, per-period statements.
type SettlementEngine interface {
	Compute(ctx context.Context, venueID string, periodStart, periodEnd time.Time, taxRate decimal.Decimal) (*domain.SettlementStatement, error)
	Reopen(ctx context.Context, req ReopenRequest) error
	GetStatement(ctx context.Context, venueID string, periodStart, periodEnd time.Time) (*domain.SettlementStatement, error)
	ListStatements(ctx context.Context, venueID string) ([]domain.SettlementStatement, error)
	SettleAll(ctx context.Context, venueIDs []string, periodStart, periodEnd time.Time, taxRate decimal.Decimal) (*BatchResult, error)
}

// ReopenRequest is the administrative correction of a finalized period.
type ReopenRequest struct {
	VenueID     string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Actor       string
	Reason      string
}

// BatchResult summarizes a multi-venue settlement run.
type BatchResult struct {
	Statements []domain.SettlementStatement `json:"statements"`
	Failed     map[string]string            `json:"failed,omitempty"` // venue ID -> error code
	Skipped    []string                     `json:"skipped,omitempty"`
}

// VendorPoolDistributor apportions the shared vendor pool.
type VendorPoolDistributor interface {
	Distribute(ctx context.Context, periodID string) ([]domain.VendorPoolAllocation, error)
	Allocations(ctx context.Context, periodID string) ([]domain.VendorPoolAllocation, error)
}
