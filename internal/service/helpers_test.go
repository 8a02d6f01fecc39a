package service

import (
	"context"
	"io"
	"testing"
	"time"

	"venue-settlement-engine/internal/adapter/storage/memory"
	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/money"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func usd(cents int64) money.Money { return money.New(cents, "USD") }

var (
	testFeeRate = decimal.RequireFromString("0.015")
	testTaxRate = decimal.RequireFromString("0.07")
	october     = domain.Period{
		Start: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
	}
)

// flatTiers charges $0.20 per scan regardless of volume.
func flatTiers() []domain.FeeTier {
	return []domain.FeeTier{{MinScansPerMonth: 0, PerScanFee: usd(20)}}
}

func testPassPrices() map[string]money.Money {
	return map[string]money.Money{"bronze": usd(1000), "silver": usd(2000), "gold": usd(5000)}
}

// engine wires every service over one in-memory store.
type engine struct {
	store      *memory.Store
	ledger     *WalletLedgerService
	fees       *FeeScheduleService
	payments   *PaymentServiceImpl
	settlement *SettlementService
	pool       *PoolDistributorService
}

func newEngine(t *testing.T, tiers []domain.FeeTier) *engine {
	t.Helper()
	store := memory.NewStore()
	log := newTestLogger()

	paymentRepo := memory.NewPaymentRepo(store)
	settlementRepo := memory.NewSettlementRepo(store)

	fees, err := NewFeeScheduleService(tiers, "USD", paymentRepo, log)
	require.NoError(t, err)

	ledger := NewWalletLedger(
		memory.NewWalletRepo(store),
		memory.NewLedgerRepo(store),
		memory.NewIdempotencyRepo(store),
		memory.NewIdempotencyCache(),
		store,
		LedgerOptions{Currency: "USD", MaxDebitAttempts: 50, RetryBackoff: time.Millisecond},
		log,
	)

	return &engine{
		store:  store,
		ledger: ledger,
		fees:   fees,
		payments: NewPaymentService(
			NewClassifier("USD", testPassPrices()),
			fees,
			NewSplitCalculator(testFeeRate),
			ledger,
			paymentRepo,
			settlementRepo,
			domain.DefaultSplitConfig(),
			log,
		),
		settlement: NewSettlementService(paymentRepo, settlementRepo, store, "USD", log),
		pool:       NewPoolDistributor(paymentRepo, settlementRepo, memory.NewPoolRepo(store), store, "USD", log),
	}
}

func (e *engine) fund(t *testing.T, member string, cents int64) {
	t.Helper()
	_, err := e.ledger.Fund(context.Background(), member, usd(cents), "seed-"+member+"-"+time.Now().Format(time.RFC3339Nano))
	require.NoError(t, err)
}
