package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"venue-settlement-engine/internal/adapter/storage/memory"
	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/internal/core/ports/mocks"
	"venue-settlement-engine/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func octoberAt(day, hour int) time.Time {
	return time.Date(2026, 10, day, hour, 0, 0, 0, time.UTC)
}

func directEvent(key string, cents int64, scanned bool, at time.Time) domain.RawEvent {
	return domain.RawEvent{
		VenueID:        "venue-1",
		StationID:      "bar-1",
		MemberID:       "member-1",
		Amount:         usd(cents),
		ScanEvent:      scanned,
		OccurredAt:     at,
		IdempotencyKey: key,
	}
}

func passEvent(key, tier string, at time.Time) domain.RawEvent {
	return domain.RawEvent{
		VenueID:        "venue-1",
		StationID:      "door-1",
		MemberID:       "member-1",
		PassTier:       tier,
		OccurredAt:     at,
		IdempotencyKey: key,
	}
}

// ==================== ProcessEvent Tests ====================

func TestPaymentService_DirectPayment_Scanned(t *testing.T) {
	e := newEngine(t, flatTiers())
	ctx := context.Background()
	e.fund(t, "member-1", 20000)

	res, err := e.payments.ProcessEvent(ctx, directEvent("sale-1", 10000, true, octoberAt(3, 20)))
	require.NoError(t, err)

	assert.False(t, res.Replayed)
	assert.Equal(t, domain.TransactionKindDirectPayment, res.Transaction.Kind)
	assert.Equal(t, usd(20), res.GasFee)
	require.NotNil(t, res.DirectNet)
	assert.Nil(t, res.Split)
	assert.Equal(t, usd(150), res.DirectNet.TransactionFee)
	assert.Equal(t, usd(9830), res.DirectNet.VenueNet)
	assert.Equal(t, usd(170), res.DirectNet.PlatformNet)
	assert.Equal(t, usd(10000), res.Balance)
	assert.Equal(t, domain.EntryKindDebit, res.Entry.Kind)

	rec, err := memory.NewPaymentRepo(e.store).GetByTransactionID(ctx, res.Transaction.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, res.Entry.ID, rec.LedgerEntryID)
	assert.Equal(t, int64(1), rec.ScanCount)
}

func TestPaymentService_DirectPayment_UnscannedPaysNoGas(t *testing.T) {
	e := newEngine(t, flatTiers())
	e.fund(t, "member-1", 20000)

	res, err := e.payments.ProcessEvent(context.Background(), directEvent("sale-1", 10000, false, octoberAt(3, 20)))
	require.NoError(t, err)

	assert.True(t, res.GasFee.IsZero())
	assert.Equal(t, usd(150), res.DirectNet.TransactionFee)
	assert.Equal(t, usd(9850), res.DirectNet.VenueNet)
	assert.Equal(t, usd(150), res.DirectNet.PlatformNet)
}

func TestPaymentService_GhostPass_Silver(t *testing.T) {
	e := newEngine(t, flatTiers())
	e.fund(t, "member-1", 5000)

	res, err := e.payments.ProcessEvent(context.Background(), passEvent("door-1", "Silver", octoberAt(4, 22)))
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionKindGhostPassRedemption, res.Transaction.Kind)
	assert.Equal(t, "silver", res.Transaction.PassTier)
	require.NotNil(t, res.Split)
	assert.Nil(t, res.DirectNet)
	assert.Equal(t, usd(571), res.Split.VenueShare)
	assert.Equal(t, usd(600), res.Split.PromoterShare)
	assert.Equal(t, usd(200), res.Split.PoolShare)
	assert.Equal(t, usd(629), res.Split.PlatformShare)
	assert.Equal(t, usd(2000), res.Split.Total())
	assert.Equal(t, usd(3000), res.Balance)
}

func TestPaymentService_GasFeeFollowsTrailingVolume(t *testing.T) {
	tiers := []domain.FeeTier{
		{MinScansPerMonth: 0, MaxScansPerMonth: ptr(int64(2)), PerScanFee: usd(25)},
		{MinScansPerMonth: 2, PerScanFee: usd(15)},
	}
	e := newEngine(t, tiers)
	e.fund(t, "member-1", 100000)
	ctx := context.Background()

	var fees []int64
	for i := 0; i < 3; i++ {
		res, err := e.payments.ProcessEvent(ctx, directEvent(fmt.Sprintf("sale-%d", i), 1000, true, octoberAt(5, 18+i)))
		require.NoError(t, err)
		fees = append(fees, res.GasFee.Amount)
	}
	assert.Equal(t, []int64{25, 25, 15}, fees)
}

func TestPaymentService_Replay(t *testing.T) {
	e := newEngine(t, flatTiers())
	ctx := context.Background()
	e.fund(t, "member-1", 20000)

	event := directEvent("sale-1", 10000, true, octoberAt(3, 20))
	first, err := e.payments.ProcessEvent(ctx, event)
	require.NoError(t, err)

	second, err := e.payments.ProcessEvent(ctx, event)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)
	assert.Equal(t, first.Entry.ID, second.Entry.ID)
	assert.Equal(t, first.DirectNet, second.DirectNet)
	assert.Equal(t, first.Balance, second.Balance)

	bal, err := e.ledger.Balance(ctx, "member-1")
	require.NoError(t, err)
	assert.Equal(t, usd(10000), bal)
}

func TestPaymentService_KeyReusedForDifferentPayment(t *testing.T) {
	e := newEngine(t, flatTiers())
	ctx := context.Background()
	e.fund(t, "member-1", 20000)

	_, err := e.payments.ProcessEvent(ctx, directEvent("sale-1", 10000, true, octoberAt(3, 20)))
	require.NoError(t, err)

	_, err = e.payments.ProcessEvent(ctx, directEvent("sale-1", 2500, true, octoberAt(3, 20)))
	assertAppError(t, err, apperror.CodeDuplicateIdempotencyKey)

	bal, _ := e.ledger.Balance(ctx, "member-1")
	assert.Equal(t, usd(10000), bal)
}

func TestPaymentService_ConcurrentSameKey(t *testing.T) {
	e := newEngine(t, flatTiers())
	ctx := context.Background()
	e.fund(t, "member-1", 20000)

	event := passEvent("door-1", "gold", octoberAt(6, 23))
	const callers = 6
	results := make([]*ports.PaymentResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.payments.ProcessEvent(ctx, event)
		}(i)
	}
	wg.Wait()

	fresh := 0
	for i := range results {
		require.NoError(t, errs[i])
		if !results[i].Replayed {
			fresh++
		}
		assert.Equal(t, results[0].Entry.ID, results[i].Entry.ID)
	}
	assert.Equal(t, 1, fresh)

	bal, _ := e.ledger.Balance(ctx, "member-1")
	assert.Equal(t, usd(15000), bal)
}

func TestPaymentService_InsufficientFunds_NoRecord(t *testing.T) {
	e := newEngine(t, flatTiers())
	ctx := context.Background()
	e.fund(t, "member-1", 500)

	event := directEvent("sale-1", 1000, true, octoberAt(3, 20))
	_, err := e.payments.ProcessEvent(ctx, event)
	assertAppError(t, err, apperror.CodeInsufficientFunds)

	rec, err := memory.NewPaymentRepo(e.store).GetByTransactionID(ctx, domain.TransactionIDFromKey("sale-1"))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPaymentService_UnknownWallet(t *testing.T) {
	e := newEngine(t, flatTiers())

	_, err := e.payments.ProcessEvent(context.Background(), directEvent("sale-1", 1000, true, octoberAt(3, 20)))
	assertAppError(t, err, apperror.CodeWalletNotFound)
}

func TestPaymentService_RejectsFinalizedPeriod(t *testing.T) {
	e := newEngine(t, flatTiers())
	ctx := context.Background()
	e.fund(t, "member-1", 20000)

	_, err := e.payments.ProcessEvent(ctx, directEvent("sale-1", 1000, true, octoberAt(3, 20)))
	require.NoError(t, err)
	_, err = e.settlement.Compute(ctx, "venue-1", october.Start, october.End, testTaxRate)
	require.NoError(t, err)

	_, err = e.payments.ProcessEvent(ctx, directEvent("sale-late", 1000, true, octoberAt(30, 23)))
	assertAppError(t, err, apperror.CodePeriodAlreadyFinalized)

	// The next period is still open.
	_, err = e.payments.ProcessEvent(ctx, directEvent("sale-nov", 1000, true, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
}

func TestPaymentService_ClassificationError(t *testing.T) {
	e := newEngine(t, flatTiers())

	_, err := e.payments.ProcessEvent(context.Background(), passEvent("door-1", "platinum", octoberAt(3, 20)))
	assertAppError(t, err, apperror.CodeUnrecognizedEventKind)
}

func TestPaymentService_DirectPaymentBelowFees(t *testing.T) {
	e := newEngine(t, flatTiers())
	e.fund(t, "member-1", 1000)

	_, err := e.payments.ProcessEvent(context.Background(), directEvent("sale-1", 10, true, octoberAt(3, 20)))
	assertAppError(t, err, apperror.CodeInvalidAmount)
}

func TestPaymentService_NoMatchingTier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	paymentRepo := mocks.NewMockPaymentRepository(ctrl)
	settlementRepo := mocks.NewMockSettlementRepository(ctrl)
	fees := mocks.NewMockFeeScheduleResolver(ctrl)
	ledger := mocks.NewMockWalletLedger(ctrl)

	svc := NewPaymentService(
		NewClassifier("USD", testPassPrices()), fees, NewSplitCalculator(testFeeRate), ledger,
		paymentRepo, settlementRepo, domain.DefaultSplitConfig(), newTestLogger(),
	)

	at := octoberAt(3, 20)
	paymentRepo.EXPECT().GetByTransactionID(ctx, domain.TransactionIDFromKey("sale-1")).Return(nil, nil)
	settlementRepo.EXPECT().IsFinalizedAt(ctx, "venue-1", at).Return(false, nil)
	fees.EXPECT().ResolveGasFee(ctx, "venue-1", at).Return(usd(0), apperror.ErrNoMatchingTier(-1))

	_, err := svc.ProcessEvent(ctx, directEvent("sale-1", 1000, true, at))
	assertAppError(t, err, apperror.CodeNoMatchingTier)
}

func TestPaymentService_DatabaseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	paymentRepo := mocks.NewMockPaymentRepository(ctrl)

	svc := NewPaymentService(
		NewClassifier("USD", testPassPrices()), mocks.NewMockFeeScheduleResolver(ctrl), NewSplitCalculator(testFeeRate),
		mocks.NewMockWalletLedger(ctrl), paymentRepo, mocks.NewMockSettlementRepository(ctrl),
		domain.DefaultSplitConfig(), newTestLogger(),
	)

	paymentRepo.EXPECT().GetByTransactionID(ctx, gomock.Any()).Return(nil, errors.New("connection reset"))

	_, err := svc.ProcessEvent(ctx, directEvent("sale-1", 1000, true, octoberAt(3, 20)))
	assertAppError(t, err, "SYS_001")
}

func ptr[T any](v T) *T { return &v }
