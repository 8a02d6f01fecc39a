package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"venue-settlement-engine/internal/adapter/http/middleware"
	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/internal/core/ports/mocks"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/money"
	"venue-settlement-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func usd(cents int64) money.Money { return money.New(cents, "USD") }

var (
	octStart = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	octEnd   = time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
)

// newContext builds a test context with a JSON body and optional path params.
func newContext(method, target string, body interface{}, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	var raw []byte
	switch b := body.(type) {
	case nil:
	case string:
		raw = []byte(b)
	default:
		raw, _ = json.Marshal(b)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	return c, w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Payment Handler Tests ---

func TestProcessPayment_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockSvc, "USD")

	occurred := time.Date(2026, 10, 4, 22, 15, 0, 0, time.UTC)
	txID := domain.TransactionIDFromKey("payment:sale-1")
	mockSvc.EXPECT().ProcessEvent(gomock.Any(), domain.RawEvent{
		VenueID:        "venue-1",
		StationID:      "bar-1",
		MemberID:       "member-1",
		Amount:         usd(10000),
		ScanEvent:      true,
		OccurredAt:     occurred,
		IdempotencyKey: "sale-1",
	}).Return(&ports.PaymentResult{
		Transaction: domain.Transaction{ID: txID, Kind: domain.TransactionKindDirectPayment, GrossAmount: usd(10000)},
		GasFee:      usd(20),
		DirectNet:   &domain.DirectPaymentNet{TransactionFee: usd(150), VenueNet: usd(9830), PlatformNet: usd(170)},
		Balance:     usd(0),
	}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/payments", map[string]interface{}{
		"venue_id":        "venue-1",
		"station_id":      "bar-1",
		"member_id":       "member-1",
		"amount":          10000,
		"scan_event":      true,
		"occurred_at":     occurred.Format(time.RFC3339),
		"idempotency_key": "sale-1",
	})

	h.ProcessPayment(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get(response.HeaderReplayed))
	data := decodeData(t, w)
	net := data["direct_net"].(map[string]interface{})
	assert.Equal(t, float64(9830), net["venue_net"].(map[string]interface{})["amount"])
	assert.Equal(t, txID.String(), c.GetString("resource_id"))
}

func TestProcessPayment_Replayed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockSvc, "USD")

	mockSvc.EXPECT().ProcessEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e domain.RawEvent) (*ports.PaymentResult, error) {
			assert.Equal(t, "silver", e.PassTier)
			assert.Equal(t, "GHOST_PASS_REDEMPTION", e.Kind)
			return &ports.PaymentResult{Replayed: true}, nil
		})

	c, w := newContext(http.MethodPost, "/api/v1/payments", map[string]interface{}{
		"kind":            "GHOST_PASS_REDEMPTION",
		"venue_id":        "venue-1",
		"station_id":      "door-1",
		"member_id":       "member-1",
		"pass_tier":       "silver",
		"idempotency_key": "door-42",
	})

	h.ProcessPayment(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get(response.HeaderReplayed))
}

func TestProcessPayment_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPaymentHandler(mocks.NewMockPaymentService(ctrl), "USD")

	c, w := newContext(http.MethodPost, "/api/v1/payments", map[string]interface{}{
		"venue_id":        "venue 1",
		"station_id":      "bar-1",
		"member_id":       "member-1",
		"idempotency_key": "sale-1",
	})

	h.ProcessPayment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessPayment_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockSvc, "USD")

	mockSvc.EXPECT().ProcessEvent(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientFunds(10000, 2500))

	c, w := newContext(http.MethodPost, "/api/v1/payments", map[string]interface{}{
		"venue_id":        "venue-1",
		"station_id":      "bar-1",
		"member_id":       "member-1",
		"amount":          10000,
		"idempotency_key": "sale-2",
	})

	h.ProcessPayment(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, apperror.CodeInsufficientFunds, resp.ErrorCode)
	assert.Equal(t, float64(2500), resp.Details["available"])
	assert.False(t, resp.Retryable)
}

func TestProcessPayment_ContentionIsRetryable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockSvc, "USD")

	mockSvc.EXPECT().ProcessEvent(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrContention(5))

	c, w := newContext(http.MethodPost, "/api/v1/payments", map[string]interface{}{
		"venue_id":        "venue-1",
		"station_id":      "bar-1",
		"member_id":       "member-1",
		"amount":          100,
		"idempotency_key": "sale-3",
	})

	h.ProcessPayment(c)

	resp := decodeError(t, w)
	assert.Equal(t, apperror.CodeContention, resp.ErrorCode)
	assert.True(t, resp.Retryable)
}

// --- Wallet Handler Tests ---

func TestFund_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockWalletLedger(ctrl)
	h := NewWalletHandler(mockLedger, "USD")

	mockLedger.EXPECT().Fund(gomock.Any(), "member-1", usd(5000), "topup-1").Return(&ports.FundResult{
		Wallet: domain.Wallet{MemberID: "member-1", Balance: usd(5000), Version: 1},
	}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/wallets/member-1/fund",
		map[string]interface{}{"amount": 5000, "idempotency_key": "topup-1"},
		gin.Param{Key: "member_id", Value: "member-1"})

	h.Fund(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	wallet := decodeData(t, w)["wallet"].(map[string]interface{})
	assert.Equal(t, float64(5000), wallet["balance"].(map[string]interface{})["amount"])
}

func TestFund_InvalidMemberID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWalletHandler(mocks.NewMockWalletLedger(ctrl), "USD")

	c, w := newContext(http.MethodPost, "/api/v1/wallets/x/fund",
		map[string]interface{}{"amount": 5000, "idempotency_key": "topup-1"},
		gin.Param{Key: "member_id", Value: "member<1>"})

	h.Fund(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockWalletLedger(ctrl)
	h := NewWalletHandler(mockLedger, "USD")

	mockLedger.EXPECT().Balance(gomock.Any(), "member-1").Return(usd(3800), nil)

	c, w := newContext(http.MethodGet, "/api/v1/wallets/member-1/balance", nil,
		gin.Param{Key: "member_id", Value: "member-1"})

	h.GetBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "member-1", data["member_id"])
	assert.Equal(t, float64(3800), data["balance"].(map[string]interface{})["amount"])
}

func TestGetBalance_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockWalletLedger(ctrl)
	h := NewWalletHandler(mockLedger, "USD")

	mockLedger.EXPECT().Balance(gomock.Any(), "ghost").Return(money.Money{}, apperror.ErrWalletNotFound("ghost"))

	c, w := newContext(http.MethodGet, "/api/v1/wallets/ghost/balance", nil,
		gin.Param{Key: "member_id", Value: "ghost"})

	h.GetBalance(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeWalletNotFound, decodeError(t, w).ErrorCode)
}

func TestListEntries_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockWalletLedger(ctrl)
	h := NewWalletHandler(mockLedger, "USD")

	mockLedger.EXPECT().Entries(gomock.Any(), "member-1").Return([]domain.LedgerEntry{
		{ID: uuid.New(), WalletID: "member-1", Kind: domain.EntryKindCredit, Amount: usd(5000)},
		{ID: uuid.New(), WalletID: "member-1", Kind: domain.EntryKindDebit, Amount: usd(1200)},
	}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/wallets/member-1/entries", nil,
		gin.Param{Key: "member_id", Value: "member-1"})

	h.ListEntries(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []domain.LedgerEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, usd(3800), domain.LedgerBalance("USD", resp.Data))
}

func TestReconcile_Mismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockWalletLedger(ctrl)
	h := NewWalletHandler(mockLedger, "USD")

	mockLedger.EXPECT().Reconcile(gomock.Any(), "member-1").
		Return(false, apperror.ErrLedgerReconciliationMismatch("member-1", 5000, 3800))

	c, w := newContext(http.MethodPost, "/api/v1/wallets/member-1/reconcile", nil,
		gin.Param{Key: "member_id", Value: "member-1"})

	h.Reconcile(c)

	assert.Equal(t, apperror.CodeLedgerReconciliationMismatch, decodeError(t, w).ErrorCode)
}

func TestUnfreeze_PassesActorAndReason(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockWalletLedger(ctrl)
	h := NewWalletHandler(mockLedger, "USD")

	mockLedger.EXPECT().Unfreeze(gomock.Any(), "member-1", "ops-alice", "balance restored &amp; verified").
		Return(&domain.Wallet{MemberID: "member-1", Balance: usd(3800), Version: 4}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/wallets/member-1/unfreeze",
		map[string]interface{}{"reason": "  balance restored & verified "},
		gin.Param{Key: "member_id", Value: "member-1"})
	c.Set("subject", "ops-alice")

	h.Unfreeze(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "balance restored &amp; verified", c.GetString(middleware.CtxReason))
}

// --- Venue Handler Tests ---

func TestGetGasFee_AsOf(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFees := mocks.NewMockFeeScheduleResolver(ctrl)
	h := NewVenueHandler(mockFees)

	asOf := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	mockFees.EXPECT().ResolveGasFee(gomock.Any(), "venue-1", asOf).Return(usd(20), nil)

	c, w := newContext(http.MethodGet, "/api/v1/venues/venue-1/gas-fee?as_of=2026-10-15T12:00:00Z", nil,
		gin.Param{Key: "venue_id", Value: "venue-1"})

	h.GetGasFee(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(20), data["per_scan_fee"].(map[string]interface{})["amount"])
}

func TestGetGasFee_DefaultsToNow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFees := mocks.NewMockFeeScheduleResolver(ctrl)
	h := NewVenueHandler(mockFees)
	now := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	mockFees.EXPECT().ResolveGasFee(gomock.Any(), "venue-1", now).Return(usd(25), nil)

	c, w := newContext(http.MethodGet, "/api/v1/venues/venue-1/gas-fee", nil,
		gin.Param{Key: "venue_id", Value: "venue-1"})

	h.GetGasFee(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetGasFee_BadAsOf(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewVenueHandler(mocks.NewMockFeeScheduleResolver(ctrl))

	c, w := newContext(http.MethodGet, "/api/v1/venues/venue-1/gas-fee?as_of=yesterday", nil,
		gin.Param{Key: "venue_id", Value: "venue-1"})

	h.GetGasFee(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGasFee_NoMatchingTier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFees := mocks.NewMockFeeScheduleResolver(ctrl)
	h := NewVenueHandler(mockFees)

	mockFees.EXPECT().ResolveGasFee(gomock.Any(), "venue-1", gomock.Any()).Return(money.Money{}, apperror.ErrNoMatchingTier(-1))

	c, w := newContext(http.MethodGet, "/api/v1/venues/venue-1/gas-fee", nil,
		gin.Param{Key: "venue_id", Value: "venue-1"})

	h.GetGasFee(c)

	assert.Equal(t, apperror.CodeNoMatchingTier, decodeError(t, w).ErrorCode)
}

// --- Settlement Handler Tests ---

func testStatement() *domain.SettlementStatement {
	return &domain.SettlementStatement{
		StatementID:        domain.StatementID("venue-1", domain.Period{Start: octStart, End: octEnd}),
		VenueID:            "venue-1",
		PeriodStart:        octStart,
		PeriodEnd:          octEnd,
		TaxRate:            decimal.RequireFromString("0.07"),
		TransactionCount:   2,
		GrossSales:         usd(12000),
		StateTax:           usd(840),
		PlatformCommission: usd(799),
		GasFees:            usd(40),
		PromoterShares:     usd(600),
		PoolShares:         usd(200),
		NetPayout:          usd(10361),
	}
}

func TestComputeSettlement_DefaultTaxRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockSettlementEngine(ctrl)
	h := NewSettlementHandler(mockEngine, decimal.RequireFromString("0.07"))

	mockEngine.EXPECT().Compute(gomock.Any(), "venue-1", octStart, octEnd, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _, _ time.Time, rate decimal.Decimal) (*domain.SettlementStatement, error) {
			assert.True(t, rate.Equal(decimal.RequireFromString("0.07")))
			return testStatement(), nil
		})

	c, w := newContext(http.MethodPost, "/api/v1/settlements", map[string]interface{}{
		"venue_id":     "venue-1",
		"period_start": octStart,
		"period_end":   octEnd,
	})

	h.Compute(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(10361), data["net_payout"].(map[string]interface{})["amount"])
	assert.Equal(t, "venue-1", c.GetString("resource_id"))
}

func TestComputeSettlement_ReplayedStatement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockSettlementEngine(ctrl)
	h := NewSettlementHandler(mockEngine, decimal.RequireFromString("0.07"))

	stored := testStatement()
	stored.Replayed = true
	mockEngine.EXPECT().Compute(gomock.Any(), "venue-1", octStart, octEnd, gomock.Any()).Return(stored, nil)

	c, w := newContext(http.MethodPost, "/api/v1/settlements", map[string]interface{}{
		"venue_id":     "venue-1",
		"period_start": octStart,
		"period_end":   octEnd,
	})

	h.Compute(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get(response.HeaderReplayed))
	assert.Equal(t, float64(10361), decodeData(t, w)["net_payout"].(map[string]interface{})["amount"])
}

func TestComputeSettlement_ExplicitTaxRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockSettlementEngine(ctrl)
	h := NewSettlementHandler(mockEngine, decimal.RequireFromString("0.07"))

	mockEngine.EXPECT().Compute(gomock.Any(), "venue-1", octStart, octEnd, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _, _ time.Time, rate decimal.Decimal) (*domain.SettlementStatement, error) {
			assert.Equal(t, "0.0825", rate.String())
			return nil, apperror.ErrPeriodAlreadyFinalized("venue-1")
		})

	c, w := newContext(http.MethodPost, "/api/v1/settlements", map[string]interface{}{
		"venue_id":     "venue-1",
		"period_start": octStart,
		"period_end":   octEnd,
		"tax_rate":     "0.0825",
	})

	h.Compute(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodePeriodAlreadyFinalized, decodeError(t, w).ErrorCode)
}

func TestComputeSettlement_InvalidTaxRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewSettlementHandler(mocks.NewMockSettlementEngine(ctrl), decimal.Zero)

	c, w := newContext(http.MethodPost, "/api/v1/settlements", map[string]interface{}{
		"venue_id":     "venue-1",
		"period_start": octStart,
		"period_end":   octEnd,
		"tax_rate":     "1.5",
	})

	h.Compute(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettleAll_ReportsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockSettlementEngine(ctrl)
	h := NewSettlementHandler(mockEngine, decimal.RequireFromString("0.07"))

	mockEngine.EXPECT().SettleAll(gomock.Any(), []string{"venue-1", "venue-2"}, octStart, octEnd, gomock.Any()).
		Return(&ports.BatchResult{
			Statements: []domain.SettlementStatement{*testStatement()},
			Failed:     map[string]string{"venue-2": apperror.CodeSettlementInProgress},
		}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/settlements/batch", map[string]interface{}{
		"venue_ids":    []string{"venue-1", "venue-2"},
		"period_start": octStart,
		"period_end":   octEnd,
	})

	h.SettleAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Len(t, data["statements"], 1)
	assert.Equal(t, "SET_004", data["failed"].(map[string]interface{})["venue-2"])
}

func TestSettleAll_CancelledKeepsPartialResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockSettlementEngine(ctrl)
	h := NewSettlementHandler(mockEngine, decimal.RequireFromString("0.07"))

	mockEngine.EXPECT().SettleAll(gomock.Any(), []string{"venue-1", "venue-2", "venue-3"}, octStart, octEnd, gomock.Any()).
		Return(&ports.BatchResult{
			Statements: []domain.SettlementStatement{*testStatement()},
			Failed:     map[string]string{},
			Skipped:    []string{"venue-2", "venue-3"},
		}, context.Canceled)

	c, w := newContext(http.MethodPost, "/api/v1/settlements/batch", map[string]interface{}{
		"venue_ids":    []string{"venue-1", "venue-2", "venue-3"},
		"period_start": octStart,
		"period_end":   octEnd,
	})

	h.SettleAll(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, apperror.CodeRequestTimeout, resp.ErrorCode)
	assert.True(t, resp.Retryable)
	assert.Len(t, resp.Details["statements"], 1)
	assert.Equal(t, []interface{}{"venue-2", "venue-3"}, resp.Details["skipped"])
}

func TestGetStatement_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockSettlementEngine(ctrl)
	h := NewSettlementHandler(mockEngine, decimal.Zero)

	mockEngine.EXPECT().GetStatement(gomock.Any(), "venue-1", octStart, octEnd).Return(testStatement(), nil)

	c, w := newContext(http.MethodGet,
		"/api/v1/settlements/venue-1?period_start=2026-10-01T00:00:00Z&period_end=2026-11-01T00:00:00Z", nil,
		gin.Param{Key: "venue_id", Value: "venue-1"})

	h.GetStatement(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.07", decodeData(t, w)["tax_rate"])
}

func TestGetStatement_MissingPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewSettlementHandler(mocks.NewMockSettlementEngine(ctrl), decimal.Zero)

	c, w := newContext(http.MethodGet, "/api/v1/settlements/venue-1?period_start=2026-10-01T00:00:00Z", nil,
		gin.Param{Key: "venue_id", Value: "venue-1"})

	h.GetStatement(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeInvalidPeriod, decodeError(t, w).ErrorCode)
}

func TestListStatements_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockSettlementEngine(ctrl)
	h := NewSettlementHandler(mockEngine, decimal.Zero)

	mockEngine.EXPECT().ListStatements(gomock.Any(), "venue-1").
		Return([]domain.SettlementStatement{*testStatement()}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/settlements/venue-1/history", nil,
		gin.Param{Key: "venue_id", Value: "venue-1"})

	h.ListStatements(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData(t, w)["statements"], 1)
}

func TestReopen_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockSettlementEngine(ctrl)
	h := NewSettlementHandler(mockEngine, decimal.Zero)

	mockEngine.EXPECT().Reopen(gomock.Any(), ports.ReopenRequest{
		VenueID:     "venue-1",
		PeriodStart: octStart,
		PeriodEnd:   octEnd,
		Actor:       "ops-alice",
		Reason:      "missing bar receipts",
	}).Return(nil)

	c, w := newContext(http.MethodPost, "/api/v1/settlements/reopen", map[string]interface{}{
		"venue_id":     "venue-1",
		"period_start": octStart,
		"period_end":   octEnd,
		"reason":       "missing bar receipts",
	})
	c.Set("subject", "ops-alice")

	h.Reopen(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OPEN", decodeData(t, w)["status"])
}

func TestReopen_NotFinalized(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockSettlementEngine(ctrl)
	h := NewSettlementHandler(mockEngine, decimal.Zero)

	mockEngine.EXPECT().Reopen(gomock.Any(), gomock.Any()).Return(apperror.ErrPeriodNotFinalized("venue-1"))

	c, w := newContext(http.MethodPost, "/api/v1/settlements/reopen", map[string]interface{}{
		"venue_id":     "venue-1",
		"period_start": octStart,
		"period_end":   octEnd,
		"reason":       "typo",
	})

	h.Reopen(c)

	assert.Equal(t, apperror.CodePeriodNotFinalized, decodeError(t, w).ErrorCode)
}

// --- Pool Handler Tests ---

func TestDistribute_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPool := mocks.NewMockVendorPoolDistributor(ctrl)
	h := NewPoolHandler(mockPool, "USD")

	periodID := domain.Period{Start: octStart, End: octEnd}.ID()
	mockPool.EXPECT().Distribute(gomock.Any(), periodID).Return([]domain.VendorPoolAllocation{
		{PeriodID: periodID, VenueID: "venue-a", ScanCount: 2, PoolShareAmount: usd(534)},
		{PeriodID: periodID, VenueID: "venue-b", ScanCount: 1, PoolShareAmount: usd(266)},
	}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/pool/distributions", map[string]interface{}{"period_id": periodID})

	h.Distribute(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Len(t, data["allocations"], 2)
	assert.Equal(t, float64(800), data["total"].(map[string]interface{})["amount"])
}

func TestDistribute_NotReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPool := mocks.NewMockVendorPoolDistributor(ctrl)
	h := NewPoolHandler(mockPool, "USD")

	mockPool.EXPECT().Distribute(gomock.Any(), "p").
		Return(nil, apperror.ErrPeriodNotReady("p", []string{"venue-b"}))

	c, w := newContext(http.MethodPost, "/api/v1/pool/distributions", map[string]interface{}{"period_id": "p"})

	h.Distribute(c)

	resp := decodeError(t, w)
	assert.Equal(t, apperror.CodePeriodNotReady, resp.ErrorCode)
	assert.Equal(t, []interface{}{"venue-b"}, resp.Details["pending_venues"])
}

func TestListAllocations_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPool := mocks.NewMockVendorPoolDistributor(ctrl)
	h := NewPoolHandler(mockPool, "USD")

	mockPool.EXPECT().Allocations(gomock.Any(), "p").Return(nil, nil)

	c, w := newContext(http.MethodGet, "/api/v1/pool/distributions?period_id=p", nil)

	h.ListAllocations(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, []interface{}{}, data["allocations"])
	assert.Equal(t, float64(0), data["total"].(map[string]interface{})["amount"])
}

func TestListAllocations_MissingPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPoolHandler(mocks.NewMockVendorPoolDistributor(ctrl), "USD")

	c, w := newContext(http.MethodGet, "/api/v1/pool/distributions", nil)

	h.ListAllocations(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Health Check Tests ---

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pg := mocks.NewMockHealthChecker(ctrl)
	pg.EXPECT().Ping(gomock.Any()).Return(nil)
	pg.EXPECT().Name().Return("postgres").AnyTimes()
	rd := mocks.NewMockHealthChecker(ctrl)
	rd.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
	rd.EXPECT().Name().Return("redis").AnyTimes()

	c, w := newContext(http.MethodGet, "/health", nil)
	HealthCheck(pg, rd)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	assert.Equal(t, "healthy", deps["postgres"].(map[string]interface{})["status"])
	assert.Equal(t, "unhealthy", deps["redis"].(map[string]interface{})["status"])
	assert.Equal(t, "connection refused", deps["redis"].(map[string]interface{})["error"])
	assert.NotEmpty(t, resp["checked_at"])
}

func TestHealthCheck_NoDependencies(t *testing.T) {
	c, w := newContext(http.MethodGet, "/health", nil)
	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
