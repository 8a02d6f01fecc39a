package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("LED_001", "Insufficient funds", http.StatusPaymentRequired),
			expected: "[LED_001] Insufficient funds",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("LED_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestInsufficientFunds_CarriesAmounts(t *testing.T) {
	err := ErrInsufficientFunds(300, 200)
	assert.Equal(t, CodeInsufficientFunds, err.Code)
	assert.Equal(t, http.StatusPaymentRequired, err.HTTPStatus)
	assert.Equal(t, int64(300), err.Details["requested"])
	assert.Equal(t, int64(200), err.Details["available"])
}

func TestDomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"UnrecognizedEventKind", ErrUnrecognizedEventKind("x"), "VAL_001", 400},
		{"InvalidAmount", ErrInvalidAmount("x"), "VAL_002", 400},
		{"InvalidPeriod", ErrInvalidPeriod("x"), "VAL_003", 400},
		{"ConfigInvalid", ErrConfigInvalid(errors.New("gap")), "CFG_001", 500},
		{"WalletNotFound", ErrWalletNotFound("m-1"), "LED_002", 404},
		{"Contention", ErrContention(5), "LED_003", 409},
		{"DuplicateKey", ErrDuplicateIdempotencyKey("k"), "LED_004", 409},
		{"NoMatchingTier", ErrNoMatchingTier(7), "FEE_001", 500},
		{"PeriodAlreadyFinalized", ErrPeriodAlreadyFinalized("v"), "SET_001", 409},
		{"PeriodNotFinalized", ErrPeriodNotFinalized("v"), "SET_002", 409},
		{"StatementNotFound", ErrStatementNotFound("v"), "SET_003", 404},
		{"SettlementInProgress", ErrSettlementInProgress("v"), "SET_004", 409},
		{"NoActivity", ErrNoActivityInPeriod("p"), "POOL_001", 422},
		{"PeriodNotReady", ErrPeriodNotReady("p", []string{"v"}), "POOL_002", 409},
		{"ReconcileMismatch", ErrLedgerReconciliationMismatch("m", 1, 2), "INT_001", 500},
		{"WalletFrozen", ErrWalletFrozen("m"), "INT_001", 423},
		{"Conservation", ErrConservationViolation("x"), "INT_002", 500},
		{"InvalidToken", ErrInvalidToken(), "AUTH_001", 401},
		{"Forbidden", ErrForbidden(), "AUTH_002", 403},
		{"RateLimit", ErrRateLimitExceeded(), "RATE_001", 429},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))
}

func TestCodeAndRetryable(t *testing.T) {
	wrapped := fmt.Errorf("debit: %w", ErrContention(5))
	assert.Equal(t, CodeContention, Code(wrapped))
	assert.True(t, IsRetryable(wrapped))
	assert.True(t, IsRetryable(ErrSettlementInProgress("v")))

	timeout := ErrRequestTimeout(context.DeadlineExceeded)
	assert.True(t, IsRetryable(timeout))
	assert.Equal(t, http.StatusServiceUnavailable, timeout.HTTPStatus)
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)

	assert.False(t, IsRetryable(ErrInsufficientFunds(1, 0)))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.Equal(t, "", Code(errors.New("plain")))
	assert.True(t, Is(wrapped, CodeContention))
	assert.False(t, Is(nil, CodeContention))
}
