package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string         `json:"error_code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"` // Context for the UI (amounts, venue, period)
	Err        error          `json:"-"`                 // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// With attaches a detail field and returns the same error for chaining.
func (e *AppError) With(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Code extracts the error code of an AppError anywhere in err's chain.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && Code(err) == code
}

// IsRetryable reports whether the caller may retry the same request.
func IsRetryable(err error) bool {
	switch Code(err) {
	case CodeContention, CodeSettlementInProgress, CodeRequestTimeout:
		return true
	}
	return false
}

const (
	CodeUnrecognizedEventKind = "VAL_001"
	CodeInvalidAmount         = "VAL_002"
	CodeInvalidPeriod         = "VAL_003"
	CodeConfigInvalid         = "CFG_001"

	CodeInsufficientFunds       = "LED_001"
	CodeWalletNotFound          = "LED_002"
	CodeContention              = "LED_003"
	CodeDuplicateIdempotencyKey = "LED_004"

	CodeNoMatchingTier = "FEE_001"

	CodePeriodAlreadyFinalized = "SET_001"
	CodePeriodNotFinalized     = "SET_002"
	CodeStatementNotFound      = "SET_003"
	CodeSettlementInProgress   = "SET_004"

	CodeNoActivityInPeriod = "POOL_001"
	CodePeriodNotReady     = "POOL_002"

	CodeLedgerReconciliationMismatch = "INT_001"
	CodeConservationViolation        = "INT_002"

	CodeRequestTimeout = "SYS_002"
)

// ---- Validation (VAL / CFG) ----

func ErrUnrecognizedEventKind(reason string) *AppError {
	return New(CodeUnrecognizedEventKind, "Unrecognized event kind: "+reason, http.StatusBadRequest)
}

func ErrInvalidAmount(reason string) *AppError {
	return New(CodeInvalidAmount, "Invalid amount: "+reason, http.StatusBadRequest)
}

func ErrInvalidPeriod(reason string) *AppError {
	return New(CodeInvalidPeriod, "Invalid settlement period: "+reason, http.StatusBadRequest)
}

func ErrConfigInvalid(err error) *AppError {
	return Wrap(CodeConfigInvalid, "Invalid engine configuration", http.StatusInternalServerError, err)
}

// ---- Ledger (LED) ----

func ErrInsufficientFunds(requested, available int64) *AppError {
	return New(CodeInsufficientFunds, "Insufficient balance in wallet", http.StatusPaymentRequired).
		With("requested", requested).
		With("available", available)
}

func ErrWalletNotFound(memberID string) *AppError {
	return New(CodeWalletNotFound, "Wallet not found", http.StatusNotFound).With("member_id", memberID)
}

func ErrContention(attempts int) *AppError {
	return New(CodeContention, "Wallet is busy, retry the request", http.StatusConflict).With("attempts", attempts)
}

func ErrDuplicateIdempotencyKey(key string) *AppError {
	return New(CodeDuplicateIdempotencyKey, "Idempotency key already used for a different request", http.StatusConflict).
		With("idempotency_key", key)
}

// ---- Fees (FEE) ----

func ErrNoMatchingTier(scans int64) *AppError {
	return New(CodeNoMatchingTier, "No fee tier matches scan volume", http.StatusInternalServerError).With("scans", scans)
}

// ---- Settlement (SET) ----

func ErrPeriodAlreadyFinalized(venueID string) *AppError {
	return New(CodePeriodAlreadyFinalized, "Settlement period already finalized", http.StatusConflict).With("venue_id", venueID)
}

func ErrPeriodNotFinalized(venueID string) *AppError {
	return New(CodePeriodNotFinalized, "Settlement period is not finalized", http.StatusConflict).With("venue_id", venueID)
}

func ErrStatementNotFound(venueID string) *AppError {
	return New(CodeStatementNotFound, "Settlement statement not found", http.StatusNotFound).With("venue_id", venueID)
}

func ErrSettlementInProgress(venueID string) *AppError {
	return New(CodeSettlementInProgress, "Settlement is being computed, retry later", http.StatusConflict).With("venue_id", venueID)
}

// ---- Vendor pool (POOL) ----

func ErrNoActivityInPeriod(periodID string) *AppError {
	return New(CodeNoActivityInPeriod, "No scan activity in period", http.StatusUnprocessableEntity).With("period_id", periodID)
}

func ErrPeriodNotReady(periodID string, pending []string) *AppError {
	return New(CodePeriodNotReady, "Not all venues are finalized for period", http.StatusConflict).
		With("period_id", periodID).
		With("pending_venues", pending)
}

// ---- Integrity (INT) ----

func ErrLedgerReconciliationMismatch(memberID string, stored, computed int64) *AppError {
	return New(CodeLedgerReconciliationMismatch, "Ledger does not reconcile with wallet balance", http.StatusInternalServerError).
		With("member_id", memberID).
		With("stored_balance", stored).
		With("ledger_balance", computed)
}

func ErrWalletFrozen(memberID string) *AppError {
	return New(CodeLedgerReconciliationMismatch, "Wallet is frozen pending reconciliation", http.StatusLocked).
		With("member_id", memberID)
}

func ErrConservationViolation(what string) *AppError {
	return New(CodeConservationViolation, "Monetary conservation violated: "+what, http.StatusInternalServerError)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_002", "Role not allowed for this operation", http.StatusForbidden)
}

// ErrPayloadTooLarge rejects request bodies over the configured limit.
func ErrPayloadTooLarge() *AppError {
	return New("VAL_004", "Request body too large", http.StatusRequestEntityTooLarge)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// ErrRequestTimeout reports a request whose context ended before the engine
// finished. Retrying with the same idempotency key either applies the
// mutation or replays it.
func ErrRequestTimeout(err error) *AppError {
	return Wrap(CodeRequestTimeout, "Request timed out before completion", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a VAL_002-style validation error for malformed input.
func Validation(message string) *AppError {
	return New(CodeInvalidAmount, message, http.StatusBadRequest)
}
