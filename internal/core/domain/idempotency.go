package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// namespace for name-based (v5) identifiers derived by the engine.
var idNamespace = uuid.MustParse("6f1c2a9e-4b7d-5c3e-9a80-1d2e3f405162")

// IdempotencyLog stores the serialized result of an applied mutation so that
// replays of the same key return it verbatim.
type IdempotencyLog struct {
	Key           string    `json:"key"` // Format: "<scope>:<caller key>"
	TransactionID uuid.UUID `json:"transaction_id"`
	ResponseJSON  []byte    `json:"response_json"` // Cached response to return
	CreatedAt     time.Time `json:"created_at"`
}

// Scope returns the mutation family a log belongs to: fund, debit or payment.
// Keys without a scope report an empty string.
func (l *IdempotencyLog) Scope() string {
	scope, _, found := strings.Cut(l.Key, ":")
	if !found {
		return ""
	}
	return scope
}

// BuildFundKey scopes a caller key to wallet funding.
func BuildFundKey(idempotencyKey string) string {
	return "fund:" + idempotencyKey
}

// BuildDebitKey scopes a caller key to wallet debits.
func BuildDebitKey(idempotencyKey string) string {
	return "debit:" + idempotencyKey
}

// BuildPaymentKey scopes a caller key to point-of-sale payments.
func BuildPaymentKey(idempotencyKey string) string {
	return "payment:" + idempotencyKey
}

// TransactionIDFromKey derives a stable transaction ID from an idempotency key,
// so retried events map onto the same transaction.
func TransactionIDFromKey(idempotencyKey string) uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte("txn:"+idempotencyKey))
}

// StatementID derives the settlement statement ID for (venue, period).
func StatementID(venueID string, period Period) uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte("statement:"+venueID+"|"+period.ID()))
}
