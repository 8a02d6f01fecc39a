package domain

import (
	"time"

	"venue-settlement-engine/pkg/money"

	"github.com/google/uuid"
)

// TransactionKind classifies a point-of-sale payment.
type TransactionKind string

const (
	TransactionKindDirectPayment       TransactionKind = "DIRECT_PAYMENT"
	TransactionKindGhostPassRedemption TransactionKind = "GHOST_PASS_REDEMPTION"
)

// RawEvent is the payload a point-of-sale station submits.
// Exactly one of Amount (direct charge) or PassTier (GHOST Pass) is expected
// unless Kind is given explicitly.
type RawEvent struct {
	Kind           string      `json:"kind,omitempty"`
	VenueID        string      `json:"venue_id"`
	StationID      string      `json:"station_id"`
	MemberID       string      `json:"member_id"`
	Amount         money.Money `json:"amount"`
	PassTier       string      `json:"pass_tier,omitempty"`
	ScanEvent      bool        `json:"scan_event"`
	OccurredAt     time.Time   `json:"occurred_at"`
	IdempotencyKey string      `json:"idempotency_key"`
}

// Transaction is a classified payment ready for pricing.
type Transaction struct {
	ID             uuid.UUID       `json:"id"`
	VenueID        string          `json:"venue_id"`
	StationID      string          `json:"station_id"`
	MemberID       string          `json:"member_id"`
	Kind           TransactionKind `json:"kind"`
	PassTier       string          `json:"pass_tier,omitempty"`
	GrossAmount    money.Money     `json:"gross_amount"`
	ScanCount      int64           `json:"scan_count"`
	OccurredAt     time.Time       `json:"occurred_at"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// IsGhostPass reports whether the transaction is a GHOST Pass redemption.
func (t *Transaction) IsGhostPass() bool {
	return t.Kind == TransactionKindGhostPassRedemption
}
