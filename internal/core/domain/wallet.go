package domain

import (
	"time"

	"venue-settlement-engine/pkg/money"

	"github.com/google/uuid"
)

// Wallet is a member's pre-funded balance. It is owned by the wallet ledger
// and mutated only through Fund/Debit, each of which bumps Version.
type Wallet struct {
	MemberID     string      `json:"member_id"`
	Balance      money.Money `json:"balance"`
	Version      int64       `json:"version"`
	Frozen       bool        `json:"frozen"`
	FrozenReason *string     `json:"frozen_reason,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// EntryKind is the direction of a ledger entry.
type EntryKind string

const (
	EntryKindDebit  EntryKind = "DEBIT"
	EntryKindCredit EntryKind = "CREDIT"
)

// LedgerEntry is an immutable, append-only wallet movement.
// For a wallet, sum(credits) - sum(debits) must equal the stored balance.
type LedgerEntry struct {
	ID             uuid.UUID   `json:"id"`
	WalletID       string      `json:"wallet_id"` // member ID of the owning wallet
	VenueID        string      `json:"venue_id,omitempty"`
	StationID      string      `json:"station_id,omitempty"`
	Kind           EntryKind   `json:"kind"`
	Amount         money.Money `json:"amount"`
	TransactionID  uuid.UUID   `json:"transaction_id"`
	IdempotencyKey string      `json:"idempotency_key"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Signed returns the entry's effect on the balance.
func (e *LedgerEntry) Signed() int64 {
	if e.Kind == EntryKindDebit {
		return -e.Amount.Amount
	}
	return e.Amount.Amount
}

// LedgerBalance folds entries into the balance they imply.
func LedgerBalance(currency string, entries []LedgerEntry) money.Money {
	var total int64
	for i := range entries {
		total += entries[i].Signed()
	}
	return money.New(total, currency)
}
