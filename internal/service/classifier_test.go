package service

import (
	"testing"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEvent() domain.RawEvent {
	return domain.RawEvent{
		VenueID:        "venue-1",
		StationID:      "bar-2",
		MemberID:       "member-9",
		OccurredAt:     time.Date(2026, 10, 18, 22, 15, 0, 0, time.FixedZone("EDT", -4*3600)),
		IdempotencyKey: "evt-001",
	}
}

func TestClassifier_GhostPass(t *testing.T) {
	c := NewClassifier("USD", testPassPrices())
	ev := baseEvent()
	ev.PassTier = "Silver"

	txn, err := c.Classify(ev)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionKindGhostPassRedemption, txn.Kind)
	assert.Equal(t, usd(2000), txn.GrossAmount)
	assert.Equal(t, "silver", txn.PassTier)
	assert.Equal(t, int64(1), txn.ScanCount)
	assert.Equal(t, domain.TransactionIDFromKey("evt-001"), txn.ID)
	assert.Equal(t, time.UTC, txn.OccurredAt.Location())
}

func TestClassifier_DirectPayment(t *testing.T) {
	c := NewClassifier("USD", testPassPrices())

	ev := baseEvent()
	ev.Amount = usd(1250)
	txn, err := c.Classify(ev)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionKindDirectPayment, txn.Kind)
	assert.Equal(t, usd(1250), txn.GrossAmount)
	assert.Equal(t, int64(0), txn.ScanCount)

	ev.ScanEvent = true
	txn, err = c.Classify(ev)
	require.NoError(t, err)
	assert.Equal(t, int64(1), txn.ScanCount)
}

func TestClassifier_ExplicitKindWins(t *testing.T) {
	c := NewClassifier("USD", testPassPrices())

	ev := baseEvent()
	ev.Kind = "ghost_pass_redemption"
	ev.PassTier = "gold"
	ev.Amount = usd(5000) // matching price is accepted
	txn, err := c.Classify(ev)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionKindGhostPassRedemption, txn.Kind)
	assert.Equal(t, usd(5000), txn.GrossAmount)
}

func TestClassifier_Rejects(t *testing.T) {
	c := NewClassifier("USD", testPassPrices())

	tests := []struct {
		name   string
		mutate func(ev *domain.RawEvent)
	}{
		{"empty payload", func(ev *domain.RawEvent) {}},
		{"unknown kind", func(ev *domain.RawEvent) { ev.Kind = "REFUND"; ev.Amount = usd(100) }},
		{"unknown tier", func(ev *domain.RawEvent) { ev.PassTier = "platinum" }},
		{"ambiguous", func(ev *domain.RawEvent) { ev.PassTier = "silver"; ev.Amount = usd(100) }},
		{"pass price mismatch", func(ev *domain.RawEvent) {
			ev.Kind = string(domain.TransactionKindGhostPassRedemption)
			ev.PassTier = "silver"
			ev.Amount = usd(100)
		}},
		{"direct with tier", func(ev *domain.RawEvent) {
			ev.Kind = string(domain.TransactionKindDirectPayment)
			ev.PassTier = "silver"
			ev.Amount = usd(100)
		}},
		{"negative amount", func(ev *domain.RawEvent) { ev.Amount = usd(-100) }},
		{"wrong currency", func(ev *domain.RawEvent) { ev.Amount = money.New(100, "EUR") }},
		{"missing member", func(ev *domain.RawEvent) { ev.Amount = usd(100); ev.MemberID = "" }},
		{"missing key", func(ev *domain.RawEvent) { ev.Amount = usd(100); ev.IdempotencyKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := baseEvent()
			tt.mutate(&ev)
			txn, err := c.Classify(ev)
			assert.Nil(t, txn)
			assertAppError(t, err, apperror.CodeUnrecognizedEventKind)
		})
	}
}
