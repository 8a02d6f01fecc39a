package service

import (
	"fmt"
	"strings"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/money"
)

// Classifier implements ports.TransactionClassifier. It is pure and safe for
// concurrent use.
type Classifier struct {
	currency   string
	passPrices map[string]money.Money
}

// NewClassifier creates a classifier pricing GHOST Pass tiers from passPrices.
func NewClassifier(currency string, passPrices map[string]money.Money) *Classifier {
	prices := make(map[string]money.Money, len(passPrices))
	for tier, price := range passPrices {
		prices[strings.ToLower(tier)] = price
	}
	return &Classifier{currency: currency, passPrices: prices}
}

// Classify determines the transaction kind and gross amount of a raw event.
func (c *Classifier) Classify(event domain.RawEvent) (*domain.Transaction, error) {
	if event.VenueID == "" || event.StationID == "" || event.MemberID == "" {
		return nil, apperror.ErrUnrecognizedEventKind("venue_id, station_id and member_id are required")
	}
	if event.IdempotencyKey == "" {
		return nil, apperror.ErrUnrecognizedEventKind("idempotency_key is required")
	}

	kind, err := c.kindOf(event)
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:             domain.TransactionIDFromKey(event.IdempotencyKey),
		VenueID:        event.VenueID,
		StationID:      event.StationID,
		MemberID:       event.MemberID,
		Kind:           kind,
		OccurredAt:     event.OccurredAt.UTC(),
		IdempotencyKey: event.IdempotencyKey,
	}

	switch kind {
	case domain.TransactionKindGhostPassRedemption:
		tier := strings.ToLower(strings.TrimSpace(event.PassTier))
		price, ok := c.passPrices[tier]
		if !ok {
			return nil, apperror.ErrUnrecognizedEventKind(fmt.Sprintf("unknown pass tier %q", event.PassTier))
		}
		if !event.Amount.IsZero() && !event.Amount.Equal(price) {
			return nil, apperror.ErrUnrecognizedEventKind(
				fmt.Sprintf("amount %s does not match %s pass price %s", event.Amount, tier, price))
		}
		txn.PassTier = tier
		txn.GrossAmount = price
		txn.ScanCount = 1

	case domain.TransactionKindDirectPayment:
		if event.PassTier != "" {
			return nil, apperror.ErrUnrecognizedEventKind("direct payment must not carry a pass tier")
		}
		if event.Amount.Currency != c.currency {
			return nil, apperror.ErrUnrecognizedEventKind(
				fmt.Sprintf("currency %q is not accepted, want %s", event.Amount.Currency, c.currency))
		}
		if !event.Amount.IsPositive() {
			return nil, apperror.ErrUnrecognizedEventKind("direct payment amount must be positive")
		}
		txn.GrossAmount = event.Amount
		if event.ScanEvent {
			txn.ScanCount = 1
		}
	}

	return txn, nil
}

func (c *Classifier) kindOf(event domain.RawEvent) (domain.TransactionKind, error) {
	switch domain.TransactionKind(strings.ToUpper(strings.TrimSpace(event.Kind))) {
	case domain.TransactionKindDirectPayment:
		return domain.TransactionKindDirectPayment, nil
	case domain.TransactionKindGhostPassRedemption:
		return domain.TransactionKindGhostPassRedemption, nil
	case "":
	default:
		return "", apperror.ErrUnrecognizedEventKind(fmt.Sprintf("unknown kind %q", event.Kind))
	}

	hasTier := strings.TrimSpace(event.PassTier) != ""
	hasAmount := !event.Amount.IsZero()
	switch {
	case hasTier && hasAmount:
		return "", apperror.ErrUnrecognizedEventKind("event carries both an amount and a pass tier")
	case hasTier:
		return domain.TransactionKindGhostPassRedemption, nil
	case hasAmount:
		return domain.TransactionKindDirectPayment, nil
	default:
		return "", apperror.ErrUnrecognizedEventKind("event carries neither an amount nor a pass tier")
	}
}
