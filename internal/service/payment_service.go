package service

import (
	"context"
	"fmt"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// PaymentServiceImpl implements ports.PaymentService: classify, price, debit,
// and persist the priced record in the debit's DB transaction.
type PaymentServiceImpl struct {
	classifier     ports.TransactionClassifier
	fees           ports.FeeScheduleResolver
	splitter       ports.SplitCalculator
	ledger         ports.WalletLedger
	paymentRepo    ports.PaymentRepository
	settlementRepo ports.SettlementRepository
	split          domain.SplitConfig
	log            zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	classifier ports.TransactionClassifier,
	fees ports.FeeScheduleResolver,
	splitter ports.SplitCalculator,
	ledger ports.WalletLedger,
	paymentRepo ports.PaymentRepository,
	settlementRepo ports.SettlementRepository,
	split domain.SplitConfig,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		classifier:     classifier,
		fees:           fees,
		splitter:       splitter,
		ledger:         ledger,
		paymentRepo:    paymentRepo,
		settlementRepo: settlementRepo,
		split:          split,
		log:            log,
	}
}

// ProcessEvent runs one point-of-sale event through the pipeline. Replays of
// an idempotency key return the originally recorded result.
func (s *PaymentServiceImpl) ProcessEvent(ctx context.Context, event domain.RawEvent) (*ports.PaymentResult, error) {
	txn, err := s.classifier.Classify(event)
	if err != nil {
		return nil, err
	}
	if txn.OccurredAt.IsZero() {
		txn.OccurredAt = time.Now().UTC()
	}
	txn.OccurredAt = txn.OccurredAt.Truncate(time.Microsecond)

	// Replay: the transaction ID is derived from the idempotency key.
	existing, err := s.paymentRepo.GetByTransactionID(ctx, txn.ID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get payment: %w", err))
	}
	if existing != nil {
		return s.replay(ctx, txn, existing)
	}

	// Late entries may not land in a settled period.
	finalized, err := s.settlementRepo.IsFinalizedAt(ctx, txn.VenueID, txn.OccurredAt)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("check settlement state: %w", err))
	}
	if finalized {
		return nil, apperror.ErrPeriodAlreadyFinalized(txn.VenueID).With("occurred_at", txn.OccurredAt)
	}

	gasFee, err := s.fees.ResolveGasFee(ctx, txn.VenueID, txn.OccurredAt)
	if err != nil {
		return nil, err
	}
	// Only scanned transactions pay the per-scan fee.
	gasFee = gasFee.Mul(txn.ScanCount)

	result := &ports.PaymentResult{Transaction: *txn, GasFee: gasFee}
	var record *domain.PaymentRecord
	if txn.IsGhostPass() {
		split, err := s.splitter.ComputeGhostPassSplit(txn.ID, txn.GrossAmount, gasFee, s.split)
		if err != nil {
			return nil, err
		}
		result.Split = &split
		record = domain.NewGhostPassRecord(txn, split)
	} else {
		net, err := s.splitter.ComputeDirectPaymentNet(txn.GrossAmount, gasFee)
		if err != nil {
			return nil, err
		}
		result.DirectNet = &net
		record = domain.NewDirectPaymentRecord(txn, gasFee, net)
	}
	record.IdempotencyKey = domain.BuildPaymentKey(event.IdempotencyKey)

	debit, err := s.ledger.Debit(ctx, ports.DebitRequest{
		MemberID:       txn.MemberID,
		Amount:         txn.GrossAmount,
		VenueID:        txn.VenueID,
		StationID:      txn.StationID,
		TransactionID:  txn.ID,
		IdempotencyKey: event.IdempotencyKey,
		Attach: func(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
			record.LedgerEntryID = entry.ID
			record.CreatedAt = entry.CreatedAt
			return wrapUnique(s.paymentRepo.Create(ctx, tx, record), "create payment record")
		},
	})
	if err != nil {
		return nil, err
	}
	if debit.Replayed {
		// A concurrent request with the same key committed first.
		stored, err := s.paymentRepo.GetByTransactionID(ctx, txn.ID)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("get payment: %w", err))
		}
		if stored == nil {
			return nil, apperror.ErrDuplicateIdempotencyKey(event.IdempotencyKey)
		}
		return s.replay(ctx, txn, stored)
	}

	result.Entry = debit.Entry
	result.Balance = debit.Balance

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("kind", string(txn.Kind)).
		Str("venue_id", txn.VenueID).
		Str("station_id", txn.StationID).
		Int64("gross", txn.GrossAmount.Amount).
		Int64("gas_fee", gasFee.Amount).
		Msg("payment processed successfully")

	return result, nil
}

func (s *PaymentServiceImpl) replay(ctx context.Context, txn *domain.Transaction, rec *domain.PaymentRecord) (*ports.PaymentResult, error) {
	if rec.MemberID != txn.MemberID ||
		rec.VenueID != txn.VenueID ||
		rec.Kind != txn.Kind ||
		!rec.GrossAmount.Equal(txn.GrossAmount) {
		return nil, apperror.ErrDuplicateIdempotencyKey(txn.IdempotencyKey)
	}

	// The ledger replays its own stored result for the same key.
	debit, err := s.ledger.Debit(ctx, ports.DebitRequest{
		MemberID:       rec.MemberID,
		Amount:         rec.GrossAmount,
		VenueID:        rec.VenueID,
		StationID:      rec.StationID,
		TransactionID:  rec.TransactionID,
		IdempotencyKey: txn.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	stored := *txn
	stored.StationID = rec.StationID
	stored.ScanCount = rec.ScanCount
	stored.OccurredAt = rec.OccurredAt

	result := &ports.PaymentResult{
		Transaction: stored,
		Entry:       debit.Entry,
		GasFee:      rec.GasFee,
		Balance:     debit.Balance,
		Replayed:    true,
	}
	if rec.Kind == domain.TransactionKindGhostPassRedemption {
		result.Split = rec.Split()
	} else {
		result.DirectNet = &domain.DirectPaymentNet{
			TransactionFee: rec.TransactionFee,
			VenueNet:       rec.VenueNet,
			PlatformNet:    rec.PlatformNet,
		}
	}

	s.log.Info().Str("tx_id", rec.TransactionID.String()).Msg("payment replayed")
	return result, nil
}

var _ ports.PaymentService = (*PaymentServiceImpl)(nil)
