package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/internal/core/ports"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultMaxDebitAttempts = 5

// LedgerOptions tunes the wallet ledger.
type LedgerOptions struct {
	Currency         string
	MaxDebitAttempts int
	RetryBackoff     time.Duration
	IdempotencyTTL   time.Duration
}

// WalletLedgerService implements ports.WalletLedger with optimistic
// version-checked balance updates.
type WalletLedgerService struct {
	walletRepo ports.WalletRepository
	ledgerRepo ports.LedgerRepository
	transactor ports.DBTransactor
	replay     *replayStore
	opts       LedgerOptions
	log        zerolog.Logger
}

// NewWalletLedger creates a new WalletLedgerService.
func NewWalletLedger(
	walletRepo ports.WalletRepository,
	ledgerRepo ports.LedgerRepository,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	transactor ports.DBTransactor,
	opts LedgerOptions,
	log zerolog.Logger,
) *WalletLedgerService {
	if opts.MaxDebitAttempts <= 0 {
		opts.MaxDebitAttempts = defaultMaxDebitAttempts
	}
	return &WalletLedgerService{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		transactor: transactor,
		replay:     newReplayStore(idempCache, idempRepo, opts.IdempotencyTTL, log),
		opts:       opts,
		log:        log,
	}
}

// Fund credits a member's wallet, creating it on first funding.
func (s *WalletLedgerService) Fund(ctx context.Context, memberID string, amount money.Money, idempotencyKey string) (*ports.FundResult, error) {
	if err := s.checkAmount(amount); err != nil {
		return nil, err
	}
	if memberID == "" || idempotencyKey == "" {
		return nil, apperror.Validation("member_id and idempotency_key are required")
	}

	key := domain.BuildFundKey(idempotencyKey)
	if prior, err := s.replayFund(ctx, key, memberID, amount); prior != nil || err != nil {
		return prior, err
	}

	for attempt := 1; attempt <= s.opts.MaxDebitAttempts; attempt++ {
		res, retry, err := s.tryFund(ctx, key, memberID, amount)
		if errors.Is(err, ports.ErrUniqueViolation) {
			// A concurrent call with the same key won; return its result.
			return orContention(s.replayFund(ctx, key, memberID, amount))
		}
		if err != nil {
			return nil, err
		}
		if !retry {
			s.log.Info().
				Str("member_id", memberID).
				Int64("amount", amount.Amount).
				Int64("balance", res.Wallet.Balance.Amount).
				Msg("wallet funded")
			return res, nil
		}
		if err := backoff(ctx, s.opts.RetryBackoff, attempt); err != nil {
			return nil, apperror.ErrContention(attempt)
		}
	}

	s.log.Warn().Str("member_id", memberID).Int("attempts", s.opts.MaxDebitAttempts).Msg("wallet fund gave up on contention")
	return nil, apperror.ErrContention(s.opts.MaxDebitAttempts)
}

func (s *WalletLedgerService) tryFund(ctx context.Context, key, memberID string, amount money.Money) (*ports.FundResult, bool, error) {
	wallet, err := s.walletRepo.Get(ctx, memberID)
	if err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	var newBalance money.Money
	if wallet != nil {
		// Both stores refuse balance writes on a frozen wallet; retrying cannot help.
		if wallet.Frozen {
			return nil, false, apperror.ErrWalletFrozen(memberID)
		}
		if newBalance, err = wallet.Balance.CheckedAdd(amount); err != nil {
			return nil, false, apperror.ErrInvalidAmount(fmt.Sprintf("funding %d would overflow the balance of wallet %s", amount.Amount, memberID))
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := time.Now().UTC()
	var updated domain.Wallet
	if wallet == nil {
		updated = domain.Wallet{
			MemberID:  memberID,
			Balance:   amount,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.walletRepo.Create(ctx, dbTx, &updated); err != nil {
			if errors.Is(err, ports.ErrUniqueViolation) {
				// Another funding created the wallet first; retry as an update.
				return nil, true, nil
			}
			return nil, false, apperror.ErrDatabaseError(fmt.Errorf("create wallet: %w", err))
		}
	} else {
		updated = *wallet
		updated.Balance = newBalance
		updated.Version = wallet.Version + 1
		updated.UpdatedAt = now
		ok, err := s.walletRepo.CompareAndSetBalance(ctx, dbTx, memberID, updated.Balance.Amount, wallet.Version)
		if err != nil {
			return nil, false, apperror.ErrDatabaseError(fmt.Errorf("update balance: %w", err))
		}
		if !ok {
			return nil, true, nil
		}
	}

	entry := &domain.LedgerEntry{
		ID:             uuid.New(),
		WalletID:       memberID,
		Kind:           domain.EntryKindCredit,
		Amount:         amount,
		TransactionID:  domain.TransactionIDFromKey(key),
		IdempotencyKey: key,
		CreatedAt:      now,
	}
	if err := s.ledgerRepo.Append(ctx, dbTx, entry); err != nil {
		return nil, false, wrapUnique(err, "append ledger entry")
	}

	res := &ports.FundResult{Wallet: updated, Entry: *entry}
	respJSON, err := s.replay.record(ctx, dbTx, key, entry.TransactionID, res)
	if err != nil {
		return nil, false, wrapUnique(err, "save idempotency log")
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	s.replay.remember(ctx, key, respJSON)
	return res, false, nil
}

func (s *WalletLedgerService) replayFund(ctx context.Context, key, memberID string, amount money.Money) (*ports.FundResult, error) {
	raw, err := s.replay.lookup(ctx, key)
	if err != nil || raw == nil {
		return nil, err
	}
	var prior ports.FundResult
	if err := json.Unmarshal(raw, &prior); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached fund: %w", err))
	}
	if prior.Entry.WalletID != memberID || !prior.Entry.Amount.Equal(amount) || prior.Entry.Kind != domain.EntryKindCredit {
		return nil, apperror.ErrDuplicateIdempotencyKey(key)
	}
	prior.Replayed = true
	return &prior, nil
}

// Debit charges a wallet. The balance check and decrement happen in a single
// conditional update keyed on the wallet version; losers of a race re-read
// and retry up to MaxDebitAttempts times.
func (s *WalletLedgerService) Debit(ctx context.Context, req ports.DebitRequest) (*ports.DebitResult, error) {
	if err := s.checkAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.MemberID == "" || req.IdempotencyKey == "" {
		return nil, apperror.Validation("member_id and idempotency_key are required")
	}
	if req.TransactionID == uuid.Nil {
		req.TransactionID = domain.TransactionIDFromKey(req.IdempotencyKey)
	}

	key := domain.BuildDebitKey(req.IdempotencyKey)
	if prior, err := s.replayDebit(ctx, key, req); prior != nil || err != nil {
		return prior, err
	}

	for attempt := 1; attempt <= s.opts.MaxDebitAttempts; attempt++ {
		res, retry, err := s.tryDebit(ctx, key, req)
		if errors.Is(err, ports.ErrUniqueViolation) {
			return orContention(s.replayDebit(ctx, key, req))
		}
		if err != nil {
			return nil, err
		}
		if !retry {
			s.log.Info().
				Str("member_id", req.MemberID).
				Str("venue_id", req.VenueID).
				Str("station_id", req.StationID).
				Str("tx_id", req.TransactionID.String()).
				Int64("amount", req.Amount.Amount).
				Int64("balance", res.Balance.Amount).
				Msg("wallet debited")
			return res, nil
		}
		s.log.Debug().Str("member_id", req.MemberID).Int("attempt", attempt).Msg("wallet version changed, retrying debit")
		if err := backoff(ctx, s.opts.RetryBackoff, attempt); err != nil {
			return nil, apperror.ErrContention(attempt)
		}
	}

	s.log.Warn().Str("member_id", req.MemberID).Int("attempts", s.opts.MaxDebitAttempts).Msg("wallet debit gave up on contention")
	return nil, apperror.ErrContention(s.opts.MaxDebitAttempts)
}

func (s *WalletLedgerService) tryDebit(ctx context.Context, key string, req ports.DebitRequest) (*ports.DebitResult, bool, error) {
	wallet, err := s.walletRepo.Get(ctx, req.MemberID)
	if err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, false, apperror.ErrWalletNotFound(req.MemberID)
	}
	if wallet.Frozen {
		return nil, false, apperror.ErrWalletFrozen(req.MemberID)
	}

	// Business rule: sufficient funds
	if wallet.Balance.Amount < req.Amount.Amount {
		return nil, false, apperror.ErrInsufficientFunds(req.Amount.Amount, wallet.Balance.Amount)
	}
	newBalance, err := wallet.Balance.CheckedSub(req.Amount)
	if err != nil {
		return nil, false, apperror.ErrInvalidAmount(err.Error())
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	ok, err := s.walletRepo.CompareAndSetBalance(ctx, dbTx, req.MemberID, newBalance.Amount, wallet.Version)
	if err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("update balance: %w", err))
	}
	if !ok {
		return nil, true, nil
	}

	entry := &domain.LedgerEntry{
		ID:             uuid.New(),
		WalletID:       req.MemberID,
		VenueID:        req.VenueID,
		StationID:      req.StationID,
		Kind:           domain.EntryKindDebit,
		Amount:         req.Amount,
		TransactionID:  req.TransactionID,
		IdempotencyKey: key,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.ledgerRepo.Append(ctx, dbTx, entry); err != nil {
		return nil, false, wrapUnique(err, "append ledger entry")
	}

	if req.Attach != nil {
		if err := req.Attach(ctx, dbTx, entry); err != nil {
			return nil, false, err
		}
	}

	res := &ports.DebitResult{Entry: *entry, Balance: newBalance}
	respJSON, err := s.replay.record(ctx, dbTx, key, entry.TransactionID, res)
	if err != nil {
		return nil, false, wrapUnique(err, "save idempotency log")
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	s.replay.remember(ctx, key, respJSON)
	return res, false, nil
}

func (s *WalletLedgerService) replayDebit(ctx context.Context, key string, req ports.DebitRequest) (*ports.DebitResult, error) {
	raw, err := s.replay.lookup(ctx, key)
	if err != nil || raw == nil {
		return nil, err
	}
	var prior ports.DebitResult
	if err := json.Unmarshal(raw, &prior); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached debit: %w", err))
	}
	if prior.Entry.WalletID != req.MemberID ||
		!prior.Entry.Amount.Equal(req.Amount) ||
		prior.Entry.TransactionID != req.TransactionID ||
		prior.Entry.Kind != domain.EntryKindDebit {
		return nil, apperror.ErrDuplicateIdempotencyKey(key)
	}
	prior.Replayed = true
	return &prior, nil
}

// Balance returns the stored balance of a wallet.
func (s *WalletLedgerService) Balance(ctx context.Context, memberID string) (money.Money, error) {
	wallet, err := s.getWallet(ctx, memberID)
	if err != nil {
		return money.Money{}, err
	}
	return wallet.Balance, nil
}

// Reconcile recomputes the balance from the entry log. A mismatch freezes the
// wallet and is returned as an integrity error; it is never corrected here.
func (s *WalletLedgerService) Reconcile(ctx context.Context, memberID string) (bool, error) {
	wallet, ledgerSum, err := s.consistentSum(ctx, memberID)
	if err != nil {
		return false, err
	}
	if ledgerSum == wallet.Balance.Amount {
		s.log.Info().Str("member_id", memberID).Int64("balance", ledgerSum).Msg("wallet reconciled")
		return true, nil
	}

	s.log.Error().
		Str("member_id", memberID).
		Int64("stored_balance", wallet.Balance.Amount).
		Int64("ledger_balance", ledgerSum).
		Int64("version", wallet.Version).
		Msg("LEDGER RECONCILIATION MISMATCH, freezing wallet")

	reason := fmt.Sprintf("reconciliation mismatch: stored %d, ledger %d", wallet.Balance.Amount, ledgerSum)
	if err := s.walletRepo.SetFrozen(ctx, memberID, true, &reason); err != nil {
		s.log.Error().Err(err).Str("member_id", memberID).Msg("failed to freeze wallet after mismatch")
	}
	return false, apperror.ErrLedgerReconciliationMismatch(memberID, wallet.Balance.Amount, ledgerSum)
}

// Unfreeze clears a reconciliation freeze once the ledger matches again.
func (s *WalletLedgerService) Unfreeze(ctx context.Context, memberID string, actor string, reason string) (*domain.Wallet, error) {
	wallet, ledgerSum, err := s.consistentSum(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !wallet.Frozen {
		return wallet, nil
	}
	if ledgerSum != wallet.Balance.Amount {
		return nil, apperror.ErrLedgerReconciliationMismatch(memberID, wallet.Balance.Amount, ledgerSum)
	}

	if err := s.walletRepo.SetFrozen(ctx, memberID, false, nil); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("unfreeze wallet: %w", err))
	}
	s.log.Warn().
		Str("member_id", memberID).
		Str("actor", actor).
		Str("reason", reason).
		Msg("wallet unfrozen")

	wallet.Frozen = false
	wallet.FrozenReason = nil
	wallet.Version++
	return wallet, nil
}

// Entries lists a wallet's ledger entries oldest first.
func (s *WalletLedgerService) Entries(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	if _, err := s.getWallet(ctx, memberID); err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.ListByWallet(ctx, memberID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list entries: %w", err))
	}
	return entries, nil
}

// consistentSum reads the wallet and its ledger sum at the same version.
// Balance and entry are committed together, so an unchanged version across
// both wallet reads means the sum matches that snapshot.
func (s *WalletLedgerService) consistentSum(ctx context.Context, memberID string) (*domain.Wallet, int64, error) {
	for attempt := 1; attempt <= s.opts.MaxDebitAttempts; attempt++ {
		before, err := s.getWallet(ctx, memberID)
		if err != nil {
			return nil, 0, err
		}
		sum, err := s.ledgerRepo.SumByWallet(ctx, memberID)
		if err != nil {
			return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("sum entries: %w", err))
		}
		after, err := s.getWallet(ctx, memberID)
		if err != nil {
			return nil, 0, err
		}
		if before.Version == after.Version {
			return after, sum, nil
		}
		if err := backoff(ctx, s.opts.RetryBackoff, attempt); err != nil {
			return nil, 0, apperror.ErrContention(attempt)
		}
	}
	return nil, 0, apperror.ErrContention(s.opts.MaxDebitAttempts)
}

func (s *WalletLedgerService) getWallet(ctx context.Context, memberID string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.Get(ctx, memberID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound(memberID)
	}
	return wallet, nil
}

func (s *WalletLedgerService) checkAmount(amount money.Money) error {
	if !amount.IsPositive() {
		return apperror.ErrInvalidAmount("amount must be positive")
	}
	if amount.Amount > money.MaxAmount {
		return apperror.ErrInvalidAmount(fmt.Sprintf("amount exceeds the %d minor-unit limit", money.MaxAmount))
	}
	if amount.Currency != s.opts.Currency {
		return apperror.ErrInvalidAmount(fmt.Sprintf("currency %q is not accepted, want %s", amount.Currency, s.opts.Currency))
	}
	return nil
}

// orContention covers the window where a unique violation was reported but
// the winning result is not yet visible.
func orContention[T any](res *T, err error) (*T, error) {
	if res == nil && err == nil {
		return nil, apperror.ErrContention(1)
	}
	return res, err
}

// wrapUnique passes unique violations through untouched so callers can switch
// to the replay path; anything else becomes a database error.
func wrapUnique(err error, op string) error {
	if err == nil || errors.Is(err, ports.ErrUniqueViolation) {
		return err
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.ErrDatabaseError(fmt.Errorf("%s: %w", op, err))
}

var _ ports.WalletLedger = (*WalletLedgerService)(nil)
