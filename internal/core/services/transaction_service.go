package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/pocketfolio/personal_finance_app/internal/core/ports/services"
	"github.com/pocketfolio/personal_finance_app/internal/dto"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrCurrencyMismatch     = errors.New("transaction currency does not match account currency")
	ErrMissingDestination   = errors.New("transfer requires a destination account")
	ErrMissingSettlement    = errors.New("cross-currency amount requires a recorded settlement")
	ErrSelfTransfer         = errors.New("transfer source and destination must differ")
	ErrInvalidKindShape     = errors.New("field not allowed for this transaction kind")
	ErrRecurrenceIncomplete = errors.New("recurring transaction requires a frequency and next date")
)

// transactionService owns the transaction log and is the only mutation path
// for account balances. Every Add/Update/Delete computes the signed balance
// deltas it implies, accumulated into a single map per mutation, and hands
// log change plus deltas to the repository as one atomic batch.
type transactionService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepository
	accountRepo portsrepo.AccountRepository
}

// NewTransactionService creates a new TransactionSvcFacade.
func NewTransactionService(txnRepo portsrepo.TransactionRepository, accountRepo portsrepo.AccountRepository) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// accumulateDeltas folds the balance changes implied by a transaction into
// changes, keyed by account ID, signed in each account's own currency.
// invert flips every sign, producing the exact inverse of the original
// application: amounts come from the transaction's own recorded fields, never
// from a fresh rate lookup, so reverting is bit-exact regardless of rate
// changes since creation.
func accumulateDeltas(changes map[string]decimal.Decimal, txn domain.Transaction, invert bool) {
	delta := txn.Amount
	if txn.IsOutflow() {
		delta = delta.Neg()
	}
	if invert {
		delta = delta.Neg()
	}
	changes[txn.AccountID] = changes[txn.AccountID].Add(delta)

	if txn.Kind == domain.KindTransfer && txn.DestinationAccountID != "" {
		destDelta := txn.DestinationAmount()
		if invert {
			destDelta = destDelta.Neg()
		}
		changes[txn.DestinationAccountID] = changes[txn.DestinationAccountID].Add(destDelta)
	}
}

// validateTransaction enforces the kind's shape before any state mutation.
func (s *transactionService) validateTransaction(ctx context.Context, txn *domain.Transaction) error {
	if txn.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
	}
	if txn.AccountID == "" {
		return fmt.Errorf("%w: owning account is required", apperrors.ErrValidation)
	}

	switch txn.Kind {
	case domain.KindIncome, domain.KindLocalOutflow, domain.KindInternationalOutflow, domain.KindTransfer:
	default:
		return fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, txn.Kind)
	}

	// Shape rules per kind: reject field combinations outside the kind.
	if txn.Kind != domain.KindTransfer && txn.DestinationAccountID != "" {
		return fmt.Errorf("%w: %v: destination on non-transfer", apperrors.ErrValidation, ErrInvalidKindShape)
	}
	if txn.Kind != domain.KindLocalOutflow && txn.Category != "" {
		return fmt.Errorf("%w: %v: category on %s", apperrors.ErrValidation, ErrInvalidKindShape, txn.Kind)
	}
	if txn.Kind == domain.KindIncome || txn.Kind == domain.KindLocalOutflow {
		if txn.BaseCurrencyAmount != nil || txn.ExchangeRate != nil {
			return fmt.Errorf("%w: %v: settlement fields on %s", apperrors.ErrValidation, ErrInvalidKindShape, txn.Kind)
		}
	}

	ids := []string{txn.AccountID}
	if txn.Kind == domain.KindTransfer {
		if txn.DestinationAccountID == "" {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrMissingDestination)
		}
		if txn.DestinationAccountID == txn.AccountID {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrSelfTransfer)
		}
		ids = append(ids, txn.DestinationAccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts for validation: %w", err)
	}
	source, ok := accounts[txn.AccountID]
	if !ok {
		return fmt.Errorf("%w: %v: %s", apperrors.ErrValidation, ErrAccountNotFound, txn.AccountID)
	}
	if txn.CurrencyCode != source.CurrencyCode {
		return fmt.Errorf("%w: %v: transaction is %s, account %s is %s",
			apperrors.ErrValidation, ErrCurrencyMismatch, txn.CurrencyCode, source.AccountID, source.CurrencyCode)
	}

	switch txn.Kind {
	case domain.KindInternationalOutflow:
		if txn.BaseCurrencyAmount == nil || txn.ExchangeRate == nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrMissingSettlement)
		}
	case domain.KindTransfer:
		dest, ok := accounts[txn.DestinationAccountID]
		if !ok {
			return fmt.Errorf("%w: %v: %s", apperrors.ErrValidation, ErrAccountNotFound, txn.DestinationAccountID)
		}
		if dest.CurrencyCode != source.CurrencyCode {
			// Cross-currency transfer behaves like an international outflow:
			// the realized conversion must be recorded at creation time.
			if txn.BaseCurrencyAmount == nil || txn.ExchangeRate == nil {
				return fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrMissingSettlement)
			}
		} else if txn.BaseCurrencyAmount != nil || txn.ExchangeRate != nil {
			return fmt.Errorf("%w: %v: settlement fields on same-currency transfer", apperrors.ErrValidation, ErrInvalidKindShape)
		}
	}

	// Recurrence invariant: next date present iff recurring and not terminated.
	if txn.IsRecurring {
		if txn.RecurrenceFrequency == "" {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrRecurrenceIncomplete)
		}
		if txn.NextRecurrenceDate == nil {
			next := txn.OccurredAt.UTC().Truncate(24 * time.Hour)
			txn.NextRecurrenceDate = &next
		}
	} else {
		if txn.RecurrenceFrequency != "" || txn.RecurrenceEndDate != nil || txn.NextRecurrenceDate != nil {
			return fmt.Errorf("%w: %v: recurrence fields on non-recurring transaction", apperrors.ErrValidation, ErrInvalidKindShape)
		}
	}

	return nil
}

// CreateTransaction appends a transaction to the log and applies its balance
// deltas in one batch.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	txn := req.ToDomain()
	if err := s.validateTransaction(ctx, &txn); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn.TransactionID = uuid.NewString()
	txn.CreatedAt = now
	txn.LastUpdatedAt = now

	changes := make(map[string]decimal.Decimal)
	accumulateDeltas(changes, txn, false)

	if err := s.txnRepo.SaveTransaction(ctx, txn, changes); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("kind", string(txn.Kind)),
		slog.String("account_id", txn.AccountID))
	return &txn, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.ListTransactions(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

// UpdateTransaction replaces a stored transaction. The inverse deltas of the
// original and the forward deltas of the replacement are accumulated into the
// same map before applying, so an account touched by both sides receives one
// net adjustment, applied atomically with the log replacement. An unknown ID
// is a benign no-op (nil, nil), tolerating idempotent retries.
func (s *transactionService) UpdateTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	original, err := s.txnRepo.FindTransactionByID(ctx, txn.TransactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Transaction not found for update, treating as no-op", slog.String("transaction_id", txn.TransactionID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find transaction for update: %w", err)
	}

	if err := s.validateTransaction(ctx, &txn); err != nil {
		return nil, err
	}

	txn.CreatedAt = original.CreatedAt
	txn.LastUpdatedAt = time.Now().UTC()

	changes := make(map[string]decimal.Decimal)
	accumulateDeltas(changes, *original, true)
	accumulateDeltas(changes, txn, false)

	if err := s.txnRepo.UpdateTransaction(ctx, txn, changes); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", txn.TransactionID))
	return &txn, nil
}

// DeleteTransaction removes a transaction, applying the exact inverse of its
// original deltas so every touched balance returns to its pre-transaction
// value. An unknown ID is a benign no-op.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	original, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Transaction not found for delete, treating as no-op", slog.String("transaction_id", transactionID))
			return nil
		}
		return fmt.Errorf("failed to find transaction for delete: %w", err)
	}

	changes := make(map[string]decimal.Decimal)
	accumulateDeltas(changes, *original, true)

	if err := s.txnRepo.DeleteTransaction(ctx, transactionID, changes); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}
