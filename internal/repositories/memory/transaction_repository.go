package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
)

type transactionRepository struct {
	store *store
}

var _ portsrepo.TransactionRepository = (*transactionRepository)(nil)

// applyBalanceChangesLocked adds each delta to its account's balance. The
// caller holds the write lock; every referenced account is checked before any
// balance moves so a bad batch leaves all balances untouched.
func (r *transactionRepository) applyBalanceChangesLocked(balanceChanges map[string]decimal.Decimal, now time.Time) error {
	for accountID := range balanceChanges {
		if _, ok := r.store.accounts[accountID]; !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
	}
	for accountID, delta := range balanceChanges {
		account := r.store.accounts[accountID]
		account.Balance = account.Balance.Add(delta)
		account.LastUpdatedAt = now
		r.store.accounts[accountID] = account
	}
	return nil
}

func (r *transactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.transactions[txn.TransactionID]; exists {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
	}
	if err := r.applyBalanceChangesLocked(balanceChanges, time.Now().UTC()); err != nil {
		return err
	}
	r.store.transactions[txn.TransactionID] = txn
	return nil
}

func (r *transactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	txn, ok := r.store.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return &txn, nil
}

func (r *transactionRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	txns := make([]domain.Transaction, 0, len(r.store.transactions))
	for _, txn := range r.store.transactions {
		txns = append(txns, txn)
	}
	// Newest-first, with stable tie-breaks so the ordering is deterministic.
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].OccurredAt.Equal(txns[j].OccurredAt) {
			return txns[i].OccurredAt.After(txns[j].OccurredAt)
		}
		if !txns[i].CreatedAt.Equal(txns[j].CreatedAt) {
			return txns[i].CreatedAt.After(txns[j].CreatedAt)
		}
		return txns[i].TransactionID < txns[j].TransactionID
	})
	return txns, nil
}

func (r *transactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.transactions[txn.TransactionID]; !ok {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, txn.TransactionID)
	}
	if err := r.applyBalanceChangesLocked(balanceChanges, time.Now().UTC()); err != nil {
		return err
	}
	r.store.transactions[txn.TransactionID] = txn
	return nil
}

func (r *transactionRepository) DeleteTransaction(ctx context.Context, transactionID string, balanceChanges map[string]decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.transactions[transactionID]; !ok {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	if err := r.applyBalanceChangesLocked(balanceChanges, time.Now().UTC()); err != nil {
		return err
	}
	delete(r.store.transactions, transactionID)
	return nil
}

func (r *transactionRepository) ListRecurringTransactions(ctx context.Context) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var templates []domain.Transaction
	for _, txn := range r.store.transactions {
		if txn.IsRecurring && txn.NextRecurrenceDate != nil {
			templates = append(templates, txn)
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		if !templates[i].NextRecurrenceDate.Equal(*templates[j].NextRecurrenceDate) {
			return templates[i].NextRecurrenceDate.Before(*templates[j].NextRecurrenceDate)
		}
		return templates[i].TransactionID < templates[j].TransactionID
	})
	return templates, nil
}

func (r *transactionRepository) HasTransactionsForAccount(ctx context.Context, accountID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, txn := range r.store.transactions {
		if txn.AccountID == accountID || txn.DestinationAccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}
