package repositories

import (
	"context"

	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionRepository defines the persistence operations for the transaction
// log. Every mutation carries the balance-change map implied by it, keyed by
// account ID with signed deltas in each account's own currency; the repository
// must land the log mutation and all balance updates atomically, so an
// external observer never sees a partially-applied batch.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	// ListTransactions returns the log newest-first (date then time, descending).
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error
	DeleteTransaction(ctx context.Context, transactionID string, balanceChanges map[string]decimal.Decimal) error
	// ListRecurringTransactions returns templates with an armed schedule.
	ListRecurringTransactions(ctx context.Context) ([]domain.Transaction, error)
	// HasTransactionsForAccount reports whether any transaction references the
	// account as source or destination.
	HasTransactionsForAccount(ctx context.Context, accountID string) (bool, error)
}
