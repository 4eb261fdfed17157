package services

import (
	"context"

	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	"github.com/pocketfolio/personal_finance_app/internal/dto"
)

// TransactionReaderSvc defines read operations over the transaction log.
type TransactionReaderSvc interface {
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns the log newest-first; this ordering is an
	// observable contract.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines the balance-safe mutations of the log. Each
// mutation computes the implied balance deltas and applies them together with
// the log change as one atomic batch.
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// UpdateTransaction replaces a stored transaction, netting the inverse of
	// the original against the forward deltas of the replacement in a single
	// batch. Unknown IDs are a benign no-op.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction, reverting its original deltas
	// exactly. Unknown IDs are a benign no-op.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
