package dto

import (
	"time"

	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the structure for adding a transaction to
// the log. Kind-specific shape rules (destination only on transfers, category
// only on local outflows, settlement fields only on international amounts)
// are enforced by the transaction service before any state mutation.
type CreateTransactionRequest struct {
	OccurredAt   time.Time              `json:"occurredAt" binding:"required"`
	Kind         domain.TransactionKind `json:"kind" binding:"required,oneof=INCOME LOCAL_OUTFLOW INTERNATIONAL_OUTFLOW TRANSFER"`
	AccountID    string                 `json:"accountID" binding:"required"`
	Amount       decimal.Decimal        `json:"amount" binding:"required"`
	CurrencyCode string                 `json:"currencyCode" binding:"required,len=3,uppercase"`

	Category string `json:"category"`
	Merchant string `json:"merchant"`
	Note     string `json:"note"`

	BaseCurrencyAmount *decimal.Decimal `json:"baseCurrencyAmount"`
	ExchangeRate       *decimal.Decimal `json:"exchangeRate"`

	DestinationAccountID string `json:"destinationAccountID"`

	IsRecurring         bool                       `json:"isRecurring"`
	RecurrenceFrequency domain.RecurrenceFrequency `json:"recurrenceFrequency" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	RecurrenceEndDate   *time.Time                 `json:"recurrenceEndDate"`
	NextRecurrenceDate  *time.Time                 `json:"nextRecurrenceDate"`
}

// ToDomain maps the request onto a domain.Transaction without an ID; the
// service assigns identity and audit fields.
func (r CreateTransactionRequest) ToDomain() domain.Transaction {
	return domain.Transaction{
		OccurredAt:           r.OccurredAt,
		Kind:                 r.Kind,
		AccountID:            r.AccountID,
		Amount:               r.Amount,
		CurrencyCode:         r.CurrencyCode,
		Category:             r.Category,
		Merchant:             r.Merchant,
		Note:                 r.Note,
		BaseCurrencyAmount:   r.BaseCurrencyAmount,
		ExchangeRate:         r.ExchangeRate,
		DestinationAccountID: r.DestinationAccountID,
		IsRecurring:          r.IsRecurring,
		RecurrenceFrequency:  r.RecurrenceFrequency,
		RecurrenceEndDate:    r.RecurrenceEndDate,
		NextRecurrenceDate:   r.NextRecurrenceDate,
	}
}

// TransactionResponse defines the structure for API responses containing
// transaction details.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	OccurredAt    time.Time              `json:"occurredAt"`
	Kind          domain.TransactionKind `json:"kind"`
	AccountID     string                 `json:"accountID"`
	Amount        decimal.Decimal        `json:"amount"`
	CurrencyCode  string                 `json:"currencyCode"`

	Category string `json:"category,omitempty"`
	Merchant string `json:"merchant,omitempty"`
	Note     string `json:"note,omitempty"`

	BaseCurrencyAmount *decimal.Decimal `json:"baseCurrencyAmount,omitempty"`
	ExchangeRate       *decimal.Decimal `json:"exchangeRate,omitempty"`

	DestinationAccountID string `json:"destinationAccountID,omitempty"`

	IsRecurring         bool                       `json:"isRecurring,omitempty"`
	RecurrenceFrequency domain.RecurrenceFrequency `json:"recurrenceFrequency,omitempty"`
	RecurrenceEndDate   *time.Time                 `json:"recurrenceEndDate,omitempty"`
	NextRecurrenceDate  *time.Time                 `json:"nextRecurrenceDate,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to a TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:        txn.TransactionID,
		OccurredAt:           txn.OccurredAt,
		Kind:                 txn.Kind,
		AccountID:            txn.AccountID,
		Amount:               txn.Amount,
		CurrencyCode:         txn.CurrencyCode,
		Category:             txn.Category,
		Merchant:             txn.Merchant,
		Note:                 txn.Note,
		BaseCurrencyAmount:   txn.BaseCurrencyAmount,
		ExchangeRate:         txn.ExchangeRate,
		DestinationAccountID: txn.DestinationAccountID,
		IsRecurring:          txn.IsRecurring,
		RecurrenceFrequency:  txn.RecurrenceFrequency,
		RecurrenceEndDate:    txn.RecurrenceEndDate,
		NextRecurrenceDate:   txn.NextRecurrenceDate,
		CreatedAt:            txn.CreatedAt,
		LastUpdatedAt:        txn.LastUpdatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to response DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
