package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind discriminates the mutually exclusive shapes a transaction
// can take. Field combinations outside the kind's shape are rejected before
// any state mutation by the transaction service.
type TransactionKind string

const (
	// KindIncome credits the owning account.
	KindIncome TransactionKind = "INCOME"
	// KindLocalOutflow debits the owning account in its own currency.
	KindLocalOutflow TransactionKind = "LOCAL_OUTFLOW"
	// KindInternationalOutflow debits the owning account and records the
	// realized conversion into the base currency.
	KindInternationalOutflow TransactionKind = "INTERNATIONAL_OUTFLOW"
	// KindTransfer moves funds from the owning account to another account.
	KindTransfer TransactionKind = "TRANSFER"
)

// RecurrenceFrequency is the period of a recurring transaction template.
type RecurrenceFrequency string

const (
	Daily   RecurrenceFrequency = "DAILY"
	Weekly  RecurrenceFrequency = "WEEKLY"
	Monthly RecurrenceFrequency = "MONTHLY"
	Yearly  RecurrenceFrequency = "YEARLY"
)

// Transaction is a single entry in the ledger log. A recurring transaction is
// simultaneously a template (its fields describe the next occurrence) and a
// record once logged.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (UUID)
	OccurredAt    time.Time       `json:"occurredAt"`    // Date and time of the transaction
	Kind          TransactionKind `json:"kind"`
	AccountID     string          `json:"accountID"` // Owning account
	Amount        decimal.Decimal `json:"amount"`    // Positive, in CurrencyCode
	CurrencyCode  string          `json:"currencyCode"`

	// Optional details
	Category string `json:"category,omitempty"` // Local outflows only
	Merchant string `json:"merchant,omitempty"`
	Note     string `json:"note,omitempty"`

	// International settlement. The recorded conversion is authoritative for
	// historical reporting and for delta reversal; it is never re-resolved
	// against current rates.
	BaseCurrencyAmount *decimal.Decimal `json:"baseCurrencyAmount,omitempty"`
	ExchangeRate       *decimal.Decimal `json:"exchangeRate,omitempty"`

	// Transfer destination.
	DestinationAccountID string `json:"destinationAccountID,omitempty"`

	// Recurrence metadata. NextRecurrenceDate is non-nil iff IsRecurring is
	// true and the series has not terminated.
	IsRecurring         bool                `json:"isRecurring,omitempty"`
	RecurrenceFrequency RecurrenceFrequency `json:"recurrenceFrequency,omitempty"`
	RecurrenceEndDate   *time.Time          `json:"recurrenceEndDate,omitempty"`
	NextRecurrenceDate  *time.Time          `json:"nextRecurrenceDate,omitempty"`

	AuditFields
}

// IsOutflow reports whether the transaction debits its owning account.
func (t Transaction) IsOutflow() bool {
	return t.Kind == KindLocalOutflow || t.Kind == KindInternationalOutflow || t.Kind == KindTransfer
}

// IsInternational reports whether the transaction carries a recorded
// cross-currency settlement.
func (t Transaction) IsInternational() bool {
	return t.BaseCurrencyAmount != nil
}

// DestinationAmount returns the amount credited to the destination account of
// a transfer: the recorded base-currency settlement for a cross-currency
// transfer, the face amount otherwise.
func (t Transaction) DestinationAmount() decimal.Decimal {
	if t.BaseCurrencyAmount != nil {
		return *t.BaseCurrencyAmount
	}
	return t.Amount
}
