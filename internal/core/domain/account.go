package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a financial account within the core domain.
// CurrencyCode is write-once at creation: every balance delta applied to the
// account is denominated in this currency.
type Account struct {
	AccountID    string          `json:"accountID"`    // Primary Key (UUID)
	Name         string          `json:"name"`         // User-defined name
	CurrencyCode string          `json:"currencyCode"` // Immutable after creation
	Balance      decimal.Decimal `json:"balance"`      // Signed, in the account's own currency
	AuditFields
}
