package dto

import (
	"github.com/shopspring/decimal"
)

// CategorySpend is one category's outflow total for the reporting period,
// in the base currency.
type CategorySpend struct {
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

// MonthlySummaryResponse aggregates a calendar month of ledger activity,
// normalized to the base currency. Unpriced amounts degrade to zero per the
// documented lossy conversion fallback.
type MonthlySummaryResponse struct {
	Month        string          `json:"month"` // YYYY-MM
	BaseCurrency string          `json:"baseCurrency"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalOutflow decimal.Decimal `json:"totalOutflow"`
	NetWorth     decimal.Decimal `json:"netWorth"`

	FormattedIncome   string `json:"formattedIncome"`
	FormattedOutflow  string `json:"formattedOutflow"`
	FormattedNetWorth string `json:"formattedNetWorth"`

	SpendingByCategory []CategorySpend `json:"spendingByCategory"`
}
