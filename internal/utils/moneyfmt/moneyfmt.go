// Package moneyfmt renders decimal amounts as locale-aware currency strings
// for report output. Stored amounts stay decimal everywhere; formatting is a
// presentation concern only.
package moneyfmt

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format renders an amount in the given currency, e.g. "$1,234.50" for USD.
// Unknown or empty currency codes fall back to a plain fixed-point rendering
// so a missing ISO entry never breaks a report.
func Format(amount decimal.Decimal, currencyCode string) string {
	cur := money.GetCurrency(currencyCode)
	if cur == nil {
		return fmt.Sprintf("%s %s", amount.StringFixed(2), currencyCode)
	}

	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0)
	return money.New(minor.IntPart(), currencyCode).Display()
}
