package services

import (
	"context"

	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateSvcFacade resolves amounts between currencies using the sparse set of
// stored pairwise rates and the ledger's base currency.
type RateSvcFacade interface {
	// UpdateRates upserts the given rates, one record per exact ordered pair.
	UpdateRates(ctx context.Context, rates []domain.Rate) error

	ListRates(ctx context.Context) ([]domain.Rate, error)

	// GetRate resolves a rate from one currency to another: identity, direct,
	// inverse, then triangulation via the base currency. ok is false when no
	// path resolves; callers must treat that as "cannot price", never as zero.
	GetRate(ctx context.Context, from, to string) (rate decimal.Decimal, ok bool, err error)

	// Convert prices an amount into the base currency. ok is false when the
	// amount cannot be priced.
	Convert(ctx context.Context, amount decimal.Decimal, fromCurrency string) (converted decimal.Decimal, ok bool, err error)

	// ConvertOrZero is the documented lossy fallback used by aggregate
	// reporting: unpriced amounts degrade to zero.
	ConvertOrZero(ctx context.Context, amount decimal.Decimal, fromCurrency string) (decimal.Decimal, error)
}
