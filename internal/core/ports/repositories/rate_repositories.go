package repositories

import (
	"context"

	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
)

// RateRepository defines persistence operations for exchange rates. The store
// holds at most one Rate per ordered currency pair (latest value, no history).
type RateRepository interface {
	// UpsertRates replaces the stored record for each incoming rate's exact
	// ordered pair, or appends a new one. No inverse rate is synthesized.
	UpsertRates(ctx context.Context, rates []domain.Rate) error
	// FindRate returns the stored rate for the exact ordered pair, or
	// apperrors.ErrNotFound.
	FindRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.Rate, error)
	ListRates(ctx context.Context) ([]domain.Rate, error)
}
