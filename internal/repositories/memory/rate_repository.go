package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
)

type rateRepository struct {
	store *store
}

var _ portsrepo.RateRepository = (*rateRepository)(nil)

func (r *rateRepository) UpsertRates(ctx context.Context, rates []domain.Rate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rate := range rates {
		key := rateKey(rate.FromCurrencyCode, rate.ToCurrencyCode)
		if existing, ok := r.store.rates[key]; ok {
			// Keep the original identity; only the value and timestamp move.
			rate.RateID = existing.RateID
		}
		r.store.rates[key] = rate
	}
	return nil
}

func (r *rateRepository) FindRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.Rate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rate, ok := r.store.rates[rateKey(fromCurrencyCode, toCurrencyCode)]
	if !ok {
		return nil, fmt.Errorf("%w: rate %s->%s", apperrors.ErrNotFound, fromCurrencyCode, toCurrencyCode)
	}
	return &rate, nil
}

func (r *rateRepository) ListRates(ctx context.Context) ([]domain.Rate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rates := make([]domain.Rate, 0, len(r.store.rates))
	for _, rate := range r.store.rates {
		rates = append(rates, rate)
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].FromCurrencyCode != rates[j].FromCurrencyCode {
			return rates[i].FromCurrencyCode < rates[j].FromCurrencyCode
		}
		return rates[i].ToCurrencyCode < rates[j].ToCurrencyCode
	})
	return rates, nil
}
