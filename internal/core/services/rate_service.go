package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/pocketfolio/personal_finance_app/internal/core/ports/services"
)

// rateService resolves amounts across currencies from the sparse set of
// stored pairwise rates and the ledger's base currency.
type rateService struct {
	BaseService
	rateRepo     portsrepo.RateRepository
	settingsRepo portsrepo.SettingsRepository
}

// NewRateService creates a new RateSvcFacade.
func NewRateService(rateRepo portsrepo.RateRepository, settingsRepo portsrepo.SettingsRepository) portssvc.RateSvcFacade {
	return &rateService{
		rateRepo:     rateRepo,
		settingsRepo: settingsRepo,
	}
}

var _ portssvc.RateSvcFacade = (*rateService)(nil)

// UpdateRates upserts the incoming rates: the stored record for each exact
// ordered pair is replaced, otherwise a new one is appended. No implicit
// inverse rate is synthesized; inversion happens at read time.
func (s *rateService) UpdateRates(ctx context.Context, rates []domain.Rate) error {
	now := time.Now().UTC()
	for i := range rates {
		rates[i].FromCurrencyCode = strings.ToUpper(rates[i].FromCurrencyCode)
		rates[i].ToCurrencyCode = strings.ToUpper(rates[i].ToCurrencyCode)

		if len(rates[i].FromCurrencyCode) != 3 || len(rates[i].ToCurrencyCode) != 3 {
			return fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
		}
		if rates[i].FromCurrencyCode == rates[i].ToCurrencyCode {
			return fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
		}
		if rates[i].Rate.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
		}
		if rates[i].RateID == "" {
			rates[i].RateID = uuid.NewString()
		}
		if rates[i].UpdatedAt.IsZero() {
			rates[i].UpdatedAt = now
		}
	}

	if err := s.rateRepo.UpsertRates(ctx, rates); err != nil {
		s.LogError(ctx, err, "Failed to upsert exchange rates", slog.Int("count", len(rates)))
		return fmt.Errorf("failed to upsert exchange rates: %w", err)
	}

	s.LogInfo(ctx, "Exchange rates updated", slog.Int("count", len(rates)))
	return nil
}

// ListRates returns every stored rate.
func (s *rateService) ListRates(ctx context.Context) ([]domain.Rate, error) {
	rates, err := s.rateRepo.ListRates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchange rates")
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	if rates == nil {
		rates = []domain.Rate{}
	}
	return rates, nil
}

// GetRate resolves a rate from one currency to another. Resolution order:
// identity, direct stored rate, inverse of the reverse stored rate, then
// triangulation through the base currency. ok is false when no path resolves
// (including zero-rate divisors); callers must treat that as "cannot price
// this amount", never as a zero rate.
func (s *rateService) GetRate(ctx context.Context, from, to string) (decimal.Decimal, bool, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == to {
		return decimal.NewFromInt(1), true, nil
	}

	direct, err := s.findRate(ctx, from, to)
	if err != nil {
		return decimal.Zero, false, err
	}
	if direct != nil {
		return direct.Rate, true, nil
	}

	inverse, err := s.findRate(ctx, to, from)
	if err != nil {
		return decimal.Zero, false, err
	}
	if inverse != nil {
		// A zero stored rate cannot be inverted; report no-path rather than
		// raising a division fault.
		if inverse.Rate.IsZero() {
			return decimal.Zero, false, nil
		}
		return decimal.NewFromInt(1).Div(inverse.Rate), true, nil
	}

	base, err := s.baseCurrency(ctx)
	if err != nil {
		return decimal.Zero, false, err
	}

	fromToBase, err := s.findRate(ctx, from, base)
	if err != nil {
		return decimal.Zero, false, err
	}
	toToBase, err := s.findRate(ctx, to, base)
	if err != nil {
		return decimal.Zero, false, err
	}
	if fromToBase != nil && toToBase != nil {
		if toToBase.Rate.IsZero() {
			return decimal.Zero, false, nil
		}
		return fromToBase.Rate.Div(toToBase.Rate), true, nil
	}

	return decimal.Zero, false, nil
}

// Convert prices an amount (assumed denominated in fromCurrency) into the
// base currency. ok is false when no rate path resolves.
func (s *rateService) Convert(ctx context.Context, amount decimal.Decimal, fromCurrency string) (decimal.Decimal, bool, error) {
	base, err := s.baseCurrency(ctx)
	if err != nil {
		return decimal.Zero, false, err
	}

	fromCurrency = strings.ToUpper(fromCurrency)
	if fromCurrency == base {
		return amount, true, nil
	}

	rate, ok, err := s.GetRate(ctx, fromCurrency, base)
	if err != nil || !ok {
		return decimal.Zero, false, err
	}
	return amount.Mul(rate), true, nil
}

// ConvertOrZero degrades an unpriced conversion to zero. This is the
// documented lossy fallback for aggregate reporting; the zero means
// "unknown", not a true zero value.
func (s *rateService) ConvertOrZero(ctx context.Context, amount decimal.Decimal, fromCurrency string) (decimal.Decimal, error) {
	converted, ok, err := s.Convert(ctx, amount, fromCurrency)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		s.LogDebug(ctx, "No conversion path, degrading to zero", slog.String("from", fromCurrency))
		return decimal.Zero, nil
	}
	return converted, nil
}

// findRate fetches the stored rate for an exact ordered pair, mapping
// not-found to a nil rate.
func (s *rateService) findRate(ctx context.Context, from, to string) (*domain.Rate, error) {
	rate, err := s.rateRepo.FindRate(ctx, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up rate %s/%s: %w", from, to, err)
	}
	return rate, nil
}

// baseCurrency reads the configured base currency. A fresh ledger with no
// settings record yet has no base currency; conversions then resolve only
// through identity, direct, or inverse rates.
func (s *rateService) baseCurrency(ctx context.Context) (string, error) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load settings for conversion: %w", err)
	}
	return strings.ToUpper(settings.BaseCurrency), nil
}
