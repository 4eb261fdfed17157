package dto

import (
	"time"

	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateInput is a single rate in an UpdateRatesRequest.
type RateInput struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3,uppercase"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
}

// UpdateRatesRequest upserts a batch of exchange rates, one record per exact
// ordered currency pair.
type UpdateRatesRequest struct {
	Rates []RateInput `json:"rates" binding:"required,min=1,dive"`
}

// RateResponse defines the structure for API responses containing a stored rate.
type RateResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ToRateResponse converts a domain.Rate to a RateResponse DTO.
func ToRateResponse(rate *domain.Rate) RateResponse {
	return RateResponse{
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		UpdatedAt:        rate.UpdatedAt,
	}
}

// ToListRateResponse converts a slice of domain.Rate to response DTOs.
func ToListRateResponse(rates []domain.Rate) []RateResponse {
	responses := make([]RateResponse, len(rates))
	for i := range rates {
		responses[i] = ToRateResponse(&rates[i])
	}
	return responses
}

// ResolvedRateResponse is the result of a rate lookup. Priced is false when no
// conversion path exists; Rate is meaningless in that case.
type ResolvedRateResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	Priced           bool            `json:"priced"`
}

// ConvertResponse is the result of pricing an amount into the base currency.
// Priced is false when the amount could not be priced; Converted is then zero
// and must be treated as "unknown", not as a true zero value.
type ConvertResponse struct {
	Amount       decimal.Decimal `json:"amount"`
	FromCurrency string          `json:"fromCurrency"`
	BaseCurrency string          `json:"baseCurrency"`
	Converted    decimal.Decimal `json:"converted"`
	Priced       bool            `json:"priced"`
}
