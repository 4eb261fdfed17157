package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate stores the latest known conversion rate for an ordered currency pair:
// 1 unit of FromCurrencyCode equals Rate units of ToCurrencyCode. The store
// holds at most one Rate per ordered pair; updates replace in place.
type Rate struct {
	RateID           string          `json:"rateID"` // Primary Key (UUID)
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}
