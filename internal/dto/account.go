package dto

import (
	"time"

	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the structure for creating a new account.
// Currency and opening balance are write-once: they cannot be changed later.
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	CurrencyCode   string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// UpdateAccountRequest defines the mutable fields of an account.
type UpdateAccountRequest struct {
	Name *string `json:"name"`
}

// AccountResponse defines the structure for API responses containing account details.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	Name          string          `json:"name"`
	CurrencyCode  string          `json:"currencyCode"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to an AccountResponse DTO.
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     account.AccountID,
		Name:          account.Name,
		CurrencyCode:  account.CurrencyCode,
		Balance:       account.Balance,
		CreatedAt:     account.CreatedAt,
		LastUpdatedAt: account.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
