package dto

import (
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
)

// CategoryInput is a single category definition in an UpdateSettingsRequest.
type CategoryInput struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
	Icon  string `json:"icon" binding:"required"`
}

// UpdateSettingsRequest defines the mutable settings fields. Nil fields are
// left unchanged.
type UpdateSettingsRequest struct {
	BaseCurrency *string          `json:"baseCurrency" binding:"omitempty,len=3,uppercase"`
	Categories   *[]CategoryInput `json:"categories"`
}

// SettingsResponse defines the structure for API responses containing settings.
type SettingsResponse struct {
	BaseCurrency string            `json:"baseCurrency"`
	Categories   []domain.Category `json:"categories"`
}

// ToSettingsResponse converts domain.Settings to a SettingsResponse DTO.
func ToSettingsResponse(settings *domain.Settings) SettingsResponse {
	return SettingsResponse{
		BaseCurrency: settings.BaseCurrency,
		Categories:   settings.Categories,
	}
}
