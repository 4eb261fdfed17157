package services

import (
	"context"

	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	"github.com/pocketfolio/personal_finance_app/internal/dto"
)

// SettingsSvcFacade manages the ledger's settings record.
type SettingsSvcFacade interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest) (*domain.Settings, error)
}
