package repositories

import (
	"context"

	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
)

// SettingsRepository defines persistence operations for the single settings
// record (base currency, category palette).
type SettingsRepository interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) error
}
