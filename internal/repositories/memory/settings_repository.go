package memory

import (
	"context"
	"fmt"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
)

type settingsRepository struct {
	store *store
}

var _ portsrepo.SettingsRepository = (*settingsRepository)(nil)

func (r *settingsRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if r.store.settings == nil {
		return nil, fmt.Errorf("%w: settings", apperrors.ErrNotFound)
	}
	settings := *r.store.settings
	return &settings, nil
}

func (r *settingsRepository) SaveSettings(ctx context.Context, settings domain.Settings) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.settings = &settings
	return nil
}
