package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/pocketfolio/personal_finance_app/internal/core/ports/services"
	"github.com/pocketfolio/personal_finance_app/internal/dto"
)

type settingsService struct {
	BaseService
	settingsRepo portsrepo.SettingsRepository
}

// NewSettingsService creates a new SettingsSvcFacade.
func NewSettingsService(settingsRepo portsrepo.SettingsRepository) portssvc.SettingsSvcFacade {
	return &settingsService{settingsRepo: settingsRepo}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// GetSettings returns the ledger settings, falling back to defaults when no
// record has been saved yet.
func (s *settingsService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		defaults := domain.DefaultSettings()
		return &defaults, nil
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to get settings")
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings applies the non-nil fields of the request and persists the
// result. Changing the base currency only changes how existing rates are
// interpreted; stored amounts and rates are never rewritten.
func (s *settingsService) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest) (*domain.Settings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if req.BaseCurrency != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.BaseCurrency))
		if len(code) != 3 {
			return nil, fmt.Errorf("%w: base currency must be a 3-letter code, got %q", apperrors.ErrValidation, *req.BaseCurrency)
		}
		settings.BaseCurrency = code
	}
	if req.Categories != nil {
		categories := make([]domain.Category, 0, len(*req.Categories))
		seen := make(map[string]struct{}, len(*req.Categories))
		for _, c := range *req.Categories {
			name := strings.TrimSpace(c.Name)
			if name == "" {
				return nil, fmt.Errorf("%w: category name cannot be empty", apperrors.ErrValidation)
			}
			if _, dup := seen[name]; dup {
				return nil, fmt.Errorf("%w: duplicate category %q", apperrors.ErrValidation, name)
			}
			seen[name] = struct{}{}
			categories = append(categories, domain.Category{Name: name, Color: c.Color, Icon: c.Icon})
		}
		settings.Categories = categories
	}
	settings.LastUpdatedAt = time.Now().UTC()

	if err := s.settingsRepo.SaveSettings(ctx, *settings); err != nil {
		s.LogError(ctx, err, "Failed to save settings")
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.LogInfo(ctx, "Settings updated", slog.String("base_currency", settings.BaseCurrency))
	return settings, nil
}
