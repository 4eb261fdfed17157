package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
)

type PgxSettingsRepository struct {
	BaseRepository
}

// newPgxSettingsRepository creates a new repository for the single settings
// row. The table is keyed by a fixed id so there is never more than one record.
func newPgxSettingsRepository(pool *pgxpool.Pool) portsrepo.SettingsRepository {
	return &PgxSettingsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettingsRepository = (*PgxSettingsRepository)(nil)

const settingsRowID = 1

func (r *PgxSettingsRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	query := `
		SELECT base_currency, categories, created_at, last_updated_at
		FROM settings
		WHERE id = $1;
	`
	var (
		settings      domain.Settings
		categoriesRaw []byte
	)
	err := r.Pool.QueryRow(ctx, query, settingsRowID).Scan(
		&settings.BaseCurrency,
		&categoriesRaw,
		&settings.CreatedAt,
		&settings.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: settings", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find settings: %w", err)
	}

	if err := json.Unmarshal(categoriesRaw, &settings.Categories); err != nil {
		return nil, fmt.Errorf("failed to decode settings categories: %w", err)
	}
	return &settings, nil
}

func (r *PgxSettingsRepository) SaveSettings(ctx context.Context, settings domain.Settings) error {
	categoriesRaw, err := json.Marshal(settings.Categories)
	if err != nil {
		return fmt.Errorf("failed to encode settings categories: %w", err)
	}

	query := `
		INSERT INTO settings (id, base_currency, categories, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET base_currency = EXCLUDED.base_currency,
			categories = EXCLUDED.categories,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	if _, err := r.Pool.Exec(ctx, query, settingsRowID, settings.BaseCurrency, categoriesRaw, settings.CreatedAt, settings.LastUpdatedAt); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
