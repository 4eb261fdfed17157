package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
)

type PgxRateRepository struct {
	BaseRepository
}

// newPgxRateRepository creates a new repository for exchange rate data.
func newPgxRateRepository(pool *pgxpool.Pool) portsrepo.RateRepository {
	return &PgxRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RateRepository = (*PgxRateRepository)(nil)

// UpsertRates writes each rate under its exact ordered pair. A UNIQUE
// constraint on (from_currency_code, to_currency_code) makes the conflict
// target; the stored rate_id survives value updates.
func (r *PgxRateRepository) UpsertRates(ctx context.Context, rates []domain.Rate) error {
	if len(rates) == 0 {
		return nil
	}

	query := `
		INSERT INTO exchange_rates (rate_id, from_currency_code, to_currency_code, rate, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (from_currency_code, to_currency_code)
		DO UPDATE SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at;
	`

	batch := &pgx.Batch{}
	for _, rate := range rates {
		batch.Queue(query, rate.RateID, rate.FromCurrencyCode, rate.ToCurrencyCode, rate.Rate, rate.UpdatedAt)
	}

	br := r.Pool.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to upsert rate %s->%s: %w", rates[i].FromCurrencyCode, rates[i].ToCurrencyCode, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close rate upsert batch: %w", err)
	}
	return batchErr
}

func (r *PgxRateRepository) FindRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.Rate, error) {
	query := `
		SELECT rate_id, from_currency_code, to_currency_code, rate, updated_at
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2;
	`
	var rate domain.Rate
	err := r.Pool.QueryRow(ctx, query, fromCurrencyCode, toCurrencyCode).Scan(
		&rate.RateID,
		&rate.FromCurrencyCode,
		&rate.ToCurrencyCode,
		&rate.Rate,
		&rate.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: rate %s->%s", apperrors.ErrNotFound, fromCurrencyCode, toCurrencyCode)
		}
		return nil, fmt.Errorf("failed to find rate %s->%s: %w", fromCurrencyCode, toCurrencyCode, err)
	}
	return &rate, nil
}

func (r *PgxRateRepository) ListRates(ctx context.Context) ([]domain.Rate, error) {
	query := `
		SELECT rate_id, from_currency_code, to_currency_code, rate, updated_at
		FROM exchange_rates
		ORDER BY from_currency_code, to_currency_code;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.Rate
	for rows.Next() {
		var rate domain.Rate
		if err := rows.Scan(&rate.RateID, &rate.FromCurrencyCode, &rate.ToCurrencyCode, &rate.Rate, &rate.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange rate rows: %w", err)
	}
	return rates, nil
}
