package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
)

// fxRateRepository implements domain.FxRateRepository
type fxRateRepository struct {
	db *DB
}

// NewFxRateRepository creates a new FX rate repository
func NewFxRateRepository(db *DB) domain.FxRateRepository {
	return &fxRateRepository{db: db}
}

// Add records one conversion factor for a date. Rates are immutable once
// recorded, so a conflicting insert keeps the existing row.
func (r *fxRateRepository) Add(ctx context.Context, rate *domain.FxRate) error {
	query := `
		INSERT INTO fx_rates (date, currency, rate)
		VALUES ($1, $2, $3)
		ON CONFLICT (date, currency) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		rate.Date,
		rate.Currency,
		rate.Rate.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert FX rate: %w", err)
	}

	return nil
}

// ListBetween retrieves all FX rates with a date in [from, to]
func (r *fxRateRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.FxRate, error) {
	query := `
		SELECT date, currency, rate
		FROM fx_rates
		WHERE date >= $1 AND date <= $2
		ORDER BY date, currency
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list FX rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.FxRate
	for rows.Next() {
		var rate domain.FxRate
		var rateStr string

		if err := rows.Scan(&rate.Date, &rate.Currency, &rateStr); err != nil {
			return nil, fmt.Errorf("failed to scan FX rate: %w", err)
		}

		// Parse rate (DECIMAL)
		if rate.Rate, err = decimal.NewFromString(rateStr); err != nil {
			return nil, fmt.Errorf("failed to parse rate: %w", err)
		}

		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate FX rates: %w", err)
	}

	return rates, nil
}
