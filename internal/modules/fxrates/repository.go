package fxrates

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/database"
	"github.com/nravi/wealthtrack/internal/domain"
)

// Repository persists user-entered FX rates.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates an FX rate repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "fxrates").Logger(),
	}
}

// List returns the user's rates, newest first.
func (r *Repository) List(ctx context.Context, userID int64) ([]domain.FxRate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, from_currency, to_currency, rate, as_of_date
		FROM fx_rates
		WHERE user_id = ?
		ORDER BY as_of_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fx rates: %w", err)
	}
	defer rows.Close()

	rates := []domain.FxRate{}
	for rows.Next() {
		var (
			rate     domain.FxRate
			asOfDate string
		)
		if err := rows.Scan(&rate.ID, &rate.UserID, &rate.FromCurrency, &rate.ToCurrency, &rate.Rate, &asOfDate); err != nil {
			return nil, fmt.Errorf("failed to scan fx rate: %w", err)
		}
		if rate.AsOfDate, err = database.ParseTime(asOfDate); err != nil {
			return nil, fmt.Errorf("failed to parse fx rate date: %w", err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

// Create records one rate.
func (r *Repository) Create(ctx context.Context, rate *domain.FxRate) (*domain.FxRate, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO fx_rates (user_id, from_currency, to_currency, rate, as_of_date) VALUES (?, ?, ?, ?, ?)",
		rate.UserID, rate.FromCurrency, rate.ToCurrency, rate.Rate, database.FormatTime(rate.AsOfDate))
	if err != nil {
		return nil, fmt.Errorf("failed to insert fx rate: %w", err)
	}
	if rate.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read fx rate id: %w", err)
	}
	return rate, nil
}
