package valuations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/database"
	"github.com/nravi/wealthtrack/internal/domain"
)

// Repository persists the manually entered valuation records: stock prices,
// holding snapshots and real estate valuations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a valuations repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "valuations").Logger(),
	}
}

// ListStockPrices returns the user's recorded prices, newest first.
func (r *Repository) ListStockPrices(ctx context.Context, userID int64) ([]domain.StockPrice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, stock_id, price, currency, as_of_date, source
		FROM stock_prices
		WHERE user_id = ?
		ORDER BY as_of_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock prices: %w", err)
	}
	defer rows.Close()

	prices := []domain.StockPrice{}
	for rows.Next() {
		var (
			price    domain.StockPrice
			asOfDate string
		)
		if err := rows.Scan(&price.ID, &price.UserID, &price.StockID, &price.Price, &price.Currency, &asOfDate, &price.Source); err != nil {
			return nil, fmt.Errorf("failed to scan stock price: %w", err)
		}
		if price.AsOfDate, err = database.ParseTime(asOfDate); err != nil {
			return nil, fmt.Errorf("failed to parse price date: %w", err)
		}
		prices = append(prices, price)
	}
	return prices, rows.Err()
}

// CreateStockPrice records one price point.
func (r *Repository) CreateStockPrice(ctx context.Context, price *domain.StockPrice) (*domain.StockPrice, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO stock_prices (user_id, stock_id, price, currency, as_of_date, source) VALUES (?, ?, ?, ?, ?, ?)",
		price.UserID, price.StockID, price.Price, price.Currency, database.FormatTime(price.AsOfDate), price.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to insert stock price: %w", err)
	}
	if price.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read stock price id: %w", err)
	}
	return price, nil
}

// ListHoldingSnapshots returns the user's snapshots, newest first, optionally
// narrowed by platform account and asset category.
func (r *Repository) ListHoldingSnapshots(ctx context.Context, userID int64, platformAccountID int64, category domain.AssetCategory) ([]domain.HoldingSnapshot, error) {
	conditions := []string{"user_id = ?"}
	args := []interface{}{userID}

	if platformAccountID != 0 {
		conditions = append(conditions, "platform_account_id = ?")
		args = append(args, platformAccountID)
	}
	if category != 0 {
		conditions = append(conditions, "asset_category = ?")
		args = append(args, category)
	}

	query := `
		SELECT id, user_id, platform_account_id, label, asset_category, value, currency, as_of_date
		FROM holding_snapshots
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY as_of_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []domain.HoldingSnapshot{}
	for rows.Next() {
		var (
			snap      domain.HoldingSnapshot
			accountID sql.NullInt64
			asOfDate  string
		)
		if err := rows.Scan(&snap.ID, &snap.UserID, &accountID, &snap.Label, &snap.AssetCategory, &snap.Value, &snap.Currency, &asOfDate); err != nil {
			return nil, fmt.Errorf("failed to scan holding snapshot: %w", err)
		}
		if accountID.Valid {
			snap.PlatformAccountID = &accountID.Int64
		}
		if snap.AsOfDate, err = database.ParseTime(asOfDate); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot date: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// CreateHoldingSnapshot records one snapshot.
func (r *Repository) CreateHoldingSnapshot(ctx context.Context, snap *domain.HoldingSnapshot) (*domain.HoldingSnapshot, error) {
	var accountID interface{}
	if snap.PlatformAccountID != nil {
		accountID = *snap.PlatformAccountID
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO holding_snapshots (user_id, platform_account_id, label, asset_category, value, currency, as_of_date) VALUES (?, ?, ?, ?, ?, ?, ?)",
		snap.UserID, accountID, snap.Label, snap.AssetCategory, snap.Value, snap.Currency, database.FormatTime(snap.AsOfDate))
	if err != nil {
		return nil, fmt.Errorf("failed to insert holding snapshot: %w", err)
	}
	if snap.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot id: %w", err)
	}
	return snap, nil
}

// ListRealEstateValuations returns the user's property valuations, newest
// first.
func (r *Repository) ListRealEstateValuations(ctx context.Context, userID int64) ([]domain.RealEstateValuation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, property_name, value, currency, as_of_date
		FROM real_estate_valuations
		WHERE user_id = ?
		ORDER BY as_of_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query real estate valuations: %w", err)
	}
	defer rows.Close()

	valuations := []domain.RealEstateValuation{}
	for rows.Next() {
		var (
			valuation domain.RealEstateValuation
			asOfDate  string
		)
		if err := rows.Scan(&valuation.ID, &valuation.UserID, &valuation.PropertyName, &valuation.Value, &valuation.Currency, &asOfDate); err != nil {
			return nil, fmt.Errorf("failed to scan valuation: %w", err)
		}
		if valuation.AsOfDate, err = database.ParseTime(asOfDate); err != nil {
			return nil, fmt.Errorf("failed to parse valuation date: %w", err)
		}
		valuations = append(valuations, valuation)
	}
	return valuations, rows.Err()
}

// CreateRealEstateValuation records one property valuation.
func (r *Repository) CreateRealEstateValuation(ctx context.Context, valuation *domain.RealEstateValuation) (*domain.RealEstateValuation, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO real_estate_valuations (user_id, property_name, value, currency, as_of_date) VALUES (?, ?, ?, ?, ?)",
		valuation.UserID, valuation.PropertyName, valuation.Value, valuation.Currency, database.FormatTime(valuation.AsOfDate))
	if err != nil {
		return nil, fmt.Errorf("failed to insert real estate valuation: %w", err)
	}
	if valuation.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read valuation id: %w", err)
	}
	return valuation, nil
}

// StockExists reports whether the stock is in the catalogue.
func (r *Repository) StockExists(ctx context.Context, stockID int64) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stocks WHERE id = ?", stockID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check stock: %w", err)
	}
	return count > 0, nil
}

// AccountBelongsToUser reports whether the platform account is owned by the
// user.
func (r *Repository) AccountBelongsToUser(ctx context.Context, userID, accountID int64) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_platform_accounts WHERE id = ? AND user_id = ?", accountID, userID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check account: %w", err)
	}
	return count > 0, nil
}
