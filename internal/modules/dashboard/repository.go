package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/database"
	"github.com/nravi/wealthtrack/internal/domain"
)

// Repository implements Store over SQLite.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a dashboard repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "dashboard").Logger(),
	}
}

// TradeTransactions returns the user's BUY/SELL ledger with the stock join,
// ascending by date with the row ID as tiebreaker.
func (r *Repository) TradeTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	query := `
		SELECT t.id, t.user_id, t.platform_account_id, t.stock_id, t.txn_action,
		       t.txn_date, t.quantity, t.unit_price, t.amount, t.currency, t.fees,
		       s.id, s.symbol, s.name, s.market, s.currency
		FROM transactions t
		LEFT JOIN stocks s ON s.id = t.stock_id
		WHERE t.user_id = ? AND t.txn_action IN (?, ?)
		ORDER BY t.txn_date ASC, t.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, domain.TxnBuy, domain.TxnSell)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var (
			txn       domain.Transaction
			txnDate   string
			stockID   sql.NullInt64
			quantity  sql.NullFloat64
			unitPrice sql.NullFloat64
			sID       sql.NullInt64
			sSymbol   sql.NullString
			sName     sql.NullString
			sMarket   sql.NullInt64
			sCurrency sql.NullString
		)

		if err := rows.Scan(
			&txn.ID, &txn.UserID, &txn.PlatformAccountID, &stockID, &txn.Action,
			&txnDate, &quantity, &unitPrice, &txn.Amount, &txn.Currency, &txn.Fees,
			&sID, &sSymbol, &sName, &sMarket, &sCurrency,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if txn.Date, err = database.ParseTime(txnDate); err != nil {
			return nil, fmt.Errorf("failed to parse transaction date: %w", err)
		}
		if stockID.Valid {
			txn.StockID = &stockID.Int64
		}
		if quantity.Valid {
			txn.Quantity = &quantity.Float64
		}
		if unitPrice.Valid {
			txn.UnitPrice = &unitPrice.Float64
		}
		if sID.Valid {
			txn.Stock = &domain.Stock{
				ID:       sID.Int64,
				Symbol:   sSymbol.String,
				Name:     sName.String,
				Market:   domain.StockMarket(sMarket.Int64),
				Currency: domain.Currency(sCurrency.String),
			}
		}

		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// InvestmentTransactionsSince returns BUY and DEPOSIT transactions dated at
// or after from.
func (r *Repository) InvestmentTransactionsSince(ctx context.Context, userID int64, from time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT id, user_id, platform_account_id, txn_action, txn_date, amount, currency, fees
		FROM transactions
		WHERE user_id = ? AND txn_action IN (?, ?) AND txn_date >= ?
		ORDER BY txn_date ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, domain.TxnBuy, domain.TxnDeposit, database.FormatTime(from))
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var (
			txn     domain.Transaction
			txnDate string
		)
		if err := rows.Scan(&txn.ID, &txn.UserID, &txn.PlatformAccountID, &txn.Action, &txnDate, &txn.Amount, &txn.Currency, &txn.Fees); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if txn.Date, err = database.ParseTime(txnDate); err != nil {
			return nil, fmt.Errorf("failed to parse transaction date: %w", err)
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// StockPrices returns prices dated at or before asOf, most recent first.
func (r *Repository) StockPrices(ctx context.Context, userID int64, asOf time.Time) ([]domain.StockPrice, error) {
	query := `
		SELECT id, user_id, stock_id, price, currency, as_of_date, source
		FROM stock_prices
		WHERE user_id = ? AND as_of_date <= ?
		ORDER BY as_of_date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, database.FormatTime(asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to query stock prices: %w", err)
	}
	defer rows.Close()

	var prices []domain.StockPrice
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

// HoldingSnapshots returns snapshots dated at or before asOf, most recent first.
func (r *Repository) HoldingSnapshots(ctx context.Context, userID int64, asOf time.Time) ([]domain.HoldingSnapshot, error) {
	query := `
		SELECT id, user_id, platform_account_id, label, asset_category, value, currency, as_of_date
		FROM holding_snapshots
		WHERE user_id = ? AND as_of_date <= ?
		ORDER BY as_of_date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, database.FormatTime(asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to query holding snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.HoldingSnapshot
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

// LiabilitySnapshots returns balances dated at or before asOf, most recent first.
func (r *Repository) LiabilitySnapshots(ctx context.Context, userID int64, asOf time.Time) ([]domain.LiabilitySnapshot, error) {
	query := `
		SELECT id, user_id, liability_id, outstanding, as_of_date
		FROM liability_snapshots
		WHERE user_id = ? AND as_of_date <= ?
		ORDER BY as_of_date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, database.FormatTime(asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to query liability snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.LiabilitySnapshot
	for rows.Next() {
		var (
			snap     domain.LiabilitySnapshot
			asOfDate string
		)
		if err := rows.Scan(&snap.ID, &snap.UserID, &snap.LiabilityID, &snap.Outstanding, &asOfDate); err != nil {
			return nil, fmt.Errorf("failed to scan liability snapshot: %w", err)
		}
		if snap.AsOfDate, err = database.ParseTime(asOfDate); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot date: %w", err)
		}
		snaps = append(snaps, snap)
	}

	return snaps, rows.Err()
}

// RealEstateValuations returns valuations dated at or before asOf, most
// recent first.
func (r *Repository) RealEstateValuations(ctx context.Context, userID int64, asOf time.Time) ([]domain.RealEstateValuation, error) {
	query := `
		SELECT id, user_id, property_name, value, currency, as_of_date
		FROM real_estate_valuations
		WHERE user_id = ? AND as_of_date <= ?
		ORDER BY as_of_date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, database.FormatTime(asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to query real estate valuations: %w", err)
	}
	defer rows.Close()

	var valuations []domain.RealEstateValuation
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

// Liabilities returns all of the user's liabilities.
func (r *Repository) Liabilities(ctx context.Context, userID int64) ([]domain.Liability, error) {
	query := `
		SELECT id, user_id, name, liability_type, lender, principal, status
		FROM liabilities
		WHERE user_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query liabilities: %w", err)
	}
	defer rows.Close()

	var liabilities []domain.Liability
	for rows.Next() {
		var liability domain.Liability
		if err := rows.Scan(&liability.ID, &liability.UserID, &liability.Name, &liability.Type, &liability.Lender, &liability.Principal, &liability.Status); err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}
		liabilities = append(liabilities, liability)
	}

	return liabilities, rows.Err()
}

// LatestFxRate returns the most recent rate for the pair at or before asOf,
// or nil when none exists.
func (r *Repository) LatestFxRate(ctx context.Context, userID int64, from, to domain.Currency, asOf time.Time) (*domain.FxRate, error) {
	query := `
		SELECT id, user_id, from_currency, to_currency, rate, as_of_date
		FROM fx_rates
		WHERE user_id = ? AND from_currency = ? AND to_currency = ? AND as_of_date <= ?
		ORDER BY as_of_date DESC, id DESC
		LIMIT 1
	`

	var (
		rate     domain.FxRate
		asOfDate string
	)
	err := r.db.QueryRowContext(ctx, query, userID, from, to, database.FormatTime(asOf)).
		Scan(&rate.ID, &rate.UserID, &rate.FromCurrency, &rate.ToCurrency, &rate.Rate, &asOfDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query fx rate: %w", err)
	}
	if rate.AsOfDate, err = database.ParseTime(asOfDate); err != nil {
		return nil, fmt.Errorf("failed to parse fx rate date: %w", err)
	}

	return &rate, nil
}

// DisplayCurrency returns the user's stored display currency preference.
func (r *Repository) DisplayCurrency(ctx context.Context, userID int64) (domain.Currency, error) {
	var currency domain.Currency
	err := r.db.QueryRowContext(ctx, "SELECT display_currency FROM users WHERE id = ?", userID).Scan(&currency)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query display currency: %w", err)
	}
	return currency, nil
}
