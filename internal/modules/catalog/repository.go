package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/database"
	"github.com/nravi/wealthtrack/internal/domain"
)

// Repository persists the reference catalogue: platforms, sub-account types,
// user platform accounts and the stock list.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a catalog repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "catalog").Logger(),
	}
}

// ListPlatforms returns all platforms.
func (r *Repository) ListPlatforms(ctx context.Context) ([]domain.Platform, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM platforms ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query platforms: %w", err)
	}
	defer rows.Close()

	platforms := []domain.Platform{}
	for rows.Next() {
		var p domain.Platform
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan platform: %w", err)
		}
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}

// CreatePlatform adds a platform to the catalogue.
func (r *Repository) CreatePlatform(ctx context.Context, name string) (*domain.Platform, error) {
	result, err := r.db.ExecContext(ctx, "INSERT INTO platforms (name) VALUES (?)", name)
	if err != nil {
		return nil, fmt.Errorf("failed to insert platform: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read platform id: %w", err)
	}
	return &domain.Platform{ID: id, Name: name}, nil
}

// ListSubAccountTypes returns all sub-account types.
func (r *Repository) ListSubAccountTypes(ctx context.Context) ([]domain.SubAccountType, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, type, base_currency FROM sub_account_types ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query sub-account types: %w", err)
	}
	defer rows.Close()

	types := []domain.SubAccountType{}
	for rows.Next() {
		var t domain.SubAccountType
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.BaseCurrency); err != nil {
			return nil, fmt.Errorf("failed to scan sub-account type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// CreateSubAccountType adds a sub-account type to the catalogue.
func (r *Repository) CreateSubAccountType(ctx context.Context, t *domain.SubAccountType) (*domain.SubAccountType, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO sub_account_types (name, type, base_currency) VALUES (?, ?, ?)",
		t.Name, t.Type, t.BaseCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sub-account type: %w", err)
	}
	if t.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read sub-account type id: %w", err)
	}
	return t, nil
}

// ListAccounts returns the user's platform accounts.
func (r *Repository) ListAccounts(ctx context.Context, userID int64) ([]domain.PlatformAccount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, platform_id, sub_account_type_id, nickname, created_at
		FROM user_platform_accounts
		WHERE user_id = ?
		ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.PlatformAccount{}
	for rows.Next() {
		var (
			account   domain.PlatformAccount
			createdAt string
		)
		if err := rows.Scan(&account.ID, &account.UserID, &account.PlatformID, &account.SubAccountTypeID, &account.Nickname, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan platform account: %w", err)
		}
		if account.CreatedAt, err = database.ParseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse account created_at: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// CreateAccount links the user to one sub-account on a platform.
func (r *Repository) CreateAccount(ctx context.Context, account *domain.PlatformAccount) (*domain.PlatformAccount, error) {
	account.CreatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO user_platform_accounts (user_id, platform_id, sub_account_type_id, nickname, created_at) VALUES (?, ?, ?, ?, ?)",
		account.UserID, account.PlatformID, account.SubAccountTypeID, account.Nickname, database.FormatTime(account.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert platform account: %w", err)
	}
	if account.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read account id: %w", err)
	}
	return account, nil
}

// ListStocks returns the stock catalogue.
func (r *Repository) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, symbol, name, market, currency FROM stocks ORDER BY symbol ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	stocks := []domain.Stock{}
	for rows.Next() {
		var s domain.Stock
		if err := rows.Scan(&s.ID, &s.Symbol, &s.Name, &s.Market, &s.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// CreateStock adds a stock to the catalogue.
func (r *Repository) CreateStock(ctx context.Context, stock *domain.Stock) (*domain.Stock, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO stocks (symbol, name, market, currency) VALUES (?, ?, ?, ?)",
		stock.Symbol, stock.Name, stock.Market, stock.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to insert stock: %w", err)
	}
	if stock.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read stock id: %w", err)
	}
	return stock, nil
}

// PlatformExists reports whether a platform is in the catalogue.
func (r *Repository) PlatformExists(ctx context.Context, platformID int64) (bool, error) {
	return r.exists(ctx, "SELECT COUNT(*) FROM platforms WHERE id = ?", platformID)
}

// SubAccountTypeExists reports whether a sub-account type is in the catalogue.
func (r *Repository) SubAccountTypeExists(ctx context.Context, typeID int64) (bool, error) {
	return r.exists(ctx, "SELECT COUNT(*) FROM sub_account_types WHERE id = ?", typeID)
}

func (r *Repository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return count > 0, nil
}
