package transactions

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/database"
	"github.com/nravi/wealthtrack/internal/domain"
)

// Filter narrows a transaction listing. Zero values mean "no constraint".
type Filter struct {
	Action             domain.TxnAction
	PlatformAccountID  int64
	StockID            int64
	RelatedLiabilityID int64
	From               *time.Time
	To                 *time.Time
	Page               int
	PageSize           int
}

// Repository persists ledger transactions.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a transaction repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "transactions").Logger(),
	}
}

// List returns one page of the user's transactions, newest first, plus the
// total row count for the filter.
func (r *Repository) List(ctx context.Context, userID int64, filter Filter) ([]domain.Transaction, int, error) {
	conditions := []string{"t.user_id = ?"}
	args := []interface{}{userID}

	if filter.Action != 0 {
		conditions = append(conditions, "t.txn_action = ?")
		args = append(args, filter.Action)
	}
	if filter.PlatformAccountID != 0 {
		conditions = append(conditions, "t.platform_account_id = ?")
		args = append(args, filter.PlatformAccountID)
	}
	if filter.StockID != 0 {
		conditions = append(conditions, "t.stock_id = ?")
		args = append(args, filter.StockID)
	}
	if filter.RelatedLiabilityID != 0 {
		conditions = append(conditions, "t.related_liability_id = ?")
		args = append(args, filter.RelatedLiabilityID)
	}
	if filter.From != nil {
		conditions = append(conditions, "t.txn_date >= ?")
		args = append(args, database.FormatTime(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "t.txn_date <= ?")
		args = append(args, database.FormatTime(*filter.To))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM transactions t WHERE " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `
		SELECT t.id, t.user_id, t.platform_account_id, t.stock_id, t.related_liability_id,
		       t.txn_action, t.txn_date, t.quantity, t.unit_price, t.amount, t.currency,
		       t.fees, t.notes, t.created_at,
		       s.id, s.symbol, s.name, s.market, s.currency
		FROM transactions t
		LEFT JOIN stocks s ON s.id = t.stock_id
		WHERE ` + where + `
		ORDER BY t.txn_date DESC, t.id DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txns = append(txns, *txn)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}

	return txns, total, rows.Err()
}

func scanTransaction(rows *sql.Rows) (*domain.Transaction, error) {
	var (
		txn         domain.Transaction
		stockID     sql.NullInt64
		liabilityID sql.NullInt64
		txnDate     string
		quantity    sql.NullFloat64
		unitPrice   sql.NullFloat64
		createdAt   string
		sID         sql.NullInt64
		sSymbol     sql.NullString
		sName       sql.NullString
		sMarket     sql.NullInt64
		sCurrency   sql.NullString
	)

	err := rows.Scan(
		&txn.ID, &txn.UserID, &txn.PlatformAccountID, &stockID, &liabilityID,
		&txn.Action, &txnDate, &quantity, &unitPrice, &txn.Amount, &txn.Currency,
		&txn.Fees, &txn.Notes, &createdAt,
		&sID, &sSymbol, &sName, &sMarket, &sCurrency,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	if txn.Date, err = database.ParseTime(txnDate); err != nil {
		return nil, fmt.Errorf("failed to parse transaction date: %w", err)
	}
	if txn.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse transaction created_at: %w", err)
	}
	if stockID.Valid {
		txn.StockID = &stockID.Int64
	}
	if liabilityID.Valid {
		txn.RelatedLiabilityID = &liabilityID.Int64
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

	return &txn, nil
}

// Create inserts a transaction and returns it with the assigned ID.
func (r *Repository) Create(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	txn.CreatedAt = time.Now().UTC()

	var quantity, unitPrice interface{}
	if txn.Quantity != nil {
		quantity = *txn.Quantity
	}
	if txn.UnitPrice != nil {
		unitPrice = *txn.UnitPrice
	}
	var stockID, liabilityID interface{}
	if txn.StockID != nil {
		stockID = *txn.StockID
	}
	if txn.RelatedLiabilityID != nil {
		liabilityID = *txn.RelatedLiabilityID
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(user_id, platform_account_id, stock_id, related_liability_id, txn_action,
			 txn_date, quantity, unit_price, amount, currency, fees, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.UserID, txn.PlatformAccountID, stockID, liabilityID, txn.Action,
		database.FormatTime(txn.Date), quantity, unitPrice, txn.Amount, txn.Currency,
		txn.Fees, txn.Notes, database.FormatTime(txn.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	if txn.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read transaction id: %w", err)
	}
	return txn, nil
}

// AccountBelongsToUser reports whether the platform account exists and is
// owned by the user.
func (r *Repository) AccountBelongsToUser(ctx context.Context, userID, accountID int64) (bool, error) {
	return r.exists(ctx, "SELECT COUNT(*) FROM user_platform_accounts WHERE id = ? AND user_id = ?", accountID, userID)
}

// LiabilityBelongsToUser reports whether the liability exists and is owned by
// the user.
func (r *Repository) LiabilityBelongsToUser(ctx context.Context, userID, liabilityID int64) (bool, error) {
	return r.exists(ctx, "SELECT COUNT(*) FROM liabilities WHERE id = ? AND user_id = ?", liabilityID, userID)
}

// StockExists reports whether the stock is in the catalogue.
func (r *Repository) StockExists(ctx context.Context, stockID int64) (bool, error) {
	return r.exists(ctx, "SELECT COUNT(*) FROM stocks WHERE id = ?", stockID)
}

func (r *Repository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return count > 0, nil
}
