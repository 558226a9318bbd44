package goals

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/database"
	"github.com/nravi/wealthtrack/internal/domain"
)

// Repository persists savings goals and their transaction links.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a goals repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "goals").Logger(),
	}
}

// List returns the user's goals.
func (r *Repository) List(ctx context.Context, userID int64) ([]domain.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, target_amount, target_date, status, created_at
		FROM goals
		WHERE user_id = ?
		ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	goals := []domain.Goal{}
	for rows.Next() {
		var (
			goal       domain.Goal
			targetDate sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &targetDate, &goal.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if targetDate.Valid {
			t, err := database.ParseTime(targetDate.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse goal target_date: %w", err)
			}
			goal.TargetDate = &t
		}
		if goal.CreatedAt, err = database.ParseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse goal created_at: %w", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// Create inserts a goal and returns it with the assigned ID.
func (r *Repository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	goal.CreatedAt = time.Now().UTC()

	var targetDate interface{}
	if goal.TargetDate != nil {
		targetDate = database.FormatTime(*goal.TargetDate)
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO goals (user_id, name, target_amount, target_date, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		goal.UserID, goal.Name, goal.TargetAmount, targetDate, goal.Status, database.FormatTime(goal.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert goal: %w", err)
	}
	if goal.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read goal id: %w", err)
	}
	return goal, nil
}

// UpdateStatus moves a goal to a new lifecycle state.
func (r *Repository) UpdateStatus(ctx context.Context, goalID int64, status domain.GoalStatus) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE goals SET status = ? WHERE id = ?", status, goalID)
	if err != nil {
		return fmt.Errorf("failed to update goal status: %w", err)
	}
	return nil
}

// LinkTransaction associates a transaction with a goal. Linking twice is a
// no-op.
func (r *Repository) LinkTransaction(ctx context.Context, goalID, transactionID int64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO goal_transactions (goal_id, transaction_id) VALUES (?, ?)",
		goalID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to link transaction to goal: %w", err)
	}
	return nil
}

// LinkedTransactionIDs returns the IDs of transactions linked to a goal.
func (r *Repository) LinkedTransactionIDs(ctx context.Context, goalID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT transaction_id FROM goal_transactions WHERE goal_id = ? ORDER BY transaction_id ASC", goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goal transactions: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan transaction id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GoalBelongsToUser reports whether the goal exists and is owned by the user.
func (r *Repository) GoalBelongsToUser(ctx context.Context, userID, goalID int64) (bool, error) {
	return r.exists(ctx, "SELECT COUNT(*) FROM goals WHERE id = ? AND user_id = ?", goalID, userID)
}

// TransactionBelongsToUser reports whether the transaction exists and is owned
// by the user.
func (r *Repository) TransactionBelongsToUser(ctx context.Context, userID, transactionID int64) (bool, error) {
	return r.exists(ctx, "SELECT COUNT(*) FROM transactions WHERE id = ? AND user_id = ?", transactionID, userID)
}

func (r *Repository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return count > 0, nil
}
