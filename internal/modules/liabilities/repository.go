package liabilities

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/database"
	"github.com/nravi/wealthtrack/internal/domain"
)

// Repository persists liabilities and their balance snapshots.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a liabilities repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "liabilities").Logger(),
	}
}

// List returns the user's liabilities.
func (r *Repository) List(ctx context.Context, userID int64) ([]domain.Liability, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, liability_type, lender, principal, interest_rate,
		       tenure_months, emi, status, created_at
		FROM liabilities
		WHERE user_id = ?
		ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query liabilities: %w", err)
	}
	defer rows.Close()

	liabilities := []domain.Liability{}
	for rows.Next() {
		var (
			liability    domain.Liability
			interestRate sql.NullFloat64
			tenureMonths sql.NullInt64
			emi          sql.NullFloat64
			createdAt    string
		)
		if err := rows.Scan(&liability.ID, &liability.UserID, &liability.Name, &liability.Type,
			&liability.Lender, &liability.Principal, &interestRate, &tenureMonths, &emi,
			&liability.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}
		if interestRate.Valid {
			liability.InterestRate = &interestRate.Float64
		}
		if tenureMonths.Valid {
			months := int(tenureMonths.Int64)
			liability.TenureMonths = &months
		}
		if emi.Valid {
			liability.EMI = &emi.Float64
		}
		if liability.CreatedAt, err = database.ParseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse liability created_at: %w", err)
		}
		liabilities = append(liabilities, liability)
	}
	return liabilities, rows.Err()
}

// Create inserts a liability and returns it with the assigned ID.
func (r *Repository) Create(ctx context.Context, liability *domain.Liability) (*domain.Liability, error) {
	liability.CreatedAt = time.Now().UTC()

	var interestRate, tenureMonths, emi interface{}
	if liability.InterestRate != nil {
		interestRate = *liability.InterestRate
	}
	if liability.TenureMonths != nil {
		tenureMonths = *liability.TenureMonths
	}
	if liability.EMI != nil {
		emi = *liability.EMI
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO liabilities
			(user_id, name, liability_type, lender, principal, interest_rate, tenure_months, emi, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		liability.UserID, liability.Name, liability.Type, liability.Lender, liability.Principal,
		interestRate, tenureMonths, emi, liability.Status, database.FormatTime(liability.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert liability: %w", err)
	}
	if liability.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read liability id: %w", err)
	}
	return liability, nil
}

// ListSnapshots returns balance snapshots for one liability, newest first.
func (r *Repository) ListSnapshots(ctx context.Context, userID, liabilityID int64) ([]domain.LiabilitySnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, liability_id, outstanding, as_of_date
		FROM liability_snapshots
		WHERE user_id = ? AND liability_id = ?
		ORDER BY as_of_date DESC, id DESC`, userID, liabilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query liability snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []domain.LiabilitySnapshot{}
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

// CreateSnapshot records an outstanding balance.
func (r *Repository) CreateSnapshot(ctx context.Context, snap *domain.LiabilitySnapshot) (*domain.LiabilitySnapshot, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO liability_snapshots (user_id, liability_id, outstanding, as_of_date) VALUES (?, ?, ?, ?)",
		snap.UserID, snap.LiabilityID, snap.Outstanding, database.FormatTime(snap.AsOfDate))
	if err != nil {
		return nil, fmt.Errorf("failed to insert liability snapshot: %w", err)
	}
	if snap.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot id: %w", err)
	}
	return snap, nil
}

// BelongsToUser reports whether the liability exists and is owned by the user.
func (r *Repository) BelongsToUser(ctx context.Context, userID, liabilityID int64) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM liabilities WHERE id = ? AND user_id = ?", liabilityID, userID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check liability: %w", err)
	}
	return count > 0, nil
}
