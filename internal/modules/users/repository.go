package users

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

// Repository persists user accounts.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a user repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "users").Logger(),
	}
}

// Create inserts a new user and returns it with the assigned ID.
func (r *Repository) Create(ctx context.Context, email, passwordHash, name string, currency domain.Currency) (*domain.User, error) {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, display_currency, created_at) VALUES (?, ?, ?, ?, ?)",
		email, passwordHash, name, currency, database.FormatTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}

	return &domain.User{
		ID:              id,
		Email:           email,
		PasswordHash:    passwordHash,
		Name:            name,
		DisplayCurrency: currency,
		CreatedAt:       now,
	}, nil
}

// GetByEmail returns the user with the given email, or nil when none exists.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "SELECT id, email, password_hash, name, display_currency, created_at FROM users WHERE email = ?", email)
}

// GetByID returns the user with the given ID, or nil when none exists.
func (r *Repository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	return r.getOne(ctx, "SELECT id, email, password_hash, name, display_currency, created_at FROM users WHERE id = ?", userID)
}

func (r *Repository) getOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var (
		user      domain.User
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.DisplayCurrency, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if user.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse user created_at: %w", err)
	}
	return &user, nil
}

// UpdateProfile updates the mutable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, userID int64, name string, currency domain.Currency) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET name = ?, display_currency = ? WHERE id = ?",
		name, currency, userID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
