package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/dinostories/internal/client/models"
	"github.com/dmitrijs2005/dinostories/internal/dbx"
)

// AccountRepository stores offline credential records keyed by email.
type AccountRepository struct {
	db dbx.DBTX
}

func NewAccountRepository(db dbx.DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// Insert adds a new account. Returns ErrDuplicateAccount when the email is
// already present.
func (r *AccountRepository) Insert(ctx context.Context, a models.Account) error {
	query := `INSERT INTO accounts (email, user_id, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		normalizeEmail(a.Email), a.UserID, a.Name, a.PasswordHash,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetByEmail returns the account for an email or ErrNotFound.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT email, user_id, name, password_hash FROM accounts WHERE email = ?`
	row := r.db.QueryRowContext(ctx, query, normalizeEmail(email))

	var a models.Account
	err := row.Scan(&a.Email, &a.UserID, &a.Name, &a.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return &a, nil
}

// Clear removes every offline account.
func (r *AccountRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation matches the sqlite constraint error without depending on
// driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
