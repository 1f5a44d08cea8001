package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

// CredentialsRepository handles password credential persistence.
// Credentials exist only for native-auth accounts; the user_passwords table
// has at most one row per user.
type CredentialsRepository struct {
	db *sql.DB
}

// NewCredentialsRepository creates a new credentials repository.
func NewCredentialsRepository(db *sql.DB) *CredentialsRepository {
	return &CredentialsRepository{db: db}
}

// CreateTx creates password credentials within a transaction.
func (r *CredentialsRepository) CreateTx(ctx context.Context, tx *sql.Tx, cred *domain.UserPassword) error {
	query := `
		INSERT INTO user_passwords (user_id, password_hash, password_updated_at)
		VALUES ($1, $2, $3)
	`
	_, err := tx.ExecContext(ctx, query, cred.UserID, cred.PasswordHash, cred.PasswordUpdatedAt)
	return err
}

// GetByUserID retrieves password credentials for a user.
func (r *CredentialsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserPassword, error) {
	query := `
		SELECT user_id, password_hash, password_updated_at
		FROM user_passwords
		WHERE user_id = $1
	`
	cred := &domain.UserPassword{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cred.UserID, &cred.PasswordHash, &cred.PasswordUpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// Update replaces a user's password hash.
func (r *CredentialsRepository) Update(ctx context.Context, cred *domain.UserPassword) error {
	query := `
		UPDATE user_passwords
		SET password_hash = $2, password_updated_at = $3
		WHERE user_id = $1
	`
	result, err := r.db.ExecContext(ctx, query, cred.UserID, cred.PasswordHash, time.Now())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
