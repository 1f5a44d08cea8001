package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

// IdentitiesRepository handles external identity persistence (Google, etc.).
type IdentitiesRepository struct {
	db *sql.DB
}

// NewIdentitiesRepository creates a new identities repository.
func NewIdentitiesRepository(db *sql.DB) *IdentitiesRepository {
	return &IdentitiesRepository{db: db}
}

// Create creates a new linked identity.
func (r *IdentitiesRepository) Create(ctx context.Context, identity *domain.UserIdentity) error {
	query := `
		INSERT INTO user_identities (id, user_id, provider, provider_subject, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		identity.ID, identity.UserID, identity.Provider, identity.ProviderSubject,
		identity.Email, identity.CreatedAt,
	)
	return err
}

// CreateTx creates a new linked identity within a transaction.
func (r *IdentitiesRepository) CreateTx(ctx context.Context, tx *sql.Tx, identity *domain.UserIdentity) error {
	query := `
		INSERT INTO user_identities (id, user_id, provider, provider_subject, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		identity.ID, identity.UserID, identity.Provider, identity.ProviderSubject,
		identity.Email, identity.CreatedAt,
	)
	return err
}

// GetByProviderSubject retrieves an identity by provider and subject.
func (r *IdentitiesRepository) GetByProviderSubject(ctx context.Context, provider, subject string) (*domain.UserIdentity, error) {
	query := `
		SELECT id, user_id, provider, provider_subject, email, created_at
		FROM user_identities
		WHERE provider = $1 AND provider_subject = $2
	`
	identity := &domain.UserIdentity{}
	err := r.db.QueryRowContext(ctx, query, provider, subject).Scan(
		&identity.ID, &identity.UserID, &identity.Provider, &identity.ProviderSubject,
		&identity.Email, &identity.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return identity, nil
}
