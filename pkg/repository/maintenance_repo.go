package repository

import (
	"context"
	"database/sql"
)

// MaintenanceRepository implements administrative bulk operations.
type MaintenanceRepository struct {
	db *sql.DB
}

// NewMaintenanceRepository creates a new maintenance repository.
func NewMaintenanceRepository(db *sql.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// ClearAll wipes every entity type unconditionally: questions, students,
// sessions, identities, credentials, and users, in one transaction.
func (r *MaintenanceRepository) ClearAll(ctx context.Context) error {
	return Tx(ctx, r.db, func(tx *sql.Tx) error {
		tables := []string{
			"questions",
			"students",
			"sessions",
			"user_identities",
			"user_passwords",
			"users",
		}
		for _, table := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}
		return nil
	})
}
