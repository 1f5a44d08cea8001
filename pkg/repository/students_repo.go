package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// StudentsRepository handles learner profile persistence. The unique
// constraint on user_id enforces the one-profile-per-user invariant at the
// store level.
type StudentsRepository struct {
	db *sql.DB
}

// NewStudentsRepository creates a new students repository.
func NewStudentsRepository(db *sql.DB) *StudentsRepository {
	return &StudentsRepository{db: db}
}

const studentColumns = `id, user_id, first_name, last_name, email, date_of_birth, school,
	       address, city, state, zip_code, country, grade,
	       parent_name, parent_email, parent_phone, language, timezone, created_at`

func scanStudent(row *sql.Row) (*domain.Student, error) {
	s := &domain.Student{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.FirstName, &s.LastName, &s.Email, &s.DateOfBirth, &s.School,
		&s.Address, &s.City, &s.State, &s.ZipCode, &s.Country, &s.Grade,
		&s.ParentName, &s.ParentEmail, &s.ParentPhone, &s.Language, &s.Timezone, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create persists a new student profile. Returns ErrStudentAlreadyExists if
// the owning user already has one.
func (r *StudentsRepository) Create(ctx context.Context, student *domain.Student) error {
	query := `
		INSERT INTO students (id, user_id, first_name, last_name, email, date_of_birth, school,
		                      address, city, state, zip_code, country, grade,
		                      parent_name, parent_email, parent_phone, language, timezone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err := r.db.ExecContext(ctx, query,
		student.ID, student.UserID, student.FirstName, student.LastName, student.Email,
		student.DateOfBirth, student.School, student.Address, student.City, student.State,
		student.ZipCode, student.Country, student.Grade, student.ParentName,
		student.ParentEmail, student.ParentPhone, student.Language, student.Timezone,
		student.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrStudentAlreadyExists
	}
	return err
}

// GetByUserID retrieves the profile owned by a user.
func (r *StudentsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE user_id = $1`
	return scanStudent(r.db.QueryRowContext(ctx, query, userID))
}

// GetByID retrieves a profile by its own id.
func (r *StudentsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return scanStudent(r.db.QueryRowContext(ctx, query, id))
}
