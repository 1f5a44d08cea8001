package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

// QuestionsRepository handles QA record persistence. Records are append-only;
// the position sequence preserves insertion order so retrieval stays
// newest-first regardless of clock skew on created_at.
type QuestionsRepository struct {
	db *sql.DB
}

// NewQuestionsRepository creates a new questions repository.
func NewQuestionsRepository(db *sql.DB) *QuestionsRepository {
	return &QuestionsRepository{db: db}
}

// Create persists a new QA record.
func (r *QuestionsRepository) Create(ctx context.Context, q *domain.Question) error {
	query := `
		INSERT INTO questions (id, student_id, question, answer, language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		q.ID, q.StudentID, q.Question, q.Answer, q.Language, q.CreatedAt,
	)
	return err
}

// GetByID retrieves a single QA record.
func (r *QuestionsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	query := `
		SELECT id, student_id, question, answer, language, created_at
		FROM questions
		WHERE id = $1
	`
	q := &domain.Question{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&q.ID, &q.StudentID, &q.Question, &q.Answer, &q.Language, &q.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListRecent returns up to limit records for a student, newest first by
// insertion order.
func (r *QuestionsRepository) ListRecent(ctx context.Context, studentID uuid.UUID, limit int) ([]*domain.Question, error) {
	query := `
		SELECT id, student_id, question, answer, language, created_at
		FROM questions
		WHERE student_id = $1
		ORDER BY position DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*domain.Question
	for rows.Next() {
		q := &domain.Question{}
		if err := rows.Scan(&q.ID, &q.StudentID, &q.Question, &q.Answer, &q.Language, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CountForStudent returns the total number of records for a student.
func (r *QuestionsRepository) CountForStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM questions WHERE student_id = $1`
	var count int
	err := r.db.QueryRowContext(ctx, query, studentID).Scan(&count)
	return count, err
}
