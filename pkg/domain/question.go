package domain

import (
	"time"

	"github.com/google/uuid"
)

// Question is one stored question/answer exchange. Records are append-only;
// retrieval order is newest-first by insertion, not by timestamp.
type Question struct {
	ID        uuid.UUID
	StudentID uuid.UUID
	Question  string
	Answer    string
	Language  string
	CreatedAt time.Time
}

// NewQuestionParams carries caller-supplied fields for saving an exchange.
type NewQuestionParams struct {
	StudentID uuid.UUID
	Question  string
	Answer    string
	Language  string
}
