// Package qa runs the ask flow: generate an answer, translate it into the
// student's language when that differs from English, and record the
// exchange. Answer generation and translation are best effort; persistence
// is not.
package qa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eduvoice/eduvoice-backend/internal/metrics"
	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

// Generator produces an answer for a question. Implementations never fail;
// they degrade to canned content instead.
type Generator interface {
	Ask(ctx context.Context, question, studentContext string) string
}

// Translator renders English text into a target language, passing text
// through unchanged when it cannot.
type Translator interface {
	Translate(ctx context.Context, text, target string) string
}

// RecordStore is the persistence surface for QA records.
type RecordStore interface {
	Create(ctx context.Context, q *domain.Question) error
	ListRecent(ctx context.Context, studentID uuid.UUID, limit int) ([]*domain.Question, error)
	CountForStudent(ctx context.Context, studentID uuid.UUID) (int, error)
}

const (
	// DefaultRecentLimit applies when the caller does not say how many
	// records it wants.
	DefaultRecentLimit = 10
	// MaxRecentLimit caps a single listing.
	MaxRecentLimit = 50

	maxQuestionLength = 2000
)

// Service implements the ask and history operations.
type Service struct {
	logger     *slog.Logger
	metrics    metrics.Recorder
	store      RecordStore
	generator  Generator
	translator Translator
}

// NewService creates a QA service.
func NewService(store RecordStore, generator Generator, translator Translator, logger *slog.Logger, rec metrics.Recorder) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Service{
		logger:     logger,
		metrics:    rec,
		store:      store,
		generator:  generator,
		translator: translator,
	}
}

// Ask answers a question for a student and records the exchange. The
// returned record carries the answer in the student's language.
func (s *Service) Ask(ctx context.Context, profile *domain.Student, question string) (*domain.Question, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question must not be empty")
	}
	if len(question) > maxQuestionLength {
		return nil, fmt.Errorf("question exceeds %d characters", maxQuestionLength)
	}

	answer := s.generator.Ask(ctx, question, studentContext(profile))

	language := profile.Language
	if language == "" {
		language = domain.DefaultLanguage
	}
	if language != domain.DefaultLanguage {
		answer = s.translator.Translate(ctx, answer, language)
	}

	record := &domain.Question{
		ID:        uuid.New(),
		StudentID: profile.ID,
		Question:  question,
		Answer:    answer,
		Language:  language,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("saving question: %w", err)
	}
	s.metrics.RecordQuestionSaved()

	s.logger.Info("question answered",
		"question_id", record.ID,
		"student_id", profile.ID,
		"language", language)

	return record, nil
}

// RecentQuestions lists a student's latest exchanges, newest first. A
// non-positive limit falls back to DefaultRecentLimit; limits above
// MaxRecentLimit are clamped.
func (s *Service) RecentQuestions(ctx context.Context, studentID uuid.UUID, limit int) ([]*domain.Question, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return s.store.ListRecent(ctx, studentID, limit)
}

// CountQuestions reports how many exchanges a student has recorded in
// total, independent of any listing limit.
func (s *Service) CountQuestions(ctx context.Context, studentID uuid.UUID) (int, error) {
	return s.store.CountForStudent(ctx, studentID)
}

// studentContext summarizes the asking student for the answer model.
func studentContext(profile *domain.Student) string {
	var parts []string
	if profile.FirstName != "" {
		parts = append(parts, fmt.Sprintf("The student's name is %s.", profile.FirstName))
	}
	if profile.Grade != "" {
		parts = append(parts, fmt.Sprintf("They are in grade %s.", profile.Grade))
	}
	return strings.Join(parts, " ")
}
