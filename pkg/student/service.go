// Package student manages learner profiles. A user owns at most one profile,
// enforced by the store's unique constraint rather than a read-then-write
// check, so concurrent registrations cannot race past each other.
package student

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

// ProfileStore is the persistence surface the service needs.
type ProfileStore interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error)
}

// Service implements learner profile operations.
type Service struct {
	logger *slog.Logger
	store  ProfileStore
}

// NewService creates a student service.
func NewService(store ProfileStore, logger *slog.Logger) *Service {
	return &Service{logger: logger, store: store}
}

// CreateProfile registers a learner profile for a user. Returns
// ErrStudentAlreadyExists when the user already has one.
func (s *Service) CreateProfile(ctx context.Context, params domain.NewStudentParams) (*domain.Student, error) {
	now := time.Now().UTC()

	profile := &domain.Student{
		ID:          uuid.New(),
		UserID:      params.UserID,
		FirstName:   strings.TrimSpace(params.FirstName),
		LastName:    strings.TrimSpace(params.LastName),
		Email:       strings.ToLower(strings.TrimSpace(params.Email)),
		DateOfBirth: params.DateOfBirth,
		School:      strings.TrimSpace(params.School),
		Address:     params.Address,
		City:        params.City,
		State:       params.State,
		ZipCode:     params.ZipCode,
		Country:     strings.TrimSpace(params.Country),
		Grade:       strings.TrimSpace(params.Grade),
		ParentName:  params.ParentName,
		ParentEmail: params.ParentEmail,
		ParentPhone: params.ParentPhone,
		Language:    normalizeLanguage(params.Language),
		Timezone:    params.Timezone,
		CreatedAt:   now,
	}

	if err := s.store.Create(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrStudentAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("creating student profile: %w", err)
	}

	s.logger.Info("student profile created",
		"student_id", profile.ID,
		"user_id", profile.UserID,
		"grade", profile.Grade,
		"language", profile.Language)

	return profile, nil
}

// GetProfile returns the profile owned by a user, or ErrStudentNotFound.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Student, error) {
	return s.store.GetByUserID(ctx, userID)
}

// GetProfileByID returns a profile by its own id, or ErrStudentNotFound.
func (s *Service) GetProfileByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	return s.store.GetByID(ctx, id)
}

func normalizeLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return domain.DefaultLanguage
	}
	return strings.ToLower(lang)
}
