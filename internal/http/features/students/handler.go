package students

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/eduvoice/eduvoice-backend/internal/http/middleware"
	"github.com/eduvoice/eduvoice-backend/internal/httputil"
	"github.com/eduvoice/eduvoice-backend/pkg/domain"
	"github.com/eduvoice/eduvoice-backend/pkg/student"
)

// Handler handles learner profile endpoints.
type Handler struct {
	logger         *slog.Logger
	studentService *student.Service
	validate       *validator.Validate
}

// NewHandler creates a new students handler.
func NewHandler(logger *slog.Logger, studentService *student.Service) *Handler {
	return &Handler{
		logger:         logger,
		studentService: studentService,
		validate:       validator.New(),
	}
}

// CreateRequest represents a profile registration request.
type CreateRequest struct {
	FirstName   string  `json:"first_name" validate:"required,max=100"`
	LastName    string  `json:"last_name" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	School      string  `json:"school" validate:"max=200"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	ZipCode     *string `json:"zip_code,omitempty"`
	Country     string  `json:"country" validate:"max=100"`
	Grade       string  `json:"grade" validate:"required,max=20"`
	ParentName  *string `json:"parent_name,omitempty"`
	ParentEmail *string `json:"parent_email,omitempty" validate:"omitempty,email"`
	ParentPhone *string `json:"parent_phone,omitempty"`
	Language    string  `json:"language" validate:"omitempty,bcp47_language_tag"`
	Timezone    *string `json:"timezone,omitempty"`
}

// Response represents a learner profile response.
type Response struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	DateOfBirth *string   `json:"date_of_birth,omitempty"`
	School      string    `json:"school,omitempty"`
	Country     string    `json:"country,omitempty"`
	Grade       string    `json:"grade"`
	ParentName  *string   `json:"parent_name,omitempty"`
	ParentEmail *string   `json:"parent_email,omitempty"`
	Language    string    `json:"language"`
	Timezone    *string   `json:"timezone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toResponse(s *domain.Student) Response {
	return Response{
		ID:          s.ID.String(),
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		DateOfBirth: s.DateOfBirth,
		School:      s.School,
		Country:     s.Country,
		Grade:       s.Grade,
		ParentName:  s.ParentName,
		ParentEmail: s.ParentEmail,
		Language:    s.Language,
		Timezone:    s.Timezone,
		CreatedAt:   s.CreatedAt,
	}
}

// Create registers a learner profile for the authenticated user.
// POST /v1/students
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			httputil.Error(w, http.StatusBadRequest, "invalid field: "+verrs[0].Field())
			return
		}
		httputil.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	profile, err := h.studentService.CreateProfile(r.Context(), domain.NewStudentParams{
		UserID:      userID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth,
		School:      req.School,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Country:     req.Country,
		Grade:       req.Grade,
		ParentName:  req.ParentName,
		ParentEmail: req.ParentEmail,
		ParentPhone: req.ParentPhone,
		Language:    req.Language,
		Timezone:    req.Timezone,
	})
	if err != nil {
		if errors.Is(err, domain.ErrStudentAlreadyExists) {
			httputil.Error(w, http.StatusConflict, "a profile already exists for this account")
			return
		}
		h.logger.Error("profile creation failed", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to create profile")
		return
	}

	httputil.JSON(w, http.StatusCreated, toResponse(profile))
}

// GetMine returns the authenticated user's profile.
// GET /v1/students/me
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.studentService.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			httputil.Error(w, http.StatusNotFound, "no profile found")
			return
		}
		h.logger.Error("profile lookup failed", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(profile))
}

// GetByID returns a profile by id. Profiles are only visible to their owner,
// so a foreign id reads as not found.
// GET /v1/students/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	profile, err := h.studentService.GetProfileByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			httputil.Error(w, http.StatusNotFound, "no profile found")
			return
		}
		h.logger.Error("profile lookup failed", "error", err, "student_id", id)
		httputil.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	if profile.UserID != userID {
		httputil.Error(w, http.StatusNotFound, "no profile found")
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(profile))
}
