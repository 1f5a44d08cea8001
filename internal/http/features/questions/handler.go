package questions

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/eduvoice/eduvoice-backend/internal/http/middleware"
	"github.com/eduvoice/eduvoice-backend/internal/httputil"
	"github.com/eduvoice/eduvoice-backend/pkg/domain"
	"github.com/eduvoice/eduvoice-backend/pkg/qa"
	"github.com/eduvoice/eduvoice-backend/pkg/student"
)

// Handler handles question endpoints.
type Handler struct {
	logger         *slog.Logger
	qaService      *qa.Service
	studentService *student.Service
}

// NewHandler creates a new questions handler.
func NewHandler(logger *slog.Logger, qaService *qa.Service, studentService *student.Service) *Handler {
	return &Handler{
		logger:         logger,
		qaService:      qaService,
		studentService: studentService,
	}
}

// AskRequest represents a question submission.
type AskRequest struct {
	Question string `json:"question"`
}

// QuestionResponse represents one stored exchange.
type QuestionResponse struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(q *domain.Question) QuestionResponse {
	return QuestionResponse{
		ID:        q.ID.String(),
		Question:  q.Question,
		Answer:    q.Answer,
		Language:  q.Language,
		CreatedAt: q.CreatedAt,
	}
}

// Ask answers a question for the authenticated student and records it.
// POST /v1/questions
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if middleware.HandleMaxBytesError(w, err) {
			return
		}
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		httputil.Error(w, http.StatusBadRequest, "question is required")
		return
	}

	profile, err := h.studentService.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			httputil.Error(w, http.StatusNotFound, "no profile found. register a profile before asking questions")
			return
		}
		h.logger.Error("profile lookup failed", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	record, err := h.qaService.Ask(r.Context(), profile, req.Question)
	if err != nil {
		h.logger.Error("ask failed", "error", err, "student_id", profile.ID)
		httputil.Error(w, http.StatusInternalServerError, "failed to answer question")
		return
	}

	httputil.JSON(w, http.StatusCreated, toResponse(record))
}

// Recent lists the authenticated student's latest exchanges, newest first.
// GET /v1/questions/recent?limit=N
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
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

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			httputil.Error(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}

	records, err := h.qaService.RecentQuestions(r.Context(), profile.ID, limit)
	if err != nil {
		h.logger.Error("history lookup failed", "error", err, "student_id", profile.ID)
		httputil.Error(w, http.StatusInternalServerError, "failed to load questions")
		return
	}

	total, err := h.qaService.CountQuestions(r.Context(), profile.ID)
	if err != nil {
		h.logger.Error("history count failed", "error", err, "student_id", profile.ID)
		httputil.Error(w, http.StatusInternalServerError, "failed to load questions")
		return
	}

	out := make([]QuestionResponse, 0, len(records))
	for _, q := range records {
		out = append(out, toResponse(q))
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"questions": out, "total": total})
}
