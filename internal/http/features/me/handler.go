package me

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eduvoice/eduvoice-backend/internal/http/middleware"
	"github.com/eduvoice/eduvoice-backend/internal/httputil"
	"github.com/eduvoice/eduvoice-backend/pkg/auth"
	"github.com/eduvoice/eduvoice-backend/pkg/domain"
	"github.com/eduvoice/eduvoice-backend/pkg/repository"
)

// Handler handles user profile endpoints.
type Handler struct {
	logger         *slog.Logger
	users          *repository.UsersRepository
	sessionService *auth.SessionService
	cookieConfig   httputil.CookieConfig
}

// NewHandler creates a new me handler.
func NewHandler(logger *slog.Logger, users *repository.UsersRepository, sessionService *auth.SessionService) *Handler {
	return &Handler{
		logger:         logger,
		users:          users,
		sessionService: sessionService,
		cookieConfig:   httputil.DefaultCookieConfig(),
	}
}

// UserResponse represents the user profile response.
type UserResponse struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Name           *string `json:"name,omitempty"`
	AuthProvider   string  `json:"auth_provider"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// GetMe returns the current user's profile.
// GET /v1/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		httputil.Error(w, http.StatusNotFound, "user not found")
		return
	}

	httputil.JSON(w, http.StatusOK, UserResponse{
		ID:             user.ID.String(),
		Email:          user.Email,
		Name:           user.Name,
		AuthProvider:   user.AuthProvider,
		ProfilePicture: user.ProfilePicture,
	})
}

// UpdateRequest represents a profile update request.
type UpdateRequest struct {
	Name string `json:"name"`
}

// UpdateMe updates the current user's display name.
// PATCH /v1/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httputil.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(name) > 100 {
		httputil.Error(w, http.StatusBadRequest, "name must be 100 characters or fewer")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		httputil.Error(w, http.StatusNotFound, "user not found")
		return
	}

	user.Name = &name
	if err := h.users.Update(r.Context(), user); err != nil {
		h.logger.Error("failed to update user", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	httputil.JSON(w, http.StatusOK, UserResponse{
		ID:             user.ID.String(),
		Email:          user.Email,
		Name:           user.Name,
		AuthProvider:   user.AuthProvider,
		ProfilePicture: user.ProfilePicture,
	})
}

// DeleteMe soft-deletes the current user's account and revokes all sessions.
// DELETE /v1/me
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.users.SoftDelete(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			httputil.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("failed to delete user", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to delete account")
		return
	}

	if err := h.sessionService.RevokeAllSessions(r.Context(), userID); err != nil {
		h.logger.Error("failed to revoke sessions after account deletion", "error", err, "user_id", userID)
	}

	httputil.ClearAuthCookies(w, h.cookieConfig)
	h.logger.Info("account deleted", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}
