package password

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/eduvoice/eduvoice-backend/internal/httputil"
	"github.com/eduvoice/eduvoice-backend/pkg/auth"
	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

// Handler handles password authentication endpoints.
type Handler struct {
	logger          *slog.Logger
	passwordService *auth.PasswordService
	sessionService  *auth.SessionService
	cookieConfig    httputil.CookieConfig
}

// NewHandler creates a new password handler.
func NewHandler(logger *slog.Logger, passwordService *auth.PasswordService, sessionService *auth.SessionService) *Handler {
	return &Handler{
		logger:          logger,
		passwordService: passwordService,
		sessionService:  sessionService,
		cookieConfig:    httputil.DefaultCookieConfig(),
	}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse represents a token response (for mobile clients).
type TokenResponse struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Register handles user registration.
// POST /v1/auth/password/register
//
// For web clients: Sets HttpOnly cookies, returns minimal response.
// For mobile clients (X-Client-Type: mobile): Returns tokens in response body.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.passwordService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			httputil.Error(w, http.StatusConflict, "user already exists")
		case errors.Is(err, domain.ErrInvalidEmail):
			httputil.Error(w, http.StatusBadRequest, "invalid email address")
		case errors.Is(err, domain.ErrWeakPassword):
			httputil.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("registration failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	opts := auth.IssueSessionOpts{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	tokens, err := h.sessionService.IssueSession(r.Context(), user.ID, opts)
	if err != nil {
		h.logger.Error("failed to issue session", "error", err, "user_id", user.ID)
		httputil.Error(w, http.StatusInternalServerError, "failed to issue session")
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)

	h.writeTokenResponse(w, r, tokens, http.StatusCreated)
}

// Login handles user login.
// POST /v1/auth/password/login
//
// Unknown email and wrong password fail differently: 404 versus 401. The
// client uses the distinction to route new users to registration.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.passwordService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			httputil.Error(w, http.StatusNotFound, "no account found with that email")
		case errors.Is(err, domain.ErrInvalidCredentials):
			httputil.Error(w, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, domain.ErrAccountLocked):
			httputil.Error(w, http.StatusForbidden, "account temporarily locked due to too many failed login attempts. Please try again in 15 minutes.")
		default:
			h.logger.Error("authentication failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	opts := auth.IssueSessionOpts{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	tokens, err := h.sessionService.IssueSession(r.Context(), user.ID, opts)
	if err != nil {
		h.logger.Error("failed to issue session", "error", err, "user_id", user.ID)
		httputil.Error(w, http.StatusInternalServerError, "failed to issue session")
		return
	}

	h.writeTokenResponse(w, r, tokens, http.StatusOK)
}

// writeTokenResponse writes tokens as cookies (web) or JSON (mobile).
func (h *Handler) writeTokenResponse(w http.ResponseWriter, r *http.Request, tokens *domain.TokenPair, status int) {
	if httputil.IsMobileClient(r) {
		httputil.JSON(w, status, TokenResponse{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			TokenType:    tokens.TokenType,
			ExpiresIn:    tokens.ExpiresIn,
		})
		return
	}

	httputil.SetAuthCookies(
		w,
		tokens.AccessToken,
		tokens.RefreshToken,
		h.sessionService.AccessTokenTTL(),
		h.sessionService.RefreshTokenTTL(),
		h.cookieConfig,
	)

	httputil.JSON(w, status, TokenResponse{
		TokenType: tokens.TokenType,
		ExpiresIn: tokens.ExpiresIn,
	})
}
