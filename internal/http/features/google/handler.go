package google

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/eduvoice/eduvoice-backend/internal/httputil"
	"github.com/eduvoice/eduvoice-backend/pkg/auth"
)

const (
	stateCookie = "oauth_state"
	nonceCookie = "oauth_nonce"

	stateTTL = 10 * time.Minute
)

// Handler handles Google OAuth endpoints. State and nonce live in short
// HttpOnly cookies so the flow survives multi-replica deployments.
type Handler struct {
	logger         *slog.Logger
	googleService  *auth.GoogleService
	sessionService *auth.SessionService
	cookieConfig   httputil.CookieConfig
	cookieSecure   bool
}

// NewHandler creates a new Google handler.
func NewHandler(logger *slog.Logger, googleService *auth.GoogleService, sessionService *auth.SessionService, cookieSecure bool) *Handler {
	return &Handler{
		logger:         logger,
		googleService:  googleService,
		sessionService: sessionService,
		cookieConfig:   httputil.DefaultCookieConfig(),
		cookieSecure:   cookieSecure,
	}
}

// TokenResponse represents a successful callback response.
type TokenResponse struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// generateRandomString generates a cryptographically secure random string.
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Start initiates the Google OAuth flow.
// GET /v1/auth/google
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	state := generateRandomString(32)
	nonce := generateRandomString(32)

	h.setFlowCookie(w, stateCookie, state)
	h.setFlowCookie(w, nonceCookie, nonce)

	authURL := h.googleService.GenerateAuthURL(state, nonce)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback completes the Google OAuth flow.
// GET /v1/auth/google/callback?state=...&code=...
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	defer h.clearFlowCookies(w)

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Warn("oauth flow denied", "error", errParam)
		httputil.Error(w, http.StatusUnauthorized, "authentication was cancelled or denied")
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		httputil.Error(w, http.StatusBadRequest, "missing state or code")
		return
	}

	stateCk, err := r.Cookie(stateCookie)
	if err != nil || stateCk.Value != state {
		httputil.Error(w, http.StatusUnauthorized, "invalid oauth state")
		return
	}

	nonce := ""
	if nonceCk, err := r.Cookie(nonceCookie); err == nil {
		nonce = nonceCk.Value
	}

	tokenResp, err := h.googleService.ExchangeCode(r.Context(), code)
	if err != nil {
		h.logger.Error("code exchange failed", "error", err)
		httputil.Error(w, http.StatusBadGateway, "failed to exchange authorization code")
		return
	}

	claims, err := h.googleService.ValidateIDToken(r.Context(), tokenResp.IDToken, nonce)
	if err != nil {
		h.logger.Error("id token validation failed", "error", err)
		httputil.Error(w, http.StatusUnauthorized, "invalid identity token")
		return
	}

	userID, err := h.googleService.Authenticate(r.Context(), claims)
	if err != nil {
		h.logger.Error("google authentication failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "authentication failed")
		return
	}

	opts := auth.IssueSessionOpts{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	tokens, err := h.sessionService.IssueSession(r.Context(), userID, opts)
	if err != nil {
		h.logger.Error("failed to issue session", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to issue session")
		return
	}

	h.logger.Info("google sign-in completed", "user_id", userID)

	if httputil.IsMobileClient(r) {
		httputil.JSON(w, http.StatusOK, TokenResponse{
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

	// Land the web client back on the app root.
	redirect := r.URL.Query().Get("redirect_uri")
	if redirect == "" || !isRelativeURL(redirect) {
		redirect = "/"
	}
	http.Redirect(w, r, redirect, http.StatusFound)
}

func isRelativeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

func (h *Handler) setFlowCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/v1/auth/google",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearFlowCookies(w http.ResponseWriter) {
	for _, name := range []string{stateCookie, nonceCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/v1/auth/google",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
