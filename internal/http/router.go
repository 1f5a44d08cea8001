package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eduvoice/eduvoice-backend/internal/config"
	"github.com/eduvoice/eduvoice-backend/internal/http/features/admin"
	"github.com/eduvoice/eduvoice-backend/internal/http/features/google"
	"github.com/eduvoice/eduvoice-backend/internal/http/features/me"
	"github.com/eduvoice/eduvoice-backend/internal/http/features/password"
	"github.com/eduvoice/eduvoice-backend/internal/http/features/questions"
	"github.com/eduvoice/eduvoice-backend/internal/http/features/session"
	speechfeature "github.com/eduvoice/eduvoice-backend/internal/http/features/speech"
	"github.com/eduvoice/eduvoice-backend/internal/http/features/students"
	"github.com/eduvoice/eduvoice-backend/internal/http/middleware"
	"github.com/eduvoice/eduvoice-backend/internal/httputil"
	"github.com/eduvoice/eduvoice-backend/internal/metrics"
	"github.com/eduvoice/eduvoice-backend/pkg/auth"
	"github.com/eduvoice/eduvoice-backend/pkg/qa"
	"github.com/eduvoice/eduvoice-backend/pkg/repository"
	"github.com/eduvoice/eduvoice-backend/pkg/student"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger          *slog.Logger
	PasswordService *auth.PasswordService
	GoogleService   *auth.GoogleService // nil when OAuth is not configured
	SessionService  *auth.SessionService
	StudentService  *student.Service
	QAService       *qa.Service
	Recognizer      speechfeature.Recognizer
	UsersRepo       *repository.UsersRepository
	Maintenance     *repository.MaintenanceRepository
	MetricsRegistry *prometheus.Registry

	RateLimit          config.RateLimitConfig
	MaxRequestBodySize int64
	MaxAudioUploadSize int64
	AdminToken         string
	CookieSecure       bool
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders())

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.MetricsRegistry != nil {
		r.Get("/metrics", metrics.Handler(cfg.MetricsRegistry).ServeHTTP)
	}

	limiters := middleware.NewRateLimiters(cfg.RateLimit, cfg.Logger)
	jsonBody := middleware.RequestSizeLimit(cfg.MaxRequestBodySize)
	audioBody := middleware.RequestSizeLimit(cfg.MaxAudioUploadSize)
	authed := middleware.Auth(cfg.SessionService)

	// Password authentication
	passwordHandler := password.NewHandler(cfg.Logger, cfg.PasswordService, cfg.SessionService)
	r.Group(func(r chi.Router) {
		r.Use(limiters.Auth)
		r.Use(jsonBody)
		r.Post("/v1/auth/password/register", passwordHandler.Register)
		r.Post("/v1/auth/password/login", passwordHandler.Login)
	})

	// Google OAuth (if configured)
	if cfg.GoogleService != nil {
		googleHandler := google.NewHandler(cfg.Logger, cfg.GoogleService, cfg.SessionService, cfg.CookieSecure)
		r.Get("/v1/auth/google", googleHandler.Start)
		r.Get("/v1/auth/google/callback", googleHandler.Callback)
	}

	// Sessions
	sessionHandler := session.NewHandler(cfg.SessionService)
	r.Group(func(r chi.Router) {
		r.Use(limiters.Auth)
		r.Use(jsonBody)
		r.Post("/v1/auth/refresh", sessionHandler.Refresh)
	})
	r.With(jsonBody).Post("/v1/auth/logout", sessionHandler.Logout)
	r.With(authed).Post("/v1/auth/logout/all", sessionHandler.LogoutAll)

	// Current user
	meHandler := me.NewHandler(cfg.Logger, cfg.UsersRepo, cfg.SessionService)
	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Get("/v1/me", meHandler.GetMe)
		r.With(jsonBody).Patch("/v1/me", meHandler.UpdateMe)
		r.Delete("/v1/me", meHandler.DeleteMe)
	})

	// Learner profiles
	studentsHandler := students.NewHandler(cfg.Logger, cfg.StudentService)
	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Use(jsonBody)
		r.Post("/v1/students", studentsHandler.Create)
		r.Get("/v1/students/me", studentsHandler.GetMine)
		r.Get("/v1/students/{id}", studentsHandler.GetByID)
	})

	// Questions
	questionsHandler := questions.NewHandler(cfg.Logger, cfg.QAService, cfg.StudentService)
	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Use(jsonBody)
		r.With(limiters.Ask).Post("/v1/questions", questionsHandler.Ask)
		r.Get("/v1/questions/recent", questionsHandler.Recent)
	})

	// Speech
	speechHandler := speechfeature.NewHandler(cfg.Logger, cfg.Recognizer)
	r.Get("/v1/speech/availability", speechHandler.Availability)
	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Use(limiters.Audio)
		r.Use(audioBody)
		r.Post("/v1/speech/transcriptions", speechHandler.Transcribe)
		r.Delete("/v1/speech/transcriptions", speechHandler.Cancel)
	})

	// Administrative wipe (if a token is configured)
	if cfg.AdminToken != "" {
		adminHandler := admin.NewHandler(cfg.Logger, cfg.Maintenance, cfg.AdminToken)
		r.Delete("/v1/admin/records", adminHandler.ClearRecords)
	}

	return r
}
