package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/eduvoice/eduvoice-backend/internal/config"
	"github.com/eduvoice/eduvoice-backend/internal/httputil"
)

// RateLimitConfig holds rate limiting configuration for a specific endpoint type.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Logger   *slog.Logger
}

// RateLimit creates an IP-based rate limiter middleware with logging.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Logger != nil {
				cfg.Logger.Warn("rate limit exceeded",
					"ip", r.RemoteAddr,
					"path", r.URL.Path,
					"method", r.Method,
					"user_agent", r.UserAgent(),
				)
			}
			httputil.Error(w, http.StatusTooManyRequests, "rate limit exceeded. please try again later")
		}),
	)
}

// NoRateLimit returns a no-op middleware when rate limiting is disabled.
func NoRateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return next
	}
}

// RateLimiters bundles the per-surface limiters.
type RateLimiters struct {
	// Auth covers credential endpoints (register, login, refresh).
	Auth func(http.Handler) http.Handler
	// Ask covers question submission.
	Ask func(http.Handler) http.Handler
	// Audio covers audio uploads for transcription.
	Audio func(http.Handler) http.Handler
}

// NewRateLimiters creates the per-surface limiters from configuration.
func NewRateLimiters(cfg config.RateLimitConfig, logger *slog.Logger) RateLimiters {
	if !cfg.Enabled {
		noOp := NoRateLimit()
		return RateLimiters{Auth: noOp, Ask: noOp, Audio: noOp}
	}

	return RateLimiters{
		Auth: RateLimit(RateLimitConfig{
			Requests: cfg.AuthRequests,
			Window:   cfg.AuthWindow,
			Logger:   logger,
		}),
		Ask: RateLimit(RateLimitConfig{
			Requests: cfg.AskRequests,
			Window:   cfg.AskWindow,
			Logger:   logger,
		}),
		Audio: RateLimit(RateLimitConfig{
			Requests: cfg.AudioRequests,
			Window:   cfg.AudioWindow,
			Logger:   logger,
		}),
	}
}
