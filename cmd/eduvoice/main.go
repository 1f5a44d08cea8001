package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eduvoice/eduvoice-backend/internal/adapter/answer"
	"github.com/eduvoice/eduvoice-backend/internal/adapter/speech"
	"github.com/eduvoice/eduvoice-backend/internal/adapter/translate"
	"github.com/eduvoice/eduvoice-backend/internal/config"
	"github.com/eduvoice/eduvoice-backend/internal/database"
	httpserver "github.com/eduvoice/eduvoice-backend/internal/http"
	"github.com/eduvoice/eduvoice-backend/internal/metrics"
	"github.com/eduvoice/eduvoice-backend/pkg/auth"
	"github.com/eduvoice/eduvoice-backend/pkg/qa"
	"github.com/eduvoice/eduvoice-backend/pkg/repository"
	"github.com/eduvoice/eduvoice-backend/pkg/student"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	dbConfig := repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
	db, err := repository.NewDB(dbConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	// Run schema migrations
	if err := database.RunMigrations(dbConfig.URL()); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	usersRepo := repository.NewUsersRepository(db)
	credsRepo := repository.NewCredentialsRepository(db)
	identitiesRepo := repository.NewIdentitiesRepository(db)
	sessionsRepo := repository.NewSessionsRepository(db)
	studentsRepo := repository.NewStudentsRepository(db)
	questionsRepo := repository.NewQuestionsRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)

	// Metrics
	registry := prometheus.NewRegistry()
	recorder := metrics.NewCollector(registry)

	// Initialize services
	passwordPolicy := &auth.PasswordPolicy{MinLength: cfg.PasswordMinLength}
	passwordService := auth.NewPasswordService(db, usersRepo, credsRepo, passwordPolicy)
	sessionService := auth.NewSessionService(auth.SessionConfig{
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		JWTSecret:       []byte(cfg.JWTSecret),
		Issuer:          cfg.JWTIssuer,
	}, sessionsRepo, usersRepo)

	var googleService *auth.GoogleService
	if cfg.HasGoogleOAuth() {
		googleService = auth.NewGoogleService(
			auth.GoogleConfig{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURI:  cfg.GoogleRedirectURI,
			},
			db,
			usersRepo,
			identitiesRepo,
		)
		logger.Info("Google OAuth enabled")
	}

	// Initialize adapters
	ctx := context.Background()
	recognizer := speech.New(ctx, cfg.Speech, logger, recorder)
	defer recognizer.Close()
	translator := translate.New(cfg.Translate, logger, recorder)
	generator := answer.New(cfg.Answer, logger, recorder)

	logger.Info("adapters initialized",
		"speech_available", recognizer.IsAvailable(),
		"translate_available", translator.IsAvailable(),
	)

	studentService := student.NewService(studentsRepo, logger)
	qaService := qa.NewService(questionsRepo, generator, translator, logger, recorder)

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          logger,
		PasswordService: passwordService,
		GoogleService:   googleService,
		SessionService:  sessionService,
		StudentService:  studentService,
		QAService:       qaService,
		Recognizer:      recognizer,
		UsersRepo:       usersRepo,
		Maintenance:     maintenanceRepo,
		MetricsRegistry: registry,

		RateLimit:          cfg.RateLimit,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		MaxAudioUploadSize: cfg.MaxAudioUploadSize,
		AdminToken:         cfg.AdminToken,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Periodically purge expired sessions so the table does not grow
	// without bound.
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-janitorCtx.Done():
				return
			case <-ticker.C:
				deleted, err := sessionsRepo.DeleteExpired(janitorCtx, time.Now())
				if err != nil {
					logger.Error("session cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					logger.Info("expired sessions deleted", "count", deleted)
				}
			}
		}
	}()

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
