package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int

	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// Adapters
	Speech    SpeechConfig
	Translate TranslateConfig
	Answer    AnswerConfig

	// Admin
	AdminToken string

	// HTTP hardening
	RateLimit          RateLimitConfig
	MaxRequestBodySize int64
	MaxAudioUploadSize int64

	// Password policy
	PasswordMinLength int
}

// SpeechConfig configures the Google Cloud Speech adapter.
type SpeechConfig struct {
	// CredentialsFile is a service account JSON path. When empty, application
	// default credentials are tried; when those are absent too the adapter
	// reports unavailable.
	CredentialsFile string
	Enabled         bool
	RequestTimeout  time.Duration
}

// TranslateConfig configures the translation adapter.
type TranslateConfig struct {
	APIKey         string
	Endpoint       string
	RequestTimeout time.Duration
}

// AnswerConfig configures the answer-generation adapter.
type AnswerConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	MaxTokens      int
	RequestTimeout time.Duration
}

// RateLimitConfig holds request rate limiting configuration.
type RateLimitConfig struct {
	Enabled       bool
	AuthRequests  int
	AuthWindow    time.Duration
	AskRequests   int
	AskWindow     time.Duration
	AudioRequests int
	AudioWindow   time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "eduvoice"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTIssuer:       getEnv("JWT_ISSUER", "eduvoice"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),

		Speech: SpeechConfig{
			CredentialsFile: getEnv("SPEECH_CREDENTIALS_FILE", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
			Enabled:         getEnvBool("SPEECH_ENABLED", true),
			RequestTimeout:  getEnvDuration("SPEECH_REQUEST_TIMEOUT", 60*time.Second),
		},
		Translate: TranslateConfig{
			APIKey:         getEnv("TRANSLATE_API_KEY", ""),
			Endpoint:       getEnv("TRANSLATE_ENDPOINT", "https://translation.googleapis.com/language/translate/v2"),
			RequestTimeout: getEnvDuration("TRANSLATE_REQUEST_TIMEOUT", 10*time.Second),
		},
		Answer: AnswerConfig{
			APIKey:         getEnv("ANSWER_API_KEY", ""),
			BaseURL:        getEnv("ANSWER_BASE_URL", "https://api.together.xyz/v1"),
			Model:          getEnv("ANSWER_MODEL", "meta-llama/Llama-3.3-70B-Instruct-Turbo"),
			MaxTokens:      getEnvInt("ANSWER_MAX_TOKENS", 1000),
			RequestTimeout: getEnvDuration("ANSWER_REQUEST_TIMEOUT", 30*time.Second),
		},

		AdminToken: getEnv("ADMIN_TOKEN", ""),

		RateLimit: RateLimitConfig{
			Enabled:       getEnvBool("RATE_LIMIT_ENABLED", true),
			AuthRequests:  getEnvInt("RATE_LIMIT_AUTH_REQUESTS", 10),
			AuthWindow:    getEnvDuration("RATE_LIMIT_AUTH_WINDOW", time.Minute),
			AskRequests:   getEnvInt("RATE_LIMIT_ASK_REQUESTS", 20),
			AskWindow:     getEnvDuration("RATE_LIMIT_ASK_WINDOW", time.Minute),
			AudioRequests: getEnvInt("RATE_LIMIT_AUDIO_REQUESTS", 10),
			AudioWindow:   getEnvDuration("RATE_LIMIT_AUDIO_WINDOW", time.Minute),
		},
		MaxRequestBodySize: getEnvInt64("MAX_REQUEST_BODY_SIZE", 1<<20),    // 1 MB
		MaxAudioUploadSize: getEnvInt64("MAX_AUDIO_UPLOAD_SIZE", 10<<20),   // 10 MB

		PasswordMinLength: getEnvInt("PASSWORD_MIN_LENGTH", 8),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	return cfg, nil
}

// HasGoogleOAuth returns true if Google OAuth is configured.
func (c *Config) HasGoogleOAuth() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// HasAdminToken returns true if the administrative wipe endpoint is enabled.
func (c *Config) HasAdminToken() bool {
	return c.AdminToken != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
