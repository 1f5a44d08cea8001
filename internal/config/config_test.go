package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("Load() = nil error without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "too-short")
	if _, err := Load(); err == nil {
		t.Error("Load() = nil error with short JWT_SECRET")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-of-at-least-32-chars!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.DBName != "eduvoice" {
		t.Errorf("DBName = %q, want eduvoice", cfg.DBName)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 15m", cfg.AccessTokenTTL)
	}
	if cfg.Answer.BaseURL == "" {
		t.Error("Answer.BaseURL default is empty")
	}
	if cfg.Translate.RequestTimeout == 0 {
		t.Error("Translate.RequestTimeout default is zero")
	}
	if cfg.HasGoogleOAuth() {
		t.Error("HasGoogleOAuth() = true without client credentials")
	}
	if cfg.HasAdminToken() {
		t.Error("HasAdminToken() = true without ADMIN_TOKEN")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-of-at-least-32-chars!")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("TRANSLATE_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d, want 9090", cfg.ServerPort)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 30m", cfg.AccessTokenTTL)
	}
	if cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled = true, want false")
	}
	if cfg.Translate.APIKey != "test-key" {
		t.Errorf("Translate.APIKey = %q, want test-key", cfg.Translate.APIKey)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-of-at-least-32-chars!")
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("ACCESS_TOKEN_TTL", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want default 8080", cfg.ServerPort)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want default 15m", cfg.AccessTokenTTL)
	}
}
