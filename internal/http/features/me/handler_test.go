package me

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/eduvoice/eduvoice-backend/internal/http/middleware"
)

func newTestHandler() *Handler {
	logger := slog.New(slog.DiscardHandler)
	return NewHandler(logger, nil, nil)
}

func authedRequest(method string, body []byte) *http.Request {
	req := httptest.NewRequest(method, "/v1/me", bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.New())
	return req.WithContext(ctx)
}

func TestMeRequiresAuth(t *testing.T) {
	handler := newTestHandler()

	endpoints := []struct {
		name string
		fn   http.HandlerFunc
	}{
		{"get", handler.GetMe},
		{"update", handler.UpdateMe},
		{"delete", handler.DeleteMe},
	}

	for _, ep := range endpoints {
		t.Run(ep.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ep.fn(rec, httptest.NewRequest(http.MethodGet, "/v1/me", nil))

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rec.Code)
			}
		})
	}
}

func TestUpdateMeValidation(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{invalid`},
		{"missing name", `{}`},
		{"blank name", `{"name":"   "}`},
		{"name too long", `{"name":"` + strings.Repeat("a", 101) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.UpdateMe(rec, authedRequest(http.MethodPatch, []byte(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rec.Code)
			}
		})
	}
}
