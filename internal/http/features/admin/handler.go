package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/eduvoice/eduvoice-backend/internal/httputil"
	"github.com/eduvoice/eduvoice-backend/pkg/repository"
)

// Handler handles administrative endpoints. Routes are only mounted when an
// admin token is configured.
type Handler struct {
	logger      *slog.Logger
	maintenance *repository.MaintenanceRepository
	adminToken  string
}

// NewHandler creates a new admin handler.
func NewHandler(logger *slog.Logger, maintenance *repository.MaintenanceRepository, adminToken string) *Handler {
	return &Handler{
		logger:      logger,
		maintenance: maintenance,
		adminToken:  adminToken,
	}
}

// ClearRecords wipes all stored data. Intended for test and demo
// environments.
// DELETE /v1/admin/records
func (h *Handler) ClearRecords(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Admin-Token")
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
		httputil.Error(w, http.StatusUnauthorized, "invalid admin token")
		return
	}

	if err := h.maintenance.ClearAll(r.Context()); err != nil {
		h.logger.Error("failed to clear records", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to clear records")
		return
	}

	h.logger.Warn("all records cleared", "ip", r.RemoteAddr)

	w.WriteHeader(http.StatusNoContent)
}
