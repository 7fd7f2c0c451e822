package handler

import (
	"log/slog"
	"net/http"

	"github.com/ranklens/ranklens/internal/auth"
	"github.com/ranklens/ranklens/internal/service"
)

// UsageHandler serves the tenant usage dashboard data.
type UsageHandler struct {
	usage  service.UsageService
	logger *slog.Logger
}

// NewUsageHandler creates a new UsageHandler.
func NewUsageHandler(usage service.UsageService, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		usage:  usage,
		logger: logger,
	}
}

// Stats handles GET /api/usage.
func (h *UsageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	stats, err := h.usage.GetUsageStats(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"usage": stats})
}
