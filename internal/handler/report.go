package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ranklens/ranklens/internal/auth"
	"github.com/ranklens/ranklens/internal/domain"
	"github.com/ranklens/ranklens/internal/service"
)

// ReportHandler serves report generation and download.
type ReportHandler struct {
	reports service.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

type createReportRequest struct {
	Format string `json:"format"`
}

type reportResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"createdAt"`
}

// Create handles POST /api/projects/{id}/reports.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	projectID, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req createReportRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	stored, err := h.reports.Generate(r.Context(), user.ID, projectID, domain.ReportFormat(req.Format))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"report": reportResponse{
		ID:        stored.ID.String(),
		Title:     stored.Title,
		Format:    string(stored.Format),
		CreatedAt: stored.CreatedAt,
	}})
}

// Download handles GET /api/reports/{id}/download, streaming the stored
// document with a sanitized filename.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	reportID, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	stored, err := h.reports.Get(r.Context(), user.ID, reportID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	filename := service.SanitizeFilename(stored.Title, stored.Format)
	w.Header().Set("Content-Type", stored.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(stored.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(stored.Content); err != nil {
		h.logger.Warn("report download interrupted", "report_id", reportID, "error", err)
	}
}
