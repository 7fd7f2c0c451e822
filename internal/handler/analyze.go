package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/auth"
	"github.com/ranklens/ranklens/internal/domain"
	"github.com/ranklens/ranklens/internal/service"
)

// AnalyzeHandler serves the SEO tool endpoints.
type AnalyzeHandler struct {
	analysis service.AnalysisService
	logger   *slog.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(analysis service.AnalysisService, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysis: analysis,
		logger:   logger,
	}
}

type analyzeRequest struct {
	URL       string  `json:"url"`
	ToolType  string  `json:"tool_type"`
	ProjectID *string `json:"project_id"`
}

// Analyze handles POST /api/analyze.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	params := service.AnalyzeParams{
		UserID:   user.ID,
		URL:      req.URL,
		ToolType: domain.ToolType(req.ToolType),
	}
	if req.ProjectID != nil && *req.ProjectID != "" {
		projectID, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			ErrorResponse(w, r, h.logger, domain.Invalid("", "project_id is not a valid ID"))
			return
		}
		params.ProjectID = &projectID
	}

	result, err := h.analysis.Analyze(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analysis": result})
}

// History handles GET /api/analyses. Returns the caller's recent tool runs.
func (h *AnalyzeHandler) History(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	runs, err := h.analysis.History(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": runs})
}
