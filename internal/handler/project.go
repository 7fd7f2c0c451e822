package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/auth"
	"github.com/ranklens/ranklens/internal/domain"
	"github.com/ranklens/ranklens/internal/service"
)

// ProjectHandler serves project CRUD plus nested submissions and backlinks.
type ProjectHandler struct {
	projects    service.ProjectService
	submissions service.SubmissionService
	backlinks   service.BacklinkService
	logger      *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects service.ProjectService, submissions service.SubmissionService, backlinks service.BacklinkService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects:    projects,
		submissions: submissions,
		backlinks:   backlinks,
		logger:      logger,
	}
}

type projectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		URL:       p.URL,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

// pathUUID parses a UUID path segment, returning a not-found error on
// malformed IDs so the response is indistinguishable from a missing row.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.NotFound("", "resource", r.PathValue(name))
	}
	return id, nil
}

// List handles GET /api/projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	projects, err := h.projects.List(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]projectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, toProjectResponse(&projects[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

type createProjectRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Create handles POST /api/projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	project, err := h.projects.Create(r.Context(), domain.CreateProjectParams{
		UserID: user.ID,
		Name:   req.Name,
		URL:    req.URL,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"project": toProjectResponse(project)})
}

// Get handles GET /api/projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	projectID, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	project, err := h.projects.Get(r.Context(), user.ID, projectID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": toProjectResponse(project)})
}

// Delete handles DELETE /api/projects/{id}.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	projectID, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.projects.Delete(r.Context(), user.ID, projectID); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// Submissions
// =============================================================================

type createSubmissionRequest struct {
	Directory string `json:"directory"`
}

type submissionResponse struct {
	ID        string    `json:"id"`
	Directory string    `json:"directory"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateSubmission handles POST /api/projects/{id}/submissions.
func (h *ProjectHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	projectID, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req createSubmissionRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	submission, err := h.submissions.Submit(r.Context(), user.ID, projectID, req.Directory)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"submission": submissionResponse{
		ID:        submission.ID.String(),
		Directory: submission.Directory,
		Status:    string(submission.Status),
		CreatedAt: submission.CreatedAt,
	}})
}

// ListSubmissions handles GET /api/projects/{id}/submissions.
func (h *ProjectHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	projectID, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	submissions, err := h.submissions.List(r.Context(), user.ID, projectID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]submissionResponse, 0, len(submissions))
	for _, s := range submissions {
		out = append(out, submissionResponse{
			ID:        s.ID.String(),
			Directory: s.Directory,
			Status:    string(s.Status),
			CreatedAt: s.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": out})
}

// =============================================================================
// Backlinks
// =============================================================================

type createBacklinkRequest struct {
	SourceURL string `json:"sourceUrl"`
	TargetURL string `json:"targetUrl"`
}

type backlinkResponse struct {
	ID        string    `json:"id"`
	SourceURL string    `json:"sourceUrl"`
	TargetURL string    `json:"targetUrl"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateBacklink handles POST /api/projects/{id}/backlinks.
func (h *ProjectHandler) CreateBacklink(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	projectID, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req createBacklinkRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	backlink, err := h.backlinks.Add(r.Context(), user.ID, projectID, req.SourceURL, req.TargetURL)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"backlink": backlinkResponse{
		ID:        backlink.ID.String(),
		SourceURL: backlink.SourceURL,
		TargetURL: backlink.TargetURL,
		Status:    string(backlink.Status),
		CreatedAt: backlink.CreatedAt,
	}})
}

// MarkBacklinkLost handles POST /api/projects/{id}/backlinks/{backlinkId}/lost.
// Lost backlinks stop counting against the backlinks ceiling.
func (h *ProjectHandler) MarkBacklinkLost(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	projectID, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	backlinkID, err := pathUUID(r, "backlinkId")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.backlinks.MarkLost(r.Context(), user.ID, projectID, backlinkID); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "lost"})
}

// ListBacklinks handles GET /api/projects/{id}/backlinks.
func (h *ProjectHandler) ListBacklinks(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	projectID, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	backlinks, err := h.backlinks.List(r.Context(), user.ID, projectID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]backlinkResponse, 0, len(backlinks))
	for _, b := range backlinks {
		out = append(out, backlinkResponse{
			ID:        b.ID.String(),
			SourceURL: b.SourceURL,
			TargetURL: b.TargetURL,
			Status:    string(b.Status),
			CreatedAt: b.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"backlinks": out})
}
