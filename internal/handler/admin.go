package handler

import (
	"log/slog"
	"net/http"

	"github.com/ranklens/ranklens/internal/domain"
	"github.com/ranklens/ranklens/internal/service"
)

// AdminHandler serves pricing overrides and user moderation. Routes using it
// must be behind RequireAdmin.
type AdminHandler struct {
	admin  service.AdminService
	logger *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin service.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		logger: logger,
	}
}

// ListPlans handles GET /api/admin/plans.
func (h *AdminHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.admin.ListPlans(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

type setPlanRequest struct {
	Projects    int64 `json:"projects"`
	Submissions int64 `json:"submissions"`
	SEOTools    int64 `json:"seoTools"`
	Backlinks   int64 `json:"backlinks"`
	Reports     int64 `json:"reports"`
}

// SetPlan handles PUT /api/admin/plans/{plan}.
func (h *AdminHandler) SetPlan(w http.ResponseWriter, r *http.Request) {
	plan := domain.Plan(r.PathValue("plan"))

	var req setPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	limits := domain.PlanLimits{
		Projects:    req.Projects,
		Submissions: req.Submissions,
		SEOTools:    req.SEOTools,
		Backlinks:   req.Backlinks,
		Reports:     req.Reports,
	}
	if err := h.admin.SetPlanOverride(r.Context(), plan, limits); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plan": plan, "limits": limits})
}

// DeletePlan handles DELETE /api/admin/plans/{plan}.
func (h *AdminHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	plan := domain.Plan(r.PathValue("plan"))

	if err := h.admin.RemovePlanOverride(r.Context(), plan); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

type banRequest struct {
	Banned bool `json:"banned"`
}

// BanUser handles POST /api/admin/users/{id}/ban. The body may set
// banned=false to reinstate.
func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	req := banRequest{Banned: true}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			ErrorResponse(w, r, h.logger, err)
			return
		}
	}

	if err := h.admin.SetUserBanned(r.Context(), userID, req.Banned); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"userId": userID, "banned": req.Banned})
}
