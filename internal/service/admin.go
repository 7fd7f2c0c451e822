package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/domain"
	"github.com/ranklens/ranklens/internal/repository"
)

// PlanOverview pairs a plan's static ceilings with its stored override.
type PlanOverview struct {
	Plan      domain.Plan        `json:"plan"`
	Defaults  domain.PlanLimits  `json:"defaults"`
	Override  *domain.PlanLimits `json:"override,omitempty"`
	Effective domain.PlanLimits  `json:"effective"`
}

// AdminService defines pricing and moderation operations for admins.
type AdminService interface {
	// ListPlans returns every plan with its default, override, and
	// effective ceilings.
	ListPlans(ctx context.Context) ([]PlanOverview, error)

	// SetPlanOverride stores admin-edited ceilings for a plan.
	SetPlanOverride(ctx context.Context, plan domain.Plan, limits domain.PlanLimits) error

	// RemovePlanOverride restores a plan to the static table.
	RemovePlanOverride(ctx context.Context, plan domain.Plan) error

	// SetUserBanned soft-bans or reinstates a user. Banned users keep
	// their rows; every billable action is refused while banned.
	SetUserBanned(ctx context.Context, userID uuid.UUID, banned bool) error
}

type adminService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(queries *repository.Queries, logger *slog.Logger) AdminService {
	return &adminService{
		queries: queries,
		logger:  logger,
	}
}

// ListPlans returns all plans with defaults, overrides, and effective limits.
func (s *adminService) ListPlans(ctx context.Context) ([]PlanOverview, error) {
	const op = "admin.list_plans"

	overrides, err := s.queries.ListPlanOverrides(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list plan overrides")
	}

	plans := []domain.Plan{domain.PlanFree, domain.PlanPro, domain.PlanBusiness, domain.PlanEnterprise}
	out := make([]PlanOverview, 0, len(plans))
	for _, plan := range plans {
		overview := PlanOverview{
			Plan:      plan,
			Defaults:  domain.GetPlanLimits(plan),
			Effective: domain.GetPlanLimits(plan),
		}
		if override, ok := overrides[plan]; ok {
			o := override
			overview.Override = &o
			overview.Effective = o
		}
		out = append(out, overview)
	}
	return out, nil
}

// SetPlanOverride validates and stores admin-edited ceilings.
func (s *adminService) SetPlanOverride(ctx context.Context, plan domain.Plan, limits domain.PlanLimits) error {
	const op = "admin.set_plan_override"

	if !validPlan(plan) {
		return domain.Invalid(op, "Unknown plan")
	}
	for _, category := range domain.AllCategories {
		if v := limits.Get(category); v < domain.Unlimited {
			return domain.Invalid(op, "Limits must be -1 (unlimited) or a non-negative count")
		}
	}

	if err := s.queries.UpsertPlanOverride(ctx, plan, limits); err != nil {
		return domain.Internal(err, op, "failed to store plan override")
	}
	s.logger.Info("plan override stored", "plan", plan)
	return nil
}

// RemovePlanOverride deletes an override, restoring static defaults.
func (s *adminService) RemovePlanOverride(ctx context.Context, plan domain.Plan) error {
	const op = "admin.remove_plan_override"

	if !validPlan(plan) {
		return domain.Invalid(op, "Unknown plan")
	}
	if err := s.queries.DeletePlanOverride(ctx, plan); err != nil {
		return domain.Internal(err, op, "failed to delete plan override")
	}
	s.logger.Info("plan override removed", "plan", plan)
	return nil
}

// SetUserBanned toggles the soft-ban flag on a user.
func (s *adminService) SetUserBanned(ctx context.Context, userID uuid.UUID, banned bool) error {
	const op = "admin.set_user_banned"

	if _, err := s.queries.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NotFound(op, "user", userID.String())
		}
		return domain.Internal(err, op, "failed to load user")
	}
	if err := s.queries.SetUserBanned(ctx, userID, banned); err != nil {
		return domain.Internal(err, op, "failed to update user")
	}
	s.logger.Info("user ban flag updated", "user_id", userID, "banned", banned)
	return nil
}

func validPlan(plan domain.Plan) bool {
	switch plan {
	case domain.PlanFree, domain.PlanPro, domain.PlanBusiness, domain.PlanEnterprise:
		return true
	}
	return false
}
