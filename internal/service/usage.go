// Package service contains the business logic layer.
//
// This file implements the usage accountant: it gatekeeps billable actions
// against plan ceilings and records consumption. Decisions are always made
// from live row counts; the cached counters on the user row are refreshed
// as a side effect but never trusted.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/domain"
	"github.com/ranklens/ranklens/internal/metrics"
	"github.com/ranklens/ranklens/internal/repository"
)

// =============================================================================
// Interface Definitions
// =============================================================================

// UsageStore is the persistence surface the accountant needs. It is
// satisfied by *repository.Queries.
type UsageStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateUserCachedUsage(ctx context.Context, id uuid.UUID, category domain.UsageCategory, value int64) error

	CountProjectsByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountSuccessfulSubmissionsByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	CountSubmissionsByProject(ctx context.Context, projectID uuid.UUID, from, to time.Time) (int64, error)
	CountToolUsageByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	CountActiveBacklinksByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountReportsByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)

	GetProjectByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	UpdateProjectStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus) error

	GetPlanOverride(ctx context.Context, plan domain.Plan) (*domain.PlanLimits, error)
}

// TrackOptions carries per-call context for a tracking attempt.
// Submissions require a project; tool runs may reference one.
type TrackOptions struct {
	ProjectID *uuid.UUID
}

// UsageService defines the accounting operations.
type UsageService interface {
	// ResolveLimits returns the effective ceilings for a plan and role.
	// Admins are always unlimited; otherwise an admin-edited pricing
	// override applies when present, falling back to the static table.
	ResolveLimits(ctx context.Context, plan domain.Plan, role domain.Role) domain.PlanLimits

	// TrackUsage checks a projected increment against the monthly ceiling
	// and, for submissions and tool runs, the same-day ceiling. A denial is
	// returned as an unsuccessful TrackResult, not an error. On success the
	// cached counter is refreshed and a draft project touched by its first
	// submission or tool run is promoted to active.
	TrackUsage(ctx context.Context, userID uuid.UUID, category domain.UsageCategory, increment int64, opts TrackOptions) (*domain.TrackResult, error)

	// GetUsageStats assembles the tenant's consumption for display.
	GetUsageStats(ctx context.Context, userID uuid.UUID) (*domain.UsageStats, error)
}

// =============================================================================
// Implementation
// =============================================================================

type usageService struct {
	db      *sql.DB
	queries *repository.Queries
	store   UsageStore
	logger  *slog.Logger
}

// NewUsageService creates a UsageService backed by the database. TrackUsage
// runs its check-then-increment inside a transaction with the user row
// locked, so concurrent actions by the same tenant cannot race past the
// ceiling.
func NewUsageService(db *sql.DB, queries *repository.Queries, logger *slog.Logger) UsageService {
	return &usageService{
		db:      db,
		queries: queries,
		store:   queries,
		logger:  logger,
	}
}

// NewUsageServiceWithStore creates a UsageService on a bare store without
// transaction support. Used in tests.
func NewUsageServiceWithStore(store UsageStore, logger *slog.Logger) UsageService {
	return &usageService{store: store, logger: logger}
}

// ResolveLimits returns the effective ceilings for a plan and role.
func (s *usageService) ResolveLimits(ctx context.Context, plan domain.Plan, role domain.Role) domain.PlanLimits {
	return s.resolveLimits(ctx, s.store, plan, role)
}

func (s *usageService) resolveLimits(ctx context.Context, store UsageStore, plan domain.Plan, role domain.Role) domain.PlanLimits {
	// Admin role always resolves to unlimited regardless of stored plan.
	if role == domain.RoleAdmin {
		return domain.UnlimitedLimits
	}

	override, err := store.GetPlanOverride(ctx, plan)
	switch {
	case err == nil:
		return *override
	case errors.Is(err, repository.ErrNotFound):
		// No override stored for this plan.
	default:
		// A pricing-store read failure is recoverable: fall back to the
		// static table rather than failing the action.
		s.logger.Warn("pricing override lookup failed, using static limits",
			"plan", plan,
			"error", err,
		)
	}
	return domain.GetPlanLimits(plan)
}

// TrackUsage checks and records consumption for a billable action.
func (s *usageService) TrackUsage(ctx context.Context, userID uuid.UUID, category domain.UsageCategory, increment int64, opts TrackOptions) (*domain.TrackResult, error) {
	const op = "usage.track"

	if increment <= 0 {
		return nil, domain.Invalid(op, "increment must be positive")
	}
	if category == domain.CategorySubmissions && opts.ProjectID == nil {
		return nil, domain.Invalid(op, "submissions require a project")
	}

	// Serialize concurrent checks for the same tenant: the count and the
	// counter write-back happen with the user row locked.
	if s.db != nil {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to begin transaction")
		}
		defer tx.Rollback()

		result, err := s.trackUsage(ctx, s.queries.WithTx(tx), op, userID, category, increment, opts, true)
		if err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, domain.Internal(err, op, "failed to commit usage update")
		}
		return result, nil
	}

	return s.trackUsage(ctx, s.store, op, userID, category, increment, opts, false)
}

func (s *usageService) trackUsage(ctx context.Context, store UsageStore, op string, userID uuid.UUID, category domain.UsageCategory, increment int64, opts TrackOptions, locked bool) (*domain.TrackResult, error) {
	var user *domain.User
	var err error
	if locked {
		user, err = store.GetUserByIDForUpdate(ctx, userID)
	} else {
		user, err = store.GetUserByID(ctx, userID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound(op, "user", userID.String())
		}
		return nil, domain.Internal(err, op, "failed to load user")
	}
	if user.Banned {
		return nil, domain.Forbidden(op, "Account is suspended")
	}

	limits := s.resolveLimits(ctx, store, user.Plan, user.Role)
	limit := limits.Get(category)

	// Actual usage is recomputed from live rows, never the cached counter.
	actual, err := s.countActual(ctx, store, userID, category)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count usage")
	}

	projected := actual + increment
	if domain.IsLimitExceeded(limits, category, projected) {
		s.logger.Info("usage limit exceeded",
			"user_id", userID,
			"category", category,
			"usage", actual,
			"limit", limit,
		)
		metrics.LimitDenials.WithLabelValues(string(category)).Inc()
		denial := domain.LimitExceeded(op, category, actual, limit)
		return &domain.TrackResult{
			Success:      false,
			Message:      denial.Message,
			LimitType:    category,
			CurrentUsage: actual,
			Limit:        limit,
		}, nil
	}

	// Daily ceilings apply independently of the monthly ceiling.
	if denial, err := s.checkDailyCeiling(ctx, store, user, category, increment, opts); err != nil {
		return nil, domain.Internal(err, op, "failed to count daily usage")
	} else if denial != nil {
		return denial, nil
	}

	// Persist the refreshed cached counter for dashboard display.
	if err := store.UpdateUserCachedUsage(ctx, userID, category, projected); err != nil {
		return nil, domain.Internal(err, op, "failed to update cached usage")
	}

	// The first submission or tool run against a draft project activates it.
	if (category == domain.CategorySubmissions || category == domain.CategorySEOTools) && opts.ProjectID != nil {
		if err := s.promoteDraftProject(ctx, store, *opts.ProjectID); err != nil {
			return nil, domain.Internal(err, op, "failed to activate project")
		}
	}

	return &domain.TrackResult{
		Success:      true,
		CurrentUsage: projected,
		Limit:        limit,
	}, nil
}

// checkDailyCeiling enforces the same-day limits for submissions (scoped
// per project) and tool runs (scoped per user). Returns a denial result or
// nil when the action passes.
func (s *usageService) checkDailyCeiling(ctx context.Context, store UsageStore, user *domain.User, category domain.UsageCategory, increment int64, opts TrackOptions) (*domain.TrackResult, error) {
	// Admins bypass daily ceilings along with monthly ones.
	if user.Role == domain.RoleAdmin {
		return nil, nil
	}

	daily := domain.GetDailyLimits(user.Plan)
	dayStart, dayEnd := currentDayBoundaries()

	var limit, today int64
	var err error

	switch category {
	case domain.CategorySubmissions:
		limit = daily.SubmissionsPerProjectPerDay
		today, err = store.CountSubmissionsByProject(ctx, *opts.ProjectID, dayStart, dayEnd)
	case domain.CategorySEOTools:
		limit = daily.ToolRunsPerDay
		today, err = store.CountToolUsageByUser(ctx, user.ID, dayStart, dayEnd)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if domain.IsDailyLimitExceeded(limit, today+increment) {
		s.logger.Info("daily limit exceeded",
			"user_id", user.ID,
			"category", category,
			"today", today,
			"limit", limit,
		)
		metrics.LimitDenials.WithLabelValues(string(category)).Inc()
		denial := domain.DailyLimitExceeded("usage.track", category, today, limit)
		return &domain.TrackResult{
			Success:      false,
			Message:      denial.Message,
			LimitType:    category,
			CurrentUsage: today,
			Limit:        limit,
		}, nil
	}
	return nil, nil
}

// promoteDraftProject moves a draft project to active. Already-active and
// archived projects are left alone.
func (s *usageService) promoteDraftProject(ctx context.Context, store UsageStore, projectID uuid.UUID) error {
	project, err := store.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if project.Status != domain.ProjectStatusDraft {
		return nil
	}
	if err := project.TransitionTo(domain.ProjectStatusActive); err != nil {
		return err
	}
	return store.UpdateProjectStatus(ctx, projectID, project.Status)
}

// countActual recomputes the live usage count for a category. Monthly
// categories count rows within the current calendar month (UTC); projects
// and backlinks count current rows.
func (s *usageService) countActual(ctx context.Context, store UsageStore, userID uuid.UUID, category domain.UsageCategory) (int64, error) {
	monthStart, monthEnd := currentMonthBoundaries()

	switch category {
	case domain.CategoryProjects:
		return store.CountProjectsByUser(ctx, userID)
	case domain.CategorySubmissions:
		return store.CountSuccessfulSubmissionsByUser(ctx, userID, monthStart, monthEnd)
	case domain.CategorySEOTools:
		return store.CountToolUsageByUser(ctx, userID, monthStart, monthEnd)
	case domain.CategoryBacklinks:
		return store.CountActiveBacklinksByUser(ctx, userID)
	case domain.CategoryReports:
		return store.CountReportsByUser(ctx, userID, monthStart, monthEnd)
	default:
		return 0, fmt.Errorf("unknown usage category: %s", category)
	}
}

// GetUsageStats assembles plan, ceilings, actual usage, daily ceilings,
// today's usage, and a per-category at-limit map.
func (s *usageService) GetUsageStats(ctx context.Context, userID uuid.UUID) (*domain.UsageStats, error) {
	const op = "usage.stats"

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound(op, "user", userID.String())
		}
		return nil, domain.Internal(err, op, "failed to load user")
	}

	limits := s.resolveLimits(ctx, s.store, user.Plan, user.Role)

	var usage domain.UsageCounters
	atLimit := make(map[domain.UsageCategory]bool, len(domain.AllCategories))
	for _, category := range domain.AllCategories {
		count, err := s.countActual(ctx, s.store, userID, category)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to count usage")
		}
		usage.Set(category, count)
		// At limit means the next increment would be denied.
		atLimit[category] = domain.IsLimitExceeded(limits, category, count+1)
	}

	dayStart, dayEnd := currentDayBoundaries()
	toolRunsToday, err := s.store.CountToolUsageByUser(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count daily usage")
	}

	return &domain.UsageStats{
		Plan:        user.Plan,
		Role:        user.Role,
		Limits:      limits,
		Usage:       usage,
		DailyLimits: domain.GetDailyLimits(user.Plan),
		TodayUsage:  domain.DailyUsage{ToolRuns: toolRunsToday},
		AtLimit:     atLimit,
	}, nil
}

// currentMonthBoundaries returns the start and end of the current calendar
// month in UTC.
func currentMonthBoundaries() (start, end time.Time) {
	now := time.Now().UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// currentDayBoundaries returns UTC midnight to midnight for today.
func currentDayBoundaries() (start, end time.Time) {
	now := time.Now().UTC()
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 0, 1)
	return start, end
}
