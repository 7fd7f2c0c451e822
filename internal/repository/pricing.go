package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ranklens/ranklens/internal/domain"
)

// GetPlanOverride looks up admin-edited ceilings for a plan. A missing row
// is reported as ErrNotFound so the caller can fall back to the static
// table explicitly rather than by swallowing errors.
func (q *Queries) GetPlanOverride(ctx context.Context, plan domain.Plan) (*domain.PlanLimits, error) {
	const query = `
SELECT limit_projects, limit_submissions, limit_seo_tools, limit_backlinks, limit_reports
FROM pricing_plans
WHERE plan = $1`
	var limits domain.PlanLimits
	err := q.db.QueryRowContext(ctx, query, plan).
		Scan(&limits.Projects, &limits.Submissions, &limits.SEOTools, &limits.Backlinks, &limits.Reports)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get plan override: %w", err)
	}
	return &limits, nil
}

// ListPlanOverrides returns all stored pricing overrides keyed by plan.
func (q *Queries) ListPlanOverrides(ctx context.Context) (map[domain.Plan]domain.PlanLimits, error) {
	const query = `
SELECT plan, limit_projects, limit_submissions, limit_seo_tools, limit_backlinks, limit_reports
FROM pricing_plans
ORDER BY plan`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list plan overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[domain.Plan]domain.PlanLimits)
	for rows.Next() {
		var plan domain.Plan
		var limits domain.PlanLimits
		if err := rows.Scan(&plan, &limits.Projects, &limits.Submissions, &limits.SEOTools, &limits.Backlinks, &limits.Reports); err != nil {
			return nil, fmt.Errorf("scan plan override: %w", err)
		}
		overrides[plan] = limits
	}
	return overrides, rows.Err()
}

// UpsertPlanOverride stores admin-edited ceilings for a plan.
func (q *Queries) UpsertPlanOverride(ctx context.Context, plan domain.Plan, limits domain.PlanLimits) error {
	const query = `
INSERT INTO pricing_plans (plan, limit_projects, limit_submissions, limit_seo_tools, limit_backlinks, limit_reports)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (plan) DO UPDATE SET
	limit_projects = EXCLUDED.limit_projects,
	limit_submissions = EXCLUDED.limit_submissions,
	limit_seo_tools = EXCLUDED.limit_seo_tools,
	limit_backlinks = EXCLUDED.limit_backlinks,
	limit_reports = EXCLUDED.limit_reports,
	updated_at = NOW()`
	if _, err := q.db.ExecContext(ctx, query, plan, limits.Projects, limits.Submissions, limits.SEOTools, limits.Backlinks, limits.Reports); err != nil {
		return fmt.Errorf("upsert plan override: %w", err)
	}
	return nil
}

// DeletePlanOverride removes an override, restoring the static ceilings.
func (q *Queries) DeletePlanOverride(ctx context.Context, plan domain.Plan) error {
	const query = `DELETE FROM pricing_plans WHERE plan = $1`
	if _, err := q.db.ExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("delete plan override: %w", err)
	}
	return nil
}
