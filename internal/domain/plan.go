// Package domain contains core business types and interfaces.
//
// This file defines the plan tiers and usage ceilings that gate billable
// actions. A ceiling of Unlimited (-1) is never exceeded.
package domain

// Plan represents a subscription tier.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanBusiness   Plan = "business"
	PlanEnterprise Plan = "enterprise"
)

// UsageCategory identifies a billable action category.
type UsageCategory string

const (
	CategoryProjects    UsageCategory = "projects"
	CategorySubmissions UsageCategory = "submissions"
	CategorySEOTools    UsageCategory = "seoTools"
	CategoryBacklinks   UsageCategory = "backlinks"
	CategoryReports     UsageCategory = "reports"
)

// AllCategories lists every usage category in display order.
var AllCategories = []UsageCategory{
	CategoryProjects,
	CategorySubmissions,
	CategorySEOTools,
	CategoryBacklinks,
	CategoryReports,
}

// Unlimited marks a ceiling that is never exceeded.
const Unlimited int64 = -1

// PlanLimits holds the monthly ceiling for each usage category.
type PlanLimits struct {
	Projects    int64 `json:"projects"`
	Submissions int64 `json:"submissions"`
	SEOTools    int64 `json:"seoTools"`
	Backlinks   int64 `json:"backlinks"`
	Reports     int64 `json:"reports"`
}

// Get returns the ceiling for a category. Unknown categories are unlimited,
// matching the permissive behavior of the accounting layer.
func (l PlanLimits) Get(category UsageCategory) int64 {
	switch category {
	case CategoryProjects:
		return l.Projects
	case CategorySubmissions:
		return l.Submissions
	case CategorySEOTools:
		return l.SEOTools
	case CategoryBacklinks:
		return l.Backlinks
	case CategoryReports:
		return l.Reports
	default:
		return Unlimited
	}
}

// DailyLimits holds same-day ceilings that apply independently of the
// monthly ceilings. Both must pass for an action to be allowed.
type DailyLimits struct {
	SubmissionsPerProjectPerDay int64 `json:"submissionsPerProjectPerDay"`
	ToolRunsPerDay              int64 `json:"toolRunsPerDay"`
}

// planLimits maps plan tiers to their static monthly ceilings.
// Admins may override these per plan via the pricing store.
var planLimits = map[Plan]PlanLimits{
	PlanFree: {
		Projects:    1,
		Submissions: 25,
		SEOTools:    10,
		Backlinks:   10,
		Reports:     2,
	},
	PlanPro: {
		Projects:    5,
		Submissions: 500,
		SEOTools:    100,
		Backlinks:   100,
		Reports:     20,
	},
	PlanBusiness: {
		Projects:    15,
		Submissions: 2000,
		SEOTools:    500,
		Backlinks:   500,
		Reports:     100,
	},
	PlanEnterprise: {
		Projects:    Unlimited,
		Submissions: Unlimited,
		SEOTools:    Unlimited,
		Backlinks:   Unlimited,
		Reports:     Unlimited,
	},
}

// dailyLimits maps plan tiers to their same-day ceilings.
var dailyLimits = map[Plan]DailyLimits{
	PlanFree:       {SubmissionsPerProjectPerDay: 10, ToolRunsPerDay: 5},
	PlanPro:        {SubmissionsPerProjectPerDay: 50, ToolRunsPerDay: 25},
	PlanBusiness:   {SubmissionsPerProjectPerDay: 200, ToolRunsPerDay: 100},
	PlanEnterprise: {SubmissionsPerProjectPerDay: Unlimited, ToolRunsPerDay: Unlimited},
}

// UnlimitedLimits is the ceiling table resolved for admin users.
var UnlimitedLimits = PlanLimits{
	Projects:    Unlimited,
	Submissions: Unlimited,
	SEOTools:    Unlimited,
	Backlinks:   Unlimited,
	Reports:     Unlimited,
}

// GetPlanLimits returns the static ceilings for a plan.
// Unknown plans fall back to the free tier.
func GetPlanLimits(plan Plan) PlanLimits {
	if limits, ok := planLimits[plan]; ok {
		return limits
	}
	return planLimits[PlanFree]
}

// GetDailyLimits returns the same-day ceilings for a plan,
// defaulting to the free tier for unknown plans.
func GetDailyLimits(plan Plan) DailyLimits {
	if limits, ok := dailyLimits[plan]; ok {
		return limits
	}
	return dailyLimits[PlanFree]
}

// IsLimitExceeded reports whether projected usage would exceed the ceiling
// for a category. An Unlimited ceiling is never exceeded. The comparison is
// strictly-greater: a ceiling of N permits usage states 0 through N
// inclusive, and only the increment past N is blocked. This off-by-one
// convention is load-bearing for compatibility and must not be tightened.
func IsLimitExceeded(limits PlanLimits, category UsageCategory, projected int64) bool {
	limit := limits.Get(category)
	if limit == Unlimited {
		return false
	}
	return projected > limit
}

// IsDailyLimitExceeded applies the same strictly-greater convention to a
// bare daily ceiling value.
func IsDailyLimitExceeded(limit, projected int64) bool {
	if limit == Unlimited {
		return false
	}
	return projected > limit
}
