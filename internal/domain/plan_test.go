package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPlanLimits_KnownPlans(t *testing.T) {
	free := GetPlanLimits(PlanFree)
	assert.Equal(t, int64(1), free.Projects)
	assert.Equal(t, int64(10), free.SEOTools)

	enterprise := GetPlanLimits(PlanEnterprise)
	assert.Equal(t, Unlimited, enterprise.Projects)
	assert.Equal(t, Unlimited, enterprise.Reports)
}

func TestGetPlanLimits_UnknownPlanFallsBackToFree(t *testing.T) {
	limits := GetPlanLimits(Plan("platinum"))
	assert.Equal(t, GetPlanLimits(PlanFree), limits)

	limits = GetPlanLimits(Plan(""))
	assert.Equal(t, GetPlanLimits(PlanFree), limits)
}

func TestGetDailyLimits_UnknownPlanFallsBackToFree(t *testing.T) {
	daily := GetDailyLimits(Plan("platinum"))
	assert.Equal(t, GetDailyLimits(PlanFree), daily)
}

func TestIsLimitExceeded_InclusiveCeiling(t *testing.T) {
	limits := PlanLimits{SEOTools: 10}

	// Every state up to and including the ceiling is permitted.
	for n := int64(0); n <= 10; n++ {
		assert.False(t, IsLimitExceeded(limits, CategorySEOTools, n), "n=%d", n)
	}

	// The first state past the ceiling is blocked.
	assert.True(t, IsLimitExceeded(limits, CategorySEOTools, 11))
	assert.True(t, IsLimitExceeded(limits, CategorySEOTools, 100))
}

func TestIsLimitExceeded_Unlimited(t *testing.T) {
	limits := PlanLimits{Projects: Unlimited}

	assert.False(t, IsLimitExceeded(limits, CategoryProjects, 0))
	assert.False(t, IsLimitExceeded(limits, CategoryProjects, 1_000_000))
}

func TestIsLimitExceeded_ZeroCeiling(t *testing.T) {
	limits := PlanLimits{Reports: 0}

	// A ceiling of zero still permits the zero state.
	assert.False(t, IsLimitExceeded(limits, CategoryReports, 0))
	assert.True(t, IsLimitExceeded(limits, CategoryReports, 1))
}

func TestIsDailyLimitExceeded(t *testing.T) {
	assert.False(t, IsDailyLimitExceeded(5, 5))
	assert.True(t, IsDailyLimitExceeded(5, 6))
	assert.False(t, IsDailyLimitExceeded(Unlimited, 1_000_000))
}

func TestPlanLimits_Get(t *testing.T) {
	limits := PlanLimits{
		Projects:    1,
		Submissions: 2,
		SEOTools:    3,
		Backlinks:   4,
		Reports:     5,
	}

	tests := []struct {
		category UsageCategory
		want     int64
	}{
		{CategoryProjects, 1},
		{CategorySubmissions, 2},
		{CategorySEOTools, 3},
		{CategoryBacklinks, 4},
		{CategoryReports, 5},
		{UsageCategory("unknown"), Unlimited},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.want, limits.Get(tt.category))
		})
	}
}
