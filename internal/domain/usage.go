package domain

// UsageStats assembles everything the dashboard needs to render a tenant's
// consumption: the effective ceilings, actual usage recomputed from live
// rows, the same-day ceilings and counts, and a per-category at-limit map.
type UsageStats struct {
	Plan        Plan                   `json:"plan"`
	Role        Role                   `json:"role"`
	Limits      PlanLimits             `json:"limits"`
	Usage       UsageCounters          `json:"usage"`
	DailyLimits DailyLimits            `json:"dailyLimits"`
	TodayUsage  DailyUsage             `json:"todayUsage"`
	AtLimit     map[UsageCategory]bool `json:"atLimit"`
}

// DailyUsage holds today's counts for the categories with daily ceilings.
type DailyUsage struct {
	ToolRuns int64 `json:"toolRuns"`
}

// TrackResult reports the outcome of a usage-tracking attempt. A denial is
// a normal result, not an error; the caller translates it into a structured
// limit response.
type TrackResult struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message,omitempty"`
	LimitType    UsageCategory `json:"limitType,omitempty"`
	CurrentUsage int64         `json:"currentUsage"`
	Limit        int64         `json:"limit"`
}
