package domain

import "time"

// InsightsPerDay is the daily insight generation cap by plan.
// A negative value means unlimited. This table is the single source
// of truth for plan limits.
var InsightsPerDay = map[Plan]int{
	PlanFree:  0,
	PlanPro:   10,
	PlanElite: -1,
}

// UsageDay holds per-user, per-calendar-day counters. Rows are
// upserted lazily on first access each day.
type UsageDay struct {
	UserID         string    `json:"user_id" db:"user_id"`
	Day            string    `json:"day" db:"day"` // YYYY-MM-DD in UTC
	SignalsViewed  int       `json:"signals_viewed" db:"signals_viewed"`
	InsightsUsed   int       `json:"insights_used" db:"insights_used"`
	Points         int       `json:"points" db:"points"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// DayKey formats t as the UTC calendar day used for usage rows.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
