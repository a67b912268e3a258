package service

import (
	"context"
	"time"

	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/repository"
)

// planGate implements PlanGate interface. Plan limits come from the
// single domain.InsightsPerDay table.
type planGate struct {
	usageRepo repository.UsageRepository
}

// NewPlanGate creates a new plan gate
func NewPlanGate(usageRepo repository.UsageRepository) PlanGate {
	return &planGate{usageRepo: usageRepo}
}

// RequirePlan compares the user's plan rank against the feature's
// minimum. Admins bypass plan checks entirely.
func (g *planGate) RequirePlan(user *domain.User, min domain.Plan) error {
	if user.Role == domain.RoleAdmin {
		return nil
	}
	if !user.Plan.AtLeast(min) {
		return ErrUpgradeRequired
	}
	return nil
}

// InsightLimit returns the user's daily insight cap; admins are
// unlimited.
func (g *planGate) InsightLimit(user *domain.User) int {
	if user.Role == domain.RoleAdmin {
		return -1
	}
	limit, ok := domain.InsightsPerDay[user.Plan]
	if !ok {
		return 0
	}
	return limit
}

// ConsumeInsight atomically takes one unit of today's capacity and
// returns the remaining count (-1 when unlimited).
func (g *planGate) ConsumeInsight(ctx context.Context, user *domain.User) (int, error) {
	limit := g.InsightLimit(user)
	if limit == 0 {
		return 0, ErrUpgradeRequired
	}

	day := domain.DayKey(time.Now())

	ok, err := g.usageRepo.IncrementInsightsIfUnder(ctx, user.ID, day, limit)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrDailyLimitReached
	}

	if limit < 0 {
		return -1, nil
	}

	usage, err := g.usageRepo.Get(ctx, user.ID, day)
	if err != nil {
		return 0, err
	}

	remaining := limit - usage.InsightsUsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// UsageToday returns today's counters for the user.
func (g *planGate) UsageToday(ctx context.Context, userID string) (*domain.UsageDay, error) {
	return g.usageRepo.Get(ctx, userID, domain.DayKey(time.Now()))
}
