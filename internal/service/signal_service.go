package service

import (
	"context"
	"time"

	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/repository"
)

const signalListLimit = 50

// signalService implements SignalService interface
type signalService struct {
	signalRepo repository.SignalRepository
	usageRepo  repository.UsageRepository
}

// NewSignalService creates a new signal service
func NewSignalService(signalRepo repository.SignalRepository, usageRepo repository.UsageRepository) SignalService {
	return &signalService{
		signalRepo: signalRepo,
		usageRepo:  usageRepo,
	}
}

// List returns the signals visible at the user's plan rank and bumps
// the daily view counter. Admins see everything.
func (s *signalService) List(ctx context.Context, user *domain.User) ([]*domain.Signal, error) {
	plan := user.Plan
	if user.Role == domain.RoleAdmin {
		plan = domain.PlanElite
	}

	signals, err := s.signalRepo.ListVisible(ctx, plan, signalListLimit)
	if err != nil {
		return nil, err
	}

	// counter is best effort, the listing still succeeds
	_ = s.usageRepo.IncrementSignalsViewed(ctx, user.ID, domain.DayKey(time.Now()))

	return signals, nil
}
