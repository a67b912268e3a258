package service

import (
	"context"
	"fmt"
	"time"

	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/repository"
)

// insightService implements InsightService interface
type insightService struct {
	insightRepo repository.InsightRepository
	planGate    PlanGate
	provider    InsightProvider
	usageRepo   repository.UsageRepository
}

// NewInsightService creates a new insight service
func NewInsightService(
	insightRepo repository.InsightRepository,
	planGate PlanGate,
	provider InsightProvider,
	usageRepo repository.UsageRepository,
) InsightService {
	return &insightService{
		insightRepo: insightRepo,
		planGate:    planGate,
		provider:    provider,
		usageRepo:   usageRepo,
	}
}

// Generate gates by plan and daily cap, calls the provider and stores
// the result. Capacity is consumed before the provider call; a
// provider failure does not refund it, keeping the limiter simple.
func (s *insightService) Generate(ctx context.Context, user *domain.User, req *dto.InsightRequest) (*dto.InsightResponse, error) {
	if err := s.planGate.RequirePlan(user, domain.PlanPro); err != nil {
		return nil, err
	}

	if s.provider == nil {
		return nil, ErrNotConfigured
	}

	remaining, err := s.planGate.ConsumeInsight(ctx, user)
	if err != nil {
		return nil, err
	}

	content, err := s.provider.Generate(ctx, req.Prompt)
	if err != nil {
		return nil, err
	}

	insight := &domain.Insight{
		UserID:  user.ID,
		Prompt:  req.Prompt,
		Content: content,
	}
	if err := s.insightRepo.Create(ctx, insight); err != nil {
		return nil, fmt.Errorf("failed to store insight: %w", err)
	}

	// Insight generation awards gamification points.
	_ = s.usageRepo.AddPoints(ctx, user.ID, domain.DayKey(time.Now()), 5)

	return &dto.InsightResponse{
		ID:        insight.ID,
		Content:   content,
		Remaining: remaining,
	}, nil
}
