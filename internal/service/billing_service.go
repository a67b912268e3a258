package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/repository"
	"github.com/signalforge/zairix-api/internal/utils"
)

// billingService implements BillingService interface
type billingService struct {
	userRepo repository.UserRepository
	subRepo  repository.SubscriptionRepository
}

// NewBillingService creates a new billing service
func NewBillingService(userRepo repository.UserRepository, subRepo repository.SubscriptionRepository) BillingService {
	return &billingService{
		userRepo: userRepo,
		subRepo:  subRepo,
	}
}

// ProcessWebhook upserts the subscription keyed on the provider
// reference and adjusts the user's plan. Redeliveries upsert the same
// row and set the same plan, so replays are no-ops.
func (s *billingService) ProcessWebhook(ctx context.Context, payload *dto.BillingWebhook, raw []byte) error {
	plan := domain.Plan(payload.Plan)
	if !plan.Valid() {
		return fmt.Errorf("unknown plan %q", payload.Plan)
	}

	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(payload.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	sub := &domain.Subscription{
		UserID:      user.ID,
		ExternalRef: payload.ExternalRef,
		Plan:        plan,
		Status:      domain.SubscriptionStatus(payload.Status),
		RawPayload:  string(raw),
	}

	if err := s.subRepo.UpsertByExternalRef(ctx, sub); err != nil {
		return err
	}

	target := domain.PlanFree
	if sub.GrantsPlan() {
		target = plan
	}

	if user.Plan == target {
		return nil
	}

	return s.userRepo.UpdatePlan(ctx, user.ID, target)
}
