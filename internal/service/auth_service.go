package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/repository"
	"github.com/signalforge/zairix-api/internal/utils"
)

// authService implements AuthService interface
type authService struct {
	userRepo   repository.UserRepository
	sessions   SessionService
	planGate   PlanGate
	bcryptCost int
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	sessions SessionService,
	planGate PlanGate,
	bcryptCost int,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		sessions:   sessions,
		planGate:   planGate,
		bcryptCost: bcryptCost,
	}
}

// Register registers a new user and establishes a session.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest, meta RequestMeta) (*AuthResult, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, fmt.Errorf("invalid email format")
	}

	if !utils.ValidatePassword(req.Password) {
		return nil, fmt.Errorf("password must be at least 8 characters long and contain a letter and a number")
	}

	email := utils.SanitizeEmail(req.Email)

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		Plan:         domain.PlanFree,
		Role:         domain.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.sessions.Issue(ctx, user, meta)
}

// Login authenticates a user with email and password. Every failure
// collapses to ErrInvalidCredentials; there is no shared-secret
// bypass of any kind.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, meta RequestMeta) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// OAuth/magic-link-only accounts have no password hash and can
	// never log in with one.
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// best effort, login still succeeds
	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)

	return s.sessions.Issue(ctx, user, meta)
}

// Logout revokes the session id from the verified cookie.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Revoke(ctx, sessionID)
}

// GetMe returns the user's profile with today's usage and limits.
func (s *authService) GetMe(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	usage, err := s.planGate.UsageToday(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage: %w", err)
	}

	return &dto.MeResponse{
		ID:              user.ID,
		Email:           user.Email,
		Plan:            user.Plan,
		Role:            user.Role,
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt.Format(time.RFC3339),
		SignalsViewed:   usage.SignalsViewed,
		InsightsUsed:    usage.InsightsUsed,
		InsightsLimit:   s.planGate.InsightLimit(user),
	}, nil
}
