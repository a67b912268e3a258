package service

import (
	"context"
	"fmt"
	"time"

	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/repository"
	"github.com/signalforge/zairix-api/internal/utils"
)

// sessionService implements SessionService interface
type sessionService struct {
	sessionRepo repository.SessionRepository
	manager     *utils.SessionManager
	revoked     *RevokedSessions
	ttl         time.Duration
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepository,
	manager *utils.SessionManager,
	revoked *RevokedSessions,
	ttl time.Duration,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		manager:     manager,
		revoked:     revoked,
		ttl:         ttl,
	}
}

// Issue creates a session row and signs the cookie payload.
func (s *sessionService) Issue(ctx context.Context, user *domain.User, meta RequestMeta) (*AuthResult, error) {
	session := &domain.Session{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if meta.IP != "" {
		session.IPAddress = &meta.IP
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session row: %w", err)
	}

	signed, err := s.manager.Issue(user.ID, user.Email, user.Plan, user.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	return &AuthResult{
		User:        user,
		SessionID:   session.ID,
		SignedToken: signed,
		ExpiresIn:   s.manager.TTLSeconds(),
	}, nil
}

// Verify checks signature, claim shape and the revocation set.
func (s *sessionService) Verify(ctx context.Context, signedToken string) (*domain.SessionClaims, error) {
	claims, err := s.manager.Verify(signedToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session revocation: %w", err)
	}
	if revoked {
		return nil, utils.ErrInvalidSession
	}

	return claims, nil
}

// Revoke marks the session id rejected for the rest of its lifetime.
func (s *sessionService) Revoke(ctx context.Context, sessionID string) error {
	return s.revoked.Revoke(ctx, sessionID, s.ttl)
}
