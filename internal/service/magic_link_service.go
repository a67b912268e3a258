package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/repository"
	"github.com/signalforge/zairix-api/internal/utils"
)

const magicTokenBytes = 32

// magicLinkService implements MagicLinkService interface
type magicLinkService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.AuthTokenRepository
	sessions  SessionService
	mailer    Mailer
	pepper    string
	tokenTTL  time.Duration
	baseURL   string
}

// NewMagicLinkService creates a new magic link service
func NewMagicLinkService(
	userRepo repository.UserRepository,
	tokenRepo repository.AuthTokenRepository,
	sessions SessionService,
	mailer Mailer,
	pepper string,
	tokenTTL time.Duration,
	baseURL string,
) MagicLinkService {
	return &magicLinkService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		sessions:  sessions,
		mailer:    mailer,
		pepper:    pepper,
		tokenTTL:  tokenTTL,
		baseURL:   baseURL,
	}
}

// Request issues a sign-in link. The response is identical whether or
// not the account exists, so the endpoint cannot be used to enumerate
// users. A missing pepper or mail transport is a hard 503: the flow
// never degrades to unpeppered hashes or silent no-sends.
func (s *magicLinkService) Request(ctx context.Context, email, next string) error {
	if !utils.ValidateEmail(email) {
		return fmt.Errorf("invalid email format")
	}
	if s.pepper == "" || s.mailer == nil {
		return ErrNotConfigured
	}

	identifier := utils.SanitizeEmail(email)

	_, err := s.userRepo.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Silently succeed with no email sent.
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	raw, err := utils.RandomToken(magicTokenBytes)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	// Only the newest token may ever be consumable.
	if err := s.tokenRepo.ConsumeAllLive(ctx, identifier, domain.TokenTypeMagicLink); err != nil {
		return err
	}

	token := &domain.AuthToken{
		Identifier: identifier,
		Type:       domain.TokenTypeMagicLink,
		TokenHash:  utils.HashToken(raw, s.pepper),
		ExpiresAt:  time.Now().Add(s.tokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return err
	}

	link := magicLinkURL(s.baseURL, identifier, raw, next)
	if err := s.mailer.Send(identifier, "Your SignalForge sign-in link", magicLinkBody(link)); err != nil {
		return fmt.Errorf("failed to send magic link: %w", err)
	}

	return nil
}

// Verify consumes the presented token and establishes a session.
// Wrong, expired and consumed tokens are indistinguishable to the
// caller.
func (s *magicLinkService) Verify(ctx context.Context, email, rawToken string, meta RequestMeta) (*AuthResult, error) {
	if s.pepper == "" {
		return nil, ErrNotConfigured
	}
	if email == "" || rawToken == "" {
		return nil, ErrInvalidToken
	}

	identifier := utils.SanitizeEmail(email)
	tokenHash := utils.HashToken(rawToken, s.pepper)

	token, err := s.tokenRepo.FindLive(ctx, identifier, domain.TokenTypeMagicLink, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	// Guards the raced double-verify: the conditional update fails for
	// the second caller.
	if err := s.tokenRepo.Consume(ctx, token.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsEmailVerified {
		if err := s.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
			return nil, err
		}
		user.IsEmailVerified = true
	}

	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)

	return s.sessions.Issue(ctx, user, meta)
}
