package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/repository"
	"github.com/signalforge/zairix-api/internal/utils"
)

// passwordResetService implements PasswordResetService interface
type passwordResetService struct {
	repos      *repository.Repositories
	sessions   SessionService
	manager    *utils.SessionManager
	mailer     Mailer
	pepper     string
	tokenTTL   time.Duration
	sessionTTL time.Duration
	bcryptCost int
	baseURL    string
}

// NewPasswordResetService creates a new password reset service
func NewPasswordResetService(
	repos *repository.Repositories,
	sessions SessionService,
	manager *utils.SessionManager,
	mailer Mailer,
	pepper string,
	tokenTTL time.Duration,
	sessionTTL time.Duration,
	bcryptCost int,
	baseURL string,
) PasswordResetService {
	return &passwordResetService{
		repos:      repos,
		sessions:   sessions,
		manager:    manager,
		mailer:     mailer,
		pepper:     pepper,
		tokenTTL:   tokenTTL,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
		baseURL:    baseURL,
	}
}

// Request mirrors the magic-link issuance for type PASSWORD_RESET,
// with the same enumeration-resistant behavior.
func (s *passwordResetService) Request(ctx context.Context, email string) error {
	if !utils.ValidateEmail(email) {
		return fmt.Errorf("invalid email format")
	}
	if s.pepper == "" || s.mailer == nil {
		return ErrNotConfigured
	}

	identifier := utils.SanitizeEmail(email)

	_, err := s.repos.User.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	raw, err := utils.RandomToken(magicTokenBytes)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.repos.AuthToken.ConsumeAllLive(ctx, identifier, domain.TokenTypePasswordReset); err != nil {
		return err
	}

	token := &domain.AuthToken{
		Identifier: identifier,
		Type:       domain.TokenTypePasswordReset,
		TokenHash:  utils.HashToken(raw, s.pepper),
		ExpiresAt:  time.Now().Add(s.tokenTTL),
	}
	if err := s.repos.AuthToken.Create(ctx, token); err != nil {
		return err
	}

	link := passwordResetURL(s.baseURL, identifier, raw)
	if err := s.mailer.Send(identifier, "Reset your SignalForge password", passwordResetBody(link)); err != nil {
		return fmt.Errorf("failed to send reset link: %w", err)
	}

	return nil
}

// Confirm consumes the token, updates the password hash and creates
// the session row in one transaction, so a reset cannot partially
// apply.
func (s *passwordResetService) Confirm(ctx context.Context, req *dto.PasswordResetConfirm, meta RequestMeta) (*AuthResult, error) {
	if s.pepper == "" {
		return nil, ErrNotConfigured
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, fmt.Errorf("password must be at least 8 characters long and contain a letter and a number")
	}

	identifier := utils.SanitizeEmail(req.Email)
	tokenHash := utils.HashToken(req.Token, s.pepper)

	token, err := s.repos.AuthToken.FindLive(ctx, identifier, domain.TokenTypePasswordReset, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	user, err := s.repos.User.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	session := &domain.Session{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if meta.IP != "" {
		session.IPAddress = &meta.IP
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}

	err = s.repos.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.repos.AuthToken.ConsumeTx(ctx, tx, token.ID); err != nil {
			return err
		}
		if err := s.repos.User.UpdatePasswordTx(ctx, tx, user.ID, passwordHash); err != nil {
			return err
		}
		return s.repos.Session.CreateTx(ctx, tx, session)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
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
