package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/signalforge/zairix-api/internal/config"
	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/repository"
	"github.com/signalforge/zairix-api/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// oauthService implements OAuthService for the Google code flow.
type oauthService struct {
	userRepo     repository.UserRepository
	providerRepo repository.OAuthProviderRepository
	sessions     SessionService
	oauthCfg     *oauth2.Config
}

// NewOAuthService creates a new OAuth service. Returns nil when the
// Google client is not configured; handlers answer 503 in that case.
func NewOAuthService(
	userRepo repository.UserRepository,
	providerRepo repository.OAuthProviderRepository,
	sessions SessionService,
	cfg config.OAuthConfig,
) OAuthService {
	if !cfg.Configured() {
		return nil
	}

	return &oauthService{
		userRepo:     userRepo,
		providerRepo: providerRepo,
		sessions:     sessions,
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Begin issues the anti-CSRF state nonce and PKCE verifier and builds
// the consent URL. The caller stores state and verifier in short-lived
// HTTP-only cookies.
func (s *oauthService) Begin(next string) (*OAuthBegin, error) {
	state, err := utils.RandomToken(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	verifier := oauth2.GenerateVerifier()

	authURL := s.oauthCfg.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
	)

	return &OAuthBegin{
		AuthURL:  authURL,
		State:    state,
		Verifier: verifier,
	}, nil
}

type googleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// Complete exchanges the authorization code plus PKCE verifier,
// fetches the profile and upserts the local user by email.
func (s *oauthService) Complete(ctx context.Context, code, verifier string, meta RequestMeta) (*AuthResult, error) {
	token, err := s.oauthCfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("google profile has no email")
	}

	email := utils.SanitizeEmail(profile.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		user = &domain.User{
			Email:           email,
			Plan:            domain.PlanFree,
			Role:            domain.RoleUser,
			IsEmailVerified: true,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	} else if !user.IsEmailVerified {
		if err := s.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
			return nil, err
		}
		user.IsEmailVerified = true
	}

	s.linkProvider(ctx, user, profile)

	// last_login_at is advisory; a failed update must not block sign-in
	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)

	return s.sessions.Issue(ctx, user, meta)
}

func (s *oauthService) fetchProfile(ctx context.Context, token *oauth2.Token) (*googleProfile, error) {
	client := s.oauthCfg.Client(ctx, token)

	resp, err := client.Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode google profile: %w", err)
	}

	return &profile, nil
}

// linkProvider records the provider connection; an existing link is
// left alone.
func (s *oauthService) linkProvider(ctx context.Context, user *domain.User, profile *googleProfile) {
	_, err := s.providerRepo.GetByProvider(ctx, "google", profile.ID)
	if err == nil {
		return
	}

	email := user.Email
	link := &domain.OAuthProvider{
		UserID:         user.ID,
		Provider:       "google",
		ProviderUserID: profile.ID,
		Email:          &email,
	}
	// duplicate link races are harmless
	_ = s.providerRepo.Create(ctx, link)
}
