package service

import (
	"context"

	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/dto"
)

// RequestMeta carries per-request client metadata into the services.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// AuthResult is produced by every flow that establishes a session.
type AuthResult struct {
	User        *domain.User
	SessionID   string
	SignedToken string
	ExpiresIn   int // cookie Max-Age in seconds
}

// SessionService issues, verifies and revokes sessions. It is the
// single place that creates session rows and signs cookies; the
// password, magic-link, reset and OAuth flows all go through it.
type SessionService interface {
	Issue(ctx context.Context, user *domain.User, meta RequestMeta) (*AuthResult, error)
	// Verify checks the cookie signature and claims shape, then the
	// revocation set. Any failure means unauthenticated.
	Verify(ctx context.Context, signedToken string) (*domain.SessionClaims, error)
	Revoke(ctx context.Context, sessionID string) error
}

// AuthService defines the password-credential operations.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest, meta RequestMeta) (*AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest, meta RequestMeta) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetMe(ctx context.Context, userID string) (*dto.MeResponse, error)
}

// MagicLinkService implements the emailed single-use sign-in flow.
type MagicLinkService interface {
	// Request issues a link for the email. It succeeds whether or not
	// the account exists, to avoid user enumeration.
	Request(ctx context.Context, email, next string) error
	// Verify consumes the presented token and establishes a session.
	Verify(ctx context.Context, email, rawToken string, meta RequestMeta) (*AuthResult, error)
}

// PasswordResetService implements the emailed reset flow.
type PasswordResetService interface {
	Request(ctx context.Context, email string) error
	// Confirm consumes the token, updates the password hash and
	// creates the session in one transaction.
	Confirm(ctx context.Context, req *dto.PasswordResetConfirm, meta RequestMeta) (*AuthResult, error)
}

// OAuthService implements the Google authorization-code flow with PKCE.
type OAuthService interface {
	// Begin returns the consent URL plus the state and PKCE verifier
	// that the handler stores in short-lived cookies.
	Begin(next string) (*OAuthBegin, error)
	// Complete validates state, exchanges the code and upserts the
	// local user by email.
	Complete(ctx context.Context, code, verifier string, meta RequestMeta) (*AuthResult, error)
}

// OAuthBegin carries the transient values of an OAuth start.
type OAuthBegin struct {
	AuthURL  string
	State    string
	Verifier string
}

// PlanGate enforces plan ranks and daily usage caps.
type PlanGate interface {
	// RequirePlan returns ErrUpgradeRequired when the user's rank is
	// below min. Admins always pass.
	RequirePlan(user *domain.User, min domain.Plan) error
	// ConsumeInsight atomically takes one unit of today's insight
	// capacity and returns the remaining count (-1 for unlimited).
	ConsumeInsight(ctx context.Context, user *domain.User) (int, error)
	UsageToday(ctx context.Context, userID string) (*domain.UsageDay, error)
	InsightLimit(user *domain.User) int
}

// SignalService surfaces market signals.
type SignalService interface {
	List(ctx context.Context, user *domain.User) ([]*domain.Signal, error)
}

// InsightService generates and stores AI-assisted insights.
type InsightService interface {
	Generate(ctx context.Context, user *domain.User, req *dto.InsightRequest) (*dto.InsightResponse, error)
}

// BillingService reacts to billing provider webhooks.
type BillingService interface {
	ProcessWebhook(ctx context.Context, payload *dto.BillingWebhook, raw []byte) error
}
