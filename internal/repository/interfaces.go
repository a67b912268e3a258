package repository

import (
	"context"
	"database/sql"

	"github.com/signalforge/zairix-api/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePlan(ctx context.Context, userID string, plan domain.Plan) error
	MarkEmailVerified(ctx context.Context, userID string) error
	UpdateLastLogin(ctx context.Context, userID string) error
	UpdatePasswordTx(ctx context.Context, tx *sql.Tx, userID, passwordHash string) error
}

// SessionRepository defines methods for session rows backing the
// signed session cookie.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	CreateTx(ctx context.Context, tx *sql.Tx, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	DeleteExpired(ctx context.Context) error
}

// AuthTokenRepository defines methods for single-use emailed tokens.
type AuthTokenRepository interface {
	Create(ctx context.Context, token *domain.AuthToken) error
	// FindLive returns the unconsumed, unexpired token matching
	// identifier, type and hash, or ErrNotFound.
	FindLive(ctx context.Context, identifier string, tokenType domain.TokenType, tokenHash string) (*domain.AuthToken, error)
	// ConsumeAllLive marks every live token for (identifier, type)
	// consumed, so only the newest issued token is ever usable.
	ConsumeAllLive(ctx context.Context, identifier string, tokenType domain.TokenType) error
	Consume(ctx context.Context, tokenID string) error
	ConsumeTx(ctx context.Context, tx *sql.Tx, tokenID string) error
}

// UsageRepository defines methods for per-day usage counters.
type UsageRepository interface {
	Get(ctx context.Context, userID, day string) (*domain.UsageDay, error)
	IncrementSignalsViewed(ctx context.Context, userID, day string) error
	// IncrementInsightsIfUnder bumps the insight counter only while it
	// is below limit, as one conditional statement so concurrent
	// requests cannot both pass the check. A negative limit means
	// unlimited. Returns false when the cap is already reached.
	IncrementInsightsIfUnder(ctx context.Context, userID, day string, limit int) (bool, error)
	AddPoints(ctx context.Context, userID, day string, points int) error
}

// SubscriptionRepository defines methods for billing subscription state.
type SubscriptionRepository interface {
	// UpsertByExternalRef inserts or refreshes the subscription row
	// keyed on the provider's reference; webhook replays are no-ops.
	UpsertByExternalRef(ctx context.Context, sub *domain.Subscription) error
	GetByExternalRef(ctx context.Context, externalRef string) (*domain.Subscription, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Subscription, error)
}

// SignalRepository defines methods for market signals.
type SignalRepository interface {
	Create(ctx context.Context, signal *domain.Signal) error
	// ListVisible returns recent signals whose minimum plan does not
	// exceed the given plan rank.
	ListVisible(ctx context.Context, plan domain.Plan, limit int) ([]*domain.Signal, error)
}

// InsightRepository defines methods for stored insights.
type InsightRepository interface {
	Create(ctx context.Context, insight *domain.Insight) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]*domain.Insight, error)
}

// OAuthProviderRepository defines methods for OAuth provider operations
type OAuthProviderRepository interface {
	Create(ctx context.Context, provider *domain.OAuthProvider) error
	GetByProvider(ctx context.Context, provider, providerUserID string) (*domain.OAuthProvider, error)
}
