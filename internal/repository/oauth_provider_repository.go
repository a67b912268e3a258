package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/pkg/database"
)

// oauthProviderRepository implements OAuthProviderRepository interface
type oauthProviderRepository struct {
	db *database.Postgres
}

// NewOAuthProviderRepository creates a new OAuth provider repository
func NewOAuthProviderRepository(db *database.Postgres) OAuthProviderRepository {
	return &oauthProviderRepository{db: db}
}

// Create creates a new OAuth provider connection
func (r *oauthProviderRepository) Create(ctx context.Context, provider *domain.OAuthProvider) error {
	query := `
		INSERT INTO oauth_providers (id, user_id, provider, provider_user_id, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if provider.ID == "" {
		provider.ID = uuid.New().String()
	}
	if provider.CreatedAt.IsZero() {
		provider.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		provider.ID,
		provider.UserID,
		provider.Provider,
		provider.ProviderUserID,
		provider.Email,
		provider.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("oauth provider connection already exists: %w", ErrDuplicateOAuthProvider)
			}
		}
		return fmt.Errorf("failed to create oauth provider: %w", err)
	}

	return nil
}

// GetByProvider retrieves an OAuth provider connection by provider and provider user ID
func (r *oauthProviderRepository) GetByProvider(ctx context.Context, provider, providerUserID string) (*domain.OAuthProvider, error) {
	query := `
		SELECT id, user_id, provider, provider_user_id, email, created_at
		FROM oauth_providers
		WHERE provider = $1 AND provider_user_id = $2
	`

	oauthProvider := &domain.OAuthProvider{}
	var email sql.NullString

	err := r.db.DB.QueryRowContext(ctx, query, provider, providerUserID).Scan(
		&oauthProvider.ID,
		&oauthProvider.UserID,
		&oauthProvider.Provider,
		&oauthProvider.ProviderUserID,
		&email,
		&oauthProvider.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("oauth provider connection not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get oauth provider: %w", err)
	}

	if email.Valid {
		oauthProvider.Email = &email.String
	}

	return oauthProvider, nil
}
