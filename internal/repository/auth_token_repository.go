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

// authTokenRepository implements AuthTokenRepository interface
type authTokenRepository struct {
	db *database.Postgres
}

// NewAuthTokenRepository creates a new auth token repository
func NewAuthTokenRepository(db *database.Postgres) AuthTokenRepository {
	return &authTokenRepository{db: db}
}

// Create creates a new single-use token row
func (r *authTokenRepository) Create(ctx context.Context, token *domain.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (id, identifier, type, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		token.ID,
		token.Identifier,
		token.Type,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("token with hash already exists: %w", ErrDuplicateToken)
			}
		}
		return fmt.Errorf("failed to create auth token: %w", err)
	}

	return nil
}

// FindLive returns the matching unconsumed, unexpired token row.
// "Wrong token" and "expired token" are indistinguishable to callers,
// which keeps verification errors enumeration-resistant.
func (r *authTokenRepository) FindLive(ctx context.Context, identifier string, tokenType domain.TokenType, tokenHash string) (*domain.AuthToken, error) {
	query := `
		SELECT id, identifier, type, token_hash, expires_at, consumed_at, created_at
		FROM auth_tokens
		WHERE identifier = $1 AND type = $2 AND token_hash = $3
		  AND consumed_at IS NULL AND expires_at > $4
	`

	token := &domain.AuthToken{}
	var consumedAt sql.NullTime

	err := r.db.DB.QueryRowContext(ctx, query, identifier, tokenType, tokenHash, time.Now()).Scan(
		&token.ID,
		&token.Identifier,
		&token.Type,
		&token.TokenHash,
		&token.ExpiresAt,
		&consumedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("live auth token not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find live auth token: %w", err)
	}

	if consumedAt.Valid {
		token.ConsumedAt = &consumedAt.Time
	}

	return token, nil
}

// ConsumeAllLive marks every live token for (identifier, type) as
// consumed. Called before issuing a new token so only the newest one
// is ever usable.
func (r *authTokenRepository) ConsumeAllLive(ctx context.Context, identifier string, tokenType domain.TokenType) error {
	query := `
		UPDATE auth_tokens
		SET consumed_at = $3
		WHERE identifier = $1 AND type = $2 AND consumed_at IS NULL AND expires_at > $3
	`

	_, err := r.db.DB.ExecContext(ctx, query, identifier, tokenType, time.Now())
	if err != nil {
		return fmt.Errorf("failed to consume live auth tokens: %w", err)
	}

	return nil
}

const consumeQuery = `
	UPDATE auth_tokens
	SET consumed_at = $2
	WHERE id = $1 AND consumed_at IS NULL
`

// Consume marks a token consumed. Returns ErrNotFound when the token
// was already consumed, so a raced double-verify fails cleanly.
func (r *authTokenRepository) Consume(ctx context.Context, tokenID string) error {
	result, err := r.db.DB.ExecContext(ctx, consumeQuery, tokenID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to consume auth token: %w", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("live auth token with id %s", tokenID))
}

// ConsumeTx marks a token consumed inside an existing transaction
func (r *authTokenRepository) ConsumeTx(ctx context.Context, tx *sql.Tx, tokenID string) error {
	result, err := tx.ExecContext(ctx, consumeQuery, tokenID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to consume auth token: %w", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("live auth token with id %s", tokenID))
}
