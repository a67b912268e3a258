package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/pkg/database"
)

// subscriptionRepository implements SubscriptionRepository interface
type subscriptionRepository struct {
	db *database.Postgres
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *database.Postgres) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// UpsertByExternalRef inserts or refreshes the subscription keyed on
// the billing provider's reference. Redelivered webhooks rewrite the
// same row, so replays are harmless.
func (r *subscriptionRepository) UpsertByExternalRef(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, user_id, external_ref, plan, status, raw_payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (external_ref)
		DO UPDATE SET plan = $4, status = $5, raw_payload = $6, updated_at = $7
	`

	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}

	now := time.Now()
	_, err := r.db.DB.ExecContext(ctx, query,
		sub.ID,
		sub.UserID,
		sub.ExternalRef,
		sub.Plan,
		sub.Status,
		sub.RawPayload,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return nil
}

const subscriptionColumns = `id, user_id, external_ref, plan, status, raw_payload, created_at, updated_at`

// GetByExternalRef retrieves a subscription by provider reference
func (r *subscriptionRepository) GetByExternalRef(ctx context.Context, externalRef string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE external_ref = $1`

	return r.scanSubscription(r.db.DB.QueryRowContext(ctx, query, externalRef), "external ref "+externalRef)
}

// GetByUserID retrieves the most recently updated subscription for a user
func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1 ORDER BY updated_at DESC LIMIT 1`

	return r.scanSubscription(r.db.DB.QueryRowContext(ctx, query, userID), "user id "+userID)
}

func (r *subscriptionRepository) scanSubscription(row *sql.Row, what string) (*domain.Subscription, error) {
	sub := &domain.Subscription{}

	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.ExternalRef,
		&sub.Plan,
		&sub.Status,
		&sub.RawPayload,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subscription with %s not found: %w", what, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return sub, nil
}
