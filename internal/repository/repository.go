package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/signalforge/zairix-api/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User          UserRepository
	Session       SessionRepository
	AuthToken     AuthTokenRepository
	Usage         UsageRepository
	Subscription  SubscriptionRepository
	Signal        SignalRepository
	Insight       InsightRepository
	OAuthProvider OAuthProviderRepository

	db *database.Postgres
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Session:       NewSessionRepository(db),
		AuthToken:     NewAuthTokenRepository(db),
		Usage:         NewUsageRepository(db),
		Subscription:  NewSubscriptionRepository(db),
		Signal:        NewSignalRepository(db),
		Insight:       NewInsightRepository(db),
		OAuthProvider: NewOAuthProviderRepository(db),
		db:            db,
	}
}

// WithTx runs fn inside a transaction, committing on nil error and
// rolling back otherwise. Used by the password reset flow so the token
// consume, password update and session create land together.
func (r *Repositories) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (after: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
