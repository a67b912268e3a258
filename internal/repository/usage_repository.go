package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/pkg/database"
)

// usageRepository implements UsageRepository interface
type usageRepository struct {
	db *database.Postgres
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *database.Postgres) UsageRepository {
	return &usageRepository{db: db}
}

// Get returns the usage row for the day, or a zero-valued row when the
// user has no activity yet.
func (r *usageRepository) Get(ctx context.Context, userID, day string) (*domain.UsageDay, error) {
	query := `
		SELECT user_id, day, signals_viewed, insights_used, points, updated_at
		FROM usage_days
		WHERE user_id = $1 AND day = $2
	`

	usage := &domain.UsageDay{}
	err := r.db.DB.QueryRowContext(ctx, query, userID, day).Scan(
		&usage.UserID,
		&usage.Day,
		&usage.SignalsViewed,
		&usage.InsightsUsed,
		&usage.Points,
		&usage.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.UsageDay{UserID: userID, Day: day}, nil
		}
		return nil, fmt.Errorf("failed to get usage day: %w", err)
	}

	return usage, nil
}

// IncrementSignalsViewed lazily upserts the day row and bumps the
// signals counter.
func (r *usageRepository) IncrementSignalsViewed(ctx context.Context, userID, day string) error {
	query := `
		INSERT INTO usage_days (user_id, day, signals_viewed, insights_used, points, updated_at)
		VALUES ($1, $2, 1, 0, 0, $3)
		ON CONFLICT (user_id, day)
		DO UPDATE SET signals_viewed = usage_days.signals_viewed + 1, updated_at = $3
	`

	_, err := r.db.DB.ExecContext(ctx, query, userID, day, time.Now())
	if err != nil {
		return fmt.Errorf("failed to increment signals viewed: %w", err)
	}

	return nil
}

// IncrementInsightsIfUnder consumes one unit of insight capacity. The
// check and increment are a single conditional upsert, so two
// concurrent requests cannot both pass the check before either
// increment lands.
func (r *usageRepository) IncrementInsightsIfUnder(ctx context.Context, userID, day string, limit int) (bool, error) {
	if limit == 0 {
		return false, nil
	}

	if limit < 0 { // unlimited
		query := `
			INSERT INTO usage_days (user_id, day, signals_viewed, insights_used, points, updated_at)
			VALUES ($1, $2, 0, 1, 0, $3)
			ON CONFLICT (user_id, day)
			DO UPDATE SET insights_used = usage_days.insights_used + 1, updated_at = $3
		`
		if _, err := r.db.DB.ExecContext(ctx, query, userID, day, time.Now()); err != nil {
			return false, fmt.Errorf("failed to increment insights used: %w", err)
		}
		return true, nil
	}

	query := `
		INSERT INTO usage_days (user_id, day, signals_viewed, insights_used, points, updated_at)
		VALUES ($1, $2, 0, 1, 0, $3)
		ON CONFLICT (user_id, day)
		DO UPDATE SET insights_used = usage_days.insights_used + 1, updated_at = $3
		WHERE usage_days.insights_used < $4
	`

	result, err := r.db.DB.ExecContext(ctx, query, userID, day, time.Now(), limit)
	if err != nil {
		return false, fmt.Errorf("failed to increment insights used: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// AddPoints adds gamification points to the day row.
func (r *usageRepository) AddPoints(ctx context.Context, userID, day string, points int) error {
	query := `
		INSERT INTO usage_days (user_id, day, signals_viewed, insights_used, points, updated_at)
		VALUES ($1, $2, 0, 0, $3, $4)
		ON CONFLICT (user_id, day)
		DO UPDATE SET points = usage_days.points + $3, updated_at = $4
	`

	_, err := r.db.DB.ExecContext(ctx, query, userID, day, points, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add points: %w", err)
	}

	return nil
}
