package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/pkg/database"
)

// insightRepository implements InsightRepository interface
type insightRepository struct {
	db *database.Postgres
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *database.Postgres) InsightRepository {
	return &insightRepository{db: db}
}

// Create stores a generated insight
func (r *insightRepository) Create(ctx context.Context, insight *domain.Insight) error {
	query := `
		INSERT INTO insights (id, user_id, prompt, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if insight.ID == "" {
		insight.ID = uuid.New().String()
	}
	if insight.CreatedAt.IsZero() {
		insight.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		insight.ID,
		insight.UserID,
		insight.Prompt,
		insight.Content,
		insight.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create insight: %w", err)
	}

	return nil
}

// ListByUserID returns the user's most recent insights
func (r *insightRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*domain.Insight, error) {
	query := `
		SELECT id, user_id, prompt, content, created_at
		FROM insights
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	var insights []*domain.Insight
	for rows.Next() {
		insight := &domain.Insight{}
		err := rows.Scan(
			&insight.ID,
			&insight.UserID,
			&insight.Prompt,
			&insight.Content,
			&insight.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		insights = append(insights, insight)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate insights: %w", err)
	}

	return insights, nil
}
