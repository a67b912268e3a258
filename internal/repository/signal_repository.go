package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/pkg/database"
)

// signalRepository implements SignalRepository interface
type signalRepository struct {
	db *database.Postgres
}

// NewSignalRepository creates a new signal repository
func NewSignalRepository(db *database.Postgres) SignalRepository {
	return &signalRepository{db: db}
}

// Create creates a new market signal
func (r *signalRepository) Create(ctx context.Context, signal *domain.Signal) error {
	query := `
		INSERT INTO signals (id, symbol, title, direction, confidence, min_plan, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if signal.ID == "" {
		signal.ID = uuid.New().String()
	}
	if signal.MinPlan == "" {
		signal.MinPlan = domain.PlanFree
	}
	if signal.CreatedAt.IsZero() {
		signal.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		signal.ID,
		signal.Symbol,
		signal.Title,
		signal.Direction,
		signal.Confidence,
		signal.MinPlan,
		signal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create signal: %w", err)
	}

	return nil
}

// ListVisible returns recent signals gated at or below the plan's rank.
// Plan ranks are compared in SQL via a fixed CASE so the ordering
// matches domain.Plan.Rank.
func (r *signalRepository) ListVisible(ctx context.Context, plan domain.Plan, limit int) ([]*domain.Signal, error) {
	query := `
		SELECT id, symbol, title, direction, confidence, min_plan, created_at
		FROM signals
		WHERE CASE min_plan WHEN 'FREE' THEN 0 WHEN 'PRO' THEN 1 WHEN 'ELITE' THEN 2 END <= $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.DB.QueryContext(ctx, query, plan.Rank(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list signals: %w", err)
	}
	defer rows.Close()

	var signals []*domain.Signal
	for rows.Next() {
		signal := &domain.Signal{}
		err := rows.Scan(
			&signal.ID,
			&signal.Symbol,
			&signal.Title,
			&signal.Direction,
			&signal.Confidence,
			&signal.MinPlan,
			&signal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		signals = append(signals, signal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signals: %w", err)
	}

	return signals, nil
}
