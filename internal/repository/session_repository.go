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

// sessionRepository implements SessionRepository interface
type sessionRepository struct {
	db *database.Postgres
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.Postgres) SessionRepository {
	return &sessionRepository{db: db}
}

const sessionInsert = `
	INSERT INTO sessions (id, user_id, expires_at, created_at, ip_address, user_agent)
	VALUES ($1, $2, $3, $4, $5, $6)
`

// Create creates a new session row
func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	prepareSession(session)

	_, err := r.db.DB.ExecContext(ctx, sessionInsert,
		session.ID,
		session.UserID,
		session.ExpiresAt,
		session.CreatedAt,
		session.IPAddress,
		session.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// CreateTx creates a session row inside an existing transaction
func (r *sessionRepository) CreateTx(ctx context.Context, tx *sql.Tx, session *domain.Session) error {
	prepareSession(session)

	_, err := tx.ExecContext(ctx, sessionInsert,
		session.ID,
		session.UserID,
		session.ExpiresAt,
		session.CreatedAt,
		session.IPAddress,
		session.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by ID
func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT id, user_id, expires_at, created_at, ip_address, user_agent
		FROM sessions
		WHERE id = $1
	`

	session := &domain.Session{}
	var ipAddress, userAgent sql.NullString

	err := r.db.DB.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
		&ipAddress,
		&userAgent,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	if ipAddress.Valid {
		session.IPAddress = &ipAddress.String
	}
	if userAgent.Valid {
		session.UserAgent = &userAgent.String
	}

	return session, nil
}

// DeleteExpired deletes all expired session rows
func (r *sessionRepository) DeleteExpired(ctx context.Context) error {
	query := `DELETE FROM sessions WHERE expires_at < $1`

	_, err := r.db.DB.ExecContext(ctx, query, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return nil
}

func prepareSession(session *domain.Session) {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
}
