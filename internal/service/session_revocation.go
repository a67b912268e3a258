package service

import (
	"context"
	"fmt"
	"time"

	"github.com/signalforge/zairix-api/pkg/database"
)

// RevokedSessions tracks logged-out session ids in Redis. Entries
// expire with the session TTL, so the set stays bounded.
type RevokedSessions struct {
	redis *database.Redis
}

// NewRevokedSessions creates a new revoked session set
func NewRevokedSessions(redis *database.Redis) *RevokedSessions {
	return &RevokedSessions{redis: redis}
}

// Revoke marks a session id as revoked until its natural expiry
func (s *RevokedSessions) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	key := fmt.Sprintf("revoked:session:%s", sessionID)
	if err := s.redis.Client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked checks whether a session id has been revoked
func (s *RevokedSessions) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	key := fmt.Sprintf("revoked:session:%s", sessionID)
	exists, err := s.redis.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return exists > 0, nil
}
