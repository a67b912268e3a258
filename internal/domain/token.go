package domain

import "time"

// TokenType distinguishes the single-use emailed token flows.
type TokenType string

const (
	TokenTypeMagicLink     TokenType = "MAGIC_LINK"
	TokenTypePasswordReset TokenType = "PASSWORD_RESET"
)

// AuthToken stores the peppered hash of a single-use emailed token.
// The raw token is only ever sent to the owner of the mailbox.
// At most one live (unconsumed, unexpired) token exists per
// (identifier, type) pair: issuing a new token consumes prior ones.
type AuthToken struct {
	ID         string     `json:"id" db:"id"`
	Identifier string     `json:"identifier" db:"identifier"` // case-folded email
	Type       TokenType  `json:"type" db:"type"`
	TokenHash  string     `json:"-" db:"token_hash"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at" db:"consumed_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Live reports whether the token is still consumable at the given time.
func (t AuthToken) Live(now time.Time) bool {
	return t.ConsumedAt == nil && t.ExpiresAt.After(now)
}
