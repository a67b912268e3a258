package domain

import "time"

// Session represents a browser session row. The signed session cookie
// references the row by ID; expiry is enforced by the cookie Max-Age
// and the token exp claim.
type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	IPAddress *string   `json:"ip_address" db:"ip_address"`
	UserAgent *string   `json:"user_agent" db:"user_agent"`
}

// SessionClaims are the claims embedded in the signed session cookie.
type SessionClaims struct {
	UserID    string `json:"sub"`
	Email     string `json:"email"`
	Plan      Plan   `json:"plan"`
	Role      Role   `json:"role"`
	SessionID string `json:"sid"`
	Exp       int64  `json:"exp"`
	Iat       int64  `json:"iat"`
}

// IsExpired checks if the claims are past their expiry.
func (c SessionClaims) IsExpired() bool {
	return time.Now().Unix() > c.Exp
}
