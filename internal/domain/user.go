package domain

import "time"

// Plan is the subscription tier of a user. Plans form a total order
// used for feature gating: PlanFree < PlanPro < PlanElite.
type Plan string

const (
	PlanFree  Plan = "FREE"
	PlanPro   Plan = "PRO"
	PlanElite Plan = "ELITE"
)

var planRanks = map[Plan]int{
	PlanFree:  0,
	PlanPro:   1,
	PlanElite: 2,
}

// Rank returns the position of the plan in the FREE < PRO < ELITE order.
// Unknown plans rank below FREE.
func (p Plan) Rank() int {
	rank, ok := planRanks[p]
	if !ok {
		return -1
	}
	return rank
}

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	_, ok := planRanks[p]
	return ok
}

// AtLeast reports whether p grants access to features requiring min.
func (p Plan) AtLeast(min Plan) bool {
	return p.Rank() >= min.Rank()
}

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a user in the system. PasswordHash is empty for
// accounts created through OAuth or magic link only.
type User struct {
	ID              string     `json:"id" db:"id"`
	Email           string     `json:"email" db:"email"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	Plan            Plan       `json:"plan" db:"plan"`
	Role            Role       `json:"role" db:"role"`
	IsEmailVerified bool       `json:"is_email_verified" db:"is_email_verified"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
	LastLoginAt     *time.Time `json:"last_login_at" db:"last_login_at"`
}

// OAuthProvider represents an OAuth provider connection for a user
type OAuthProvider struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Provider       string    `json:"provider" db:"provider"` // google
	ProviderUserID string    `json:"provider_user_id" db:"provider_user_id"`
	Email          *string   `json:"email" db:"email"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
