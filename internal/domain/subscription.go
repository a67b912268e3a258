package domain

import "time"

// SubscriptionStatus mirrors the billing provider's preapproval states.
type SubscriptionStatus string

const (
	SubscriptionAuthorized SubscriptionStatus = "authorized"
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionPaused     SubscriptionStatus = "paused"
	SubscriptionCancelled  SubscriptionStatus = "cancelled"
)

// Subscription records the latest known billing state for a user.
// ExternalRef is the provider's identifier; webhook replays upsert on
// it so duplicate deliveries are no-ops.
type Subscription struct {
	ID          string             `json:"id" db:"id"`
	UserID      string             `json:"user_id" db:"user_id"`
	ExternalRef string             `json:"external_ref" db:"external_ref"`
	Plan        Plan               `json:"plan" db:"plan"`
	Status      SubscriptionStatus `json:"status" db:"status"`
	RawPayload  string             `json:"-" db:"raw_payload"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" db:"updated_at"`
}

// GrantsPlan reports whether the subscription state entitles the user
// to its plan; anything else downgrades to FREE.
func (s Subscription) GrantsPlan() bool {
	return s.Status == SubscriptionAuthorized || s.Status == SubscriptionActive
}
