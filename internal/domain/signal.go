package domain

import "time"

// Signal is a published market signal surfaced to users.
type Signal struct {
	ID         string    `json:"id" db:"id"`
	Symbol     string    `json:"symbol" db:"symbol"`
	Title      string    `json:"title" db:"title"`
	Direction  string    `json:"direction" db:"direction"` // LONG or SHORT
	Confidence int       `json:"confidence" db:"confidence"`
	MinPlan    Plan      `json:"min_plan" db:"min_plan"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Insight is an AI-generated strategic note attached to a user.
type Insight struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Prompt    string    `json:"prompt" db:"prompt"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
