package dto

import "github.com/signalforge/zairix-api/internal/domain"

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// MagicLinkRequest asks for a sign-in link to be emailed.
type MagicLinkRequest struct {
	Email string `json:"email" binding:"required"`
	Next  string `json:"next"`
}

// PasswordResetRequest asks for a reset link to be emailed.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

// PasswordResetConfirm carries the emailed token and the new password.
type PasswordResetConfirm struct {
	Email    string `json:"email" binding:"required"`
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// InsightRequest asks for an AI-generated strategic insight.
type InsightRequest struct {
	Prompt string `json:"prompt" binding:"required,max=2000"`
}

// BillingWebhook is the normalized payload posted by the billing
// provider integration.
type BillingWebhook struct {
	ExternalRef string `json:"external_ref" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Plan        string `json:"plan" binding:"required"`
	Status      string `json:"status" binding:"required"`
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	User      UserInfo `json:"user"`
	ExpiresIn int      `json:"expires_in"`
}

// UserInfo represents user information in response
type UserInfo struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Plan  domain.Plan `json:"plan"`
	Role  domain.Role `json:"role"`
}

// MeResponse is the current user's profile with today's usage.
type MeResponse struct {
	ID              string      `json:"id"`
	Email           string      `json:"email"`
	Plan            domain.Plan `json:"plan"`
	Role            domain.Role `json:"role"`
	IsEmailVerified bool        `json:"is_email_verified"`
	CreatedAt       string      `json:"created_at"`
	SignalsViewed   int         `json:"signals_viewed_today"`
	InsightsUsed    int         `json:"insights_used_today"`
	InsightsLimit   int         `json:"insights_limit"`
}

// InsightResponse carries a generated insight.
type InsightResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Remaining int    `json:"remaining_today"`
}

// SignalsResponse lists visible market signals.
type SignalsResponse struct {
	Signals []SignalInfo `json:"signals"`
}

// SignalInfo is a signal as surfaced to a user.
type SignalInfo struct {
	ID         string      `json:"id"`
	Symbol     string      `json:"symbol"`
	Title      string      `json:"title"`
	Direction  string      `json:"direction"`
	Confidence int         `json:"confidence"`
	MinPlan    domain.Plan `json:"min_plan"`
	CreatedAt  string      `json:"created_at"`
}

// ConsentStatus reports the state of the welcome/consent gate.
type ConsentStatus struct {
	Accepted     bool   `json:"accepted"`
	LegalVersion string `json:"legal_version,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
