package service

import "errors"

// Service-level sentinel errors. Handlers translate these into the
// HTTP status vocabulary; messages stay generic so responses do not
// leak account existence or which check failed.
var (
	// ErrNotConfigured means a required secret or transport (token
	// pepper, mail) is missing. Surfaced as 503 rather than silently
	// degrading to an insecure mode.
	ErrNotConfigured = errors.New("not_configured")

	// ErrUserExists is returned on duplicate registration.
	ErrUserExists = errors.New("user_exists")

	// ErrInvalidCredentials covers every login failure.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrInvalidToken covers wrong, expired and consumed emailed
	// tokens alike.
	ErrInvalidToken = errors.New("expired_or_invalid")

	// ErrUpgradeRequired means the user's plan rank is below the
	// feature's minimum.
	ErrUpgradeRequired = errors.New("upgrade_required")

	// ErrDailyLimitReached means the per-day usage cap is exhausted.
	ErrDailyLimitReached = errors.New("daily_limit_reached")

	// ErrProviderUnavailable means the insight provider errored or
	// timed out.
	ErrProviderUnavailable = errors.New("ai_unavailable")
)
