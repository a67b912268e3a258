package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Cookie names. The session cookie carries the signed claims; the
// google_oauth_* cookies are transient state for the code flow; the
// sf_* cookies belong to the compliance gate, independent of auth.
const (
	SessionCookie = "em_session"

	OAuthStateCookie    = "google_oauth_state"
	OAuthVerifierCookie = "google_oauth_verifier"
	OAuthNextCookie     = "google_oauth_next"

	ConsentCookie      = "sf_welcome_accepted"
	CookieConsent      = "sf_cookie_consent"
	AcceptanceIDCookie = "sf_acceptance_id"
	LegalVersionCookie = "sf_legal_version"
)

const oauthCookieMaxAge = 600 // 10 minutes

// CookieWriter sets cookies with the Secure flag wired to the
// environment, so production cookies never travel over plain HTTP.
type CookieWriter struct {
	secure bool
}

// NewCookieWriter creates a cookie writer; secure should be true in
// production.
func NewCookieWriter(secure bool) *CookieWriter {
	return &CookieWriter{secure: secure}
}

// SetSession sets the HTTP-only session cookie.
func (w *CookieWriter) SetSession(c *gin.Context, signedToken string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, signedToken, maxAge, "/", "", w.secure, true)
}

// ClearSession removes the session cookie.
func (w *CookieWriter) ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", w.secure, true)
}

// SetOAuthTransients stores the state, PKCE verifier and next path for
// the duration of the consent round trip.
func (w *CookieWriter) SetOAuthTransients(c *gin.Context, state, verifier, next string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(OAuthStateCookie, state, oauthCookieMaxAge, "/", "", w.secure, true)
	c.SetCookie(OAuthVerifierCookie, verifier, oauthCookieMaxAge, "/", "", w.secure, true)
	if next != "" {
		c.SetCookie(OAuthNextCookie, next, oauthCookieMaxAge, "/", "", w.secure, true)
	}
}

// SetConsent records the welcome/consent acceptance. The acceptance
// id and legal version travel alongside the flag so support can tell
// which terms revision a user accepted.
func (w *CookieWriter) SetConsent(c *gin.Context, acceptanceID, legalVersion string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ConsentCookie, "true", maxAge, "/", "", w.secure, false)
	c.SetCookie(CookieConsent, "true", maxAge, "/", "", w.secure, false)
	c.SetCookie(AcceptanceIDCookie, acceptanceID, maxAge, "/", "", w.secure, false)
	c.SetCookie(LegalVersionCookie, legalVersion, maxAge, "/", "", w.secure, false)
}

// ClearOAuthTransients removes the transient OAuth cookies.
func (w *CookieWriter) ClearOAuthTransients(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(OAuthStateCookie, "", -1, "/", "", w.secure, true)
	c.SetCookie(OAuthVerifierCookie, "", -1, "/", "", w.secure, true)
	c.SetCookie(OAuthNextCookie, "", -1, "/", "", w.secure, true)
}

// SafeNextPath allow-lists redirect targets to same-origin paths.
// Anything else falls back to /dashboard.
func SafeNextPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/dashboard"
	}
	if strings.Contains(next, "\\") || strings.Contains(next, "://") {
		return "/dashboard"
	}
	return next
}
