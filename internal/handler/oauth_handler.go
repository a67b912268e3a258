package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/service"
	"github.com/signalforge/zairix-api/internal/utils"
	"go.uber.org/zap"
)

// OAuthHandler handles the Google authorization-code flow.
type OAuthHandler struct {
	oauth   service.OAuthService
	cookies *CookieWriter
	logger  *zap.Logger
}

// NewOAuthHandler creates a new OAuth handler. oauth may be nil when
// the Google client is not configured.
func NewOAuthHandler(oauth service.OAuthService, cookies *CookieWriter, logger *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		oauth:   oauth,
		cookies: cookies,
		logger:  logger,
	}
}

// Start issues state and PKCE cookies and redirects to the consent
// screen.
func (h *OAuthHandler) Start(c *gin.Context) {
	if h.oauth == nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "not_configured"})
		return
	}

	begin, err := h.oauth.Begin(c.Query("next"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.cookies.SetOAuthTransients(c, begin.State, begin.Verifier, c.Query("next"))
	c.Redirect(http.StatusFound, begin.AuthURL)
}

// Callback validates state against the cookie, completes the exchange,
// establishes the session and clears the transient cookies.
func (h *OAuthHandler) Callback(c *gin.Context) {
	if h.oauth == nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "not_configured"})
		return
	}

	state := c.Query("state")
	cookieState, err := c.Cookie(OAuthStateCookie)
	if err != nil || state == "" || !utils.TimingSafeEqualHex(state, cookieState) {
		h.cookies.ClearOAuthTransients(c)
		c.Redirect(http.StatusFound, "/login?error=oauth_failed")
		return
	}

	verifier, err := c.Cookie(OAuthVerifierCookie)
	if err != nil || verifier == "" {
		h.cookies.ClearOAuthTransients(c)
		c.Redirect(http.StatusFound, "/login?error=oauth_failed")
		return
	}

	next := "/dashboard"
	if n, err := c.Cookie(OAuthNextCookie); err == nil {
		next = SafeNextPath(n)
	}

	result, err := h.oauth.Complete(c.Request.Context(), c.Query("code"), verifier, requestMeta(c))
	h.cookies.ClearOAuthTransients(c)
	if err != nil {
		h.logger.Error("oauth callback failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.Redirect(http.StatusFound, "/login?error=oauth_failed")
		return
	}

	h.cookies.SetSession(c, result.SignedToken, result.ExpiresIn)
	c.Redirect(http.StatusFound, next)
}
