package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/service"
	"go.uber.org/zap"
)

// MagicLinkHandler handles the emailed sign-in link flow.
type MagicLinkHandler struct {
	magicLinks service.MagicLinkService
	cookies    *CookieWriter
	logger     *zap.Logger
}

// NewMagicLinkHandler creates a new magic link handler
func NewMagicLinkHandler(magicLinks service.MagicLinkService, cookies *CookieWriter, logger *zap.Logger) *MagicLinkHandler {
	return &MagicLinkHandler{
		magicLinks: magicLinks,
		cookies:    cookies,
		logger:     logger,
	}
}

// Request issues a sign-in link. The response is 200 ok whether or not
// the account exists.
func (h *MagicLinkHandler) Request(c *gin.Context) {
	var req dto.MagicLinkRequest
	// Body binding is shared with the email-scoped rate limiter.
	if err := c.ShouldBindBodyWithJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	err := h.magicLinks.Request(c.Request.Context(), req.Email, req.Next)
	if err != nil {
		if errors.Is(err, service.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "not_configured"})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{OK: true})
}

// Verify is the emailed URL target. It consumes the token, sets the
// session cookie and redirects into the app; failures land on the
// login page with a single generic error code.
func (h *MagicLinkHandler) Verify(c *gin.Context) {
	email := c.Query("email")
	token := c.Query("token")
	next := SafeNextPath(c.Query("next"))

	result, err := h.magicLinks.Verify(c.Request.Context(), email, token, requestMeta(c))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidToken) {
			h.logger.Error("magic link verification failed",
				zap.String("ip", c.ClientIP()),
				zap.Error(err),
			)
		}
		c.Redirect(http.StatusFound, "/login?error=expired_or_invalid")
		return
	}

	h.cookies.SetSession(c, result.SignedToken, result.ExpiresIn)
	c.Redirect(http.StatusFound, next)
}
