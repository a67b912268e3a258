package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/signalforge/zairix-api/internal/dto"
	"go.uber.org/zap"
)

// Current terms revision; bump when the legal text changes so stale
// acceptances can be told apart.
const legalVersion = "2025-06"

const consentCookieMaxAge = 365 * 24 * 3600

// ConsentHandler records welcome/consent acceptance. The gate itself
// lives in ConsentMiddleware; this endpoint only sets the cookies it
// checks.
type ConsentHandler struct {
	cookies *CookieWriter
	logger  *zap.Logger
}

// NewConsentHandler creates a new consent handler
func NewConsentHandler(cookies *CookieWriter, logger *zap.Logger) *ConsentHandler {
	return &ConsentHandler{
		cookies: cookies,
		logger:  logger,
	}
}

// Accept marks the welcome terms as accepted and redirects to the
// originally requested path.
func (h *ConsentHandler) Accept(c *gin.Context) {
	acceptanceID := uuid.New().String()
	h.cookies.SetConsent(c, acceptanceID, legalVersion, consentCookieMaxAge)

	h.logger.Info("consent accepted",
		zap.String("acceptance_id", acceptanceID),
		zap.String("legal_version", legalVersion),
	)

	next := SafeNextPath(c.Query("next"))
	c.Redirect(http.StatusFound, next)
}

// Status reports whether the consent cookie is present, for clients
// that want to decide whether to show the welcome screen.
func (h *ConsentHandler) Status(c *gin.Context) {
	accepted, err := c.Cookie(ConsentCookie)
	version, _ := c.Cookie(LegalVersionCookie)

	c.JSON(http.StatusOK, dto.ConsentStatus{
		Accepted:     err == nil && accepted == "true",
		LegalVersion: version,
	})
}
