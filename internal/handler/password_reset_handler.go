package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/service"
	"go.uber.org/zap"
)

// PasswordResetHandler handles the emailed password reset flow.
type PasswordResetHandler struct {
	resets  service.PasswordResetService
	cookies *CookieWriter
	logger  *zap.Logger
}

// NewPasswordResetHandler creates a new password reset handler
func NewPasswordResetHandler(resets service.PasswordResetService, cookies *CookieWriter, logger *zap.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{
		resets:  resets,
		cookies: cookies,
		logger:  logger,
	}
}

// Request issues a reset link; the response never reveals whether the
// account exists.
func (h *PasswordResetHandler) Request(c *gin.Context) {
	var req dto.PasswordResetRequest
	// Body binding is shared with the email-scoped rate limiter.
	if err := c.ShouldBindBodyWithJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.resets.Request(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{OK: true})
}

// Confirm applies the new password and signs the user in. The token
// consume, password update and session create are one transaction.
func (h *PasswordResetHandler) Confirm(c *gin.Context) {
	var req dto.PasswordResetConfirm
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.resets.Confirm(c.Request.Context(), &req, requestMeta(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.cookies.SetSession(c, result.SignedToken, result.ExpiresIn)
	c.JSON(http.StatusOK, authResponse(result))
}
