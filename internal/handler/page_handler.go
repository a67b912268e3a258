package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/signalforge/zairix-api/internal/dto"
	"go.uber.org/zap"
)

// PageHandler serves the landing endpoints the auth and consent gates
// redirect to. The real UI is rendered client-side; these respond with
// enough JSON for it to decide what to show.
type PageHandler struct {
	logger *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(logger *zap.Logger) *PageHandler {
	return &PageHandler{logger: logger}
}

// Login is the unauthenticated landing. Verify and OAuth failures
// arrive here with an error query parameter.
func (h *PageHandler) Login(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":  "login",
		"error": c.Query("error"),
		"next":  SafeNextPath(c.Query("next")),
	})
}

// Welcome is where the consent gate sends users who have not accepted
// the terms yet.
func (h *PageHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":          "welcome",
		"legal_version": legalVersion,
		"next":          SafeNextPath(c.Query("next")),
	})
}

// Dashboard is the default authenticated landing.
func (h *PageHandler) Dashboard(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page": "dashboard",
		"user": dto.UserInfo{
			ID:    user.ID,
			Email: user.Email,
			Plan:  user.Plan,
			Role:  user.Role,
		},
	})
}

// AdminHome is the admin landing behind the role gate.
func (h *PageHandler) AdminHome(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  "admin",
		"email": user.Email,
	})
}
