package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/service"
	"go.uber.org/zap"
)

// AuthHandler handles the password-credential endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookies     *CookieWriter
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, cookies *CookieWriter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

// Register handles user registration. On success the session cookie is
// set and the new profile returned.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req, requestMeta(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.cookies.SetSession(c, result.SignedToken, result.ExpiresIn)
	c.JSON(http.StatusOK, authResponse(result))
}

// Login authenticates with email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, requestMeta(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.cookies.SetSession(c, result.SignedToken, result.ExpiresIn)
	c.JSON(http.StatusOK, authResponse(result))
}

// Logout revokes the current session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := CurrentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthenticated"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.SessionID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.cookies.ClearSession(c)
	c.JSON(http.StatusOK, dto.SuccessResponse{OK: true, Message: "logged out"})
}

// GetMe returns the current user's profile with today's usage.
func (h *AuthHandler) GetMe(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthenticated"})
		return
	}

	me, err := h.authService.GetMe(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, me)
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User: dto.UserInfo{
			ID:    result.User.ID,
			Email: result.User.Email,
			Plan:  result.User.Plan,
			Role:  result.User.Role,
		},
		ExpiresIn: result.ExpiresIn,
	}
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
