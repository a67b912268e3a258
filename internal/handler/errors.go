package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/service"
	"github.com/signalforge/zairix-api/internal/utils"
	"github.com/signalforge/zairix-api/pkg/database"
	"go.uber.org/zap"
)

// respondError maps service errors onto the API status vocabulary.
// Messages stay generic; details of which check failed never leave the
// server.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user_exists"})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, utils.ErrInvalidSession):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthenticated"})
	case errors.Is(err, service.ErrUpgradeRequired):
		c.JSON(http.StatusPaymentRequired, dto.ErrorResponse{Error: "upgrade_required"})
	case errors.Is(err, service.ErrDailyLimitReached):
		c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "daily_limit_reached"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "expired_or_invalid"})
	case errors.Is(err, service.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "not_configured"})
	case errors.Is(err, service.ErrProviderUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "ai_unavailable"})
	case database.IsUnavailable(err):
		logger.Error("database unavailable",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "db_unavailable"})
	default:
		logger.Error("unhandled request error",
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
	}
}

// bindError answers a request body validation failure.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "invalid_request",
		Message: err.Error(),
	})
}
