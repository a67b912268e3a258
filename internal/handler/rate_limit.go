package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/service"
)

// RateLimitMiddleware creates a rate limiting middleware. keyFunc
// scopes the counter (per IP, per action, or both).
func RateLimitMiddleware(rateLimiter *service.RateLimiter, limit int, window time.Duration, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, retryAfter, err := rateLimiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis trouble must not lock everyone out; let the
			// request through.
			c.Next()
			return
		}

		remaining, _ := rateLimiter.Remaining(c.Request.Context(), key, limit, window)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("X-RateLimit-Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "rate_limited"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IPBasedKey extracts rate limit key from client IP
func IPBasedKey(action string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		return action + ":ip:" + clientIP(c)
	}
}

// EmailBasedKey scopes the counter by the email in the request body,
// falling back to the IP when no email is present. Used on the
// magic-link request so one mailbox cannot be flooded from many IPs.
func EmailBasedKey(action string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		var body struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindBodyWithJSON(&body); err == nil && body.Email != "" {
			return action + ":email:" + strings.ToLower(strings.TrimSpace(body.Email))
		}
		return action + ":ip:" + clientIP(c)
	}
}

func clientIP(c *gin.Context) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	return c.ClientIP()
}
