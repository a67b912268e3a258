package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/repository"
	"github.com/signalforge/zairix-api/internal/service"
)

// Context keys set by the session middleware.
const (
	ctxUserKey   = "user"
	ctxClaimsKey = "claims"
)

// SessionMiddleware resolves and verifies the session cookie, loads
// the user row and stores both in the request context. API routes get
// a 401 JSON body; page routes are redirected to login with a next
// parameter pointing back at the original path.
func SessionMiddleware(sessions service.SessionService, userRepo repository.UserRepository, apiMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil || cookie == "" {
			rejectUnauthenticated(c, apiMode)
			return
		}

		claims, err := sessions.Verify(c.Request.Context(), cookie)
		if err != nil {
			rejectUnauthenticated(c, apiMode)
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				rejectUnauthenticated(c, apiMode)
				return
			}
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "db_unavailable"})
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

func rejectUnauthenticated(c *gin.Context, apiMode bool) {
	if apiMode {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthenticated"})
	} else {
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
	}
	c.Abort()
}

// AdminMiddleware requires role ADMIN on top of an established
// session. API routes get 403; page routes land on the dashboard.
func AdminMiddleware(apiMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != domain.RoleAdmin {
			if apiMode {
				c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "forbidden"})
			} else {
				c.Redirect(http.StatusFound, "/dashboard")
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// ConsentMiddleware models the legal prerequisite: a separate
// welcome/consent cookie must be present before protected pages load.
// It is independent of authentication.
func ConsentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		accepted, err := c.Cookie(ConsentCookie)
		if err != nil || accepted != "true" {
			c.Redirect(http.StatusFound, "/welcome?next="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user placed in context by SessionMiddleware.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentClaims returns the verified session claims from context.
func CurrentClaims(c *gin.Context) *domain.SessionClaims {
	v, ok := c.Get(ctxClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*domain.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
