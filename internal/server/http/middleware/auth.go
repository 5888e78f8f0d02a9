package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bookmart/internal/domain/model"
	pkgAuth "github.com/polkiloo/bookmart/internal/pkg/auth"
	"github.com/polkiloo/bookmart/internal/server/http/dto"
)

const (
	// UserIDContextKey is a gin context key for authenticated user identifier.
	UserIDContextKey = "userID"
	// RoleContextKey is a gin context key for the role of the authenticated user.
	RoleContextKey = "role"
	authCookieName = "bookmart_token"
)

// TokenGuard checks shell tokens against the process-wide session.
type TokenGuard interface {
	ParseToken(token string) (pkgAuth.Claims, error)
	CurrentSession() (model.Session, error)
}

// AuthRequired ensures the request carries a valid shell token issued for the
// user of the active session.
func AuthRequired(guard TokenGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, "missing token")
			return
		}

		claims, err := guard.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				ClearAuthCookie(c)
				abortUnauthorized(c, "invalid token")
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		session, err := guard.CurrentSession()
		if err != nil || session.UserID != claims.UserID {
			ClearAuthCookie(c)
			abortUnauthorized(c, "session ended")
			return
		}

		c.Set(UserIDContextKey, session.UserID)
		c.Set(RoleContextKey, session.Role)
		c.Next()
	}
}

// RoleRequired lets through users holding one of roles. It must run after AuthRequired.
func RoleRequired(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, _ := c.Get(RoleContextKey)
		role, _ := val.(model.Role)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "forbidden"})
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: message})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes the shell token cookie and header to response.
func SetAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, maxAge, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}

// ClearAuthCookie expires the shell token cookie.
func ClearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, "", -1, "/", "", false, true)
}
