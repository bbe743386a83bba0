package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/s20467/Forum-Backend/internal/models"
	"github.com/s20467/Forum-Backend/internal/services"

	"github.com/gin-gonic/gin"
)

const CurrentUserKey = "current_user"

// Paths that never require a token: registration, login and refresh.
var openPaths = map[string]bool{
	"/login":            true,
	"/refresh-token":    true,
	"/api/users/create": true,
}

// Authorize runs once per request before routing. A missing Authorization
// header lets the request through anonymously; route-level guards decide
// whether anonymous access is acceptable. A present bearer token either
// binds the resolved identity to the request context or short-circuits
// with the mapped status code.
func Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		if openPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		user, err := services.ResolveAccessUser(token)
		if err != nil {
			AbortWithTokenError(c, err)
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// AbortWithTokenError writes the auth error body and header and stops the
// chain: 401 for expired tokens, 403 for anything else wrong with them.
func AbortWithTokenError(c *gin.Context, err error) {
	status := http.StatusForbidden
	if errors.Is(err, models.ErrTokenExpired) {
		status = http.StatusUnauthorized
	}
	c.Header("error", err.Error())
	c.AbortWithStatusJSON(status, gin.H{"error_message": err.Error()})
}

// CurrentUser returns the identity bound by Authorize, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_message": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects everything but ADMIN identities.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_message": "authentication required"})
			return
		}
		if !user.HasAuthority(models.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error_message": "admin role required"})
			return
		}
		c.Next()
	}
}
