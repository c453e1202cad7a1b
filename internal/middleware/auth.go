package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oguzatay/project-tracker-api/internal/auth"
	"github.com/oguzatay/project-tracker-api/internal/config"
	"github.com/oguzatay/project-tracker-api/internal/constants"
	apierrors "github.com/oguzatay/project-tracker-api/internal/errors"
	"github.com/oguzatay/project-tracker-api/internal/models"
)

// RequireAuth validates the bearer token and stores the principal in the
// request context.
func RequireAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apierrors.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}

		principal, err := auth.ParseToken(parts[1], cfg.JWTSecret)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, principal.ID)
		c.Set(constants.ContextKeyUserRole, principal.Role)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetPrincipal retrieves the authenticated principal from context.
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return auth.Principal{}, false
	}

	role := models.RoleMember
	if v, exists := c.Get(constants.ContextKeyUserRole); exists {
		if r, ok := v.(models.UserRole); ok {
			role = r
		}
	}

	return auth.Principal{ID: id, Role: role}, true
}
