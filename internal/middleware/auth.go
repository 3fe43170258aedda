package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/internal/common"
	"github.com/courtsidehq/courtside/pkg/token"
)

// AuthMiddleware validates the bearer token and confirms the user still
// exists and is active. The verified user ID and role are stored in the
// request context for downstream handlers.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format. Expected: Bearer <token>"})
			return
		}

		claims, err := token.ValidateJWT(bearerToken[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			return
		}

		var role string
		err = db.Table("users").Select("role").
			Where("id = ? AND status = ? AND deleted_at IS NULL", claims.UserID, "ACTIVE").
			Scan(&role).Error
		if err != nil || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found or inactive"})
			return
		}

		c.Set(common.ContextUserIDKey, claims.UserID)
		c.Set(common.ContextUserRoleKey, role)
		c.Next()
	}
}

// RoleMiddleware allows only users whose role matches one of the required ones.
func RoleMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := common.GetUserRoleFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
			return
		}

		for _, required := range requiredRoles {
			if strings.EqualFold(role, required) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":    "You don't have permission to access this resource",
			"required": requiredRoles,
		})
	}
}

// AdminOnly restricts a group to administrators.
func AdminOnly() gin.HandlerFunc {
	return RoleMiddleware("ADMIN")
}

// CoachOrAdmin restricts a group to coaches and administrators.
func CoachOrAdmin() gin.HandlerFunc {
	return RoleMiddleware("COACH", "ADMIN")
}

// PlayerOnly restricts a group to players.
func PlayerOnly() gin.HandlerFunc {
	return RoleMiddleware("PLAYER")
}
