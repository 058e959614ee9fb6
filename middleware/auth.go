package middleware

import (
	"net/http"
	"strings"

	"github.com/loomline/catalog_end/models"
	"github.com/loomline/catalog_end/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token and stores the claims on the
// request context for attribution.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
				"code":    "MISSING_TOKEN",
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
				"code":    "MISSING_TOKEN",
			})
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Logger.Error().Err(err).Msg("token verification failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid token",
				"code":    "INVALID_TOKEN",
			})
			return
		}

		if claims["id"] == nil || claims["role"] == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "token missing required claims",
				"code":    "INVALID_TOKEN",
			})
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// RestrictTo limits a route to the given roles.
func RestrictTo(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.GetUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
				"code":    "UNAUTHENTICATED",
			})
			return
		}

		for _, role := range roles {
			if models.UserRole(user.Role) == role {
				c.Next()
				return
			}
		}

		utils.Logger.Info().
			Str("userId", user.ID).
			Str("role", user.Role).
			Str("path", c.Request.URL.Path).
			Msg("insufficient role")

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "insufficient permissions",
			"code":    "INSUFFICIENT_PERMISSION",
		})
	}
}
