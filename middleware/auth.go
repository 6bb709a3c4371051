package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"product-catalog/config"
	"product-catalog/models"
	"product-catalog/utils"
)

// WriteGuard protects catalog writes with an admin bearer token when
// AUTH_ENABLED is set; otherwise it lets every request through.
func WriteGuard(cfg *config.Config) gin.HandlerFunc {
	if !cfg.AuthEnabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Message: "Authorization header required",
			})
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Message: "Invalid authorization header format",
			})
			return
		}

		claims, err := utils.ValidateToken(cfg.JWTSecret, tokenParts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Message: "Invalid or expired token",
				Error:   err.Error(),
			})
			return
		}

		if claims.Role != utils.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Message: "Access denied. Admin role required",
			})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}
