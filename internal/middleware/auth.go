package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/laporinapp/laporin/internal/model"
	"github.com/laporinapp/laporin/pkg/auth"
)

// AuthMiddleware validates the Bearer token and rejects blacklisted tokens
func AuthMiddleware(jwtManager *auth.JWTManager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "authorization header required"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "invalid authorization header format"})
			c.Abort()
			return
		}

		// Logged-out tokens sit in redis until their natural expiry
		if rdb != nil {
			exists, err := rdb.Exists(c.Request.Context(), "blacklist:"+token).Result()
			if err == nil && exists > 0 {
				c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "token has been revoked"})
				c.Abort()
				return
			}
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Set("user_name", claims.Name)
		c.Next()
	}
}

// RequireRole gates a route group to one role. Must run after AuthMiddleware.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("user_role")
		current, _ := v.(model.Role)
		if !ok || current != role {
			c.JSON(http.StatusForbidden, model.ErrorResponse{Error: "insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}
