package middleware

import (
	"net/http"
	"strings"

	"parley/config"
	"parley/internal/auth"
	"parley/internal/domain"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates JWT and binds the request context: user, realm and
// client identity. The core never reads ambient state beyond these keys.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("realm_id", claims.RealmID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("client_name", clientName(c))
		c.Next()
	}
}

func clientName(c *gin.Context) string {
	if name := c.GetHeader("X-Client"); name != "" {
		return name
	}
	return domain.DefaultClientName
}

// GetUserID returns the authenticated user ID from context (must be used after AuthRequired).
func GetUserID(c *gin.Context) uint {
	v, _ := c.Get("user_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}

// GetRealmID returns the authenticated user's realm ID from context.
func GetRealmID(c *gin.Context) uint {
	v, _ := c.Get("realm_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}

// GetClientName returns the client identity bound by AuthRequired.
func GetClientName(c *gin.Context) string {
	v, _ := c.Get("client_name")
	if v == nil {
		return domain.DefaultClientName
	}
	return v.(string)
}
