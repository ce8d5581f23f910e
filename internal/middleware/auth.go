package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth returns Gin middleware that validates a static API key supplied
// as a Bearer token or X-API-Key header. An empty key list disables auth
// (development mode).
func APIKeyAuth(apiKeys []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(apiKeys) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				key = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing API key"},
			})
			return
		}

		for _, k := range apiKeys {
			if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid API key"},
		})
	}
}
