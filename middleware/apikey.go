package middleware

import (
	"net/http"

	"github.com/Mauthecat/tienda/config"
	"github.com/gin-gonic/gin"
)

// ValidateAPIKey guards the /admin group.
func ValidateAPIKey(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-KEY")
		if cfg.AdminAPIKey == "" || apiKey != cfg.AdminAPIKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
