package middleware

import (
	"net/http"

	"github.com/Mauthecat/tienda/auth"
	"github.com/Mauthecat/tienda/config"
	"github.com/gin-gonic/gin"
)

// ValidateToken guards the profile endpoints. It puts the token's email
// into the context under "email".
func ValidateToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		email, err := auth.ParseEmail(tokenString, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("email", email)
		c.Next()
	}
}
