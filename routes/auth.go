package routes

import (
	"github.com/Mauthecat/tienda/auth"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers registration and the JWT token pair endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")
	{
		api.POST("/register", auth.RegisterUser(d.DB, d.Cfg))
		api.POST("/token", auth.IssueTokenPair(d.DB, d.Cfg))
		api.POST("/token/refresh", auth.RefreshToken(d.Cfg))
	}
}
