package routes

import (
	userControllers "github.com/Mauthecat/tienda/controllers/user"
	"github.com/Mauthecat/tienda/middleware"
	"github.com/gin-gonic/gin"
)

// SetupProfileRoutes registers the JWT-protected profile endpoints.
func SetupProfileRoutes(r *gin.Engine, d Deps) {
	profile := r.Group("/api/profile")
	profile.Use(middleware.ValidateToken(d.Cfg))
	{
		profile.GET("", userControllers.GetProfileHandler(d.DB))
		profile.PUT("", userControllers.UpdateProfileHandler(d.DB))
	}
}
