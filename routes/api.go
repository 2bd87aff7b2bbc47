package routes

import (
	favoriteControllers "github.com/Mauthecat/tienda/controllers/favorite"
	orderControllers "github.com/Mauthecat/tienda/controllers/order"
	productControllers "github.com/Mauthecat/tienda/controllers/product"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes registers the public storefront endpoints.
func SetupAPIRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")
	{
		api.GET("/products", productControllers.GetProducts(d.DB))
		api.GET("/products/:id", productControllers.GetProductByID(d.DB))

		api.GET("/orders", orderControllers.GetUserOrdersHandler(d.DB))
		api.GET("/orders/ws", orderControllers.OrderFeedHandler)
		api.GET("/track", orderControllers.TrackOrderHandler(d.DB, d.Cfg))

		api.GET("/favorites", favoriteControllers.GetFavoritesHandler(d.DB))
		api.POST("/favorites/toggle", favoriteControllers.ToggleFavoriteHandler(d.DB))
	}
}
