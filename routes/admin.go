package routes

import (
	orderControllers "github.com/Mauthecat/tienda/controllers/order"
	"github.com/Mauthecat/tienda/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers the API-key-protected back-office endpoints.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateAPIKey(d.Cfg))
	{
		admin.GET("/orders", orderControllers.GetAllOrdersHandler(d.DB))
		admin.GET("/orders/export-excel", orderControllers.ExportOrdersToExcel(d.DB))
		admin.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatusHandler(d.DB))
		admin.PUT("/orders/:orderID/shipment", orderControllers.UpsertShipmentHandler(d.DB))
	}
}
