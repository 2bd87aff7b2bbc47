package orderControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Mauthecat/tienda/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Admin-side order management: later lifecycle stages (shipped, delivered)
// and shipment tracking data are set here, never by the payment flow.

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpsertShipmentRequest struct {
	Courier        string     `json:"courier" binding:"required"`
	TrackingNumber string     `json:"tracking_number"`
	ShippedAt      *time.Time `json:"shipped_at"`
}

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusPaid):
		return models.OrderStatusPaid, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCanceled):
		return models.OrderStatusCanceled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Preload("Items.Product").
			Preload("Shipment").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		res := db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", newStatus)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// PUT /admin/orders/:orderID/shipment
func UpsertShipmentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpsertShipmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		var shipment models.Shipment
		err := db.First(&shipment, "order_id = ?", order.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			shipment = models.Shipment{
				OrderID:        order.ID,
				Courier:        req.Courier,
				TrackingNumber: req.TrackingNumber,
				ShippedAt:      req.ShippedAt,
			}
			if err := db.Create(&shipment).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create shipment"})
				return
			}
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		default:
			shipment.Courier = req.Courier
			shipment.TrackingNumber = req.TrackingNumber
			shipment.ShippedAt = req.ShippedAt
			if err := db.Save(&shipment).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update shipment"})
				return
			}
		}
		c.JSON(http.StatusOK, shipment)
	}
}
