package orderControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Mauthecat/tienda/auth"
	"github.com/Mauthecat/tienda/config"
	"github.com/Mauthecat/tienda/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type trackedItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// maskEmail turns "julia@example.com" into "j***@example.com" for
// non-owner lookups; the bare local part is still enough for a customer
// to recognise their own order.
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// GET /api/track?code=POLI-<id>
//
// Public endpoint. The ownership check fails open to "not owner": a
// malformed or absent bearer token reduces the projection, it never
// rejects the request.
func TrackOrderHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := models.ParseCommerceCode(c.Query("code"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false})
			return
		}

		var order models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Preload("Items.Product").
			Preload("Shipment").
			Preload("ShippingAddress").
			First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"success": false})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		isOwner := false
		if email, err := auth.ParseEmail(c.GetHeader("Authorization"), cfg.JWTSecret); err == nil {
			isOwner = email == order.User.Email
		}

		items := make([]trackedItem, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, trackedItem{
				Name:      item.Product.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		email := order.User.Email
		if !isOwner {
			email = maskEmail(email)
		}

		resp := gin.H{
			"success":    true,
			"order_id":   order.ID,
			"code":       order.CommerceCode(),
			"email":      email,
			"status":     order.Status,
			"created_at": order.CreatedAt,
			"items":      items,
			"is_owner":   isOwner,
		}
		if isOwner {
			resp["total_amount"] = order.TotalAmount
			resp["shipping_address"] = order.ShippingAddress
			resp["shipment"] = order.Shipment
		}
		c.JSON(http.StatusOK, resp)
	}
}
