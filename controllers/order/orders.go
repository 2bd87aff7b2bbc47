package orderControllers

import (
	"net/http"

	"github.com/Mauthecat/tienda/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// orderView annotates an order with its commerce code and the lazily
// computed expiry flag for pending orders.
type orderView struct {
	models.Order
	Code      string `json:"code"`
	IsExpired bool   `json:"is_expired"`
}

// GET /api/orders?email=
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		var orders []models.Order
		if err := db.
			Joins("JOIN users ON users.id = orders.user_id").
			Where("users.email = ?", email).
			Preload("Items").
			Preload("Items.Product").
			Preload("Shipment").
			Order("orders.created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		views := make([]orderView, 0, len(orders))
		for _, o := range orders {
			views = append(views, orderView{
				Order:     o,
				Code:      o.CommerceCode(),
				IsExpired: o.Expired(),
			})
		}
		c.JSON(http.StatusOK, views)
	}
}
