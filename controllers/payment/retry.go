package paymentControllers

import (
	"errors"
	"math"
	"net/http"

	"github.com/Mauthecat/tienda/config"
	"github.com/Mauthecat/tienda/flow"
	"github.com/Mauthecat/tienda/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RetryPaymentRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
}

// POST /api/payment/retry
//
// Regenerates a Flow session for an existing pending order, reusing the
// same commerce code so the confirmation webhook settles the same row.
// "No such order", "wrong owner" and "already paid" all come back as the
// same 404 on purpose.
func RetryPaymentHandler(db *gorm.DB, cfg *config.Config, gateway *flow.Client, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RetryPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		err := db.Joins("JOIN users ON users.id = orders.user_id").
			Where("orders.id = ? AND users.email = ? AND orders.status = ?",
				req.OrderID, req.Email, models.OrderStatusPending).
			First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if order.Expired() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order expired, please create a new one"})
			return
		}

		session, err := gateway.CreatePayment(flow.CreateParams{
			CommerceOrder:   order.CommerceCode(),
			Subject:         "Compra " + order.CommerceCode(),
			Currency:        "CLP",
			Amount:          int(math.Round(order.TotalAmount)),
			Email:           req.Email,
			URLConfirmation: cfg.BackendURL + "/api/payment/confirm",
			URLReturn:       cfg.BackendURL + "/api/payment/final-redirect",
		})
		if err != nil {
			log.WithError(err).WithField("order_id", order.ID).Error("flow session recreation failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"url":   session.RedirectURL(),
			"token": session.Token,
			"order": order.CommerceCode(),
		})
	}
}
