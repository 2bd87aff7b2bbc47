package paymentControllers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/Mauthecat/tienda/config"
	orderControllers "github.com/Mauthecat/tienda/controllers/order"
	"github.com/Mauthecat/tienda/flow"
	"github.com/Mauthecat/tienda/mail"
	"github.com/Mauthecat/tienda/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SettlePayment flips a pending order to paid and applies the side effects
// that must happen exactly once. The transition is a single conditional
// UPDATE, so a duplicate webhook (even a concurrent one) finds zero
// affected rows and settles nothing. Stock is decremented in the same
// transaction with one atomic UPDATE per product, clamped at zero in the
// expression itself so concurrent settlements of different orders never
// write a stale computed value. A sale that already went through cannot
// be rejected for stock at this stage.
//
// Returns settled=false without error for unknown or already-paid orders.
func SettlePayment(db *gorm.DB, orderID uint, transactionID string) (bool, *models.Order, error) {
	var settled bool
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
			Update("status", models.OrderStatusPaid)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		settled = true

		if err := tx.Preload("User").Preload("Items").Preload("Items.Product").
			First(&order, orderID).Error; err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr(
					"CASE WHEN stock >= ? THEN stock - ? ELSE 0 END",
					item.Quantity, item.Quantity)).Error; err != nil {
				return err
			}
		}

		payment := models.Payment{
			OrderID:       order.ID,
			PaymentMethod: "flow",
			TransactionID: transactionID,
			Amount:        order.TotalAmount,
			Status:        "paid",
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return false, nil, err
	}
	if !settled {
		return false, nil, nil
	}
	return true, &order, nil
}

// POST /api/payment/confirm
//
// Flow's webhook. The body is not trusted beyond the token: the status is
// re-queried from the gateway. Every outcome is acknowledged with 200 so
// application-level edge cases never trigger webhook redelivery storms.
func ConfirmPaymentHandler(db *gorm.DB, gateway *flow.Client, mailer mail.Mailer, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.PostForm("token")
		if token == "" {
			c.JSON(http.StatusOK, gin.H{"message": "missing token"})
			return
		}

		status, err := gateway.GetStatus(token)
		if err != nil {
			log.WithError(err).Error("could not verify payment status with flow")
			c.JSON(http.StatusOK, gin.H{"message": "status check failed"})
			return
		}
		if status.Status != flow.StatusPaid {
			c.JSON(http.StatusOK, gin.H{"message": "payment not completed"})
			return
		}

		orderID, err := models.ParseCommerceCode(status.CommerceOrder)
		if err != nil {
			log.WithField("commerce_order", status.CommerceOrder).Warn("webhook for unrecognized commerce order")
			c.JSON(http.StatusOK, gin.H{"message": "unknown commerce order"})
			return
		}

		settled, order, err := SettlePayment(db, orderID, token)
		if err != nil {
			log.WithError(err).WithField("order_id", orderID).Error("payment settlement failed")
			c.JSON(http.StatusOK, gin.H{"message": "settlement failed"})
			return
		}
		if !settled {
			// Unknown or already paid; either way the provider is done here.
			c.JSON(http.StatusOK, gin.H{"message": "no action taken"})
			return
		}

		log.WithFields(logrus.Fields{
			"order_id": order.ID,
			"amount":   order.TotalAmount,
		}).Info("order paid")

		if err := SendReceipt(mailer, order); err != nil {
			// Fire-and-forget: a mail failure never rolls back a payment.
			log.WithError(err).WithField("order_id", order.ID).Error("receipt email failed")
		}
		orderControllers.BroadcastOrderPaid(order)

		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}
}

// FinalRedirectHandler bounces the customer's browser back to the
// storefront status page once Flow is done with them.
//
// POST /api/payment/final-redirect
func FinalRedirectHandler(cfg *config.Config, gateway *flow.Client, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.PostForm("token")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.Redirect(http.StatusFound, cfg.FrontendURL)
			return
		}

		commerceOrder := ""
		if status, err := gateway.GetStatus(token); err != nil {
			log.WithError(err).Warn("final redirect could not resolve order for token")
		} else {
			commerceOrder = status.CommerceOrder
		}

		target := fmt.Sprintf("%s/checkout/status?token=%s&order=%s",
			cfg.FrontendURL, url.QueryEscape(token), url.QueryEscape(commerceOrder))
		c.Redirect(http.StatusFound, target)
	}
}
