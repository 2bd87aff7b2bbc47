package routes

import (
	paymentControllers "github.com/Mauthecat/tienda/controllers/payment"
	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes registers the checkout and Flow callback endpoints.
// The confirm webhook is unauthenticated at transport level: its payload
// is only trusted after re-querying Flow with the token.
func SetupPaymentRoutes(r *gin.Engine, d Deps) {
	payment := r.Group("/api/payment")
	{
		payment.POST("/create", paymentControllers.CreatePaymentHandler(d.DB, d.Cfg, d.Gateway, d.Log))
		payment.POST("/retry", paymentControllers.RetryPaymentHandler(d.DB, d.Cfg, d.Gateway, d.Log))
		payment.POST("/confirm", paymentControllers.ConfirmPaymentHandler(d.DB, d.Gateway, d.Mailer, d.Log))
		payment.POST("/final-redirect", paymentControllers.FinalRedirectHandler(d.Cfg, d.Gateway, d.Log))
		payment.GET("/final-redirect", paymentControllers.FinalRedirectHandler(d.Cfg, d.Gateway, d.Log))
	}
}
