package paymentControllers

import (
	"errors"
	"math"
	"net/http"

	"github.com/Mauthecat/tienda/config"
	"github.com/Mauthecat/tienda/flow"
	"github.com/Mauthecat/tienda/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type CartItemInput struct {
	ID       uint `json:"id"`
	Quantity int  `json:"quantity"`
}

// ShippingInput mirrors the checkout form field names the storefront sends.
type ShippingInput struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Phone     string `json:"telefono"`
	Street    string `json:"direccion"`
	City      string `json:"ciudad"`
}

type CreatePaymentRequest struct {
	Amount   float64         `json:"amount"`
	Email    string          `json:"email" binding:"required,email"`
	Shipping ShippingInput   `json:"shipping"`
	Cart     []CartItemInput `json:"cart" binding:"required"`
}

var ErrEmptyOrder = errors.New("no valid products in cart")

// -------- Core Logic --------

// ResolveOrCreateGuest finds the user owning an email or creates a guest
// account for it: username = email, random unusable password.
func ResolveOrCreateGuest(db *gorm.DB, email, name string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if name == "" {
		name = "Invitado"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user = models.User{
		Email:    email,
		Username: email,
		Name:     name,
		Password: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckoutResult is what createOrder leaves behind before Flow is contacted.
type CheckoutResult struct {
	Order   *models.Order
	Skipped []uint // cart product ids that don't exist; reported, not fatal
}

// createOrder persists the user, address, pending order and its items in
// one transaction. Unit prices are snapshotted from the current discounted
// price and the total is recomputed server-side; the client amount is only
// used to log a mismatch.
func createOrder(db *gorm.DB, log *logrus.Logger, req *CreatePaymentRequest) (*CheckoutResult, error) {
	name := req.Shipping.FirstName
	if req.Shipping.LastName != "" {
		name = name + " " + req.Shipping.LastName
	}

	user, err := ResolveOrCreateGuest(db, req.Email, name)
	if err != nil {
		return nil, err
	}
	if req.Shipping.Phone != "" && user.Phone == "" {
		if err := db.Model(user).Update("phone", req.Shipping.Phone).Error; err != nil {
			// The order is worth more than the phone backfill.
			log.WithError(err).WithField("email", req.Email).Warn("could not save contact phone")
		}
	}

	street := req.Shipping.Street
	if street == "" {
		street = "Sin especificar"
	}
	city := req.Shipping.City
	if city == "" {
		city = "Sin especificar"
	}

	result := &CheckoutResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		// State and zip are not collected by the checkout form.
		address := models.Address{
			UserID:  user.ID,
			Street:  street,
			City:    city,
			State:   "-",
			ZipCode: "-",
		}
		if err := tx.Create(&address).Error; err != nil {
			return err
		}

		var items []models.OrderItem
		var total float64
		for _, line := range req.Cart {
			var product models.Product
			if err := tx.First(&product, "id = ?", line.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					result.Skipped = append(result.Skipped, line.ID)
					continue
				}
				return err
			}

			qty := line.Quantity
			if qty < 1 {
				qty = 1
			}
			unitPrice := product.FinalPrice()
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  qty,
				UnitPrice: unitPrice,
			})
			total += unitPrice * float64(qty)
		}
		if len(items) == 0 {
			return ErrEmptyOrder
		}

		if math.Abs(total-req.Amount) > 0.5 {
			log.WithFields(logrus.Fields{
				"client_amount": req.Amount,
				"server_amount": total,
				"email":         req.Email,
			}).Warn("client cart total does not match server prices, using server total")
		}

		order := models.Order{
			UserID:            user.ID,
			ShippingAddressID: &address.ID,
			Status:            models.OrderStatusPending,
			TotalAmount:       total,
			Items:             items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		result.Order = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// -------- Handler --------

// POST /api/payment/create
//
// The order is committed before Flow is contacted: if the gateway call
// fails the order stays pending and can go through the retry endpoint.
func CreatePaymentHandler(db *gorm.DB, cfg *config.Config, gateway *flow.Client, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(req.Cart) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}

		result, err := createOrder(db, log, &req)
		if err != nil {
			if errors.Is(err, ErrEmptyOrder) {
				c.JSON(http.StatusBadRequest, gin.H{"error": ErrEmptyOrder.Error()})
				return
			}
			log.WithError(err).Error("failed to create order")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order := result.Order

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
			log.WithError(err).WithField("order_id", order.ID).Error("flow session creation failed, order stays pending")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"url":              session.RedirectURL(),
			"token":            session.Token,
			"order":            order.CommerceCode(),
			"skipped_products": result.Skipped,
		})
	}
}
