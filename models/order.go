package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // created, waiting for Flow
	OrderStatusPaid      OrderStatus = "paid"      // confirmed by the gateway
	OrderStatusShipped   OrderStatus = "shipped"   // handed to the courier
	OrderStatusDelivered OrderStatus = "delivered" // customer received it
	OrderStatusCanceled  OrderStatus = "canceled"
)

// PaymentWindow is how long a pending order stays payable. After this the
// retry endpoint rejects it; nothing sweeps expired orders, the age is
// checked lazily at read time.
const PaymentWindow = 6 * time.Hour

// commercePrefix correlates local orders with Flow sessions.
const commercePrefix = "POLI-"

type Order struct {
	ID                uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uint        `gorm:"not null;index" json:"user_id"`
	User              User        `gorm:"foreignKey:UserID" json:"user"`
	ShippingAddressID *uint       `json:"shipping_address_id,omitempty"`
	ShippingAddress   *Address    `gorm:"foreignKey:ShippingAddressID;constraint:OnDelete:RESTRICT" json:"shipping_address,omitempty"`
	Status            OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	TotalAmount       float64     `json:"total_amount"` // fixed at creation, never recomputed
	Items             []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Shipment          *Shipment   `gorm:"foreignKey:OrderID" json:"shipment,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"` // snapshot of the discounted price at purchase time
}

type Shipment struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID        uint       `gorm:"uniqueIndex;not null" json:"order_id"`
	Courier        string     `json:"courier"`
	TrackingNumber string     `json:"tracking_number"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
}

// Payment is the audit row written when the gateway confirms a charge.
type Payment struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       uint      `gorm:"index;not null" json:"order_id"`
	PaymentMethod string    `json:"payment_method"`
	TransactionID string    `gorm:"uniqueIndex" json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// CommerceCode renders the "POLI-<id>" identifier sent to Flow.
func (o *Order) CommerceCode() string {
	return fmt.Sprintf("%s%d", commercePrefix, o.ID)
}

// Expired reports whether a pending order has outlived its payment window.
func (o *Order) Expired() bool {
	return o.Status == OrderStatusPending && time.Since(o.CreatedAt) > PaymentWindow
}

var ErrBadCommerceCode = errors.New("invalid commerce order code")

// ParseCommerceCode extracts the order id from a "POLI-<id>" string.
// Matching is case-insensitive and tolerates surrounding whitespace.
func ParseCommerceCode(code string) (uint, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !strings.HasPrefix(code, commercePrefix) {
		return 0, ErrBadCommerceCode
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(code, commercePrefix), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrBadCommerceCode
	}
	return uint(id), nil
}
