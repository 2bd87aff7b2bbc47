package paymentControllers

import (
	"fmt"
	"strings"

	"github.com/Mauthecat/tienda/mail"
	"github.com/Mauthecat/tienda/models"
)

// BuildReceipt renders the plain-text receipt for a paid order. Shipping
// is whatever remains of the total after the item subtotals, floored at
// zero so a discounted order never shows negative shipping.
func BuildReceipt(order *models.Order) (subject, body string) {
	var sb strings.Builder
	var itemsTotal float64

	sb.WriteString(fmt.Sprintf("¡Gracias por tu compra, %s!\n\n", order.User.Name))
	sb.WriteString(fmt.Sprintf("Pedido %s\n", order.CommerceCode()))
	sb.WriteString(fmt.Sprintf("Fecha: %s\n\n", order.CreatedAt.Format("02-01-2006 15:04")))
	sb.WriteString("Detalle:\n")

	for _, item := range order.Items {
		subtotal := item.UnitPrice * float64(item.Quantity)
		itemsTotal += subtotal
		sb.WriteString(fmt.Sprintf("  %d x %s — $%.0f c/u — $%.0f\n",
			item.Quantity, item.Product.Name, item.UnitPrice, subtotal))
	}

	shipping := order.TotalAmount - itemsTotal
	if shipping < 0 {
		shipping = 0
	}
	sb.WriteString(fmt.Sprintf("\nEnvío: $%.0f\n", shipping))
	sb.WriteString(fmt.Sprintf("Total: $%.0f CLP\n", order.TotalAmount))
	sb.WriteString("\nTe avisaremos cuando tu pedido sea despachado.\n")

	return fmt.Sprintf("Confirmación de pedido %s", order.CommerceCode()), sb.String()
}

// SendReceipt emails the receipt to the order's user.
func SendReceipt(mailer mail.Mailer, order *models.Order) error {
	subject, body := BuildReceipt(order)
	return mailer.Send(order.User.Email, subject, body)
}
