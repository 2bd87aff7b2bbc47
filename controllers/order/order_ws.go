package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/Mauthecat/tienda/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	wsMu      sync.Mutex
	wsClients = make(map[*websocket.Conn]bool)
)

// GET /api/orders/ws
//
// Pushes a message to every connected client when an order is confirmed
// paid; the storefront status page listens here instead of polling.
func OrderFeedHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	wsMu.Lock()
	wsClients[conn] = true
	wsMu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			wsMu.Lock()
			delete(wsClients, conn)
			wsMu.Unlock()
			break
		}
	}
}

// BroadcastOrderPaid notifies listeners that an order reached paid state.
func BroadcastOrderPaid(order *models.Order) {
	data, err := json.Marshal(gin.H{
		"event":  "order_paid",
		"code":   order.CommerceCode(),
		"status": order.Status,
	})
	if err != nil {
		return
	}

	wsMu.Lock()
	defer wsMu.Unlock()
	for client := range wsClients {
		_ = client.WriteMessage(websocket.TextMessage, data)
	}
}
