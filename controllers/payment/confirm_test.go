package paymentControllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Mauthecat/tienda/flow"
	"github.com/Mauthecat/tienda/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPendingOrder(t *testing.T, db *gorm.DB, productID uint, quantity int, unitPrice, total float64) models.Order {
	t.Helper()

	user := models.User{Email: "comprador@example.com", Username: "comprador@example.com", Name: "Comprador"}
	require.NoError(t, db.Create(&user).Error)

	order := models.Order{
		UserID:      user.ID,
		Status:      models.OrderStatusPending,
		TotalAmount: total,
		Items: []models.OrderItem{
			{ProductID: productID, Quantity: quantity, UnitPrice: unitPrice},
		},
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func confirmRouter(db *gorm.DB, gateway *flow.Client, mailer *fakeMailer) *gin.Engine {
	r := gin.New()
	r.POST("/api/payment/confirm", ConfirmPaymentHandler(db, gateway, mailer, testLogger()))
	return r
}

func postWebhook(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"token": {token}}
	req := httptest.NewRequest(http.MethodPost, "/api/payment/confirm", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestConfirmPaymentHappyPath(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 5, 1000, 10, 20)
	order := seedPendingOrder(t, db, 5, 2, 900, 1800)

	mailer := &fakeMailer{}
	r := confirmRouter(db, flowStatusFor(t, flow.StatusPaid, order.CommerceCode()), mailer)

	w := postWebhook(t, r, "tok-1")
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, models.OrderStatusPaid, got.Status)

	var product models.Product
	require.NoError(t, db.First(&product, 5).Error)
	assert.Equal(t, 18, product.Stock)

	require.Equal(t, 1, mailer.count())
	assert.Equal(t, "comprador@example.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Body, "1800")

	var payment models.Payment
	require.NoError(t, db.First(&payment, "order_id = ?", order.ID).Error)
	assert.Equal(t, "tok-1", payment.TransactionID)
	assert.Equal(t, "paid", payment.Status)
}

func TestConfirmPaymentIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 5, 1000, 10, 20)
	order := seedPendingOrder(t, db, 5, 2, 900, 1800)

	mailer := &fakeMailer{}
	r := confirmRouter(db, flowStatusFor(t, flow.StatusPaid, order.CommerceCode()), mailer)

	// Duplicate delivery of the same webhook.
	require.Equal(t, http.StatusOK, postWebhook(t, r, "tok-1").Code)
	require.Equal(t, http.StatusOK, postWebhook(t, r, "tok-1").Code)

	var product models.Product
	require.NoError(t, db.First(&product, 5).Error)
	assert.Equal(t, 18, product.Stock, "stock must be decremented exactly once")
	assert.Equal(t, 1, mailer.count(), "exactly one receipt email")
}

func TestConfirmPaymentUnknownOrderStillAcknowledged(t *testing.T) {
	db := newTestDB(t)
	mailer := &fakeMailer{}
	r := confirmRouter(db, flowStatusFor(t, flow.StatusPaid, "POLI-424242"), mailer)

	w := postWebhook(t, r, "tok-1")
	// Never bounce a webhook for an order we will never recognise.
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, mailer.count())
}

func TestConfirmPaymentIgnoresUnpaidStatus(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 5, 1000, 0, 20)
	order := seedPendingOrder(t, db, 5, 1, 1000, 1000)

	mailer := &fakeMailer{}
	r := confirmRouter(db, flowStatusFor(t, 3, order.CommerceCode()), mailer) // 3 = rejected

	require.Equal(t, http.StatusOK, postWebhook(t, r, "tok-1").Code)

	var got models.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, got.Status)
}

func TestConfirmPaymentMissingToken(t *testing.T) {
	db := newTestDB(t)
	r := confirmRouter(db, flowCreateOK(t), &fakeMailer{})
	require.Equal(t, http.StatusOK, postWebhook(t, r, "").Code)
}

func TestConfirmPaymentMailFailureDoesNotUnsettle(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 5, 1000, 0, 20)
	order := seedPendingOrder(t, db, 5, 1, 1000, 1000)

	mailer := &fakeMailer{fail: true}
	r := confirmRouter(db, flowStatusFor(t, flow.StatusPaid, order.CommerceCode()), mailer)

	w := postWebhook(t, r, "tok-1")
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, models.OrderStatusPaid, got.Status, "mail failure must not roll back the payment")
}

func TestSettlePaymentStockFloor(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 7, 500, 0, 1)
	order := seedPendingOrder(t, db, 7, 5, 500, 2500) // more than stock

	settled, _, err := SettlePayment(db, order.ID, "tok-floor")
	require.NoError(t, err)
	require.True(t, settled)

	var product models.Product
	require.NoError(t, db.First(&product, 7).Error)
	assert.Equal(t, 0, product.Stock, "stock clamps at zero, never negative")
}

func TestSettlePaymentSharedProductStock(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 5, 1000, 0, 10)
	first := seedPendingOrder(t, db, 5, 2, 1000, 2000)

	second := models.Order{
		UserID:      first.UserID,
		Status:      models.OrderStatusPending,
		TotalAmount: 3000,
		Items: []models.OrderItem{
			{ProductID: 5, Quantity: 3, UnitPrice: 1000},
		},
	}
	require.NoError(t, db.Create(&second).Error)

	// Two different orders draining the same product must decrement
	// cumulatively, never against a stale snapshot.
	settled, _, err := SettlePayment(db, first.ID, "tok-s1")
	require.NoError(t, err)
	require.True(t, settled)

	settled, _, err = SettlePayment(db, second.ID, "tok-s2")
	require.NoError(t, err)
	require.True(t, settled)

	var product models.Product
	require.NoError(t, db.First(&product, 5).Error)
	assert.Equal(t, 5, product.Stock)
}

func TestSettlePaymentUnitPriceImmutable(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 3, 1000, 10, 10)
	order := seedPendingOrder(t, db, 3, 1, 900, 900)

	// Price hike after checkout must not affect the recorded sale.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", 3).Update("price", 9999).Error)

	settled, paid, err := SettlePayment(db, order.ID, "tok-imm")
	require.NoError(t, err)
	require.True(t, settled)
	require.Len(t, paid.Items, 1)
	assert.InDelta(t, 900, paid.Items[0].UnitPrice, 0.001)
	assert.InDelta(t, 900, paid.TotalAmount, 0.001)
}

func TestSettlePaymentAlreadyPaidNoOp(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 2, 100, 0, 10)
	order := seedPendingOrder(t, db, 2, 1, 100, 100)

	settled, _, err := SettlePayment(db, order.ID, "tok-a")
	require.NoError(t, err)
	require.True(t, settled)

	settled, paid, err := SettlePayment(db, order.ID, "tok-b")
	require.NoError(t, err)
	assert.False(t, settled)
	assert.Nil(t, paid)
}

func TestFinalRedirect(t *testing.T) {
	gateway := flowStatusFor(t, flow.StatusPaid, "POLI-12")
	r := gin.New()
	r.POST("/api/payment/final-redirect", FinalRedirectHandler(testConfig(), gateway, testLogger()))

	form := url.Values{"token": {"tok-9"}}
	req := httptest.NewRequest(http.MethodPost, "/api/payment/final-redirect", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	loc := w.Header().Get("Location")
	assert.Contains(t, loc, "http://front.test/checkout/status")
	assert.Contains(t, loc, "token=tok-9")
	assert.Contains(t, loc, "order=POLI-12")
}

func TestFinalRedirectWithoutToken(t *testing.T) {
	r := gin.New()
	r.POST("/api/payment/final-redirect", FinalRedirectHandler(testConfig(), flowCreateOK(t), testLogger()))

	req := httptest.NewRequest(http.MethodPost, "/api/payment/final-redirect", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://front.test", w.Header().Get("Location"))
}

func TestExpiryWindowBoundary(t *testing.T) {
	// Pinned here because retry depends on it: one second past the window
	// is expired, one minute inside it is not.
	over := models.Order{Status: models.OrderStatusPending,
		CreatedAt: time.Now().Add(-models.PaymentWindow - time.Second)}
	assert.True(t, over.Expired())

	under := models.Order{Status: models.OrderStatusPending,
		CreatedAt: time.Now().Add(-models.PaymentWindow + time.Minute)}
	assert.False(t, under.Expired())
}
