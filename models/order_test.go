package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommerceCodeRoundTrip(t *testing.T) {
	order := Order{ID: 15}
	assert.Equal(t, "POLI-15", order.CommerceCode())

	id, err := ParseCommerceCode(order.CommerceCode())
	require.NoError(t, err)
	assert.Equal(t, uint(15), id)
}

func TestParseCommerceCodeTolerant(t *testing.T) {
	for _, code := range []string{"poli-8", "  POLI-8  ", "Poli-8"} {
		id, err := ParseCommerceCode(code)
		require.NoError(t, err, code)
		assert.Equal(t, uint(8), id)
	}
}

func TestParseCommerceCodeRejectsGarbage(t *testing.T) {
	for _, code := range []string{"", "POLI-", "POLI-abc", "ORD-5", "15", "POLI-0"} {
		_, err := ParseCommerceCode(code)
		assert.ErrorIs(t, err, ErrBadCommerceCode, code)
	}
}

func TestOrderExpired(t *testing.T) {
	fresh := Order{Status: OrderStatusPending, CreatedAt: time.Now().Add(-time.Hour)}
	assert.False(t, fresh.Expired())

	stale := Order{Status: OrderStatusPending, CreatedAt: time.Now().Add(-PaymentWindow - time.Minute)}
	assert.True(t, stale.Expired())

	// Only pending orders expire.
	paid := Order{Status: OrderStatusPaid, CreatedAt: time.Now().Add(-48 * time.Hour)}
	assert.False(t, paid.Expired())
}

func TestFinalPrice(t *testing.T) {
	discounted := Product{Price: 1000, DiscountPercent: 10}
	assert.InDelta(t, 900, discounted.FinalPrice(), 0.001)

	plain := Product{Price: 1000}
	assert.InDelta(t, 1000, plain.FinalPrice(), 0.001)
}

func TestMainImageURL(t *testing.T) {
	p := Product{Images: []ProductImage{
		{URL: "/media/a.jpg"},
		{URL: "/media/b.jpg", IsMain: true},
	}}
	assert.Equal(t, "/media/b.jpg", p.MainImageURL())

	noMain := Product{Images: []ProductImage{{URL: "/media/a.jpg"}}}
	assert.Equal(t, "/media/a.jpg", noMain.MainImageURL())

	assert.Equal(t, "", (&Product{}).MainImageURL())
}
