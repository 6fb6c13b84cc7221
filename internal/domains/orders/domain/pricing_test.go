package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPriceQuote_StandardBreakdown(t *testing.T) {
	q := PriceQuote(175, 0)
	require.Equal(t, 175.0, q.Subtotal)
	require.Equal(t, 31.5, q.Tax)
	require.Equal(t, 50.0, q.ShippingFee)
	require.Equal(t, 0.0, q.Discount)
	require.Equal(t, 256.5, q.Total)
}

func TestPriceQuote_FreeShippingAtThreshold(t *testing.T) {
	q := PriceQuote(FreeShippingThreshold, 0)
	require.Equal(t, 0.0, q.ShippingFee)

	q = PriceQuote(FreeShippingThreshold-0.01, 0)
	require.Equal(t, FlatShippingFee, q.ShippingFee)
}

func TestPriceQuote_TotalIdentity(t *testing.T) {
	for _, subtotal := range []float64{1, 99.99, 175, 499.99, 500, 1234.56} {
		q := PriceQuote(subtotal, 25)
		require.InDelta(t, q.Subtotal+q.Tax+q.ShippingFee-q.Discount, q.Total, 0.005,
			"identity must hold for subtotal %.2f", subtotal)
	}
}

func TestPriceQuote_OversizedDiscountFloorsAtZero(t *testing.T) {
	q := PriceQuote(100, 10000)
	require.Equal(t, 0.0, q.Total)
}

func TestPriceQuote_RoundsToCents(t *testing.T) {
	q := PriceQuote(33.333, 0)
	require.Equal(t, 33.33, q.Subtotal)
	require.Equal(t, 6.0, q.Tax)
}
