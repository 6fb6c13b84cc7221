package domain

import "math"

// Pricing policy applied to every order. The tax rate is the flat GST slab for
// non-prescription pharmacy goods; delivery is free once the subtotal clears
// the threshold.
const (
	TaxRate               = 0.18
	FreeShippingThreshold = 500.0
	FlatShippingFee       = 50.0
)

// Quote is the authoritative monetary breakdown of an order.
type Quote struct {
	Subtotal    float64
	Tax         float64
	ShippingFee float64
	Discount    float64
	Total       float64
}

// PriceQuote computes the server-side totals for a subtotal and an already
// resolved promo discount. The total is floored at zero so an oversized promo
// can never produce a negative amount due.
func PriceQuote(subtotal, discount float64) Quote {
	q := Quote{
		Subtotal: roundMoney(subtotal),
		Tax:      roundMoney(subtotal * TaxRate),
		Discount: roundMoney(discount),
	}
	if q.Subtotal < FreeShippingThreshold {
		q.ShippingFee = FlatShippingFee
	}
	total := q.Subtotal + q.Tax + q.ShippingFee - q.Discount
	if total < 0 {
		total = 0
	}
	q.Total = roundMoney(total)
	return q
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
