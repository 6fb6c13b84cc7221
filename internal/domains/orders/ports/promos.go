package ports

import (
	"context"
	"errors"
	"time"
)

var ErrPromoInvalid = errors.New("promo code is unknown or expired")

// Promo is a server-validated flat reduction. Discount values arriving from
// the client are never trusted; every discount resolves through this table.
type Promo struct {
	Code      string
	Amount    float64
	ExpiresAt time.Time
}

// PromoResolver looks up a promo code at a point in time.
type PromoResolver interface {
	Resolve(ctx context.Context, code string, at time.Time) (Promo, error)
}
