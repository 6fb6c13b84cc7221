package ports

import (
	"context"

	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

// LineView joins a cart line with live catalog data for display.
type LineView struct {
	ItemID    string
	Name      string
	Quantity  int
	UnitPrice float64
	LineTotal float64
	InStock   bool
}

// CartView is the priced basket preview. The totals are advisory only; the
// authoritative amounts are recomputed at order creation.
type CartView struct {
	UserID  string
	Lines   []LineView
	Preview ordersdomain.Quote
	// FreeShippingGap is how much more subtotal is needed before the
	// delivery fee is waived; zero once the threshold is met.
	FreeShippingGap float64
}

// Service exposes basket use cases to adapters.
type Service interface {
	Add(ctx context.Context, userID, itemID string, qty int) (*CartView, error)
	Update(ctx context.Context, userID, itemID string, qty int) (*CartView, error)
	Remove(ctx context.Context, userID, itemID string) (*CartView, error)
	Clear(ctx context.Context, userID string) error
	View(ctx context.Context, userID string) (*CartView, error)
}
