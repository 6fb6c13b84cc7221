package ports

import (
	"context"

	"github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

// Notifier dispatches customer notifications at milestone transitions.
// Calls are fire-and-forget: implementations must not fail the underlying
// state change, so the methods return nothing.
type Notifier interface {
	OrderConfirmed(ctx context.Context, order *domain.Order)
	AgentAssigned(ctx context.Context, order *domain.Order)
	OrderDelivered(ctx context.Context, order *domain.Order)
}
