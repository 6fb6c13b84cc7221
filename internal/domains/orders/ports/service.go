package ports

import (
	"context"

	types "github.com/quickmeds/pharmacy-api/internal/domains/orders/application/types"
	"github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

// Service exposes the fulfillment use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, input types.StatusUpdateInput) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID, reason string) (*domain.Order, error)
	Track(ctx context.Context, orderNumber string) (*types.TrackingView, error)
}
