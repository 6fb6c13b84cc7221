package ports

import (
	"context"

	types "github.com/quickmeds/pharmacy-api/internal/domains/orders/application/types"
	"github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator routes order creation through a durable workflow when
// one is available, or inline through the application service otherwise.
type WorkflowOrchestrator interface {
	CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error)
}
