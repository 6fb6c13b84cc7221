package ports

import (
	"context"

	"github.com/quickmeds/pharmacy-api/internal/domains/delivery/domain"
	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

// Service exposes delivery assignment use cases to adapters.
type Service interface {
	Assign(ctx context.Context, orderID, agentID string) (*ordersdomain.Order, error)
	AutoAssign(ctx context.Context, orderID string) (*ordersdomain.Order, error)
	Complete(ctx context.Context, orderID, agentID string) (*ordersdomain.Order, error)
	ListAgents(ctx context.Context) ([]*domain.Agent, error)
}
