package ports

import (
	"context"
	"errors"

	"github.com/quickmeds/pharmacy-api/internal/domains/delivery/domain"
)

var (
	ErrNotFound = errors.New("delivery agent not found")
	// ErrVersionConflict signals a lost race on the agent record, typically
	// two orders trying to win the same available agent.
	ErrVersionConflict = errors.New("delivery agent was modified concurrently")
)

// Repository is the agent directory. Update is version-gated so concurrent
// assignment attempts against the same agent are serialized.
type Repository interface {
	Create(ctx context.Context, agent *domain.Agent) (*domain.Agent, error)
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	Update(ctx context.Context, agent *domain.Agent) (*domain.Agent, error)
	List(ctx context.Context) ([]*domain.Agent, error)
	ListAvailable(ctx context.Context) ([]*domain.Agent, error)
}
