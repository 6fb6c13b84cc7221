package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quickmeds/pharmacy-api/internal/domains/delivery/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/delivery/ports"
	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory agent directory adapter.
type Repository struct {
	mu     sync.RWMutex
	agents map[string]*domain.Agent
}

func NewRepository() *Repository {
	return &Repository{agents: map[string]*domain.Agent{}}
}

func (r *Repository) Create(_ context.Context, agent *domain.Agent) (*domain.Agent, error) {
	if agent == nil {
		return nil, errors.New("agent is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := cloneAgent(agent)
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	if clone.Status == "" {
		clone.Status = domain.StatusAvailable
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	clone.Version = 1
	r.agents[clone.ID] = clone
	return cloneAgent(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneAgent(agent), nil
}

func (r *Repository) Update(_ context.Context, agent *domain.Agent) (*domain.Agent, error) {
	if agent == nil {
		return nil, errors.New("agent is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.agents[agent.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if current.Version != agent.Version {
		return nil, ports.ErrVersionConflict
	}
	clone := cloneAgent(agent)
	clone.Version++
	r.agents[clone.ID] = clone
	return cloneAgent(clone), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Agent, 0, len(r.agents))
	for _, agent := range r.agents {
		list = append(list, cloneAgent(agent))
	}
	return list, nil
}

func (r *Repository) ListAvailable(_ context.Context) ([]*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Agent
	for _, agent := range r.agents {
		if agent.Status == domain.StatusAvailable {
			list = append(list, cloneAgent(agent))
		}
	}
	return list, nil
}

func cloneAgent(a *domain.Agent) *domain.Agent {
	clone := *a
	clone.AssignedOrders = append([]string(nil), a.AssignedOrders...)
	if a.Location != nil {
		loc := ordersdomain.GeoPoint{Lat: a.Location.Lat, Lng: a.Location.Lng, UpdatedAt: a.Location.UpdatedAt}
		clone.Location = &loc
	}
	return &clone
}
