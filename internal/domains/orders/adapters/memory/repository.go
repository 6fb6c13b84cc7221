package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Updates are
// version-gated the same way as the Postgres adapter so optimistic
// concurrency behaves identically in tests.
type Repository struct {
	mu       sync.RWMutex
	orders   map[string]*domain.Order
	byNumber map[string]string
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}, byNumber: map[string]string{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return nil, errors.New("order already exists: " + order.ID)
	}
	clone := cloneOrder(order)
	clone.Version = 1
	r.orders[clone.ID] = clone
	r.byNumber[clone.Number] = clone.ID
	return cloneOrder(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) GetByNumber(_ context.Context, number string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byNumber[number]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(r.orders[id]), nil
}

func (r *Repository) Update(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.orders[order.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if current.Version != order.Version {
		return nil, ports.ErrVersionConflict
	}
	clone := cloneOrder(order)
	clone.Version++
	r.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			list = append(list, cloneOrder(order))
		}
	}
	return list, nil
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Lines = append([]domain.LineItem(nil), o.Lines...)
	clone.Timeline = append([]domain.TrackingEvent(nil), o.Timeline...)
	if o.Agent != nil {
		agent := *o.Agent
		clone.Agent = &agent
	}
	if o.Gateway != nil {
		gateway := *o.Gateway
		clone.Gateway = &gateway
	}
	clone.Pharmacy = cloneGeo(o.Pharmacy)
	clone.Destination = cloneGeo(o.Destination)
	clone.AgentPosition = cloneGeo(o.AgentPosition)
	if o.Address.Location != nil {
		loc := *o.Address.Location
		clone.Address.Location = &loc
	}
	return &clone
}

func cloneGeo(p *domain.GeoPoint) *domain.GeoPoint {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
