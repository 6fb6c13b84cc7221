package memory

import (
	"context"
	"sync"
	"time"

	"github.com/quickmeds/pharmacy-api/internal/domains/cart/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/cart/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory cart persistence adapter.
type Repository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewRepository() *Repository {
	return &Repository{carts: map[string]*domain.Cart{}}
}

func (r *Repository) Get(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[userID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *cart
	clone.Items = append([]domain.Item(nil), cart.Items...)
	return &clone, nil
}

func (r *Repository) Save(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *cart
	clone.Items = append([]domain.Item(nil), cart.Items...)
	r.carts[cart.UserID] = &clone
	return nil
}

func (r *Repository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[userID]; !ok {
		return ports.ErrNotFound
	}
	delete(r.carts, userID)
	return nil
}

func (r *Repository) PurgeStale(_ context.Context, olderThan time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	purged := 0
	for userID, cart := range r.carts {
		if cart.UpdatedAt.Before(olderThan) {
			delete(r.carts, userID)
			purged++
		}
	}
	return purged, nil
}
