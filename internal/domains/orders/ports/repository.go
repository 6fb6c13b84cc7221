package ports

import (
	"context"
	"errors"

	"github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrVersionConflict signals a lost optimistic-concurrency race: the order
	// changed between read and write. Callers reload and retry.
	ErrVersionConflict = errors.New("order was modified concurrently")
)

// Repository persists order aggregates. Update is version-gated so concurrent
// timeline appends cannot silently overwrite one another.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}
