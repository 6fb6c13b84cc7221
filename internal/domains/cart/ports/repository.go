package ports

import (
	"context"
	"errors"
	"time"

	"github.com/quickmeds/pharmacy-api/internal/domains/cart/domain"
)

var ErrNotFound = errors.New("cart not found")

// Repository persists one cart document per user.
type Repository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
	// PurgeStale removes carts untouched since the cutoff. Used by the
	// cart-purger maintenance binary.
	PurgeStale(ctx context.Context, olderThan time.Time) (int, error)
}
