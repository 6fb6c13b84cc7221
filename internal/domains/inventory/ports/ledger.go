package ports

import (
	"context"
	"errors"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEntryNotFound     = errors.New("stock entry not found")
)

// Ledger is the authoritative per-item available-quantity store.
//
// Decrement must be an atomic check-and-decrement: implementations may not
// read then write in two steps, or concurrent order creations could oversell.
type Ledger interface {
	Quantity(ctx context.Context, itemID string) (int, error)
	Decrement(ctx context.Context, itemID string, qty int) error
	Restock(ctx context.Context, itemID string, qty int) error
}
