package ports

import (
	"context"
	"errors"
)

var ErrItemNotFound = errors.New("catalog item not found")

// Item is the catalog projection order creation depends on. Price and the
// active flag must always be read fresh, never from a cart snapshot.
type Item struct {
	ID     string
	Name   string
	Price  float64
	Active bool
}

// Reader is the read-only view onto the medicine catalog. The catalog itself
// (search, AI image recognition, admin editing) lives outside this service.
type Reader interface {
	GetItem(ctx context.Context, id string) (Item, error)
}
