package memory

import (
	"context"
	"sync"

	"github.com/quickmeds/pharmacy-api/internal/domains/catalog/ports"
)

var _ ports.Reader = (*Reader)(nil)

// Reader is an in-memory catalog used for local runs and tests.
type Reader struct {
	mu    sync.RWMutex
	items map[string]ports.Item
}

func NewReader(items ...ports.Item) *Reader {
	r := &Reader{items: map[string]ports.Item{}}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *Reader) GetItem(_ context.Context, id string) (ports.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return ports.Item{}, ports.ErrItemNotFound
	}
	return item, nil
}

// Put upserts an item. Test and seed helper.
func (r *Reader) Put(item ports.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
}
