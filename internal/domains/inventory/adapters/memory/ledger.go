package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/quickmeds/pharmacy-api/internal/domains/inventory/ports"
)

var _ ports.Ledger = (*Ledger)(nil)

// Ledger keeps stock counts in memory. The mutex makes check-and-decrement
// atomic under concurrent order creation.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]int
}

func NewLedger() *Ledger {
	return &Ledger{entries: map[string]int{}}
}

// Seed sets the available quantity for an item.
func (l *Ledger) Seed(itemID string, qty int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[itemID] = qty
}

func (l *Ledger) Quantity(_ context.Context, itemID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	qty, ok := l.entries[itemID]
	if !ok {
		return 0, ports.ErrEntryNotFound
	}
	return qty, nil
}

func (l *Ledger) Decrement(_ context.Context, itemID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("decrement quantity must be positive, got %d", qty)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	available, ok := l.entries[itemID]
	if !ok {
		return ports.ErrEntryNotFound
	}
	if available < qty {
		return fmt.Errorf("%w: item %s has %d, requested %d", ports.ErrInsufficientStock, itemID, available, qty)
	}
	l.entries[itemID] = available - qty
	return nil
}

func (l *Ledger) Restock(_ context.Context, itemID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("restock quantity must be positive, got %d", qty)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[itemID] += qty
	return nil
}
