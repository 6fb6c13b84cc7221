package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quickmeds/pharmacy-api/internal/domains/inventory/ports"
)

func TestLedger_DecrementAndRestock(t *testing.T) {
	ledger := NewLedger()
	ledger.Seed("med-1", 10)

	require.NoError(t, ledger.Decrement(context.Background(), "med-1", 4))
	qty, err := ledger.Quantity(context.Background(), "med-1")
	require.NoError(t, err)
	require.Equal(t, 6, qty)

	require.NoError(t, ledger.Restock(context.Background(), "med-1", 4))
	qty, err = ledger.Quantity(context.Background(), "med-1")
	require.NoError(t, err)
	require.Equal(t, 10, qty)
}

func TestLedger_DecrementBeyondStockFails(t *testing.T) {
	ledger := NewLedger()
	ledger.Seed("med-1", 3)
	err := ledger.Decrement(context.Background(), "med-1", 4)
	require.ErrorIs(t, err, ports.ErrInsufficientStock)

	qty, err := ledger.Quantity(context.Background(), "med-1")
	require.NoError(t, err)
	require.Equal(t, 3, qty)
}

func TestLedger_UnknownItem(t *testing.T) {
	ledger := NewLedger()
	_, err := ledger.Quantity(context.Background(), "ghost")
	require.ErrorIs(t, err, ports.ErrEntryNotFound)
	require.ErrorIs(t, ledger.Decrement(context.Background(), "ghost", 1), ports.ErrEntryNotFound)
}

// Concurrent buyers racing for limited stock must never drive the quantity
// negative, and exactly stock/qty of them may succeed.
func TestLedger_ConcurrentDecrementNeverOversells(t *testing.T) {
	const stock = 50
	const buyers = 200

	ledger := NewLedger()
	ledger.Seed("med-1", stock)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.Decrement(context.Background(), "med-1", 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, stock, succeeded)
	qty, err := ledger.Quantity(context.Background(), "med-1")
	require.NoError(t, err)
	require.Equal(t, 0, qty)
}
