package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	cartmemory "github.com/quickmeds/pharmacy-api/internal/domains/cart/adapters/memory"
	catalogmemory "github.com/quickmeds/pharmacy-api/internal/domains/catalog/adapters/memory"
	catalogports "github.com/quickmeds/pharmacy-api/internal/domains/catalog/ports"
	inventorymemory "github.com/quickmeds/pharmacy-api/internal/domains/inventory/adapters/memory"
)

func newCartService() *Service {
	catalog := catalogmemory.NewReader(
		catalogports.Item{ID: "med-1", Name: "Paracetamol", Price: 30, Active: true},
		catalogports.Item{ID: "med-2", Name: "Cetirizine", Price: 115, Active: true},
	)
	stock := inventorymemory.NewLedger()
	stock.Seed("med-1", 10)
	stock.Seed("med-2", 1)
	return NewService(cartmemory.NewRepository(), catalog, stock)
}

func TestAdd_CreatesCartAndPricesPreview(t *testing.T) {
	svc := newCartService()
	view, err := svc.Add(context.Background(), "user-1", "med-1", 2)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	require.Equal(t, 60.0, view.Lines[0].LineTotal)
	require.True(t, view.Lines[0].InStock)
	require.Equal(t, 60.0, view.Preview.Subtotal)
	require.Equal(t, 440.0, view.FreeShippingGap)
}

func TestAdd_UnknownItemRejected(t *testing.T) {
	svc := newCartService()
	_, err := svc.Add(context.Background(), "user-1", "ghost", 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAdd_InvalidQuantityRejected(t *testing.T) {
	svc := newCartService()
	_, err := svc.Add(context.Background(), "user-1", "med-1", 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_MissingCartOrLine(t *testing.T) {
	svc := newCartService()
	_, err := svc.Update(context.Background(), "user-1", "med-1", 2)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Add(context.Background(), "user-1", "med-1", 1)
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), "user-1", "med-2", 2)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestView_FlagsOutOfStockLines(t *testing.T) {
	svc := newCartService()
	_, err := svc.Add(context.Background(), "user-1", "med-2", 3)
	require.NoError(t, err)

	view, err := svc.View(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	require.False(t, view.Lines[0].InStock)
}

func TestView_EmptyCartIsZeroPreview(t *testing.T) {
	svc := newCartService()
	view, err := svc.View(context.Background(), "nobody")
	require.NoError(t, err)
	require.Empty(t, view.Lines)
	require.Equal(t, 0.0, view.Preview.Subtotal)
}

func TestRemoveAndClear(t *testing.T) {
	svc := newCartService()
	_, err := svc.Add(context.Background(), "user-1", "med-1", 1)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "user-1", "med-2", 1)
	require.NoError(t, err)

	view, err := svc.Remove(context.Background(), "user-1", "med-1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)

	require.NoError(t, svc.Clear(context.Background(), "user-1"))
	view, err = svc.View(context.Background(), "user-1")
	require.NoError(t, err)
	require.Empty(t, view.Lines)

	// Clearing an absent cart is not an error.
	require.NoError(t, svc.Clear(context.Background(), "user-1"))
}
