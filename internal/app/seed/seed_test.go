package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStockCoversEveryActiveItem(t *testing.T) {
	levels := StockLevels()
	for _, item := range Catalog() {
		if !item.Active {
			continue
		}
		qty, ok := levels[item.ID]
		require.True(t, ok, "active item %s has no stock level", item.ID)
		require.Positive(t, qty, "active item %s seeded with zero stock", item.ID)
	}
}

func TestPromosAreUnexpired(t *testing.T) {
	now := time.Now().UTC()
	for _, promo := range Promos() {
		require.True(t, promo.ExpiresAt.After(now), "promo %s already expired", promo.Code)
		require.Positive(t, promo.Amount)
	}
}

func TestCatalogPricesArePositive(t *testing.T) {
	for _, item := range Catalog() {
		require.Positive(t, item.Price, "item %s has no price", item.ID)
	}
}
