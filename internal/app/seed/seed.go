// Package seed carries the demo catalog, promo, and stock data used until
// real catalog and inventory services exist. The API and worker processes
// must agree on this data: with Temporal enabled, order creation runs on the
// worker against the same items, codes, and quantities the API serves.
package seed

import (
	"time"

	catalogports "github.com/quickmeds/pharmacy-api/internal/domains/catalog/ports"
	ordersports "github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
)

// Catalog returns the demo pharmacy items.
func Catalog() []catalogports.Item {
	return []catalogports.Item{
		{ID: "med-paracetamol-500", Name: "Paracetamol 500mg (15 tabs)", Price: 30, Active: true},
		{ID: "med-cetirizine-10", Name: "Cetirizine 10mg (10 tabs)", Price: 45, Active: true},
		{ID: "med-ors-sachet", Name: "ORS Rehydration Sachet", Price: 20, Active: true},
		{ID: "dev-thermometer", Name: "Digital Thermometer", Price: 249, Active: true},
		{ID: "dev-bp-monitor", Name: "Blood Pressure Monitor", Price: 1899, Active: true},
		{ID: "med-discontinued", Name: "Discontinued Syrup", Price: 120, Active: false},
	}
}

// Promos returns the demo promo table entries.
func Promos() []ordersports.Promo {
	nextYear := time.Now().UTC().AddDate(1, 0, 0)
	return []ordersports.Promo{
		{Code: "WELCOME50", Amount: 50, ExpiresAt: nextYear},
		{Code: "FLAT100", Amount: 100, ExpiresAt: nextYear},
	}
}

// StockLevels returns the initial on-hand quantity per sellable catalog item.
func StockLevels() map[string]int {
	return map[string]int{
		"med-paracetamol-500": 200,
		"med-cetirizine-10":   150,
		"med-ors-sachet":      500,
		"dev-thermometer":     40,
		"dev-bp-monitor":      12,
	}
}
