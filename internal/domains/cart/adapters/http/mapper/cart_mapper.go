// Package mapper converts between the HTTP transport shapes and the cart
// application views.
package mapper

import (
	cartports "github.com/quickmeds/pharmacy-api/internal/domains/cart/ports"
)

// AddItemRequest puts an item into the basket or tops up its quantity.
type AddItemRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// UpdateQuantityRequest sets the absolute quantity of a basket line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// LineResponse is a priced basket line joined with live catalog data.
type LineResponse struct {
	ItemID    string  `json:"itemId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
	InStock   bool    `json:"inStock"`
}

// QuotePreviewResponse is the advisory totals block; authoritative amounts are
// recomputed at order creation.
type QuotePreviewResponse struct {
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	ShippingFee float64 `json:"shippingFee"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// CartResponse is the basket read model.
type CartResponse struct {
	UserID          string               `json:"userId"`
	Items           []LineResponse       `json:"items"`
	Preview         QuotePreviewResponse `json:"preview"`
	FreeShippingGap float64              `json:"freeShippingGap"`
}

// FromCartView converts the application view to the transport representation.
func FromCartView(view *cartports.CartView) CartResponse {
	if view == nil {
		return CartResponse{}
	}
	items := make([]LineResponse, 0, len(view.Lines))
	for _, line := range view.Lines {
		items = append(items, LineResponse{
			ItemID:    line.ItemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
			InStock:   line.InStock,
		})
	}
	return CartResponse{
		UserID: view.UserID,
		Items:  items,
		Preview: QuotePreviewResponse{
			Subtotal:    view.Preview.Subtotal,
			Tax:         view.Preview.Tax,
			ShippingFee: view.Preview.ShippingFee,
			Discount:    view.Preview.Discount,
			Total:       view.Preview.Total,
		},
		FreeShippingGap: view.FreeShippingGap,
	}
}
