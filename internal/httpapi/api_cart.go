package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	carthttpmapper "github.com/quickmeds/pharmacy-api/internal/domains/cart/adapters/http/mapper"
	cartports "github.com/quickmeds/pharmacy-api/internal/domains/cart/ports"
)

// CartAPI wires HTTP transport with the cart bounded context service.
type CartAPI struct {
	service cartports.Service
}

// NewCartAPI creates a CartAPI backed by the provided service.
func NewCartAPI(service cartports.Service) CartAPI {
	return CartAPI{service: service}
}

// Get /v2/cart/:userId
// View the priced basket
func (api *CartAPI) GetCart(c *gin.Context) {
	view, err := api.service.View(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromCartView(view))
}

// Post /v2/cart/:userId/items
// Add an item to the basket
func (api *CartAPI) AddItem(c *gin.Context) {
	var payload carthttpmapper.AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := api.service.Add(c.Request.Context(), c.Param("userId"), payload.ItemID, payload.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromCartView(view))
}

// Put /v2/cart/:userId/items/:itemId
// Set the quantity of a basket line
func (api *CartAPI) UpdateItem(c *gin.Context) {
	var payload carthttpmapper.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := api.service.Update(c.Request.Context(), c.Param("userId"), c.Param("itemId"), payload.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromCartView(view))
}

// Delete /v2/cart/:userId/items/:itemId
// Remove a basket line
func (api *CartAPI) RemoveItem(c *gin.Context) {
	view, err := api.service.Remove(c.Request.Context(), c.Param("userId"), c.Param("itemId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromCartView(view))
}

// Delete /v2/cart/:userId
// Clear the basket
func (api *CartAPI) ClearCart(c *gin.Context) {
	if err := api.service.Clear(c.Request.Context(), c.Param("userId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
