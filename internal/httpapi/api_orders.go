package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/quickmeds/pharmacy-api/internal/domains/orders/adapters/http/mapper"
	orderstypes "github.com/quickmeds/pharmacy-api/internal/domains/orders/application/types"
	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	ordersports "github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
)

// OrderAPI wires HTTP transport with the orders bounded context service and
// workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /v2/orders
// Create an order from priced catalog lines
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload orderhttpmapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.createOrder(c.Request.Context(), orderhttpmapper.ToCreateOrderInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromOrder(order))
}

func (api *OrderAPI) createOrder(ctx context.Context, input orderstypes.CreateOrderInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.CreateOrder(ctx, input)
	}
	return api.service.CreateOrder(ctx, input)
}

// Get /v2/orders/:id
// Fetch a single order
func (api *OrderAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromOrder(order))
}

// Get /v2/orders?userId=...
// List a customer's orders, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		responder.BadRequest(c, "userId query parameter is required")
		return
	}
	orders, err := api.service.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromOrderList(orders))
}

// Put /v2/orders/:id/status
// Move an order along its fulfillment path
func (api *OrderAPI) UpdateStatus(c *gin.Context) {
	var payload orderhttpmapper.StatusUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), orderhttpmapper.ToStatusUpdateInput(c.Param("id"), payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromOrder(order))
}

// Get /v2/track/:orderNumber
// Customer-facing tracking timeline
func (api *OrderAPI) TrackOrder(c *gin.Context) {
	view, err := api.service.Track(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromTrackingView(view))
}
