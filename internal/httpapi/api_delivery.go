package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	agenthttpmapper "github.com/quickmeds/pharmacy-api/internal/domains/delivery/adapters/http/mapper"
	deliveryports "github.com/quickmeds/pharmacy-api/internal/domains/delivery/ports"
	orderhttpmapper "github.com/quickmeds/pharmacy-api/internal/domains/orders/adapters/http/mapper"
)

// DeliveryAPI wires HTTP transport with the delivery bounded context service.
type DeliveryAPI struct {
	service deliveryports.Service
}

// NewDeliveryAPI creates a DeliveryAPI backed by the provided service.
func NewDeliveryAPI(service deliveryports.Service) DeliveryAPI {
	return DeliveryAPI{service: service}
}

// Post /v2/delivery/assign
// Bind an order to a named agent
func (api *DeliveryAPI) Assign(c *gin.Context) {
	var payload agenthttpmapper.AssignRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.Assign(c.Request.Context(), payload.OrderID, payload.AgentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromOrder(order))
}

// Post /v2/delivery/auto-assign
// Pick the nearest available agent for an order
func (api *DeliveryAPI) AutoAssign(c *gin.Context) {
	var payload agenthttpmapper.AutoAssignRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.AutoAssign(c.Request.Context(), payload.OrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromOrder(order))
}

// Post /v2/delivery/complete
// Mark a delivery as done by its assigned agent
func (api *DeliveryAPI) Complete(c *gin.Context) {
	var payload agenthttpmapper.CompleteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.Complete(c.Request.Context(), payload.OrderID, payload.AgentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromOrder(order))
}

// Get /v2/delivery/agents
// Agent directory for dispatch views
func (api *DeliveryAPI) ListAgents(c *gin.Context) {
	agents, err := api.service.ListAgents(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, agenthttpmapper.FromAgentList(agents))
}
