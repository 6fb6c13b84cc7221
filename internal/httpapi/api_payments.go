package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickmeds/pharmacy-api/internal/domains/payments"
)

// PaymentsAPI exposes the gateway-side checkout preparation step.
type PaymentsAPI struct {
	gateway payments.Gateway
}

// NewPaymentsAPI creates a PaymentsAPI backed by the provided gateway.
func NewPaymentsAPI(gateway payments.Gateway) PaymentsAPI {
	if gateway == nil {
		gateway = payments.UnavailableGateway{}
	}
	return PaymentsAPI{gateway: gateway}
}

// GatewayOrderRequest registers an amount with the payment gateway.
type GatewayOrderRequest struct {
	Amount   float64 `json:"amount" binding:"required"`
	Currency string  `json:"currency"`
}

// GatewayOrderResponse carries the gateway order identifier the client
// completes checkout against.
type GatewayOrderResponse struct {
	GatewayOrderID string `json:"gatewayOrderId"`
}

// Post /v2/payments/gateway-order
// Create a gateway-side order ahead of client checkout
func (api *PaymentsAPI) CreateGatewayOrder(c *gin.Context) {
	var payload GatewayOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	if payload.Amount <= 0 {
		responder.BadRequest(c, "amount must be positive")
		return
	}
	id, err := api.gateway.CreateGatewayOrder(c.Request.Context(), payload.Amount, payload.Currency)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, GatewayOrderResponse{GatewayOrderID: id})
}
