// Package httpapi exposes the pharmacy bounded contexts over a gin router.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers bundles the per-context APIs mounted on the router.
type Handlers struct {
	CartAPI     CartAPI
	OrderAPI    OrderAPI
	DeliveryAPI DeliveryAPI
	PaymentsAPI PaymentsAPI
}

// Route describes one mounted endpoint.
type Route struct {
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// NewRouter builds a gin engine with all application routes mounted.
func NewRouter(handlers Handlers, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	for _, route := range getRoutes(handlers) {
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

func getRoutes(handlers Handlers) []Route {
	cart := handlers.CartAPI
	orders := handlers.OrderAPI
	delivery := handlers.DeliveryAPI
	payments := handlers.PaymentsAPI
	return []Route{
		{http.MethodGet, "/v2/cart/:userId", cart.GetCart},
		{http.MethodPost, "/v2/cart/:userId/items", cart.AddItem},
		{http.MethodPut, "/v2/cart/:userId/items/:itemId", cart.UpdateItem},
		{http.MethodDelete, "/v2/cart/:userId/items/:itemId", cart.RemoveItem},
		{http.MethodDelete, "/v2/cart/:userId", cart.ClearCart},

		{http.MethodPost, "/v2/orders", orders.CreateOrder},
		{http.MethodGet, "/v2/orders", orders.ListOrders},
		{http.MethodGet, "/v2/orders/:id", orders.GetOrder},
		{http.MethodPut, "/v2/orders/:id/status", orders.UpdateStatus},
		// Tracking keys on the public order number, not the internal ID, and
		// lives outside /v2/orders to avoid a wildcard clash with /:id.
		{http.MethodGet, "/v2/track/:orderNumber", orders.TrackOrder},

		{http.MethodPost, "/v2/payments/gateway-order", payments.CreateGatewayOrder},

		{http.MethodPost, "/v2/delivery/assign", delivery.Assign},
		{http.MethodPost, "/v2/delivery/auto-assign", delivery.AutoAssign},
		{http.MethodPost, "/v2/delivery/complete", delivery.Complete},
		{http.MethodGet, "/v2/delivery/agents", delivery.ListAgents},
	}
}
