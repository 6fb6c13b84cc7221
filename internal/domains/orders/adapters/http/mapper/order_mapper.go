// Package mapper converts between the HTTP transport shapes and the orders
// application types. Prices are never read from requests; only item references
// and quantities cross the boundary.
package mapper

import (
	"time"

	orderstypes "github.com/quickmeds/pharmacy-api/internal/domains/orders/application/types"
	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

// LineItemRequest is a requested (item, quantity) pair.
type LineItemRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// AddressRequest is the shipping destination payload.
type AddressRequest struct {
	Line1      string   `json:"line1" binding:"required"`
	City       string   `json:"city" binding:"required"`
	State      string   `json:"state"`
	PostalCode string   `json:"postalCode" binding:"required"`
	Phone      string   `json:"phone"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
}

// GatewayProofRequest carries the gateway checkout identifiers and signature.
type GatewayProofRequest struct {
	GatewayOrderID string `json:"gatewayOrderId" binding:"required"`
	PaymentID      string `json:"paymentId" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
}

// CreateOrderRequest is the order creation payload.
type CreateOrderRequest struct {
	UserID         string               `json:"userId" binding:"required"`
	Items          []LineItemRequest    `json:"items" binding:"required"`
	Address        AddressRequest       `json:"address" binding:"required"`
	PaymentMethod  string               `json:"paymentMethod" binding:"required"`
	Gateway        *GatewayProofRequest `json:"gateway"`
	PromoCode      string               `json:"promoCode"`
	IdempotencyKey string               `json:"idempotencyKey"`
}

// StatusUpdateRequest moves an order along its fulfillment path.
type StatusUpdateRequest struct {
	Status   string `json:"status" binding:"required"`
	Message  string `json:"message"`
	Location string `json:"location"`
}

// ToCreateOrderInput converts the transport payload into the use-case input.
func ToCreateOrderInput(req CreateOrderRequest) orderstypes.CreateOrderInput {
	lines := make([]orderstypes.LineItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, orderstypes.LineItemInput{ItemID: item.ItemID, Quantity: item.Quantity})
	}
	address := ordersdomain.Address{
		Line1:      req.Address.Line1,
		City:       req.Address.City,
		State:      req.Address.State,
		PostalCode: req.Address.PostalCode,
		Phone:      req.Address.Phone,
	}
	if req.Address.Lat != nil && req.Address.Lng != nil {
		address.Location = &ordersdomain.GeoPoint{Lat: *req.Address.Lat, Lng: *req.Address.Lng, UpdatedAt: time.Now().UTC()}
	}
	input := orderstypes.CreateOrderInput{
		UserID:         req.UserID,
		Lines:          lines,
		Address:        address,
		PaymentMethod:  ordersdomain.PaymentMethod(req.PaymentMethod),
		PromoCode:      req.PromoCode,
		IdempotencyKey: req.IdempotencyKey,
	}
	if req.Gateway != nil {
		input.Gateway = &ordersdomain.GatewayProof{
			GatewayOrderID: req.Gateway.GatewayOrderID,
			PaymentID:      req.Gateway.PaymentID,
			Signature:      req.Gateway.Signature,
		}
	}
	return input
}

// ToStatusUpdateInput converts the transport payload into the use-case input.
func ToStatusUpdateInput(orderID string, req StatusUpdateRequest) orderstypes.StatusUpdateInput {
	return orderstypes.StatusUpdateInput{
		OrderID:  orderID,
		Status:   ordersdomain.Status(req.Status),
		Message:  req.Message,
		Location: req.Location,
	}
}

// LineItemResponse is a priced order line.
type LineItemResponse struct {
	ItemID    string  `json:"itemId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// AddressResponse echoes the shipping snapshot.
type AddressResponse struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone,omitempty"`
}

// AgentResponse is the courier contact snapshot on an order.
type AgentResponse struct {
	AgentID string `json:"agentId"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
}

// OrderResponse is the full order read model.
type OrderResponse struct {
	ID            string                  `json:"id"`
	Number        string                  `json:"orderNumber"`
	UserID        string                  `json:"userId"`
	Items         []LineItemResponse      `json:"items"`
	Address       AddressResponse         `json:"address"`
	Subtotal      float64                 `json:"subtotal"`
	Tax           float64                 `json:"tax"`
	ShippingFee   float64                 `json:"shippingFee"`
	Discount      float64                 `json:"discount"`
	Total         float64                 `json:"total"`
	PromoCode     string                  `json:"promoCode,omitempty"`
	PaymentMethod string                  `json:"paymentMethod"`
	PaymentStatus string                  `json:"paymentStatus"`
	Status        string                  `json:"status"`
	Agent         *AgentResponse          `json:"agent,omitempty"`
	Timeline      []TrackingEventResponse `json:"timeline"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

// TrackingEventResponse is one timeline entry.
type TrackingEventResponse struct {
	Status   string    `json:"status"`
	Message  string    `json:"message"`
	Location string    `json:"location,omitempty"`
	At       time.Time `json:"at"`
}

// TrackedPointResponse is a display coordinate; simulated points are UI
// placeholders and never authoritative.
type TrackedPointResponse struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updatedAt"`
	Simulated bool      `json:"simulated"`
}

// TrackingResponse is the customer-facing tracking view.
type TrackingResponse struct {
	OrderNumber   string                  `json:"orderNumber"`
	Status        string                  `json:"status"`
	PlacedAt      time.Time               `json:"placedAt"`
	Events        []TrackingEventResponse `json:"events"`
	Agent         *AgentResponse          `json:"agent,omitempty"`
	Pharmacy      TrackedPointResponse    `json:"pharmacy"`
	Destination   TrackedPointResponse    `json:"destination"`
	AgentPosition TrackedPointResponse    `json:"agentPosition"`
}

// FromOrder converts a domain order to the transport representation.
func FromOrder(order *ordersdomain.Order) OrderResponse {
	if order == nil {
		return OrderResponse{}
	}
	items := make([]LineItemResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, LineItemResponse{
			ItemID:    line.ItemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}
	return OrderResponse{
		ID:     order.ID,
		Number: order.Number,
		UserID: order.UserID,
		Items:  items,
		Address: AddressResponse{
			Line1:      order.Address.Line1,
			City:       order.Address.City,
			State:      order.Address.State,
			PostalCode: order.Address.PostalCode,
			Phone:      order.Address.Phone,
		},
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		ShippingFee:   order.ShippingFee,
		Discount:      order.Discount,
		Total:         order.Total,
		PromoCode:     order.PromoCode,
		PaymentMethod: string(order.PaymentMethod),
		PaymentStatus: string(order.PaymentStatus),
		Status:        string(order.Status),
		Agent:         fromAgentSnapshot(order.Agent),
		Timeline:      fromTimeline(order.Timeline),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// FromOrderList converts a slice of domain orders.
func FromOrderList(orders []*ordersdomain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromOrder(order))
	}
	return out
}

// FromTrackingView converts the tracking read model.
func FromTrackingView(view *orderstypes.TrackingView) TrackingResponse {
	if view == nil {
		return TrackingResponse{}
	}
	return TrackingResponse{
		OrderNumber:   view.OrderNumber,
		Status:        string(view.Status),
		PlacedAt:      view.PlacedAt,
		Events:        fromTimeline(view.Events),
		Agent:         fromAgentSnapshot(view.Agent),
		Pharmacy:      fromTrackedPoint(view.Pharmacy),
		Destination:   fromTrackedPoint(view.Destination),
		AgentPosition: fromTrackedPoint(view.AgentPosition),
	}
}

func fromTimeline(events []ordersdomain.TrackingEvent) []TrackingEventResponse {
	out := make([]TrackingEventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, TrackingEventResponse{
			Status:   string(event.Status),
			Message:  event.Message,
			Location: event.Location,
			At:       event.At,
		})
	}
	return out
}

func fromAgentSnapshot(agent *ordersdomain.AgentSnapshot) *AgentResponse {
	if agent == nil {
		return nil
	}
	return &AgentResponse{
		AgentID: agent.AgentID,
		Name:    agent.Name,
		Phone:   agent.Phone,
		Vehicle: agent.Vehicle,
	}
}

func fromTrackedPoint(point orderstypes.TrackedPoint) TrackedPointResponse {
	return TrackedPointResponse{
		Lat:       point.Lat,
		Lng:       point.Lng,
		UpdatedAt: point.UpdatedAt,
		Simulated: point.Simulated,
	}
}
