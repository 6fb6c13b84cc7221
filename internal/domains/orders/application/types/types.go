// Package types carries the use-case inputs and read models of the orders
// bounded context, shared between the application service, transports, and
// workflow adapters.
package types

import (
	"time"

	"github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

// LineItemInput is a requested (item, quantity) pair. Prices are never
// accepted from the client; they are re-read from the catalog.
type LineItemInput struct {
	ItemID   string
	Quantity int
}

// CreateOrderInput is the full order creation request. IdempotencyKey, when
// set, dedupes double-submitted checkouts: a repeat request attaches to the
// in-flight creation instead of placing a second order.
type CreateOrderInput struct {
	UserID         string
	Lines          []LineItemInput
	Address        domain.Address
	PaymentMethod  domain.PaymentMethod
	Gateway        *domain.GatewayProof
	PromoCode      string
	IdempotencyKey string
}

// OrderIdentifier references a stored order by ID, used by workflow activities.
type OrderIdentifier struct {
	ID string
}

// StatusUpdateInput requests a state machine transition on an existing order.
type StatusUpdateInput struct {
	OrderID  string
	Status   domain.Status
	Message  string
	Location string
}

// TrackedPoint is a display coordinate on the tracking view. Simulated marks
// UI placeholders synthesized because the order has no persisted value yet;
// simulated points are never authoritative and never written back.
type TrackedPoint struct {
	Lat       float64
	Lng       float64
	UpdatedAt time.Time
	Simulated bool
}

// TrackingView is the customer-facing timeline read model.
type TrackingView struct {
	OrderNumber   string
	Status        domain.Status
	PlacedAt      time.Time
	Events        []domain.TrackingEvent
	Agent         *domain.AgentSnapshot
	Pharmacy      TrackedPoint
	Destination   TrackedPoint
	AgentPosition TrackedPoint
}
