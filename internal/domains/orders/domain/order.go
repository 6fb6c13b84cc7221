package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod tags how the order is paid.
type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "cod"
	PaymentGateway PaymentMethod = "gateway"
)

// PaymentStatus tracks money collection separately from fulfillment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var (
	ErrNoLineItems        = errors.New("order must contain at least one line item")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrIllegalTransition  = errors.New("illegal order status transition")
	ErrInvalidOrderStatus = errors.New("order status is invalid")
)

// LineItem is a priced order line. Unit price is copied from the catalog at
// order time and never re-read.
type LineItem struct {
	ItemID    string
	Name      string
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

// Address is the shipping destination snapshot taken at order creation.
type Address struct {
	Line1      string
	City       string
	State      string
	PostalCode string
	Phone      string
	Location   *GeoPoint
}

// AgentSnapshot is the denormalized courier contact copied onto the order at
// assignment time. It is not a live reference to the agent record.
type AgentSnapshot struct {
	AgentID string
	Name    string
	Phone   string
	Vehicle string
}

// GatewayProof carries the payment gateway transaction identifiers and the
// signature produced by its checkout flow.
type GatewayProof struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// Order is the fulfillment aggregate: priced lines, payment state, the status
// machine position, delivery binding, and the append-only tracking timeline.
type Order struct {
	ID            string
	Number        string
	UserID        string
	Lines         []LineItem
	Address       Address
	Subtotal      float64
	Tax           float64
	ShippingFee   float64
	Discount      float64
	Total         float64
	PromoCode     string
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	Gateway       *GatewayProof
	Status        Status
	Agent         *AgentSnapshot
	Pharmacy      *GeoPoint
	Destination   *GeoPoint
	AgentPosition *GeoPoint
	Timeline      []TrackingEvent
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder assembles a priced order in its initial state. The caller supplies
// already revalidated lines and a resolved quote; stock commitment and payment
// verification happen before this constructor is reached.
func NewOrder(userID string, lines []LineItem, address Address, quote Quote, method PaymentMethod) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoLineItems
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %s", ErrInvalidQuantity, line.ItemID)
		}
	}
	now := time.Now().UTC()
	return &Order{
		ID:            uuid.NewString(),
		Number:        NewOrderNumber(now),
		UserID:        userID,
		Lines:         lines,
		Address:       address,
		Subtotal:      quote.Subtotal,
		Tax:           quote.Tax,
		ShippingFee:   quote.ShippingFee,
		Discount:      quote.Discount,
		Total:         quote.Total,
		PaymentMethod: method,
		PaymentStatus: PaymentPending,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// NewOrderNumber generates a human-readable, globally unique order number.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("RX-%s-%s", now.Format("20060102"), suffix)
}

// TransitionTo enforces state machine legality and appends the tracking event
// for a successful move. The order is untouched on failure.
func (o *Order) TransitionTo(next Status, message, location string) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidOrderStatus, next)
	}
	if !o.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, next)
	}
	o.Status = next
	if next == StatusDelivered {
		if o.PaymentMethod == PaymentCOD {
			o.PaymentStatus = PaymentPaid
		}
	}
	o.AppendEvent(next, message, location)
	return nil
}

// MarkPaid records gateway payment proof after signature verification.
func (o *Order) MarkPaid(proof GatewayProof) {
	clone := proof
	o.Gateway = &clone
	o.PaymentStatus = PaymentPaid
}

// BindAgent snapshots courier contact details onto the order.
func (o *Order) BindAgent(snapshot AgentSnapshot, position *GeoPoint) {
	clone := snapshot
	o.Agent = &clone
	if position != nil {
		p := *position
		o.AgentPosition = &p
	}
}

// ReleaseAgent drops the courier binding, keeping the snapshot out of future
// reads. Used when a cancellation races an in-flight assignment.
func (o *Order) ReleaseAgent() {
	o.Agent = nil
	o.AgentPosition = nil
}

// Verify checks the recomputed total identity. Persisted orders must always
// satisfy it.
func (o *Order) Verify() error {
	want := PriceQuote(o.Subtotal, o.Discount)
	if want.Total != o.Total {
		return fmt.Errorf("order %s total %.2f does not match priced quote %.2f", o.Number, o.Total, want.Total)
	}
	return nil
}
