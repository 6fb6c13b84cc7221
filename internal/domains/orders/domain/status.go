package domain

// Status enumerates order fulfillment progression.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusProcessing     Status = "processing"
	StatusPacked         Status = "packed"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// forwardPath indexes the linear fulfillment sequence. Cancelled sits outside it.
var forwardPath = map[Status]int{
	StatusPending:        0,
	StatusConfirmed:      1,
	StatusProcessing:     2,
	StatusPacked:         3,
	StatusShipped:        4,
	StatusOutForDelivery: 5,
	StatusDelivered:      6,
}

// IsValid reports whether the status is a known order state.
func (s Status) IsValid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := forwardPath[s]
	return ok
}

// IsTerminal reports whether no further transition is legal out of s.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether moving from s to next is legal. The forward
// path advances exactly one step at a time; cancellation is reachable from any
// state strictly before delivery.
func (s Status) CanTransition(next Status) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, ok := forwardPath[s]
	if !ok {
		return false
	}
	to, ok := forwardPath[next]
	if !ok {
		return false
	}
	return to == from+1
}
