package domain

import (
	"errors"
	"fmt"
	"time"

	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

// Status enumerates courier availability.
type Status string

const (
	StatusAvailable Status = "available"
	StatusBusy      Status = "busy"
	StatusOffline   Status = "offline"
)

var (
	ErrAgentUnavailable = errors.New("delivery agent is not available")
	ErrOrderNotAssigned = errors.New("order is not assigned to this agent")
)

// Agent is a courier that can be bound to an order for physical delivery.
//
// Policy: one order at a time. An agent is busy from assignment until
// completion or release. AssignedOrders records the current binding for audit
// reads; its capacity under this policy is one.
type Agent struct {
	ID             string
	Name           string
	Phone          string
	Vehicle        string
	Status         Status
	Location       *ordersdomain.GeoPoint
	AssignedOrders []string
	Deliveries     int
	Rating         float64
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Assign binds an order to the agent and marks it busy.
func (a *Agent) Assign(orderID string) error {
	if a.Status != StatusAvailable {
		return fmt.Errorf("%w: agent %s is %s", ErrAgentUnavailable, a.ID, a.Status)
	}
	a.AssignedOrders = append(a.AssignedOrders, orderID)
	a.Status = StatusBusy
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Release unbinds an order (cancellation path) and frees the agent.
func (a *Agent) Release(orderID string) error {
	if !a.removeOrder(orderID) {
		return fmt.Errorf("%w: agent %s, order %s", ErrOrderNotAssigned, a.ID, orderID)
	}
	a.Status = StatusAvailable
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete finishes a delivery: frees the agent and bumps the lifetime counter.
func (a *Agent) Complete(orderID string) error {
	if err := a.Release(orderID); err != nil {
		return err
	}
	a.Deliveries++
	return nil
}

func (a *Agent) removeOrder(orderID string) bool {
	for i, assigned := range a.AssignedOrders {
		if assigned == orderID {
			a.AssignedOrders = append(a.AssignedOrders[:i], a.AssignedOrders[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot produces the denormalized contact copy stored on orders.
func (a *Agent) Snapshot() ordersdomain.AgentSnapshot {
	return ordersdomain.AgentSnapshot{
		AgentID: a.ID,
		Name:    a.Name,
		Phone:   a.Phone,
		Vehicle: a.Vehicle,
	}
}
