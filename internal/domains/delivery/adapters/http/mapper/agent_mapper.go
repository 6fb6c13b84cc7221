// Package mapper converts between the HTTP transport shapes and the delivery
// domain model.
package mapper

import (
	"time"

	deliverydomain "github.com/quickmeds/pharmacy-api/internal/domains/delivery/domain"
)

// AssignRequest binds an order to a named agent.
type AssignRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	AgentID string `json:"agentId" binding:"required"`
}

// AutoAssignRequest asks the dispatcher to pick the nearest available agent.
type AutoAssignRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// CompleteRequest marks a delivery as done by its assigned agent.
type CompleteRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	AgentID string `json:"agentId" binding:"required"`
}

// LocationResponse is an agent coordinate.
type LocationResponse struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AgentResponse is the agent directory read model.
type AgentResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Phone          string            `json:"phone"`
	Vehicle        string            `json:"vehicle"`
	Status         string            `json:"status"`
	Location       *LocationResponse `json:"location,omitempty"`
	AssignedOrders []string          `json:"assignedOrders"`
	Deliveries     int               `json:"deliveries"`
	Rating         float64           `json:"rating"`
}

// FromAgent converts a domain agent to the transport representation.
func FromAgent(agent *deliverydomain.Agent) AgentResponse {
	if agent == nil {
		return AgentResponse{}
	}
	response := AgentResponse{
		ID:             agent.ID,
		Name:           agent.Name,
		Phone:          agent.Phone,
		Vehicle:        agent.Vehicle,
		Status:         string(agent.Status),
		AssignedOrders: append([]string(nil), agent.AssignedOrders...),
		Deliveries:     agent.Deliveries,
		Rating:         agent.Rating,
	}
	if agent.Location != nil {
		response.Location = &LocationResponse{
			Lat:       agent.Location.Lat,
			Lng:       agent.Location.Lng,
			UpdatedAt: agent.Location.UpdatedAt,
		}
	}
	return response
}

// FromAgentList converts a slice of domain agents.
func FromAgentList(agents []*deliverydomain.Agent) []AgentResponse {
	out := make([]AgentResponse, 0, len(agents))
	for _, agent := range agents {
		out = append(out, FromAgent(agent))
	}
	return out
}
