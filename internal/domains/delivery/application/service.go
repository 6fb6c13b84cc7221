package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/quickmeds/pharmacy-api/internal/domains/delivery/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/delivery/ports"
	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	ordersports "github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
)

var (
	_ ports.Service             = (*Service)(nil)
	_ ordersports.AgentReleaser = (*Service)(nil)
)

// Service binds orders to delivery agents and completes deliveries.
type Service struct {
	agents   ports.Repository
	orders   ordersports.Repository
	notifier ordersports.Notifier
	logger   *slog.Logger
}

func NewService(agents ports.Repository, orders ordersports.Repository, notifier ordersports.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{agents: agents, orders: orders, notifier: notifier, logger: logger}
}

// Assign binds the given agent to the order. The version-gated agent update
// serializes concurrent assignment attempts: only one order can win an
// available agent. If the order write then loses its own race (for example a
// cancellation landed in between), the agent binding is rolled back so no
// agent is left busy on an order that does not reference it.
func (s *Service) Assign(ctx context.Context, orderID, agentID string) (*ordersdomain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: order %s is %s", ErrOrderNotAssignable, order.Number, order.Status)
	}
	if order.Agent != nil {
		return nil, fmt.Errorf("%w: order %s already has agent %s", ErrOrderNotAssignable, order.Number, order.Agent.AgentID)
	}
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if err := agent.Assign(order.ID); err != nil {
		return nil, err
	}
	claimed, err := s.agents.Update(ctx, agent)
	if err != nil {
		return nil, err
	}

	order.BindAgent(claimed.Snapshot(), claimed.Location)
	order.AppendEvent(order.Status, fmt.Sprintf("Delivery agent %s assigned", claimed.Name), "")
	updated, err := s.orders.Update(ctx, order)
	if err != nil {
		s.rollbackAssignment(ctx, claimed.ID, order.ID)
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.AgentAssigned(ctx, updated)
	}
	return updated, nil
}

// AutoAssign picks an available agent for the order, ranked by haversine
// distance to the delivery destination when both sides carry coordinates.
// Candidates that lose an assignment race are skipped in ranked order.
func (s *Service) AutoAssign(ctx context.Context, orderID string) (*ordersdomain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.agents.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoAgentsAvailable
	}
	rankCandidates(candidates, order.Destination)
	var lastErr error
	for _, candidate := range candidates {
		updated, err := s.Assign(ctx, orderID, candidate.ID)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, domain.ErrAgentUnavailable) || errors.Is(err, ports.ErrVersionConflict) {
			lastErr = err
			continue
		}
		return nil, err
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoAgentsAvailable, lastErr)
	}
	return nil, ErrNoAgentsAvailable
}

// Complete finishes the delivery: the order transitions to delivered and the
// agent returns to the available pool with its lifetime counter bumped. The
// agent is freed first, before the order write; a failure on either side
// leaves the order undelivered and therefore retryable, never delivered with
// a courier stuck busy.
func (s *Service) Complete(ctx context.Context, orderID, agentID string) (*ordersdomain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Agent == nil || order.Agent.AgentID != agentID {
		return nil, fmt.Errorf("%w: order %s, agent %s", domain.ErrOrderNotAssigned, orderID, agentID)
	}
	if err := order.TransitionTo(ordersdomain.StatusDelivered, "Order delivered", order.Address.City); err != nil {
		return nil, err
	}

	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if err := agent.Complete(order.ID); err != nil {
		return nil, err
	}
	if _, err := s.agents.Update(ctx, agent); err != nil {
		return nil, err
	}

	updated, err := s.orders.Update(ctx, order)
	if err != nil {
		s.rollbackCompletion(ctx, agentID, order.ID)
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.OrderDelivered(ctx, updated)
	}
	return updated, nil
}

// ListAgents exposes the agent directory for admin views.
func (s *Service) ListAgents(ctx context.Context) ([]*domain.Agent, error) {
	return s.agents.List(ctx)
}

// ReleaseAgent unbinds an agent from a cancelled order. Implements the orders
// context's AgentReleaser port.
func (s *Service) ReleaseAgent(ctx context.Context, agentID, orderID string) error {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return err
	}
	if err := agent.Release(orderID); err != nil {
		return err
	}
	_, err = s.agents.Update(ctx, agent)
	return err
}

// ReclaimAgent restores an agent binding that a cancellation released before
// its order write lost the race. Completes the AgentReleaser port.
func (s *Service) ReclaimAgent(ctx context.Context, agentID, orderID string) error {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return err
	}
	if err := agent.Assign(orderID); err != nil {
		return err
	}
	_, err = s.agents.Update(ctx, agent)
	return err
}

func (s *Service) rollbackAssignment(ctx context.Context, agentID, orderID string) {
	if err := s.ReleaseAgent(ctx, agentID, orderID); err != nil {
		s.logger.Error("failed to roll back agent assignment",
			slog.String("agent_id", agentID),
			slog.String("order_id", orderID),
			slog.String("error", err.Error()))
	}
}

// rollbackCompletion re-claims the agent after the delivered write failed so
// the binding matches the still-undelivered order.
func (s *Service) rollbackCompletion(ctx context.Context, agentID, orderID string) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err == nil {
		if err = agent.Assign(orderID); err == nil {
			agent.Deliveries--
			_, err = s.agents.Update(ctx, agent)
		}
	}
	if err != nil {
		s.logger.Error("failed to restore agent claim after delivery rollback",
			slog.String("agent_id", agentID),
			slog.String("order_id", orderID),
			slog.String("error", err.Error()))
	}
}

func rankCandidates(candidates []*domain.Agent, destination *ordersdomain.GeoPoint) {
	if destination == nil {
		return
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidateDistance(candidates[i], destination) < candidateDistance(candidates[j], destination)
	})
}

func candidateDistance(agent *domain.Agent, destination *ordersdomain.GeoPoint) float64 {
	if agent.Location == nil {
		// Agents without a known position rank behind any located agent.
		return 1 << 20
	}
	return ordersdomain.DistanceKm(*agent.Location, *destination)
}
