package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cartports "github.com/quickmeds/pharmacy-api/internal/domains/cart/ports"
	catalogports "github.com/quickmeds/pharmacy-api/internal/domains/catalog/ports"
	inventoryports "github.com/quickmeds/pharmacy-api/internal/domains/inventory/ports"
	types "github.com/quickmeds/pharmacy-api/internal/domains/orders/application/types"
	"github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
	"github.com/quickmeds/pharmacy-api/internal/domains/payments"
)

var _ ports.Service = (*Service)(nil)

// Deps bundles the collaborators of the fulfillment service. Repo, Catalog,
// and Stock are required; the rest degrade gracefully when absent (nil
// Verifier rejects gateway payments, nil Notifier skips notifications).
type Deps struct {
	Repo     ports.Repository
	Catalog  catalogports.Reader
	Stock    inventoryports.Ledger
	Promos   ports.PromoResolver
	Carts    cartports.Repository
	Verifier *payments.Verifier
	Releaser ports.AgentReleaser
	Notifier ports.Notifier
	Pharmacy *domain.GeoPoint
	Logger   *slog.Logger
}

// Service orchestrates order creation, state transitions, and tracking reads.
type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// CreateOrder converts a validated request into a persisted order: fresh
// catalog reads, authoritative totals, payment verification, an all-or-nothing
// stock commit, and the first tracking event. Any failure before persistence
// compensates already-decremented lines, so no partial commit survives.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrNoLineItems)
	}

	lines, subtotal, err := s.priceLines(ctx, input.Lines)
	if err != nil {
		return nil, err
	}

	discount, err := s.resolveDiscount(ctx, input.PromoCode)
	if err != nil {
		return nil, err
	}
	quote := domain.PriceQuote(subtotal, discount)

	if err := s.checkPayment(input); err != nil {
		return nil, err
	}

	committed, err := s.commitStock(ctx, lines)
	if err != nil {
		return nil, err
	}

	order, err := domain.NewOrder(input.UserID, lines, input.Address, quote, input.PaymentMethod)
	if err != nil {
		s.compensateStock(ctx, committed)
		return nil, mapError(err)
	}
	order.PromoCode = input.PromoCode
	if s.deps.Pharmacy != nil {
		p := *s.deps.Pharmacy
		order.Pharmacy = &p
	}
	if input.Address.Location != nil {
		d := *input.Address.Location
		order.Destination = &d
	}
	if input.PaymentMethod == domain.PaymentGateway {
		order.MarkPaid(*input.Gateway)
		if err := order.TransitionTo(domain.StatusConfirmed, "Order Confirmed", ""); err != nil {
			s.compensateStock(ctx, committed)
			return nil, err
		}
	} else {
		order.AppendEvent(domain.StatusPending, "Order Confirmed", "")
	}

	created, err := s.deps.Repo.Create(ctx, order)
	if err != nil {
		s.compensateStock(ctx, committed)
		return nil, err
	}

	s.clearCart(ctx, input.UserID)
	if s.deps.Notifier != nil {
		s.deps.Notifier.OrderConfirmed(ctx, created)
	}
	return created, nil
}

// priceLines re-fetches every catalog item fresh and prices the request at
// current prices. Cart-cached prices and availability are never trusted.
func (s *Service) priceLines(ctx context.Context, requested []types.LineItemInput) ([]domain.LineItem, float64, error) {
	lines := make([]domain.LineItem, 0, len(requested))
	var subtotal float64
	for _, req := range requested {
		if req.Quantity < 1 {
			return nil, 0, fmt.Errorf("%w: %w: item %s", ErrInvalidInput, domain.ErrInvalidQuantity, req.ItemID)
		}
		item, err := s.deps.Catalog.GetItem(ctx, req.ItemID)
		if err != nil {
			if errors.Is(err, catalogports.ErrItemNotFound) {
				return nil, 0, fmt.Errorf("%w: item %s", ErrItemUnavailable, req.ItemID)
			}
			return nil, 0, err
		}
		if !item.Active {
			return nil, 0, fmt.Errorf("%w: item %s is inactive", ErrItemUnavailable, req.ItemID)
		}
		available, err := s.deps.Stock.Quantity(ctx, req.ItemID)
		if err != nil {
			if errors.Is(err, inventoryports.ErrEntryNotFound) {
				return nil, 0, fmt.Errorf("%w: item %s has no stock entry", inventoryports.ErrInsufficientStock, req.ItemID)
			}
			return nil, 0, err
		}
		if available < req.Quantity {
			return nil, 0, fmt.Errorf("%w: item %s has %d, requested %d", inventoryports.ErrInsufficientStock, req.ItemID, available, req.Quantity)
		}
		lineTotal := item.Price * float64(req.Quantity)
		subtotal += lineTotal
		lines = append(lines, domain.LineItem{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  req.Quantity,
			UnitPrice: item.Price,
			LineTotal: lineTotal,
		})
	}
	return lines, subtotal, nil
}

func (s *Service) resolveDiscount(ctx context.Context, code string) (float64, error) {
	if code == "" {
		return 0, nil
	}
	if s.deps.Promos == nil {
		return 0, fmt.Errorf("%w: %s", ports.ErrPromoInvalid, code)
	}
	promo, err := s.deps.Promos.Resolve(ctx, code, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return promo.Amount, nil
}

func (s *Service) checkPayment(input types.CreateOrderInput) error {
	switch input.PaymentMethod {
	case domain.PaymentCOD:
		return nil
	case domain.PaymentGateway:
		if input.Gateway == nil {
			return fmt.Errorf("%w: gateway payment proof is required", ErrInvalidInput)
		}
		if s.deps.Verifier == nil {
			return payments.ErrGatewayUnavailable
		}
		if !s.deps.Verifier.Verify(input.Gateway.GatewayOrderID, input.Gateway.PaymentID, input.Gateway.Signature) {
			return ErrPaymentSignatureInvalid
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, input.PaymentMethod)
	}
}

// commitStock decrements every line atomically per item. On the first failure
// it compensates already-committed lines in reverse order and fails the whole
// attempt; partial commits are a correctness bug, not a degradation.
func (s *Service) commitStock(ctx context.Context, lines []domain.LineItem) ([]domain.LineItem, error) {
	committed := make([]domain.LineItem, 0, len(lines))
	for _, line := range lines {
		if err := s.deps.Stock.Decrement(ctx, line.ItemID, line.Quantity); err != nil {
			s.compensateStock(ctx, committed)
			if errors.Is(err, inventoryports.ErrEntryNotFound) {
				return nil, fmt.Errorf("%w: item %s has no stock entry", inventoryports.ErrInsufficientStock, line.ItemID)
			}
			return nil, err
		}
		committed = append(committed, line)
	}
	return committed, nil
}

func (s *Service) compensateStock(ctx context.Context, committed []domain.LineItem) {
	for i := len(committed) - 1; i >= 0; i-- {
		line := committed[i]
		if err := s.deps.Stock.Restock(ctx, line.ItemID, line.Quantity); err != nil {
			s.deps.Logger.Error("failed to compensate stock decrement",
				slog.String("item_id", line.ItemID),
				slog.Int("quantity", line.Quantity),
				slog.String("error", err.Error()))
		}
	}
}

func (s *Service) clearCart(ctx context.Context, userID string) {
	if s.deps.Carts == nil {
		return
	}
	if err := s.deps.Carts.Delete(ctx, userID); err != nil && !errors.Is(err, cartports.ErrNotFound) {
		s.deps.Logger.Warn("failed to clear cart after order creation",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}
}

// GetOrder loads a single order aggregate.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.deps.Repo.GetByID(ctx, id)
}

// ListUserOrders returns all orders placed by a user.
func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.deps.Repo.ListByUser(ctx, userID)
}

// UpdateStatus applies a state machine transition and appends the tracking
// event. Cancellation routes through CancelOrder so stock and agent bindings
// are compensated.
func (s *Service) UpdateStatus(ctx context.Context, input types.StatusUpdateInput) (*domain.Order, error) {
	if input.Status == domain.StatusCancelled {
		return s.CancelOrder(ctx, input.OrderID, input.Message)
	}
	order, err := s.deps.Repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	message := input.Message
	if message == "" {
		message = defaultTransitionMessage(input.Status)
	}
	if err := order.TransitionTo(input.Status, message, input.Location); err != nil {
		return nil, err
	}
	updated, err := s.deps.Repo.Update(ctx, order)
	if err != nil {
		return nil, err
	}
	if input.Status == domain.StatusDelivered && s.deps.Notifier != nil {
		s.deps.Notifier.OrderDelivered(ctx, updated)
	}
	return updated, nil
}

// CancelOrder cancels an order with saga-style compensation: stock is
// restored and any assigned agent released first, then the version-gated
// order write decides the single winner of a cancellation race. If any step
// fails, the earlier steps are rolled back in reverse, so the order is either
// fully cancelled-and-compensated or untouched and retryable. An order racing
// an in-flight assignment therefore ends up either assigned-and-released or
// never assigned.
func (s *Service) CancelOrder(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	order, err := s.deps.Repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	message := reason
	if message == "" {
		message = "Order cancelled"
	}
	if err := order.TransitionTo(domain.StatusCancelled, message, ""); err != nil {
		return nil, err
	}
	var agentID string
	if order.Agent != nil {
		agentID = order.Agent.AgentID
	}

	restocked := make([]domain.LineItem, 0, len(order.Lines))
	for _, line := range order.Lines {
		if err := s.deps.Stock.Restock(ctx, line.ItemID, line.Quantity); err != nil {
			s.rollbackRestock(ctx, restocked)
			return nil, fmt.Errorf("cancellation of order %s: restock of item %s failed: %w", order.Number, line.ItemID, err)
		}
		restocked = append(restocked, line)
	}

	if agentID != "" && s.deps.Releaser != nil {
		if err := s.deps.Releaser.ReleaseAgent(ctx, agentID, order.ID); err != nil {
			s.rollbackRestock(ctx, restocked)
			return nil, fmt.Errorf("cancellation of order %s: agent %s release failed: %w", order.Number, agentID, err)
		}
	}

	updated, err := s.deps.Repo.Update(ctx, order)
	if err != nil {
		if agentID != "" && s.deps.Releaser != nil {
			if rerr := s.deps.Releaser.ReclaimAgent(ctx, agentID, order.ID); rerr != nil {
				s.deps.Logger.Error("failed to re-claim agent after cancellation rollback",
					slog.String("agent_id", agentID),
					slog.String("order_id", order.ID),
					slog.String("error", rerr.Error()))
			}
		}
		s.rollbackRestock(ctx, restocked)
		return nil, err
	}
	return updated, nil
}

// rollbackRestock re-commits stock restored for a cancellation that did not
// go through. A concurrent sale may have consumed the restored units in the
// meantime; that is logged rather than retried since the ledger already
// reflects real stock.
func (s *Service) rollbackRestock(ctx context.Context, restocked []domain.LineItem) {
	for i := len(restocked) - 1; i >= 0; i-- {
		line := restocked[i]
		if err := s.deps.Stock.Decrement(ctx, line.ItemID, line.Quantity); err != nil {
			s.deps.Logger.Error("failed to roll back restock",
				slog.String("item_id", line.ItemID),
				slog.Int("quantity", line.Quantity),
				slog.String("error", err.Error()))
		}
	}
}

// Track returns the persisted timeline plus display coordinates. Geo fields
// absent on the order are synthesized for the map and flagged Simulated; they
// are never persisted or conflated with real telemetry.
func (s *Service) Track(ctx context.Context, orderNumber string) (*types.TrackingView, error) {
	order, err := s.deps.Repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	view := &types.TrackingView{
		OrderNumber: order.Number,
		Status:      order.Status,
		PlacedAt:    order.CreatedAt,
		Events:      append([]domain.TrackingEvent(nil), order.Timeline...),
	}
	if order.Agent != nil {
		agent := *order.Agent
		view.Agent = &agent
	}
	view.Pharmacy = displayPoint(order.Pharmacy, s.fallbackPharmacy())
	view.Destination = displayPoint(order.Destination, view.Pharmacy)
	view.AgentPosition = displayPoint(order.AgentPosition, view.Pharmacy)
	return view, nil
}

func (s *Service) fallbackPharmacy() types.TrackedPoint {
	if s.deps.Pharmacy != nil {
		return types.TrackedPoint{Lat: s.deps.Pharmacy.Lat, Lng: s.deps.Pharmacy.Lng, UpdatedAt: s.deps.Pharmacy.UpdatedAt, Simulated: true}
	}
	return types.TrackedPoint{Simulated: true}
}

func displayPoint(actual *domain.GeoPoint, placeholder types.TrackedPoint) types.TrackedPoint {
	if actual == nil {
		placeholder.Simulated = true
		return placeholder
	}
	return types.TrackedPoint{Lat: actual.Lat, Lng: actual.Lng, UpdatedAt: actual.UpdatedAt}
}

func defaultTransitionMessage(status domain.Status) string {
	switch status {
	case domain.StatusConfirmed:
		return "Order Confirmed"
	case domain.StatusProcessing:
		return "Order is being processed"
	case domain.StatusPacked:
		return "Order packed and ready for dispatch"
	case domain.StatusShipped:
		return "Order shipped"
	case domain.StatusOutForDelivery:
		return "Out for delivery"
	case domain.StatusDelivered:
		return "Order delivered"
	default:
		return "Status updated"
	}
}
