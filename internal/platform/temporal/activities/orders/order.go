package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	orderstypes "github.com/quickmeds/pharmacy-api/internal/domains/orders/application/types"
	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	ordersports "github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
)

const (
	// PersistOrderActivityName verifies payment, commits stock and stores the order.
	PersistOrderActivityName = "orders.activities.PersistOrder"
	// NotifyOrderConfirmedActivityName sends the confirmation notification for a stored order.
	NotifyOrderConfirmedActivityName = "orders.activities.NotifyOrderConfirmed"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	persistService ordersports.Service
	repo           ordersports.Repository
	notifier       ordersports.Notifier
}

// NewActivities wires the orders collaborators into the Temporal activities bundle.
// persistService should be constructed without a notifier so confirmation is
// only sent by the dedicated notification activity.
func NewActivities(persistService ordersports.Service, repo ordersports.Repository, notifier ordersports.Notifier) *Activities {
	return &Activities{
		persistService: persistService,
		repo:           repo,
		notifier:       notifier,
	}
}

// PersistOrder runs the full order creation use case and returns the stored aggregate.
func (a *Activities) PersistOrder(ctx context.Context, input orderstypes.CreateOrderInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.persistService == nil {
		logger.Error("order persist activity not initialized", "userId", input.UserID)
		return nil, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started", "userId", input.UserID)
	order, err := a.persistService.CreateOrder(ctx, input)
	if err != nil {
		logger.Error("PersistOrder activity failed", "userId", input.UserID, "error", err)
		return nil, err
	}
	logger.Info("PersistOrder activity completed", "orderNumber", order.Number)
	return order, nil
}

// NotifyOrderConfirmed loads a stored order and sends its confirmation.
func (a *Activities) NotifyOrderConfirmed(ctx context.Context, input orderstypes.OrderIdentifier) error {
	logger := activity.GetLogger(ctx)
	if a == nil {
		logger.Error("order notify activity not initialized", "orderId", input.ID)
		return errors.New("order notify activity not initialized")
	}
	if a.notifier == nil {
		logger.Info("notifier not configured; skipping", "orderId", input.ID)
		return nil
	}
	if a.repo == nil {
		logger.Error("order repository not configured for notification", "orderId", input.ID)
		return errors.New("order repository not configured for notification")
	}

	var hb notifyHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Completed {
		logger.Info("NotifyOrderConfirmed already completed in prior attempt; skipping", "orderId", input.ID)
		return nil
	}

	logger.Info("NotifyOrderConfirmed activity started", "orderId", input.ID)
	order, err := a.repo.GetByID(ctx, input.ID)
	if err != nil {
		logger.Error("NotifyOrderConfirmed failed to load order", "orderId", input.ID, "error", err)
		return err
	}
	a.notifier.OrderConfirmed(ctx, order)
	activity.RecordHeartbeat(ctx, notifyHeartbeat{Completed: true})
	logger.Info("NotifyOrderConfirmed activity completed", "orderNumber", order.Number)
	return nil
}

type notifyHeartbeat struct {
	Completed bool
}
