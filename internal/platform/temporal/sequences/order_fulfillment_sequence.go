package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/quickmeds/pharmacy-api/internal/domains/orders/application/types"
	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	orderactivities "github.com/quickmeds/pharmacy-api/internal/platform/temporal/activities/orders"
)

// RunOrderFulfillmentSequence executes the ordered set of activities needed to
// create an order and announce it.
func RunOrderFulfillmentSequence(ctx workflow.Context, input orderstypes.CreateOrderInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order fulfillment sequence started", "userId", input.UserID)
	// The persist activity verifies payment and decrements stock. It rolls its
	// own side effects back on failure, so it must not be re-attempted blindly.
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	notifyOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}

	var order ordersdomain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), orderactivities.PersistOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order fulfillment sequence failed", "userId", input.UserID, "error", err)
		return nil, err
	}
	logger.Info("order fulfillment sequence persisted", "orderNumber", order.Number)

	// Notify with its own retry policy; the order is already stored, so a
	// dead notifier must not fail the checkout the customer already paid for.
	notifyInput := orderstypes.OrderIdentifier{ID: order.ID}
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, notifyOptions), orderactivities.NotifyOrderConfirmedActivityName, notifyInput).Get(ctx, nil); err != nil {
		logger.Error("order fulfillment sequence notification failed", "orderNumber", order.Number, "error", err)
	} else {
		logger.Info("order fulfillment sequence completed", "orderNumber", order.Number)
	}
	return &order, nil
}
