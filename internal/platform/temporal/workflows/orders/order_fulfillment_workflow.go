package orders

import (
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/quickmeds/pharmacy-api/internal/domains/orders/application/types"
	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	"github.com/quickmeds/pharmacy-api/internal/platform/temporal/sequences"
)

const (
	// OrderFulfillmentWorkflowName is the public identifier for registering the workflow.
	OrderFulfillmentWorkflowName = "orders.workflows.Fulfillment"
	// OrderFulfillmentTaskQueue is the queue consumed by the worker processing order workflows.
	OrderFulfillmentTaskQueue = "ORDER_FULFILLMENT"
)

// OrderFulfillmentWorkflowInput captures the payload required to create an order.
type OrderFulfillmentWorkflowInput struct {
	Command orderstypes.CreateOrderInput
	TraceID string
}

// OrderFulfillmentWorkflow orchestrates the activities needed to create and
// announce a new order.
func OrderFulfillmentWorkflow(ctx workflow.Context, input OrderFulfillmentWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderFulfillmentWorkflow started", withTraceID(input.TraceID, "userId", input.Command.UserID)...)
	order, err := sequences.RunOrderFulfillmentSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderFulfillmentWorkflow failed", withTraceID(input.TraceID, "userId", input.Command.UserID, "error", err)...)
		return nil, err
	}
	if order != nil {
		logger.Info("OrderFulfillmentWorkflow completed", withTraceID(input.TraceID, "orderNumber", order.Number)...)
	} else {
		logger.Info("OrderFulfillmentWorkflow completed", withTraceID(input.TraceID)...)
	}
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
