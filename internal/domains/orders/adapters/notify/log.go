// Package notify provides the notification dispatch adapter. The real SMS and
// email channels live behind an external service; this adapter records the
// milestone and never lets a dispatch failure surface into the transition.
package notify

import (
	"context"
	"log/slog"

	"github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier logs milestone notifications.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) OrderConfirmed(ctx context.Context, order *domain.Order) {
	n.log(ctx, "order confirmed notification", order)
}

func (n *LogNotifier) AgentAssigned(ctx context.Context, order *domain.Order) {
	n.log(ctx, "agent assigned notification", order)
}

func (n *LogNotifier) OrderDelivered(ctx context.Context, order *domain.Order) {
	n.log(ctx, "order delivered notification", order)
}

func (n *LogNotifier) log(ctx context.Context, msg string, order *domain.Order) {
	n.logger.LogAttrs(ctx, slog.LevelInfo, msg,
		slog.String("order_number", order.Number),
		slog.String("user_id", order.UserID),
		slog.String("status", string(order.Status)))
}
