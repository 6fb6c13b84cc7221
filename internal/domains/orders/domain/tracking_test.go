package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAppendEvent_TimelineIsAppendOnlyAndOrdered(t *testing.T) {
	order := newTestOrder(t, PaymentCOD)
	order.AppendEvent(StatusPending, "Order Confirmed", "")
	order.AppendEvent(StatusConfirmed, "Packed and ready", "Delhi")
	order.AppendEvent(StatusProcessing, "With courier", "Delhi")

	require.Len(t, order.Timeline, 3)
	for i := 1; i < len(order.Timeline); i++ {
		require.False(t, order.Timeline[i].At.Before(order.Timeline[i-1].At),
			"event %d must not predate event %d", i, i-1)
	}
}

func TestAppendEvent_ClampsBackwardsClock(t *testing.T) {
	order := newTestOrder(t, PaymentCOD)
	future := time.Now().UTC().Add(time.Hour)
	order.Timeline = append(order.Timeline, TrackingEvent{Status: StatusPending, Message: "seed", At: future})

	order.AppendEvent(StatusConfirmed, "next", "")
	last, ok := order.LastEvent()
	require.True(t, ok)
	require.Equal(t, future, last.At)
}

func TestLastEvent_EmptyTimeline(t *testing.T) {
	order := newTestOrder(t, PaymentCOD)
	_, ok := order.LastEvent()
	require.False(t, ok)
}
