package tracksim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

var (
	pharmacy    = ordersdomain.GeoPoint{Lat: 28.6139, Lng: 77.2090}
	destination = ordersdomain.GeoPoint{Lat: 28.5355, Lng: 77.3910}
)

func TestAdvance_MovesTowardDestination(t *testing.T) {
	before := ordersdomain.DistanceKm(pharmacy, destination)
	next, remaining := Advance(pharmacy, destination, 0.15)
	require.Less(t, remaining, before)
	require.Greater(t, next.Lng, pharmacy.Lng)
	require.Less(t, next.Lat, pharmacy.Lat)
	require.False(t, next.UpdatedAt.IsZero())
}

func TestAdvance_ClampsFraction(t *testing.T) {
	// Above 1 snaps straight to the destination.
	next, remaining := Advance(pharmacy, destination, 5)
	require.InDelta(t, destination.Lat, next.Lat, 1e-9)
	require.InDelta(t, destination.Lng, next.Lng, 1e-9)
	require.InDelta(t, 0, remaining, 1e-6)

	// Non-positive falls back to the default step.
	fallback, _ := Advance(pharmacy, destination, 0)
	expected, _ := Advance(pharmacy, destination, DefaultStepFraction)
	require.InDelta(t, expected.Lat, fallback.Lat, 1e-9)
	require.InDelta(t, expected.Lng, fallback.Lng, 1e-9)
}

func TestSimulator_StepConverges(t *testing.T) {
	sim := NewSimulator(pharmacy, destination, time.Second)

	prev := sim.Current().RemainingKm
	var arrived bool
	for i := 0; i < 200; i++ {
		frame := sim.Step()
		require.LessOrEqual(t, frame.RemainingKm, prev)
		prev = frame.RemainingKm
		if frame.Arrived {
			arrived = true
			require.True(t, frame.Near)
			require.Less(t, frame.RemainingKm, NearThresholdKm)
			break
		}
	}
	require.True(t, arrived, "simulator never reached the destination")
}

func TestSimulator_CurrentDoesNotAdvance(t *testing.T) {
	sim := NewSimulator(pharmacy, destination, time.Second)
	first := sim.Current()
	second := sim.Current()
	require.Equal(t, first.RemainingKm, second.RemainingKm)
	require.False(t, first.Near)
}

func TestSimulator_StartAtDestinationIsNear(t *testing.T) {
	sim := NewSimulator(destination, destination, time.Second)
	require.True(t, sim.Current().Near)
	frame := sim.Step()
	require.True(t, frame.Arrived)
}
