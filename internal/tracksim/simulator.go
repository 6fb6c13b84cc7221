// Package tracksim animates a courier position between the pharmacy and the
// delivery destination for map display. Nothing here is authoritative: real
// order state changes only through the fulfillment state machine, and
// simulated positions are never written back to an order.
package tracksim

import (
	"context"
	"sync"
	"time"

	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

// NearThresholdKm is the remaining distance below which the position is
// considered at the destination for display purposes.
const NearThresholdKm = 0.05

// DefaultStepFraction is how much of the remaining distance one tick covers.
const DefaultStepFraction = 0.15

// Advance moves the current point a fraction of the remaining way toward the
// destination and returns the new point plus the remaining distance in km.
func Advance(current, destination ordersdomain.GeoPoint, fraction float64) (ordersdomain.GeoPoint, float64) {
	if fraction <= 0 {
		fraction = DefaultStepFraction
	}
	if fraction > 1 {
		fraction = 1
	}
	next := ordersdomain.GeoPoint{
		Lat:       current.Lat + (destination.Lat-current.Lat)*fraction,
		Lng:       current.Lng + (destination.Lng-current.Lng)*fraction,
		UpdatedAt: time.Now().UTC(),
	}
	return next, ordersdomain.DistanceKm(next, destination)
}

// Snapshot is one frame of the animation.
type Snapshot struct {
	Position    ordersdomain.GeoPoint
	RemainingKm float64
	Near        bool
	Arrived     bool
}

// Simulator ticks a position toward the destination. Intended for demo
// clients polling the tracking endpoint; it holds no server state.
type Simulator struct {
	mu           sync.Mutex
	position     ordersdomain.GeoPoint
	destination  ordersdomain.GeoPoint
	stepFraction float64
	interval     time.Duration
	snapshot     Snapshot
}

// NewSimulator starts from the last known agent position, or the pharmacy
// when none is known yet.
func NewSimulator(start, destination ordersdomain.GeoPoint, interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	s := &Simulator{
		position:     start,
		destination:  destination,
		stepFraction: DefaultStepFraction,
		interval:     interval,
	}
	s.snapshot = Snapshot{Position: start, RemainingKm: ordersdomain.DistanceKm(start, destination)}
	s.snapshot.Near = s.snapshot.RemainingKm < NearThresholdKm
	return s
}

// Run advances the animation until the position is near the destination or
// the context ends. Each frame is delivered to onFrame.
func (s *Simulator) Run(ctx context.Context, onFrame func(Snapshot)) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame := s.Step()
			if onFrame != nil {
				onFrame(frame)
			}
			if frame.Arrived {
				return
			}
		}
	}
}

// Step advances one frame and returns it.
func (s *Simulator) Step() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, remaining := Advance(s.position, s.destination, s.stepFraction)
	s.position = next
	near := remaining < NearThresholdKm
	s.snapshot = Snapshot{
		Position:    next,
		RemainingKm: remaining,
		Near:        near,
		Arrived:     near,
	}
	return s.snapshot
}

// Current returns the latest frame without advancing.
func (s *Simulator) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}
