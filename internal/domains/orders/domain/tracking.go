package domain

import "time"

// TrackingEvent is one entry of an order's append-only audit trail.
type TrackingEvent struct {
	Status   Status
	Message  string
	Location string
	At       time.Time
}

// AppendEvent records a tracking event. Timestamps within an order are clamped
// monotonically non-decreasing so the customer-facing timeline never runs
// backwards even if host clocks do.
func (o *Order) AppendEvent(status Status, message, location string) {
	at := time.Now().UTC()
	if n := len(o.Timeline); n > 0 && at.Before(o.Timeline[n-1].At) {
		at = o.Timeline[n-1].At
	}
	o.Timeline = append(o.Timeline, TrackingEvent{
		Status:   status,
		Message:  message,
		Location: location,
		At:       at,
	})
	o.UpdatedAt = at
}

// LastEvent returns the most recent tracking event, or false when the
// timeline is empty.
func (o *Order) LastEvent() (TrackingEvent, bool) {
	if len(o.Timeline) == 0 {
		return TrackingEvent{}, false
	}
	return o.Timeline[len(o.Timeline)-1], true
}
