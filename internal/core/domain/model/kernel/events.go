package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate while it changes. Events are kept
// on the aggregate as a pending list and published by the unit of work only after
// the enclosing transaction has committed.
type DomainEvent interface {
	// EventName identifies the event type, e.g. "receiving.order.state_changed".
	EventName() string

	// OccurredAt is the moment the aggregate recorded the event.
	OccurredAt() time.Time
}

// EventSource is implemented by aggregates that record domain events.
type EventSource interface {
	PendingEvents() []DomainEvent
	ClearEvents()
}

// EventRecorder is embedded into aggregates to collect pending events.
type EventRecorder struct {
	pending []DomainEvent
}

// Record appends e to the pending list.
func (r *EventRecorder) Record(e DomainEvent) {
	r.pending = append(r.pending, e)
}

// PendingEvents returns a copy of the events recorded since the last ClearEvents.
func (r *EventRecorder) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.pending))
	copy(out, r.pending)
	return out
}

func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}
