package order

import (
	"time"

	"receiving/internal/core/domain/model/kernel"
)

const (
	EventOrderCreated         = "receiving.order.created"
	EventOrderStateChanged    = "receiving.order.state_changed"
	EventPositionStateChanged = "receiving.position.state_changed"
)

// OrderCreated is recorded by NewOrder.
type OrderCreated struct {
	PKey    kernel.PKey
	OrderID string
	At      time.Time
}

func (e OrderCreated) EventName() string     { return EventOrderCreated }
func (e OrderCreated) OccurredAt() time.Time { return e.At }

// OrderStateChanged is recorded whenever the order state moves forward.
type OrderStateChanged struct {
	PKey    kernel.PKey
	OrderID string
	From    State
	To      State
	At      time.Time
}

func (e OrderStateChanged) EventName() string     { return EventOrderStateChanged }
func (e OrderStateChanged) OccurredAt() time.Time { return e.At }

// PositionStateChanged is recorded for every applied position transition.
type PositionStateChanged struct {
	PKey     kernel.PKey
	OrderID  string
	Position int
	From     PositionState
	To       PositionState
	At       time.Time
}

func (e PositionStateChanged) EventName() string     { return EventPositionStateChanged }
func (e PositionStateChanged) OccurredAt() time.Time { return e.At }

func now() time.Time {
	return time.Now().UTC()
}
