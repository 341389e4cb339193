package order

import (
	"fmt"
	"strings"

	"receiving/internal/pkg/errs"
)

// State is the lifecycle state of an Order. The numeric value is the state's rank;
// the order only ever moves to a state with a higher rank.
//
// State transitions:
//
//	UNDEFINED ──> CREATED ──> VALIDATED ──> PROCESSING ──┬──> PARTIALLY_COMPLETED
//	                                                     ├──> COMPLETED
//	                                                     └──> CANCELED
type State int

const (
	// Undefined is the state of orders imported without a lifecycle.
	Undefined State = 0

	// Created is the initial state of every order built by NewOrder.
	Created State = 10

	// Validated marks an order whose master data was checked by an upstream system.
	Validated State = 20

	// Processing means at least one position has been received.
	Processing State = 30

	// PartiallyCompleted is terminal: at least one position was closed short.
	PartiallyCompleted State = 40

	// Completed is terminal: every position was fully received or force-completed.
	Completed State = 50

	// Canceled is terminal: every position was canceled.
	Canceled State = 60
)

var stateNames = map[State]string{
	Undefined:          "UNDEFINED",
	Created:            "CREATED",
	Validated:          "VALIDATED",
	Processing:         "PROCESSING",
	PartiallyCompleted: "PARTIALLY_COMPLETED",
	Completed:          "COMPLETED",
	Canceled:           "CANCELED",
}

// ParseState resolves the persisted or transmitted name of a state.
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if n == strings.ToUpper(name) {
			return s, nil
		}
	}
	return Undefined, errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%q is not a valid order state", name))
}

// Rank returns the ordering weight of the state.
func (s State) Rank() int {
	return int(s)
}

// IsTerminal reports whether the order can no longer change.
func (s State) IsTerminal() bool {
	return s == PartiallyCompleted || s == Completed || s == Canceled
}

func (s State) Validate() error {
	if _, ok := stateNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%d is not a valid order state", s))
	}
	return nil
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// PositionState is the lifecycle state of a Position, ranked like State.
//
//	CREATED ──> PROCESSING ──┬──> PARTIALLY_COMPLETED
//	                         ├──> COMPLETED
//	                         └──> CANCELED
type PositionState int

const (
	PositionCreated            PositionState = 10
	PositionProcessing         PositionState = 20
	PositionPartiallyCompleted PositionState = 30
	PositionCompleted          PositionState = 40
	PositionCanceled           PositionState = 50
)

var positionStateNames = map[PositionState]string{
	PositionCreated:            "CREATED",
	PositionProcessing:         "PROCESSING",
	PositionPartiallyCompleted: "PARTIALLY_COMPLETED",
	PositionCompleted:          "COMPLETED",
	PositionCanceled:           "CANCELED",
}

func ParsePositionState(name string) (PositionState, error) {
	for s, n := range positionStateNames {
		if n == strings.ToUpper(name) {
			return s, nil
		}
	}
	return 0, errs.NewValueIsInvalidErrorWithCause("position state", fmt.Errorf("%q is not a valid position state", name))
}

func (s PositionState) Rank() int {
	return int(s)
}

// IsOpen reports whether the position is still waiting for goods.
func (s PositionState) IsOpen() bool {
	return s == PositionCreated || s == PositionProcessing
}

// AllowsCapturing reports whether quantities may still be booked on the position.
// Completed positions accept further receipts (overbooking); canceled ones do not.
func (s PositionState) AllowsCapturing() bool {
	return s != PositionCanceled && s.Validate() == nil
}

func (s PositionState) Validate() error {
	if _, ok := positionStateNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("position state", fmt.Errorf("%d is not a valid position state", s))
	}
	return nil
}

func (s PositionState) String() string {
	if n, ok := positionStateNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}
