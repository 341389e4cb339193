// Package order provides the Receiving Order aggregate: an expected (or blind)
// goods receipt in a warehouse together with its positions and the state machine
// that drives both.
//
// The package includes:
//   - Order: the aggregate root holding identity, details, schedule and positions
//   - Position: a tagged union of quantity positions and transport-unit positions
//   - State and PositionState: ranked lifecycle states
//   - OrderCreated, OrderStateChanged, PositionStateChanged: pending domain events
//
// Key business rules:
//   - States only move forward. A transition whose rank is not greater than the
//     current one is a silent no-op.
//   - Every applied position transition is followed by order recalculation, for
//     both position kinds alike.
//   - Cancellation is allowed in UNDEFINED, CREATED and VALIDATED and cascades
//     through the positions when there are any.
//   - Force completion is allowed until the order reaches a terminal state.
//
// Positions hold no reference to their order; they are mutated only through the
// Order methods so that recalculation can never be skipped.
package order
