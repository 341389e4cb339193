package order

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/pkg/errs"
	"receiving/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("order must be created via NewOrder or RestoreOrder")

const objectName = "order"

// Schedule holds the informational timestamps of an order. The core never
// enforces them.
type Schedule struct {
	ExpectedReceipt *time.Time
	Earliest        *time.Time
	Latest          *time.Time
	Start           *time.Time
	End             *time.Time
}

// Problem is the last failure recorded against an order.
type Problem struct {
	Message    string
	Code       string
	OccurredAt time.Time
}

// Order is the Receiving Order aggregate root.
//
// Order follows these invariants:
//   - pKey and orderID are set once and never change
//   - position numbers are unique and >= 1
//   - the state only moves to a higher rank
//   - once positions exist, the state is derived from them by Recalculate
//
// All position mutations go through Order so that every applied position
// transition is followed by recalculation.
type Order struct {
	kernel.EventRecorder

	pKey      kernel.PKey
	orderID   string
	state     State
	details   map[string]string
	positions []*Position
	locked    bool
	schedule  Schedule
	problem   *Problem

	guard guard.ConstructorGuard
}

// NewOrder creates an order in state CREATED without positions and records an
// OrderCreated event.
//
// Parameters:
//   - pKey: synthetic identity (must be constructed)
//   - orderID: business identifier, unique across orders (must not be empty)
//   - details: arbitrary metadata, copied
//   - schedule: informational timestamps
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewPKey(), "RO-0001", nil, order.Schedule{})
//	if err != nil {
//	    // invalid identity
//	}
//	_ = o.AddQuantityPosition(0, "SKU-1", kernel.MustParseQuantity("10", "PCS"), nil)
func NewOrder(pKey kernel.PKey, orderID string, details map[string]string, schedule Schedule) (*Order, error) {
	o := &Order{
		state:    Created,
		details:  cloneDetails(details),
		schedule: schedule,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setPKey(pKey),
		o.setOrderID(orderID),
	); err != nil {
		return nil, err
	}

	o.Record(OrderCreated{PKey: o.pKey, OrderID: o.orderID, At: now()})
	return o, nil
}

// RestoreOrder rebuilds an order from persistence. No event is recorded and no
// recalculation happens.
func RestoreOrder(
	pKey kernel.PKey,
	orderID string,
	state State,
	details map[string]string,
	locked bool,
	schedule Schedule,
	problem *Problem,
	positions []*Position,
) *Order {
	return &Order{
		pKey:      pKey,
		orderID:   orderID,
		state:     state,
		details:   cloneDetails(details),
		positions: positions,
		locked:    locked,
		schedule:  schedule,
		problem:   problem,
		guard:     guard.NewConstructorGuard(),
	}
}

// Validate ensures the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) PKey() kernel.PKey {
	return o.pKey
}

func (o *Order) OrderID() string {
	return o.orderID
}

func (o *Order) State() State {
	return o.state
}

func (o *Order) Details() map[string]string {
	return maps.Clone(o.details)
}

func (o *Order) IsLocked() bool {
	return o.locked
}

func (o *Order) Schedule() Schedule {
	return o.schedule
}

// Problem returns the last recorded failure, or nil.
func (o *Order) Problem() *Problem {
	if o.problem == nil {
		return nil
	}
	p := *o.problem
	return &p
}

// Positions returns copies of the positions in position order.
func (o *Order) Positions() []Position {
	out := make([]Position, 0, len(o.positions))
	for _, p := range o.positions {
		out = append(out, p.clone())
	}
	return out
}

// Position returns a copy of the position with the given number.
func (o *Order) Position(number int) (Position, bool) {
	p := o.find(number)
	if p == nil {
		return Position{}, false
	}
	return p.clone(), true
}

// Lock marks the order as locked for manual handling. The flag is informational.
func (o *Order) Lock() {
	o.locked = true
}

func (o *Order) Unlock() {
	o.locked = false
}

// RecordProblem stores the last failure that happened while processing the order.
func (o *Order) RecordProblem(message, code string) {
	o.problem = &Problem{Message: message, Code: code, OccurredAt: now()}
}

// AddQuantityPosition appends a quantity position. A zero number picks the next
// free number (highest + 1).
func (o *Order) AddQuantityPosition(number int, sku string, expected kernel.Quantity, details map[string]string) error {
	return o.addPosition(&Position{
		number:   number,
		kind:     QuantityKind,
		state:    PositionCreated,
		details:  cloneDetails(details),
		quantity: &QuantityLine{sku: sku, expected: expected},
	})
}

// AddTransportUnitPosition appends a transport-unit position. A zero number picks
// the next free number.
func (o *Order) AddTransportUnitPosition(number int, transportUnitBK, transportUnitType string, details map[string]string) error {
	return o.addPosition(&Position{
		number:  number,
		kind:    TransportUnitKind,
		state:   PositionCreated,
		details: cloneDetails(details),
		transportUnit: &TransportUnitLine{
			transportUnitBK:   transportUnitBK,
			transportUnitType: transportUnitType,
		},
	})
}

// ReceiveQuantity books q on the quantity position number. The running total is
// kept in the finer of the booked and expected units; the position moves to COMPLETED once the
// received quantity reaches the expected one and to PROCESSING otherwise.
func (o *Order) ReceiveQuantity(number int, q kernel.Quantity) error {
	p := o.find(number)
	if p == nil {
		return errs.NewObjectNotFoundError("position", number)
	}
	if p.kind != QuantityKind {
		return errs.NewValueIsInvalidErrorWithCause("position", fmt.Errorf("position %d is not a quantity position", number))
	}
	if !p.state.AllowsCapturing() {
		return errs.NewTransitionDeniedError("receipt", "position", number, p.state)
	}
	if !q.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%s is not positive", q))
	}

	received, ok := p.quantity.Received()
	if !ok {
		zero, err := kernel.NewQuantity(decimal.Zero, p.quantity.expected.Unit())
		if err != nil {
			return err
		}
		received = zero
	}
	total, err := received.Add(q)
	if err != nil {
		return err
	}
	p.quantity.received = &total

	if p.quantity.IsSatisfied() {
		o.transition(p, PositionCompleted)
	} else {
		o.transition(p, PositionProcessing)
	}
	return nil
}

// ReceiveTransportUnit completes the open transport-unit position number.
func (o *Order) ReceiveTransportUnit(number int) error {
	p := o.find(number)
	if p == nil {
		return errs.NewObjectNotFoundError("position", number)
	}
	if p.kind != TransportUnitKind {
		return errs.NewValueIsInvalidErrorWithCause("position", fmt.Errorf("position %d is not a transport unit position", number))
	}
	if !p.state.IsOpen() {
		return errs.NewTransitionDeniedError("receipt", "position", number, p.state)
	}
	o.transition(p, PositionCompleted)
	return nil
}

// Cancel cancels the order.
//
// Business rules:
//   - allowed in UNDEFINED, CREATED and VALIDATED
//   - an already canceled order yields an AlreadyInStateError
//   - every other state yields a TransitionDeniedError
//   - with positions, every position is moved to CANCELED and the order state
//     follows through recalculation; without positions the order is canceled directly
func (o *Order) Cancel() error {
	switch o.state {
	case Canceled:
		return errs.NewAlreadyInStateError(objectName, o.orderID, o.state)
	case Undefined, Created, Validated:
	default:
		return errs.NewTransitionDeniedError("cancellation", objectName, o.orderID, o.state)
	}

	if len(o.positions) == 0 {
		o.setState(Canceled)
		return nil
	}
	for _, p := range o.positions {
		o.transition(p, PositionCanceled)
	}
	return nil
}

// Complete force-completes the order.
//
// Business rules:
//   - an already completed order yields an AlreadyInStateError
//   - CANCELED and PARTIALLY_COMPLETED orders yield a TransitionDeniedError
//   - every open quantity position with a short positive receipt moves to
//     PARTIALLY_COMPLETED, every other open position to COMPLETED
//   - without positions the order is completed directly
func (o *Order) Complete() error {
	switch o.state {
	case Completed:
		return errs.NewAlreadyInStateError(objectName, o.orderID, o.state)
	case Canceled, PartiallyCompleted:
		return errs.NewTransitionDeniedError("completion", objectName, o.orderID, o.state)
	}

	if len(o.positions) == 0 {
		o.setState(Completed)
		return nil
	}
	for _, p := range o.positions {
		if !p.state.IsOpen() {
			continue
		}
		if p.kind == QuantityKind && p.quantity.IsShort() {
			o.transition(p, PositionPartiallyCompleted)
		} else {
			o.transition(p, PositionCompleted)
		}
	}
	o.Recalculate()
	return nil
}

// ChangeState moves the order to target. Only COMPLETED is supported and is the
// same as Complete.
func (o *Order) ChangeState(target State) error {
	if target != Completed {
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("changing an order to %s is not supported", target))
	}
	return o.Complete()
}

// Recalculate derives the order state from its positions and reports whether the
// state changed. Calling it again without position changes is a no-op.
//
// Rules:
//   - UNDEFINED, CREATED, VALIDATED: any PROCESSING position moves the order to
//     PROCESSING; otherwise, when every position is terminal, the order takes the
//     terminal aggregate of its positions
//   - PROCESSING: once every position is terminal the order takes the terminal
//     aggregate
//   - terminal states are never recalculated
//
// The terminal aggregate is PARTIALLY_COMPLETED if any position is, else COMPLETED
// if any position is, else CANCELED.
func (o *Order) Recalculate() bool {
	if len(o.positions) == 0 {
		return false
	}

	switch o.state {
	case Undefined, Created, Validated:
		if o.anyPositionIn(PositionProcessing) {
			return o.setState(Processing)
		}
		if o.allPositionsTerminal() {
			return o.setState(o.terminalAggregate())
		}
	case Processing:
		if o.allPositionsTerminal() {
			return o.setState(o.terminalAggregate())
		}
	}
	return false
}

func (o *Order) transition(p *Position, to PositionState) {
	from, applied := p.moveTo(to)
	if !applied {
		return
	}
	o.Record(PositionStateChanged{
		PKey:     o.pKey,
		OrderID:  o.orderID,
		Position: p.number,
		From:     from,
		To:       to,
		At:       now(),
	})
	o.Recalculate()
}

func (o *Order) setState(to State) bool {
	from := o.state
	if to.Rank() <= from.Rank() {
		return false
	}
	o.state = to
	o.Record(OrderStateChanged{PKey: o.pKey, OrderID: o.orderID, From: from, To: to, At: now()})
	return true
}

func (o *Order) anyPositionIn(s PositionState) bool {
	for _, p := range o.positions {
		if p.state == s {
			return true
		}
	}
	return false
}

func (o *Order) allPositionsTerminal() bool {
	for _, p := range o.positions {
		if p.state.IsOpen() {
			return false
		}
	}
	return true
}

func (o *Order) terminalAggregate() State {
	switch {
	case o.anyPositionIn(PositionPartiallyCompleted):
		return PartiallyCompleted
	case o.anyPositionIn(PositionCompleted):
		return Completed
	default:
		return Canceled
	}
}

func (o *Order) addPosition(p *Position) error {
	if o.state.IsTerminal() || o.state == Processing {
		return errs.NewTransitionDeniedError("adding a position", objectName, o.orderID, o.state)
	}
	if p.number == 0 {
		p.number = o.nextNumber()
	}
	if err := p.validate(); err != nil {
		return err
	}
	if o.find(p.number) != nil {
		return errs.NewObjectAlreadyExistsError("position number", p.number)
	}
	o.positions = append(o.positions, p)
	return nil
}

func (o *Order) nextNumber() int {
	highest := 0
	for _, p := range o.positions {
		highest = max(highest, p.number)
	}
	return highest + 1
}

func (o *Order) find(number int) *Position {
	for _, p := range o.positions {
		if p.number == number {
			return p
		}
	}
	return nil
}

func (o *Order) setPKey(pKey kernel.PKey) error {
	if err := pKey.Validate(); err != nil {
		return err
	}
	o.pKey = pKey
	return nil
}

func (o *Order) setOrderID(orderID string) error {
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderId")
	}
	o.orderID = orderID
	return nil
}

func cloneDetails(details map[string]string) map[string]string {
	if details == nil {
		return map[string]string{}
	}
	return maps.Clone(details)
}
