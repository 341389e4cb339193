package order

import (
	"fmt"
	"maps"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/pkg/errs"
)

// PositionKind discriminates the two position variants.
type PositionKind int

const (
	// QuantityKind positions expect an amount of one product.
	QuantityKind PositionKind = iota + 1

	// TransportUnitKind positions expect one identified transport unit.
	TransportUnitKind
)

func (k PositionKind) String() string {
	switch k {
	case QuantityKind:
		return "QUANTITY"
	case TransportUnitKind:
		return "TRANSPORT_UNIT"
	default:
		return "UNKNOWN"
	}
}

// ParsePositionKind resolves the persisted name of a kind.
func ParsePositionKind(name string) (PositionKind, error) {
	switch name {
	case QuantityKind.String():
		return QuantityKind, nil
	case TransportUnitKind.String():
		return TransportUnitKind, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause("position kind", fmt.Errorf("%q is not a valid position kind", name))
	}
}

// QuantityLine is the payload of a quantity position.
type QuantityLine struct {
	sku      string
	expected kernel.Quantity
	received *kernel.Quantity
}

func (l QuantityLine) SKU() string {
	return l.sku
}

func (l QuantityLine) Expected() kernel.Quantity {
	return l.expected
}

// Received returns the booked quantity in the finest unit booked so far. ok is
// false until the first receipt.
func (l QuantityLine) Received() (q kernel.Quantity, ok bool) {
	if l.received == nil {
		return kernel.Quantity{}, false
	}
	return *l.received, true
}

// Remaining returns expected minus received, never below zero.
func (l QuantityLine) Remaining() kernel.Quantity {
	if l.received == nil {
		return l.expected
	}
	rest, err := l.expected.Sub(*l.received)
	if err != nil {
		return l.expected
	}
	return rest
}

// IsSatisfied reports whether received >= expected.
func (l QuantityLine) IsSatisfied() bool {
	if l.received == nil {
		return false
	}
	cmp, err := l.received.Compare(l.expected)
	return err == nil && cmp >= 0
}

// IsShort reports a positive receipt that did not reach the expected quantity.
func (l QuantityLine) IsShort() bool {
	return l.received != nil && l.received.IsPositive() && !l.IsSatisfied()
}

// TransportUnitLine is the payload of a transport-unit position.
type TransportUnitLine struct {
	transportUnitBK   string
	transportUnitType string
}

// TransportUnitBK is the expected business key (e.g. the SSCC) of the unit.
func (l TransportUnitLine) TransportUnitBK() string {
	return l.transportUnitBK
}

func (l TransportUnitLine) TransportUnitType() string {
	return l.transportUnitType
}

// Position is one expected line of an Order. Exactly one of the quantity and
// transport-unit payloads is set, selected by Kind.
//
// A Position returned from the Order accessors is a copy; mutating the order
// happens only through Order methods.
type Position struct {
	number        int
	kind          PositionKind
	state         PositionState
	details       map[string]string
	quantity      *QuantityLine
	transportUnit *TransportUnitLine
}

// RestoreQuantityPosition rebuilds a quantity position from persistence.
func RestoreQuantityPosition(
	number int,
	state PositionState,
	details map[string]string,
	sku string,
	expected kernel.Quantity,
	received *kernel.Quantity,
) *Position {
	p := &Position{
		number:   number,
		kind:     QuantityKind,
		state:    state,
		details:  maps.Clone(details),
		quantity: &QuantityLine{sku: sku, expected: expected},
	}
	if received != nil {
		r := *received
		p.quantity.received = &r
	}
	return p
}

// RestoreTransportUnitPosition rebuilds a transport-unit position from persistence.
func RestoreTransportUnitPosition(
	number int,
	state PositionState,
	details map[string]string,
	transportUnitBK, transportUnitType string,
) *Position {
	return &Position{
		number:  number,
		kind:    TransportUnitKind,
		state:   state,
		details: maps.Clone(details),
		transportUnit: &TransportUnitLine{
			transportUnitBK:   transportUnitBK,
			transportUnitType: transportUnitType,
		},
	}
}

func (p Position) Number() int {
	return p.number
}

func (p Position) Kind() PositionKind {
	return p.kind
}

func (p Position) State() PositionState {
	return p.state
}

func (p Position) Details() map[string]string {
	return maps.Clone(p.details)
}

// AsQuantity returns the quantity payload when the position is a quantity position.
func (p Position) AsQuantity() (QuantityLine, bool) {
	if p.kind != QuantityKind || p.quantity == nil {
		return QuantityLine{}, false
	}
	return *p.quantity, true
}

// AsTransportUnit returns the transport-unit payload when the position is one.
func (p Position) AsTransportUnit() (TransportUnitLine, bool) {
	if p.kind != TransportUnitKind || p.transportUnit == nil {
		return TransportUnitLine{}, false
	}
	return *p.transportUnit, true
}

func (p *Position) clone() Position {
	c := Position{
		number:  p.number,
		kind:    p.kind,
		state:   p.state,
		details: maps.Clone(p.details),
	}
	if p.quantity != nil {
		q := *p.quantity
		if q.received != nil {
			r := *q.received
			q.received = &r
		}
		c.quantity = &q
	}
	if p.transportUnit != nil {
		tu := *p.transportUnit
		c.transportUnit = &tu
	}
	return c
}

// moveTo applies a ranked transition and reports whether it happened.
func (p *Position) moveTo(to PositionState) (from PositionState, applied bool) {
	from = p.state
	if to.Rank() <= from.Rank() {
		return from, false
	}
	p.state = to
	return from, true
}

func (p *Position) validate() error {
	if p.number < 1 {
		return errs.NewValueIsOutOfRangeError("position number", p.number, 1, "unbounded")
	}
	if err := p.state.Validate(); err != nil {
		return err
	}
	switch p.kind {
	case QuantityKind:
		if p.quantity == nil {
			return errs.NewValueIsRequiredError("quantity line")
		}
		if p.quantity.sku == "" {
			return errs.NewValueIsRequiredError("sku")
		}
		if err := p.quantity.expected.Validate(); err != nil {
			return err
		}
		if !p.quantity.expected.IsPositive() {
			return errs.NewValueIsInvalidErrorWithCause("expected quantity", fmt.Errorf("%s is not positive", p.quantity.expected))
		}
	case TransportUnitKind:
		if p.transportUnit == nil || p.transportUnit.transportUnitBK == "" {
			return errs.NewValueIsRequiredError("transport unit business key")
		}
	default:
		return errs.NewValueIsInvalidErrorWithCause("position kind", fmt.Errorf("%d is not a valid position kind", p.kind))
	}
	return nil
}
