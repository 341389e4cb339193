package kernel

import (
	"errors"
	"fmt"

	"receiving/internal/pkg/errs"
	"receiving/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrQuantityIsNotConstructed is returned when a zero Quantity is validated.
var ErrQuantityIsNotConstructed = errs.NewValueIsRequiredError("quantity must be created via NewQuantity or ParseQuantity")

// Quantity is a non-negative decimal magnitude in a unit of measure. Arithmetic
// between quantities of different units works in the finer unit and fails when
// the dimensions differ.
type Quantity struct {
	amount decimal.Decimal
	unit   Unit
	guard  guard.ConstructorGuard
}

// NewQuantity validates amount and unit.
func NewQuantity(amount decimal.Decimal, unit Unit) (Quantity, error) {
	if unit.IsZero() {
		return Quantity{}, errs.NewValueIsRequiredError("unit")
	}
	if amount.IsNegative() {
		return Quantity{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is negative", amount))
	}
	return Quantity{amount: amount, unit: unit, guard: guard.NewConstructorGuard()}, nil
}

// ParseQuantity builds a quantity from its textual amount and unit code.
func ParseQuantity(amount, unitCode string) (Quantity, error) {
	unit, unitErr := UnitFromCode(unitCode)
	value, amountErr := decimal.NewFromString(amount)
	if amountErr != nil {
		amountErr = errs.NewValueIsInvalidErrorWithCause("amount", amountErr)
	}
	if err := errors.Join(unitErr, amountErr); err != nil {
		return Quantity{}, err
	}
	return NewQuantity(value, unit)
}

// MustParseQuantity is ParseQuantity for fixtures.
func MustParseQuantity(amount, unitCode string) Quantity {
	q, err := ParseQuantity(amount, unitCode)
	if err != nil {
		panic(fmt.Sprintf("kernel: invalid quantity %s %s: %v", amount, unitCode, err))
	}
	return q
}

func (q Quantity) Amount() decimal.Decimal {
	return q.amount
}

func (q Quantity) Unit() Unit {
	return q.unit
}

func (q Quantity) IsZero() bool {
	return q.amount.IsZero()
}

func (q Quantity) IsPositive() bool {
	return q.amount.IsPositive()
}

func (q Quantity) Validate() error {
	return q.guard.Validate(ErrQuantityIsNotConstructed)
}

// ConvertTo expresses q in unit u. Converting into a coarser unit may round, so
// it is meant for display; Add, Sub and Compare never go through it.
func (q Quantity) ConvertTo(u Unit) (Quantity, error) {
	if err := q.Validate(); err != nil {
		return Quantity{}, err
	}
	if q.unit.IsEqual(u) {
		return q, nil
	}
	if !q.unit.IsCompatible(u) {
		return Quantity{}, errs.NewValueIsInvalidErrorWithCause(
			"unit",
			fmt.Errorf("%s (%s) cannot be converted to %s (%s)", q.unit, q.unit.dimension, u, u.dimension),
		)
	}
	converted := q.amount.Mul(q.unit.factor).Div(u.factor)
	return NewQuantity(converted, u)
}

// Add returns q + other. The sum is expressed in the finer of both units, so a
// mixed sum never needs a division.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	a, b, err := q.commonUnit(other)
	if err != nil {
		return Quantity{}, err
	}
	return NewQuantity(a.amount.Add(b.amount), a.unit)
}

// Sub returns q - other in the finer of both units, floored at zero.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	a, b, err := q.commonUnit(other)
	if err != nil {
		return Quantity{}, err
	}
	diff := a.amount.Sub(b.amount)
	if diff.IsNegative() {
		diff = decimal.Zero
	}
	return NewQuantity(diff, a.unit)
}

// Compare returns -1, 0 or +1 like decimal.Cmp. Both sides are scaled to the
// dimension's base unit, which only multiplies.
func (q Quantity) Compare(other Quantity) (int, error) {
	if err := q.checkCompatible(other); err != nil {
		return 0, err
	}
	return q.amount.Mul(q.unit.factor).Cmp(other.amount.Mul(other.unit.factor)), nil
}

// commonUnit rescales q and other into the finer of both units. When the coarser
// factor is not a multiple of the finer one, both go to the dimension's base unit.
func (q Quantity) commonUnit(other Quantity) (Quantity, Quantity, error) {
	if err := q.checkCompatible(other); err != nil {
		return Quantity{}, Quantity{}, err
	}
	if q.unit.IsEqual(other.unit) {
		return q, other, nil
	}

	fine, coarse := q.unit, other.unit
	if fine.factor.GreaterThan(coarse.factor) {
		fine, coarse = coarse, fine
	}
	if !coarse.factor.Mod(fine.factor).IsZero() {
		fine = baseUnit(q.unit.dimension)
	}

	return q.scaledTo(fine), other.scaledTo(fine), nil
}

// scaledTo expresses q in u, where u's factor divides q's factor.
func (q Quantity) scaledTo(u Unit) Quantity {
	if q.unit.IsEqual(u) {
		return q
	}
	ratio := q.unit.factor.Div(u.factor)
	return Quantity{amount: q.amount.Mul(ratio), unit: u, guard: guard.NewConstructorGuard()}
}

func (q Quantity) checkCompatible(other Quantity) error {
	if err := errors.Join(q.Validate(), other.Validate()); err != nil {
		return err
	}
	if !q.unit.IsCompatible(other.unit) {
		return errs.NewValueIsInvalidErrorWithCause(
			"unit",
			fmt.Errorf("%s (%s) cannot be converted to %s (%s)", other.unit, other.unit.dimension, q.unit, q.unit.dimension),
		)
	}
	return nil
}

func (q Quantity) String() string {
	return fmt.Sprintf("%s %s", q.amount.String(), q.unit)
}
