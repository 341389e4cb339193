package commands

import (
	"errors"
	"fmt"
	"maps"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/pkg/errs"
	"receiving/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// PositionInput describes one position of a new order. Quantity positions need SKU
// and Quantity, transport-unit positions need TransportUnitBK. A zero Number lets
// the order pick the next free number.
type PositionInput struct {
	Number            int
	Kind              order.PositionKind
	SKU               string
	Quantity          kernel.Quantity
	TransportUnitBK   string
	TransportUnitType string
	Details           map[string]string
}

func (p PositionInput) validate(index int) error {
	name := func(field string) string { return fmt.Sprintf("positions[%d].%s", index, field) }
	switch p.Kind {
	case order.QuantityKind:
		var errSKU error
		if p.SKU == "" {
			errSKU = errs.NewValueIsRequiredError(name("sku"))
		}
		return errors.Join(errSKU, p.Quantity.Validate())
	case order.TransportUnitKind:
		if p.TransportUnitBK == "" {
			return errs.NewValueIsRequiredError(name("transportUnitBK"))
		}
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(name("kind"), fmt.Errorf("%d is not a position kind", p.Kind))
	}
}

// CreateOrderCommand represents a request to create a receiving order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("", nil, order.Schedule{}, []PositionInput{
//	    {Kind: order.QuantityKind, SKU: "SKU-1", Quantity: kernel.MustParseQuantity("10", "PCS")},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	o, err := handler.Handle(ctx, cmd)
//	// o.OrderID() holds the generated business id
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   string
	details   map[string]string
	schedule  order.Schedule
	positions []PositionInput

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the order data. An empty orderID requests a
// generated one.
func NewCreateOrderCommand(
	orderID string,
	details map[string]string,
	schedule order.Schedule,
	positions []PositionInput,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		orderID:  orderID,
		details:  maps.Clone(details),
		schedule: schedule,
		guard:    guard.NewConstructorGuard(),
	}

	if err := cmd.setPositions(positions); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the requested business id, empty when one has to be generated.
func (c CreateOrderCommand) OrderID() string {
	return c.orderID
}

func (c CreateOrderCommand) Details() map[string]string {
	return maps.Clone(c.details)
}

func (c CreateOrderCommand) Schedule() order.Schedule {
	return c.schedule
}

func (c CreateOrderCommand) Positions() []PositionInput {
	return append([]PositionInput(nil), c.positions...)
}

func (c *CreateOrderCommand) setPositions(positions []PositionInput) error {
	validationErrs := make([]error, 0, len(positions))
	for i, p := range positions {
		validationErrs = append(validationErrs, p.validate(i))
	}
	if err := errors.Join(validationErrs...); err != nil {
		return err
	}

	c.positions = append([]PositionInput(nil), positions...)
	return nil
}
