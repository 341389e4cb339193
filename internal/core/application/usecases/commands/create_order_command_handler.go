package commands

import (
	"context"
	"errors"
	"fmt"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/core/domain/services/ordernumber"
	"receiving/internal/core/ports"
	"receiving/internal/pkg/errs"
)

// CreateOrderCommandHandler creates receiving orders.
//
// Products of quantity positions are checked against the product lookup before
// the transaction starts: unknown SKUs fail with a not-found error and quantities
// in a unit that cannot be converted into the product's base unit are invalid.
// Orders without a business id get the next number of the configured tenant.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, generator, products)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectAlreadyExists) {
//	    // orderId is taken
//	}
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	generator  *ordernumber.Generator
	products   ports.ProductLookup
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	generator *ordernumber.Generator,
	products ports.ProductLookup,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		generator:  generator,
		products:   products,
	}
}

// Handle validates the positions, assigns the business id and persists the order
// in state CREATED.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.checkProducts(ctx, cmd.Positions()); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	orderID, err := h.orderID(ctx, uow, orderRepo, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(kernel.NewPKey(), orderID, cmd.Details(), cmd.Schedule())
	if err != nil {
		return nil, err
	}

	for _, p := range cmd.Positions() {
		if err = addPosition(o, p); err != nil {
			return nil, err
		}
	}

	if err = orderRepo.Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

func (h *CreateOrderCommandHandler) orderID(
	ctx context.Context,
	uow UoW,
	orderRepo ports.OrderRepository,
	requested string,
) (string, error) {
	if requested == "" {
		return h.generator.Next(ctx, uow.SequenceRepository())
	}

	_, err := orderRepo.GetByOrderID(ctx, requested)
	switch {
	case err == nil:
		return "", errs.NewObjectAlreadyExistsError("orderId", requested)
	case errors.Is(err, errs.ErrObjectNotFound):
		return requested, nil
	default:
		return "", err
	}
}

func (h *CreateOrderCommandHandler) checkProducts(ctx context.Context, positions []PositionInput) error {
	for i, p := range positions {
		if p.Kind != order.QuantityKind {
			continue
		}
		product, err := h.products.FindBySKU(ctx, p.SKU)
		if err != nil {
			return err
		}
		if !p.Quantity.Unit().IsCompatible(product.BaseUnit) {
			return errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("positions[%d].quantity", i),
				fmt.Errorf("%s is not convertible into %s, the base unit of %s", p.Quantity.Unit(), product.BaseUnit, p.SKU),
			)
		}
	}
	return nil
}

func addPosition(o *order.Order, p PositionInput) error {
	if p.Kind == order.TransportUnitKind {
		return o.AddTransportUnitPosition(p.Number, p.TransportUnitBK, p.TransportUnitType, p.Details)
	}
	return o.AddQuantityPosition(p.Number, p.SKU, p.Quantity, p.Details)
}
