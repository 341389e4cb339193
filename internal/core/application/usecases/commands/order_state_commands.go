package commands

import (
	"context"
	"errors"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/pkg/guard"
)

var (
	ErrCancelOrderCommandIsNotConstructed = errors.New(
		"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
	)
	ErrCompleteOrderCommandIsNotConstructed = errors.New(
		"CompleteOrderCommand must be created via NewCompleteOrderCommand constructor",
	)
	ErrChangeOrderStateCommandIsNotConstructed = errors.New(
		"ChangeOrderStateCommand must be created via NewChangeOrderStateCommand constructor",
	)
)

// CancelOrderCommand cancels an order and, with it, all of its positions.
type CancelOrderCommand struct {
	orderKey kernel.PKey
	guard    guard.ConstructorGuard
}

func NewCancelOrderCommand(orderKey kernel.PKey) (CancelOrderCommand, error) {
	if err := orderKey.Validate(); err != nil {
		return CancelOrderCommand{}, err
	}
	return CancelOrderCommand{orderKey: orderKey, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderKey() kernel.PKey {
	return c.orderKey
}

// CompleteOrderCommand force-completes an order.
type CompleteOrderCommand struct {
	orderKey kernel.PKey
	guard    guard.ConstructorGuard
}

func NewCompleteOrderCommand(orderKey kernel.PKey) (CompleteOrderCommand, error) {
	if err := orderKey.Validate(); err != nil {
		return CompleteOrderCommand{}, err
	}
	return CompleteOrderCommand{orderKey: orderKey, guard: guard.NewConstructorGuard()}, nil
}

func (c CompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompleteOrderCommandIsNotConstructed)
}

func (c CompleteOrderCommand) OrderKey() kernel.PKey {
	return c.orderKey
}

// ChangeOrderStateCommand moves an order to a target state. The order decides
// which targets it accepts.
type ChangeOrderStateCommand struct {
	orderKey kernel.PKey
	target   order.State
	guard    guard.ConstructorGuard
}

func NewChangeOrderStateCommand(orderKey kernel.PKey, target order.State) (ChangeOrderStateCommand, error) {
	if err := errors.Join(orderKey.Validate(), target.Validate()); err != nil {
		return ChangeOrderStateCommand{}, err
	}
	return ChangeOrderStateCommand{orderKey: orderKey, target: target, guard: guard.NewConstructorGuard()}, nil
}

func (c ChangeOrderStateCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStateCommandIsNotConstructed)
}

func (c ChangeOrderStateCommand) OrderKey() kernel.PKey {
	return c.orderKey
}

func (c ChangeOrderStateCommand) Target() order.State {
	return c.target
}

// CancelOrderCommandHandler handles CancelOrderCommand.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, cmd.OrderKey(), (*order.Order).Cancel)
}

// CompleteOrderCommandHandler handles CompleteOrderCommand.
type CompleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCompleteOrderCommandHandler(uowFactory OrderUoWFactory) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{uowFactory: uowFactory}
}

func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, cmd.OrderKey(), (*order.Order).Complete)
}

// ChangeOrderStateCommandHandler handles ChangeOrderStateCommand.
type ChangeOrderStateCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewChangeOrderStateCommandHandler(uowFactory OrderUoWFactory) ChangeOrderStateCommandHandler {
	return ChangeOrderStateCommandHandler{uowFactory: uowFactory}
}

func (h *ChangeOrderStateCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStateCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, cmd.OrderKey(), func(o *order.Order) error {
		return o.ChangeState(cmd.Target())
	})
}
