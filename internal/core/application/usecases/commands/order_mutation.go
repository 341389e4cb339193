package commands

import (
	"context"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
)

// mutateOrder loads the order inside a fresh transaction, applies change and
// persists the result.
func mutateOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	key kernel.PKey,
	change func(o *order.Order) error,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if err = change(o); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
