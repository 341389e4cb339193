package commands_test

import (
	"errors"
	"testing"

	"receiving/internal/core/application/usecases/commands"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func orderWithPositions(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewPKey(), "RO-1", nil, order.Schedule{})
	require.NoError(t, err)
	require.NoError(t, o.AddQuantityPosition(0, "SKU-1", kernel.MustParseQuantity("2", "PCS"), nil))
	require.NoError(t, o.AddQuantityPosition(0, "SKU-2", kernel.MustParseQuantity("3", "PCS"), nil))
	return o
}

func expectMutation(t *testing.T, o *order.Order) (*MockOrderUoWFactory, *MockUoW, *MockOrderRepository) {
	t.Helper()
	ctx := t.Context()
	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.PKey()).Return(o, nil).Once(),
		repo.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory, uow, repo
}

func TestCancelOrderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("should cancel order with open positions", func(t *testing.T) {
		o := orderWithPositions(t)
		factory, uow, repo := expectMutation(t, o)
		cmd, err := commands.NewCancelOrderCommand(o.PKey())
		require.NoError(t, err)

		h := commands.NewCancelOrderCommandHandler(factory)
		result, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Canceled, result.State())
		for _, p := range result.Positions() {
			assert.Equal(t, order.PositionCanceled, p.State())
		}
		uow.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("should not persist a denied cancellation", func(t *testing.T) {
		o := order.RestoreOrder(kernel.NewPKey(), "RO-1", order.Completed, nil, false, order.Schedule{}, nil, nil)
		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("Get", ctx, o.PKey()).Return(o, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(uow).Once()
		cmd, _ := commands.NewCancelOrderCommand(o.PKey())

		h := commands.NewCancelOrderCommandHandler(factory)
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrTransitionDenied)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should propagate not found", func(t *testing.T) {
		key := kernel.NewPKey()
		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("Get", ctx, key).Return(nil, errs.NewObjectNotFoundError("order", key.String())).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(uow).Once()
		cmd, _ := commands.NewCancelOrderCommand(key)

		h := commands.NewCancelOrderCommandHandler(factory)
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestCompleteOrderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	o := orderWithPositions(t)
	require.NoError(t, o.ReceiveQuantity(1, kernel.MustParseQuantity("1", "PCS")))
	factory, uow, _ := expectMutation(t, o)
	cmd, _ := commands.NewCompleteOrderCommand(o.PKey())

	h := commands.NewCompleteOrderCommandHandler(factory)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.PartiallyCompleted, result.State())
	uow.AssertExpectations(t)
}

func TestChangeOrderStateCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("should complete", func(t *testing.T) {
		o := orderWithPositions(t)
		factory, uow, _ := expectMutation(t, o)
		cmd, err := commands.NewChangeOrderStateCommand(o.PKey(), order.Completed)
		require.NoError(t, err)

		h := commands.NewChangeOrderStateCommandHandler(factory)
		result, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Completed, result.State())
		uow.AssertExpectations(t)
	})

	t.Run("should reject other targets without persisting", func(t *testing.T) {
		o := orderWithPositions(t)
		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("Get", ctx, o.PKey()).Return(o, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(uow).Once()
		cmd, _ := commands.NewChangeOrderStateCommand(o.PKey(), order.Processing)

		h := commands.NewChangeOrderStateCommandHandler(factory)
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("should reject unknown states at construction", func(t *testing.T) {
		_, err := commands.NewChangeOrderStateCommand(kernel.NewPKey(), order.State(7))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrderStateCommands_BeginError(t *testing.T) {
	ctx := t.Context()
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)
	cmd, _ := commands.NewCompleteOrderCommand(kernel.NewPKey())

	h := commands.NewCompleteOrderCommandHandler(factory)
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
}

func TestOrderStateCommands_ZeroValuesAreInvalid(t *testing.T) {
	ctx := t.Context()
	cancel := commands.NewCancelOrderCommandHandler(new(MockOrderUoWFactory))
	complete := commands.NewCompleteOrderCommandHandler(new(MockOrderUoWFactory))
	change := commands.NewChangeOrderStateCommandHandler(new(MockOrderUoWFactory))

	_, err := cancel.Handle(ctx, commands.CancelOrderCommand{})
	require.ErrorIs(t, err, commands.ErrCancelOrderCommandIsNotConstructed)
	_, err = complete.Handle(ctx, commands.CompleteOrderCommand{})
	require.ErrorIs(t, err, commands.ErrCompleteOrderCommandIsNotConstructed)
	_, err = change.Handle(ctx, commands.ChangeOrderStateCommand{})
	require.ErrorIs(t, err, commands.ErrChangeOrderStateCommandIsNotConstructed)
}
