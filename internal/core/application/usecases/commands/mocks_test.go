package commands_test

import (
	"context"

	"receiving/internal/core/application/usecases/commands"
	"receiving/internal/core/domain/model/capture"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/core/domain/model/sequence"
	"receiving/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, pKey kernel.PKey) (*order.Order, error) {
	args := m.Called(ctx, pKey)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetAll(ctx context.Context, f ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, f)
	o, _ := args.Get(0).([]*order.Order)
	return o, args.Error(1)
}

type MockSequenceRepository struct{ mock.Mock }

func (m *MockSequenceRepository) GetForUpdate(ctx context.Context, tenant, prefix string) (*sequence.Counter, error) {
	args := m.Called(ctx, tenant, prefix)
	c, _ := args.Get(0).(*sequence.Counter)
	return c, args.Error(1)
}

func (m *MockSequenceRepository) Save(ctx context.Context, c *sequence.Counter) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) SequenceRepository() ports.SequenceRepository {
	args := m.Called()
	return args.Get(0).(ports.SequenceRepository)
}

func (m *MockUoW) CommandQueue() ports.CommandQueue {
	args := m.Called()
	return args.Get(0).(ports.CommandQueue)
}

type MockCommandQueue struct{ mock.Mock }

func (m *MockCommandQueue) Enqueue(ctx context.Context, kind string, payload any) error {
	args := m.Called(ctx, kind, payload)
	return args.Error(0)
}

// scopedTo matches a context that carries q as its command queue.
func scopedTo(q ports.CommandQueue) any {
	return mock.MatchedBy(func(ctx context.Context) bool {
		scoped, ok := ports.CommandQueueFromContext(ctx)
		return ok && scoped == q
	})
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockProductLookup struct{ mock.Mock }

func (m *MockProductLookup) FindBySKU(ctx context.Context, sku string) (ports.Product, error) {
	args := m.Called(ctx, sku)
	return args.Get(0).(ports.Product), args.Error(1)
}

func (m *MockProductLookup) FindByUomRelation(ctx context.Context, id string) (ports.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Product), args.Error(1)
}

type MockCaptureEngine struct{ mock.Mock }

func (m *MockCaptureEngine) Capture(
	ctx context.Context,
	orders ports.OrderRepository,
	key *kernel.PKey,
	r capture.Request,
) (*order.Order, error) {
	args := m.Called(ctx, orders, key, r)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}
