package capturing_test

import (
	"context"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
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

type MockProductLookup struct{ mock.Mock }

func (m *MockProductLookup) FindBySKU(ctx context.Context, sku string) (ports.Product, error) {
	args := m.Called(ctx, sku)
	return args.Get(0).(ports.Product), args.Error(1)
}

func (m *MockProductLookup) FindByUomRelation(ctx context.Context, id string) (ports.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Product), args.Error(1)
}

type MockPackagingUnitAPI struct{ mock.Mock }

func (m *MockPackagingUnitAPI) Create(ctx context.Context, pu ports.PackagingUnit) error {
	return m.Called(ctx, pu).Error(0)
}

func (m *MockPackagingUnitAPI) CreateBatch(ctx context.Context, pus []ports.PackagingUnit) error {
	return m.Called(ctx, pus).Error(0)
}

type MockTransportUnitAPI struct{ mock.Mock }

func (m *MockTransportUnitAPI) Create(ctx context.Context, tu ports.TransportUnit) error {
	return m.Called(ctx, tu).Error(0)
}

func (m *MockTransportUnitAPI) Move(ctx context.Context, bk, location string) error {
	return m.Called(ctx, bk, location).Error(0)
}

type MockLocationAPI struct{ mock.Mock }

func (m *MockLocationAPI) FindByErpCode(ctx context.Context, code string) (ports.Location, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(ports.Location), args.Error(1)
}
