package capturing_test

import (
	"errors"
	"testing"

	"receiving/internal/core/domain/model/capture"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/core/domain/services/approval"
	"receiving/internal/core/domain/services/capturing"
	"receiving/internal/core/ports"
	"receiving/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var sku1 = ports.Product{SKU: "SKU-1", BaseUnit: kernel.Piece}

func pcs(amount string) kernel.Quantity {
	return kernel.MustParseQuantity(amount, "PCS")
}

func ptr(q kernel.Quantity) *kernel.Quantity {
	return &q
}

// firstFitOrder has P1 (expected 2, one received, PROCESSING) and P2 (expected 5, CREATED).
func firstFitOrder() *order.Order {
	return order.RestoreOrder(kernel.NewPKey(), "RO-1", order.Processing, nil, false, order.Schedule{}, nil,
		[]*order.Position{
			order.RestoreQuantityPosition(1, order.PositionProcessing, nil, "SKU-1", pcs("2"), ptr(pcs("1"))),
			order.RestoreQuantityPosition(2, order.PositionCreated, nil, "SKU-1", pcs("5"), nil),
		})
}

// completedOrder has a single position whose expected 5 are fully received.
func completedOrder() *order.Order {
	return order.RestoreOrder(kernel.NewPKey(), "RO-2", order.Completed, nil, false, order.Schedule{}, nil,
		[]*order.Position{
			order.RestoreQuantityPosition(1, order.PositionCompleted, nil, "SKU-1", pcs("5"), ptr(pcs("5"))),
		})
}

func receivedOf(t *testing.T, o *order.Order, number int) string {
	t.Helper()
	p, ok := o.Position(number)
	require.True(t, ok)
	line, ok := p.AsQuantity()
	require.True(t, ok)
	q, ok := line.Received()
	if !ok {
		return ""
	}
	return q.String()
}

func onTransportUnit(amount string) capture.QuantityOnTransportUnit {
	return capture.QuantityOnTransportUnit{SKU: "SKU-1", Quantity: pcs(amount), TransportUnitBK: "TU-1"}
}

type fixture struct {
	orders    *MockOrderRepository
	products  *MockProductLookup
	packaging *MockPackagingUnitAPI
	transport *MockTransportUnitAPI
	locations *MockLocationAPI
	registry  *capturing.Registry
}

func newFixture(t *testing.T, approvers ...approval.Approver) fixture {
	t.Helper()
	f := fixture{
		orders:    new(MockOrderRepository),
		products:  new(MockProductLookup),
		packaging: new(MockPackagingUnitAPI),
		transport: new(MockTransportUnitAPI),
		locations: new(MockLocationAPI),
	}
	chain := approval.NewChain(approvers...)
	registry, err := capturing.NewRegistry(
		capturing.NewQuantityOnTransportUnitCapturer(chain, f.products, f.packaging),
		capturing.NewQuantityOnLocationCapturer(chain, f.products, f.locations, f.packaging),
		capturing.NewTransportUnitReceiptCapturer(chain, f.transport),
	)
	require.NoError(t, err)
	f.registry = registry
	return f
}

func (f fixture) assertExpectations(t *testing.T) {
	f.orders.AssertExpectations(t)
	f.products.AssertExpectations(t)
	f.packaging.AssertExpectations(t)
	f.transport.AssertExpectations(t)
	f.locations.AssertExpectations(t)
}

func TestRegistry(t *testing.T) {
	t.Run("should reject duplicate kinds", func(t *testing.T) {
		c := capturing.NewTransportUnitReceiptCapturer(nil, nil)

		_, err := capturing.NewRegistry(c, c)

		require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
	})

	t.Run("should report unsupported kinds", func(t *testing.T) {
		registry, err := capturing.NewRegistry()
		require.NoError(t, err)

		_, err = registry.Capture(t.Context(), nil, nil, onTransportUnit("1"))

		require.ErrorIs(t, err, capturing.ErrUnsupportedRequest)
		require.ErrorIs(t, err, errs.ErrCapturingConflict)
		assert.False(t, registry.Supports(capture.KindQuantityOnTransportUnit))
	})

	t.Run("should validate requests before dispatch", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.registry.Capture(t.Context(), f.orders, nil, capture.QuantityOnTransportUnit{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		f.assertExpectations(t)
	})
}

func TestQuantityOnTransportUnit_FirstFit(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := firstFitOrder()
	key := o.PKey()
	mock.InOrder(
		f.products.On("FindBySKU", ctx, "SKU-1").Return(sku1, nil).Once(),
		f.orders.On("Get", ctx, key).Return(o, nil).Once(),
		f.packaging.On("Create", ctx, ports.PackagingUnit{SKU: "SKU-1", Quantity: pcs("1"), TransportUnitBK: "TU-1"}).
			Return(nil).Once(),
		f.orders.On("Update", ctx, o).Return(nil).Once(),
	)

	result, err := f.registry.Capture(ctx, f.orders, &key, onTransportUnit("1"))

	require.NoError(t, err)
	assert.Same(t, o, result)
	assert.Equal(t, "2 PCS", receivedOf(t, o, 1))
	assert.Empty(t, receivedOf(t, o, 2))
	p1, _ := o.Position(1)
	assert.Equal(t, order.PositionCompleted, p1.State())
	assert.Equal(t, order.Processing, o.State())
	f.assertExpectations(t)
}

func TestQuantityOnTransportUnit_SkipsPositionsThatCannotHoldTheAmount(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := firstFitOrder()
	key := o.PKey()
	f.products.On("FindBySKU", ctx, "SKU-1").Return(sku1, nil).Once()
	f.orders.On("Get", ctx, key).Return(o, nil).Once()
	f.packaging.On("Create", ctx, mock.Anything).Return(nil).Once()
	f.orders.On("Update", ctx, o).Return(nil).Once()

	_, err := f.registry.Capture(ctx, f.orders, &key, onTransportUnit("3"))

	require.NoError(t, err)
	assert.Equal(t, "1 PCS", receivedOf(t, o, 1))
	assert.Equal(t, "3 PCS", receivedOf(t, o, 2))
}

func TestQuantityOnTransportUnit_OverbookingGate(t *testing.T) {
	ctx := t.Context()

	t.Run("should refuse when the product does not allow overbooking", func(t *testing.T) {
		f := newFixture(t)
		o := firstFitOrder()
		key := o.PKey()
		f.products.On("FindBySKU", ctx, "SKU-1").Return(sku1, nil).Once()
		f.orders.On("Get", ctx, key).Return(o, nil).Once()

		_, err := f.registry.Capture(ctx, f.orders, &key, onTransportUnit("6"))

		require.ErrorIs(t, err, capturing.ErrOverbookingNotAllowed)
		assert.Equal(t, "1 PCS", receivedOf(t, o, 1))
		f.packaging.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("should book on the first candidate when overbooking is allowed", func(t *testing.T) {
		f := newFixture(t)
		o := firstFitOrder()
		key := o.PKey()
		overbookable := sku1
		overbookable.OverbookingAllowed = true
		f.products.On("FindBySKU", ctx, "SKU-1").Return(overbookable, nil).Once()
		f.orders.On("Get", ctx, key).Return(o, nil).Once()
		f.packaging.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.orders.On("Update", ctx, o).Return(nil).Once()

		_, err := f.registry.Capture(ctx, f.orders, &key, onTransportUnit("6"))

		require.NoError(t, err)
		assert.Equal(t, "7 PCS", receivedOf(t, o, 1))
		f.assertExpectations(t)
	})

	t.Run("should refuse any more on a fully received position", func(t *testing.T) {
		f := newFixture(t)
		o := completedOrder()
		key := o.PKey()
		f.products.On("FindBySKU", ctx, "SKU-1").Return(sku1, nil).Once()
		f.orders.On("Get", ctx, key).Return(o, nil).Once()

		_, err := f.registry.Capture(ctx, f.orders, &key, onTransportUnit("1"))

		require.ErrorIs(t, err, capturing.ErrOverbookingNotAllowed)
		require.ErrorIs(t, err, errs.ErrCapturingConflict)
		assert.Equal(t, "5 PCS", receivedOf(t, o, 1))
		f.packaging.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("should overbook a fully received position when allowed", func(t *testing.T) {
		f := newFixture(t)
		o := completedOrder()
		key := o.PKey()
		overbookable := sku1
		overbookable.OverbookingAllowed = true
		f.products.On("FindBySKU", ctx, "SKU-1").Return(overbookable, nil).Once()
		f.orders.On("Get", ctx, key).Return(o, nil).Once()
		f.packaging.On("Create", ctx, ports.PackagingUnit{SKU: "SKU-1", Quantity: pcs("1"), TransportUnitBK: "TU-1"}).
			Return(nil).Once()
		f.orders.On("Update", ctx, o).Return(nil).Once()

		_, err := f.registry.Capture(ctx, f.orders, &key, onTransportUnit("1"))

		require.NoError(t, err)
		assert.Equal(t, "6 PCS", receivedOf(t, o, 1))
		p, _ := o.Position(1)
		assert.Equal(t, order.PositionCompleted, p.State())
		assert.Equal(t, order.Completed, o.State())
		f.assertExpectations(t)
	})

	t.Run("should report a missing position for unknown products on the order", func(t *testing.T) {
		f := newFixture(t)
		o := firstFitOrder()
		key := o.PKey()
		f.products.On("FindBySKU", ctx, "SKU-2").Return(ports.Product{SKU: "SKU-2", BaseUnit: kernel.Piece}, nil).Once()
		f.orders.On("Get", ctx, key).Return(o, nil).Once()
		req := onTransportUnit("1")
		req.SKU = "SKU-2"

		_, err := f.registry.Capture(ctx, f.orders, &key, req)

		require.ErrorIs(t, err, capturing.ErrNoOpenPosition)
		require.ErrorIs(t, err, errs.ErrCapturingConflict)
	})
}

func TestQuantityOnTransportUnit_SerialNumbersMaterializeAsBatch(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	req := onTransportUnit("2")
	req.SerialNumbers = []string{"SN-1", "SN-2"}
	f.products.On("FindBySKU", ctx, "SKU-1").Return(sku1, nil).Once()
	f.packaging.On("CreateBatch", ctx, []ports.PackagingUnit{
		{SKU: "SKU-1", Quantity: pcs("1"), TransportUnitBK: "TU-1", SerialNumber: "SN-1"},
		{SKU: "SKU-1", Quantity: pcs("1"), TransportUnitBK: "TU-1", SerialNumber: "SN-2"},
	}).Return(nil).Once()

	result, err := f.registry.Capture(ctx, f.orders, nil, req)

	require.NoError(t, err)
	assert.Nil(t, result)
	f.assertExpectations(t)
}

func TestBlindReceiptIsolation(t *testing.T) {
	ctx := t.Context()

	t.Run("quantity on transport unit", func(t *testing.T) {
		f := newFixture(t)
		f.products.On("FindBySKU", ctx, "SKU-1").Return(sku1, nil).Once()
		f.packaging.On("Create", ctx, mock.Anything).Return(nil).Once()

		result, err := f.registry.Capture(ctx, f.orders, nil, onTransportUnit("1"))

		require.NoError(t, err)
		assert.Nil(t, result)
		f.orders.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("transport unit receipt creates the unit", func(t *testing.T) {
		f := newFixture(t)
		f.transport.On("Create", ctx, ports.TransportUnit{BK: "TU-9", Type: "EURO", LocationErpCode: "DOCK-1"}).
			Return(nil).Once()

		result, err := f.registry.Capture(ctx, f.orders, nil, capture.TransportUnitReceipt{
			TransportUnitBK: "TU-9", TransportUnitType: "EURO", ActualLocationErpCode: "DOCK-1",
		})

		require.NoError(t, err)
		assert.Nil(t, result)
		f.orders.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}

func TestMaterializationFailureAbortsCapture(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := firstFitOrder()
	key := o.PKey()
	remote := errors.New("inventory service rejected the unit")
	f.products.On("FindBySKU", ctx, "SKU-1").Return(sku1, nil).Once()
	f.orders.On("Get", ctx, key).Return(o, nil).Once()
	f.packaging.On("Create", ctx, mock.Anything).Return(remote).Once()

	_, err := f.registry.Capture(ctx, f.orders, &key, onTransportUnit("1"))

	require.ErrorIs(t, err, remote)
	assert.Equal(t, "1 PCS", receivedOf(t, o, 1))
	assert.Empty(t, o.PendingEvents())
	f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestApprovalShortCircuit(t *testing.T) {
	ctx := t.Context()
	blockList, err := approval.NewBlockList(capture.KindQuantityOnTransportUnit, "SKU_BLOCKED", map[string]string{"SKU-1": "recall"})
	require.NoError(t, err)
	f := newFixture(t, blockList)
	o := firstFitOrder()
	key := o.PKey()
	f.products.On("FindBySKU", ctx, "SKU-1").Return(sku1, nil).Once()
	f.orders.On("Get", ctx, key).Return(o, nil).Once()

	_, err = f.registry.Capture(ctx, f.orders, &key, onTransportUnit("1"))

	require.ErrorIs(t, err, errs.ErrNotApproved)
	assert.Equal(t, "1 PCS", receivedOf(t, o, 1))
	f.packaging.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestQuantityOnLocation(t *testing.T) {
	ctx := t.Context()

	t.Run("should resolve product through unit relation and place unit on location", func(t *testing.T) {
		f := newFixture(t)
		o := firstFitOrder()
		key := o.PKey()
		mock.InOrder(
			f.products.On("FindByUomRelation", ctx, "REL-1").Return(sku1, nil).Once(),
			f.orders.On("Get", ctx, key).Return(o, nil).Once(),
			f.locations.On("FindByErpCode", ctx, "LOC-1").Return(ports.Location{ErpCode: "LOC-1", Verified: true}, nil).Once(),
			f.packaging.On("Create", ctx, ports.PackagingUnit{SKU: "SKU-1", Quantity: pcs("1"), LocationErpCode: "LOC-1"}).
				Return(nil).Once(),
			f.orders.On("Update", ctx, o).Return(nil).Once(),
		)

		_, err := f.registry.Capture(ctx, f.orders, &key, capture.QuantityOnLocation{
			UomRelationID: "REL-1", Quantity: pcs("1"), LocationErpCode: "LOC-1",
		})

		require.NoError(t, err)
		assert.Equal(t, "2 PCS", receivedOf(t, o, 1))
		f.assertExpectations(t)
	})

	t.Run("unknown location should abort", func(t *testing.T) {
		f := newFixture(t)
		o := firstFitOrder()
		key := o.PKey()
		f.products.On("FindBySKU", ctx, "SKU-1").Return(sku1, nil).Once()
		f.orders.On("Get", ctx, key).Return(o, nil).Once()
		f.locations.On("FindByErpCode", ctx, "NOPE").
			Return(ports.Location{}, errs.NewObjectNotFoundError("location", "NOPE")).Once()

		_, err := f.registry.Capture(ctx, f.orders, &key, capture.QuantityOnLocation{
			SKU: "SKU-1", Quantity: pcs("1"), LocationErpCode: "NOPE",
		})

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestTransportUnitReceipt(t *testing.T) {
	ctx := t.Context()
	newTUOrder := func() *order.Order {
		return order.RestoreOrder(kernel.NewPKey(), "RO-2", order.Created, nil, false, order.Schedule{}, nil,
			[]*order.Position{
				order.RestoreTransportUnitPosition(1, order.PositionCompleted, nil, "TU-1", "EURO"),
				order.RestoreTransportUnitPosition(2, order.PositionCreated, nil, "TU-2", "EURO"),
			})
	}

	t.Run("should complete the matching position and move the unit", func(t *testing.T) {
		f := newFixture(t)
		o := newTUOrder()
		key := o.PKey()
		mock.InOrder(
			f.orders.On("Get", ctx, key).Return(o, nil).Once(),
			f.transport.On("Move", ctx, "TU-2", "DOCK-1").Return(nil).Once(),
			f.orders.On("Update", ctx, o).Return(nil).Once(),
		)

		_, err := f.registry.Capture(ctx, f.orders, &key, capture.TransportUnitReceipt{
			TransportUnitBK: "TU-2", ActualLocationErpCode: "DOCK-1",
		})

		require.NoError(t, err)
		p, _ := o.Position(2)
		assert.Equal(t, order.PositionCompleted, p.State())
		assert.Equal(t, order.Completed, o.State())
		f.assertExpectations(t)
	})

	t.Run("should not match completed positions", func(t *testing.T) {
		f := newFixture(t)
		o := newTUOrder()
		key := o.PKey()
		f.orders.On("Get", ctx, key).Return(o, nil).Once()

		_, err := f.registry.Capture(ctx, f.orders, &key, capture.TransportUnitReceipt{
			TransportUnitBK: "TU-1", ActualLocationErpCode: "DOCK-1",
		})

		require.ErrorIs(t, err, capturing.ErrNoOpenTransportUnitPosition)
		f.transport.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything)
	})
}
