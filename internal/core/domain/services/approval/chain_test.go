package approval_test

import (
	"context"
	"testing"

	"receiving/internal/core/domain/model/capture"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/core/domain/services/approval"
	"receiving/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockApprover struct {
	mock.Mock
	kind capture.Kind
}

func (m *MockApprover) Kind() capture.Kind { return m.kind }

func (m *MockApprover) Approve(ctx context.Context, pKey kernel.PKey, p order.Position, r capture.Request) error {
	args := m.Called(ctx, pKey, p.Number(), r)
	return args.Error(0)
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o := order.RestoreOrder(kernel.NewPKey(), "RO-1", order.Processing, nil, false, order.Schedule{}, nil,
		[]*order.Position{
			order.RestoreQuantityPosition(1, order.PositionProcessing, nil, "SKU-1", kernel.MustParseQuantity("2", "PCS"), nil),
			order.RestoreQuantityPosition(2, order.PositionCanceled, nil, "SKU-1", kernel.MustParseQuantity("2", "PCS"), nil),
			order.RestoreQuantityPosition(3, order.PositionCreated, nil, "SKU-2", kernel.MustParseQuantity("2", "PCS"), nil),
		})
	return o
}

func quantityRequest(sku string) capture.QuantityOnTransportUnit {
	return capture.QuantityOnTransportUnit{
		SKU:             sku,
		Quantity:        kernel.MustParseQuantity("1", "PCS"),
		TransportUnitBK: "TU-1",
	}
}

func TestChain_Approve(t *testing.T) {
	ctx := t.Context()

	t.Run("empty chain should approve unconditionally", func(t *testing.T) {
		require.NoError(t, approval.NewChain().Approve(ctx, newOrder(t), quantityRequest("SKU-1")))
	})

	t.Run("should call approvers for every non-canceled position in order", func(t *testing.T) {
		o := newOrder(t)
		req := quantityRequest("SKU-1")
		a := &MockApprover{kind: capture.KindQuantityOnTransportUnit}
		mock.InOrder(
			a.On("Approve", ctx, o.PKey(), 1, req).Return(nil).Once(),
			a.On("Approve", ctx, o.PKey(), 3, req).Return(nil).Once(),
		)

		require.NoError(t, approval.NewChain(a).Approve(ctx, o, req))
		a.AssertExpectations(t)
	})

	t.Run("should skip approvers bound to another kind", func(t *testing.T) {
		a := &MockApprover{kind: capture.KindTransportUnitReceipt}

		require.NoError(t, approval.NewChain(a).Approve(ctx, newOrder(t), quantityRequest("SKU-1")))
		a.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("first rejection should short-circuit", func(t *testing.T) {
		o := newOrder(t)
		req := quantityRequest("SKU-1")
		rejecting := &MockApprover{kind: capture.KindQuantityOnTransportUnit}
		rejecting.On("Approve", ctx, o.PKey(), 1, req).Return(errs.NewNotApprovedError("NOPE", nil)).Once()
		second := &MockApprover{kind: capture.KindQuantityOnTransportUnit}

		err := approval.NewChain(rejecting, second).Approve(ctx, o, req)

		require.ErrorIs(t, err, errs.ErrNotApproved)
		rejecting.AssertExpectations(t)
		second.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBlockList(t *testing.T) {
	ctx := t.Context()

	t.Run("should reject blocked sku with payload", func(t *testing.T) {
		o := newOrder(t)
		b, err := approval.NewBlockList(capture.KindQuantityOnTransportUnit, "SKU_BLOCKED", map[string]string{"SKU-1": "recall"})
		require.NoError(t, err)

		err = approval.NewChain(b).Approve(ctx, o, quantityRequest("SKU-1"))

		var notApproved *errs.NotApprovedError
		require.ErrorAs(t, err, &notApproved)
		assert.Equal(t, "SKU_BLOCKED", notApproved.Code)
		payload, ok := notApproved.Payload.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "recall", payload["reason"])
		assert.Equal(t, 1, payload["position"])
	})

	t.Run("should pass other skus", func(t *testing.T) {
		b, err := approval.NewBlockList(capture.KindQuantityOnTransportUnit, "SKU_BLOCKED", map[string]string{"SKU-9": "recall"})
		require.NoError(t, err)

		require.NoError(t, approval.NewChain(b).Approve(ctx, newOrder(t), quantityRequest("SKU-1")))
	})

	t.Run("should block transport unit types", func(t *testing.T) {
		b, err := approval.NewBlockList(capture.KindTransportUnitReceipt, "TU_TYPE_BLOCKED", map[string]string{"ONEWAY": "not accepted"})
		require.NoError(t, err)
		req := capture.TransportUnitReceipt{TransportUnitBK: "TU-1", TransportUnitType: "ONEWAY", ActualLocationErpCode: "L"}

		require.ErrorIs(t, approval.NewChain(b).Approve(ctx, newOrder(t), req), errs.ErrNotApproved)
	})

	t.Run("should validate construction", func(t *testing.T) {
		_, err := approval.NewBlockList("OTHER", "CODE", nil)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = approval.NewBlockList(capture.KindQuantityOnLocation, "", nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
