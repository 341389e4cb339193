package capturing

import (
	"context"

	"receiving/internal/core/domain/model/capture"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/core/domain/services/approval"
	"receiving/internal/core/ports"
)

// TransportUnitReceiptCapturer books whole transport units. Expected units
// complete their position and are moved to the actual location; blind ones are
// created there.
type TransportUnitReceiptCapturer struct {
	approvals      *approval.Chain
	transportUnits ports.TransportUnitAPI
}

func NewTransportUnitReceiptCapturer(approvals *approval.Chain, transportUnits ports.TransportUnitAPI) *TransportUnitReceiptCapturer {
	return &TransportUnitReceiptCapturer{approvals: approvals, transportUnits: transportUnits}
}

func (c *TransportUnitReceiptCapturer) Kind() capture.Kind {
	return capture.KindTransportUnitReceipt
}

func (c *TransportUnitReceiptCapturer) Capture(
	ctx context.Context,
	orders ports.OrderRepository,
	orderKey *kernel.PKey,
	request capture.Request,
) (*order.Order, error) {
	r, ok := request.(capture.TransportUnitReceipt)
	if !ok {
		return nil, ErrUnsupportedRequest
	}

	if orderKey == nil {
		return nil, c.transportUnits.Create(ctx, ports.TransportUnit{
			BK:              r.TransportUnitBK,
			Type:            r.TransportUnitType,
			LocationErpCode: r.ActualLocationErpCode,
		})
	}

	o, err := orders.Get(ctx, *orderKey)
	if err != nil {
		return nil, err
	}
	if err = c.approvals.Approve(ctx, o, r); err != nil {
		return nil, err
	}
	number, err := matchTransportUnitPosition(o, r.TransportUnitBK)
	if err != nil {
		return nil, err
	}
	if err = c.transportUnits.Move(ctx, r.TransportUnitBK, r.ActualLocationErpCode); err != nil {
		return nil, err
	}
	if err = o.ReceiveTransportUnit(number); err != nil {
		return nil, err
	}
	if err = orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
