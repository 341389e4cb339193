package capturing

import (
	"context"

	"receiving/internal/core/domain/model/capture"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/core/domain/services/approval"
	"receiving/internal/core/ports"
)

// QuantityOnTransportUnitCapturer books quantities packed on a transport unit.
type QuantityOnTransportUnitCapturer struct {
	approvals      *approval.Chain
	products       ports.ProductLookup
	packagingUnits ports.PackagingUnitAPI
}

func NewQuantityOnTransportUnitCapturer(
	approvals *approval.Chain,
	products ports.ProductLookup,
	packagingUnits ports.PackagingUnitAPI,
) *QuantityOnTransportUnitCapturer {
	return &QuantityOnTransportUnitCapturer{
		approvals:      approvals,
		products:       products,
		packagingUnits: packagingUnits,
	}
}

func (c *QuantityOnTransportUnitCapturer) Kind() capture.Kind {
	return capture.KindQuantityOnTransportUnit
}

func (c *QuantityOnTransportUnitCapturer) Capture(
	ctx context.Context,
	orders ports.OrderRepository,
	orderKey *kernel.PKey,
	request capture.Request,
) (*order.Order, error) {
	r, ok := request.(capture.QuantityOnTransportUnit)
	if !ok {
		return nil, ErrUnsupportedRequest
	}

	product, err := c.products.FindBySKU(ctx, r.SKU)
	if err != nil {
		return nil, err
	}

	units, err := packagingUnits(ports.PackagingUnit{
		SKU:             product.SKU,
		Quantity:        r.Quantity,
		TransportUnitBK: r.TransportUnitBK,
		Details:         r.Details,
	}, r.SerialNumbers)
	if err != nil {
		return nil, err
	}

	if orderKey == nil {
		return nil, createPackagingUnits(ctx, c.packagingUnits, units)
	}

	o, err := orders.Get(ctx, *orderKey)
	if err != nil {
		return nil, err
	}
	if err = c.approvals.Approve(ctx, o, r); err != nil {
		return nil, err
	}
	number, err := matchQuantityPosition(o, product, r.Quantity)
	if err != nil {
		return nil, err
	}
	if err = createPackagingUnits(ctx, c.packagingUnits, units); err != nil {
		return nil, err
	}
	if err = o.ReceiveQuantity(number, r.Quantity); err != nil {
		return nil, err
	}
	if err = orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
