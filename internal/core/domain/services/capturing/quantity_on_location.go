package capturing

import (
	"context"

	"receiving/internal/core/domain/model/capture"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/core/domain/services/approval"
	"receiving/internal/core/ports"
)

// QuantityOnLocationCapturer books quantities put down directly on a location.
type QuantityOnLocationCapturer struct {
	approvals      *approval.Chain
	products       ports.ProductLookup
	locations      ports.LocationAPI
	packagingUnits ports.PackagingUnitAPI
}

func NewQuantityOnLocationCapturer(
	approvals *approval.Chain,
	products ports.ProductLookup,
	locations ports.LocationAPI,
	packagingUnits ports.PackagingUnitAPI,
) *QuantityOnLocationCapturer {
	return &QuantityOnLocationCapturer{
		approvals:      approvals,
		products:       products,
		locations:      locations,
		packagingUnits: packagingUnits,
	}
}

func (c *QuantityOnLocationCapturer) Kind() capture.Kind {
	return capture.KindQuantityOnLocation
}

func (c *QuantityOnLocationCapturer) Capture(
	ctx context.Context,
	orders ports.OrderRepository,
	orderKey *kernel.PKey,
	request capture.Request,
) (*order.Order, error) {
	r, ok := request.(capture.QuantityOnLocation)
	if !ok {
		return nil, ErrUnsupportedRequest
	}

	product, err := c.resolveProduct(ctx, r)
	if err != nil {
		return nil, err
	}
	r.SKU = product.SKU

	if orderKey == nil {
		return nil, c.materialize(ctx, r)
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
	if err = c.materialize(ctx, r); err != nil {
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

func (c *QuantityOnLocationCapturer) resolveProduct(ctx context.Context, r capture.QuantityOnLocation) (ports.Product, error) {
	if r.SKU != "" {
		return c.products.FindBySKU(ctx, r.SKU)
	}
	return c.products.FindByUomRelation(ctx, r.UomRelationID)
}

func (c *QuantityOnLocationCapturer) materialize(ctx context.Context, r capture.QuantityOnLocation) error {
	location, err := c.locations.FindByErpCode(ctx, r.LocationErpCode)
	if err != nil {
		return err
	}
	units, err := packagingUnits(ports.PackagingUnit{
		SKU:             r.SKU,
		Quantity:        r.Quantity,
		LocationErpCode: location.ErpCode,
		Details:         r.Details,
	}, r.SerialNumbers)
	if err != nil {
		return err
	}
	return createPackagingUnits(ctx, c.packagingUnits, units)
}
