package capturing

import (
	"context"
	"fmt"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/core/ports"
)

// matchQuantityPosition picks the position that receives q of product.
//
// Candidates are quantity positions of the product that still allow capturing,
// in position order. The first candidate whose remaining quantity covers q wins.
// If none does, the first candidate is taken when the product allows
// overbooking.
func matchQuantityPosition(o *order.Order, product ports.Product, q kernel.Quantity) (int, error) {
	var candidates []order.Position
	for _, p := range o.Positions() {
		line, ok := p.AsQuantity()
		if !ok || !p.State().AllowsCapturing() || line.SKU() != product.SKU {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return 0, fmt.Errorf("%w for %s on order %s", ErrNoOpenPosition, product.SKU, o.OrderID())
	}

	for _, p := range candidates {
		line, _ := p.AsQuantity()
		cmp, err := line.Remaining().Compare(q)
		if err != nil {
			return 0, err
		}
		if cmp >= 0 {
			return p.Number(), nil
		}
	}

	if product.OverbookingAllowed {
		return candidates[0].Number(), nil
	}
	return 0, fmt.Errorf("%w: %s of %s exceeds every open position of order %s",
		ErrOverbookingNotAllowed, q, product.SKU, o.OrderID())
}

func matchTransportUnitPosition(o *order.Order, transportUnitBK string) (int, error) {
	for _, p := range o.Positions() {
		line, ok := p.AsTransportUnit()
		if ok && p.State().IsOpen() && line.TransportUnitBK() == transportUnitBK {
			return p.Number(), nil
		}
	}
	return 0, fmt.Errorf("%w for %s on order %s", ErrNoOpenTransportUnitPosition, transportUnitBK, o.OrderID())
}

// packagingUnits splits a receipt into the units to materialize: one unit for
// the whole quantity, or one single-piece unit per serial number.
func packagingUnits(template ports.PackagingUnit, serials []string) ([]ports.PackagingUnit, error) {
	if len(serials) == 0 {
		return []ports.PackagingUnit{template}, nil
	}
	one, err := kernel.ParseQuantity("1", template.Quantity.Unit().Code())
	if err != nil {
		return nil, err
	}
	units := make([]ports.PackagingUnit, 0, len(serials))
	for _, sn := range serials {
		pu := template
		pu.Quantity = one
		pu.SerialNumber = sn
		units = append(units, pu)
	}
	return units, nil
}

func createPackagingUnits(ctx context.Context, api ports.PackagingUnitAPI, units []ports.PackagingUnit) error {
	if len(units) == 1 {
		return api.Create(ctx, units[0])
	}
	return api.CreateBatch(ctx, units)
}
