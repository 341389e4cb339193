// Package capture defines the capture requests accepted by the capturing engine.
//
// Request is a closed sum type: the three variants below are the only
// implementations and each reports a distinct Kind. The capturing registry uses
// Kind to select the capturer, and approval policies are bound to a Kind.
package capture

import (
	"errors"
	"fmt"
	"maps"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/pkg/errs"
)

// Kind discriminates capture request variants.
type Kind string

const (
	KindQuantityOnTransportUnit Kind = "QUANTITY_ON_TRANSPORT_UNIT"
	KindQuantityOnLocation      Kind = "QUANTITY_ON_LOCATION"
	KindTransportUnitReceipt    Kind = "TRANSPORT_UNIT_RECEIPT"
)

// ParseKind validates a transmitted kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindQuantityOnTransportUnit, KindQuantityOnLocation, KindTransportUnitReceipt:
		return k, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a known capture kind", s))
	}
}

// Request is one capture instruction.
type Request interface {
	Kind() Kind
	Validate() error

	sealed()
}

// QuantityOnTransportUnit books an amount of a product that arrived packed on
// a transport unit. The goods materialize as packaging units on that unit.
type QuantityOnTransportUnit struct {
	SKU             string
	Quantity        kernel.Quantity
	TransportUnitBK string
	SerialNumbers   []string
	Details         map[string]string
}

func (QuantityOnTransportUnit) Kind() Kind { return KindQuantityOnTransportUnit }
func (QuantityOnTransportUnit) sealed()    {}

func (r QuantityOnTransportUnit) Validate() error {
	var errSKU, errTU error
	if r.SKU == "" {
		errSKU = errs.NewValueIsRequiredError("sku")
	}
	if r.TransportUnitBK == "" {
		errTU = errs.NewValueIsRequiredError("transportUnitBK")
	}
	return errors.Join(errSKU, errTU, validateQuantity(r.Quantity, r.SerialNumbers))
}

// QuantityOnLocation books an amount of a product put down directly on a
// location. The product is named by SKU or by a unit-of-measure relation.
type QuantityOnLocation struct {
	SKU             string
	UomRelationID   string
	Quantity        kernel.Quantity
	LocationErpCode string
	SerialNumbers   []string
	Details         map[string]string
}

func (QuantityOnLocation) Kind() Kind { return KindQuantityOnLocation }
func (QuantityOnLocation) sealed()    {}

func (r QuantityOnLocation) Validate() error {
	var errProduct, errLocation error
	if r.SKU == "" && r.UomRelationID == "" {
		errProduct = errs.NewValueIsRequiredError("sku or uomRelationId")
	}
	if r.LocationErpCode == "" {
		errLocation = errs.NewValueIsRequiredError("locationErpCode")
	}
	return errors.Join(errProduct, errLocation, validateQuantity(r.Quantity, r.SerialNumbers))
}

// TransportUnitReceipt books a whole transport unit arriving at a location.
type TransportUnitReceipt struct {
	TransportUnitBK       string
	TransportUnitType     string
	ActualLocationErpCode string
	Details               map[string]string
}

func (TransportUnitReceipt) Kind() Kind { return KindTransportUnitReceipt }
func (TransportUnitReceipt) sealed()    {}

func (r TransportUnitReceipt) Validate() error {
	var errTU, errLocation error
	if r.TransportUnitBK == "" {
		errTU = errs.NewValueIsRequiredError("transportUnitBK")
	}
	if r.ActualLocationErpCode == "" {
		errLocation = errs.NewValueIsRequiredError("actualLocationErpCode")
	}
	return errors.Join(errTU, errLocation)
}

// Clone returns a deep copy of r so that read-only consumers cannot alter it.
func Clone(r Request) Request {
	switch v := r.(type) {
	case QuantityOnTransportUnit:
		v.SerialNumbers = append([]string(nil), v.SerialNumbers...)
		v.Details = maps.Clone(v.Details)
		return v
	case QuantityOnLocation:
		v.SerialNumbers = append([]string(nil), v.SerialNumbers...)
		v.Details = maps.Clone(v.Details)
		return v
	case TransportUnitReceipt:
		v.Details = maps.Clone(v.Details)
		return v
	default:
		return r
	}
}

func validateQuantity(q kernel.Quantity, serials []string) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if !q.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%s is not positive", q))
	}
	if len(serials) == 0 {
		return nil
	}
	if !q.Amount().Equal(q.Amount().Truncate(0)) || q.Amount().IntPart() != int64(len(serials)) {
		return errs.NewValueIsInvalidErrorWithCause(
			"serialNumbers",
			fmt.Errorf("%d serial numbers given for %s", len(serials), q),
		)
	}
	return nil
}
