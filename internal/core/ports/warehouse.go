package ports

import (
	"context"

	"receiving/internal/core/domain/model/kernel"
)

// PackagingUnit is the physical representation of a captured quantity.
// Either TransportUnitBK or LocationErpCode names where it is placed.
type PackagingUnit struct {
	SKU             string
	Quantity        kernel.Quantity
	TransportUnitBK string
	LocationErpCode string
	SerialNumber    string
	Details         map[string]string
}

// TransportUnit is a load carrier (pallet, container) tracked by the transport service.
type TransportUnit struct {
	BK              string
	Type            string
	LocationErpCode string
}

// Location is a storage location known to the transport service. Verified is
// false when the remote lookup could not be performed and the code was taken
// as given.
type Location struct {
	ErpCode  string
	Verified bool
}

// PackagingUnitAPI materializes captured quantities.
type PackagingUnitAPI interface {
	Create(ctx context.Context, pu PackagingUnit) error
	CreateBatch(ctx context.Context, pus []PackagingUnit) error
}

// TransportUnitAPI creates and relocates transport units.
type TransportUnitAPI interface {
	Create(ctx context.Context, tu TransportUnit) error
	Move(ctx context.Context, transportUnitBK, locationErpCode string) error
}

// LocationAPI looks up storage locations.
type LocationAPI interface {
	// FindByErpCode returns ObjectNotFoundError when the location does not exist.
	FindByErpCode(ctx context.Context, erpCode string) (Location, error)
}
