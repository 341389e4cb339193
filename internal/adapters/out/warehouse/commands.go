package warehouse

import (
	"maps"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/ports"
)

// Kinds of outbox commands.
const (
	CommandCreatePackagingUnit       = "packaging_unit.create"
	CommandCreatePackagingUnitsBatch = "packaging_unit.create_batch"
	CommandCreateTransportUnit       = "transport_unit.create"
	CommandMoveTransportUnit         = "transport_unit.move"
)

type quantityDTO struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

type packagingUnitDTO struct {
	SKU             string            `json:"sku"`
	Quantity        quantityDTO       `json:"quantity"`
	TransportUnitBK string            `json:"transportUnitBk,omitempty"`
	LocationErpCode string            `json:"locationErpCode,omitempty"`
	SerialNumber    string            `json:"serialNumber,omitempty"`
	Details         map[string]string `json:"details,omitempty"`
}

type packagingUnitBatchDTO struct {
	PackagingUnits []packagingUnitDTO `json:"packagingUnits"`
}

type transportUnitDTO struct {
	BK              string `json:"transportUnitBk"`
	Type            string `json:"transportUnitType,omitempty"`
	LocationErpCode string `json:"actualLocationErpCode,omitempty"`
}

type moveTransportUnitDTO struct {
	TransportUnitBK string `json:"transportUnitBk"`
	LocationErpCode string `json:"actualLocationErpCode"`
}

type locationDTO struct {
	ErpCode string `json:"erpCode"`
}

type productDTO struct {
	SKU                string `json:"sku"`
	BaseUnit           string `json:"baseUnit"`
	OverbookingAllowed bool   `json:"overbookingAllowed"`
}

func packagingUnitToDTO(pu ports.PackagingUnit) packagingUnitDTO {
	return packagingUnitDTO{
		SKU:             pu.SKU,
		Quantity:        quantityToDTO(pu.Quantity),
		TransportUnitBK: pu.TransportUnitBK,
		LocationErpCode: pu.LocationErpCode,
		SerialNumber:    pu.SerialNumber,
		Details:         maps.Clone(pu.Details),
	}
}

func quantityToDTO(q kernel.Quantity) quantityDTO {
	return quantityDTO{Amount: q.Amount().String(), Unit: q.Unit().Code()}
}
