package warehouse

import (
	"context"
	"encoding/json"
	"fmt"
)

// Dispatcher replays outbox commands synchronously, without the outbox fallback.
type Dispatcher struct {
	inventory *InventoryClient
	transport *TransportClient
}

func NewDispatcher(inventory *InventoryClient, transport *TransportClient) *Dispatcher {
	return &Dispatcher{inventory: inventory, transport: transport}
}

// Dispatch sends the command stored under kind. Unknown kinds are an error.
func (d *Dispatcher) Dispatch(ctx context.Context, kind string, payload json.RawMessage) error {
	switch kind {
	case CommandCreatePackagingUnit:
		var dto packagingUnitDTO
		if err := decode(kind, payload, &dto); err != nil {
			return err
		}
		return d.inventory.createPackagingUnit(ctx, dto)
	case CommandCreatePackagingUnitsBatch:
		var dto packagingUnitBatchDTO
		if err := decode(kind, payload, &dto); err != nil {
			return err
		}
		return d.inventory.createPackagingUnits(ctx, dto)
	case CommandCreateTransportUnit:
		var dto transportUnitDTO
		if err := decode(kind, payload, &dto); err != nil {
			return err
		}
		return d.transport.createTransportUnit(ctx, dto)
	case CommandMoveTransportUnit:
		var dto moveTransportUnitDTO
		if err := decode(kind, payload, &dto); err != nil {
			return err
		}
		return d.transport.moveTransportUnit(ctx, dto)
	default:
		return fmt.Errorf("unknown command kind %q", kind)
	}
}

func decode(kind string, payload json.RawMessage, target any) error {
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return nil
}
