package warehouse

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/ports"
)

// InventoryClient implements ports.PackagingUnitAPI and ports.ProductLookup
// against the inventory service.
type InventoryClient struct {
	client *Client
	queue  ports.CommandQueue
	logger *slog.Logger
}

var (
	_ ports.PackagingUnitAPI = (*InventoryClient)(nil)
	_ ports.ProductLookup    = (*InventoryClient)(nil)
)

func NewInventoryClient(client *Client, queue ports.CommandQueue, logger *slog.Logger) *InventoryClient {
	return &InventoryClient{
		client: client,
		queue:  queue,
		logger: logger.With("component", "inventory_client"),
	}
}

func (c *InventoryClient) Create(ctx context.Context, pu ports.PackagingUnit) error {
	dto := packagingUnitToDTO(pu)
	return deliver(ctx, c.queue, c.logger, CommandCreatePackagingUnit, dto, func() error {
		return c.createPackagingUnit(ctx, dto)
	})
}

func (c *InventoryClient) CreateBatch(ctx context.Context, pus []ports.PackagingUnit) error {
	if len(pus) == 0 {
		return nil
	}
	dto := packagingUnitBatchDTO{PackagingUnits: make([]packagingUnitDTO, 0, len(pus))}
	for _, pu := range pus {
		dto.PackagingUnits = append(dto.PackagingUnits, packagingUnitToDTO(pu))
	}
	return deliver(ctx, c.queue, c.logger, CommandCreatePackagingUnitsBatch, dto, func() error {
		return c.createPackagingUnits(ctx, dto)
	})
}

func (c *InventoryClient) FindBySKU(ctx context.Context, sku string) (ports.Product, error) {
	return c.findProduct(ctx, "/v1/products/"+url.PathEscape(sku))
}

func (c *InventoryClient) FindByUomRelation(ctx context.Context, relationID string) (ports.Product, error) {
	return c.findProduct(ctx, "/v1/uom-relations/"+url.PathEscape(relationID)+"/product")
}

func (c *InventoryClient) findProduct(ctx context.Context, path string) (ports.Product, error) {
	var dto productDTO
	if err := c.client.do(ctx, http.MethodGet, path, "product", nil, &dto); err != nil {
		return ports.Product{}, err
	}

	unit, err := kernel.UnitFromCode(dto.BaseUnit)
	if err != nil {
		return ports.Product{}, err
	}
	return ports.Product{SKU: dto.SKU, BaseUnit: unit, OverbookingAllowed: dto.OverbookingAllowed}, nil
}

func (c *InventoryClient) createPackagingUnit(ctx context.Context, dto packagingUnitDTO) error {
	return c.client.do(ctx, http.MethodPost, "/v1/packaging-units", "packagingUnit", dto, nil)
}

func (c *InventoryClient) createPackagingUnits(ctx context.Context, dto packagingUnitBatchDTO) error {
	return c.client.do(ctx, http.MethodPost, "/v1/packaging-units/batch", "packagingUnit", dto, nil)
}

// deliver runs send; deferrable failures are enqueued as kind and reported as success.
// A queue scoped on ctx with ports.ContextWithCommandQueue takes precedence over
// the client's own.
func deliver(
	ctx context.Context,
	queue ports.CommandQueue,
	logger *slog.Logger,
	kind string,
	payload any,
	send func() error,
) error {
	err := send()
	if err == nil || !isDeferrable(err) {
		return err
	}
	if scoped, ok := ports.CommandQueueFromContext(ctx); ok {
		queue = scoped
	}

	if qErr := queue.Enqueue(ctx, kind, payload); qErr != nil {
		logger.ErrorContext(ctx, "failed to enqueue deferred command", "kind", kind, "cause", err, "error", qErr)
		return qErr
	}
	logger.WarnContext(ctx, "remote call failed, command deferred", "kind", kind, "error", err)
	return nil
}
