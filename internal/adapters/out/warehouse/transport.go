package warehouse

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"receiving/internal/core/ports"
)

// TransportClient implements ports.TransportUnitAPI and ports.LocationAPI
// against the transport service.
type TransportClient struct {
	client *Client
	queue  ports.CommandQueue
	logger *slog.Logger
}

var (
	_ ports.TransportUnitAPI = (*TransportClient)(nil)
	_ ports.LocationAPI      = (*TransportClient)(nil)
)

func NewTransportClient(client *Client, queue ports.CommandQueue, logger *slog.Logger) *TransportClient {
	return &TransportClient{
		client: client,
		queue:  queue,
		logger: logger.With("component", "transport_client"),
	}
}

func (c *TransportClient) Create(ctx context.Context, tu ports.TransportUnit) error {
	dto := transportUnitDTO{BK: tu.BK, Type: tu.Type, LocationErpCode: tu.LocationErpCode}
	return deliver(ctx, c.queue, c.logger, CommandCreateTransportUnit, dto, func() error {
		return c.createTransportUnit(ctx, dto)
	})
}

func (c *TransportClient) Move(ctx context.Context, transportUnitBK, locationErpCode string) error {
	dto := moveTransportUnitDTO{TransportUnitBK: transportUnitBK, LocationErpCode: locationErpCode}
	return deliver(ctx, c.queue, c.logger, CommandMoveTransportUnit, dto, func() error {
		return c.moveTransportUnit(ctx, dto)
	})
}

// FindByErpCode verifies a location. When the transport service is unavailable
// the code is returned unverified.
func (c *TransportClient) FindByErpCode(ctx context.Context, erpCode string) (ports.Location, error) {
	var dto locationDTO
	err := c.client.do(ctx, http.MethodGet, "/v1/locations/"+url.PathEscape(erpCode), "location", nil, &dto)
	switch {
	case err == nil:
		if dto.ErpCode == "" {
			dto.ErpCode = erpCode
		}
		return ports.Location{ErpCode: dto.ErpCode, Verified: true}, nil
	case errors.Is(err, ErrUnavailable):
		c.logger.WarnContext(ctx, "location lookup unavailable, using unverified code", "erpCode", erpCode, "error", err)
		return ports.Location{ErpCode: erpCode}, nil
	default:
		return ports.Location{}, err
	}
}

func (c *TransportClient) createTransportUnit(ctx context.Context, dto transportUnitDTO) error {
	return c.client.do(ctx, http.MethodPost, "/v1/transport-units", "transportUnit", dto, nil)
}

func (c *TransportClient) moveTransportUnit(ctx context.Context, dto moveTransportUnitDTO) error {
	path := "/v1/transport-units/" + url.PathEscape(dto.TransportUnitBK) + "/location"
	return c.client.do(ctx, http.MethodPut, path, "transportUnit", dto, nil)
}
