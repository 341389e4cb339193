package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Quantity is an amount with its unit code. Amount is a decimal string.
type Quantity struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Schedule carries the informational timestamps of an order.
type Schedule struct {
	ExpectedReceipt *time.Time `json:"expectedReceipt,omitempty"`
	EarliestReceipt *time.Time `json:"earliestReceipt,omitempty"`
	LatestReceipt   *time.Time `json:"latestReceipt,omitempty"`
	Start           *time.Time `json:"start,omitempty"`
	End             *time.Time `json:"end,omitempty"`
}

// NewPosition is one expected position of a new order.
type NewPosition struct {
	Number            int               `json:"number,omitempty"`
	Kind              string            `json:"kind"`
	SKU               string            `json:"sku,omitempty"`
	Quantity          *Quantity         `json:"quantity,omitempty"`
	TransportUnitBK   string            `json:"transportUnitBk,omitempty"`
	TransportUnitType string            `json:"transportUnitType,omitempty"`
	Details           map[string]string `json:"details,omitempty"`
}

// NewOrder is the body of POST /v1/receiving-orders.
type NewOrder struct {
	OrderID   string            `json:"orderId,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Schedule  *Schedule         `json:"schedule,omitempty"`
	Positions []NewPosition     `json:"positions,omitempty"`
}

// CaptureRequest is one capture instruction. The fields in use depend on Kind.
type CaptureRequest struct {
	Kind                  string            `json:"kind"`
	SKU                   string            `json:"sku,omitempty"`
	UomRelationID         string            `json:"uomRelationId,omitempty"`
	Quantity              *Quantity         `json:"quantity,omitempty"`
	TransportUnitBK       string            `json:"transportUnitBk,omitempty"`
	TransportUnitType     string            `json:"transportUnitType,omitempty"`
	LocationErpCode       string            `json:"locationErpCode,omitempty"`
	ActualLocationErpCode string            `json:"actualLocationErpCode,omitempty"`
	SerialNumbers         []string          `json:"serialNumbers,omitempty"`
	Details               map[string]string `json:"details,omitempty"`
}

// CaptureBatch is the body of both capture endpoints.
type CaptureBatch struct {
	Requests []CaptureRequest `json:"requests"`
}

// StateChange is the body of PATCH /v1/receiving-orders/{pKey}.
type StateChange struct {
	State string `json:"state"`
}

type Problem struct {
	Message    string    `json:"message"`
	Code       string    `json:"code"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Position struct {
	Number            int               `json:"number"`
	Kind              string            `json:"kind"`
	State             string            `json:"state"`
	SKU               string            `json:"sku,omitempty"`
	Expected          *Quantity         `json:"expected,omitempty"`
	Received          *Quantity         `json:"received,omitempty"`
	TransportUnitBK   string            `json:"transportUnitBk,omitempty"`
	TransportUnitType string            `json:"transportUnitType,omitempty"`
	Details           map[string]string `json:"details,omitempty"`
}

type Order struct {
	PKey      openapi_types.UUID `json:"pKey"`
	OrderID   string             `json:"orderId"`
	State     string             `json:"state"`
	Locked    bool               `json:"locked"`
	Details   map[string]string  `json:"details,omitempty"`
	Schedule  Schedule           `json:"schedule"`
	Problem   *Problem           `json:"problem,omitempty"`
	Positions []Position         `json:"positions"`
}

type OrderSummary struct {
	PKey              openapi_types.UUID `json:"pKey"`
	OrderID           string             `json:"orderId"`
	State             string             `json:"state"`
	Locked            bool               `json:"locked"`
	PositionCount     int                `json:"positionCount"`
	OpenPositionCount int                `json:"openPositionCount"`
	ProblemCode       string             `json:"problemCode,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
}

type OrderList struct {
	Items  []OrderSummary `json:"items"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ListOrdersParams defines parameters for ListOrders.
type ListOrdersParams struct {
	State  *[]string
	Limit  *int
	Offset *int
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /v1/receiving-orders)
	CreateOrder(ctx echo.Context) error
	// (GET /v1/receiving-orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// (GET /v1/receiving-orders/by-order-id/{orderId})
	GetOrderByOrderID(ctx echo.Context, orderID string) error
	// (GET /v1/receiving-orders/{pKey})
	GetOrder(ctx echo.Context, pKey openapi_types.UUID) error
	// (PATCH /v1/receiving-orders/{pKey})
	ChangeOrderState(ctx echo.Context, pKey openapi_types.UUID) error
	// (POST /v1/receiving-orders/{pKey}/captures)
	CaptureOrder(ctx echo.Context, pKey openapi_types.UUID) error
	// (POST /v1/receiving-orders/{pKey}/cancellation)
	CancelOrder(ctx echo.Context, pKey openapi_types.UUID) error
	// (POST /v1/receiving-orders/{pKey}/completion)
	CompleteOrder(ctx echo.Context, pKey openapi_types.UUID) error
	// (POST /v1/blind-receipts)
	CaptureBlind(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams

	if err := runtime.BindQueryParameter("form", true, false, "state", ctx.QueryParams(), &params.State); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter state: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", ctx.QueryParams(), &params.Offset); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter offset: %s", err))
	}

	return w.Handler.ListOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) GetOrderByOrderID(ctx echo.Context) error {
	var orderID string
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	return w.Handler.GetOrderByOrderID(ctx, orderID)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	pKey, err := bindPKey(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, pKey)
}

func (w *ServerInterfaceWrapper) ChangeOrderState(ctx echo.Context) error {
	pKey, err := bindPKey(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ChangeOrderState(ctx, pKey)
}

func (w *ServerInterfaceWrapper) CaptureOrder(ctx echo.Context) error {
	pKey, err := bindPKey(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CaptureOrder(ctx, pKey)
}

func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	pKey, err := bindPKey(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CancelOrder(ctx, pKey)
}

func (w *ServerInterfaceWrapper) CompleteOrder(ctx echo.Context) error {
	pKey, err := bindPKey(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CompleteOrder(ctx, pKey)
}

func (w *ServerInterfaceWrapper) CaptureBlind(ctx echo.Context) error {
	return w.Handler.CaptureBlind(ctx)
}

func bindPKey(ctx echo.Context) (openapi_types.UUID, error) {
	var pKey openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "pKey", ctx.Param("pKey"), &pKey,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return pKey, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter pKey: %s", err))
	}
	return pKey, nil
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the routes under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/v1/receiving-orders", wrapper.CreateOrder)
	router.GET(baseURL+"/v1/receiving-orders", wrapper.ListOrders)
	router.GET(baseURL+"/v1/receiving-orders/by-order-id/:orderId", wrapper.GetOrderByOrderID)
	router.GET(baseURL+"/v1/receiving-orders/:pKey", wrapper.GetOrder)
	router.PATCH(baseURL+"/v1/receiving-orders/:pKey", wrapper.ChangeOrderState)
	router.POST(baseURL+"/v1/receiving-orders/:pKey/captures", wrapper.CaptureOrder)
	router.POST(baseURL+"/v1/receiving-orders/:pKey/cancellation", wrapper.CancelOrder)
	router.POST(baseURL+"/v1/receiving-orders/:pKey/completion", wrapper.CompleteOrder)
	router.POST(baseURL+"/v1/blind-receipts", wrapper.CaptureBlind)
}
