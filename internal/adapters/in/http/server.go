package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"receiving/internal/core/application/usecases/commands"
	"receiving/internal/core/application/usecases/queries"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	CaptureHandler interface {
		Handle(ctx context.Context, cmd commands.CaptureCommand) (*order.Order, error)
	}
	CancelOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
	}
	CompleteOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CompleteOrderCommand) (*order.Order, error)
	}
	ChangeOrderStateHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStateCommand) (*order.Order, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error)
	}
	ListOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.ListOrdersQueryResponse, error)
	}
)

var _ ServerInterface = (*Server)(nil)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler      CreateOrderHandler
	captureHandler          CaptureHandler
	cancelOrderHandler      CancelOrderHandler
	completeOrderHandler    CompleteOrderHandler
	changeOrderStateHandler ChangeOrderStateHandler

	// Query handlers
	getOrderHandler   GetOrderHandler
	listOrdersHandler ListOrdersHandler

	logger *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler CreateOrderHandler,
	captureHandler CaptureHandler,
	cancelOrderHandler CancelOrderHandler,
	completeOrderHandler CompleteOrderHandler,
	changeOrderStateHandler ChangeOrderStateHandler,
	getOrderHandler GetOrderHandler,
	listOrdersHandler ListOrdersHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		captureHandler:          captureHandler,
		cancelOrderHandler:      cancelOrderHandler,
		completeOrderHandler:    completeOrderHandler,
		changeOrderStateHandler: changeOrderStateHandler,
		getOrderHandler:         getOrderHandler,
		listOrdersHandler:       listOrdersHandler,
		logger:                  logger.With("component", "http_server"),
	}
}

// CreateOrder handles POST /v1/receiving-orders - creates a receiving order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	positions, err := positionInputsFromDTO(body.Positions)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(body.OrderID, body.Details, scheduleFromDTO(body.Schedule), positions)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderLocation, "/v1/receiving-orders/"+o.PKey().String())
	return ctx.JSON(http.StatusCreated, orderToDTO(o))
}

// ListOrders handles GET /v1/receiving-orders - pages through orders.
func (s *Server) ListOrders(ctx echo.Context, params ListOrdersParams) error {
	var states []order.State
	if params.State != nil {
		for _, name := range *params.State {
			state, err := order.ParseState(name)
			if err != nil {
				return s.fail(ctx, err)
			}
			states = append(states, state)
		}
	}

	var limit, offset int
	if params.Limit != nil {
		limit = *params.Limit
	}
	if params.Offset != nil {
		offset = *params.Offset
	}

	query, err := queries.NewListOrdersQuery(states, limit, offset)
	if err != nil {
		return s.fail(ctx, err)
	}

	rows, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := OrderList{
		Items:  make([]OrderSummary, 0, len(rows)),
		Limit:  query.Limit(),
		Offset: query.Offset(),
	}
	for _, row := range rows {
		response.Items = append(response.Items, summaryToDTO(row))
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderByOrderID handles GET /v1/receiving-orders/by-order-id/{orderId}.
func (s *Server) GetOrderByOrderID(ctx echo.Context, orderID string) error {
	query, err := queries.NewGetOrderByOrderIDQuery(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.getOrder(ctx, query)
}

// GetOrder handles GET /v1/receiving-orders/{pKey}.
func (s *Server) GetOrder(ctx echo.Context, pKey openapi_types.UUID) error {
	key, err := kernel.PKeyFromUUID(pKey)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetOrderQuery(key)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.getOrder(ctx, query)
}

func (s *Server) getOrder(ctx echo.Context, query queries.GetOrderQuery) error {
	o, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderToDTO(o))
}

// ChangeOrderState handles PATCH /v1/receiving-orders/{pKey} - moves the order
// into the requested state.
func (s *Server) ChangeOrderState(ctx echo.Context, pKey openapi_types.UUID) error {
	var body StateChange
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	key, err := kernel.PKeyFromUUID(pKey)
	if err != nil {
		return s.fail(ctx, err)
	}
	target, err := order.ParseState(body.State)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewChangeOrderStateCommand(key, target)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.changeOrderStateHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderToDTO(o))
}

// CaptureOrder handles POST /v1/receiving-orders/{pKey}/captures - books goods
// against the order.
func (s *Server) CaptureOrder(ctx echo.Context, pKey openapi_types.UUID) error {
	key, err := kernel.PKeyFromUUID(pKey)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.capture(ctx, &key)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderToDTO(o))
}

// CaptureBlind handles POST /v1/blind-receipts - books goods that arrived
// without an order.
func (s *Server) CaptureBlind(ctx echo.Context) error {
	if _, err := s.capture(ctx, nil); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) capture(ctx echo.Context, key *kernel.PKey) (*order.Order, error) {
	var body CaptureBatch
	if err := ctx.Bind(&body); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("body", err)
	}

	requests, err := captureRequestsFromDTO(body)
	if err != nil {
		return nil, err
	}

	cmd, err := commands.NewCaptureCommand(key, requests...)
	if err != nil {
		return nil, err
	}

	return s.captureHandler.Handle(ctx.Request().Context(), cmd)
}

// CancelOrder handles POST /v1/receiving-orders/{pKey}/cancellation.
func (s *Server) CancelOrder(ctx echo.Context, pKey openapi_types.UUID) error {
	key, err := kernel.PKeyFromUUID(pKey)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewCancelOrderCommand(key)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderToDTO(o))
}

// CompleteOrder handles POST /v1/receiving-orders/{pKey}/completion.
func (s *Server) CompleteOrder(ctx echo.Context, pKey openapi_types.UUID) error {
	key, err := kernel.PKeyFromUUID(pKey)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewCompleteOrderCommand(key)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.completeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderToDTO(o))
}

func (s *Server) badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// fail maps an application error to its status code and writes the Error body.
func (s *Server) fail(ctx echo.Context, err error) error {
	status := statusOf(err)
	body := Error{Code: status, Message: err.Error()}

	var notApproved *errs.NotApprovedError
	if errors.As(err, &notApproved) {
		body.Details = map[string]any{"code": notApproved.Code, "payload": notApproved.Payload}
	}

	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
		body.Message = "Internal server error"
	}

	return ctx.JSON(status, body)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrNotApproved):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectAlreadyExists),
		errors.Is(err, errs.ErrAlreadyInState),
		errors.Is(err, errs.ErrTransitionDenied),
		errors.Is(err, errs.ErrCapturingConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
