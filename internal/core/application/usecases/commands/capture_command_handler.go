package commands

import (
	"context"
	"errors"
	"log/slog"

	"receiving/internal/core/domain/model/capture"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/core/ports"
	"receiving/internal/pkg/errs"
)

// CaptureEngine books a single capture request; implemented by capturing.Registry.
type CaptureEngine interface {
	Capture(ctx context.Context, orders ports.OrderRepository, orderKey *kernel.PKey, request capture.Request) (*order.Order, error)
}

// Problem codes stored on the order when a capture is refused.
const (
	ProblemCapturingConflict = "CAPTURING_CONFLICT"
	ProblemNotApproved       = "NOT_APPROVED"
)

// CaptureCommandHandler books capture requests in one transaction. All requests
// of a command succeed together or none is persisted. Remote commands deferred
// while capturing go to the outbox of the same transaction.
//
// When an expected receipt is refused for a business reason (capturing conflict
// or approval rejection) the reason is recorded on the order as its last
// problem, in a transaction of its own.
type CaptureCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     CaptureEngine
	logger     *slog.Logger
}

func NewCaptureCommandHandler(uowFactory OrderUoWFactory, engine CaptureEngine, logger *slog.Logger) CaptureCommandHandler {
	return CaptureCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		logger:     logger.With("component", "capture_command_handler"),
	}
}

// Handle returns the updated order, or nil for blind receipts.
func (h *CaptureCommandHandler) Handle(ctx context.Context, cmd CaptureCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result, err := h.capture(ctx, cmd)
	if err != nil && !cmd.IsBlind() {
		h.recordProblem(ctx, *cmd.OrderKey(), err)
	}
	return result, err
}

func (h *CaptureCommandHandler) capture(ctx context.Context, cmd CaptureCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	txCtx := ports.ContextWithCommandQueue(ctx, uow.CommandQueue())
	orderRepo := uow.OrderRepository()
	var result *order.Order
	for _, r := range cmd.Requests() {
		o, err := h.engine.Capture(txCtx, orderRepo, cmd.OrderKey(), r)
		if err != nil {
			return nil, err
		}
		if o != nil {
			result = o
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

func (h *CaptureCommandHandler) recordProblem(ctx context.Context, key kernel.PKey, cause error) {
	code := problemCode(cause)
	if code == "" {
		return
	}

	_, err := mutateOrder(ctx, h.uowFactory, key, func(o *order.Order) error {
		o.RecordProblem(cause.Error(), code)
		return nil
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to record capture problem", "order", key.String(), "error", err)
	}
}

func problemCode(err error) string {
	var notApproved *errs.NotApprovedError
	switch {
	case errors.As(err, &notApproved):
		return ProblemNotApproved + ":" + notApproved.Code
	case errors.Is(err, errs.ErrCapturingConflict):
		return ProblemCapturingConflict
	default:
		return ""
	}
}
