package commands

import (
	"errors"

	"receiving/internal/core/domain/model/capture"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/pkg/errs"
	"receiving/internal/pkg/guard"
)

var ErrCaptureCommandIsNotConstructed = errors.New(
	"CaptureCommand must be created via NewCaptureCommand constructor",
)

// CaptureCommand books one or more capture requests. Without an order key the
// requests are blind receipts.
type CaptureCommand struct { //nolint:recvcheck //using for validation
	orderKey *kernel.PKey
	requests []capture.Request

	guard guard.ConstructorGuard
}

// NewCaptureCommand validates every request. orderKey may be nil.
func NewCaptureCommand(orderKey *kernel.PKey, requests ...capture.Request) (CaptureCommand, error) {
	cmd := CaptureCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderKey(orderKey),
		cmd.setRequests(requests),
	); err != nil {
		return CaptureCommand{}, err
	}

	return cmd, nil
}

func (c CaptureCommand) Validate() error {
	return c.guard.Validate(ErrCaptureCommandIsNotConstructed)
}

// OrderKey returns the order to book against, or nil for blind receipts.
func (c CaptureCommand) OrderKey() *kernel.PKey {
	if c.orderKey == nil {
		return nil
	}
	key := *c.orderKey
	return &key
}

func (c CaptureCommand) Requests() []capture.Request {
	return append([]capture.Request(nil), c.requests...)
}

func (c CaptureCommand) IsBlind() bool {
	return c.orderKey == nil
}

func (c *CaptureCommand) setOrderKey(orderKey *kernel.PKey) error {
	if orderKey == nil {
		return nil
	}
	if err := orderKey.Validate(); err != nil {
		return err
	}
	key := *orderKey
	c.orderKey = &key
	return nil
}

func (c *CaptureCommand) setRequests(requests []capture.Request) error {
	if len(requests) == 0 {
		return errs.NewValueIsRequiredError("requests")
	}
	validationErrs := make([]error, 0, len(requests))
	for _, r := range requests {
		if r == nil {
			validationErrs = append(validationErrs, errs.NewValueIsRequiredError("request"))
			continue
		}
		validationErrs = append(validationErrs, r.Validate())
	}
	if err := errors.Join(validationErrs...); err != nil {
		return err
	}
	c.requests = append([]capture.Request(nil), requests...)
	return nil
}
