// Package capturing is the capturing engine: it books capture requests against
// receiving orders.
//
// A Registry holds one Capturer per capture Kind. Every capturer follows the same
// flow for expected receipts:
//
//	load order -> approval chain -> match position -> materialize -> mutate -> update
//
// Materialization goes through the warehouse ports and happens before the order
// is changed, so a failure leaves the order untouched. Blind receipts (no order
// key) only materialize and never touch the order repository.
package capturing

import (
	"context"
	"fmt"

	"receiving/internal/core/domain/model/capture"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/core/ports"
	"receiving/internal/pkg/errs"
)

// Capturer books one kind of capture request.
type Capturer interface {
	Kind() capture.Kind

	// Capture books request against the order identified by orderKey and returns
	// the updated order. A nil orderKey is a blind receipt and returns a nil order.
	Capture(ctx context.Context, orders ports.OrderRepository, orderKey *kernel.PKey, request capture.Request) (*order.Order, error)
}

// Registry dispatches requests to the capturer registered for their Kind.
type Registry struct {
	capturers map[capture.Kind]Capturer
}

// NewRegistry registers capturers. Two capturers for the same kind are rejected.
func NewRegistry(capturers ...Capturer) (*Registry, error) {
	r := &Registry{capturers: make(map[capture.Kind]Capturer, len(capturers))}
	for _, c := range capturers {
		if _, ok := r.capturers[c.Kind()]; ok {
			return nil, errs.NewObjectAlreadyExistsError("capturer", c.Kind())
		}
		r.capturers[c.Kind()] = c
	}
	return r, nil
}

// Supports reports whether a capturer is registered for kind.
func (r *Registry) Supports(kind capture.Kind) bool {
	_, ok := r.capturers[kind]
	return ok
}

// Capture validates request and hands it to its capturer.
func (r *Registry) Capture(
	ctx context.Context,
	orders ports.OrderRepository,
	orderKey *kernel.PKey,
	request capture.Request,
) (*order.Order, error) {
	if request == nil {
		return nil, errs.NewValueIsRequiredError("capture request")
	}
	c, ok := r.capturers[request.Kind()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRequest, request.Kind())
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	if orderKey != nil {
		if err := orderKey.Validate(); err != nil {
			return nil, err
		}
	}
	return c.Capture(ctx, orders, orderKey, request)
}
