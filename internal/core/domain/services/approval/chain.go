// Package approval implements the approval chain that runs before a capture
// touches an order.
//
// Approvers are bound to one capture Kind and are called once per non-canceled
// position of the order. They only read: positions and requests are handed over
// as copies. The first rejection aborts the capture.
package approval

import (
	"context"

	"receiving/internal/core/domain/model/capture"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
)

// Approver is one policy check. A rejection is returned as *errs.NotApprovedError.
type Approver interface {
	Kind() capture.Kind
	Approve(ctx context.Context, orderPKey kernel.PKey, position order.Position, request capture.Request) error
}

// Chain runs approvers in registration order.
//
// Example:
//
//	chain := approval.NewChain(blockList)
//	if err := chain.Approve(ctx, o, req); errors.Is(err, errs.ErrNotApproved) {
//	    // capture refused, nothing was changed
//	}
type Chain struct {
	approvers []Approver
}

// NewChain returns a chain; without approvers every request is approved.
func NewChain(approvers ...Approver) *Chain {
	return &Chain{approvers: approvers}
}

// Len returns the number of registered approvers.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.approvers)
}

// Approve checks request against every non-canceled position of o.
func (c *Chain) Approve(ctx context.Context, o *order.Order, request capture.Request) error {
	if c.Len() == 0 {
		return nil
	}

	for _, p := range o.Positions() {
		if p.State() == order.PositionCanceled {
			continue
		}
		for _, a := range c.approvers {
			if a.Kind() != request.Kind() {
				continue
			}
			if err := a.Approve(ctx, o.PKey(), p, capture.Clone(request)); err != nil {
				return err
			}
		}
	}
	return nil
}
