package queries

import (
	"context"
	"errors"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/pkg/errs"
	"receiving/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery or NewGetOrderByOrderIDQuery constructor",
	)
)

// OrderReader loads single orders for the read side.
type OrderReader interface {
	Get(ctx context.Context, pKey kernel.PKey) (*order.Order, error)
	GetByOrderID(ctx context.Context, orderID string) (*order.Order, error)
}

// GetOrderQuery addresses one order either by pKey or by its business identifier.
//
// Example:
//
//	query, err := NewGetOrderQuery(pKey)
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	pKey    kernel.PKey
	orderID string

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(pKey kernel.PKey) (GetOrderQuery, error) {
	if err := pKey.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{pKey: pKey, guard: guard.NewConstructorGuard()}, nil
}

func NewGetOrderByOrderIDQuery(orderID string) (GetOrderQuery, error) {
	if orderID == "" {
		return GetOrderQuery{}, errs.NewValueIsRequiredError("orderId")
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// ByOrderID reports whether the query addresses the order by business identifier.
func (q GetOrderQuery) ByOrderID() bool {
	return q.orderID != ""
}

// GetOrderQueryHandler loads a full order with its positions.
type GetOrderQueryHandler struct {
	reader OrderReader
}

func NewGetOrderQueryHandler(reader OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader}
}

// Handle returns ObjectNotFoundError when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if query.ByOrderID() {
		return h.reader.GetByOrderID(ctx, query.orderID)
	}
	return h.reader.Get(ctx, query.pKey)
}
