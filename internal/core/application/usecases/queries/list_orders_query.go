package queries

import (
	"errors"
	"time"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/pkg/errs"
	"receiving/internal/pkg/guard"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
)

// ListOrdersQuery pages through orders, oldest first, optionally restricted to
// a set of states.
//
// Example:
//
//	query, err := NewListOrdersQuery([]order.State{order.Created, order.Processing}, 20, 0)
//	if err != nil {
//	    return err
//	}
//	rows, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	states []order.State
	limit  int
	offset int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery validates the filter. A zero limit means DefaultListLimit.
func NewListOrdersQuery(states []order.State, limit, offset int) (ListOrdersQuery, error) {
	validationErrs := make([]error, 0, len(states)+2)
	for _, s := range states {
		validationErrs = append(validationErrs, s.Validate())
	}
	if limit < 0 || limit > MaxListLimit {
		validationErrs = append(validationErrs, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxListLimit))
	}
	if offset < 0 {
		validationErrs = append(validationErrs, errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded"))
	}
	if err := errors.Join(validationErrs...); err != nil {
		return ListOrdersQuery{}, err
	}

	if limit == 0 {
		limit = DefaultListLimit
	}

	return ListOrdersQuery{
		states: append([]order.State(nil), states...),
		limit:  limit,
		offset: offset,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) States() []order.State {
	return append([]order.State(nil), q.states...)
}

func (q ListOrdersQuery) Limit() int  { return q.limit }
func (q ListOrdersQuery) Offset() int { return q.offset }

// ListOrdersQueryResponse is one row of the order overview.
type ListOrdersQueryResponse struct {
	PKey              kernel.PKey
	OrderID           string
	State             order.State
	Locked            bool
	PositionCount     int
	OpenPositionCount int
	ProblemCode       string
	CreatedAt         time.Time
}
