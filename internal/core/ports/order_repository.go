package ports

import (
	"context"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
)

// OrderFilter narrows GetAll. Zero values mean "no restriction"; Limit 0 means
// the repository default.
type OrderFilter struct {
	States []order.State
	Limit  int
	Offset int
}

// OrderRepository defines the persistence contract for receiving orders.
// Orders are always loaded together with all of their positions.
type OrderRepository interface {
	// Add persists a new order with its positions.
	// Returns ObjectAlreadyExistsError when the orderId is taken.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order and its positions.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order by its pKey and locks it for the rest of the transaction.
	// Returns ObjectNotFoundError when there is no such order.
	Get(ctx context.Context, pKey kernel.PKey) (*order.Order, error)

	// GetByOrderID loads an order by its business identifier.
	GetByOrderID(ctx context.Context, orderID string) (*order.Order, error)

	// GetAll lists orders in creation order.
	GetAll(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
