// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"receiving/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Every command changes at most one order inside one transaction.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// SequenceRepoFactory provides access to the order number counters within a transaction.
	SequenceRepoFactory interface {
		SequenceRepository() ports.SequenceRepository
	}

	// CommandQueueFactory provides the outbox for deferred remote commands within a transaction.
	CommandQueueFactory interface {
		CommandQueue() ports.CommandQueue
	}

	// OrderUoW manages transactions for operations on existing orders.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		CommandQueueFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions that also draw order numbers.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   id, err := generator.Next(ctx, uow.SequenceRepository())
	//   err = uow.OrderRepository().Add(ctx, o)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		SequenceRepoFactory
	}

	// UoWFactory creates new unit of work instances for order creation.
	UoWFactory interface {
		Create() UoW
	}
)
