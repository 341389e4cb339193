package ports

import (
	"context"

	"receiving/internal/core/domain/model/kernel"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and collects the domain events of the
// aggregates changed inside it. Client code must explicitly manage the
// transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and then publishes the pending
	// events of every tracked aggregate.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and drops tracked aggregates.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// TrackAggregate registers an aggregate whose events are published on Commit.
	TrackAggregate(aggregate kernel.EventSource)

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// SequenceRepository returns a SequenceRepository bound to the current transaction.
	SequenceRepository() SequenceRepository

	// CommandQueue returns the outbox bound to the current transaction.
	CommandQueue() CommandQueue
}
