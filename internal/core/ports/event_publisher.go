package ports

import (
	"context"

	"receiving/internal/core/domain/model/kernel"
)

// EventPublisher is the sink for domain events. It is called after commit, so
// a failing publisher can no longer undo the business change.
type EventPublisher interface {
	Publish(ctx context.Context, events ...kernel.DomainEvent) error
}
