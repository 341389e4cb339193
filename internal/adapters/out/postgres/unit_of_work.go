// Package postgres provides the GORM-based Unit of Work.
//
// A unit of work owns one database transaction. Repositories obtained from it
// run inside that transaction and register every aggregate they add or update.
// After a successful Commit the pending domain events of the registered
// aggregates are handed to the event publisher; after Rollback they are dropped.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	o, err := uow.OrderRepository().Get(ctx, key)
//	if err != nil {
//	    return err
//	}
//	// ... mutate o ...
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance is meant for a single goroutine.
package postgres

import (
	"context"
	"log/slog"

	"receiving/internal/adapters/out/postgres/commandqueue"
	"receiving/internal/adapters/out/postgres/orderrepo"
	"receiving/internal/adapters/out/postgres/sequencerepo"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, publisher, logger)
//	uow := factory.Create()
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// The provided database connection will be used for all created unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger *slog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger.With("component", "unit_of_work"),
	}
}

// Create produces a new UnitOfWork instance with its own transaction state
// and aggregate tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:        f.db,
		publisher: f.publisher,
		logger:    f.logger,
	}
}

// GormUnitOfWork coordinates one database transaction and the publication of
// the domain events raised inside it.
type GormUnitOfWork struct {
	db        *gorm.DB
	tx        *gorm.DB
	publisher ports.EventPublisher
	logger    *slog.Logger

	tracked []kernel.EventSource
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction and then publishes the pending events of all
// tracked aggregates. A publication failure is logged and does not fail the
// commit, since the business change is already durable.
//
// Returns error if no active transaction exists or if the commit operation fails.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.tracked = nil
		return err
	}

	uow.publish(ctx)
	return nil
}

// Rollback discards the transaction and every tracked aggregate.
//
// Returns error if no active transaction exists or if the rollback operation fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.tracked = nil
	return err
}

// OrderRepository provides access to order persistence within the unit of work.
// Without an active transaction the repository uses the main connection.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// SequenceRepository provides access to the order number counters within the unit of work.
func (uow *GormUnitOfWork) SequenceRepository() ports.SequenceRepository {
	return sequencerepo.NewGormSequenceRepository(uow.conn())
}

// CommandQueue provides the outbox within the unit of work, so deferred commands
// are stored or discarded together with the transaction.
func (uow *GormUnitOfWork) CommandQueue() ports.CommandQueue {
	return commandqueue.NewGormCommandQueue(uow.conn())
}

// TrackAggregate registers an aggregate whose events are published on Commit.
// Registering the same aggregate twice has no effect.
func (uow *GormUnitOfWork) TrackAggregate(aggregate kernel.EventSource) {
	for _, t := range uow.tracked {
		if t == aggregate {
			return
		}
	}
	uow.tracked = append(uow.tracked, aggregate)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) publish(ctx context.Context) {
	tracked := uow.tracked
	uow.tracked = nil

	for _, aggregate := range tracked {
		events := aggregate.PendingEvents()
		aggregate.ClearEvents()
		if len(events) == 0 || uow.publisher == nil {
			continue
		}
		if err := uow.publisher.Publish(ctx, events...); err != nil {
			uow.logger.ErrorContext(ctx, "failed to publish domain events", "count", len(events), "error", err)
		}
	}
}
