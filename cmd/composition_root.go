package cmd

import (
	"fmt"
	"log/slog"

	httpin "receiving/internal/adapters/in/http"
	"receiving/internal/adapters/out/approvalrules"
	"receiving/internal/adapters/out/events"
	"receiving/internal/adapters/out/postgres"
	"receiving/internal/adapters/out/postgres/commandqueue"
	"receiving/internal/adapters/out/postgres/orderrepo"
	"receiving/internal/adapters/out/warehouse"
	"receiving/internal/core/application/usecases/commands"
	"receiving/internal/core/application/usecases/queries"
	"receiving/internal/core/domain/services/approval"
	"receiving/internal/core/domain/services/capturing"
	"receiving/internal/core/domain/services/ordernumber"
	"receiving/internal/jobs"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	uowFactory *postgres.GormUnitOfWorkFactory
	queue      *commandqueue.GormCommandQueue
	inventory  *warehouse.InventoryClient
	transport  *warehouse.TransportClient
	approvals  *approval.Chain
	generator  *ordernumber.Generator
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	registerer prometheus.Registerer,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	publisher, err := events.NewLogPublisher(logger, registerer)
	if err != nil {
		return nil, fmt.Errorf("create event publisher: %w", err)
	}

	approvals, err := approvalrules.Load(config.ApprovalRulesFile)
	if err != nil {
		return nil, err
	}

	generator, err := ordernumber.NewGenerator(config.SequenceTenant, config.SequencePrefix)
	if err != nil {
		return nil, fmt.Errorf("create order number generator: %w", err)
	}

	queue := commandqueue.NewGormCommandQueue(gormDB)

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		logger:     logger,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger),
		queue:      queue,
		inventory: warehouse.NewInventoryClient(
			warehouse.NewClient(config.InventoryServiceURL, config.ExternalTimeout), queue, logger,
		),
		transport: warehouse.NewTransportClient(
			warehouse.NewClient(config.TransportServiceURL, config.ExternalTimeout), queue, logger,
		),
		approvals: approvals,
		generator: generator,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.generator, c.inventory)
}

func (c *CompositionRoot) CreateCaptureEngine() (*capturing.Registry, error) {
	return capturing.NewRegistry(
		capturing.NewQuantityOnTransportUnitCapturer(c.approvals, c.inventory, c.inventory),
		capturing.NewQuantityOnLocationCapturer(c.approvals, c.inventory, c.transport, c.inventory),
		capturing.NewTransportUnitReceiptCapturer(c.approvals, c.transport),
	)
}

func (c *CompositionRoot) CreateCaptureCommandHandler() (commands.CaptureCommandHandler, error) {
	engine, err := c.CreateCaptureEngine()
	if err != nil {
		return commands.CaptureCommandHandler{}, err
	}
	return commands.NewCaptureCommandHandler(c.orderUoWFactory(), engine, c.logger), nil
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateChangeOrderStateCommandHandler() commands.ChangeOrderStateCommandHandler {
	return commands.NewChangeOrderStateCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderReader(c.gormDB))
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

// CreateHTTPServer wires every use case into the HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() (*httpin.Server, error) {
	createOrder := c.CreateCreateOrderCommandHandler()
	captureOrder, err := c.CreateCaptureCommandHandler()
	if err != nil {
		return nil, fmt.Errorf("create capture handler: %w", err)
	}
	cancelOrder := c.CreateCancelOrderCommandHandler()
	completeOrder := c.CreateCompleteOrderCommandHandler()
	changeOrderState := c.CreateChangeOrderStateCommandHandler()

	return httpin.NewServer(
		&createOrder,
		&captureOrder,
		&cancelOrder,
		&completeOrder,
		&changeOrderState,
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.logger,
	), nil
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.queue,
		warehouse.NewDispatcher(c.inventory, c.transport),
		jobs.RelayConfig{
			Schedule:    c.config.RelaySchedule,
			BatchSize:   c.config.RelayBatchSize,
			MaxAttempts: c.config.RelayMaxAttempts,
		},
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
