package queries_test

import (
	"context"
	"testing"

	"receiving/internal/adapters/out/postgres/orderrepo"
	"receiving/internal/adapters/out/postgres/pgtest"
	"receiving/internal/core/application/usecases/queries"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.EventSource) {}

type ListOrdersQueryHandlerTestSuite struct {
	suite.Suite
	database  *pgtest.Database
	handler   queries.ListOrdersQueryHandler
	orderRepo *orderrepo.GormOrderRepository
}

func (suite *ListOrdersQueryHandlerTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.handler = queries.NewListOrdersQueryHandler(database.DB)
	suite.orderRepo = orderrepo.NewGormOrderRepository(database.DB, noopTracker{})
}

func (suite *ListOrdersQueryHandlerTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *ListOrdersQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	query, _ := queries.NewListOrdersQuery(nil, 0, 0)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_CountsPositions() {
	ctx := context.Background()
	o, _ := order.NewOrder(kernel.NewPKey(), "RO-1", nil, order.Schedule{})
	suite.Require().NoError(o.AddQuantityPosition(0, "SKU-1", kernel.MustParseQuantity("2", "PCS"), nil))
	suite.Require().NoError(o.AddQuantityPosition(0, "SKU-2", kernel.MustParseQuantity("2", "PCS"), nil))
	suite.Require().NoError(o.AddTransportUnitPosition(0, "TU-1", "EURO", nil))
	suite.Require().NoError(o.ReceiveTransportUnit(3))
	o.RecordProblem("refused", "CAPTURING_CONFLICT")
	suite.Require().NoError(suite.orderRepo.Add(ctx, o))

	empty, _ := order.NewOrder(kernel.NewPKey(), "RO-2", nil, order.Schedule{})
	suite.Require().NoError(suite.orderRepo.Add(ctx, empty))

	query, _ := queries.NewListOrdersQuery(nil, 0, 0)
	result, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal("RO-1", result[0].OrderID)
	suite.True(o.PKey().IsEqual(result[0].PKey))
	suite.Equal(3, result[0].PositionCount)
	suite.Equal(2, result[0].OpenPositionCount)
	suite.Equal("CAPTURING_CONFLICT", result[0].ProblemCode)
	suite.Equal(0, result[1].PositionCount)
	suite.Empty(result[1].ProblemCode)
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_FiltersByState() {
	ctx := context.Background()
	created, _ := order.NewOrder(kernel.NewPKey(), "RO-1", nil, order.Schedule{})
	canceled, _ := order.NewOrder(kernel.NewPKey(), "RO-2", nil, order.Schedule{})
	suite.Require().NoError(canceled.Cancel())
	suite.Require().NoError(suite.orderRepo.Add(ctx, created))
	suite.Require().NoError(suite.orderRepo.Add(ctx, canceled))

	query, _ := queries.NewListOrdersQuery([]order.State{order.Canceled}, 10, 0)
	result, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal("RO-2", result[0].OrderID)
	suite.Equal(order.Canceled, result[0].State)
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_Paging() {
	ctx := context.Background()
	for _, id := range []string{"RO-1", "RO-2", "RO-3"} {
		o, _ := order.NewOrder(kernel.NewPKey(), id, nil, order.Schedule{})
		suite.Require().NoError(suite.orderRepo.Add(ctx, o))
	}

	query, _ := queries.NewListOrdersQuery(nil, 2, 2)
	result, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Len(result, 1)
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	result, err := suite.handler.Handle(context.Background(), queries.ListOrdersQuery{})

	suite.Require().ErrorIs(err, queries.ErrListOrdersQueryIsNotConstructed)
	suite.Nil(result)
}

func TestListOrdersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ListOrdersQueryHandlerTestSuite))
}
