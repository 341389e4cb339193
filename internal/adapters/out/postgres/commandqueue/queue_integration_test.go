package commandqueue_test

import (
	"context"
	"errors"
	"testing"

	"receiving/internal/adapters/out/postgres/commandqueue"
	"receiving/internal/adapters/out/postgres/pgtest"
	"receiving/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CommandQueueIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	queue    *commandqueue.GormCommandQueue
}

func (suite *CommandQueueIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.queue = commandqueue.NewGormCommandQueue(database.DB)
}

func (suite *CommandQueueIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *CommandQueueIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *CommandQueueIntegrationTestSuite) status(id uuid.UUID) commandqueue.CommandDTO {
	var dto commandqueue.CommandDTO
	suite.Require().NoError(suite.database.DB.Where("id = ?", id).Take(&dto).Error)
	return dto
}

func (suite *CommandQueueIntegrationTestSuite) TestEnqueue_PendingOldestFirst() {
	ctx := context.Background()
	suite.Require().NoError(suite.queue.Enqueue(ctx, "transport_unit.create", map[string]string{"bk": "TU-1"}))
	suite.Require().NoError(suite.queue.Enqueue(ctx, "transport_unit.move", map[string]string{"bk": "TU-1"}))

	pending, err := suite.queue.Pending(ctx, 10)

	suite.Require().NoError(err)
	suite.Require().Len(pending, 2)
	suite.Equal("transport_unit.create", pending[0].Kind)
	suite.JSONEq(`{"bk": "TU-1"}`, string(pending[0].Payload))
	suite.Equal(0, pending[0].Attempts)
}

func (suite *CommandQueueIntegrationTestSuite) TestEnqueue_RequiresKind() {
	err := suite.queue.Enqueue(context.Background(), "", nil)

	suite.Require().ErrorIs(err, errs.ErrValueIsRequired)
}

func (suite *CommandQueueIntegrationTestSuite) TestRelay_RecordsOutcomes() {
	ctx := context.Background()
	suite.Require().NoError(suite.queue.Enqueue(ctx, "ok", struct{}{}))
	suite.Require().NoError(suite.queue.Enqueue(ctx, "broken", struct{}{}))

	result, err := suite.queue.Relay(ctx, 10, 3, func(_ context.Context, cmd commandqueue.Command) error {
		if cmd.Kind == "broken" {
			return errors.New("inventory down")
		}
		return nil
	})

	suite.Require().NoError(err)
	suite.Equal(commandqueue.RelayResult{Delivered: 1, Failed: 1}, result)

	pending, err := suite.queue.Pending(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal("broken", pending[0].Kind)
	suite.Equal(1, pending[0].Attempts)

	dto := suite.status(pending[0].ID)
	suite.Equal(commandqueue.Pending, dto.Status)
	suite.Require().NotNil(dto.LastError)
	suite.Equal("inventory down", *dto.LastError)
}

func (suite *CommandQueueIntegrationTestSuite) TestRelay_FailsAfterMaxAttempts() {
	ctx := context.Background()
	suite.Require().NoError(suite.queue.Enqueue(ctx, "broken", struct{}{}))
	pending, err := suite.queue.Pending(ctx, 1)
	suite.Require().NoError(err)
	id := pending[0].ID

	failing := func(context.Context, commandqueue.Command) error { return errors.New("still down") }
	for range 2 {
		_, err = suite.queue.Relay(ctx, 10, 2, failing)
		suite.Require().NoError(err)
	}

	dto := suite.status(id)
	suite.Equal(commandqueue.Failed, dto.Status)
	suite.Equal(2, dto.Attempts)

	result, err := suite.queue.Relay(ctx, 10, 2, failing)
	suite.Require().NoError(err)
	suite.Equal(commandqueue.RelayResult{}, result)
}

func (suite *CommandQueueIntegrationTestSuite) TestMarkDelivered_Unknown() {
	err := suite.queue.MarkDelivered(context.Background(), uuid.New())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestCommandQueueIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CommandQueueIntegrationTestSuite))
}
