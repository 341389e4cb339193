package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"receiving/internal/adapters/out/postgres/commandqueue"

	"github.com/robfig/cron/v3"
)

// Outbox hands pending commands to a delivery function and records the outcome.
type Outbox interface {
	Relay(
		ctx context.Context,
		limit, maxAttempts int,
		deliver func(ctx context.Context, cmd commandqueue.Command) error,
	) (commandqueue.RelayResult, error)
}

// CommandDispatcher sends one stored command to the remote service.
type CommandDispatcher interface {
	Dispatch(ctx context.Context, kind string, payload json.RawMessage) error
}

// RelayConfig tunes the command relay.
type RelayConfig struct {
	// Schedule is a cron expression with a leading seconds field.
	Schedule    string
	BatchSize   int
	MaxAttempts int
}

// CommandRelayJob replays warehouse commands that could not be delivered while
// capturing.
type CommandRelayJob struct {
	outbox     Outbox
	dispatcher CommandDispatcher
	config     RelayConfig
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewCommandRelayJob creates a new job for replaying deferred commands.
func NewCommandRelayJob(outbox Outbox, dispatcher CommandDispatcher, config RelayConfig, logger *slog.Logger) *CommandRelayJob {
	return &CommandRelayJob{
		outbox:     outbox,
		dispatcher: dispatcher,
		config:     config,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "command_relay_job"),
	}
}

// Start schedules the relay.
func (j *CommandRelayJob) Start() error {
	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Command relay job started", "schedule", j.config.Schedule)
	return nil
}

// RunOnce relays one batch.
func (j *CommandRelayJob) RunOnce(ctx context.Context) {
	result, err := j.outbox.Relay(ctx, j.config.BatchSize, j.config.MaxAttempts,
		func(ctx context.Context, cmd commandqueue.Command) error {
			if err := j.dispatcher.Dispatch(ctx, cmd.Kind, cmd.Payload); err != nil {
				j.logger.WarnContext(ctx, "Command delivery failed",
					"id", cmd.ID, "kind", cmd.Kind, "attempt", cmd.Attempts+1, "error", err)
				return err
			}
			return nil
		})
	if err != nil {
		j.logger.ErrorContext(ctx, "Command relay job failed", "error", err)
		return
	}

	if result.Delivered > 0 || result.Failed > 0 {
		j.logger.InfoContext(ctx, "Commands relayed", "delivered", result.Delivered, "failed", result.Failed)
	}
}

// Stop stops the schedule and waits for a running batch to finish.
func (j *CommandRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Command relay job stopped")
}
