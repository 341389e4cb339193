package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	commandRelayJob *CommandRelayJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	outbox Outbox,
	dispatcher CommandDispatcher,
	relayConfig RelayConfig,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		commandRelayJob: NewCommandRelayJob(outbox, dispatcher, relayConfig, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.commandRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start command relay job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.commandRelayJob.Stop()
}
