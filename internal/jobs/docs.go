// Package jobs provides scheduled background tasks for the receiving service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// CommandRelayJob replays warehouse commands that were parked in the
// async_commands outbox because the inventory or transport service could not
// be reached during capturing. Each run locks one batch of pending commands,
// dispatches them and marks every command delivered or failed. A command that
// failed MaxAttempts times stays in the table with status failed.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(queue, dispatcher, jobs.RelayConfig{
//		Schedule:    "*/10 * * * * *",
//		BatchSize:   50,
//		MaxAttempts: 10,
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron format with a leading seconds field.
// StopAll waits for a running batch to finish.
package jobs
