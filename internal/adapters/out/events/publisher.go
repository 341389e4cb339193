// Package events is the default sink for domain events: every event is logged
// and counted.
package events

import (
	"context"
	"log/slog"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
)

// LogPublisher implements ports.EventPublisher.
type LogPublisher struct {
	logger    *slog.Logger
	published *prometheus.CounterVec
}

var _ ports.EventPublisher = (*LogPublisher)(nil)

// NewLogPublisher registers the receiving_domain_events_total counter with registerer.
func NewLogPublisher(logger *slog.Logger, registerer prometheus.Registerer) (*LogPublisher, error) {
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "receiving_domain_events_total",
		Help: "Domain events published after commit, by event name.",
	}, []string{"event"})

	if err := registerer.Register(published); err != nil {
		return nil, err
	}

	return &LogPublisher{
		logger:    logger.With("component", "event_publisher"),
		published: published,
	}, nil
}

func (p *LogPublisher) Publish(ctx context.Context, events ...kernel.DomainEvent) error {
	for _, e := range events {
		p.logger.InfoContext(ctx, "domain event",
			"event", e.EventName(),
			"occurredAt", e.OccurredAt(),
			"payload", e,
		)
		p.published.WithLabelValues(e.EventName()).Inc()
	}
	return nil
}
