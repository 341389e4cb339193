package events_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"receiving/internal/adapters/out/events"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogPublisher_Publish(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	registry := prometheus.NewRegistry()
	publisher, err := events.NewLogPublisher(logger, registry)
	require.NoError(t, err)

	key := kernel.NewPKey()
	now := time.Now()
	err = publisher.Publish(context.Background(),
		order.OrderCreated{PKey: key, OrderID: "RO-1", At: now},
		order.OrderStateChanged{PKey: key, OrderID: "RO-1", From: order.Created, To: order.Processing, At: now},
		order.OrderStateChanged{PKey: key, OrderID: "RO-1", From: order.Processing, To: order.Completed, At: now},
	)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), order.EventOrderCreated)
	count, err := testutil.GatherAndCount(registry, "receiving_domain_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per event name")

	_, err = events.NewLogPublisher(logger, registry)
	require.Error(t, err, "the counter can be registered once per registry")
}
