package metrics

import (
	"context"

	"github.com/infigaming-com/queue-publisher/publisher"
)

const (
	metricRecordsDropped   = "queue_publisher_records_dropped_total"
	metricEntriesPublished = "queue_publisher_entries_published_total"
	metricSendFailures     = "queue_publisher_send_failures_total"
)

// PublisherHooks bridges publish events to counters on the exporter. Pass
// the result to publisher.WithHooks. queueName is attached to every
// counter so one exporter can serve several publishers.
func PublisherHooks(mc *MetricExporter, queueName string) publisher.Hooks {
	attrs := map[string]string{"queue": queueName}
	return publisher.Hooks{
		OnDrop: func(ctx context.Context, _ string, _ int) {
			_ = mc.RecordCounter(ctx, metricRecordsDropped,
				"records dropped for exceeding the message size ceiling", "1", 1, attrs)
		},
		OnSend: func(ctx context.Context, entries int) {
			_ = mc.RecordCounter(ctx, metricEntriesPublished,
				"entries accepted by the queue service", "1", int64(entries), attrs)
		},
		OnSendFail: func(ctx context.Context, entries int, _ error) {
			_ = mc.RecordCounter(ctx, metricSendFailures,
				"send calls failed by the queue service", "1", 1, attrs)
		},
	}
}
