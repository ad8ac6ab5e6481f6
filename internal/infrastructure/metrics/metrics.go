package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all prometheus metrics for hiredesk.
// uses a custom registry to avoid polluting the global namespace.
type Metrics struct {
	Registry *prometheus.Registry

	// http_request_duration_seconds - histogram for api latency
	HTTPRequestDuration *prometheus.HistogramVec

	// hiredesk_applications_received_total - counter for submitted applications
	ApplicationsReceivedTotal prometheus.Counter

	// hiredesk_notifications_sent_total - counter for notification deliveries
	NotificationsSentTotal *prometheus.CounterVec

	// hiredesk_notification_buffer_size - gauge for queued notifications
	NotificationBufferSize prometheus.Gauge

	// hiredesk_warehouse_export_duration_seconds - histogram for export runs
	WarehouseExportDuration prometheus.Histogram
}

// New creates and registers all prometheus metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	// add standard go runtime and process collectors
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		// no per-offer label: offer ids are unbounded and would blow up
		// the series cardinality
		ApplicationsReceivedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hiredesk_applications_received_total",
			Help: "Total number of applications submitted",
		}),

		NotificationsSentTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hiredesk_notifications_sent_total",
				Help: "Total number of notification delivery attempts",
			},
			[]string{"kind", "outcome"},
		),

		NotificationBufferSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hiredesk_notification_buffer_size",
			Help: "Current number of notifications waiting in the delivery buffer",
		}),

		WarehouseExportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hiredesk_warehouse_export_duration_seconds",
			Help:    "Duration of warehouse export runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~100s
		}),
	}

	// register all custom metrics
	reg.MustRegister(
		m.HTTPRequestDuration,
		m.ApplicationsReceivedTotal,
		m.NotificationsSentTotal,
		m.NotificationBufferSize,
		m.WarehouseExportDuration,
	)

	return m
}

// RecordHTTPRequest records the duration of an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, durationSeconds float64) {
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
}

// RecordApplicationReceived increments the applications counter.
func (m *Metrics) RecordApplicationReceived() {
	m.ApplicationsReceivedTotal.Inc()
}

// RecordNotificationSent increments the notifications counter.
// outcome is "sent" or "failed".
func (m *Metrics) RecordNotificationSent(kind, outcome string) {
	m.NotificationsSentTotal.WithLabelValues(kind, outcome).Inc()
}

// SetNotificationBufferSize sets the current buffer size gauge.
func (m *Metrics) SetNotificationBufferSize(size int) {
	m.NotificationBufferSize.Set(float64(size))
}

// RecordWarehouseExport records the duration of a warehouse export run.
func (m *Metrics) RecordWarehouseExport(durationSeconds float64) {
	m.WarehouseExportDuration.Observe(durationSeconds)
}
