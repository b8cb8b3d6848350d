package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	HTTPRequestTotal    *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	IncidentOperationTotal    *prometheus.CounterVec
	IncidentOperationDuration *prometheus.HistogramVec
	OptimisticRetries         *prometheus.CounterVec

	EventPublishTotal *prometheus.CounterVec
	WebhookDelivery   *prometheus.CounterVec

	ActiveIncidents prometheus.Gauge
}

var (
	globalMetrics *Metrics
	metricsMutex  sync.Mutex
)

// New returns the process-wide metrics, registering them on first use.
func New() *Metrics {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()

	if globalMetrics != nil {
		return globalMetrics
	}

	m := &Metrics{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		IncidentOperationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "incident_operations_total",
			Help: "Incident operations by outcome",
		}, []string{"operation", "status"}),

		IncidentOperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "incident_operation_duration_seconds",
			Help:    "Incident operation duration in seconds, including retries",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),

		OptimisticRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "incident_optimistic_retries_total",
			Help: "Operations re-run after a version conflict",
		}, []string{"operation"}),

		EventPublishTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Events handed to the external stream",
		}, []string{"event_type", "status"}),

		WebhookDelivery: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Webhook delivery attempts by outcome",
		}, []string{"status"}),

		ActiveIncidents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "incidents_active",
			Help: "Active incidents in the last cache refresh",
		}),
	}

	m.HTTPRequestTotal = registerOrGet(m.HTTPRequestTotal)
	m.HTTPRequestDuration = registerOrGet(m.HTTPRequestDuration)
	m.IncidentOperationTotal = registerOrGet(m.IncidentOperationTotal)
	m.IncidentOperationDuration = registerOrGet(m.IncidentOperationDuration)
	m.OptimisticRetries = registerOrGet(m.OptimisticRetries)
	m.EventPublishTotal = registerOrGet(m.EventPublishTotal)
	m.WebhookDelivery = registerOrGet(m.WebhookDelivery)
	m.ActiveIncidents = registerOrGet(m.ActiveIncidents)

	globalMetrics = m
	return m
}

// ObserveOperation records one finished incident operation.
func (m *Metrics) ObserveOperation(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.IncidentOperationTotal.WithLabelValues(operation, outcome(err)).Inc()
	m.IncidentOperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveRetry(operation string) {
	if m == nil {
		return
	}
	m.OptimisticRetries.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObservePublish(eventType string, err error) {
	if m == nil {
		return
	}
	m.EventPublishTotal.WithLabelValues(eventType, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func registerOrGet[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}
