package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-operation outcomes for a service.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// LobbyMetrics adds queue and draft gauges on top of Metrics.
type LobbyMetrics interface {
	Metrics
	RecordQueueLength(ctx context.Context, channelID string, length int)
	RecordDraftStarted(ctx context.Context, channelID string)
	RecordPlayersEvicted(ctx context.Context, count int)
}

// PrometheusMetrics implements LobbyMetrics with client_golang collectors.
type PrometheusMetrics struct {
	attempts     *prometheus.CounterVec
	successes    *prometheus.CounterVec
	failures     *prometheus.CounterVec
	durations    *prometheus.HistogramVec
	queueLength  *prometheus.GaugeVec
	draftsStart  *prometheus.CounterVec
	evictedTotal prometheus.Counter
}

// NewPrometheusMetrics registers the collectors on reg under namespace.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) *PrometheusMetrics {
	m := &PrometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, []string{"operation", "service"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_success_total",
			Help:      "Service operations that completed without error.",
		}, []string{"operation", "service"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failure_total",
			Help:      "Service operations that returned an error or panicked.",
		}, []string{"operation", "service"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		queueLength: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Players currently queued per lobby.",
		}, []string{"channel_id"}),
		draftsStart: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_started_total",
			Help:      "Drafts started per lobby.",
		}, []string{"channel_id"}),
		evictedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_timeout_evictions_total",
			Help:      "Queued players removed by the timeout sweep.",
		}),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.durations, m.queueLength, m.draftsStart, m.evictedTotal)
	return m
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.durations.WithLabelValues(operation, service).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordQueueLength(_ context.Context, channelID string, length int) {
	m.queueLength.WithLabelValues(channelID).Set(float64(length))
}

func (m *PrometheusMetrics) RecordDraftStarted(_ context.Context, channelID string) {
	m.draftsStart.WithLabelValues(channelID).Inc()
}

func (m *PrometheusMetrics) RecordPlayersEvicted(_ context.Context, count int) {
	m.evictedTotal.Add(float64(count))
}

// NoOpMetrics discards everything. Used in tests.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, string) {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, string) {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string) {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOpMetrics) RecordQueueLength(context.Context, string, int) {}
func (NoOpMetrics) RecordDraftStarted(context.Context, string) {}
func (NoOpMetrics) RecordPlayersEvicted(context.Context, int) {}

var (
	_ LobbyMetrics = (*PrometheusMetrics)(nil)
	_ LobbyMetrics = NoOpMetrics{}
)
