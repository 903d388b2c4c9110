package observability

import (
	"time"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the CRM.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	mutations       *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	aiCalls         *prometheus.CounterVec
	notifications   *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crm_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_repository_mutations_total",
				Help: "Total repository mutations by entity and action.",
			},
			[]string{"entity", "action"},
		),
		persistFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_persist_failures_total",
				Help: "Total failed collection writes by persistence key.",
			},
			[]string{"key"},
		),
		aiCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_ai_calls_total",
				Help: "Total AI gateway calls by operation and status.",
			},
			[]string{"operation", "status"},
		),
		notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_notifications_total",
				Help: "Total notifications published by severity.",
			},
			[]string{"severity"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrMutation counts a repository mutation.
func (m *Metrics) IncrMutation(entity, action string) {
	m.mutations.WithLabelValues(entity, action).Inc()
}

// IncrPersistFailure counts a failed collection write.
func (m *Metrics) IncrPersistFailure(key string) {
	m.persistFailures.WithLabelValues(key).Inc()
}

// IncrAICall counts an AI gateway call by outcome: success, error or unavailable.
func (m *Metrics) IncrAICall(operation, status string) {
	m.aiCalls.WithLabelValues(operation, status).Inc()
}

// IncrNotification counts a published notification.
func (m *Metrics) IncrNotification(severity string) {
	m.notifications.WithLabelValues(severity).Inc()
}

// GetAISnapshot returns cumulative AI gateway counters suitable for the
// GET /v1/metrics/ai endpoint.
func (m *Metrics) GetAISnapshot() *domain.AIMetrics {
	var total, failures float64

	ch := make(chan prometheus.Metric, 64)
	go func() {
		m.aiCalls.Collect(ch)
		close(ch)
	}()
	for metric := range ch {
		pb := &dto.Metric{}
		if err := metric.Write(pb); err != nil || pb.Counter == nil {
			continue
		}
		v := pb.Counter.GetValue()
		total += v
		for _, lp := range pb.Label {
			if lp.GetName() == "status" && lp.GetValue() == "error" {
				failures += v
			}
		}
	}

	errorRate := float64(0)
	if total > 0 {
		errorRate = failures / total
	}

	return &domain.AIMetrics{
		TotalRequests: int64(total),
		Failures:      int64(failures),
		ErrorRate:     errorRate,
		Period:        "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

// MutationCount returns how many times entity/action was recorded.
func (m *Metrics) MutationCount(entity, action string) float64 {
	return getCounterValue(m.mutations, entity, action)
}

// PersistFailureCount returns how many writes to key failed.
func (m *Metrics) PersistFailureCount(key string) float64 {
	return getCounterValue(m.persistFailures, key)
}
