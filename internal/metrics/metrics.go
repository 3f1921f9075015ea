// Package metrics exposes Prometheus instruments on a private registry.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	snapshots       *prometheus.CounterVec
	subscriptions   *prometheus.GaugeVec
	sessions        prometheus.Gauge
	escalations     *prometheus.CounterVec
	writeFailures   *prometheus.CounterVec
	externalErrors  *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ascend_http_request_duration_seconds",
			Help:    "HTTP request duration by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		snapshots: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ascend_snapshots_total",
			Help: "Collection snapshots applied to sessions.",
		}, []string{"collection"}),
		subscriptions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ascend_active_subscriptions",
			Help: "Open collection listeners across all sessions.",
		}, []string{"collection"}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ascend_active_sessions",
			Help: "Signed-in sessions held by the server.",
		}),
		escalations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ascend_task_escalations_total",
			Help: "Automatic priority escalations by result.",
		}, []string{"result"}),
		writeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ascend_write_failures_total",
			Help: "Failed record writes by operation.",
		}, []string{"operation"}),
		externalErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ascend_external_errors_total",
			Help: "Errors returned by external services.",
		}, []string{"service"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) SnapshotApplied(collection string) {
	if m == nil {
		return
	}
	m.snapshots.WithLabelValues(collection).Inc()
}

func (m *Metrics) SubscriptionStarted(collection string) {
	if m == nil {
		return
	}
	m.subscriptions.WithLabelValues(collection).Inc()
}

func (m *Metrics) SubscriptionStopped(collection string) {
	if m == nil {
		return
	}
	m.subscriptions.WithLabelValues(collection).Dec()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

// Escalation records an automatic escalation outcome: "issued" or "failed".
func (m *Metrics) Escalation(result string) {
	if m == nil {
		return
	}
	m.escalations.WithLabelValues(result).Inc()
}

func (m *Metrics) WriteFailure(operation string) {
	if m == nil {
		return
	}
	m.writeFailures.WithLabelValues(operation).Inc()
}

func (m *Metrics) ExternalError(service string) {
	if m == nil {
		return
	}
	m.externalErrors.WithLabelValues(service).Inc()
}
