package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Withdrawal outcomes used as the "outcome" label
const (
	OutcomeApplied           = "applied"
	OutcomeReplayed          = "replayed"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomeAccountNotFound   = "account_not_found"
	OutcomeValidation        = "validation_error"
	OutcomeLockTimeout       = "lock_timeout"
	OutcomeError             = "error"
)

// WalletMetrics holds the Prometheus collectors scraped from /metrics.
// It records withdrawal outcomes, lock waits, outbox relay results and
// HTTP traffic on a private registry.
type WalletMetrics struct {
	registry *prometheus.Registry

	withdrawals        *prometheus.CounterVec
	withdrawalDuration *prometheus.HistogramVec
	lockWait           prometheus.Histogram
	relayed            *prometheus.CounterVec
	relayFailures      *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// NewWalletMetrics registers every collector, plus the Go runtime and
// process collectors, under namespace
func NewWalletMetrics(namespace string) *WalletMetrics {
	registry := prometheus.NewRegistry()
	m := &WalletMetrics{
		registry: registry,
		withdrawals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withdrawals_total",
			Help:      "Withdrawal requests by outcome",
		}, []string{"outcome"}),
		withdrawalDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "withdrawal_duration_seconds",
			Help:      "Withdrawal latency by outcome, lock wait included",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for an account lock",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10},
		}),
		relayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_relayed_total",
			Help:      "Outbox events delivered to the event bus",
		}, []string{"event_type"}),
		relayFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_relay_failures_total",
			Help:      "Failed outbox deliveries; dead=true once retries are exhausted",
		}, []string{"event_type", "dead"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.withdrawals,
		m.withdrawalDuration,
		m.lockWait,
		m.relayed,
		m.relayFailures,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry returns the private registry
func (m *WalletMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *WalletMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveWithdrawal records one finished withdrawal
func (m *WalletMetrics) ObserveWithdrawal(outcome string, d time.Duration) {
	m.withdrawals.WithLabelValues(outcome).Inc()
	m.withdrawalDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveLockWait records how long a caller waited for an account lock
func (m *WalletMetrics) ObserveLockWait(d time.Duration) {
	m.lockWait.Observe(d.Seconds())
}

// EventRelayed implements event.RelayObserver
func (m *WalletMetrics) EventRelayed(eventType string) {
	m.relayed.WithLabelValues(eventType).Inc()
}

// EventRelayFailed implements event.RelayObserver
func (m *WalletMetrics) EventRelayFailed(eventType string, dead bool) {
	m.relayFailures.WithLabelValues(eventType, strconv.FormatBool(dead)).Inc()
}

// ObserveHTTPRequest records one served request
func (m *WalletMetrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
