// Package obs holds the Prometheus metrics of the server.
package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors. Each instance owns its registry so tests
// can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	resetRequests    *prometheus.CounterVec
	resetCompletions *prometheus.CounterVec
	mailsSent        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		resetRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "password_reset_requests_total",
			Help: "Password reset requests by outcome.",
		}, []string{"outcome"}),
		resetCompletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "password_reset_completions_total",
			Help: "Password reset completions by outcome.",
		}, []string{"outcome"}),
		mailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mails_sent_total",
			Help: "Outgoing mails by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration,
		m.resetRequests, m.resetCompletions, m.mailsSent,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP records one finished request. route must be a template, never
// the raw path: reset links carry tokens in the path.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	s := strconv.Itoa(status)
	m.httpRequestDuration.WithLabelValues(method, route, s).Observe(d.Seconds())
	m.httpRequestsTotal.WithLabelValues(method, route, s).Inc()
}

func (m *Metrics) InFlight(delta float64) {
	m.httpInFlight.Add(delta)
}

func (m *Metrics) ResetRequested(outcome string) {
	m.resetRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ResetCompleted(outcome string) {
	m.resetCompletions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) MailSent(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mailsSent.WithLabelValues(result).Inc()
}
