// Package metrics exposes Prometheus collectors for analyses, claims,
// review lookups and HTTP traffic
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "claimaudit"

// Outcome labels for analyses
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	httpDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	analysisDurationBuckets = []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300, 600}
)

// Metrics holds the application collectors on a private registry.
// Every method is safe on a nil receiver, so components take an optional *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AnalysesTotal       *prometheus.CounterVec
	AnalysisDuration    *prometheus.HistogramVec
	ClaimsTotal         *prometheus.CounterVec
	FallbacksTotal      prometheus.Counter
	ReviewLookupsTotal  *prometheus.CounterVec
	ReviewsCollected    *prometheus.CounterVec
}

// New registers all collectors. withRuntime adds the Go and process collectors.
func New(withRuntime bool) *Metrics {
	registry := prometheus.NewRegistry()
	if withRuntime {
		registry.MustRegister(
			prometheus.NewGoCollector(),
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: namespace}),
		)
	}

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests",
		}, []string{"method", "path", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request duration",
			Buckets: httpDurationBuckets,
		}, []string{"method", "path"}),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "analyses_total", Help: "Document analyses by mode and outcome",
		}, []string{"mode", "outcome"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "analysis_duration_seconds", Help: "Document analysis duration",
			Buckets: analysisDurationBuckets,
		}, []string{"mode"}),
		ClaimsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "claims_total", Help: "Reported claims by category and verdict",
		}, []string{"category", "verdict"}),
		FallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pattern_fallbacks_total", Help: "Model-driven runs that fell back to pattern matching",
		}),
		ReviewLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "review_lookups_total", Help: "University review lookups by search status",
		}, []string{"status"}),
		ReviewsCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "reviews_collected_total", Help: "Reviews collected by sentiment list",
		}, []string{"list"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.ClaimsTotal,
		m.FallbacksTotal,
		m.ReviewLookupsTotal,
		m.ReviewsCollected,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveAnalysis records one finished document analysis
func (m *Metrics) ObserveAnalysis(mode, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(mode, outcome).Inc()
	m.AnalysisDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// ObserveClaim counts one reported claim
func (m *Metrics) ObserveClaim(category, verdict string) {
	if m == nil {
		return
	}
	m.ClaimsTotal.WithLabelValues(category, verdict).Inc()
}

// ObserveFallback counts one fallback from the model-driven pipeline
func (m *Metrics) ObserveFallback() {
	if m == nil {
		return
	}
	m.FallbacksTotal.Inc()
}

// ObserveReviewLookup records a university lookup and its review counts
func (m *Metrics) ObserveReviewLookup(status string, negative, positive int) {
	if m == nil {
		return
	}
	m.ReviewLookupsTotal.WithLabelValues(status).Inc()
	m.ReviewsCollected.WithLabelValues("negative").Add(float64(negative))
	m.ReviewsCollected.WithLabelValues("positive").Add(float64(positive))
}
