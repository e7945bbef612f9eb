// Package metrics exposes Prometheus metrics for the clock-in service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the registry and every collector of the service.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	identifications    *prometheus.CounterVec
	enrollments        *prometheus.CounterVec
	clockEvents        *prometheus.CounterVec
	extractionDuration prometheus.Histogram
	matchScore         prometheus.Histogram
	profilesEnrolled   prometheus.Gauge
}

// NewManager creates a metrics manager. Without WithRegistry a private registry
// carrying the Go and process collectors is used.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pontoface",
		histogramBuckets: prometheus.DefBuckets,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route"})

	m.identifications = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "identifications_total",
		Help:      "Identification attempts by outcome",
	}, []string{"outcome"})

	m.enrollments = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "profile_operations_total",
		Help:      "Profile register, update and delete operations by result",
	}, []string{"operation", "result"})

	m.clockEvents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "clock_events_total",
		Help:      "Clock-in and clock-out events recorded",
	}, []string{"action"})

	m.extractionDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "embedding_extraction_duration_seconds",
		Help:      "Time spent extracting face embeddings",
		Buckets:   m.histogramBuckets,
	})

	m.matchScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "match_similarity",
		Help:      "Best similarity found per identification",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	})

	m.profilesEnrolled = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "profiles_enrolled",
		Help:      "Number of enrolled profiles",
	})
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveIdentification records an identification outcome
// (recognized, unknown_person, no_persons_found, error) and its best score.
func (m *Manager) ObserveIdentification(outcome string, score float64) {
	m.identifications.WithLabelValues(outcome).Inc()
	if outcome != "error" {
		m.matchScore.Observe(score)
	}
}

func (m *Manager) ObserveProfileOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.enrollments.WithLabelValues(operation, result).Inc()
}

func (m *Manager) ObserveClockEvent(action string) {
	m.clockEvents.WithLabelValues(action).Inc()
}

func (m *Manager) ObserveExtraction(elapsed time.Duration) {
	m.extractionDuration.Observe(elapsed.Seconds())
}

func (m *Manager) SetProfilesEnrolled(n int) {
	m.profilesEnrolled.Set(float64(n))
}
