package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. Each instance owns
// its registry so tests and Lambda re-inits never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	ReviewsCreated  prometheus.Counter
	StoreConnects   *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ReviewsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "profilr_reviews_created_total",
			Help: "Total number of reviews persisted",
		}),
		StoreConnects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "profilr_store_connects_total",
			Help: "Document store connection attempts by outcome",
		}, []string{"outcome"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "profilr_review_events_total",
			Help: "review.created events by publish outcome",
		}, []string{"outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "profilr_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route", "method", "status"}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncrementReviewsCreated records a successful review insert.
func (m *Metrics) IncrementReviewsCreated() {
	if m == nil {
		return
	}
	m.ReviewsCreated.Inc()
}

// ObserveConnect records a store connection attempt.
func (m *Metrics) ObserveConnect(err error) {
	if m == nil {
		return
	}
	m.StoreConnects.WithLabelValues(outcome(err)).Inc()
}

// ObserveEvent records an event publish attempt.
func (m *Metrics) ObserveEvent(err error) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(outcome(err)).Inc()
}

// ObserveRequest records the duration of one HTTP request.
// Call with time.Now() captured at the start of the request.
func (m *Metrics) ObserveRequest(route, method string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, statusClass(status)).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
