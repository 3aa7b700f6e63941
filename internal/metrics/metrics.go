package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the service's collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	Submissions     *prometheus.CounterVec
	ValidationFails *prometheus.CounterVec
	Evaluations     *prometheus.CounterVec
	HeaderExtends   *prometheus.CounterVec
	EnrichFailures  *prometheus.CounterVec
	AuthAttempts    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "submissions_total",
			Help:      "Submissions processed, by outcome.",
		}, []string{"outcome"}),
		ValidationFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "validation_failures_total",
			Help:      "Server-side validation failures, by field.",
		}, []string{"field"}),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "evaluations_total",
			Help:      "Evaluator score rows recorded, by team and outcome.",
		}, []string{"team", "outcome"}),
		HeaderExtends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "header_extensions_total",
			Help:      "Header rows rewritten to add new columns, by sheet.",
		}, []string{"sheet"}),
		EnrichFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "score_enrichment_skipped_total",
			Help:      "Score tabs skipped during aggregation, by track and reason.",
		}, []string{"track", "reason"}),
		AuthAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "auth_attempts_total",
			Help:      "Password checks, by scope and outcome.",
		}, []string{"scope", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "intake",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Submissions,
		m.ValidationFails,
		m.Evaluations,
		m.HeaderExtends,
		m.EnrichFailures,
		m.AuthAttempts,
		m.RequestDuration,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request latency by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
