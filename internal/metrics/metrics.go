// Package metrics exposes Prometheus counters for the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"promptpilot/internal/services"
	"promptpilot/pkg/categorizer"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "promptpilot"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	tokens     *prometheus.CounterVec
	categories *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"route", "method"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_tokens_total",
			Help:      "Tokens reported by the completion provider.",
		}, []string{"operation", "provider", "model", "kind"}),
		categories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompt_categories_total",
			Help:      "Assigned prompt categories by operation.",
		}, []string{"operation", "category"}),
	}
	m.registry.MustRegister(
		m.requests, m.latency, m.tokens, m.categories,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware records request counts and latency keyed by the matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCompletion implements services.UsageObserver.
func (m *Metrics) ObserveCompletion(operation, provider, model string, usage services.Usage) {
	m.tokens.WithLabelValues(operation, provider, model, "prompt").Add(float64(usage.PromptTokens))
	m.tokens.WithLabelValues(operation, provider, model, "completion").Add(float64(usage.CompletionTokens))
}

// ObserveCategory implements services.UsageObserver.
func (m *Metrics) ObserveCategory(operation string, category categorizer.Category) {
	m.categories.WithLabelValues(operation, category.String()).Inc()
}

var _ services.UsageObserver = (*Metrics)(nil)
