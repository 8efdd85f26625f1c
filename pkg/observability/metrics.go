package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements every hook interface on top of Prometheus. Each
// instance owns its registry, so tests can create as many as they like
// without duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	stageDuration  *prometheus.HistogramVec
	stageErrors    *prometheus.CounterVec
	layoutRuns     *prometheus.CounterVec
	layoutDuration prometheus.Histogram
	crossings      prometheus.Histogram
	cacheOps       *prometheus.CounterVec
	artifactBytes  *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewMetrics creates a collector under the given namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Pipeline stage failures",
		}, []string{"stage"}),
		layoutRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_runs_total",
			Help:      "Layout runs by direction and outcome",
		}, []string{"direction", "status"}),
		layoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Layout run duration",
			Buckets:   prometheus.DefBuckets,
		}),
		crossings: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_crossings",
			Help:      "Edge crossings remaining after ordering",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_ops_total",
			Help:      "Cache operations by key type and outcome",
		}, []string{"type", "op"}),
		artifactBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "artifact_bytes",
			Help:      "Size of rendered artifacts",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}, []string{"format"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.stageDuration, m.stageErrors,
		m.layoutRuns, m.layoutDuration, m.crossings,
		m.cacheOps, m.artifactBytes,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// Install registers this collector as the handler for every hook category.
func (m *Metrics) Install() {
	SetPipelineHooks(m)
	SetLayoutHooks(m)
	SetCacheHooks(m)
	SetServerHooks(m)
}

// Handler serves the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) stageDone(stage string, duration time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(stage).Inc()
	}
}

// PipelineHooks

func (m *Metrics) OnLoadStart(context.Context) {}

func (m *Metrics) OnLoadComplete(_ context.Context, nodes, edges int, duration time.Duration, err error) {
	m.stageDone("load", duration, err)
}

func (m *Metrics) OnComposeStart(context.Context, int) {}

func (m *Metrics) OnComposeComplete(_ context.Context, duration time.Duration, err error) {
	m.stageDone("compose", duration, err)
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, bytes int, duration time.Duration, err error) {
	m.stageDone("render", duration, err)
	if err == nil {
		m.artifactBytes.WithLabelValues(format).Observe(float64(bytes))
	}
}

// LayoutHooks

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, direction string, crossings int, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.layoutRuns.WithLabelValues(direction, status).Inc()
	if err == nil {
		m.layoutDuration.Observe(duration.Seconds())
		m.crossings.Observe(float64(crossings))
	}
}

// CacheHooks

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
}

// ServerHooks

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ LayoutHooks   = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ ServerHooks   = (*Metrics)(nil)
)
