package observability

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "gravity"

// PrometheusHooks implements every hook interface by recording Prometheus
// metrics. Metrics are registered on the registerer passed to
// [NewPrometheusHooks], so tests can use a private registry.
type PrometheusHooks struct {
	layouts       *prometheus.CounterVec
	layoutLatency prometheus.Histogram
	layoutNodes   prometheus.Histogram
	overflow      prometheus.Counter

	renders       *prometheus.CounterVec
	renderLatency *prometheus.HistogramVec

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	requestInFlight prometheus.Gauge
}

// NewPrometheusHooks creates and registers the gravity metrics on reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		layouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "layout",
			Name:      "runs_total",
			Help:      "Layout computations by status",
		}, []string{"status"}),
		layoutLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "layout",
			Name:      "duration_seconds",
			Help:      "Layout computation latency in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		layoutNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "layout",
			Name:      "nodes",
			Help:      "Number of nodes per layout",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		overflow: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "layout",
			Name:      "overflow_nodes_total",
			Help:      "Nodes the collision resolver could not separate",
		}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "render",
			Name:      "runs_total",
			Help:      "Render runs by formats and status",
		}, []string{"formats", "status"}),
		renderLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Render latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"formats"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes by key type and result",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"key_type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		requestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "API requests currently being served",
		}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// OnLayoutStart implements PipelineHooks.
func (h *PrometheusHooks) OnLayoutStart(context.Context, int) {}

// OnLayoutComplete implements PipelineHooks.
func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, nodeCount, overflow int, d time.Duration, err error) {
	h.layouts.WithLabelValues(status(err)).Inc()
	if err != nil {
		return
	}
	h.layoutLatency.Observe(d.Seconds())
	h.layoutNodes.Observe(float64(nodeCount))
	h.overflow.Add(float64(overflow))
}

// OnRenderStart implements PipelineHooks.
func (h *PrometheusHooks) OnRenderStart(context.Context, []string) {}

// OnRenderComplete implements PipelineHooks.
func (h *PrometheusHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	label := strings.Join(formats, ",")
	h.renders.WithLabelValues(label, status(err)).Inc()
	if err == nil {
		h.renderLatency.WithLabelValues(label).Observe(d.Seconds())
	}
}

// OnCacheHit implements CacheHooks.
func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements CacheHooks.
func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements CacheHooks.
func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements HTTPHooks.
func (h *PrometheusHooks) OnRequest(context.Context, string, string) {
	h.requestInFlight.Inc()
}

// OnResponse implements HTTPHooks.
func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.requestInFlight.Dec()
	h.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
