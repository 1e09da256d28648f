package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "evotree"

// Metrics implements every hook interface on top of Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	resolves        *prometheus.CounterVec
	resolveDuration *prometheus.HistogramVec
	lineageDepth    prometheus.Histogram
	lineageErrors   prometheus.Counter
	treeSaves       *prometheus.CounterVec
	treeNodes       prometheus.Gauge
	cacheEvents     *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpErrors      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg gets a fresh registry with Go and process collectors.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			prometheus.NewGoCollector(),
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: namespace}),
		)
	}
	m := &Metrics{
		registry: reg,
		resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "resolve_total",
			Help: "Species-name resolutions by winning stage and outcome.",
		}, []string{"stage", "outcome"}),
		resolveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "resolve_duration_seconds",
			Help:    "Time spent resolving a species name.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		lineageDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "lineage_depth",
			Help:    "Number of nodes in fetched lineage paths.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
		lineageErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "lineage_errors_total",
			Help: "Failed lineage fetches.",
		}),
		treeSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "tree_saves_total",
			Help: "Writes of the persisted tree by outcome.",
		}, []string{"outcome"}),
		treeNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "tree_nodes",
			Help: "Node count of the most recently saved tree.",
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_events_total",
			Help: "Cache hits, misses and writes by key type.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_written_bytes_total",
			Help: "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "upstream_requests_total",
			Help: "Requests to the taxonomy service by host and status.",
		}, []string{"host", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "upstream_request_duration_seconds",
			Help:    "Latency of taxonomy-service requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"host"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "upstream_errors_total",
			Help: "Network failures talking to the taxonomy service.",
		}, []string{"host"}),
	}
	reg.MustRegister(
		m.resolves, m.resolveDuration, m.lineageDepth, m.lineageErrors,
		m.treeSaves, m.treeNodes, m.cacheEvents, m.cacheBytes,
		m.httpRequests, m.httpDuration, m.httpErrors,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Install registers m as the resolve, cache and HTTP hooks.
func (m *Metrics) Install() {
	SetResolveHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnResolveStart(context.Context, string) {}

func (m *Metrics) OnResolveComplete(_ context.Context, _ string, stage string, d time.Duration, err error) {
	if stage == "" {
		stage = "none"
	}
	m.resolves.WithLabelValues(stage, outcome(err)).Inc()
	m.resolveDuration.WithLabelValues(outcome(err)).Observe(d.Seconds())
}

func (m *Metrics) OnLineageComplete(_ context.Context, depth int, _ time.Duration, err error) {
	if err != nil {
		m.lineageErrors.Inc()
		return
	}
	m.lineageDepth.Observe(float64(depth))
}

func (m *Metrics) OnTreeSave(_ context.Context, nodes int, _ time.Duration, err error) {
	m.treeSaves.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		m.treeNodes.Set(float64(nodes))
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(host, http.StatusText(status)).Inc()
	m.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.httpErrors.WithLabelValues(host).Inc()
}

var (
	_ ResolveHooks = (*Metrics)(nil)
	_ CacheHooks   = (*Metrics)(nil)
	_ HTTPHooks    = (*Metrics)(nil)
)
