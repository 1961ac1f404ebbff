package observability

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusHooks implements every hook interface on top of Prometheus
// collectors and exposes them through [PrometheusHooks.Handler].
type PrometheusHooks struct {
	gatherer prometheus.Gatherer

	LayoutDurations *prometheus.HistogramVec
	SolveDurations  *prometheus.HistogramVec
	SolveSteps      *prometheus.HistogramVec
	RenderDurations *prometheus.HistogramVec
	StageErrors     *prometheus.CounterVec
	EngineSteps     *prometheus.CounterVec
	EngineRuns      *prometheus.CounterVec
	CacheEvents     *prometheus.CounterVec
	CacheBytes      *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDurations   *prometheus.HistogramVec
}

var durationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// NewPrometheusHooks registers Spantree metrics against reg, defaulting to
// the global Prometheus registry when nil. Registering twice against the same
// registry reuses the existing collectors.
func NewPrometheusHooks(reg prometheus.Registerer) (*PrometheusHooks, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	h := &PrometheusHooks{gatherer: gatherer}
	var err error

	if h.LayoutDurations, err = registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spantree_layout_duration_seconds",
		Help:    "Layout computation latency in seconds, labeled by layout type.",
		Buckets: durationBuckets,
	}, []string{"layout"}), "spantree_layout_duration_seconds"); err != nil {
		return nil, err
	}
	if h.SolveDurations, err = registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spantree_solve_duration_seconds",
		Help:    "Time to run an MST engine to completion, labeled by algorithm.",
		Buckets: durationBuckets,
	}, []string{"algorithm"}), "spantree_solve_duration_seconds"); err != nil {
		return nil, err
	}
	if h.SolveSteps, err = registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spantree_solve_steps",
		Help:    "Number of engine steps needed to complete a run, labeled by algorithm.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"algorithm"}), "spantree_solve_steps"); err != nil {
		return nil, err
	}
	if h.RenderDurations, err = registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spantree_render_duration_seconds",
		Help:    "Rendering latency in seconds, labeled by output formats.",
		Buckets: durationBuckets,
	}, []string{"formats"}), "spantree_render_duration_seconds"); err != nil {
		return nil, err
	}
	if h.StageErrors, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spantree_pipeline_errors_total",
		Help: "Pipeline stage failures, labeled by stage.",
	}, []string{"stage"}), "spantree_pipeline_errors_total"); err != nil {
		return nil, err
	}
	if h.EngineSteps, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spantree_engine_steps_total",
		Help: "Interactive engine steps executed, labeled by algorithm.",
	}, []string{"algorithm"}), "spantree_engine_steps_total"); err != nil {
		return nil, err
	}
	if h.EngineRuns, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spantree_engine_runs_completed_total",
		Help: "Interactive engine runs that reached completion, labeled by algorithm.",
	}, []string{"algorithm"}), "spantree_engine_runs_completed_total"); err != nil {
		return nil, err
	}
	if h.CacheEvents, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spantree_cache_events_total",
		Help: "Cache lookups and writes, labeled by key type and event (hit, miss, set).",
	}, []string{"key_type", "event"}), "spantree_cache_events_total"); err != nil {
		return nil, err
	}
	if h.CacheBytes, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spantree_cache_written_bytes_total",
		Help: "Bytes written to the cache, labeled by key type.",
	}, []string{"key_type"}), "spantree_cache_written_bytes_total"); err != nil {
		return nil, err
	}
	if h.HTTPRequests, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spantree_http_requests_total",
		Help: "API requests, labeled by method, route and status code.",
	}, []string{"method", "route", "code"}), "spantree_http_requests_total"); err != nil {
		return nil, err
	}
	if h.HTTPDurations, err = registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spantree_http_request_duration_seconds",
		Help:    "API request latency in seconds.",
		Buckets: durationBuckets,
	}, []string{"method", "route"}), "spantree_http_request_duration_seconds"); err != nil {
		return nil, err
	}
	return h, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (h *PrometheusHooks) Handler() http.Handler {
	gatherer := h.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Register installs h as the pipeline, engine, cache and HTTP hooks.
func (h *PrometheusHooks) Register() {
	SetPipelineHooks(h)
	SetEngineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

// =============================================================================
// Hook implementations
// =============================================================================

func (h *PrometheusHooks) OnLayoutStart(context.Context, string, int) {}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, layoutType string, d time.Duration, err error) {
	h.LayoutDurations.WithLabelValues(layoutType).Observe(d.Seconds())
	h.countError("layout", err)
}

func (h *PrometheusHooks) OnSolveStart(context.Context, string, int, int) {}

func (h *PrometheusHooks) OnSolveComplete(_ context.Context, algorithm string, steps int, d time.Duration, err error) {
	h.SolveDurations.WithLabelValues(algorithm).Observe(d.Seconds())
	h.SolveSteps.WithLabelValues(algorithm).Observe(float64(steps))
	h.countError("solve", err)
}

func (h *PrometheusHooks) OnRenderStart(context.Context, []string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.RenderDurations.WithLabelValues(strings.Join(formats, ",")).Observe(d.Seconds())
	h.countError("render", err)
}

func (h *PrometheusHooks) OnStep(_ context.Context, algorithm string, _ int, completed bool) {
	h.EngineSteps.WithLabelValues(algorithm).Inc()
	if completed {
		h.EngineRuns.WithLabelValues(algorithm).Inc()
	}
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheEvents.WithLabelValues(keyType, "set").Inc()
	h.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.HTTPDurations.WithLabelValues(method, route).Observe(d.Seconds())
}

func (h *PrometheusHooks) countError(stage string, err error) {
	if err != nil {
		h.StageErrors.WithLabelValues(stage).Inc()
	}
}

// =============================================================================
// Registration helpers
// =============================================================================

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
