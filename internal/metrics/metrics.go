// Package metrics exposes prometheus collectors for toasts and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/colonyops/tada/internal/core/toast"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "tada").
	Namespace string

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is where collectors are registered. Default: a fresh registry,
	// so several instances can coexist in one process.
	Registry *prometheus.Registry
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Metrics holds the collectors.
type Metrics struct {
	registry *prometheus.Registry

	toastsEnqueued *prometheus.CounterVec
	toastsRemoved  prometheus.Counter
	toastsVisible  prometheus.Gauge

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the collectors.
func New(opts ...Option) *Metrics {
	cfg := Config{
		Namespace: "tada",
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		registry: cfg.Registry,

		toastsEnqueued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_enqueued_total",
			Help:      "Total number of toasts shown, by kind",
		}, []string{"kind"}),

		toastsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_removed_total",
			Help:      "Total number of toasts taken off screen",
		}),

		toastsVisible: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_visible",
			Help:      "Number of toasts currently on screen",
		}),

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Watch feeds the toast collectors from n and returns a func that stops
// watching. Queue and Slot report each change; any other Notifier only
// updates the visible gauge.
func (m *Metrics) Watch(n toast.Notifier) (stop func()) {
	switch n := n.(type) {
	case *toast.Queue:
		var mu sync.Mutex
		last := 0
		return n.Subscribe(func(c toast.Change) {
			mu.Lock()
			defer mu.Unlock()

			switch c.Op {
			case toast.OpAdded:
				m.toastsEnqueued.WithLabelValues(string(c.Notification.Kind)).Inc()
			case toast.OpRemoved:
				m.toastsRemoved.Inc()
			case toast.OpCleared:
				m.toastsRemoved.Add(float64(last))
			}
			last = len(c.Items)
			m.toastsVisible.Set(float64(last))
		})

	case *toast.Slot:
		var mu sync.Mutex
		visible := false
		return n.Subscribe(func(s toast.SlotState) {
			mu.Lock()
			defer mu.Unlock()

			// An overwrite displaces the shown toast.
			if visible {
				m.toastsRemoved.Inc()
			}
			visible = s.Visible
			if s.Visible {
				m.toastsEnqueued.WithLabelValues(string(s.Kind)).Inc()
				m.toastsVisible.Set(1)
				return
			}
			m.toastsVisible.Set(0)
		})

	default:
		return n.OnChange(func() {
			m.toastsVisible.Set(float64(len(n.Snapshot())))
		})
	}
}

// Middleware records request counts and durations labelled by the matched
// chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
