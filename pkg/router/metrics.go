package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures router metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vroute").
	Namespace string

	// Subsystem is the metrics subsystem (default: "router").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for redirect chain lengths.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures router metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vroute",
		Subsystem: "router",
		Buckets:   []float64{1, 2, 3, 5, 10, 25, 50, 100},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records router activity. One Metrics can be shared by many
// routers; a nil *Metrics records nothing.
type Metrics struct {
	navigations   *prometheus.CounterVec
	noops         prometheus.Counter
	rejected      *prometheus.CounterVec
	commits       *prometheus.CounterVec
	chainLength   prometheus.Histogram
	redirectLoops prometheus.Counter
	routes        prometheus.Gauge
}

// NewMetrics registers the router metrics.
//
// Metrics collected:
//   - vroute_router_navigations_total: push/replace calls by mode
//   - vroute_router_noop_navigations_total: navigations to the current location
//   - vroute_router_rejected_navigations_total: failed navigations by reason
//   - vroute_router_commits_total: integration writes by mode
//   - vroute_router_redirect_chain_length: navigations coalesced per commit
//   - vroute_router_redirect_loops_total: passes aborted by the redirect guard
//   - vroute_router_routes: live routes across routers
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of push/replace navigations",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		noops: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "noop_navigations_total",
			Help:        "Navigations to the current location that changed nothing",
			ConstLabels: config.ConstLabels,
		}),

		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rejected_navigations_total",
			Help:        "Navigations that returned an error",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		commits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commits_total",
			Help:        "Location updates written to the integration",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		chainLength: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "redirect_chain_length",
			Help:        "Navigations coalesced into a single commit",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		redirectLoops: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "redirect_loops_total",
			Help:        "Navigations rejected by the redirect guard",
			ConstLabels: config.ConstLabels,
		}),

		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "routes",
			Help:        "Number of live routes",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) navigation(mode UpdateMode) {
	if m != nil {
		m.navigations.WithLabelValues(string(mode)).Inc()
	}
}

func (m *Metrics) noop() {
	if m != nil {
		m.noops.Inc()
	}
}

func (m *Metrics) reject(code string) {
	if m != nil {
		m.rejected.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) redirectLoop() {
	if m != nil {
		m.redirectLoops.Inc()
	}
}

func (m *Metrics) commit(mode UpdateMode, chain int) {
	if m != nil {
		m.commits.WithLabelValues(string(mode)).Inc()
		m.chainLength.Observe(float64(chain))
	}
}

func (m *Metrics) routeAdded() {
	if m != nil {
		m.routes.Inc()
	}
}

func (m *Metrics) routeRemoved() {
	if m != nil {
		m.routes.Dec()
	}
}
