package instrument

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/reval-dev/reval/pkg/reval"
)

// CollectorConfig configures the Prometheus collector.
type CollectorConfig struct {
	// Namespace is the metrics namespace (default: "reval").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for recompute duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// CollectorOption configures the Prometheus collector.
type CollectorOption func(*CollectorConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) CollectorOption {
	return func(c *CollectorConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) CollectorOption {
	return func(c *CollectorConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) CollectorOption {
	return func(c *CollectorConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) CollectorOption {
	return func(c *CollectorConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) CollectorOption {
	return func(c *CollectorConfig) {
		c.Registry = registry
	}
}

// defaultCollectorConfig returns the default collector configuration.
func defaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		Namespace: "reval",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector exports Prometheus metrics for projection activity.
// It implements reval.Observer and may be shared across any number of
// projections; series are labeled by projection name.
type Collector struct {
	recomputesTotal   *prometheus.CounterVec
	cacheHitsTotal    *prometheus.CounterVec
	recomputeDuration *prometheus.HistogramVec
}

// NewCollector creates a collector and registers its metrics.
func NewCollector(opts ...CollectorOption) *Collector {
	config := defaultCollectorConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Collector{
		recomputesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "recomputes_total",
			Help:        "Total number of derived value recomputations",
			ConstLabels: config.ConstLabels,
		}, []string{"derived"}),

		cacheHitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cache_hits_total",
			Help:        "Total number of derived reads served from cache",
			ConstLabels: config.ConstLabels,
		}, []string{"derived"}),

		recomputeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "recompute_duration_seconds",
			Help:        "Transformation runtime per recomputation in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"derived"}),
	}
}

// OnRecompute implements reval.Observer.
func (c *Collector) OnRecompute(name string, d time.Duration) {
	c.recomputesTotal.WithLabelValues(name).Inc()
	c.recomputeDuration.WithLabelValues(name).Observe(d.Seconds())
}

// OnCacheHit implements reval.Observer.
func (c *Collector) OnCacheHit(name string) {
	c.cacheHitsTotal.WithLabelValues(name).Inc()
}

var _ reval.Observer = (*Collector)(nil)
