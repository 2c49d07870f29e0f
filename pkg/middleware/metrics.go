package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/docroutes/pkg/router"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

// Resolution outcomes used as metric labels.
const (
	OutcomeMatched  = "matched"
	OutcomeFallback = "fallback"
	OutcomeInvalid  = "invalid"
	OutcomeNoMatch  = "no_match"
	OutcomeCanceled = "canceled"
	OutcomeError    = "error"
)

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "docroutes").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for resolution duration.
	// Resolution is in-memory, so the default starts at 10µs.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collector.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
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
		Namespace: "docroutes",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector holds the docroutes metrics. Create one per registry.
type Collector struct {
	resolutions  *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	tableEntries prometheus.Gauge
	tableLeaves  prometheus.Gauge
	reloads      *prometheus.CounterVec
}

// NewCollector registers the metrics with the configured registry.
// Registering twice with the same registry panics.
func NewCollector(opts ...MetricsOption) *Collector {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolutions_total",
			Help:        "Total number of route resolutions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolution_duration_seconds",
			Help:        "Route resolution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"outcome"}),

		tableEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "table_entries",
			Help:        "Number of entries in the current route table",
			ConstLabels: config.ConstLabels,
		}),

		tableLeaves: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "table_leaves",
			Help:        "Number of leaf entries in the current route table",
			ConstLabels: config.ConstLabels,
		}),

		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reloads_total",
			Help:        "Total number of route table reloads by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),
	}
}

// Decorator returns a Decorator recording every resolution.
func (c *Collector) Decorator() Decorator {
	return func(next router.Resolver) router.Resolver {
		return router.ResolverFunc(func(ctx context.Context, path string) (*router.Match, error) {
			start := time.Now()
			match, err := next.Resolve(ctx, path)

			outcome := Outcome(match, err)
			c.duration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
			c.resolutions.WithLabelValues(outcome).Inc()

			return match, err
		})
	}
}

// ObserveTable records the size of a newly loaded table.
func (c *Collector) ObserveTable(t *routetable.Table) {
	s := t.Stats()
	c.tableEntries.Set(float64(s.Entries))
	c.tableLeaves.Set(float64(s.Leaves))
}

// ObserveReload counts a reload attempt. Unchanged reloads are counted
// separately from swaps.
func (c *Collector) ObserveReload(changed bool, err error) {
	switch {
	case err != nil:
		c.reloads.WithLabelValues("error").Inc()
	case changed:
		c.reloads.WithLabelValues("swapped").Inc()
	default:
		c.reloads.WithLabelValues("unchanged").Inc()
	}
}

// Outcome classifies a resolution result. Labels stay low-cardinality.
func Outcome(match *router.Match, err error) string {
	switch {
	case err == nil && match == nil:
		return OutcomeNoMatch
	case err == nil && match.Fallback:
		return OutcomeFallback
	case err == nil:
		return OutcomeMatched
	case errors.Is(err, router.ErrInvalidPath):
		return OutcomeInvalid
	case errors.Is(err, router.ErrNoMatch):
		return OutcomeNoMatch
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}
