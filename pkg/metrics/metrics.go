// Package metrics instruments the reconciliation engine with Prometheus.
//
// A Recorder owns its own registry so several apps (and tests) can record
// side by side. Every method is safe to call on a nil *Recorder, which is how
// the engine runs when metrics are disabled.
//
// Metrics collected:
//   - relax_mounts_total: vnodes mounted, by kind
//   - relax_destroys_total: vnodes destroyed, by kind
//   - relax_edit_operations_total: child reconciliation operations, by op
//   - relax_patch_duration_seconds: component patch duration
//   - relax_host_mutations_total: host tree mutations, by op
//   - relax_scheduler_jobs_total: scheduler jobs, by status
//   - relax_scheduler_queue_depth: jobs waiting for the next flush
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Job statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusPanic = "panic"
)

// Config configures a Recorder.
type Config struct {
	// Namespace is the metrics namespace (default: "relax").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for patch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry receives the collectors. Default: a fresh registry.
	Registry *prometheus.Registry

	// RuntimeCollectors also registers the Go and process collectors.
	RuntimeCollectors bool
}

// Option configures a Recorder.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithRuntimeCollectors enables the Go and process collectors.
func WithRuntimeCollectors() Option {
	return func(c *Config) {
		c.RuntimeCollectors = true
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "relax",
		Buckets:   prometheus.DefBuckets,
	}
}

// Recorder records engine metrics.
type Recorder struct {
	registry *prometheus.Registry

	mounts        *prometheus.CounterVec
	destroys      *prometheus.CounterVec
	editOps       *prometheus.CounterVec
	patchDuration prometheus.Histogram
	hostMutations *prometheus.CounterVec
	jobs          *prometheus.CounterVec
	queueDepth    prometheus.Gauge
}

// New creates a Recorder and registers its collectors.
func New(opts ...Option) *Recorder {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if config.RuntimeCollectors {
		config.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	factory := promauto.With(config.Registry)
	return &Recorder{
		registry: config.Registry,

		mounts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "mounts_total",
			Help:        "Total number of virtual nodes mounted",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		destroys: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "destroys_total",
			Help:        "Total number of virtual nodes destroyed",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		editOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "edit_operations_total",
			Help:        "Child reconciliation operations applied",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		patchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "patch_duration_seconds",
			Help:        "Component patch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		hostMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "host_mutations_total",
			Help:        "Host tree mutations by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		jobs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "scheduler",
			Name:        "jobs_total",
			Help:        "Scheduler jobs run by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   "scheduler",
			Name:        "queue_depth",
			Help:        "Jobs waiting for the next flush",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Mount counts a mounted node of the given kind.
func (r *Recorder) Mount(kind string) {
	if r == nil {
		return
	}
	r.mounts.WithLabelValues(kind).Inc()
}

// Destroy counts a destroyed node of the given kind.
func (r *Recorder) Destroy(kind string) {
	if r == nil {
		return
	}
	r.destroys.WithLabelValues(kind).Inc()
}

// EditOps adds n reconciliation operations of the given op.
func (r *Recorder) EditOps(op string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.editOps.WithLabelValues(op).Add(float64(n))
}

// ObservePatch records a component patch duration.
func (r *Recorder) ObservePatch(d time.Duration) {
	if r == nil {
		return
	}
	r.patchDuration.Observe(d.Seconds())
}

// HostMutation counts a host mutation.
func (r *Recorder) HostMutation(op string) {
	if r == nil {
		return
	}
	r.hostMutations.WithLabelValues(op).Inc()
}

// Job counts a finished scheduler job.
func (r *Recorder) Job(status string) {
	if r == nil {
		return
	}
	r.jobs.WithLabelValues(status).Inc()
}

// QueueDepth sets the scheduler queue depth.
func (r *Recorder) QueueDepth(n int) {
	if r == nil {
		return
	}
	r.queueDepth.Set(float64(n))
}
