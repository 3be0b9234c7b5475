package dropzone

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the widget metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "dropzone").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for submit duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the widget metrics.
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

// Metrics holds the submission metrics of a widget.
//
//   - dropzone_submissions_total: submissions by outcome
//   - dropzone_files_total: files sent in submissions that reached the network
//   - dropzone_submit_duration_seconds: submit duration by outcome
type Metrics struct {
	submissions *prometheus.CounterVec
	files       prometheus.Counter
	duration    *prometheus.HistogramVec
}

// NewMetrics creates and registers the widget metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := MetricsConfig{
		Namespace: "dropzone",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "submissions_total",
			Help:        "Total number of upload submissions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		files: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "files_total",
			Help:        "Total number of files sent",
			ConstLabels: config.ConstLabels,
		}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "submit_duration_seconds",
			Help:        "Upload submission duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"outcome"}),
	}
}

// observe records one settled submission. Safe on a nil receiver.
func (m *Metrics) observe(res Result, d time.Duration) {
	if m == nil {
		return
	}
	outcome := res.Outcome.String()
	m.submissions.WithLabelValues(outcome).Inc()
	if res.Outcome == OutcomeBusy {
		return
	}
	m.files.Add(float64(res.Files))
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}
