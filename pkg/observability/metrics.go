package observability

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rtxi/analysis-tools/pkg/domain"
)

const namespace = "analysis_tools"

// Metrics holds the collectors of one panel process.
type Metrics struct {
	registry *prometheus.Registry

	filesOpened       prometheus.Counter
	openFailures      *prometheus.CounterVec
	trials            prometheus.Counter
	channels          prometheus.Counter
	traversalDuration prometheus.Histogram
	cacheLookups      *prometheus.CounterVec
}

// NewMetrics creates collectors on a private registry, including the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		filesOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_opened_total",
			Help:      "Files opened and classified successfully.",
		}),
		openFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_open_failures_total",
			Help:      "Failed file opens by reason.",
		}, []string{"reason"}),
		trials: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_classified_total",
			Help:      "Trial nodes added to trees.",
		}),
		channels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "channels_classified_total",
			Help:      "Channel nodes added to trees.",
		}),
		traversalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "traversal_duration_seconds",
			Help:      "Time spent walking and classifying a file.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tree_cache_lookups_total",
			Help:      "Tree cache lookups by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.filesOpened,
		m.openFailures,
		m.trials,
		m.channels,
		m.traversalDuration,
		m.cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// FileOpened records a successful open and its traversal time.
func (m *Metrics) FileOpened(d time.Duration) {
	m.filesOpened.Inc()
	m.traversalDuration.Observe(d.Seconds())
}

// OpenFailed records a failed open.
func (m *Metrics) OpenFailed(err error) {
	m.openFailures.WithLabelValues(FailureReason(err)).Inc()
}

func (m *Metrics) TrialAdded()   { m.trials.Inc() }
func (m *Metrics) ChannelAdded() { m.channels.Inc() }

// CacheLookup records a tree cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// FailureReason maps an open error to a low-cardinality label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrFileNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrPermissionDenied):
		return "permission"
	case errors.Is(err, domain.ErrNotHDF5):
		return "not_hdf5"
	case errors.Is(err, domain.ErrCorruptFile):
		return "corrupt"
	case errors.Is(err, domain.ErrTraversal):
		return "traversal"
	}
	return "other"
}
