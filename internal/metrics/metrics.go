// Package metrics holds the prometheus counters for store, image and cache activity.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const Namespace = "ryokou"

// Cache request outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"
)

// Metrics holds all prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ItemsCreated       prometheus.Counter
	ItemsDeleted       prometheus.Counter
	ImageWriteFailures prometheus.Counter
	ImagesMigrated     prometheus.Counter
	CacheRequests      *prometheus.CounterVec
}

// New creates metrics registered on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ItemsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "items_created_total",
			Help:      "The total number of itinerary items created",
		}),
		ItemsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "items_deleted_total",
			Help:      "The total number of itinerary items deleted",
		}),
		ImageWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "image_write_failures_total",
			Help:      "The total number of image writes that failed",
		}),
		ImagesMigrated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "images_migrated_total",
			Help:      "The total number of inline photos moved to image files",
		}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "image_cache_requests_total",
			Help:      "Image cache lookups by outcome",
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.ItemsCreated, m.ItemsDeleted, m.ImageWriteFailures, m.ImagesMigrated, m.CacheRequests)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ItemCreated() {
	if m != nil {
		m.ItemsCreated.Inc()
	}
}

func (m *Metrics) ItemDeleted() {
	if m != nil {
		m.ItemsDeleted.Inc()
	}
}

func (m *Metrics) ImageWriteFailed() {
	if m != nil {
		m.ImageWriteFailures.Inc()
	}
}

func (m *Metrics) ImageMigrated() {
	if m != nil {
		m.ImagesMigrated.Inc()
	}
}

// CacheResult counts one cache lookup with the given outcome.
func (m *Metrics) CacheResult(result string) {
	if m != nil {
		m.CacheRequests.WithLabelValues(result).Inc()
	}
}

// WriteText writes every metric in the Prometheus text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
