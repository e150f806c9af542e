// Package metrics exposes Prometheus collectors for import activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Import outcomes used as the "outcome" label.
const (
	OutcomeLoaded       = "loaded"
	OutcomeInterpolated = "interpolated"
	OutcomeFailed       = "failed"
)

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	imports      *prometheus.CounterVec
	missing      prometheus.Counter
	interpolated prometheus.Counter
	openViewers  prometheus.Gauge
	duration     prometheus.Histogram
}

// New creates and registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		imports: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tsimport_imports_total",
				Help: "Import attempts by outcome (loaded, interpolated, failed)",
			},
			[]string{"outcome"},
		),
		missing: f.NewCounter(prometheus.CounterOpts{
			Name: "tsimport_missing_values_total",
			Help: "Missing cells found in imported tables when interpolation was requested",
		}),
		interpolated: f.NewCounter(prometheus.CounterOpts{
			Name: "tsimport_interpolated_values_total",
			Help: "Missing cells filled by linear interpolation",
		}),
		openViewers: f.NewGauge(prometheus.GaugeOpts{
			Name: "tsimport_open_viewers",
			Help: "Tables currently handed to a viewer",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tsimport_import_duration_seconds",
			Help:    "Time spent loading and interpolating a file",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}

// ObserveImport records one finished import.
func (m *Metrics) ObserveImport(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// AddMissing records missing and filled cell counts of an interpolation step.
func (m *Metrics) AddMissing(found, filled int) {
	if m == nil {
		return
	}
	m.missing.Add(float64(found))
	m.interpolated.Add(float64(filled))
}

// SetOpenViewers updates the open viewer gauge.
func (m *Metrics) SetOpenViewers(n int) {
	if m == nil {
		return
	}
	m.openViewers.Set(float64(n))
}
