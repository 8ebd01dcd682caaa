// Package metrics defines the Prometheus collectors used during a scan. They
// live on a private registry and are dumped in text exposition format at the
// end of a run instead of being served over HTTP.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Skip reasons used as the "reason" label of FilesSkippedTotal.
const (
	SkipUnreadable = "unreadable"
	SkipTimeout    = "timeout"
	SkipCollector  = "collector"
)

// Metrics holds all Prometheus collectors for one run.
type Metrics struct {
	FilesScannedTotal    prometheus.Counter
	FilesSkippedTotal    *prometheus.CounterVec
	TraversalErrorsTotal prometheus.Counter
	TermsMatchedTotal    prometheus.Counter
	BytesScannedTotal    prometheus.Counter
	RecordDuration       prometheus.Histogram
	PhaseDuration        *prometheus.HistogramVec
	DirectoriesTracked   prometheus.Gauge
	InternedTerms        prometheus.Gauge

	registry *prometheus.Registry
}

// New creates all collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		FilesScannedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "termhist_files_scanned_total",
				Help: "Files whose term counts reached the session store.",
			},
		),
		FilesSkippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termhist_files_skipped_total",
				Help: "Files skipped by reason (unreadable, timeout, collector).",
			},
			[]string{"reason"},
		),
		TraversalErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "termhist_traversal_errors_total",
				Help: "Paths the walker could not visit.",
			},
		),
		TermsMatchedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "termhist_terms_matched_total",
				Help: "Pattern matches delivered to collectors.",
			},
		),
		BytesScannedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "termhist_bytes_scanned_total",
				Help: "Bytes read from scanned files.",
			},
		),
		RecordDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "termhist_record_duration_seconds",
				Help:    "Time spent inside the session store critical section per file.",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
		),
		PhaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termhist_phase_duration_seconds",
				Help:    "Wall time of each run phase (run, scan, render).",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"phase"},
		),
		DirectoriesTracked: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "termhist_directories_tracked",
				Help: "Aggregates held by the session store.",
			},
		),
		InternedTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "termhist_interned_terms",
				Help: "Distinct terms in the process-wide interner.",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.FilesScannedTotal,
		m.FilesSkippedTotal,
		m.TraversalErrorsTotal,
		m.TermsMatchedTotal,
		m.BytesScannedTotal,
		m.RecordDuration,
		m.PhaseDuration,
		m.DirectoriesTracked,
		m.InternedTerms,
	)

	return m
}

// ObservePhase records the duration of a finished run phase.
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	m.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// Gatherer exposes the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteText encodes every gathered metric family to w in the Prometheus
// text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
