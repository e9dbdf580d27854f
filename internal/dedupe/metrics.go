package dedupe

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "folio"

// Metrics records run summaries on a private registry so they can be
// exported as a node-exporter textfile after a batch run.
type Metrics struct {
	registry    *prometheus.Registry
	groups      *prometheus.CounterVec
	identifiers *prometheus.CounterVec
	duration    prometheus.Histogram
	constrained prometheus.Gauge
	lastRun     prometheus.Gauge
}

// NewMetrics registers the dedupe collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		groups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "dedupe",
				Name:      "groups_total",
				Help:      "Conflicting identifier groups by outcome",
			},
			[]string{"outcome"},
		),
		identifiers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "convert",
				Name:      "identifiers_total",
				Help:      "Identifiers seen by the codec pre-pass by result",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "dedupe",
				Name:      "run_duration_seconds",
				Help:      "Wall time of a dedupe run",
				Buckets:   []float64{1, 5, 15, 60, 300, 900, 3600},
			},
		),
		constrained: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "dedupe",
				Name:      "constrained",
				Help:      "1 when the unique identifier index is in place after the run",
			},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "dedupe",
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time the last run finished",
			},
		),
	}
	m.registry.MustRegister(m.groups, m.identifiers, m.duration, m.constrained, m.lastRun)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records one run.
func (m *Metrics) Observe(summary Summary) {
	m.groups.WithLabelValues("merged").Add(float64(summary.Merged))
	m.groups.WithLabelValues("disowned").Add(float64(summary.Disowned))
	m.groups.WithLabelValues("already_resolved").Add(float64(summary.AlreadyResolved))
	m.groups.WithLabelValues("errored").Add(float64(summary.Errored - summary.Inconsistent))
	m.groups.WithLabelValues("inconsistent_state").Add(float64(summary.Inconsistent))

	m.identifiers.WithLabelValues("synthesized").Add(float64(summary.Convert.Synthesized))
	m.identifiers.WithLabelValues("invalid").Add(float64(summary.Convert.Invalid))

	m.duration.Observe(summary.Duration.Seconds())
	if summary.Constrained {
		m.constrained.Set(1)
	} else {
		m.constrained.Set(0)
	}
	m.lastRun.Set(float64(summary.FinishedAt.Unix()))
}

// WriteTextfile writes the registry in Prometheus text format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
