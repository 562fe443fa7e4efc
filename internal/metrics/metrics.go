// Package metrics exposes Prometheus counters for the interchange
// operations.
package metrics

import (
	"strings"
	"time"

	"quizdeck/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quizdeck"

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	importRequests  *prometheus.CounterVec
	importedRecords *prometheus.CounterVec
	exportRequests  *prometheus.CounterVec
	exportedRecords *prometheus.CounterVec
	snapshots       *prometheus.CounterVec
	duration        *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		importRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_requests_total",
			Help:      "Import requests by entity kind and outcome.",
		}, []string{"kind", "outcome"}),
		importedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_records_total",
			Help:      "Records persisted by imports, by entity kind.",
		}, []string{"kind"}),
		exportRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_requests_total",
			Help:      "Export requests by entity kind and outcome.",
		}, []string{"kind", "outcome"}),
		exportedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exported_records_total",
			Help:      "Records written by exports, by entity kind.",
		}, []string{"kind"}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_replacements_total",
			Help:      "Database snapshot replacement attempts by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of import, export and snapshot operations.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"operation", "kind"}),
	}
	reg.MustRegister(m.importRequests, m.importedRecords, m.exportRequests, m.exportedRecords, m.snapshots, m.duration)
	return m
}

// Outcome is the label value for err: "success", the lower-cased domain
// code, or "error".
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	if code := domain.CodeOf(err); code != "" {
		return strings.ToLower(string(code))
	}
	return "error"
}

func (m *Metrics) ObserveImport(kind domain.EntityKind, records int64, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.importRequests.WithLabelValues(string(kind), Outcome(err)).Inc()
	if err == nil && records > 0 {
		m.importedRecords.WithLabelValues(string(kind)).Add(float64(records))
	}
	m.duration.WithLabelValues("import", string(kind)).Observe(took.Seconds())
}

func (m *Metrics) ObserveExport(kind domain.EntityKind, records int, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.exportRequests.WithLabelValues(string(kind), Outcome(err)).Inc()
	if err == nil && records > 0 {
		m.exportedRecords.WithLabelValues(string(kind)).Add(float64(records))
	}
	m.duration.WithLabelValues("export", string(kind)).Observe(took.Seconds())
}

func (m *Metrics) ObserveSnapshot(took time.Duration, err error) {
	if m == nil {
		return
	}
	m.snapshots.WithLabelValues(Outcome(err)).Inc()
	m.duration.WithLabelValues("snapshot", string(domain.KindDatabase)).Observe(took.Seconds())
}
