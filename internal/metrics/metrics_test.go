package metrics

import (
	"errors"
	"testing"
	"time"

	"quizdeck/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", Outcome(nil))
	assert.Equal(t, "dangling_reference", Outcome(domain.NewError(domain.CodeDanglingReference, "x", nil)))
	assert.Equal(t, "validation_error", Outcome(domain.ValidationErrors{domain.NewMissingFieldError("[0].name")}))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}

func TestObserveImport(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveImport(domain.KindSubject, 3, time.Millisecond, nil)
	m.ObserveImport(domain.KindSubject, 0, time.Millisecond, domain.NewMalformedJSONError(errors.New("bad")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.importRequests.WithLabelValues("subject", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.importRequests.WithLabelValues("subject", "malformed_json")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.importedRecords.WithLabelValues("subject")))
}

func TestObserveExportAndSnapshot(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveExport(domain.KindQuiz, 2, time.Millisecond, nil)
	m.ObserveSnapshot(time.Second, domain.NewError(domain.CodeSnapshotFailed, "x", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.exportedRecords.WithLabelValues("quiz")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshots.WithLabelValues("snapshot_failed")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveImport(domain.KindUser, 1, time.Millisecond, nil)
		m.ObserveExport(domain.KindUser, 1, time.Millisecond, nil)
		m.ObserveSnapshot(time.Millisecond, nil)
	})
}
