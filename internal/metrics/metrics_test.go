package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveImport(OutcomeLoaded, 10*time.Millisecond)
	m.ObserveImport(OutcomeLoaded, 20*time.Millisecond)
	m.ObserveImport(OutcomeFailed, time.Millisecond)
	m.AddMissing(5, 3)
	m.SetOpenViewers(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.imports.WithLabelValues(OutcomeLoaded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imports.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.missing))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.interpolated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.openViewers))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveImport(OutcomeLoaded, time.Second)
		m.AddMissing(1, 1)
		m.SetOpenViewers(1)
	})
}
