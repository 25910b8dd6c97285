package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMustNew_RecordsCheck(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNew(reg)

	done := m.CheckStarted(KindScore)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.checksActive), 1e-9)

	done(StatusOK)
	assert.InDelta(t, 0.0, testutil.ToFloat64(m.checksActive), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.checks.WithLabelValues(KindScore, StatusOK)), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(m.checkDuration))
}

func TestMustNew_CacheCounters(t *testing.T) {
	m := MustNew(prometheus.NewRegistry())

	m.CacheLookups(3, 2)
	m.DocumentsScored(5)
	m.DocumentsScored(0)

	assert.InDelta(t, 3.0, testutil.ToFloat64(m.cacheHits), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.cacheMisses), 1e-9)
	assert.InDelta(t, 5.0, testutil.ToFloat64(m.documentsScored), 1e-9)
}

func TestMustNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := MustNew(reg)
	second := MustNew(reg)

	second.CacheLookups(1, 0)

	assert.InDelta(t, 1.0, testutil.ToFloat64(first.cacheHits), 1e-9)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.CacheLookups(1, 1)
		m.DocumentsScored(1)
		m.CheckStarted(KindQuick)(StatusFailed)
	})
}
