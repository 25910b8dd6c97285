// Package metrics exposes Prometheus collectors for engine activity.
//
// All methods are nil-safe so services can run without metrics in tests.
package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "overlap"

// Check kinds used as the "kind" label.
const (
	KindScore       = "score"
	KindDocument    = "document"
	KindProgressive = "progressive"
	KindQuick       = "quick"
	KindAnalysis    = "analysis"
)

// Check outcomes used as the "status" label.
const (
	StatusOK          = "ok"
	StatusFailed      = "failed"
	StatusInterrupted = "interrupted"
)

// Metrics holds the engine collectors.
type Metrics struct {
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	documentsScored prometheus.Counter
	checks          *prometheus.CounterVec
	checkDuration   *prometheus.HistogramVec
	checksActive    prometheus.Gauge
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default returns the instance registered with the global Prometheus registry.
// Collectors are created once so repeated engine construction does not panic.
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNew(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNew constructs and registers the collectors with reg.
// Collectors already registered under the same names are reused; any other
// registration error panics.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Similarity lookups served from the memoisation cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Similarity lookups that required a computation.",
		}),
		documentsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_scored_total",
			Help:      "Corpus documents compared against a subject.",
		}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Checks run, by kind and outcome.",
		}, []string{"kind", "status"}),
		checkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Wall time of a check, by kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		checksActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "checks_active",
			Help:      "Checks currently running.",
		}),
	}

	m.cacheHits = register(reg, m.cacheHits)
	m.cacheMisses = register(reg, m.cacheMisses)
	m.documentsScored = register(reg, m.documentsScored)
	m.checks = register(reg, m.checks)
	m.checkDuration = register(reg, m.checkDuration)
	m.checksActive = register(reg, m.checksActive)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// CacheLookups records hits and misses of one comparison run.
func (m *Metrics) CacheLookups(hits, misses uint64) {
	if m == nil {
		return
	}
	m.cacheHits.Add(float64(hits))
	m.cacheMisses.Add(float64(misses))
}

// DocumentsScored adds n compared documents.
func (m *Metrics) DocumentsScored(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.documentsScored.Add(float64(n))
}

// CheckStarted marks a check as running and returns a func that records its
// outcome and duration.
func (m *Metrics) CheckStarted(kind string) func(status string) {
	if m == nil {
		return func(string) {}
	}
	start := time.Now()
	m.checksActive.Inc()
	return func(status string) {
		m.checksActive.Dec()
		m.checks.WithLabelValues(kind, status).Inc()
		m.checkDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}
