// Package metrics exposes Prometheus counters for the API and the range
// synchronization loop.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors of the service. A nil *Metrics is a valid
// no-op receiver so library code can observe unconditionally.
type Metrics struct {
	parses       *prometheus.CounterVec
	syncRuns     *prometheus.CounterVec
	syncDuration prometheus.Histogram
	tableGroups  prometheus.Gauge
	tableRules   prometheus.Gauge
}

// Default collects into the default Prometheus registry scraped on /metrics.
var Default = New(prometheus.DefaultRegisterer)

// New registers the service collectors with the given registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		parses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "isbn",
			Subsystem: "api",
			Name:      "parse_total",
			Help:      "Number of ISBN parse attempts by outcome.",
		}, []string{"outcome"}),
		syncRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "isbn",
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Number of range message synchronization runs by outcome.",
		}, []string{"outcome"}),
		syncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "isbn",
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Duration of range message synchronization runs.",
			Buckets:   prometheus.DefBuckets,
		}),
		tableGroups: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "isbn",
			Subsystem: "ranges",
			Name:      "groups",
			Help:      "Registration groups in the active range table.",
		}),
		tableRules: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "isbn",
			Subsystem: "ranges",
			Name:      "rules",
			Help:      "Registrant rules in the active range table.",
		}),
	}
}

// ObserveParse counts one parse attempt with its outcome.
func (m *Metrics) ObserveParse(outcome string) {
	if m == nil {
		return
	}
	m.parses.WithLabelValues(outcome).Inc()
}

// ObserveSync counts one synchronization run with its outcome and duration.
func (m *Metrics) ObserveSync(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.syncRuns.WithLabelValues(outcome).Inc()
	m.syncDuration.Observe(d.Seconds())
}

// SetTableSize records the dimensions of the active range table.
func (m *Metrics) SetTableSize(groups, rules int) {
	if m == nil {
		return
	}
	m.tableGroups.Set(float64(groups))
	m.tableRules.Set(float64(rules))
}
