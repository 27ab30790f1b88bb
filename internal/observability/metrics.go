package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dst_clock"

// Sync outcomes.
const (
	SyncSuccess = "success"
	SyncError   = "error"
)

// Render outcomes.
const (
	RenderRendered = "rendered"
	RenderSkipped  = "skipped"
	RenderError    = "error"
)

// Metrics holds the Prometheus collectors of the clock loop.
type Metrics struct {
	Offset          prometheus.Gauge
	DSTActive       prometheus.Gauge
	Reconciliations prometheus.Counter
	OffsetChanges   prometheus.Counter
	Renders         *prometheus.CounterVec // labels: outcome={rendered,skipped,error}

	// NTP metrics.
	Syncs          *prometheus.CounterVec // labels: outcome={success,error}
	NTPClockOffset prometheus.Gauge
	NTPRoundTrip   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()

	reg.MustRegister(
		m.Offset,
		m.DSTActive,
		m.Reconciliations,
		m.OffsetChanges,
		m.Renders,
		m.Syncs,
		m.NTPClockOffset,
		m.NTPRoundTrip,
	)

	return m
}

// NewMetricsForTesting creates unregistered collectors so tests can build
// as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Offset: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "utc_offset_seconds",
			Help:      "UTC offset currently applied to the time source.",
		}),
		DSTActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dst_active",
			Help:      "1 while daylight saving time is applied, 0 otherwise.",
		}),
		Reconciliations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliations_total",
			Help:      "DST rule checks performed.",
		}),
		OffsetChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offset_changes_total",
			Help:      "Offset changes pushed to the time source.",
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Display ticks by outcome.",
		}, []string{"outcome"}),
		Syncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ntp_syncs_total",
			Help:      "NTP queries by outcome.",
		}, []string{"outcome"}),
		NTPClockOffset: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ntp_clock_offset_seconds",
			Help:      "Last measured offset between the NTP server and the local clock.",
		}),
		NTPRoundTrip: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ntp_round_trip_seconds",
			Help:      "Round-trip delay of successful NTP queries.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}
