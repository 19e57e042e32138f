package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors of the agreements service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	LatestBlock      prometheus.Gauge
	WatchedContracts prometheus.Gauge
	PollDuration     prometheus.Histogram
	PollFailures     prometheus.Counter
	EventsObserved   *prometheus.CounterVec
	WriteOutcomes    *prometheus.CounterVec
	ReadFailures     *prometheus.CounterVec
}

// New registers all collectors on reg. Pass prometheus.DefaultRegisterer to
// expose them on /metrics.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		LatestBlock: f.NewGauge(prometheus.GaugeOpts{
			Name: "agreements_latest_block",
			Help: "Latest block number seen by the watcher",
		}),

		WatchedContracts: f.NewGauge(prometheus.GaugeOpts{
			Name: "agreements_watched_contracts",
			Help: "Number of agreement contracts currently watched",
		}),

		PollDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "agreements_poll_duration_seconds",
			Help:    "Duration of one watcher poll across all contracts",
			Buckets: prometheus.DefBuckets,
		}),

		PollFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "agreements_poll_failures_total",
			Help: "Total number of failed watcher polls",
		}),

		EventsObserved: f.NewCounterVec(prometheus.CounterOpts{
			Name: "agreements_events_observed_total",
			Help: "Total number of events decoded from logs by kind",
		}, []string{"kind"}),

		WriteOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "agreements_write_outcomes_total",
			Help: "Total write outcomes by operation and variant",
		}, []string{"operation", "variant"}),

		ReadFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "agreements_read_failures_total",
			Help: "Total failed contract reads by view",
		}, []string{"view"}),
	}
}

func (m *Metrics) SetLatestBlock(n uint64) {
	if m != nil {
		m.LatestBlock.Set(float64(n))
	}
}

func (m *Metrics) SetWatchedContracts(n int) {
	if m != nil {
		m.WatchedContracts.Set(float64(n))
	}
}

func (m *Metrics) ObservePoll(d time.Duration, err error) {
	if m == nil {
		return
	}

	m.PollDuration.Observe(d.Seconds())
	if err != nil {
		m.PollFailures.Inc()
	}
}

func (m *Metrics) AddEvents(kind string, n int) {
	if m != nil && n > 0 {
		m.EventsObserved.WithLabelValues(kind).Add(float64(n))
	}
}

func (m *Metrics) IncrementWrite(operation, variant string) {
	if m != nil {
		m.WriteOutcomes.WithLabelValues(operation, variant).Inc()
	}
}

func (m *Metrics) IncrementReadFailure(view string) {
	if m != nil {
		m.ReadFailures.WithLabelValues(view).Inc()
	}
}
