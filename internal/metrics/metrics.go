package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"triggerOracle/internal/model"
)

const namespace = "oracle"

// Metrics exposes invocation counters and latencies.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastBlock   prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Component invocations by outcome.",
		}, []string{"component", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Wall time of component invocations.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"component"}),
		lastBlock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watcher_last_processed_block",
			Help:      "Last block fully processed by the watcher.",
		}),
	}
	for _, c := range []prometheus.Collector{m.invocations, m.duration, m.lastBlock} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveInvocation records one invocation; the outcome label is the error kind.
func (m *Metrics) ObserveInvocation(component string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(component, model.ErrorKind(err)).Inc()
	m.duration.WithLabelValues(component).Observe(elapsed.Seconds())
}

// SetLastProcessedBlock records watcher progress.
func (m *Metrics) SetLastProcessedBlock(block uint64) {
	if m == nil {
		return
	}
	m.lastBlock.Set(float64(block))
}
