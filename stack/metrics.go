package stack

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xy-planning-network/junction/route"
)

const (
	statusError = "error"
	statusNoop  = "noop"
	statusOK    = "ok"
)

// Metrics records navigation activity with Prometheus.
//
// A nil *Metrics records nothing.
type Metrics struct {
	navigations  *prometheus.CounterVec
	depth        prometheus.Gauge
	redirectHops prometheus.Histogram
}

// NewMetrics registers navigation metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "junction",
			Subsystem: "stack",
			Name:      "navigations_total",
			Help:      "Total number of navigation calls dispatched",
		}, []string{"method", "status"}),

		depth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "junction",
			Subsystem: "stack",
			Name:      "depth",
			Help:      "Number of entries in navigation history",
		}),

		redirectHops: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "junction",
			Subsystem: "stack",
			Name:      "redirect_hops",
			Help:      "Redirects leading to each navigation reached through one",
			Buckets:   prometheus.LinearBuckets(1, 1, 8),
		}),
	}
}

func (m *Metrics) navigated(c route.Call, status string) {
	if m == nil {
		return
	}

	m.navigations.WithLabelValues(c.Method().String(), status).Inc()
	if c.Hops > 0 && status == statusOK {
		m.redirectHops.Observe(float64(c.Hops))
	}
}

func (m *Metrics) setDepth(n int) {
	if m == nil {
		return
	}
	m.depth.Set(float64(n))
}
