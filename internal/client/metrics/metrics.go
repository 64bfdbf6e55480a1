// Package metrics exposes counters for the background refresh pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Discard reasons.
const (
	ReasonStaleEpoch = "stale_epoch"
	ReasonOutOfOrder = "out_of_order"
)

// Sync counts refresh activity per resource.
type Sync struct {
	Started   *prometheus.CounterVec
	Joined    *prometheus.CounterVec
	Applied   *prometheus.CounterVec
	Failed    *prometheus.CounterVec
	Discarded *prometheus.CounterVec
}

// NewSync creates the counters and registers them with reg. A nil reg
// leaves them unregistered, which is what tests usually want.
func NewSync(reg prometheus.Registerer) *Sync {
	s := &Sync{
		Started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillswap",
			Name:      "refresh_started_total",
			Help:      "Refresh requests sent to the server.",
		}, []string{"resource"}),
		Joined: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillswap",
			Name:      "refresh_joined_total",
			Help:      "Refresh requests served by a fetch already in flight.",
		}, []string{"resource"}),
		Applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillswap",
			Name:      "refresh_applied_total",
			Help:      "Refresh results written to the mirror.",
		}, []string{"resource"}),
		Failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillswap",
			Name:      "refresh_failed_total",
			Help:      "Refreshes that ended in an error.",
		}, []string{"resource"}),
		Discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillswap",
			Name:      "refresh_discarded_total",
			Help:      "Refresh results dropped without touching the mirror.",
		}, []string{"resource", "reason"}),
	}
	if reg != nil {
		reg.MustRegister(s.Started, s.Joined, s.Applied, s.Failed, s.Discarded)
	}
	return s
}
