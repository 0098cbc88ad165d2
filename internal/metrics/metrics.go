// Package metrics wires the runtime's turn loop, swarms and peer
// connections to Prometheus, grounded on the teacher pack's
// metrics/metrics.go Averager-style wrapping of client_golang
// collectors behind a small typed facade rather than raw collector
// handles scattered through the runtime.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Runtime groups every metric the actor runtime and its synchronizer
// report, registered once against a prometheus.Registerer at startup.
type Runtime struct {
	TurnDuration   prometheus.Histogram
	InboxDepth     *prometheus.GaugeVec // label: message_type
	ArenaOccupancy *prometheus.GaugeVec // labels: actor_type, size_class
	PeerSkew       *prometheus.GaugeVec // label: peer
	PeerSkipCount  *prometheus.GaugeVec // label: peer
}

// NewRuntime creates and registers every runtime metric against reg.
func NewRuntime(reg prometheus.Registerer) *Runtime {
	r := &Runtime{
		TurnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cityrund",
			Subsystem: "turn",
			Name:      "duration_seconds",
			Help:      "Wall-clock time spent on one turn: draining all inboxes and exchanging peer traffic.",
			Buckets:   prometheus.DefBuckets,
		}),
		InboxDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cityrund",
			Subsystem: "actor",
			Name:      "inbox_depth",
			Help:      "Number of packets queued in an inbox at turn start.",
		}, []string{"message_type"}),
		ArenaOccupancy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cityrund",
			Subsystem: "actor",
			Name:      "arena_occupancy",
			Help:      "Live slot count for an actor type's size-class arena.",
		}, []string{"actor_type", "size_class"}),
		PeerSkew: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cityrund",
			Subsystem: "netsync",
			Name:      "peer_turn_skew",
			Help:      "Turns this machine is ahead of a given peer.",
		}, []string{"peer"}),
		PeerSkipCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cityrund",
			Subsystem: "netsync",
			Name:      "peer_skip_count",
			Help:      "Domain-simulation skip count currently applied for a peer.",
		}, []string{"peer"}),
	}
	reg.MustRegister(r.TurnDuration, r.InboxDepth, r.ArenaOccupancy, r.PeerSkew, r.PeerSkipCount)
	return r
}
