package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewRuntimeRegistersEveryMetric(t *testing.T) {
	require := require.New(t)

	reg := prometheus.NewRegistry()
	r := NewRuntime(reg)

	r.TurnDuration.Observe(0.016)
	r.InboxDepth.WithLabelValues("increment").Set(3)
	r.ArenaOccupancy.WithLabelValues("vehicle", "64").Set(12)
	r.PeerSkew.WithLabelValues("1").Set(2)
	r.PeerSkipCount.WithLabelValues("1").Set(4)

	families, err := reg.Gather()
	require.NoError(err)
	require.Len(families, 5)
}

func TestNewRuntimePanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRuntime(reg)

	require.Panics(t, func() { NewRuntime(reg) })
}
