package netsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkipCountZeroWhenWithinOkDistance(t *testing.T) {
	s := NewSynchronizer(&Networking{}, 5, 2.0)
	s.peerTurn[1] = 3
	assert.Equal(t, 0, s.skipCountFor(3))
	assert.Equal(t, 0, s.skipCountFor(8))
}

func TestSkipCountScalesWithTurnsAheadAndRatio(t *testing.T) {
	s := NewSynchronizer(&Networking{}, 5, 2.0)
	s.peerTurn[1] = 0
	// 10 turns ahead, ok dist 5 -> 5 turns over, ratio 2.0 -> 10
	assert.Equal(t, 10, s.skipCountFor(10))
}

func TestSkipCountCapsAt100(t *testing.T) {
	s := NewSynchronizer(&Networking{}, 0, 10.0)
	s.peerTurn[1] = 0
	assert.Equal(t, maxSkipCount, s.skipCountFor(1000))
}

func TestTurnMarkerEncodeDecodeRoundTrip(t *testing.T) {
	buf := encodeTurnMarker(123456789)
	assert.Equal(t, uint64(123456789), decodeTurnMarker(buf))
}
