package netsync

// maxSkipCount bounds the skip count the synchronizer will ever return in
// one call, regardless of how far ahead this machine has drifted
// (spec.md §4.5 "Adaptive skip control").
const maxSkipCount = 100

// turnMarkerMessageType is the ShortTypeId reserved for turn-marker
// frames, a value no domain message type is ever registered at.
const turnMarkerMessageType = 0xFFFF

// Synchronizer implements turn-marker exchange and adaptive skip control:
// it records the latest turn marker each peer has sent, and if this
// machine is running far enough ahead of its slowest peer it reports a
// skip count so the caller can pause domain simulation (not networking)
// until peers catch up. NetworkingFinishTurn does not wait for peers'
// markers: a turn ends locally whether or not they have arrived.
type Synchronizer struct {
	net        *Networking
	turn       uint64
	peerTurn   map[uint8]uint64
	okTurnDist uint64
	skipRatio  float64
}

// NewSynchronizer wraps net, tracking turn skew against its peers.
func NewSynchronizer(net *Networking, okTurnDist uint64, skipRatio float64) *Synchronizer {
	return &Synchronizer{
		net:        net,
		peerTurn:   make(map[uint8]uint64),
		okTurnDist: okTurnDist,
		skipRatio:  skipRatio,
	}
}

// Turn returns the current turn number.
func (s *Synchronizer) Turn() uint64 { return s.turn }

// NetworkingSendAndReceive flushes outgoing peer traffic and polls every
// peer connection for newly completed frames, routing non-turn-marker
// frames to handle. This must run every turn, including turns domain
// simulation itself is skipping (spec.md §9 resolved open question).
func (s *Synchronizer) NetworkingSendAndReceive(handle func(peer uint8, frame Frame) error) error {
	if err := s.net.FlushAll(); err != nil {
		return err
	}
	return s.net.PollAll(func(peer uint8, frame Frame) error {
		if frame.MessageType == turnMarkerMessageType {
			turnNumber := decodeTurnMarker(frame.Payload)
			if turnNumber > s.peerTurn[peer] {
				s.peerTurn[peer] = turnNumber
			}
			return nil
		}
		return handle(peer, frame)
	})
}

// NetworkingFinishTurn broadcasts this machine's turn-marker for the
// turn just completed, advances the local turn counter, and returns the
// skip count to apply before the next turn's domain simulation, derived
// from how far ahead this machine is of its slowest peer.
func (s *Synchronizer) NetworkingFinishTurn() (skipCount int, err error) {
	if err := s.net.Broadcast(turnMarkerMessageType, encodeTurnMarker(s.turn)); err != nil {
		return 0, err
	}
	if err := s.net.FlushAll(); err != nil {
		return 0, err
	}
	s.turn++
	return s.skipCountFor(s.turn), nil
}

func (s *Synchronizer) skipCountFor(selfTurn uint64) int {
	slowestPeer := selfTurn
	for _, peerTurn := range s.peerTurn {
		if peerTurn < slowestPeer {
			slowestPeer = peerTurn
		}
	}
	turnsAhead := selfTurn - slowestPeer
	if turnsAhead <= s.okTurnDist {
		return 0
	}
	skip := int(float64(turnsAhead-s.okTurnDist) * s.skipRatio)
	if skip > maxSkipCount {
		return maxSkipCount
	}
	return skip
}

func encodeTurnMarker(turn uint64) []byte {
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(turn >> (8 * (7 - i)))
	}
	return buf
}

func decodeTurnMarker(buf []byte) uint64 {
	var turn uint64
	for i := 0; i < 8 && i < len(buf); i++ {
		turn = turn<<8 | uint64(buf[i])
	}
	return turn
}
