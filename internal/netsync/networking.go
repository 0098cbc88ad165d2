package netsync

import (
	"fmt"
	"net"
)

// Dialer opens outbound connections, narrowed from net.Dial so tests can
// substitute an in-memory transport.
type Dialer interface {
	Dial(network, address string) (net.Conn, error)
}

type netDialer struct{}

func (netDialer) Dial(network, address string) (net.Conn, error) {
	return net.Dial(network, address)
}

// Networking owns this machine's TCP connection to every peer, keyed by
// peer machine id (spec.md §4.5, grounded on original_source's
// engine/kay/src/networking.rs Networking struct).
type Networking struct {
	machineID   uint8
	peerAddrs   []string
	connections []*Connection // indexed by machine id
	batchBytes  int
	dialer      Dialer
}

// NewNetworking returns a Networking for machineID among peerAddrs
// (ordered so peerAddrs[machineID] is this machine's own listen
// address), flushing outgoing frames in batchBytes-sized chunks.
func NewNetworking(machineID uint8, peerAddrs []string, batchBytes int) *Networking {
	return &Networking{
		machineID:   machineID,
		peerAddrs:   peerAddrs,
		connections: make([]*Connection, len(peerAddrs)),
		batchBytes:  batchBytes,
		dialer:      netDialer{},
	}
}

// SetDialer overrides the Dialer used for outbound connects, for tests.
func (n *Networking) SetDialer(d Dialer) { n.dialer = d }

// Connect performs the spec's fixed connection topology: dial every peer
// with a higher machine id, and accept a connection from every peer with
// a lower one, then exchange a single handshake byte carrying each side's
// machine id (spec.md §4.5 "Connections").
func (n *Networking) Connect() error {
	var outbound []net.Conn
	for machineID := range n.peerAddrs {
		if machineID > int(n.machineID) {
			conn, err := n.dialer.Dial("tcp", n.peerAddrs[machineID])
			if err != nil {
				return fmt.Errorf("netsync: connect to machine %d at %s: %w", machineID, n.peerAddrs[machineID], err)
			}
			outbound = append(outbound, conn)
		}
	}

	listener, err := net.Listen("tcp", n.peerAddrs[n.machineID])
	if err != nil {
		return fmt.Errorf("netsync: listen on %s: %w", n.peerAddrs[n.machineID], err)
	}
	defer listener.Close()

	var inbound []net.Conn
	for len(inbound) < len(n.peerAddrs)-1-len(outbound) {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("netsync: accept: %w", err)
		}
		inbound = append(inbound, conn)
	}

	all := append(outbound, inbound...)
	for _, conn := range all {
		if _, err := conn.Write([]byte{n.machineID}); err != nil {
			return fmt.Errorf("netsync: handshake write: %w", err)
		}
	}
	for _, conn := range all {
		var remoteID [1]byte
		if _, err := fullRead(conn, remoteID[:]); err != nil {
			return fmt.Errorf("netsync: handshake read: %w", err)
		}
		n.connections[remoteID[0]] = NewConnection(conn, n.batchBytes)
	}
	return nil
}

func fullRead(r interface{ Read([]byte) (int, error) }, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ConnectionTo returns the Connection for peer machineID, or nil if
// Connect has not yet established one.
func (n *Networking) ConnectionTo(machineID uint8) *Connection {
	if int(machineID) >= len(n.connections) {
		return nil
	}
	return n.connections[machineID]
}

// PollAll polls every peer connection once for a completed frame,
// invoking handle for each one received.
func (n *Networking) PollAll(handle func(peer uint8, frame Frame) error) error {
	for machineID, conn := range n.connections {
		if conn == nil {
			continue
		}
		frame, ok, err := conn.TryReceive()
		if err != nil {
			return fmt.Errorf("netsync: peer %d read: %w", machineID, err)
		}
		if ok {
			if err := handle(uint8(machineID), frame); err != nil {
				return err
			}
		}
	}
	return nil
}

// Broadcast sends msgType/payload to every connected peer.
func (n *Networking) Broadcast(msgType uint16, payload []byte) error {
	for _, conn := range n.connections {
		if conn == nil {
			continue
		}
		if err := conn.Send(msgType, payload); err != nil {
			return err
		}
	}
	return nil
}

// FlushAll flushes every peer connection's outbox.
func (n *Networking) FlushAll() error {
	for _, conn := range n.connections {
		if conn == nil {
			continue
		}
		if err := conn.Flush(); err != nil {
			return err
		}
	}
	return nil
}
