// Package netsync implements peer-to-peer connection handling and the
// turn synchronizer: the framed TCP ingress/egress reader (spec.md §4.5)
// and the adaptive skip-count control that keeps lagging peers from
// diverging. Grounded on original_source's engine/kay/src/networking.rs,
// translated from its unsafe single-threaded polling loop (raw pointer
// casts, blocking-via-WouldBlock) into non-blocking reads driven by a
// short per-poll read deadline.
package netsync

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/citybound/citybound-sub004/internal/wire"
)

// Conn is the subset of net.Conn a Connection needs, narrowed so tests
// can substitute an in-memory pipe or a mock.
type Conn interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
}

// readingState mirrors original_source's ReadingState enum: a Connection
// is always either waiting for the next frame's length prefix or for the
// remainder of a frame whose length is already known.
type readingState int

const (
	awaitingLength readingState = iota
	awaitingPacket
)

// pollDeadline bounds how long a single TryReceive call blocks waiting
// for more bytes before reporting "nothing yet", standing in for the
// original's OS-level non-blocking socket mode.
const pollDeadline = time.Millisecond

// Frame is one fully received (message type, payload) pair extracted
// from a peer connection.
type Frame struct {
	MessageType uint16
	Payload     []byte
}

// Connection reads length-prefixed frames off one peer's socket,
// carrying partial-read state across polls exactly as original_source's
// Connection/ReadingState pair does.
type Connection struct {
	conn    Conn
	state   readingState
	length  uint64
	lengthBuf [wire.LengthPrefixSize]byte
	lengthHave int
	bodyBuf []byte
	bodyHave int

	out *Outbox
}

// NewConnection wraps conn, ready to poll for frames and to batch
// outgoing ones.
func NewConnection(conn Conn, batchBytes int) *Connection {
	return &Connection{
		conn:  conn,
		state: awaitingLength,
		out:   newOutbox(conn, batchBytes),
	}
}

// TryReceive attempts to advance the connection's read state machine by
// one step, returning a Frame if one completed. It returns
// (Frame{}, false, nil) if no new data was available within
// pollDeadline — the non-blocking-poll equivalent of the original's
// WouldBlock branch.
func (c *Connection) TryReceive() (Frame, bool, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(pollDeadline)); err != nil {
		return Frame{}, false, fmt.Errorf("netsync: set read deadline: %w", err)
	}

	switch c.state {
	case awaitingLength:
		n, err := c.conn.Read(c.lengthBuf[c.lengthHave:])
		c.lengthHave += n
		if c.lengthHave < wire.LengthPrefixSize {
			if isTimeout(err) {
				return Frame{}, false, nil
			}
			if err != nil {
				return Frame{}, false, err
			}
			return Frame{}, false, nil
		}
		c.length = binary.BigEndian.Uint64(c.lengthBuf[:])
		c.bodyBuf = make([]byte, c.length)
		c.bodyHave = 0
		c.lengthHave = 0
		c.state = awaitingPacket
		return c.TryReceive()

	case awaitingPacket:
		n, err := c.conn.Read(c.bodyBuf[c.bodyHave:])
		c.bodyHave += n
		if c.bodyHave < len(c.bodyBuf) {
			if isTimeout(err) {
				return Frame{}, false, nil
			}
			if err != nil {
				return Frame{}, false, err
			}
			return Frame{}, false, nil
		}
		msgType, payload, derr := wire.DecodeBody(c.bodyBuf)
		if derr != nil {
			return Frame{}, false, derr
		}
		c.state = awaitingLength
		c.bodyBuf = nil
		c.bodyHave = 0
		return Frame{MessageType: msgType, Payload: payload}, true, nil
	}
	return Frame{}, false, errors.New("netsync: unreachable reading state")
}

// Send queues a frame for msgType/payload onto the connection's outbox,
// flushing immediately if the outbox has reached its batch threshold.
func (c *Connection) Send(msgType uint16, payload []byte) error {
	return c.out.enqueue(wire.EncodeFrame(msgType, payload))
}

// Flush forces any buffered outgoing bytes onto the wire.
func (c *Connection) Flush() error { return c.out.flush() }

// Close closes the underlying connection.
func (c *Connection) Close() error { return c.conn.Close() }

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}
