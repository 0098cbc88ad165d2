package netsync

import (
	"net"
	"testing"
	"time"

	"github.com/citybound/citybound-sub004/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionSendReceiveRoundTrip(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	client := NewConnection(clientConn, 1<<20)
	server := NewConnection(serverConn, 1<<20)

	done := make(chan error, 1)
	go func() {
		if err := client.Send(7, []byte("hello")); err != nil {
			done <- err
			return
		}
		done <- client.Flush()
	}()

	var frame Frame
	require.Eventually(t, func() bool {
		f, ok, err := server.TryReceive()
		require.NoError(t, err)
		if ok {
			frame = f
			return true
		}
		return false
	}, time.Second, time.Millisecond)

	assert.Equal(t, uint16(7), frame.MessageType)
	assert.Equal(t, []byte("hello"), frame.Payload)
}

type stubConn struct {
	net.Conn
	readErr error
}

func (s *stubConn) Read(buf []byte) (int, error) { return 0, s.readErr }
func (s *stubConn) SetReadDeadline(time.Time) error { return nil }

func TestConnectionTryReceiveNoDataReturnsNotOk(t *testing.T) {
	c := NewConnection(&stubConn{readErr: errTimeoutStub{}}, 1024)
	_, ok, err := c.TryReceive()
	require.NoError(t, err)
	assert.False(t, ok)
}

type errTimeoutStub struct{}

func (errTimeoutStub) Error() string   { return "i/o timeout" }
func (errTimeoutStub) Timeout() bool   { return true }
func (errTimeoutStub) Temporary() bool { return true }

func TestWireLengthPrefixSizeMatchesFrameHeader(t *testing.T) {
	frame := wire.EncodeFrame(1, []byte("x"))
	assert.GreaterOrEqual(t, len(frame), wire.LengthPrefixSize+wire.TypeIDSize)
}
