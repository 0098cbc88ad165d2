package actor

import (
	"testing"

	"github.com/citybound/citybound-sub004/internal/chunked"
	"github.com/citybound/citybound-sub004/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInbox() *Inbox[increment] {
	return NewInbox(chunked.NewHeapBackend(), "test_inbox", incrementCodec(), 0)
}

func TestInboxDrainResetsAndSnapshotsPending(t *testing.T) {
	ib := newTestInbox()
	require.NoError(t, ib.Put(Packet[increment]{Recipient: identity.NewRawID(1, 0, 0, 0), Message: increment{by: 1}}))
	require.NoError(t, ib.Put(Packet[increment]{Recipient: identity.NewRawID(1, 1, 0, 0), Message: increment{by: 2}}))
	assert.Equal(t, 2, ib.Len())

	snapshot, err := ib.Drain()
	require.NoError(t, err)
	assert.Len(t, snapshot, 2)
	assert.Equal(t, 1, snapshot[0].Message.by)
	assert.Equal(t, 2, snapshot[1].Message.by)
	assert.Equal(t, 0, ib.Len())

	require.NoError(t, ib.Put(Packet[increment]{Recipient: identity.NewRawID(1, 2, 0, 0), Message: increment{by: 3}}))
	second, err := ib.Drain()
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestInboxEncodeForNetworkRoundTripsThroughPutRaw(t *testing.T) {
	ib := newTestInbox()
	recipient := identity.NewRawID(3, 5, 1, 2)
	encoded := ib.EncodeForNetwork(Packet[increment]{Recipient: recipient, Message: increment{by: 7}})

	require.NoError(t, ib.putRaw(encoded))
	packets, err := ib.Drain()
	require.NoError(t, err)
	require.Len(t, packets, 1)
	assert.Equal(t, recipient, packets[0].Recipient)
	assert.Equal(t, 7, packets[0].Message.by)
}

func TestFateString(t *testing.T) {
	assert.Equal(t, "Live", Live.String())
	assert.Equal(t, "Die", Die.String())
}
