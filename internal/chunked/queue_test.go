package chunked

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFOOrder(t *testing.T) {
	q := NewQueue(NewHeapBackend(), "outgoing", 4, 2)
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue([]byte{byte(i), 0, 0, 0}))
	}
	assert.Equal(t, 5, q.Len())

	for i := 0; i < 5; i++ {
		data, ok, err := q.Dequeue()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, byte(i), data[0])
	}
	_, ok, err := q.Dequeue()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueueDropsConsumedChunks(t *testing.T) {
	backend := NewHeapBackend()
	q := NewQueue(backend, "outgoing", 4, 2)
	for i := 0; i < 6; i++ {
		require.NoError(t, q.Enqueue([]byte{byte(i), 0, 0, 0}))
	}
	// consume the first two chunks worth (4 slots), which should drop
	// chunk indices 0 and 1 from the backend.
	for i := 0; i < 4; i++ {
		_, ok, err := q.Dequeue()
		require.NoError(t, err)
		require.True(t, ok)
	}
	_, ok, err := backend.OpenChunk("outgoing", 0, 16)
	require.NoError(t, err)
	assert.False(t, ok)

	data, ok, err := q.Dequeue()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, byte(4), data[0])
}

func TestQueueInterleavedEnqueueDequeue(t *testing.T) {
	q := NewQueue(NewHeapBackend(), "mixed", 4, 3)
	require.NoError(t, q.Enqueue([]byte{1, 0, 0, 0}))
	require.NoError(t, q.Enqueue([]byte{2, 0, 0, 0}))
	data, ok, _ := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, byte(1), data[0])

	require.NoError(t, q.Enqueue([]byte{3, 0, 0, 0}))
	assert.Equal(t, 2, q.Len())
}
