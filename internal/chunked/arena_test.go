package chunked

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizedArenaPushAt(t *testing.T) {
	a := NewSizedArena(NewHeapBackend(), "actors", 8, 4)
	i0, err := a.Push([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	i1, err := a.Push([]byte{8, 7, 6, 5, 4, 3, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, a.At(0))
}

func TestSizedArenaGrowsAcrossChunks(t *testing.T) {
	a := NewSizedArena(NewHeapBackend(), "actors", 4, 2)
	for i := 0; i < 7; i++ {
		_, err := a.Push([]byte{byte(i), byte(i), byte(i), byte(i)})
		require.NoError(t, err)
	}
	assert.Equal(t, 7, a.Len())
	assert.Equal(t, []byte{6, 6, 6, 6}, a.At(6))
	assert.Equal(t, []byte{0, 0, 0, 0}, a.At(0))
}

func TestSizedArenaSwapRemove(t *testing.T) {
	a := NewSizedArena(NewHeapBackend(), "actors", 4, 4)
	a.Push([]byte{1, 1, 1, 1})
	a.Push([]byte{2, 2, 2, 2})
	a.Push([]byte{3, 3, 3, 3})

	moved := a.SwapRemove(0)
	assert.Equal(t, 2, moved)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []byte{3, 3, 3, 3}, a.At(0))
	assert.Equal(t, []byte{2, 2, 2, 2}, a.At(1))

	moved = a.SwapRemove(1)
	assert.Equal(t, -1, moved)
	assert.Equal(t, 1, a.Len())
}

func TestArenaBankClassBoundary(t *testing.T) {
	assert.Equal(t, defaultMinClass, ClassFor(1, defaultMinClass))
	assert.Equal(t, defaultMinClass, ClassFor(defaultMinClass, defaultMinClass))
	assert.Equal(t, 32, ClassFor(defaultMinClass+1, defaultMinClass))
	assert.Equal(t, 32, ClassFor(32, defaultMinClass))
	assert.Equal(t, 64, ClassFor(33, defaultMinClass))
}

func TestMultiSizedArenaBankPushSwapRemove(t *testing.T) {
	b := NewMultiSizedArenaBank(NewHeapBackend(), "swarm", 8)

	locSmall, err := b.Push(make([]byte, 10))
	require.NoError(t, err)
	assert.Equal(t, defaultMinClass, locSmall.Class)

	locBig, err := b.Push(make([]byte, 40))
	require.NoError(t, err)
	assert.Equal(t, 64, locBig.Class)

	locSmall2, err := b.Push(make([]byte, 12))
	require.NoError(t, err)
	assert.Equal(t, defaultMinClass, locSmall2.Class)

	moved, ok := b.SwapRemove(locSmall)
	require.True(t, ok)
	assert.Equal(t, locSmall2.Class, moved.Class)
}
