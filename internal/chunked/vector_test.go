package chunked

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorGrowsOnDemand(t *testing.T) {
	v := NewVector(NewHeapBackend(), "slotmap", 6, 4)
	require.NoError(t, v.Set(0, []byte{1, 2, 3, 4, 5, 6}))
	require.NoError(t, v.Set(9, []byte{9, 9, 9, 9, 9, 9}))
	assert.Equal(t, 10, v.Len())

	slot, err := v.At(9)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9, 9, 9, 9, 9}, slot)

	slot, err = v.At(5)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 6), slot)
}

func TestVectorAddressesStableAcrossGrowth(t *testing.T) {
	v := NewVector(NewHeapBackend(), "slotmap", 4, 2)
	require.NoError(t, v.Set(0, []byte{1, 1, 1, 1}))
	slot0, err := v.At(0)
	require.NoError(t, err)

	for i := 1; i < 20; i++ {
		require.NoError(t, v.Set(i, []byte{byte(i), byte(i), byte(i), byte(i)}))
	}

	assert.Equal(t, []byte{1, 1, 1, 1}, slot0)
}
