package identity

import (
	"testing"

	"github.com/citybound/citybound-sub004/internal/chunked"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotMapAllocateAssociateResolve(t *testing.T) {
	m := NewSlotMap(chunked.NewHeapBackend(), "units")

	id, version, err := m.AllocateID()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), id)
	assert.Equal(t, uint8(0), version)

	require.NoError(t, m.Associate(id, SlotIndices{Class: 64, Index: 3}))

	loc, ok, err := m.IndicesOf(id, version)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, SlotIndices{Class: 64, Index: 3}, loc)
}

func TestSlotMapStaleVersionRejected(t *testing.T) {
	m := NewSlotMap(chunked.NewHeapBackend(), "units")
	id, version, err := m.AllocateID()
	require.NoError(t, err)
	require.NoError(t, m.Associate(id, SlotIndices{Class: 16, Index: 0}))

	require.NoError(t, m.Free(id, version))

	_, ok, err := m.IndicesOf(id, version)
	require.NoError(t, err)
	assert.False(t, ok, "the freed, stale version must not resolve")
}

func TestSlotMapReusesFreedSlot(t *testing.T) {
	m := NewSlotMap(chunked.NewHeapBackend(), "units")
	id, version, err := m.AllocateID()
	require.NoError(t, err)
	require.NoError(t, m.Free(id, version))

	id2, version2, err := m.AllocateID()
	require.NoError(t, err)
	assert.Equal(t, id, id2)
	assert.Equal(t, version+1, version2)

	require.NoError(t, m.Associate(id2, SlotIndices{Class: 32, Index: 9}))
	loc, ok, err := m.IndicesOf(id2, version2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, SlotIndices{Class: 32, Index: 9}, loc)
}

func TestSlotMapGrowsPastInitialChunk(t *testing.T) {
	m := NewSlotMap(chunked.NewHeapBackend(), "units")
	var last uint32
	for i := 0; i < 5000; i++ {
		id, _, err := m.AllocateID()
		require.NoError(t, err)
		last = id
	}
	assert.Equal(t, uint32(4999), last)
}
