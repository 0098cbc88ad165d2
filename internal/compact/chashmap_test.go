package compact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fnvHashUint32(k uint32) uint64 {
	h := uint64(14695981039346656037)
	for i := 0; i < 4; i++ {
		h ^= uint64(byte(k >> (8 * i)))
		h *= 1099511628211
	}
	return h
}

func TestCHashMapInsertGetRemove(t *testing.T) {
	m := NewCHashMap(fnvHashUint32, Uint32Codec, Uint32Codec)
	m.Insert(1, 100)
	m.Insert(2, 200)
	m.Insert(3, 300)
	require.Equal(t, 3, m.Len())

	v, ok := m.Get(2)
	require.True(t, ok)
	assert.Equal(t, uint32(200), v)

	old, had := m.Remove(2)
	require.True(t, had)
	assert.Equal(t, uint32(200), old)
	_, ok = m.Get(2)
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())
}

func TestCHashMapCompactRoundTrip(t *testing.T) {
	m := NewCHashMap(fnvHashUint32, Uint32Codec, Uint32Codec)
	want := map[uint32]uint32{}
	for i := uint32(0); i < 50; i++ {
		m.Insert(i, i*i)
		want[i] = i * i
	}

	buf := make([]byte, m.DynamicSizeBytes())
	n := m.Compact(buf)
	assert.Equal(t, len(buf), n)
	assert.True(t, m.IsStillCompact())
	assert.Equal(t, 50, m.Len())

	out := m.Decompact()
	assert.Equal(t, 50, out.Len())
	got := map[uint32]uint32{}
	out.Iter(func(k, v uint32) { got[k] = v })
	assert.Equal(t, want, got)
}

func TestCHashMapOverwriteReturnsOldValue(t *testing.T) {
	m := NewCHashMap(fnvHashUint32, Uint32Codec, Uint32Codec)
	m.Insert(5, 50)
	old, had := m.Insert(5, 51)
	require.True(t, had)
	assert.Equal(t, uint32(50), old)
	v, _ := m.Get(5)
	assert.Equal(t, uint32(51), v)
}
