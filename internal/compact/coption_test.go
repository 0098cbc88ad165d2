package compact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCOptionNoneRoundTrip(t *testing.T) {
	o := NewCOptionNone[uint32](Uint32Codec)
	assert.False(t, o.IsSome())
	assert.Equal(t, 0, o.DynamicSizeBytes())

	buf := make([]byte, 0)
	n := o.Compact(buf)
	assert.Equal(t, 0, n)

	out := o.Decompact()
	assert.False(t, out.IsSome())
}

func TestCOptionSomeRoundTrip(t *testing.T) {
	o := NewCOptionSome(Uint64Codec, uint64(424242))
	require.True(t, o.IsSome())

	buf := make([]byte, o.DynamicSizeBytes())
	o.Compact(buf)
	require.True(t, o.IsStillCompact())

	out := o.Decompact()
	v, ok := out.Get()
	require.True(t, ok)
	assert.Equal(t, uint64(424242), v)
}

func TestCOptionClearAndSet(t *testing.T) {
	o := NewCOptionSome(Uint32Codec, uint32(7))
	o.Clear()
	_, ok := o.Get()
	assert.False(t, ok)

	o.Set(9)
	v, ok := o.Get()
	require.True(t, ok)
	assert.Equal(t, uint32(9), v)
}
