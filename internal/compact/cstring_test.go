package compact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCStringRoundTrip(t *testing.T) {
	s := NewCStringFrom("hello, citybound")
	dyn := s.DynamicSizeBytes()
	require.Equal(t, len("hello, citybound"), dyn)

	buf := make([]byte, dyn)
	n := s.Compact(buf)
	require.Equal(t, dyn, n)
	require.True(t, s.IsStillCompact())

	out := s.Decompact()
	assert.Equal(t, "hello, citybound", out.String())
	assert.Equal(t, dyn, out.DynamicSizeBytes())
}

func TestCStringPushStrAfterDecompact(t *testing.T) {
	s := NewCStringFrom("part one, ")
	buf := make([]byte, s.DynamicSizeBytes())
	s.Compact(buf)

	out := s.Decompact()
	out.PushStr("part two")
	assert.Equal(t, "part one, part two", out.String())
}
