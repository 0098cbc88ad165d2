package chunked

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmapBackendPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	b1, err := NewMmapBackend(dir)
	require.NoError(t, err)
	data, err := b1.CreateChunk("swarm_units", 0, 64)
	require.NoError(t, err)
	copy(data, []byte("hello chunk"))
	require.NoError(t, b1.Persist("swarm_units"))
	require.NoError(t, b1.Teardown("swarm_units"))

	b2, err := NewMmapBackend(dir)
	require.NoError(t, err)
	reopened, ok, err := b2.OpenChunk("swarm_units", 0, 64)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("hello chunk"), reopened[:len("hello chunk")])
}

func TestMmapBackendOpenMissingChunk(t *testing.T) {
	dir := t.TempDir()
	b, err := NewMmapBackend(dir)
	require.NoError(t, err)

	_, ok, err := b.OpenChunk("nope", 0, 64)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMmapBackendDropChunkRemovesFile(t *testing.T) {
	dir := t.TempDir()
	b, err := NewMmapBackend(dir)
	require.NoError(t, err)

	_, err = b.CreateChunk("q", 0, 32)
	require.NoError(t, err)
	require.NoError(t, b.DropChunk("q", 0))

	_, ok, err := b.OpenChunk("q", 0, 32)
	require.NoError(t, err)
	assert.False(t, ok)
}
