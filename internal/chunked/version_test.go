package chunked

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteVersionFile(dir))

	matched, onDisk, err := CheckVersionFile(dir)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, CurrentFormatVersion, onDisk)
}

func TestVersionFileMissingIsTreatedAsFresh(t *testing.T) {
	dir := t.TempDir()
	matched, _, err := CheckVersionFile(dir)
	require.NoError(t, err)
	assert.True(t, matched)
}
