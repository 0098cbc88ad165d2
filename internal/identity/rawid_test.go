package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawIDInvalid(t *testing.T) {
	id := Invalid()
	assert.False(t, id.IsValid())

	id2 := NewRawID(3, 5, 1, 0)
	assert.True(t, id2.IsValid())
}

func TestRawIDBroadcasts(t *testing.T) {
	id := NewRawID(7, 42, 2, 0)

	local := id.LocalBroadcast()
	assert.True(t, local.IsBroadcast())
	assert.False(t, local.IsGlobalBroadcast())
	assert.Equal(t, uint8(2), local.Machine)

	global := id.GlobalBroadcast()
	assert.True(t, global.IsBroadcast())
	assert.True(t, global.IsGlobalBroadcast())
}

func TestRawIDString(t *testing.T) {
	id := NewRawID(3, 42, 1, 5)
	assert.Equal(t, "3_42.5@1", id.String())
}
