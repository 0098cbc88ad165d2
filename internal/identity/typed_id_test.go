package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type road struct{}
type trafficParticipant interface{ isParticipant() }

func TestTypedIDWrapsRaw(t *testing.T) {
	raw := NewRawID(1, 9, 0, 0)
	id := NewTypedID[road](raw)
	assert.Equal(t, raw, id.Raw())
	assert.Equal(t, raw.String(), id.String())
}

func TestTraitUpcastPreservesRaw(t *testing.T) {
	raw := NewRawID(1, 9, 0, 0)
	id := NewTypedID[road](raw)
	trait := Upcast[road, trafficParticipant](id)
	assert.Equal(t, raw, trait.Raw())
}
