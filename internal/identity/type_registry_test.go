package identity

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoad struct{}
type fakeIntersection struct{}

func TestTypeRegistryDenseIDs(t *testing.T) {
	r := NewTypeRegistry()
	road := TypeOf[fakeRoad](r)
	inter := TypeOf[fakeIntersection](r)

	assert.NotEqual(t, road, inter)
	assert.NotEqual(t, invalidShortTypeId, road)
	assert.Equal(t, road, TypeOf[fakeRoad](r))
}

func TestTypeRegistryGetPanicsWhenUnknown(t *testing.T) {
	r := NewTypeRegistry()
	assert.Panics(t, func() {
		r.Get(nil)
	})
}

func TestTypeRegistryRegisterNewPanicsOnDuplicate(t *testing.T) {
	r := NewTypeRegistry()
	TypeOf[fakeRoad](r)
	require.Panics(t, func() {
		r.RegisterNew(reflect.TypeOf(fakeRoad{}))
	})
}
