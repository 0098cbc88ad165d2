package identity

import (
	"fmt"
	"reflect"
)

// TypeRegistry hands out dense ShortTypeIds for registered Go types,
// using reflect.Type as the stand-in for the original's compiler
// intrinsic type_id::<T>().
type TypeRegistry struct {
	nextID ShortTypeId
	toID   map[reflect.Type]ShortTypeId
	toName map[ShortTypeId]string
}

// NewTypeRegistry returns an empty registry; id 1 is the first one
// handed out, leaving 0 reserved as the invalid sentinel.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		nextID: 1,
		toID:   make(map[reflect.Type]ShortTypeId),
		toName: make(map[ShortTypeId]string),
	}
}

// RegisterNew assigns a fresh ShortTypeId to t. It panics if t is
// already registered, mirroring the original's assert.
func (r *TypeRegistry) RegisterNew(t reflect.Type) ShortTypeId {
	if _, ok := r.toID[t]; ok {
		panic(fmt.Sprintf("identity: %s already registered", t))
	}
	id := r.nextID
	r.toID[t] = id
	r.toName[id] = t.String()
	r.nextID++
	return id
}

// Get returns the ShortTypeId already registered for t, panicking if t
// was never registered.
func (r *TypeRegistry) Get(t reflect.Type) ShortTypeId {
	id, ok := r.toID[t]
	if !ok {
		panic(fmt.Sprintf("identity: %s not known", t))
	}
	return id
}

// GetOrRegister returns t's ShortTypeId, registering it first if
// necessary.
func (r *TypeRegistry) GetOrRegister(t reflect.Type) ShortTypeId {
	if id, ok := r.toID[t]; ok {
		return id
	}
	return r.RegisterNew(t)
}

// Name returns the registered type name for id.
func (r *TypeRegistry) Name(id ShortTypeId) string {
	return r.toName[id]
}

// TypeOf registers and returns the ShortTypeId for T, for use from
// generic call sites that only have the type parameter, not a
// reflect.Type value.
func TypeOf[T any](r *TypeRegistry) ShortTypeId {
	var zero T
	return r.GetOrRegister(reflect.TypeOf(&zero).Elem())
}
