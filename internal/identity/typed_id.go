package identity

// TypedID is a zero-cost, compile-time-checked wrapper around a RawID:
// two TypedID[A] and TypedID[B] values are different Go types even
// though they carry the same underlying RawID representation, so a
// caller cannot accidentally send a TypedID[Intersection] where a
// TypedID[Road] was expected (spec.md §3, grounded on original_source's
// `TypedID` trait in engine/kay/src/id.rs — there a runtime trait object,
// here a compile-time phantom type since Go generics can express the
// same safety without a trait).
type TypedID[T any] struct {
	raw RawID
}

// NewTypedID wraps raw as a TypedID[T]. Callers are responsible for raw
// actually identifying a T-typed actor; the actor system's own
// constructors are the only intended caller.
func NewTypedID[T any](raw RawID) TypedID[T] {
	return TypedID[T]{raw: raw}
}

// Raw returns the underlying RawID.
func (id TypedID[T]) Raw() RawID { return id.raw }

// String renders the underlying RawID.
func (id TypedID[T]) String() string { return id.raw.String() }

// TraitID is a TypedID scoped to a trait (interface) type rather than a
// concrete actor type: it is produced by upcasting a concrete TypedID[T]
// once T's registration as a trait implementor is known to the actor
// system, and is otherwise identical in representation.
type TraitID[Trait any] struct {
	raw RawID
}

// NewTraitID wraps raw as a TraitID[Trait].
func NewTraitID[Trait any](raw RawID) TraitID[Trait] {
	return TraitID[Trait]{raw: raw}
}

// Raw returns the underlying RawID.
func (id TraitID[Trait]) Raw() RawID { return id.raw }

// String renders the underlying RawID.
func (id TraitID[Trait]) String() string { return id.raw.String() }

// Upcast reinterprets a concrete actor's TypedID as a TraitID for one of
// the traits it implements. The actor system is responsible for only
// ever constructing Upcast calls for types it has registered as
// implementors of Trait; this function itself performs no check.
func Upcast[T any, Trait any](id TypedID[T]) TraitID[Trait] {
	return TraitID[Trait]{raw: id.raw}
}
