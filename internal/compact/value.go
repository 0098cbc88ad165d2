// Package compact implements the compact-memory discipline: containers
// whose dynamic parts can be moved into a caller-owned contiguous buffer
// ("compacted") and later rebuilt as ordinary heap values ("decompacted").
//
// Go's garbage collector and lack of manual memory layout rule out the
// pointer-tagging tricks the original runtime uses, so containers here
// follow the alternative the design explicitly allows for GC'd languages:
// compacting serializes a value's dynamic part into a buffer, decompacting
// deserializes it back onto the heap. No value is ever moved-from by
// reference; compacting always copies.
package compact

// Value is satisfied by any type participating in the compact-memory
// discipline.
type Value interface {
	// IsStillCompact reports whether the value's dynamic part currently
	// lives inline in a shared buffer rather than on the Go heap.
	IsStillCompact() bool
	// DynamicSizeBytes is the number of bytes the value's dynamic part
	// occupies when compacted.
	DynamicSizeBytes() int
}

// Codec describes how to move values of type T between the Go heap and a
// flat byte buffer. StaticSize is the fixed width every element occupies
// up front (kay's "static part"); DynamicSize/EncodeDyn/Decode handle
// whatever variable-width tail that element's own compact fields need.
//
// Elements with no dynamic part (ints, RawID, other fixed structs) use
// TrivialCodec, which only has a static width and no tail at all.
type Codec[T any] struct {
	StaticSize   int
	EncodeStatic func(v T, dst []byte)
	DynamicSize  func(v T) int
	EncodeDyn    func(v T, dst []byte) int
	// Decode reconstructs a T from its static bytes (exactly StaticSize
	// long) and the start of the dynamic region; it returns the value and
	// the number of dynamic bytes it consumed.
	Decode func(static []byte, dyn []byte) (T, int)
}

// TotalSize returns the number of bytes v occupies once compacted:
// StaticSize plus its own dynamic tail.
func (c Codec[T]) TotalSize(v T) int {
	return c.StaticSize + c.DynamicSize(v)
}
