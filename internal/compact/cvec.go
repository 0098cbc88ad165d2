package compact

// CVec is a compact-memory vector, modeled on kay's CVec<T>: logically a
// growable sequence of T, physically either a plain Go slice on the heap
// ("free" / decompacted) or a flat encoding inside a shared buffer
// ("compact"). Mutation (Push, Pop, Truncate, index assignment) is only
// supported in the free form; Compact snapshots the current free contents
// into a buffer, Decompact rebuilds a mutable free copy from one.
//
// The static part kay's table describes (length, capacity, tagged
// pointer) needs no explicit representation here: Go's slice header
// already carries length and capacity, and there is no pointer to tag
// since compacting always copies.
type CVec[T any] struct {
	codec   Codec[T]
	compact bool
	free    []T
	raw     []byte // valid only when compact
	count   int    // element count, valid in both states
}

// NewCVec returns an empty, free (heap-backed) vector using codec for its
// elements.
func NewCVec[T any](codec Codec[T]) *CVec[T] {
	return &CVec[T]{codec: codec}
}

// IsStillCompact implements Value.
func (v *CVec[T]) IsStillCompact() bool { return v.compact }

// DynamicSizeBytes implements Value: the number of bytes the vector's
// element array occupies once compacted, contents included.
func (v *CVec[T]) DynamicSizeBytes() int {
	if v.compact {
		return len(v.raw)
	}
	total := 0
	for _, e := range v.free {
		total += v.codec.TotalSize(e)
	}
	return total
}

// Len returns the number of elements, valid in either state.
func (v *CVec[T]) Len() int { return v.count }

func (v *CVec[T]) ensureFree() {
	if !v.compact {
		return
	}
	v.free = decodeCVecElems(v.codec, v.raw, v.count)
	v.raw = nil
	v.compact = false
}

// Push appends an element, decompacting first if necessary.
func (v *CVec[T]) Push(e T) {
	v.ensureFree()
	v.free = append(v.free, e)
	v.count++
}

// Pop removes and returns the last element. ok is false on an empty vector.
func (v *CVec[T]) Pop() (e T, ok bool) {
	v.ensureFree()
	if len(v.free) == 0 {
		return e, false
	}
	e = v.free[len(v.free)-1]
	v.free = v.free[:len(v.free)-1]
	v.count--
	return e, true
}

// At returns the element at i. Decompacts on first access against a
// compact vector.
func (v *CVec[T]) At(i int) T {
	v.ensureFree()
	return v.free[i]
}

// Set overwrites the element at i, decompacting first if necessary.
func (v *CVec[T]) Set(i int, e T) {
	v.ensureFree()
	v.free[i] = e
}

// Truncate drops every element beyond n.
func (v *CVec[T]) Truncate(n int) {
	v.ensureFree()
	if n < len(v.free) {
		v.free = v.free[:n]
		v.count = n
	}
}

// ExtendFromCopySlice appends a copy of every element in src.
func (v *CVec[T]) ExtendFromCopySlice(src []T) {
	v.ensureFree()
	v.free = append(v.free, src...)
	v.count += len(src)
}

// Iterate calls fn for every element in order. It works directly against
// the compact encoding without decompacting, matching kay's InboxIterator
// semantics of reading in place.
func (v *CVec[T]) Iterate(fn func(T)) {
	if !v.compact {
		for _, e := range v.free {
			fn(e)
		}
		return
	}
	offset := 0
	for i := 0; i < v.count; i++ {
		static := v.raw[offset : offset+v.codec.StaticSize]
		offset += v.codec.StaticSize
		val, n := v.codec.Decode(static, v.raw[offset:])
		offset += n
		fn(val)
	}
}

// Compact serializes the vector's current contents into dst (which must
// be at least DynamicSizeBytes() long) and switches the receiver into
// compact form backed by the written region. It returns the number of
// bytes written. This implements the recursive compaction algorithm of
// the compact-memory spec: each element's static bytes are written
// immediately followed by that element's own dynamic tail, contiguously,
// element after element.
func (v *CVec[T]) Compact(dst []byte) int {
	v.ensureFree()
	offset := 0
	for _, e := range v.free {
		v.codec.EncodeStatic(e, dst[offset:offset+v.codec.StaticSize])
		offset += v.codec.StaticSize
		offset += v.codec.EncodeDyn(e, dst[offset:])
	}
	v.raw = dst[:offset]
	v.free = nil
	v.compact = true
	return offset
}

// Decompact returns a new, independent, free (heap-backed) copy of the
// vector's logical contents. The receiver is left untouched, matching the
// contract that compacted storage remains valid after decompaction.
func (v *CVec[T]) Decompact() *CVec[T] {
	if !v.compact {
		cp := make([]T, len(v.free))
		copy(cp, v.free)
		return &CVec[T]{codec: v.codec, free: cp, count: v.count}
	}
	return &CVec[T]{codec: v.codec, free: decodeCVecElems(v.codec, v.raw, v.count), count: v.count}
}

func decodeCVecElems[T any](codec Codec[T], raw []byte, count int) []T {
	elems := make([]T, 0, count)
	offset := 0
	for i := 0; i < count; i++ {
		static := raw[offset : offset+codec.StaticSize]
		offset += codec.StaticSize
		val, n := codec.Decode(static, raw[offset:])
		offset += n
		elems = append(elems, val)
	}
	return elems
}
