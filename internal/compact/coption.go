package compact

// COption is a compact-memory optional value: a one-byte tag plus, if
// present, the recursively-compact payload.
type COption[T any] struct {
	codec   Codec[T]
	some    bool
	value   T
	compact bool
	raw     []byte // valid only when compact and some
}

// NewCOptionNone returns an empty option using codec for its payload.
func NewCOptionNone[T any](codec Codec[T]) *COption[T] {
	return &COption[T]{codec: codec}
}

// NewCOptionSome returns an option holding v.
func NewCOptionSome[T any](codec Codec[T], v T) *COption[T] {
	return &COption[T]{codec: codec, some: true, value: v}
}

// IsSome reports whether the option holds a value.
func (o *COption[T]) IsSome() bool { return o.some }

// IsStillCompact implements Value.
func (o *COption[T]) IsStillCompact() bool { return o.compact }

// DynamicSizeBytes implements Value: zero for None, the payload's total
// size (static+dynamic) for Some.
func (o *COption[T]) DynamicSizeBytes() int {
	if !o.some {
		return 0
	}
	if o.compact {
		return len(o.raw)
	}
	return o.codec.TotalSize(o.value)
}

func (o *COption[T]) ensureFree() {
	if !o.compact {
		return
	}
	static := o.raw[:o.codec.StaticSize]
	val, _ := o.codec.Decode(static, o.raw[o.codec.StaticSize:])
	o.value = val
	o.raw = nil
	o.compact = false
}

// Get returns the payload and true if the option is Some.
func (o *COption[T]) Get() (T, bool) {
	if !o.some {
		var zero T
		return zero, false
	}
	o.ensureFree()
	return o.value, true
}

// Set replaces the option's contents with Some(v).
func (o *COption[T]) Set(v T) {
	o.some = true
	o.value = v
	o.raw = nil
	o.compact = false
}

// Clear resets the option to None.
func (o *COption[T]) Clear() {
	o.some = false
	o.raw = nil
	o.compact = false
}

// Compact serializes the payload (if Some) into dst and returns the
// number of bytes written; the tag is kept in the option itself and is
// not written, so a None option writes nothing.
func (o *COption[T]) Compact(dst []byte) int {
	if !o.some {
		return 0
	}
	o.ensureFree()
	offset := 0
	o.codec.EncodeStatic(o.value, dst[offset:offset+o.codec.StaticSize])
	offset += o.codec.StaticSize
	offset += o.codec.EncodeDyn(o.value, dst[offset:])
	o.raw = dst[:offset]
	o.compact = true
	return offset
}

// Decompact returns an independent, free copy of the option.
func (o *COption[T]) Decompact() *COption[T] {
	if !o.some {
		return &COption[T]{codec: o.codec}
	}
	if !o.compact {
		return &COption[T]{codec: o.codec, some: true, value: o.value}
	}
	static := o.raw[:o.codec.StaticSize]
	val, _ := o.codec.Decode(static, o.raw[o.codec.StaticSize:])
	return &COption[T]{codec: o.codec, some: true, value: val}
}
