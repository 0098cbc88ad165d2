package compact

const (
	bucketEmpty    byte = 0
	bucketOccupied byte = 1
	bucketTomb     byte = 2
)

// CHashMap is a compact-memory open-addressing hash map, modeled on
// kay's CHashMap<K,V>. Mutation happens against a plain Go map on the
// heap ("free"); Compact rehashes the current contents into a flat
// open-addressed bucket array plus a trailing region holding whichever
// keys/values have their own dynamic tails, written in bucket order —
// the same "static array, then dynamic tails in the same order" shape
// CVec uses.
type CHashMap[K comparable, V any] struct {
	hash     func(K) uint64
	keyCodec Codec[K]
	valCodec Codec[V]

	compact bool
	free    map[K]V

	raw     []byte
	buckets int
	count   int
}

// NewCHashMap returns an empty, free hash map. hash must be a stable hash
// function over K; keyCodec/valCodec describe how keys and values
// serialize when compacted.
func NewCHashMap[K comparable, V any](hash func(K) uint64, keyCodec Codec[K], valCodec Codec[V]) *CHashMap[K, V] {
	return &CHashMap[K, V]{hash: hash, keyCodec: keyCodec, valCodec: valCodec, free: make(map[K]V)}
}

// IsStillCompact implements Value.
func (m *CHashMap[K, V]) IsStillCompact() bool { return m.compact }

// DynamicSizeBytes implements Value.
func (m *CHashMap[K, V]) DynamicSizeBytes() int {
	if m.compact {
		return len(m.raw)
	}
	bucketStride := 1 + m.keyCodec.StaticSize + m.valCodec.StaticSize
	buckets := bucketCountFor(len(m.free))
	total := buckets * bucketStride
	for k, v := range m.free {
		total += m.keyCodec.DynamicSize(k) + m.valCodec.DynamicSize(v)
	}
	return total
}

// Len returns the number of entries.
func (m *CHashMap[K, V]) Len() int {
	if m.compact {
		return m.count
	}
	return len(m.free)
}

func (m *CHashMap[K, V]) ensureFree() {
	if !m.compact {
		return
	}
	m.free = decodeCHashMap(m.hash, m.keyCodec, m.valCodec, m.raw, m.buckets)
	m.raw = nil
	m.compact = false
}

// Get returns the value for key and whether it was present.
func (m *CHashMap[K, V]) Get(key K) (V, bool) {
	m.ensureFree()
	v, ok := m.free[key]
	return v, ok
}

// Insert sets key to value, returning the previous value if any.
func (m *CHashMap[K, V]) Insert(key K, value V) (V, bool) {
	m.ensureFree()
	old, had := m.free[key]
	m.free[key] = value
	return old, had
}

// Remove deletes key, returning its value if present.
func (m *CHashMap[K, V]) Remove(key K) (V, bool) {
	m.ensureFree()
	old, had := m.free[key]
	if had {
		delete(m.free, key)
	}
	return old, had
}

// Iter calls fn for every entry. Order is unspecified.
func (m *CHashMap[K, V]) Iter(fn func(K, V)) {
	m.ensureFree()
	for k, v := range m.free {
		fn(k, v)
	}
}

func bucketCountFor(n int) int {
	// keep the load factor at or below 0.5, as a power of two, minimum 8
	b := 8
	for b < n*2 {
		b *= 2
	}
	return b
}

// Compact rehashes the map's current contents into an open-addressed
// bucket array written to dst, returning the number of bytes written.
func (m *CHashMap[K, V]) Compact(dst []byte) int {
	m.ensureFree()
	bucketStride := 1 + m.keyCodec.StaticSize + m.valCodec.StaticSize
	buckets := bucketCountFor(len(m.free))

	type slot struct {
		key K
		val V
		set bool
	}
	table := make([]slot, buckets)
	mask := uint64(buckets - 1)
	for k, v := range m.free {
		idx := m.hash(k) & mask
		for table[idx].set {
			idx = (idx + 1) & mask
		}
		table[idx] = slot{key: k, val: v, set: true}
	}

	headerLen := buckets * bucketStride
	offset := headerLen
	for i, s := range table {
		base := i * bucketStride
		if !s.set {
			dst[base] = bucketEmpty
			continue
		}
		dst[base] = bucketOccupied
		m.keyCodec.EncodeStatic(s.key, dst[base+1:base+1+m.keyCodec.StaticSize])
		m.valCodec.EncodeStatic(s.val, dst[base+1+m.keyCodec.StaticSize:base+bucketStride])
		offset += m.keyCodec.EncodeDyn(s.key, dst[offset:])
		offset += m.valCodec.EncodeDyn(s.val, dst[offset:])
	}

	m.raw = dst[:offset]
	m.buckets = buckets
	m.count = len(m.free)
	m.free = nil
	m.compact = true
	return offset
}

// Decompact returns an independent, free copy of the map's contents.
func (m *CHashMap[K, V]) Decompact() *CHashMap[K, V] {
	if !m.compact {
		cp := make(map[K]V, len(m.free))
		for k, v := range m.free {
			cp[k] = v
		}
		return &CHashMap[K, V]{hash: m.hash, keyCodec: m.keyCodec, valCodec: m.valCodec, free: cp}
	}
	return &CHashMap[K, V]{
		hash: m.hash, keyCodec: m.keyCodec, valCodec: m.valCodec,
		free: decodeCHashMap(m.hash, m.keyCodec, m.valCodec, m.raw, m.buckets),
	}
}

func decodeCHashMap[K comparable, V any](hash func(K) uint64, keyCodec Codec[K], valCodec Codec[V], raw []byte, buckets int) map[K]V {
	bucketStride := 1 + keyCodec.StaticSize + valCodec.StaticSize
	headerLen := buckets * bucketStride
	result := make(map[K]V)
	offset := headerLen
	for i := 0; i < buckets; i++ {
		base := i * bucketStride
		if raw[base] != bucketOccupied {
			continue
		}
		keyStatic := raw[base+1 : base+1+keyCodec.StaticSize]
		valStatic := raw[base+1+keyCodec.StaticSize : base+bucketStride]
		key, kn := keyCodec.Decode(keyStatic, raw[offset:])
		offset += kn
		val, vn := valCodec.Decode(valStatic, raw[offset:])
		offset += vn
		result[key] = val
	}
	return result
}
