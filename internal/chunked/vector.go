package chunked

import "fmt"

// Vector is a chunked random-access array of fixed-size slots whose
// per-slot storage address never changes as the vector grows (new slots
// land in new chunks, old chunks are never reallocated). This is the
// storage a SlotMap uses for its instance_id -> (class, index) table,
// where instance ids are handed out densely and the table must grow to
// match without invalidating indices already returned (spec.md §4.3).
type Vector struct {
	backend       Backend
	ident         string
	slotSize      int
	slotsPerChunk int
	chunks        [][]byte
	length        int
}

// NewVector creates an empty vector of ident storing slotSize-byte slots.
func NewVector(backend Backend, ident string, slotSize, slotsPerChunk int) *Vector {
	return &Vector{
		backend:       backend,
		ident:         ident,
		slotSize:      slotSize,
		slotsPerChunk: slotsPerChunk,
	}
}

// Len returns the number of slots the vector currently spans.
func (v *Vector) Len() int { return v.length }

func (v *Vector) chunkFor(index int) (chunkIdx, offset int) {
	return index / v.slotsPerChunk, (index % v.slotsPerChunk) * v.slotSize
}

func (v *Vector) ensureChunk(chunkIdx int) ([]byte, error) {
	for len(v.chunks) <= chunkIdx {
		data, err := v.backend.CreateChunk(v.ident, len(v.chunks), v.slotSize*v.slotsPerChunk)
		if err != nil {
			return nil, fmt.Errorf("chunked: vector %q grow: %w", v.ident, err)
		}
		v.chunks = append(v.chunks, data)
	}
	return v.chunks[chunkIdx], nil
}

// Grow extends the vector, if necessary, so that index is a valid slot.
// Newly created slots read as all-zero bytes.
func (v *Vector) Grow(index int) error {
	if index < v.length {
		return nil
	}
	chunkIdx, _ := v.chunkFor(index)
	if _, err := v.ensureChunk(chunkIdx); err != nil {
		return err
	}
	v.length = index + 1
	return nil
}

// At returns the slotSize-byte slice backing slot index, growing the
// vector first if index is not yet covered.
func (v *Vector) At(index int) ([]byte, error) {
	if err := v.Grow(index); err != nil {
		return nil, err
	}
	chunkIdx, offset := v.chunkFor(index)
	return v.chunks[chunkIdx][offset : offset+v.slotSize], nil
}

// Set copies data (exactly slotSize bytes) into slot index, growing the
// vector first if necessary.
func (v *Vector) Set(index int, data []byte) error {
	if len(data) != v.slotSize {
		panic(fmt.Sprintf("chunked: vector %q set: expected %d bytes, got %d", v.ident, v.slotSize, len(data)))
	}
	slot, err := v.At(index)
	if err != nil {
		return err
	}
	copy(slot, data)
	return nil
}

// Persist flushes the vector's backend.
func (v *Vector) Persist() error { return v.backend.Persist(v.ident) }

// Teardown releases the vector's backend resources.
func (v *Vector) Teardown() error { return v.backend.Teardown(v.ident) }
