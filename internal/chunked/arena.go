package chunked

import "fmt"

// SizedArena is a slab allocator for fixed-size slots of slotSize bytes,
// backed by a sequence of equally sized chunks obtained from a Backend.
// Slots are always packed into [0, Len); Push appends at the end and
// SwapRemove fills the hole left by a removal with the last slot, both
// O(1), mirroring the arena "swap and pop" scheme actor swarms use to
// reclaim a dead actor's slot (spec.md §4.4).
type SizedArena struct {
	backend       Backend
	ident         string
	slotSize      int
	slotsPerChunk int
	chunks        [][]byte
	length        int
}

// NewSizedArena creates an arena of ident storing slotSize-byte slots,
// slotsPerChunk slots to a chunk.
func NewSizedArena(backend Backend, ident string, slotSize, slotsPerChunk int) *SizedArena {
	return &SizedArena{
		backend:       backend,
		ident:         ident,
		slotSize:      slotSize,
		slotsPerChunk: slotsPerChunk,
	}
}

// OpenSizedArena reopens a previously persisted arena, reading back as
// many chunks as ident has and deriving Len from storedLen (the caller's
// own bookkeeping of how many slots were live, typically from a SlotMap).
func OpenSizedArena(backend Backend, ident string, slotSize, slotsPerChunk, storedLen int) (*SizedArena, error) {
	a := NewSizedArena(backend, ident, slotSize, slotsPerChunk)
	neededChunks := 0
	if storedLen > 0 {
		neededChunks = (storedLen-1)/slotsPerChunk + 1
	}
	for i := 0; i < neededChunks; i++ {
		data, ok, err := backend.OpenChunk(ident, i, slotSize*slotsPerChunk)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &ErrChunkNotFound{Ident: ident, ChunkIndex: i}
		}
		a.chunks = append(a.chunks, data)
	}
	a.length = storedLen
	return a, nil
}

// Len returns the number of live slots.
func (a *SizedArena) Len() int { return a.length }

// SlotSize returns the fixed byte size of one slot.
func (a *SizedArena) SlotSize() int { return a.slotSize }

func (a *SizedArena) chunkFor(index int) (chunkIdx, offset int) {
	return index / a.slotsPerChunk, (index % a.slotsPerChunk) * a.slotSize
}

func (a *SizedArena) ensureChunk(chunkIdx int) ([]byte, error) {
	for len(a.chunks) <= chunkIdx {
		data, err := a.backend.CreateChunk(a.ident, len(a.chunks), a.slotSize*a.slotsPerChunk)
		if err != nil {
			return nil, fmt.Errorf("chunked: arena %q grow: %w", a.ident, err)
		}
		a.chunks = append(a.chunks, data)
	}
	return a.chunks[chunkIdx], nil
}

// At returns the slotSize-byte slice backing slot index. The slice
// aliases the arena's storage; writes to it are visible on the next At.
func (a *SizedArena) At(index int) []byte {
	if index < 0 || index >= a.length {
		panic(fmt.Sprintf("chunked: arena %q index %d out of range [0,%d)", a.ident, index, a.length))
	}
	chunkIdx, offset := a.chunkFor(index)
	return a.chunks[chunkIdx][offset : offset+a.slotSize]
}

// Push appends a copy of data (which must be exactly SlotSize bytes) and
// returns its slot index.
func (a *SizedArena) Push(data []byte) (int, error) {
	if len(data) != a.slotSize {
		panic(fmt.Sprintf("chunked: arena %q push: expected %d bytes, got %d", a.ident, a.slotSize, len(data)))
	}
	index := a.length
	chunkIdx, offset := a.chunkFor(index)
	chunk, err := a.ensureChunk(chunkIdx)
	if err != nil {
		return 0, err
	}
	copy(chunk[offset:offset+a.slotSize], data)
	a.length++
	return index, nil
}

// SwapRemove removes the slot at index by overwriting it with the last
// live slot's bytes, shrinking Len by one. It returns the index of the
// slot whose contents moved (the former last index), or -1 if index was
// already the last slot and nothing moved. Callers (typically a SlotMap)
// must update their own index for the moved slot to index.
func (a *SizedArena) SwapRemove(index int) int {
	if index < 0 || index >= a.length {
		panic(fmt.Sprintf("chunked: arena %q swap-remove %d out of range [0,%d)", a.ident, index, a.length))
	}
	lastIndex := a.length - 1
	moved := -1
	if index != lastIndex {
		copy(a.At(index), a.At(lastIndex))
		moved = lastIndex
	}
	a.length--
	return moved
}

// Persist flushes the arena's backend.
func (a *SizedArena) Persist() error { return a.backend.Persist(a.ident) }

// Teardown releases the arena's backend resources.
func (a *SizedArena) Teardown() error { return a.backend.Teardown(a.ident) }
