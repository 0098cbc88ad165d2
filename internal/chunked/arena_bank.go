package chunked

import (
	"fmt"
	"math/bits"
)

// defaultMinClass is the smallest size class a MultiSizedArenaBank ever
// allocates, chosen so tiny values (a handful of bytes of dynamic part)
// don't each round up to a 1-byte-granularity class and thrash the
// class count.
const defaultMinClass = 16

// MultiSizedArenaBank stores variably sized values across a set of
// SizedArenas keyed by power-of-two size class, so a value of dynamic
// size N is packed into the smallest class >= N rather than one arena
// sized for the worst case (spec.md §4.2, §8). A stored value's location
// is (class size in bytes, slot index within that class's arena).
type MultiSizedArenaBank struct {
	backend       Backend
	ident         string
	slotsPerChunk int
	minClass      int
	arenas        map[int]*SizedArena // keyed by class size, not class index
}

// NewMultiSizedArenaBank creates a bank of ident over backend.
func NewMultiSizedArenaBank(backend Backend, ident string, slotsPerChunk int) *MultiSizedArenaBank {
	return &MultiSizedArenaBank{
		backend:       backend,
		ident:         ident,
		slotsPerChunk: slotsPerChunk,
		minClass:      defaultMinClass,
		arenas:        make(map[int]*SizedArena),
	}
}

// ClassFor returns the smallest power-of-two size class that fits size
// bytes; a size exactly equal to a class boundary uses that class, never
// the next one up.
func ClassFor(size, minClass int) int {
	if size <= minClass {
		return minClass
	}
	return 1 << bits.Len(uint(size-1))
}

func (b *MultiSizedArenaBank) arenaFor(class int) *SizedArena {
	a, ok := b.arenas[class]
	if !ok {
		a = NewSizedArena(b.backend, fmt.Sprintf("%s_class%d", b.ident, class), class, b.slotsPerChunk)
		b.arenas[class] = a
	}
	return a
}

// Location identifies a value stored in the bank.
type Location struct {
	Class int
	Index int
}

// Push stores data (padded with zeroes up to its class's slot size) and
// returns its Location. len(data) is the value's true byte length; the
// class is derived from it.
func (b *MultiSizedArenaBank) Push(data []byte) (Location, error) {
	class := ClassFor(len(data), b.minClass)
	slot := make([]byte, class)
	copy(slot, data)
	idx, err := b.arenaFor(class).Push(slot)
	if err != nil {
		return Location{}, err
	}
	return Location{Class: class, Index: idx}, nil
}

// At returns the class-sized slot at loc. The true value occupies a
// prefix of it; trailing bytes are class padding.
func (b *MultiSizedArenaBank) At(loc Location) []byte {
	return b.arenaFor(loc.Class).At(loc.Index)
}

// SwapRemove removes the value at loc and returns the Location of
// whichever value moved into its slot (same class, former-last index),
// or (Location{}, false) if nothing moved.
func (b *MultiSizedArenaBank) SwapRemove(loc Location) (Location, bool) {
	moved := b.arenaFor(loc.Class).SwapRemove(loc.Index)
	if moved < 0 {
		return Location{}, false
	}
	return Location{Class: loc.Class, Index: moved}, true
}

// Persist flushes every class arena in the bank.
func (b *MultiSizedArenaBank) Persist() error {
	for _, a := range b.arenas {
		if err := a.Persist(); err != nil {
			return err
		}
	}
	return nil
}

// Teardown tears down every class arena in the bank.
func (b *MultiSizedArenaBank) Teardown() error {
	for _, a := range b.arenas {
		if err := a.Teardown(); err != nil {
			return err
		}
	}
	return nil
}
