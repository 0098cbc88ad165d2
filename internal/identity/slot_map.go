package identity

import (
	"encoding/binary"

	"github.com/citybound/citybound-sub004/internal/chunked"
)

// SlotIndices locates an instance's storage within a swarm's
// MultiSizedArenaBank: which size class it was packed into, and its slot
// index within that class's arena.
type SlotIndices struct {
	Class uint32
	Index uint32
}

func invalidSlotIndices() SlotIndices {
	return SlotIndices{Class: 0xFFFFFFFF, Index: 0xFFFFFFFF}
}

func (s SlotIndices) encode() []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], s.Class)
	binary.BigEndian.PutUint32(buf[4:8], s.Index)
	return buf
}

func decodeSlotIndices(buf []byte) SlotIndices {
	return SlotIndices{
		Class: binary.BigEndian.Uint32(buf[0:4]),
		Index: binary.BigEndian.Uint32(buf[4:8]),
	}
}

// ToLocation converts SlotIndices to the chunked.Location it addresses
// within a swarm's MultiSizedArenaBank.
func (s SlotIndices) ToLocation() chunked.Location {
	return chunked.Location{Class: int(s.Class), Index: int(s.Index)}
}

// SlotIndicesFromLocation converts a chunked.Location into the
// SlotIndices a SlotMap stores for it.
func SlotIndicesFromLocation(loc chunked.Location) SlotIndices {
	return SlotIndices{Class: uint32(loc.Class), Index: uint32(loc.Index)}
}

// SlotMap maps a dense instance id to its current SlotIndices, with a
// version counter per id so a stale RawID (one whose version no longer
// matches) is silently rejected rather than resolved to whatever
// unrelated instance now occupies the reused slot (spec.md §4.3,
// grounded on original_source's engine/kay/src/slot_map.rs).
type SlotMap struct {
	entries      *chunked.Vector
	lastVersion  *chunked.Vector
	freeWithVers []freeEntry
}

type freeEntry struct {
	id      uint32
	version uint8
}

// NewSlotMap creates an empty slot map of ident over backend.
func NewSlotMap(backend chunked.Backend, ident string) *SlotMap {
	return &SlotMap{
		entries:     chunked.NewVector(backend, ident+"_entries", 8, 4096),
		lastVersion: chunked.NewVector(backend, ident+"_versions", 1, 4096),
	}
}

// AllocateID returns a reusable (id, version) pair from the free list, or
// grows the map with a fresh id at version 0.
func (m *SlotMap) AllocateID() (id uint32, version uint8, err error) {
	if n := len(m.freeWithVers); n > 0 {
		fe := m.freeWithVers[n-1]
		m.freeWithVers = m.freeWithVers[:n-1]
		return fe.id, fe.version, nil
	}
	id = uint32(m.entries.Len())
	if err := m.entries.Set(int(id), invalidSlotIndices().encode()); err != nil {
		return 0, 0, err
	}
	if err := m.lastVersion.Set(int(id), []byte{0}); err != nil {
		return 0, 0, err
	}
	return id, 0, nil
}

// Associate records where instance id now physically lives.
func (m *SlotMap) Associate(id uint32, loc SlotIndices) error {
	return m.entries.Set(int(id), loc.encode())
}

// IndicesOf resolves id at a given version, returning ok=false if the
// version no longer matches (the RawID is stale).
func (m *SlotMap) IndicesOf(id uint32, version uint8) (SlotIndices, bool, error) {
	slot, err := m.lastVersion.At(int(id))
	if err != nil {
		return SlotIndices{}, false, err
	}
	if slot[0] != version {
		return SlotIndices{}, false, nil
	}
	loc, err := m.IndicesOfNoVersionCheck(id)
	return loc, true, err
}

// IndicesOfNoVersionCheck resolves id's current location without
// checking the caller's version, for internal use by the actor system
// turn loop which already trusts the id it is iterating.
func (m *SlotMap) IndicesOfNoVersionCheck(id uint32) (SlotIndices, error) {
	slot, err := m.entries.At(int(id))
	if err != nil {
		return SlotIndices{}, err
	}
	return decodeSlotIndices(slot), nil
}

// CurrentVersion returns id's live version, for callers (e.g. broadcast
// expansion) that need a valid RawID for an id they already know is
// live, without separately tracking the version themselves.
func (m *SlotMap) CurrentVersion(id uint32) (uint8, error) {
	slot, err := m.lastVersion.At(int(id))
	if err != nil {
		return 0, err
	}
	return slot[0], nil
}

// Free reclaims id, bumping its version so any outstanding RawID
// referencing the old version is rejected by IndicesOf.
func (m *SlotMap) Free(id uint32, version uint8) error {
	newVersion := version + 1
	if err := m.lastVersion.Set(int(id), []byte{newVersion}); err != nil {
		return err
	}
	m.freeWithVers = append(m.freeWithVers, freeEntry{id: id, version: newVersion})
	return nil
}

// Persist flushes the slot map's backing vectors.
func (m *SlotMap) Persist() error {
	if err := m.entries.Persist(); err != nil {
		return err
	}
	return m.lastVersion.Persist()
}

// Teardown releases the slot map's backing vectors.
func (m *SlotMap) Teardown() error {
	if err := m.entries.Teardown(); err != nil {
		return err
	}
	return m.lastVersion.Teardown()
}
