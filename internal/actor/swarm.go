package actor

import (
	"github.com/citybound/citybound-sub004/internal/chunked"
	"github.com/citybound/citybound-sub004/internal/compact"
	"github.com/citybound/citybound-sub004/internal/identity"
)

// swarmArenaSlotsPerChunk bounds how many instances of one size class
// share a backing chunk before a swarm's arena bank grows a new one.
const swarmArenaSlotsPerChunk = 256

// Swarm owns every live instance of one actor type S, storing each
// instance's state compacted into a chunked.MultiSizedArenaBank via the
// codec supplied at registration rather than as a live Go value behind a
// map — spec.md §3's "no heap indirection into its dynamic part within
// the slot" and §4.4's "one multi-sized arena per actor type" (grounded
// on original_source's swarm.rs, which backs its storage the same way).
// Dense instance ids and reuse-safe versioning are delegated to
// identity.SlotMap, whose SlotIndices record a bank Location. occupant
// tracks the reverse mapping (bank Location -> instance id) so that a
// MultiSizedArenaBank swap-remove, which silently relocates whichever
// instance happened to occupy the arena's last slot, can have that
// instance's SlotMap entry corrected to its new Location.
type Swarm[S any] struct {
	typeID  identity.ShortTypeId
	slots   *identity.SlotMap
	machine uint8
	codec   compact.Codec[S]
	bank    *chunked.MultiSizedArenaBank

	occupant map[chunked.Location]uint32
}

func newSwarm[S any](typeID identity.ShortTypeId, machine uint8, backend chunked.Backend, ident string, codec compact.Codec[S]) *Swarm[S] {
	return &Swarm[S]{
		typeID:   typeID,
		slots:    identity.NewSlotMap(backend, ident+"_slots"),
		machine:  machine,
		codec:    codec,
		bank:     chunked.NewMultiSizedArenaBank(backend, ident+"_bank", swarmArenaSlotsPerChunk),
		occupant: make(map[chunked.Location]uint32),
	}
}

func (s *Swarm[S]) encode(state S) []byte {
	buf := make([]byte, s.codec.TotalSize(state))
	s.codec.EncodeStatic(state, buf[:s.codec.StaticSize])
	s.codec.EncodeDyn(state, buf[s.codec.StaticSize:])
	return buf
}

func (s *Swarm[S]) decode(loc chunked.Location) S {
	slot := s.bank.At(loc)
	state, _ := s.codec.Decode(slot[:s.codec.StaticSize], slot[s.codec.StaticSize:])
	return state
}

func (s *Swarm[S]) store(state S) (chunked.Location, error) {
	return s.bank.Push(s.encode(state))
}

// releaseLocation frees loc in the arena bank and, if doing so swap-moved
// a still-live instance into loc, corrects that instance's slot map
// entry to point at its new home.
func (s *Swarm[S]) releaseLocation(loc chunked.Location) error {
	delete(s.occupant, loc)
	moved, ok := s.bank.SwapRemove(loc)
	if !ok {
		return nil
	}
	movedInstance, tracked := s.occupant[moved]
	if !tracked {
		return nil
	}
	delete(s.occupant, moved)
	s.occupant[loc] = movedInstance
	return s.slots.Associate(movedInstance, identity.SlotIndicesFromLocation(loc))
}

// Spawn allocates a fresh instance id, compacts state into the swarm's
// arena bank, and returns the new instance's identity.RawID.
func (s *Swarm[S]) Spawn(state S) (identity.RawID, error) {
	id, version, err := s.slots.AllocateID()
	if err != nil {
		return identity.RawID{}, err
	}
	raw := identity.NewRawID(s.typeID, id, s.machine, version)
	if err := s.install(raw, state); err != nil {
		return identity.RawID{}, err
	}
	return raw, nil
}

// install compacts state into the bank and associates it with raw's
// already-allocated instance id, for both Spawn and the two-phase
// spawn-message protocol (World.AllocateInstanceID reserves the id; a
// registered spawner later calls install via RegisterSpawner's handler
// once the message carrying the initial state arrives).
func (s *Swarm[S]) install(raw identity.RawID, state S) error {
	loc, err := s.store(state)
	if err != nil {
		return err
	}
	if err := s.slots.Associate(raw.InstanceID, identity.SlotIndicesFromLocation(loc)); err != nil {
		return err
	}
	s.occupant[loc] = raw.InstanceID
	return nil
}

// Get resolves raw to a freshly decompacted copy of its live state,
// returning ok=false if raw is stale or addresses an instance that is
// not (or no longer) alive. Mutations to the returned pointer are only
// persisted if passed back through Commit.
func (s *Swarm[S]) Get(raw identity.RawID) (*S, bool, error) {
	indices, ok, err := s.slots.IndicesOf(raw.InstanceID, raw.Version)
	if err != nil || !ok {
		return nil, false, err
	}
	loc := indices.ToLocation()
	if instance, live := s.occupant[loc]; !live || instance != raw.InstanceID {
		return nil, false, nil
	}
	state := s.decode(loc)
	return &state, true, nil
}

// Commit recompacts state and writes it back to raw's storage, growing
// into a new size class (and releasing the old one, fixing up whatever
// instance that swap-removal relocates) if it no longer fits its
// current one.
func (s *Swarm[S]) Commit(raw identity.RawID, state *S) error {
	indices, ok, err := s.slots.IndicesOf(raw.InstanceID, raw.Version)
	if err != nil || !ok {
		return err
	}
	loc := indices.ToLocation()
	encoded := s.encode(*state)
	if len(encoded) <= loc.Class {
		slot := s.bank.At(loc)
		n := copy(slot, encoded)
		for i := n; i < len(slot); i++ {
			slot[i] = 0
		}
		return nil
	}
	newLoc, err := s.bank.Push(encoded)
	if err != nil {
		return err
	}
	if err := s.slots.Associate(raw.InstanceID, identity.SlotIndicesFromLocation(newLoc)); err != nil {
		return err
	}
	delete(s.occupant, loc)
	s.occupant[newLoc] = raw.InstanceID
	return s.releaseLocation(loc)
}

// Die reclaims raw's slot: its version is bumped so any outstanding
// reference to it is rejected by a subsequent Get, its arena slot is
// freed, and its instance id becomes eligible for reuse by a future
// Spawn.
func (s *Swarm[S]) Die(raw identity.RawID) error {
	indices, ok, err := s.slots.IndicesOf(raw.InstanceID, raw.Version)
	if err != nil {
		return err
	}
	if ok {
		if err := s.releaseLocation(indices.ToLocation()); err != nil {
			return err
		}
	}
	return s.slots.Free(raw.InstanceID, raw.Version)
}

// AllInstanceIDs returns the RawID of every currently live instance, used
// to fan a local or global broadcast out to each of them.
func (s *Swarm[S]) AllInstanceIDs() ([]identity.RawID, error) {
	ids := make([]identity.RawID, 0, len(s.occupant))
	for _, instanceID := range s.occupant {
		version, err := s.slots.CurrentVersion(instanceID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, identity.NewRawID(s.typeID, instanceID, s.machine, version))
	}
	return ids, nil
}

// Persist flushes the swarm's slot map and arena bank.
func (s *Swarm[S]) Persist() error {
	if err := s.slots.Persist(); err != nil {
		return err
	}
	return s.bank.Persist()
}

// Teardown releases the swarm's slot map and arena bank.
func (s *Swarm[S]) Teardown() error {
	if err := s.slots.Teardown(); err != nil {
		return err
	}
	return s.bank.Teardown()
}
