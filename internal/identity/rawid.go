// Package identity implements the runtime's addressing scheme: dense
// per-type ShortTypeIds, the 8-byte RawID that names an actor instance,
// a generic TypedID phantom-type wrapper, and the SlotMap that maps an
// instance id to its physical storage location (spec.md §4.3).
package identity

import (
	"encoding/binary"
	"fmt"
)

// ShortTypeId is a dense, process-local 16-bit id for a registered actor
// or trait type, standing in for the Rust original's non-zero u16
// optimization (value 0 is reserved and never handed out).
type ShortTypeId uint16

const invalidShortTypeId ShortTypeId = 0

// RawID names a specific actor instance: its type, the machine it lives
// on, a reuse-detecting version, and its instance number within the
// type's swarm.
type RawID struct {
	TypeID     ShortTypeId
	Machine    uint8
	Version    uint8
	InstanceID uint32
}

// BroadcastInstanceID marks a RawID as addressing every live instance of
// its type, rather than one specific instance.
const BroadcastInstanceID uint32 = 0xFFFFFFFF

// BroadcastMachine marks a RawID as addressing every machine, rather
// than one specific machine.
const BroadcastMachine uint8 = 0xFF

// NewRawID builds a RawID from its four fields.
func NewRawID(typeID ShortTypeId, instanceID uint32, machine, version uint8) RawID {
	return RawID{TypeID: typeID, Machine: machine, Version: version, InstanceID: instanceID}
}

// Invalid is the zero-value sentinel RawID, used where original_source's
// SlotIndices::invalid() would be used to mark an unallocated slot.
func Invalid() RawID {
	return RawID{TypeID: invalidShortTypeId}
}

// IsValid reports whether id was actually allocated.
func (id RawID) IsValid() bool { return id.TypeID != invalidShortTypeId }

// LocalBroadcast returns a copy of id that addresses every machine-local
// instance of id's type.
func (id RawID) LocalBroadcast() RawID {
	id.InstanceID = BroadcastInstanceID
	return id
}

// GlobalBroadcast returns a copy of id that addresses every instance of
// id's type on every machine.
func (id RawID) GlobalBroadcast() RawID {
	id.InstanceID = BroadcastInstanceID
	id.Machine = BroadcastMachine
	return id
}

// IsBroadcast reports whether id addresses more than one instance.
func (id RawID) IsBroadcast() bool { return id.InstanceID == BroadcastInstanceID }

// IsGlobalBroadcast reports whether id addresses instances on every
// machine.
func (id RawID) IsGlobalBroadcast() bool { return id.Machine == BroadcastMachine }

// String renders id the way original_source's RawID Debug impl does:
// "<type>_<instance>.<version>@<machine>".
func (id RawID) String() string {
	return fmt.Sprintf("%d_%d.%d@%d", id.TypeID, id.InstanceID, id.Version, id.Machine)
}

// EncodedSize is the fixed byte width RawID occupies when packed into a
// persisted packet or a wire frame.
const EncodedSize = 8

// Encode packs id into dst, which must be at least EncodedSize bytes
// long, in the same fixed-field style SlotIndices.encode uses.
func (id RawID) Encode(dst []byte) {
	binary.BigEndian.PutUint16(dst[0:2], uint16(id.TypeID))
	dst[2] = id.Machine
	dst[3] = id.Version
	binary.BigEndian.PutUint32(dst[4:8], id.InstanceID)
}

// DecodeRawID unpacks a RawID from src, which must be at least
// EncodedSize bytes long.
func DecodeRawID(src []byte) RawID {
	return RawID{
		TypeID:     ShortTypeId(binary.BigEndian.Uint16(src[0:2])),
		Machine:    src[2],
		Version:    src[3],
		InstanceID: binary.BigEndian.Uint32(src[4:8]),
	}
}
