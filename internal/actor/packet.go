package actor

import "github.com/citybound/citybound-sub004/internal/identity"

// Packet pairs a message with the RawID of the actor it is addressed to
// (spec.md §4.4, grounded on original_source's messaging.rs Packet<M>).
// Unlike the original's generic-over-Option recipient, the runtime here
// always carries a concrete RawID: a missing recipient is represented by
// the caller never sending the packet at all, per SPEC_FULL.md §10.
type Packet[M any] struct {
	Recipient identity.RawID
	Message   M
}
