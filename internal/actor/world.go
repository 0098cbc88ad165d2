package actor

import (
	"fmt"

	"github.com/citybound/citybound-sub004/internal/identity"
)

// World is the façade handlers and outside callers use to send messages
// and spawn actors, standing in for the pointer-juggling SystemServices
// of original_source's actor_system.rs with a System reference plus
// free generic functions (Go methods cannot themselves be generic).
type World struct {
	sys *System
}

// NewWorld wraps sys as a World façade.
func NewWorld(sys *System) *World {
	return &World{sys: sys}
}

// Send queues msg in the local inbox for message type M, to be handled
// on the next turn's drain, when recipient.Machine is this machine or
// the broadcast machine sentinel. When recipient.Machine is any other
// value (including the sentinel) and a netsync.Networking is attached,
// the packet is framed and handed to it for egress; a packet addressed
// to one specific other machine is not queued locally. It returns an
// error if no handler was registered for
// (M, recipient's actor type) — a routing mistake original_source makes
// a debug-time unwrap for the same reason — or if network egress fails.
func Send[M any](w *World, recipient identity.RawID, msg M) error {
	msgType := identity.TypeOf[M](w.sys.types)
	key := inboxKey{messageType: msgType, actorType: recipient.TypeID}
	inboxAny, ok := w.sys.inboxes[key]
	if !ok {
		return fmt.Errorf("actor: no inbox registered for message %d on actor type %d", msgType, recipient.TypeID)
	}
	inbox := inboxAny.(*Inbox[M])
	packet := Packet[M]{Recipient: recipient, Message: msg}

	local := recipient.Machine == w.sys.machine || recipient.Machine == identity.BroadcastMachine
	remote := recipient.Machine != w.sys.machine

	if local {
		if err := inbox.Put(packet); err != nil {
			return err
		}
	}
	if remote && w.sys.net != nil {
		encoded := inbox.EncodeForNetwork(packet)
		if recipient.Machine == identity.BroadcastMachine {
			return w.sys.net.Broadcast(uint16(msgType), encoded)
		}
		conn := w.sys.net.ConnectionTo(recipient.Machine)
		if conn == nil {
			return fmt.Errorf("actor: no connection to machine %d", recipient.Machine)
		}
		return conn.Send(uint16(msgType), encoded)
	}
	return nil
}

// LocalBroadcast sends msg to every machine-local instance of the actor
// type identified by actorType.
func LocalBroadcast[M any](w *World, actorType identity.ShortTypeId, msg M) error {
	return Send(w, identity.RawID{TypeID: actorType, Machine: w.sys.machine, InstanceID: identity.BroadcastInstanceID}, msg)
}

// GlobalBroadcast sends msg to every instance of actorType on every
// machine: delivered locally immediately, and framed for network
// broadcast to every peer.
func GlobalBroadcast[M any](w *World, actorType identity.ShortTypeId, msg M) error {
	return Send(w, identity.RawID{TypeID: actorType, InstanceID: identity.BroadcastInstanceID, Machine: identity.BroadcastMachine}, msg)
}

// SendToTrait delivers msg to every registered implementor of Trait,
// local-broadcasting to each implementor's swarm in turn.
func SendToTrait[Trait any, M any](w *World, msg M) error {
	traitID := identity.TypeOf[Trait](w.sys.types)
	for _, implType := range w.sys.traitImplementors[traitID] {
		if err := LocalBroadcast(w, implType, msg); err != nil {
			return err
		}
	}
	return nil
}

// AllocateInstanceID reserves a RawID on swarm for S without yet
// associating live state with it, for callers that need to know an
// actor's address before its state is fully constructed (e.g. so two
// actors can reference each other during setup, or so a spawn message
// can be addressed to an id before RegisterSpawner's handler runs).
func AllocateInstanceID[S any](w *World) (identity.RawID, error) {
	swarm := SwarmOf[S](w.sys)
	id, version, err := swarm.slots.AllocateID()
	if err != nil {
		return identity.RawID{}, err
	}
	return identity.NewRawID(swarm.typeID, id, swarm.machine, version), nil
}
