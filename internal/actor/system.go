package actor

import (
	"fmt"

	"github.com/citybound/citybound-sub004/internal/chunked"
	"github.com/citybound/citybound-sub004/internal/compact"
	"github.com/citybound/citybound-sub004/internal/identity"
	"github.com/citybound/citybound-sub004/internal/netsync"
)

type inboxKey struct {
	messageType identity.ShortTypeId
	actorType   identity.ShortTypeId
}

// System is the runtime's per-process registry of actor types, message
// types and the inboxes and swarms that connect them. Sending a message
// routes it to the single inbox registered for its (message type, actor
// type) pair; draining a turn runs every registered handler over the
// snapshot each of those inboxes held at turn start (spec.md §4.4,
// grounded on original_source's actor_system.rs ActorSystem — there a
// table of raw pointers behind unsafe casts, here the same
// (message type, actor type) routing table realized with Go interfaces
// instead of pointer erasure).
type System struct {
	types   *identity.TypeRegistry
	backend chunked.Backend
	machine uint8

	swarms   map[identity.ShortTypeId]any
	inboxes  map[inboxKey]any
	drainers []func(*World) error

	// traitImplementors[traitTypeID] lists the concrete actor types
	// registered as implementing that trait, for trait broadcast.
	traitImplementors map[identity.ShortTypeId][]identity.ShortTypeId

	// net is the machine's connection to its peers, nil in single-machine
	// or unit-test configurations. World.Send consults it to decide
	// whether a recipient needs network framing instead of (or in
	// addition to) a local inbox put, and DeliverFrame routes an inbound
	// frame from it into the local inbox it names.
	net *netsync.Networking
}

// NewSystem creates an empty System whose swarms persist their slot maps
// and arena banks through backend, addressed as running on machine.
func NewSystem(backend chunked.Backend, machine uint8) *System {
	return &System{
		types:             identity.NewTypeRegistry(),
		backend:           backend,
		machine:           machine,
		swarms:            make(map[identity.ShortTypeId]any),
		inboxes:           make(map[inboxKey]any),
		traitImplementors: make(map[identity.ShortTypeId][]identity.ShortTypeId),
	}
}

// AttachNetworking wires net into sys so that World.Send can frame
// cross-machine packets for egress and DeliverFrame has somewhere to
// have been called from. A System with no networking attached treats
// every recipient as machine-local, which is correct for single-machine
// runs and unit tests.
func (sys *System) AttachNetworking(net *netsync.Networking) {
	sys.net = net
}

// RegisterActorType creates and registers a Swarm[S], storing each
// instance's state compacted through codec rather than as a live Go
// value behind a pointer, panicking if S was already registered.
func RegisterActorType[S any](sys *System, codec compact.Codec[S]) *Swarm[S] {
	typeID := identity.TypeOf[S](sys.types)
	if _, ok := sys.swarms[typeID]; ok {
		panic(fmt.Sprintf("actor: type %d already registered", typeID))
	}
	swarm := newSwarm[S](typeID, sys.machine, sys.backend, fmt.Sprintf("swarm_%d", typeID), codec)
	sys.swarms[typeID] = swarm
	return swarm
}

// SwarmOf returns the Swarm[S] registered for S, panicking if none was.
func SwarmOf[S any](sys *System) *Swarm[S] {
	typeID := identity.TypeOf[S](sys.types)
	swarm, ok := sys.swarms[typeID].(*Swarm[S])
	if !ok {
		panic(fmt.Sprintf("actor: no swarm registered for %T", *new(S)))
	}
	return swarm
}

// RegisterTraitImplementor records that S implements Trait, so a
// TraitID[Trait]-addressed broadcast also reaches S's instances.
func RegisterTraitImplementor[Trait any, S any](sys *System) {
	traitID := identity.TypeOf[Trait](sys.types)
	implID := identity.TypeOf[S](sys.types)
	sys.traitImplementors[traitID] = append(sys.traitImplementors[traitID], implID)
}

// RegisterHandler wires a handler for messages of type M addressed to
// instances of swarm, and returns the Inbox packets of that shape are
// queued into until the next turn's drain. maxMessageDynamicBytes bounds
// M's dynamic part, fixing the inbox's on-disk slot width.
func RegisterHandler[M any, S any](sys *System, swarm *Swarm[S], codec compact.Codec[M], maxMessageDynamicBytes int, handler func(*S, M, *World) Fate) *Inbox[M] {
	msgType := identity.TypeOf[M](sys.types)
	key := inboxKey{messageType: msgType, actorType: swarm.typeID}
	if _, ok := sys.inboxes[key]; ok {
		panic(fmt.Sprintf("actor: handler for message %d on type %d already registered", msgType, swarm.typeID))
	}
	inbox := NewInbox[M](sys.backend, fmt.Sprintf("inbox_%d_%d", msgType, swarm.typeID), codec, maxMessageDynamicBytes)
	sys.inboxes[key] = inbox

	sys.drainers = append(sys.drainers, func(world *World) error {
		packets, err := inbox.Drain()
		if err != nil {
			return err
		}
		for _, p := range packets {
			if p.Recipient.IsBroadcast() {
				ids, err := swarm.AllInstanceIDs()
				if err != nil {
					return err
				}
				for _, id := range ids {
					if err := dispatchOne(swarm, id, p.Message, handler, world); err != nil {
						return err
					}
				}
				continue
			}
			if err := dispatchOne(swarm, p.Recipient, p.Message, handler, world); err != nil {
				return err
			}
		}
		return nil
	})
	return inbox
}

func dispatchOne[M any, S any](swarm *Swarm[S], recipient identity.RawID, msg M, handler func(*S, M, *World) Fate, world *World) error {
	state, ok, err := swarm.Get(recipient)
	if err != nil {
		return err
	}
	if !ok {
		// stale RawID or dead instance: silently dropped, per spec.md §4.4.
		return nil
	}
	if handler(state, msg, world) == Die {
		return swarm.Die(recipient)
	}
	return swarm.Commit(recipient, state)
}

// RegisterSpawner wires the two-phase spawn protocol for actor type S:
// World.AllocateInstanceID[S] reserves an id and version up front, and
// the caller later sends a value of SM (the spawn message) addressed to
// that same RawID; construct turns it into S's initial state, which is
// then installed into swarm at the pre-allocated id (spec.md §4.4's
// "allocate id now, construct later via message", grounded on
// original_source's actor_system.rs spawn/prepare-then-finalize split).
func RegisterSpawner[SM any, S any](sys *System, swarm *Swarm[S], codec compact.Codec[SM], maxMessageDynamicBytes int, construct func(SM) S) *Inbox[SM] {
	msgType := identity.TypeOf[SM](sys.types)
	key := inboxKey{messageType: msgType, actorType: swarm.typeID}
	if _, ok := sys.inboxes[key]; ok {
		panic(fmt.Sprintf("actor: spawner for message %d on type %d already registered", msgType, swarm.typeID))
	}
	inbox := NewInbox[SM](sys.backend, fmt.Sprintf("spawn_%d_%d", msgType, swarm.typeID), codec, maxMessageDynamicBytes)
	sys.inboxes[key] = inbox

	sys.drainers = append(sys.drainers, func(world *World) error {
		packets, err := inbox.Drain()
		if err != nil {
			return err
		}
		for _, p := range packets {
			if err := swarm.install(p.Recipient, construct(p.Message)); err != nil {
				return err
			}
		}
		return nil
	})
	return inbox
}

// DeliverFrame routes a decoded incoming wire frame into the local
// inbox its payload's RawID prefix and messageType together identify,
// exactly as a same-machine Send would have (spec.md §4.5 Ingress). It
// is the counterpart World.Send's network-egress branch calls on the
// sending machine.
func (sys *System) DeliverFrame(messageType uint16, payload []byte) error {
	if len(payload) < identity.EncodedSize {
		return fmt.Errorf("actor: deliver frame: payload %d bytes shorter than a RawID", len(payload))
	}
	recipient := identity.DecodeRawID(payload[:identity.EncodedSize])
	key := inboxKey{messageType: identity.ShortTypeId(messageType), actorType: recipient.TypeID}
	inbox, ok := sys.inboxes[key]
	if !ok {
		return fmt.Errorf("actor: deliver frame: no inbox registered for message %d on actor type %d", messageType, recipient.TypeID)
	}
	raw, ok := inbox.(rawInbox)
	if !ok {
		return fmt.Errorf("actor: deliver frame: inbox for message %d on actor type %d cannot accept raw frames", messageType, recipient.TypeID)
	}
	return raw.putRaw(payload)
}

// ProcessAllMessages runs every registered handler's drain once, in
// registration order, over the snapshot each inbox held when
// ProcessAllMessages was called. Messages sent by a handler while this
// is running are deferred to the next call.
func (sys *System) ProcessAllMessages(world *World) error {
	for _, drain := range sys.drainers {
		if err := drain(world); err != nil {
			return err
		}
	}
	return nil
}
