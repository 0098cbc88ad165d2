package actor

import (
	"fmt"
	"sync"

	"github.com/citybound/citybound-sub004/internal/chunked"
	"github.com/citybound/citybound-sub004/internal/compact"
	"github.com/citybound/citybound-sub004/internal/identity"
)

// inboxSlotsPerChunk bounds how many queued packets one backing chunk
// holds before an inbox's queue grows a new one.
const inboxSlotsPerChunk = 512

// Inbox holds every Packet[M] addressed to one (message type, actor
// type) pair, materialized on a chunked.Queue of fixed-width slots
// (RawID prefix + the message's compacted static and dynamic parts) so
// an in-flight turn's unprocessed messages survive a restart just like
// its swarms and slot maps do (spec.md §4.4 Persistence, grounded on
// original_source's inbox.rs InboxIterator — there realized over a
// chunky::Queue with a fixed read count taken up front; the same
// fixed-count drain applies here, just over the Go codec's encoding
// instead of a raw memcpy).
//
// A caller-supplied maxDynamicBytes bounds every message's dynamic part
// so the queue's slot width is fixed; a message whose dynamic part would
// exceed it is a configuration error, not a runtime one, and panics.
type Inbox[M any] struct {
	mu              sync.Mutex
	queue           *chunked.Queue
	codec           compact.Codec[M]
	maxDynamicBytes int
	slotSize        int
}

// NewInbox creates an empty Inbox backed by backend, queuing packets
// whose message is encoded through codec with a dynamic part no larger
// than maxDynamicBytes.
func NewInbox[M any](backend chunked.Backend, ident string, codec compact.Codec[M], maxDynamicBytes int) *Inbox[M] {
	slotSize := identity.EncodedSize + codec.StaticSize + maxDynamicBytes
	return &Inbox[M]{
		queue:           chunked.NewQueue(backend, ident, slotSize, inboxSlotsPerChunk),
		codec:           codec,
		maxDynamicBytes: maxDynamicBytes,
		slotSize:        slotSize,
	}
}

func (ib *Inbox[M]) encode(p Packet[M]) []byte {
	dynSize := ib.codec.DynamicSize(p.Message)
	if dynSize > ib.maxDynamicBytes {
		panic(fmt.Sprintf("actor: inbox: message dynamic part %d bytes exceeds max %d", dynSize, ib.maxDynamicBytes))
	}
	buf := make([]byte, ib.slotSize)
	p.Recipient.Encode(buf[:identity.EncodedSize])
	static := buf[identity.EncodedSize : identity.EncodedSize+ib.codec.StaticSize]
	ib.codec.EncodeStatic(p.Message, static)
	dyn := buf[identity.EncodedSize+ib.codec.StaticSize:]
	ib.codec.EncodeDyn(p.Message, dyn[:dynSize])
	return buf
}

func (ib *Inbox[M]) decode(buf []byte) Packet[M] {
	recipient := identity.DecodeRawID(buf[:identity.EncodedSize])
	static := buf[identity.EncodedSize : identity.EncodedSize+ib.codec.StaticSize]
	dyn := buf[identity.EncodedSize+ib.codec.StaticSize:]
	msg, _ := ib.codec.Decode(static, dyn)
	return Packet[M]{Recipient: recipient, Message: msg}
}

// Put enqueues a packet for the next drain.
func (ib *Inbox[M]) Put(p Packet[M]) error {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	return ib.queue.Enqueue(ib.encode(p))
}

// putRaw enqueues an already wire-encoded packet, for System.DeliverFrame
// routing a cross-machine frame into this inbox without knowing M at the
// call site.
func (ib *Inbox[M]) putRaw(data []byte) error {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	return ib.queue.Enqueue(data)
}

// EncodeForNetwork renders p in the same fixed-width wire shape Put
// stores locally, for World.Send to frame a packet addressed to a
// different machine.
func (ib *Inbox[M]) EncodeForNetwork(p Packet[M]) []byte {
	return ib.encode(p)
}

// Len reports how many packets are currently queued.
func (ib *Inbox[M]) Len() int {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	return ib.queue.Len()
}

// Drain takes a snapshot of every packet queued so far and returns it.
// Packets enqueued while a handler later runs over the snapshot do not
// appear in the returned slice, since Drain takes the queue's length
// once up front and dequeues exactly that many slots.
func (ib *Inbox[M]) Drain() ([]Packet[M], error) {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	n := ib.queue.Len()
	packets := make([]Packet[M], 0, n)
	for i := 0; i < n; i++ {
		data, ok, err := ib.queue.Dequeue()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		packets = append(packets, ib.decode(data))
	}
	return packets, nil
}

// Persist flushes the inbox's backing queue.
func (ib *Inbox[M]) Persist() error { return ib.queue.Persist() }

// Teardown releases the inbox's backing queue.
func (ib *Inbox[M]) Teardown() error { return ib.queue.Teardown() }

// rawInbox is implemented by every *Inbox[M], letting System.DeliverFrame
// route a decoded wire frame into the right inbox without knowing M at
// the call site.
type rawInbox interface {
	putRaw(data []byte) error
}
