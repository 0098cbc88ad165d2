package chunked

import "fmt"

// Queue is a chunked FIFO of fixed-size slots: Enqueue appends past the
// write cursor, Dequeue advances the read cursor, and any chunk the read
// cursor has fully passed is dropped from the backend immediately, so a
// long-lived queue (e.g. a peer's outgoing frame queue) never holds more
// chunks than its current backlog needs (spec.md §4.2).
type Queue struct {
	backend       Backend
	ident         string
	slotSize      int
	slotsPerChunk int

	chunks    map[int][]byte // chunk index -> data, sparse as low indices are dropped
	headChunk int            // lowest live chunk index
	readPos   int            // next slot to dequeue, absolute index
	writePos  int            // next slot to enqueue, absolute index
}

// NewQueue creates an empty queue of ident storing slotSize-byte slots.
func NewQueue(backend Backend, ident string, slotSize, slotsPerChunk int) *Queue {
	return &Queue{
		backend:       backend,
		ident:         ident,
		slotSize:      slotSize,
		slotsPerChunk: slotsPerChunk,
		chunks:        make(map[int][]byte),
	}
}

// Len returns the number of slots currently enqueued and not yet
// dequeued.
func (q *Queue) Len() int { return q.writePos - q.readPos }

func (q *Queue) chunkFor(pos int) (chunkIdx, offset int) {
	return pos / q.slotsPerChunk, (pos % q.slotsPerChunk) * q.slotSize
}

func (q *Queue) ensureChunk(chunkIdx int) ([]byte, error) {
	if data, ok := q.chunks[chunkIdx]; ok {
		return data, nil
	}
	data, err := q.backend.CreateChunk(q.ident, chunkIdx, q.slotSize*q.slotsPerChunk)
	if err != nil {
		return nil, fmt.Errorf("chunked: queue %q chunk %d: %w", q.ident, chunkIdx, err)
	}
	q.chunks[chunkIdx] = data
	return data, nil
}

// Enqueue appends a copy of data (exactly slotSize bytes).
func (q *Queue) Enqueue(data []byte) error {
	if len(data) != q.slotSize {
		panic(fmt.Sprintf("chunked: queue %q enqueue: expected %d bytes, got %d", q.ident, q.slotSize, len(data)))
	}
	chunkIdx, offset := q.chunkFor(q.writePos)
	chunk, err := q.ensureChunk(chunkIdx)
	if err != nil {
		return err
	}
	copy(chunk[offset:offset+q.slotSize], data)
	q.writePos++
	return nil
}

// Dequeue pops the oldest enqueued slot. ok is false if the queue is
// empty. The returned slice is a copy and stays valid after its chunk
// is dropped.
func (q *Queue) Dequeue() (data []byte, ok bool, err error) {
	if q.readPos >= q.writePos {
		return nil, false, nil
	}
	chunkIdx, offset := q.chunkFor(q.readPos)
	chunk, present := q.chunks[chunkIdx]
	if !present {
		return nil, false, fmt.Errorf("chunked: queue %q missing chunk %d for read pos %d", q.ident, chunkIdx, q.readPos)
	}
	out := make([]byte, q.slotSize)
	copy(out, chunk[offset:offset+q.slotSize])
	q.readPos++

	newChunkIdx, _ := q.chunkFor(q.readPos)
	for q.headChunk < newChunkIdx {
		if derr := q.backend.DropChunk(q.ident, q.headChunk); derr != nil {
			return out, true, fmt.Errorf("chunked: queue %q drop chunk %d: %w", q.ident, q.headChunk, derr)
		}
		delete(q.chunks, q.headChunk)
		q.headChunk++
	}
	return out, true, nil
}

// Persist flushes the queue's backend.
func (q *Queue) Persist() error { return q.backend.Persist(q.ident) }

// Teardown releases the queue's backend resources.
func (q *Queue) Teardown() error { return q.backend.Teardown(q.ident) }
