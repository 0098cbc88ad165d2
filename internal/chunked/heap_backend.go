package chunked

import "sync"

// HeapBackend keeps chunks as anonymous heap byte slices, with no
// persistence across process restarts. It is the backend used for
// transient collections (inboxes) and in tests.
type HeapBackend struct {
	mu     sync.Mutex
	chunks map[string]map[int][]byte
}

// NewHeapBackend returns an empty HeapBackend.
func NewHeapBackend() *HeapBackend {
	return &HeapBackend{chunks: make(map[string]map[int][]byte)}
}

func (b *HeapBackend) identChunks(ident string) map[int][]byte {
	m, ok := b.chunks[ident]
	if !ok {
		m = make(map[int][]byte)
		b.chunks[ident] = m
	}
	return m
}

// CreateChunk implements Backend.
func (b *HeapBackend) CreateChunk(ident string, chunkIndex int, size int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data := make([]byte, size)
	b.identChunks(ident)[chunkIndex] = data
	return data, nil
}

// OpenChunk implements Backend.
func (b *HeapBackend) OpenChunk(ident string, chunkIndex int, size int) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.chunks[ident]
	if !ok {
		return nil, false, nil
	}
	data, ok := m[chunkIndex]
	return data, ok, nil
}

// DropChunk implements Backend.
func (b *HeapBackend) DropChunk(ident string, chunkIndex int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.chunks[ident]; ok {
		delete(m, chunkIndex)
	}
	return nil
}

// Persist implements Backend; a no-op, since heap chunks never outlive
// the process.
func (b *HeapBackend) Persist(ident string) error { return nil }

// Teardown implements Backend.
func (b *HeapBackend) Teardown(ident string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.chunks, ident)
	return nil
}
