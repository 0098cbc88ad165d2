// Package chunked implements the runtime's backing storage: fixed-size
// slab arenas, multi-sized arena banks, chunked queues and chunked
// vectors, all built over chunks of contiguous bytes that a Backend
// either keeps anonymously on the heap or memory-maps to files for
// persistence (spec.md §4.2).
package chunked

import "fmt"

// Backend is a storage handler: it creates, reopens, persists and tears
// down the byte regions ("chunks") a collection is built from. Every
// collection has a logical identifier (a path-like string); a Backend
// may keep each chunk as an independent file named "<ident>_<index>.bin"
// inside a directory named after ident.
type Backend interface {
	// CreateChunk allocates a fresh chunk of exactly size bytes for
	// ident at chunkIndex.
	CreateChunk(ident string, chunkIndex int, size int) ([]byte, error)
	// OpenChunk reopens a chunk previously created for ident at
	// chunkIndex, e.g. after a process restart. ok is false if no such
	// chunk exists yet.
	OpenChunk(ident string, chunkIndex int, size int) (data []byte, ok bool, err error)
	// DropChunk releases a chunk that is no longer needed (e.g. a
	// chunked queue chunk that has fully passed its read cursor).
	DropChunk(ident string, chunkIndex int) error
	// Persist flushes any buffered state for ident to durable storage.
	Persist(ident string) error
	// Teardown releases every resource (file handles, mappings) held
	// for ident.
	Teardown(ident string) error
}

// ErrChunkNotFound is returned by backends when a chunk index has no
// corresponding chunk and the caller asked to open rather than create.
type ErrChunkNotFound struct {
	Ident      string
	ChunkIndex int
}

func (e *ErrChunkNotFound) Error() string {
	return fmt.Sprintf("chunked: no chunk %d for %q", e.ChunkIndex, e.Ident)
}
