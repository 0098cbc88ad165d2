//go:build !unix

package chunked

import (
	"fmt"
	"os"
)

// mappedChunk falls back to read-whole-file/write-whole-file on non-unix
// targets, where golang.org/x/sys/unix's Mmap is unavailable. Sync writes
// the in-memory copy back; there is no page-cache sharing, only the same
// external contract (durable after Sync, visible only to this process
// before then).
type mappedChunk struct {
	path string
	data []byte
}

func openMapped(path string, size int) (*mappedChunk, error) {
	data := make([]byte, size)
	if f, err := os.Open(path); err == nil {
		_, _ = f.Read(data)
		f.Close()
	}
	return &mappedChunk{path: path, data: data}, nil
}

func (m *mappedChunk) Data() []byte { return m.data }

func (m *mappedChunk) Sync() error {
	f, err := os.OpenFile(m.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("chunked: open %s: %w", m.path, err)
	}
	defer f.Close()
	_, err = f.Write(m.data)
	return err
}

func (m *mappedChunk) Close() error { return nil }

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
