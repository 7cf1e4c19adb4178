package sink

import (
	"bytes"
	"io"
	"sync"
)

// MemorySink keeps committed files in memory.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
	order []string
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// ShouldProcess always returns true; later entries replace earlier ones.
func (s *MemorySink) ShouldProcess(*Entry) bool {
	return true
}

// Writer returns a Committer that buffers content until Commit.
func (s *MemorySink) Writer(entry *Entry) (Committer, error) {
	return &memoryCommitter{sink: s, path: entry.Path}, nil
}

// File returns the committed content of path.
func (s *MemorySink) File(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[path]
	return b, ok
}

// Paths returns the committed paths in commit order.
func (s *MemorySink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

func (s *MemorySink) put(path string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; !ok {
		s.order = append(s.order, path)
	}
	s.files[path] = content
}

type memoryCommitter struct {
	sink *MemorySink
	path string
	buf  bytes.Buffer
}

func (c *memoryCommitter) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *memoryCommitter) Commit() error {
	c.sink.put(c.path, c.buf.Bytes())
	return nil
}

func (c *memoryCommitter) Discard() error {
	c.buf.Reset()
	return nil
}

// DiscardSink accepts every entry and stores nothing. It backs simulate mode.
type DiscardSink struct{}

// ShouldProcess always returns true.
func (DiscardSink) ShouldProcess(*Entry) bool {
	return true
}

// Writer returns a Committer that drops its input.
func (DiscardSink) Writer(*Entry) (Committer, error) {
	return discardCommitter{}, nil
}

type discardCommitter struct{}

func (discardCommitter) Write(p []byte) (int, error) { return io.Discard.Write(p) }
func (discardCommitter) Commit() error               { return nil }
func (discardCommitter) Discard() error              { return nil }

var (
	_ Sink = (*MemorySink)(nil)
	_ Sink = DiscardSink{}
)
