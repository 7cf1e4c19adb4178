// Package sink provides the destinations extracted files are written to.
package sink

import (
	"fmt"
	"io"
	"time"
)

// Entry describes one output file.
type Entry struct {
	// Path is slash-separated and satisfies fs.ValidPath.
	Path string

	// Size is the number of bytes that will be written.
	Size uint64

	// Times are zero when the installer did not record them.
	Modified time.Time
	Accessed time.Time
	Created  time.Time
}

// Sink receives extracted file content.
//
// Implementations determine where content is written (filesystem, memory,
// nowhere) and can decline entries.
type Sink interface {
	// ShouldProcess returns false if this entry should be skipped, for
	// example because the file exists and overwriting is disabled.
	ShouldProcess(entry *Entry) bool

	// Writer returns a writer for the entry's content.
	// The returned Committer must have Commit() called after a successful
	// write, or Discard() called on any error.
	Writer(entry *Entry) (Committer, error)
}

// Committer is a writer that can be committed or discarded.
//
// Implementations should stage writes until Commit is called. For example, a
// file-based implementation writes to a temp file and renames it on Commit.
type Committer interface {
	io.Writer

	// Commit finalizes the write, making content available.
	Commit() error

	// Discard aborts the write and cleans up any temporary resources.
	Discard() error
}

// Put writes content as a complete entry. A declined entry is not an error.
func Put(s Sink, entry *Entry, content []byte) (written bool, err error) {
	if !s.ShouldProcess(entry) {
		return false, nil
	}
	if err := Write(s, entry, content); err != nil {
		return false, err
	}
	return true, nil
}

// Write writes content for entry without consulting ShouldProcess. The
// Committer is discarded if the write fails.
func Write(s Sink, entry *Entry, content []byte) error {
	w, err := s.Writer(entry)
	if err != nil {
		return err
	}
	if _, err := w.Write(content); err != nil {
		_ = w.Discard() //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("write %s: %w", entry.Path, err)
	}
	return w.Commit()
}

// BlockDumper adapts a Sink to the block and record dumpers of the decoder.
type BlockDumper struct {
	Sink Sink
}

// DumpBlock writes content as a file named name.
func (d BlockDumper) DumpBlock(name string, content []byte) error {
	_, err := Put(d.Sink, &Entry{Path: name, Size: uint64(len(content))}, content)
	return err
}
