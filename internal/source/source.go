// Package source assembles the logical payload stream of an installer.
//
// The payload may live in the FILE_DATA block of the installer, in numbered
// continuation files next to it, or in both. Every physical part starts with
// a 4-byte header. The logical stream keeps exactly one of them, the first,
// so record offsets stay relative to the data that follows it.
package source

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/meigma/icextract/internal/ictype"
	"github.com/meigma/icextract/internal/sizing"
)

// PartHeaderSize is the header at the start of every physical part.
const PartHeaderSize = 4

// Primary is the FILE_DATA block of the installer itself.
type Primary struct {
	Name   string
	Reader io.ReaderAt
	Pos    int64
	Size   int64
}

// part maps a slice of a physical file into the logical stream.
type part struct {
	name    string
	reader  io.ReaderAt
	start   int64 // physical offset of the first contributed byte
	length  int64
	logical int64 // logical offset of the first contributed byte
}

// MultiSource is the logical payload stream. It implements io.ReaderAt.
type MultiSource struct {
	parts   []part
	size    int64
	closers []io.Closer
}

// Option configures Open.
type Option func(*config)

type config struct {
	fsys   FileSystem
	logger *slog.Logger
}

// WithFileSystem sets the filesystem continuation files are opened from.
func WithFileSystem(fsys FileSystem) Option {
	return func(c *config) {
		c.fsys = fsys
	}
}

// WithLogger sets the logger for diagnostics.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Open builds the logical stream from primary (nil when the installer has no
// FILE_DATA block) and the named continuation files.
//
// With a primary, its whole block is contributed and every continuation
// drops its header. Without one, the first continuation is contributed whole
// and the later ones drop their headers.
func Open(primary *Primary, continuations []string, opts ...Option) (*MultiSource, error) {
	cfg := config{fsys: OSFileSystem{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if primary == nil && len(continuations) == 0 {
		return nil, ictype.ErrDataAreaMissing
	}

	ms := &MultiSource{}
	if primary != nil {
		if err := ms.add(primary.Name, primary.Reader, primary.Pos, primary.Size); err != nil {
			return nil, err
		}
	}
	for i, name := range continuations {
		f, err := cfg.fsys.Open(name)
		if err != nil {
			_ = ms.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("open continuation %s: %w", name, err)
		}
		ms.closers = append(ms.closers, f)

		info, err := f.Stat()
		if err != nil {
			_ = ms.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("stat continuation %s: %w", name, err)
		}
		start := int64(PartHeaderSize)
		if primary == nil && i == 0 {
			start = 0
		}
		length := info.Size() - start
		if length < 0 {
			logger.Warn("continuation shorter than its header", "file", name, "size", info.Size())
			length = 0
		}
		if err := ms.add(name, f, start, length); err != nil {
			_ = ms.Close() //nolint:errcheck // best-effort cleanup
			return nil, err
		}
		logger.Debug("added continuation", "file", name, "start", start, "length", length)
	}
	logger.Info("payload stream assembled", "source", ms.SourceID(), "size", ms.size)
	return ms, nil
}

func (ms *MultiSource) add(name string, r io.ReaderAt, start, length int64) error {
	end, ok := sizing.AddInt64(ms.size, length)
	if !ok {
		return fmt.Errorf("%w: payload part %s", ictype.ErrSizeOverflow, name)
	}
	ms.parts = append(ms.parts, part{name: name, reader: r, start: start, length: length, logical: ms.size})
	ms.size = end
	return nil
}

// ReadAt implements io.ReaderAt over the logical stream, crossing part
// boundaries as needed.
func (ms *MultiSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("source: negative offset")
	}
	if off >= ms.size {
		return 0, io.EOF
	}
	i := sort.Search(len(ms.parts), func(i int) bool {
		return ms.parts[i].logical+ms.parts[i].length > off
	})

	n := 0
	for n < len(p) && i < len(ms.parts) {
		pt := ms.parts[i]
		rel := off + int64(n) - pt.logical
		want := min(int64(len(p)-n), pt.length-rel)
		if want <= 0 {
			i++
			continue
		}
		m, err := pt.reader.ReadAt(p[n:n+int(want)], pt.start+rel)
		n += m
		switch {
		case int64(m) == want:
		case err == nil, errors.Is(err, io.EOF):
			return n, fmt.Errorf("read %s: %w", pt.name, io.ErrUnexpectedEOF)
		default:
			return n, fmt.Errorf("read %s: %w", pt.name, err)
		}
		i++
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the length of the logical stream.
func (ms *MultiSource) Size() int64 {
	return ms.size
}

// SourceID identifies the stream by its parts.
func (ms *MultiSource) SourceID() string {
	return "parts:" + strings.Join(ms.Parts(), ",")
}

// Parts returns the names of the physical files backing the stream.
func (ms *MultiSource) Parts() []string {
	names := make([]string, 0, len(ms.parts))
	for _, pt := range ms.parts {
		names = append(names, pt.name)
	}
	return names
}

// Close closes every continuation file. The primary reader is owned by the
// caller.
func (ms *MultiSource) Close() error {
	var errs []error
	for _, c := range ms.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	ms.closers = nil
	return errors.Join(errs...)
}
