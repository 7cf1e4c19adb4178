package block

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-restruct/restruct"

	"github.com/meigma/icextract/internal/codec"
	"github.com/meigma/icextract/internal/ictype"
)

const (
	// HeaderSize is the full size of a block header. The loop stops once a
	// header no longer fits before the end of the source.
	HeaderSize = 36

	// fieldsSize is the part of the header that carries tag and length. The
	// remaining header bytes are reserved and never interpreted.
	fieldsSize = 8
)

// Dumper receives raw block content in dump mode.
type Dumper interface {
	DumpBlock(name string, content []byte) error
}

// Section is the outcome of walking a data section.
type Section struct {
	// Blocks lists every header in file order.
	Blocks []Header

	// FileList is the decompressed file list, nil if no file list block was seen.
	FileList []byte

	// DataPos and DataSize locate the file data block. DataPos is -1 when absent.
	DataPos  int64
	DataSize int64
}

// HasData reports whether a file data block was seen.
func (s *Section) HasData() bool {
	return s.DataPos >= 0
}

// Walker iterates the blocks of a data section.
type Walker struct {
	decoder *codec.Decoder
	dumper  Dumper
	logger  *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithDumper enables dump mode: every block is handed to d.
func WithDumper(d Dumper) Option {
	return func(w *Walker) {
		w.dumper = d
	}
}

// WithLogger sets the logger for block diagnostics.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// NewWalker creates a Walker that unpacks blocks with decoder.
func NewWalker(decoder *codec.Decoder, opts ...Option) *Walker {
	w := &Walker{decoder: decoder}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// log returns the logger, falling back to a discard logger if nil.
func (w *Walker) log() *slog.Logger {
	if w.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.logger
}

// Walk reads blocks from the current position of rs until the next header
// would not fit before end. A section without a file list block yields
// ErrFileListMissing. Headers are authoritative: after each block the
// walker seeks to the declared end regardless of how much was consumed.
func (w *Walker) Walk(rs io.ReadSeeker, end int64) (*Section, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("get position: %w", err)
	}

	sec := &Section{DataPos: -1}
	var buf [fieldsSize]byte
	for pos+HeaderSize <= end {
		if _, err := io.ReadFull(rs, buf[:]); err != nil {
			return nil, fmt.Errorf("read block header at %d: %w", pos, err)
		}
		var raw rawHeader
		if err := restruct.Unpack(buf[:], binary.LittleEndian, &raw); err != nil {
			return nil, fmt.Errorf("decode block header at %d: %w", pos, err)
		}
		h := Header{Type: Type(raw.Type), Pos: pos + fieldsSize, Size: raw.Size}
		sec.Blocks = append(sec.Blocks, h)
		w.log().Debug("reading block", "type", h.Type.String(), "tag", fmt.Sprintf("%#x", raw.Type), "size", h.Size, "pos", h.Pos)

		if err := w.handle(rs, h, sec, end); err != nil {
			return nil, err
		}

		pos = h.Next()
		if _, err := rs.Seek(pos, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek to block at %d: %w", pos, err)
		}
	}
	if sec.FileList == nil {
		return nil, ictype.ErrFileListMissing
	}
	return sec, nil
}

func (w *Walker) handle(rs io.ReadSeeker, h Header, sec *Section, end int64) error {
	switch h.Type {
	case TypeFileData:
		sec.DataPos = h.Pos
		sec.DataSize = min(int64(h.Size), end-h.Pos)
		if w.dumper == nil {
			return nil
		}
		content := make([]byte, sec.DataSize)
		if _, err := io.ReadFull(rs, content); err != nil {
			return fmt.Errorf("read %s for dump: %w", h.Type, err)
		}
		w.dump(h, content)
		return nil

	case TypeFileList:
		list, err := w.decoder.Unpack(rs, h.Size)
		if err != nil {
			return fmt.Errorf("decompress file list: %w", err)
		}
		sec.FileList = list
		if w.dumper != nil {
			w.dump(h, list)
		}
		return nil

	default:
		if w.dumper == nil {
			return nil
		}
		content, err := w.decoder.Unpack(rs, h.Size)
		if errors.Is(err, ictype.ErrUnknownCodec) {
			w.log().Warn("skipping block with unknown compression", "type", h.Type.String(), "pos", h.Pos)
			return nil
		}
		if err != nil {
			w.log().Warn("failed to unpack block", "type", h.Type.String(), "pos", h.Pos, "error", err)
			return nil
		}
		w.dump(h, content)
		return nil
	}
}

// dump hands content to the dumper. Dump failures never abort the walk.
func (w *Walker) dump(h Header, content []byte) {
	if err := w.dumper.DumpBlock(h.Type.DumpName(), content); err != nil {
		w.log().Warn("failed to dump block", "type", h.Type.String(), "error", err)
	}
}
