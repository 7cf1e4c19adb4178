// Package filelist decodes the file list block of an installer.
//
// The container carries no schema version, so the record layout is found by
// trial: each known schema decodes the whole list from the same snapshot and
// the first one whose records are all plausible wins.
package filelist

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/meigma/icextract/internal/ictype"
)

// headerSize is the record count plus two reserved bytes.
const headerSize = 4

// Dumper receives the raw bytes of every record in dump mode.
type Dumper interface {
	DumpBlock(name string, content []byte) error
}

// List is a decoded file list.
type List struct {
	// Version is the schema the records were decoded with.
	Version ictype.Version

	// NodeCount is the number of nodes the list declares, regular or not.
	NodeCount int

	// Records holds the regular file records in list order.
	Records []ictype.FileRecord
}

// Parser decodes file lists.
type Parser struct {
	version  ictype.Version
	encoding encoding.Encoding
	dumper   Dumper
	logger   *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithVersion pins the schema and bypasses detection.
func WithVersion(v ictype.Version) Option {
	return func(p *Parser) {
		p.version = v
	}
}

// WithEncoding sets the code page used for paths (default Windows-1252).
// A nil encoding keeps the raw bytes.
func WithEncoding(enc encoding.Encoding) Option {
	return func(p *Parser) {
		p.encoding = enc
	}
}

// WithDumper enables dump mode: every raw record is handed to d.
func WithDumper(d Dumper) Option {
	return func(p *Parser) {
		p.dumper = d
	}
}

// WithLogger sets the logger for parser diagnostics.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{encoding: charmap.Windows1252}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// log returns the logger, falling back to a discard logger if nil.
func (p *Parser) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// Parse decodes a decompressed file list. streamLength is the length of the
// logical payload stream and bounds every record offset.
func (p *Parser) Parse(list []byte, streamLength int64) (*List, error) {
	r := bytes.NewReader(list)
	var head [headerSize]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("%w: read file list header: %v", ictype.ErrRecordInvalid, err)
	}
	count := int(binary.LittleEndian.Uint16(head[:2]))
	p.log().Info("files in installer", "count", count)

	version := p.version
	if version == ictype.VersionUnknown {
		detected, err := p.Detect(r, count, streamLength)
		if err != nil {
			return nil, err
		}
		version = detected
	} else if !version.Known() {
		return nil, fmt.Errorf("%w: %d", ictype.ErrUnsupportedVersion, int(version))
	}
	p.log().Info("decoding file list", "version", version.String())

	out := &List{Version: version, NodeCount: count}
	for i := range count {
		rec, err := p.Decode(version, r)
		if err != nil {
			return nil, fmt.Errorf("%w: node %d as version %s: %v; retry with an explicit installer version",
				ictype.ErrRecordInvalid, i, version, err)
		}
		p.log().Debug("decoded node", "index", i, "start", rec.NodeStart, "size", rec.NodeSize, "end", rec.NodeEnd)

		if !rec.IsValid(streamLength) {
			return nil, fmt.Errorf("%w: node %d (%s) as version %s; retry with an explicit installer version",
				ictype.ErrRecordInvalid, i, rec.String(), version)
		}
		p.dumpNode(i, list, rec)

		if !rec.Regular() {
			if _, err := r.Seek(rec.NodeEnd, io.SeekStart); err != nil {
				return nil, fmt.Errorf("%w: node %d: %v", ictype.ErrRecordInvalid, i, err)
			}
			continue
		}
		p.log().Debug("file record", "record", rec.String())
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

// dumpNode hands the raw node bytes to the dumper, if any.
func (p *Parser) dumpNode(i int, list []byte, rec ictype.FileRecord) {
	if p.dumper == nil {
		return
	}
	if rec.NodeStart < 0 || rec.NodeEnd > int64(len(list)) || rec.NodeStart > rec.NodeEnd {
		return
	}
	name := fmt.Sprintf("FileMeta%d.bin", i)
	if err := p.dumper.DumpBlock(name, list[rec.NodeStart:rec.NodeEnd]); err != nil {
		p.log().Warn("failed to dump record", "name", name, "error", err)
	}
}
