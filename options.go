package icextract

import (
	"log/slog"

	"golang.org/x/text/encoding"

	"github.com/meigma/icextract/internal/codec"
)

// DefaultMaxFileSize is the default cap on any single decompressed buffer (1GB).
const DefaultMaxFileSize = codec.DefaultMaxSize

// Option configures Open.
type Option func(*config)

type config struct {
	version     Version
	logger      *slog.Logger
	maxFileSize uint64
	encoding    encoding.Encoding
	encodingSet bool
	dump        Sink
	fsys        FileSystem
}

func newConfig(opts []Option) config {
	cfg := config{
		maxFileSize: DefaultMaxFileSize,
		fsys:        OSFileSystem{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithVersion pins the record schema and bypasses detection.
// VersionUnknown restores detection.
func WithVersion(v Version) Option {
	return func(c *config) {
		c.version = v
	}
}

// WithLogger sets the logger for decoding and extraction diagnostics.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxFileSize caps the decompressed size of the file list and of every
// extracted file. Set to 0 to disable the limit.
func WithMaxFileSize(limit uint64) Option {
	return func(c *config) {
		c.maxFileSize = limit
	}
}

// WithPathEncoding sets the code page file paths are decoded from
// (default: Windows-1252). A nil encoding keeps the raw bytes.
func WithPathEncoding(enc encoding.Encoding) Option {
	return func(c *config) {
		c.encoding = enc
		c.encodingSet = true
	}
}

// WithBlockDump writes every block of the data section and every raw file
// list record to s while opening.
func WithBlockDump(s Sink) Option {
	return func(c *config) {
		c.dump = s
	}
}

// WithFileSystem sets the filesystem the installer and its continuation
// files are opened from.
func WithFileSystem(fsys FileSystem) Option {
	return func(c *config) {
		if fsys != nil {
			c.fsys = fsys
		}
	}
}
