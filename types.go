package icextract

import (
	"github.com/meigma/icextract/internal/block"
	"github.com/meigma/icextract/internal/ictype"
	"github.com/meigma/icextract/internal/sink"
	"github.com/meigma/icextract/internal/source"
)

// --- Re-exports from internal packages ---

// FileRecord describes one regular file in the installer.
type FileRecord = ictype.FileRecord

// Version identifies a file list record schema.
type Version = ictype.Version

// Compression identifies the packing method of a block.
type Compression = ictype.Compression

// BlockInfo describes one block of the data section.
type BlockInfo = block.Header

// BlockType is the tag of a block.
type BlockType = block.Type

// Entry describes one output file handed to a Sink.
type Entry = sink.Entry

// Sink receives extracted file content.
type Sink = sink.Sink

// Committer is a writer that can be committed or discarded.
type Committer = sink.Committer

// FileSink writes entries below a directory.
type FileSink = sink.FileSink

// MemorySink keeps entries in memory.
type MemorySink = sink.MemorySink

// DiscardSink accepts every entry and stores nothing.
type DiscardSink = sink.DiscardSink

// ExtractOption configures the FileSink built by ExtractTo.
type ExtractOption = sink.FileSinkOption

// FileSystem opens continuation files.
type FileSystem = source.FileSystem

// File is an open file returned by a FileSystem.
type File = source.File

// OSFileSystem is the FileSystem of the host operating system.
type OSFileSystem = source.OSFileSystem

// Version constants.
const (
	VersionUnknown = ictype.VersionUnknown
	Version20      = ictype.Version20
	Version30      = ictype.Version30
	Version35      = ictype.Version35
	Version40      = ictype.Version40
)

// Compression constants.
const (
	CompressionNone    = ictype.CompressionNone
	CompressionDeflate = ictype.CompressionDeflate
	CompressionBzip2   = ictype.CompressionBzip2
)

// Block type constants.
const (
	BlockFileList = block.TypeFileList
	BlockFileData = block.TypeFileData
)

// Sink constructors and options re-exported from sink.
var (
	NewFileSink   = sink.NewFileSink
	NewMemorySink = sink.NewMemorySink

	// WithOverwrite allows overwriting existing files. By default they are skipped.
	WithOverwrite = sink.WithOverwrite

	// WithPreserveTimes applies the recorded file times (default: true).
	WithPreserveTimes = sink.WithPreserveTimes

	// WithDirectWrites writes straight to the final path instead of a temp file.
	WithDirectWrites = sink.WithDirectWrites
)

// ParseVersion parses a schema number such as "35".
func ParseVersion(s string) (Version, error) {
	return ictype.ParseVersion(s)
}
