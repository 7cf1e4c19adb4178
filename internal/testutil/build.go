package testutil

import (
	"github.com/meigma/icextract/internal/ictype"
)

// Stub is the host executable placed before the data section.
var Stub = []byte("MZ\x90\x00 host executable stub, not a real program")

// File is one file of a synthesised installer.
type File struct {
	Path  string
	Entry Entry

	// Size is the uncompressed size recorded for the file. Zero means
	// len(Entry.Data).
	Size int

	// CompressedSize overrides the recorded compressed size when non-zero.
	CompressedSize uint32
}

// Layout is a synthesised payload: the data area and the matching records.
type Layout struct {
	Area    []byte
	Records []Record
}

// NewLayout lays files out in a data area and builds their records. The
// area is padded to at least minArea bytes.
func NewLayout(minArea int, files ...File) Layout {
	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, f.Entry)
	}
	area, offsets := DataArea(entries...)
	records := make([]Record, 0, len(files))
	for i, f := range files {
		size := f.Size
		if size == 0 {
			size = len(f.Entry.Data)
		}
		rec := FileFor(f.Path, offsets[i], f.Entry, size)
		if f.CompressedSize != 0 {
			rec.CompressedSize = f.CompressedSize
		}
		records = append(records, rec)
	}
	return Layout{Area: Pad(area, minArea), Records: records}
}

// FileListBlock returns the file list block for records under version.
func FileListBlock(version ictype.Version, records ...Record) []byte {
	return Block(TagFileList, PackBlock(ictype.CompressionDeflate, FileList(version, records...)))
}

// Build returns a complete single-file installer holding files.
func Build(version ictype.Version, files ...File) []byte {
	l := NewLayout(64, files...)
	return Installer(Stub,
		Block(TagStrings, PackBlock(ictype.CompressionNone, []byte("Setup strings"))),
		FileListBlock(version, l.Records...),
		Block(TagFileData, l.Area),
	)
}

// StoredFile returns a stored (uncompressed) file.
func StoredFile(path string, data []byte) File {
	return File{Path: path, Entry: Entry{Method: ictype.CompressionNone, Data: data}}
}

// DeflatedFile returns a deflate-packed file.
func DeflatedFile(path string, data []byte) File {
	return File{Path: path, Entry: Entry{Method: ictype.CompressionDeflate, Data: data}}
}
