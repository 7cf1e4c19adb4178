package ictype

import (
	"fmt"
	"time"
)

const (
	// KindFile is the node kind of a regular file. Other kinds carry no payload.
	KindFile uint16 = 0

	// MaxExpansionRatio bounds uncompressed/compressed for a plausible record.
	MaxExpansionRatio = 1000

	// MaxIndex bounds the sequence number of a plausible record.
	MaxIndex = 1_000_000_000
)

// FileRecord is one decoded entry of the file list block.
type FileRecord struct {
	// NodeStart and NodeEnd delimit the record inside the decompressed file list.
	NodeStart int64
	NodeSize  uint32
	NodeEnd   int64

	// Kind is KindFile for regular files; anything else is a directory or marker.
	Kind uint16

	// Offset locates the payload in the logical payload stream (before the 4-byte bias).
	Offset uint32

	CompressedSize   uint32
	UncompressedSize uint32

	// Unknown is an opaque field carried by the older schemas.
	Unknown uint32

	// Index is a sequence number. It is only used as a sanity bound.
	Index uint32

	// Path is the destination path as stored by the installer, already decoded
	// from its 8-bit code page. It is not safe to use as a filesystem path.
	Path string

	// Zero values mean the timestamp was absent or unparsable.
	Modified time.Time
	Accessed time.Time
	Created  time.Time
}

// SetNode records the byte range the record occupies.
func (r *FileRecord) SetNode(start int64, size uint32) {
	r.NodeStart = start
	r.NodeSize = size
	r.NodeEnd = start + int64(size)
}

// Regular reports whether the record describes a regular file.
func (r *FileRecord) Regular() bool {
	return r.Kind == KindFile
}

// IsValid reports whether the record is structurally plausible for a payload
// stream of the given length. A failure during detection rejects the schema;
// after detection it means the installer is corrupt or was misdetected.
func (r *FileRecord) IsValid(streamLength int64) bool {
	if int64(r.Offset) > streamLength {
		return false
	}
	if r.CompressedSize > 0 && r.UncompressedSize/r.CompressedSize > MaxExpansionRatio {
		return false
	}
	return r.Index <= MaxIndex
}

// String implements fmt.Stringer for diagnostics.
func (r *FileRecord) String() string {
	return fmt.Sprintf("file %d, kind %#x at %d: %d -> %d, path %q",
		r.Index, r.Kind, r.Offset, r.CompressedSize, r.UncompressedSize, r.Path)
}

// fileTimeEpochDelta is the number of 100ns intervals between 1601-01-01 and 1970-01-01.
const fileTimeEpochDelta = 116444736000000000

// maxFileTime is the last 100ns interval of the year 9999.
const maxFileTime = 2650467743999999999

// FromFileTime converts a Windows FILETIME value to a time.Time.
// Values outside the representable range yield the zero time and false.
func FromFileTime(ft int64) (time.Time, bool) {
	if ft <= 0 || ft > maxFileTime {
		return time.Time{}, false
	}
	d := ft - fileTimeEpochDelta
	return time.Unix(d/10_000_000, (d%10_000_000)*100), true
}
