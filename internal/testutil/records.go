package testutil

import (
	"bytes"
	"encoding/binary"

	"github.com/meigma/icextract/internal/ictype"
)

// Record describes one file list node to encode.
type Record struct {
	Kind             uint16
	Offset           uint32
	CompressedSize   uint32
	Unknown          uint32
	UncompressedSize uint32
	Index            uint32
	Path             string
	Shortcut         string

	// Dummy encodes the empty-file marker form (schemas 35 and 40).
	Dummy bool

	Modified, Accessed, Created int64
}

// FileFor builds a regular record pointing at an entry.
func FileFor(path string, offset uint32, e Entry, size int) Record {
	return Record{
		Offset:           offset,
		CompressedSize:   e.CompressedSize(),
		Unknown:          1,
		UncompressedSize: uint32(size),
		Path:             path,
		Modified:         ModifiedTime,
		Accessed:         ModifiedTime,
		Created:          ModifiedTime,
	}
}

const fill = 0xFF

func reserved(n int) []byte {
	return bytes.Repeat([]byte{fill}, n)
}

func zeros(n int) []byte {
	return make([]byte, n)
}

// pathField is the path, the optional shortcut name and the null padding.
func (r Record) pathField() []byte {
	out := append([]byte(r.Path), 0)
	if r.Shortcut != "" {
		out = append(out, r.Shortcut...)
	}
	return append(out, zeros(8)...)
}

func (r Record) times(out []byte) []byte {
	out = binary.LittleEndian.AppendUint64(out, uint64(r.Modified))
	out = binary.LittleEndian.AppendUint64(out, uint64(r.Accessed))
	return binary.LittleEndian.AppendUint64(out, uint64(r.Created))
}

// EncodeRecord encodes r under version. Reserved bytes directly after the
// kind are zero; every other reserved range is 0xFF so that misaligned
// schemas read implausible values.
func EncodeRecord(version ictype.Version, r Record) []byte {
	var body []byte
	le := binary.LittleEndian
	if r.Kind != ictype.KindFile {
		body = zeros(8)
	} else {
		switch version {
		case ictype.Version20, ictype.Version30:
			body = zeros(2)
			body = le.AppendUint32(body, r.Offset)
			body = le.AppendUint32(body, r.CompressedSize)
			body = le.AppendUint32(body, r.Unknown)
			body = le.AppendUint32(body, r.UncompressedSize)
			if version == ictype.Version20 {
				body = append(body, reserved(16)...)
			} else {
				body = append(body, reserved(18)...)
				body = le.AppendUint32(body, r.Index)
			}
			body = r.times(body)
		case ictype.Version35, ictype.Version40:
			body = zeros(3)
			if r.Dummy {
				body = append(body, 0xE2)
				body = append(body, reserved(30)...)
				break
			}
			body = append(body, 0x00)
			if version == ictype.Version35 {
				body = append(body, reserved(2)...)
				body = le.AppendUint32(body, r.Offset)
				body = le.AppendUint32(body, r.CompressedSize)
				body = le.AppendUint32(body, r.Unknown)
				body = le.AppendUint32(body, r.UncompressedSize)
				body = append(body, reserved(8)...)
				body = le.AppendUint32(body, r.Index)
			} else {
				body = append(body, reserved(14)...)
				body = le.AppendUint32(body, r.UncompressedSize)
				body = le.AppendUint32(body, r.Offset)
				body = le.AppendUint32(body, r.CompressedSize)
				body = append(body, reserved(4)...)
			}
			body = r.times(body)
		}
		body = append(body, r.pathField()...)
	}

	var out []byte
	switch version {
	case ictype.Version20, ictype.Version30:
		out = le.AppendUint16(out, uint16(4+len(body)))
	default:
		out = le.AppendUint32(out, uint32(6+len(body)))
	}
	out = le.AppendUint16(out, r.Kind)
	return append(out, body...)
}

// Records encodes a sequence of records back to back without the list header.
func Records(version ictype.Version, records ...Record) []byte {
	var out []byte
	for _, r := range records {
		out = append(out, EncodeRecord(version, r)...)
	}
	return out
}

// FileList encodes a complete decompressed file list: the record count, two
// reserved bytes and the records.
func FileList(version ictype.Version, records ...Record) []byte {
	out := binary.LittleEndian.AppendUint16(nil, uint16(len(records)))
	out = append(out, 0, 0)
	return append(out, Records(version, records...)...)
}
