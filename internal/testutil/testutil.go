// Package testutil synthesises installer images for tests.
//
// The builders mirror the on-disk layout: a host stub, the data section
// signature, a run of tagged blocks, a file list encoded under one of the
// record schemas, and payload entries addressed by record offset.
package testutil

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/flate"

	"github.com/meigma/icextract/internal/ictype"
)

// Block tags used by the builders.
const (
	TagFileList = 0x143A
	TagFileData = 0x7F7F
	TagStrings  = 0x143E
)

// ModifiedTime is a FILETIME (2020-01-01T00:00:12.3456789Z) whose middle
// bytes decode to an implausible index under a misaligned schema.
const ModifiedTime int64 = 132223104123456789

// Bzip2Plain is the plaintext of Bzip2Packed.
var Bzip2Plain = bytes.Repeat([]byte("bzip2 payload for the codec tests\n"), 3)

// Bzip2Packed is Bzip2Plain compressed at level 9.
var Bzip2Packed = []byte{
	0x42, 0x5a, 0x68, 0x39, 0x31, 0x41, 0x59, 0x26, 0x53, 0x59, 0x57, 0xec, 0x6c, 0xda, 0x00, 0x00,
	0x0e, 0xd9, 0x80, 0x00, 0x10, 0x40, 0x00, 0x10, 0x00, 0x3f, 0x64, 0xdc, 0x30, 0x20, 0x00, 0x41,
	0x9f, 0xfa, 0xa9, 0x0d, 0x1e, 0xa6, 0x8d, 0x34, 0xda, 0x85, 0x32, 0x62, 0x64, 0x19, 0x19, 0x84,
	0x21, 0x54, 0x30, 0xc3, 0x0a, 0x21, 0xcb, 0xa5, 0x95, 0x5d, 0x67, 0xca, 0xa8, 0x94, 0xa5, 0x76,
	0x52, 0xe5, 0x64, 0x3c, 0x6d, 0xa3, 0x2b, 0xa5, 0xf8, 0xbb, 0x92, 0x29, 0xc2, 0x84, 0x82, 0xbf,
	0x63, 0x66, 0xd0,
}

// Deflate returns data as a raw deflate stream.
func Deflate(data []byte) []byte {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		panic(err)
	}
	if _, err := w.Write(data); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// MethodBody returns the bytes that follow the method tag for data packed
// under method: verbatim, a 2-byte prefix plus raw deflate, or bzip2.
// Bzip2 only supports Bzip2Plain.
func MethodBody(method ictype.Compression, data []byte) []byte {
	switch method {
	case ictype.CompressionNone:
		return append([]byte{}, data...)
	case ictype.CompressionDeflate:
		return append([]byte{0x78, 0xDA}, Deflate(data)...)
	case ictype.CompressionBzip2:
		if !bytes.Equal(data, Bzip2Plain) {
			panic("testutil: bzip2 fixture only covers Bzip2Plain")
		}
		return append([]byte{}, Bzip2Packed...)
	default:
		panic("testutil: unknown method")
	}
}

// PackBlock encodes data the way a top-level block stores it: decompressed
// size, method tag, then the method body. The block length equals len(result).
func PackBlock(method ictype.Compression, data []byte) []byte {
	out := binary.LittleEndian.AppendUint32(nil, uint32(len(data)))
	out = append(out, byte(method))
	return append(out, MethodBody(method, data)...)
}

// Block frames content with a block header.
func Block(tag uint16, content []byte) []byte {
	out := binary.LittleEndian.AppendUint16(nil, tag)
	out = append(out, 0, 0)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(content)))
	return append(out, content...)
}

// Installer concatenates a host stub, the data section signature and blocks.
func Installer(stub []byte, blocks ...[]byte) []byte {
	out := append([]byte{}, stub...)
	out = append(out, 0x77, 0x77, 0x67, 0x54, 0x29, 0x48)
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

// Entry is one payload addressed by a record.
type Entry struct {
	Method ictype.Compression
	Data   []byte

	// Raw replaces the method tag and body when set.
	Raw []byte
}

// Bytes returns the entry as stored in the payload stream.
func (e Entry) Bytes() []byte {
	if e.Raw != nil {
		return e.Raw
	}
	return append([]byte{byte(e.Method)}, MethodBody(e.Method, e.Data)...)
}

// CompressedSize returns the record size field matching the entry: the
// stored bytes plus the 11 bytes of header accounted for by extraction.
func (e Entry) CompressedSize() uint32 {
	return uint32(len(e.Bytes()) + 11)
}

// DataArea lays entries out after the 4-byte area header and returns the
// area together with each entry's record offset.
func DataArea(entries ...Entry) ([]byte, []uint32) {
	area := []byte{0, 0, 0, 0}
	offsets := make([]uint32, 0, len(entries))
	for _, e := range entries {
		offsets = append(offsets, uint32(len(area)-4))
		area = append(area, e.Bytes()...)
	}
	return area, offsets
}

// Pad returns data extended with zero bytes to at least n bytes.
func Pad(data []byte, n int) []byte {
	if len(data) >= n {
		return data
	}
	return append(data, make([]byte, n-len(data))...)
}
