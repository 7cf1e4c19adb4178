package filelist

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-restruct/restruct"

	"github.com/meigma/icextract/internal/ictype"
)

// position returns the read offset of r.
func position(r *bytes.Reader) int64 {
	return r.Size() - int64(r.Len())
}

// unpack decodes the next size bytes of r into v.
func unpack(r *bytes.Reader, v any, size int) error {
	if r.Len() < size {
		return io.ErrUnexpectedEOF
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	return restruct.Unpack(buf, binary.LittleEndian, v)
}

// skip advances r by n bytes.
func skip(r *bytes.Reader, n int) error {
	if r.Len() < n {
		return io.ErrUnexpectedEOF
	}
	_, err := r.Seek(int64(n), io.SeekCurrent)
	return err
}

// Decode decodes the record at the current position of r under version.
// For a non-regular node only the prefix is read; the caller must seek to
// NodeEnd before decoding the next record.
func (p *Parser) Decode(version ictype.Version, r *bytes.Reader) (ictype.FileRecord, error) {
	switch version {
	case ictype.Version20:
		return p.decodeV20(r)
	case ictype.Version30:
		return p.decodeV30(r)
	case ictype.Version35:
		return p.decodeV35(r)
	case ictype.Version40:
		return p.decodeV40(r)
	default:
		return ictype.FileRecord{}, fmt.Errorf("%w: %d", ictype.ErrUnsupportedVersion, int(version))
	}
}

func readPrefix16(r *bytes.Reader) (ictype.FileRecord, error) {
	var rec ictype.FileRecord
	start := position(r)
	var pre prefix16
	if err := unpack(r, &pre, prefix16Size); err != nil {
		return rec, err
	}
	rec.SetNode(start, uint32(pre.Size))
	rec.Kind = pre.Kind
	return rec, nil
}

func readPrefix32(r *bytes.Reader) (ictype.FileRecord, error) {
	var rec ictype.FileRecord
	start := position(r)
	var pre prefix32
	if err := unpack(r, &pre, prefix32Size); err != nil {
		return rec, err
	}
	rec.SetNode(start, pre.Size)
	rec.Kind = pre.Kind
	return rec, nil
}

func (p *Parser) decodeV20(r *bytes.Reader) (ictype.FileRecord, error) {
	rec, err := readPrefix16(r)
	if err != nil || !rec.Regular() {
		return rec, err
	}
	var b body20
	if err := unpack(r, &b, body20Size); err != nil {
		return rec, err
	}
	rec.Offset = b.Offset
	rec.CompressedSize = b.CompressedSize
	rec.Unknown = b.Unknown
	rec.UncompressedSize = b.UncompressedSize
	p.setTimes(&rec, b.Times)
	return rec, readPath(r, &rec, p.encoding)
}

func (p *Parser) decodeV30(r *bytes.Reader) (ictype.FileRecord, error) {
	rec, err := readPrefix16(r)
	if err != nil || !rec.Regular() {
		return rec, err
	}
	var b body30
	if err := unpack(r, &b, body30Size); err != nil {
		return rec, err
	}
	rec.Offset = b.Offset
	rec.CompressedSize = b.CompressedSize
	rec.Unknown = b.Unknown
	rec.UncompressedSize = b.UncompressedSize
	rec.Index = b.Index
	p.setTimes(&rec, b.Times)
	return rec, readPath(r, &rec, p.encoding)
}

func (p *Parser) decodeV35(r *bytes.Reader) (ictype.FileRecord, error) {
	rec, err := readPrefix32(r)
	if err != nil || !rec.Regular() {
		return rec, err
	}
	dummy, err := readMarker(r)
	if err != nil {
		return rec, err
	}
	if dummy {
		if err := skip(r, dummySkip); err != nil {
			return rec, err
		}
		return rec, readPath(r, &rec, p.encoding)
	}
	var b body35
	if err := unpack(r, &b, body35Size); err != nil {
		return rec, err
	}
	rec.Offset = b.Offset
	rec.CompressedSize = b.CompressedSize
	rec.Unknown = b.Unknown
	rec.UncompressedSize = b.UncompressedSize
	rec.Index = b.Index
	p.setTimes(&rec, b.Times)
	return rec, readPath(r, &rec, p.encoding)
}

func (p *Parser) decodeV40(r *bytes.Reader) (ictype.FileRecord, error) {
	rec, err := readPrefix32(r)
	if err != nil || !rec.Regular() {
		return rec, err
	}
	dummy, err := readMarker(r)
	if err != nil {
		return rec, err
	}
	if dummy {
		if err := skip(r, dummySkip); err != nil {
			return rec, err
		}
		return rec, readPath(r, &rec, p.encoding)
	}
	var b body40
	if err := unpack(r, &b, body40Size); err != nil {
		return rec, err
	}
	rec.Offset = b.Offset
	rec.CompressedSize = b.CompressedSize
	rec.UncompressedSize = b.UncompressedSize
	p.setTimes(&rec, b.Times)
	return rec, readPath(r, &rec, p.encoding)
}

// readMarker reads the head shared by schemas 35 and 40 and reports whether
// the record is an empty dummy file.
func readMarker(r *bytes.Reader) (bool, error) {
	var head markerHead
	if err := unpack(r, &head, markerHeadSize); err != nil {
		return false, err
	}
	return head.Marker == dummyMarker, nil
}

// setTimes converts the stamps. Unparsable values are left zero.
func (p *Parser) setTimes(rec *ictype.FileRecord, ft fileTimes) {
	var ok [3]bool
	rec.Modified, ok[0] = ictype.FromFileTime(ft.Modified)
	rec.Accessed, ok[1] = ictype.FromFileTime(ft.Accessed)
	rec.Created, ok[2] = ictype.FromFileTime(ft.Created)
	if !ok[0] || !ok[1] || !ok[2] {
		p.log().Debug("failed to parse file time", "node", rec.NodeStart)
	}
}
