package filelist

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding"

	"github.com/meigma/icextract/internal/ictype"
)

// readPath consumes the rest of the node and stores the decoded path on rec.
// The field holds the path, optionally followed by a shortcut name, and is
// terminated by at least one null byte. Nothing left in the node leaves the
// path empty.
func readPath(r *bytes.Reader, rec *ictype.FileRecord, enc encoding.Encoding) error {
	pos := r.Size() - int64(r.Len())
	remaining := rec.NodeEnd - pos
	if remaining < 1 {
		return nil
	}
	if remaining > int64(r.Len()) {
		return fmt.Errorf("read path: %w", io.ErrUnexpectedEOF)
	}
	raw := make([]byte, remaining)
	if _, err := io.ReadFull(r, raw); err != nil {
		return fmt.Errorf("read path: %w", err)
	}
	path, err := DecodePath(raw, enc)
	if err != nil {
		return err
	}
	rec.Path = path
	return nil
}

// DecodePath truncates raw at its first null byte and decodes the remainder
// from the installer's 8-bit code page.
func DecodePath(raw []byte, enc encoding.Encoding) (string, error) {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if enc == nil {
		return string(raw), nil
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode path: %w", err)
	}
	return string(out), nil
}
