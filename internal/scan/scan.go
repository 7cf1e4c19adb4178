// Package scan locates a fixed byte signature inside an arbitrary host file.
package scan

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/meigma/icextract/internal/ictype"
)

// DataSectionSignature marks the start of the installer data section.
var DataSectionSignature = []byte{0x77, 0x77, 0x67, 0x54, 0x29, 0x48}

// chunkSize is the read size used while searching.
const chunkSize = 1 << 20

// Find searches rs forward from its current position for sig and returns the
// absolute position immediately after the first match. On success rs is left
// positioned at the returned offset. The first match wins.
func Find(rs io.ReadSeeker, sig []byte) (int64, error) {
	if len(sig) == 0 {
		return 0, errors.New("scan: empty signature")
	}
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("scan: get position: %w", err)
	}

	overlap := len(sig) - 1
	buf := make([]byte, chunkSize+overlap)
	kept := 0 // bytes carried over from the previous chunk
	base := start

	for {
		n, readErr := io.ReadFull(rs, buf[kept:])
		window := buf[:kept+n]
		if i := bytes.Index(window, sig); i >= 0 {
			pos := base + int64(i) + int64(len(sig))
			if _, err := rs.Seek(pos, io.SeekStart); err != nil {
				return 0, fmt.Errorf("scan: seek to match: %w", err)
			}
			return pos, nil
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
				return 0, ictype.ErrSignatureNotFound
			}
			return 0, fmt.Errorf("scan: read: %w", readErr)
		}
		if len(window) > overlap {
			keep := window[len(window)-overlap:]
			base += int64(len(window) - overlap)
			kept = copy(buf, keep)
		}
	}
}
