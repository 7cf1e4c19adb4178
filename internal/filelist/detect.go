package filelist

import (
	"bytes"
	"io"

	"github.com/meigma/icextract/internal/ictype"
)

// Detect determines the schema of the count records starting at the current
// position of r. Schemas are tried newest first, since a newer, larger record
// satisfies an older schema's bounds far more often than the reverse. The
// position of r is unchanged on return.
func (p *Parser) Detect(r *bytes.Reader, count int, streamLength int64) (ictype.Version, error) {
	for _, v := range ictype.Versions {
		if p.try(v, r, count, streamLength) {
			p.log().Info("detected installer version", "version", v.String())
			return v, nil
		}
	}
	return ictype.VersionUnknown, ictype.ErrUnsupportedVersion
}

// try decodes count records under v from a snapshot of r and reports whether
// every regular record is plausible. r is restored afterwards.
func (p *Parser) try(v ictype.Version, r *bytes.Reader, count int, streamLength int64) bool {
	snapshot := position(r)
	defer r.Seek(snapshot, io.SeekStart) //nolint:errcheck // snapshot is a valid offset

	p.log().Debug("testing installer version", "version", v.String())
	for i := range count {
		rec, err := p.Decode(v, r)
		if err != nil {
			p.log().Debug("version rejected", "version", v.String(), "node", i, "error", err)
			return false
		}
		if !rec.Regular() {
			if _, err := r.Seek(rec.NodeEnd, io.SeekStart); err != nil {
				return false
			}
			continue
		}
		if !rec.IsValid(streamLength) {
			p.log().Debug("version rejected", "version", v.String(), "node", i, "record", rec.String())
			return false
		}
	}
	return true
}
