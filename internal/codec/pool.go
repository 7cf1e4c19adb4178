package codec

import (
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
)

// inflatePool manages reusable raw deflate readers to reduce allocation overhead.
type inflatePool struct {
	pool sync.Pool
}

func newInflatePool() *inflatePool {
	return &inflatePool{}
}

// get returns an inflater reading from r.
// The caller must call the returned release function when done.
func (p *inflatePool) get(r io.Reader) (io.ReadCloser, func()) {
	if p == nil {
		fr := flate.NewReader(r)
		return fr, func() { _ = fr.Close() } //nolint:errcheck // inflater close only releases state
	}

	value := p.pool.Get()
	if value == nil {
		fr := flate.NewReader(r)
		return fr, p.releaseFunc(fr)
	}

	fr, ok := value.(io.ReadCloser)
	if !ok {
		fr = flate.NewReader(r)
		return fr, p.releaseFunc(fr)
	}

	resetter, ok := fr.(flate.Resetter)
	if !ok {
		fr = flate.NewReader(r)
		return fr, p.releaseFunc(fr)
	}
	if err := resetter.Reset(r, nil); err != nil {
		// Reset failed, drop this one and create new
		fr = flate.NewReader(r)
	}
	return fr, p.releaseFunc(fr)
}

// releaseFunc returns fr to the pool once it no longer references the source.
func (p *inflatePool) releaseFunc(fr io.ReadCloser) func() {
	return func() {
		if resetter, ok := fr.(flate.Resetter); ok {
			_ = resetter.Reset(eofReader{}, nil) //nolint:errcheck // clearing state before pool return
		}
		p.pool.Put(fr)
	}
}

// eofReader detaches pooled inflaters from their last source.
type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
