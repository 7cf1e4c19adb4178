// Package codec unpacks the compressed blocks found in installer data sections.
//
// A packed block starts with an optional 4-byte little-endian decompressed
// size and a 1-byte compression method tag, followed by the method's payload.
// Every successful call returns a buffer of exactly the decompressed size.
package codec

import (
	"compress/bzip2"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"

	"github.com/meigma/icextract/internal/ictype"
	"github.com/meigma/icextract/internal/sizing"
)

const (
	// HeaderSize is the size field plus the method tag. It is always deducted
	// from the block size, even when the caller supplies the size.
	HeaderSize = 5

	// deflatePrefix is skipped before the raw deflate stream starts.
	deflatePrefix = 2

	// DefaultMaxSize is the default cap on a single decompressed buffer (1GB).
	DefaultMaxSize = 1 << 30
)

// Decoder unpacks blocks under the store, deflate and bzip2 methods.
type Decoder struct {
	pool    *inflatePool
	maxSize uint64
	logger  *slog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithMaxSize caps the decompressed size of a single block.
// Set to 0 to disable the limit.
func WithMaxSize(limit uint64) Option {
	return func(d *Decoder) {
		d.maxSize = limit
	}
}

// WithLogger sets the logger for codec diagnostics.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Decoder) {
		d.logger = logger
	}
}

// NewDecoder creates a Decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		pool:    newInflatePool(),
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// log returns the logger, falling back to a discard logger if nil.
func (d *Decoder) log() *slog.Logger {
	if d.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.logger
}

// Unpack reads the decompressed size from r, then unpacks the block.
// blockSize is the full size of the block including its 5-byte header.
func (d *Decoder) Unpack(r io.Reader, blockSize uint32) ([]byte, error) {
	var sizeBuf [4]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, fmt.Errorf("read decompressed size: %w", err)
	}
	return d.UnpackSized(r, blockSize, binary.LittleEndian.Uint32(sizeBuf[:]))
}

// UnpackSized unpacks a block whose decompressed size is already known.
//
// On ErrUnknownCodec nothing beyond the method tag has been consumed; the
// caller is expected to skip the block.
func (d *Decoder) UnpackSized(r io.Reader, blockSize, size uint32) ([]byte, error) {
	var methodBuf [1]byte
	if _, err := io.ReadFull(r, methodBuf[:]); err != nil {
		return nil, fmt.Errorf("read compression method: %w", err)
	}
	method := ictype.Compression(methodBuf[0])

	switch method {
	case ictype.CompressionNone, ictype.CompressionDeflate, ictype.CompressionBzip2:
	default:
		d.log().Warn("unknown compression method, data might be encrypted", "method", methodBuf[0])
		return nil, fmt.Errorf("%w: %#x", ictype.ErrUnknownCodec, methodBuf[0])
	}

	budget, ok := sizing.SubUint32(blockSize, HeaderSize)
	if !ok {
		return nil, fmt.Errorf("%w: block size %d smaller than header", ictype.ErrDecompression, blockSize)
	}
	if err := sizing.CheckLimit(uint64(size), d.maxSize, ictype.ErrSizeOverflow); err != nil {
		return nil, fmt.Errorf("unpack %d bytes: %w", size, err)
	}

	n, err := sizing.ToInt(uint64(size), ictype.ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("unpack %d bytes: %w", size, err)
	}
	if method == ictype.CompressionNone && budget < size {
		return nil, fmt.Errorf("%w: stored block holds %d of %d bytes", ictype.ErrDecompression, budget, size)
	}

	d.log().Debug("unpacking block", "method", method.String(), "packed", budget, "size", size)

	out := make([]byte, n)
	switch method {
	case ictype.CompressionNone:
		err = d.store(r, budget, out)
	case ictype.CompressionDeflate:
		err = d.inflate(r, out)
	case ictype.CompressionBzip2:
		err = d.bunzip(r, out)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// store copies budget bytes verbatim. The block must hold at least len(out) bytes.
func (d *Decoder) store(r io.Reader, budget uint32, out []byte) error {
	if uint64(budget) < uint64(len(out)) {
		return fmt.Errorf("%w: stored block holds %d of %d bytes", ictype.ErrDecompression, budget, len(out))
	}
	if _, err := io.ReadFull(r, out); err != nil {
		return fmt.Errorf("%w: store: %v", ictype.ErrDecompression, err)
	}
	if rest := int64(budget) - int64(len(out)); rest > 0 {
		if _, err := io.CopyN(io.Discard, r, rest); err != nil {
			return fmt.Errorf("%w: store: %v", ictype.ErrDecompression, err)
		}
	}
	return nil
}

// inflate decodes a raw deflate stream until out is full. Input beyond the
// last needed byte may be buffered but is not interpreted.
func (d *Decoder) inflate(r io.Reader, out []byte) error {
	if _, err := io.CopyN(io.Discard, r, deflatePrefix); err != nil {
		return fmt.Errorf("%w: deflate prefix: %v", ictype.ErrDecompression, err)
	}
	fr, release := d.pool.get(r)
	defer release()

	if n, err := io.ReadFull(fr, out); err != nil {
		return fmt.Errorf("%w: deflate (read %d of %d bytes): %v", ictype.ErrDecompression, n, len(out), err)
	}
	return nil
}

// bunzip decodes a bzip2 stream until out is full.
func (d *Decoder) bunzip(r io.Reader, out []byte) error {
	br := bzip2.NewReader(r)
	if n, err := io.ReadFull(br, out); err != nil {
		return fmt.Errorf("%w: bzip2 (read %d of %d bytes): %v", ictype.ErrDecompression, n, len(out), err)
	}
	return nil
}
