package codec

import (
	"bytes"
	"io"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/icextract/internal/ictype"
	"github.com/meigma/icextract/internal/testutil"
)

func TestUnpackMethods(t *testing.T) {
	plain := bytes.Repeat([]byte("installer payload "), 40)

	tests := []struct {
		name   string
		method ictype.Compression
		data   []byte
	}{
		{name: "store", method: ictype.CompressionNone, data: plain},
		{name: "deflate", method: ictype.CompressionDeflate, data: plain},
		{name: "bzip2", method: ictype.CompressionBzip2, data: testutil.Bzip2Plain},
		{name: "empty store", method: ictype.CompressionNone, data: []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := testutil.PackBlock(tt.method, tt.data)
			d := NewDecoder()

			got, err := d.Unpack(bytes.NewReader(block), uint32(len(block)))
			require.NoError(t, err)
			assert.Equal(t, tt.data, got)
		})
	}
}

func TestUnpackStoreConsumesExactBudget(t *testing.T) {
	data := []byte("0123456789")
	block := testutil.PackBlock(ictype.CompressionNone, data)
	trailer := []byte("NEXT")
	r := bytes.NewReader(append(append([]byte{}, block...), trailer...))

	got, err := NewDecoder().Unpack(r, uint32(len(block)))
	require.NoError(t, err)
	assert.Equal(t, data, got)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, trailer, rest)
}

func TestUnpackStoreLargerBudgetIsTruncatedToSize(t *testing.T) {
	// Stored blocks may carry slack after the payload.
	body := []byte("abcdefXYZ")
	r := bytes.NewReader(append([]byte{byte(ictype.CompressionNone)}, body...))

	got, err := NewDecoder().UnpackSized(r, uint32(HeaderSize+len(body)), 6)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdef"), got)
	assert.Equal(t, 0, r.Len())
}

func TestUnpackSizedSkipsSizeField(t *testing.T) {
	data := []byte("sized payload")
	body := append([]byte{byte(ictype.CompressionDeflate)}, testutil.MethodBody(ictype.CompressionDeflate, data)...)

	got, err := NewDecoder().UnpackSized(bytes.NewReader(body), uint32(len(body)+4), uint32(len(data)))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestUnpackUnknownMethod(t *testing.T) {
	block := []byte{4, 0, 0, 0, 0x07, 1, 2, 3, 4}
	_, err := NewDecoder().Unpack(bytes.NewReader(block), uint32(len(block)))
	assert.ErrorIs(t, err, ictype.ErrUnknownCodec)
}

func TestUnpackBlockSmallerThanHeader(t *testing.T) {
	for _, size := range []uint32{0, 4} {
		r := bytes.NewReader([]byte{byte(ictype.CompressionNone), 1, 2, 3})
		_, err := NewDecoder().UnpackSized(r, size, 1)
		assert.ErrorIs(t, err, ictype.ErrDecompression)
	}
}

func TestUnpackStoreShortBlock(t *testing.T) {
	r := bytes.NewReader([]byte{byte(ictype.CompressionNone), 1, 2, 3})
	_, err := NewDecoder().UnpackSized(r, HeaderSize+3, 10)
	assert.ErrorIs(t, err, ictype.ErrDecompression)
}

func TestUnpackSizedStoreTooLargeFailsBeforeAllocating(t *testing.T) {
	r := bytes.NewReader([]byte{byte(ictype.CompressionNone), 1, 2, 3})
	_, err := NewDecoder(WithMaxSize(0)).UnpackSized(r, HeaderSize+3, 0xF0000000)
	if strconv.IntSize == 32 {
		assert.ErrorIs(t, err, ictype.ErrSizeOverflow)
	} else {
		assert.ErrorIs(t, err, ictype.ErrDecompression)
	}
}

func TestUnpackTruncatedStreams(t *testing.T) {
	deflated := testutil.MethodBody(ictype.CompressionDeflate, bytes.Repeat([]byte("x1y2"), 500))
	bz := testutil.MethodBody(ictype.CompressionBzip2, testutil.Bzip2Plain)

	tests := []struct {
		name   string
		method ictype.Compression
		body   []byte
		size   int
	}{
		{name: "deflate", method: ictype.CompressionDeflate, body: deflated[:len(deflated)/2], size: 2000},
		{name: "bzip2", method: ictype.CompressionBzip2, body: bz[:len(bz)/2], size: len(testutil.Bzip2Plain)},
		{name: "store", method: ictype.CompressionNone, body: []byte("short"), size: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]byte{byte(tt.method)}, tt.body...)
			// Claim a larger block than is present so only the stream itself runs dry.
			_, err := NewDecoder().UnpackSized(bytes.NewReader(in), uint32(len(in)+64), uint32(tt.size))
			assert.ErrorIs(t, err, ictype.ErrDecompression)
		})
	}
}

func TestUnpackRespectsMaxSize(t *testing.T) {
	block := testutil.PackBlock(ictype.CompressionNone, make([]byte, 64))

	_, err := NewDecoder(WithMaxSize(32)).Unpack(bytes.NewReader(block), uint32(len(block)))
	assert.ErrorIs(t, err, ictype.ErrSizeOverflow)

	got, err := NewDecoder(WithMaxSize(0)).Unpack(bytes.NewReader(block), uint32(len(block)))
	require.NoError(t, err)
	assert.Len(t, got, 64)
}

func TestUnpackReusesInflaters(t *testing.T) {
	d := NewDecoder()
	for i := range 5 {
		data := bytes.Repeat([]byte{byte('a' + i)}, 1000+i)
		block := testutil.PackBlock(ictype.CompressionDeflate, data)
		got, err := d.Unpack(bytes.NewReader(block), uint32(len(block)))
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}
}
