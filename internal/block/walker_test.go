package block

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/icextract/internal/codec"
	"github.com/meigma/icextract/internal/ictype"
	"github.com/meigma/icextract/internal/testutil"
)

type recordingDumper struct {
	names    []string
	contents map[string][]byte
	err      error
}

func (d *recordingDumper) DumpBlock(name string, content []byte) error {
	if d.contents == nil {
		d.contents = make(map[string][]byte)
	}
	d.names = append(d.names, name)
	d.contents[name] = append([]byte{}, content...)
	return d.err
}

func walk(t *testing.T, data []byte, opts ...Option) (*Section, error) {
	t.Helper()
	rs := bytes.NewReader(data)
	_, err := rs.Seek(int64(len(stub)+6), io.SeekStart)
	require.NoError(t, err)
	return NewWalker(codec.NewDecoder(), opts...).Walk(rs, int64(len(data)))
}

var stub = []byte("MZ host executable stub")

func TestWalkFindsFileListAndData(t *testing.T) {
	list := []byte("decompressed file list bytes")
	payload := testutil.Pad([]byte("payload area"), 64)
	data := testutil.Installer(stub,
		testutil.Block(testutil.TagStrings, testutil.PackBlock(ictype.CompressionNone, []byte("strings"))),
		testutil.Block(testutil.TagFileList, testutil.PackBlock(ictype.CompressionDeflate, list)),
		testutil.Block(testutil.TagFileData, payload),
	)

	sec, err := walk(t, data)
	require.NoError(t, err)
	assert.Equal(t, list, sec.FileList)
	require.True(t, sec.HasData())
	assert.Equal(t, int64(len(data)-len(payload)), sec.DataPos)
	assert.Equal(t, int64(len(payload)), sec.DataSize)

	require.Len(t, sec.Blocks, 3)
	assert.Equal(t, TypeStrings, sec.Blocks[0].Type)
	assert.Equal(t, TypeFileList, sec.Blocks[1].Type)
	assert.Equal(t, TypeFileData, sec.Blocks[2].Type)
	assert.Equal(t, int64(len(stub)+6+8), sec.Blocks[0].Pos)
}

func TestWalkHeadersAreAuthoritative(t *testing.T) {
	list := []byte("list")
	// Slack after the packed content must be skipped by the declared length.
	packed := append(testutil.PackBlock(ictype.CompressionNone, list), bytes.Repeat([]byte{0xEE}, 40)...)
	payload := testutil.Pad(nil, 40)
	data := testutil.Installer(stub,
		testutil.Block(testutil.TagFileList, packed),
		testutil.Block(testutil.TagFileData, payload),
	)

	sec, err := walk(t, data)
	require.NoError(t, err)
	assert.Equal(t, list, sec.FileList)
	assert.Equal(t, int64(len(data)-len(payload)), sec.DataPos)
}

func TestWalkStopsWhenHeaderDoesNotFit(t *testing.T) {
	list := testutil.Pad(nil, 40)
	data := testutil.Installer(stub,
		testutil.Block(testutil.TagFileList, testutil.PackBlock(ictype.CompressionNone, list)),
	)
	// A trailing fragment shorter than a header is not a block.
	data = append(data, testutil.Block(testutil.TagFileData, make([]byte, 10))...)

	sec, err := walk(t, data)
	require.NoError(t, err)
	assert.Len(t, sec.Blocks, 1)
	assert.False(t, sec.HasData())
}

func TestWalkWithoutFileList(t *testing.T) {
	data := testutil.Installer(stub,
		testutil.Block(testutil.TagFileData, testutil.Pad(nil, 64)),
	)
	_, err := walk(t, data)
	assert.ErrorIs(t, err, ictype.ErrFileListMissing)
}

func TestWalkFileListUnknownCodecIsFatal(t *testing.T) {
	data := testutil.Installer(stub,
		testutil.Block(testutil.TagFileList, testutil.Pad([]byte{8, 0, 0, 0, 0x09}, 48)),
	)
	_, err := walk(t, data)
	assert.ErrorIs(t, err, ictype.ErrUnknownCodec)
}

func TestWalkDumpMode(t *testing.T) {
	list := []byte("list content")
	payload := testutil.Pad([]byte("raw data"), 48)
	encrypted := testutil.Pad([]byte{4, 0, 0, 0, 0x55}, 40)
	data := testutil.Installer(stub,
		testutil.Block(uint16(TypeRegistryChanges), testutil.PackBlock(ictype.CompressionNone, []byte("reg"))),
		testutil.Block(uint16(TypeUninstaller), encrypted),
		testutil.Block(testutil.TagFileList, testutil.PackBlock(ictype.CompressionNone, list)),
		testutil.Block(testutil.TagFileData, payload),
	)

	d := &recordingDumper{}
	sec, err := walk(t, data, WithDumper(d))
	require.NoError(t, err)
	assert.Len(t, sec.Blocks, 4)

	assert.Equal(t, []string{
		"Block 0x1445 REGISTRY_CHANGES.bin",
		"Block 0x143A FILE_LIST.bin",
		"Block 0x7F7F FILE_DATA.bin",
	}, d.names)
	assert.Equal(t, []byte("reg"), d.contents["Block 0x1445 REGISTRY_CHANGES.bin"])
	assert.Equal(t, list, d.contents["Block 0x143A FILE_LIST.bin"])
	assert.Equal(t, payload, d.contents["Block 0x7F7F FILE_DATA.bin"])
}

func TestWalkDumpFailuresAreNotFatal(t *testing.T) {
	data := testutil.Installer(stub,
		testutil.Block(testutil.TagFileList, testutil.PackBlock(ictype.CompressionNone, testutil.Pad(nil, 40))),
	)
	d := &recordingDumper{err: errors.New("disk full")}
	sec, err := walk(t, data, WithDumper(d))
	require.NoError(t, err)
	assert.NotNil(t, sec.FileList)
	assert.Len(t, d.names, 1)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "FILE_LIST", TypeFileList.String())
	assert.Equal(t, "UNINSTALLER", TypeUninstaller.String())
	assert.Equal(t, "UNKNOWN", Type(0x1234).String())
	assert.Equal(t, "Block 0x7F7F FILE_DATA.bin", TypeFileData.DumpName())
}
