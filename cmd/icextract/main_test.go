package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/icextract"
	"github.com/meigma/icextract/internal/testutil"
)

func writeInstaller(t *testing.T) string {
	t.Helper()
	data := testutil.Build(icextract.Version40,
		testutil.StoredFile(`bin\tool.exe`, []byte("tool")),
		testutil.DeflatedFile(`readme.txt`, bytes.Repeat([]byte("readme "), 10)),
	)
	path := filepath.Join(t.TempDir(), "setup.exe")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestExtractToDefaultDir(t *testing.T) {
	path := writeInstaller(t)

	out, err := run(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "installer version 40, 2 files")
	assert.Contains(t, out, "2 files extracted to")

	got, err := os.ReadFile(filepath.Join(filepath.Dir(path), "setup", "bin", "tool.exe"))
	require.NoError(t, err)
	assert.Equal(t, "tool", string(got))
}

func TestExtractSkipsThenOverwrites(t *testing.T) {
	path := writeInstaller(t)
	dest := filepath.Join(t.TempDir(), "out")

	_, err := run(t, path, dest)
	require.NoError(t, err)

	out, err := run(t, path, dest)
	require.NoError(t, err)
	assert.Contains(t, out, "2 existing files skipped")

	out, err = run(t, "--overwrite", path, dest)
	require.NoError(t, err)
	assert.Contains(t, out, "2 files extracted")
}

func TestSimulateWritesNothing(t *testing.T) {
	path := writeInstaller(t)
	dest := filepath.Join(t.TempDir(), "out")

	out, err := run(t, "--simulate", path, dest)
	require.NoError(t, err)
	assert.Contains(t, out, "decoded (simulation)")
	_, err = os.Stat(dest)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDumpBlocks(t *testing.T) {
	path := writeInstaller(t)
	dest := filepath.Join(t.TempDir(), "out")

	_, err := run(t, "--dump-blocks", "--simulate", path, dest)
	require.NoError(t, err)
	for _, name := range []string{"Block 0x143A FILE_LIST.bin", "Block 0x7F7F FILE_DATA.bin", "FileMeta1.bin"} {
		assert.FileExists(t, filepath.Join(dest, name))
	}
}

func TestInstallerVersionFlag(t *testing.T) {
	path := writeInstaller(t)

	_, err := run(t, "-v", "35", path, filepath.Join(t.TempDir(), "out"))
	assert.ErrorIs(t, err, icextract.ErrRecordInvalid)

	_, err = run(t, "--installer-version", "25", path)
	assert.ErrorIs(t, err, icextract.ErrUnsupportedVersion)
}

func TestList(t *testing.T) {
	path := writeInstaller(t)

	out, err := run(t, "list", path)
	require.NoError(t, err)
	assert.Contains(t, out, "installer version 40, 2 nodes, 2 files")
	assert.Contains(t, out, `bin\tool.exe`)
	assert.Contains(t, out, "readme.txt")
	assert.Contains(t, out, "2020-01-01 00:00")
	assert.NoDirExists(t, filepath.Join(filepath.Dir(path), "setup"))
}

func TestArgsValidation(t *testing.T) {
	_, err := run(t)
	assert.Error(t, err)

	_, err = run(t, filepath.Join(t.TempDir(), "missing.exe"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
