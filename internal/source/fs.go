package source

import (
	"io"
	"io/fs"
	"os"
)

// File is an open continuation file.
type File interface {
	io.ReaderAt
	io.Closer
	Stat() (fs.FileInfo, error)
}

// FileSystem opens the files that back the payload stream.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	Open(name string) (File, error)
}

// OSFileSystem is the FileSystem of the host operating system.
type OSFileSystem struct{}

// Stat implements FileSystem.
func (OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Open implements FileSystem.
func (OSFileSystem) Open(name string) (File, error) {
	return os.Open(name) //nolint:gosec // user-provided installer path is intentional
}

var _ FileSystem = OSFileSystem{}
