package sink

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/meigma/icextract/internal/platform"
)

// FileSink writes entries below a destination directory.
//
// By default, files are written to a temporary file in the same directory
// and renamed to the final path on Commit, so partially written files are
// never visible at the final path. All paths are resolved through an
// os.Root and cannot escape the destination.
type FileSink struct {
	destDir       string
	overwrite     bool
	preserveTimes bool
	directWrite   bool
}

// FileSinkOption configures a FileSink.
type FileSinkOption func(*FileSink)

// WithOverwrite allows overwriting existing files.
// By default, existing files are skipped.
func WithOverwrite(overwrite bool) FileSinkOption {
	return func(s *FileSink) {
		s.overwrite = overwrite
	}
}

// WithPreserveTimes applies the recorded file times (default: true).
func WithPreserveTimes(preserve bool) FileSinkOption {
	return func(s *FileSink) {
		s.preserveTimes = preserve
	}
}

// WithDirectWrites disables temp files and writes directly to the final path.
func WithDirectWrites(enabled bool) FileSinkOption {
	return func(s *FileSink) {
		s.directWrite = enabled
	}
}

// NewFileSink creates a FileSink that writes to destDir.
// destDir and parent directories are created as needed.
func NewFileSink(destDir string, opts ...FileSinkOption) *FileSink {
	s := &FileSink{
		destDir:       destDir,
		preserveTimes: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShouldProcess returns false if the file already exists and overwrite is disabled.
func (s *FileSink) ShouldProcess(entry *Entry) bool {
	if s.overwrite {
		return true
	}
	if !fs.ValidPath(entry.Path) {
		return false
	}
	_, err := os.Lstat(filepath.Join(s.destDir, filepath.FromSlash(entry.Path)))
	return errors.Is(err, fs.ErrNotExist)
}

// Writer returns a Committer for entry.
func (s *FileSink) Writer(entry *Entry) (Committer, error) {
	if !fs.ValidPath(entry.Path) {
		return nil, &fs.PathError{Op: "extract", Path: entry.Path, Err: fs.ErrInvalid}
	}
	destRel := filepath.FromSlash(entry.Path)
	destPath := filepath.Join(s.destDir, destRel)

	if err := os.MkdirAll(s.destDir, 0o750); err != nil {
		return nil, fmt.Errorf("create destination %s: %w", s.destDir, err)
	}
	root, err := os.OpenRoot(s.destDir)
	if err != nil {
		return nil, fmt.Errorf("open destination root %s: %w", s.destDir, err)
	}
	if err := root.MkdirAll(filepath.Dir(destRel), 0o750); err != nil {
		_ = root.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("create directory %s: %w", filepath.Dir(destPath), err)
	}

	c := &fileCommitter{
		entry:    entry,
		destPath: destPath,
		destRel:  destRel,
		root:     root,
		sink:     s,
	}
	if s.directWrite {
		c.file, err = root.OpenFile(destRel, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
		if err != nil {
			_ = root.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("create file %s: %w", destPath, err)
		}
		c.fileRel = destRel
		return c, nil
	}

	c.file, c.fileRel, err = createTempFile(root, filepath.Dir(destRel), ".icextract-")
	if err != nil {
		_ = root.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return c, nil
}

// fileCommitter writes to fileRel, which is either a temp file renamed on
// Commit or, for direct writes, the final path.
type fileCommitter struct {
	entry    *Entry
	destPath string
	destRel  string
	file     *os.File
	fileRel  string
	root     *os.Root
	sink     *FileSink
}

// Write implements io.Writer.
func (c *fileCommitter) Write(p []byte) (int, error) {
	return c.file.Write(p)
}

// Commit closes the file, applies the recorded times and moves it into place.
func (c *fileCommitter) Commit() error {
	if err := c.file.Close(); err != nil {
		return c.fail(fmt.Errorf("close %s: %w", c.destPath, err))
	}

	if c.sink.preserveTimes {
		if err := c.applyTimes(); err != nil {
			return c.fail(err)
		}
	}

	if c.fileRel != c.destRel {
		if err := c.root.Rename(c.fileRel, c.destRel); err != nil {
			return c.fail(fmt.Errorf("rename to %s: %w", c.destPath, err))
		}
	}

	_ = c.root.Close() //nolint:errcheck // best-effort cleanup
	return nil
}

func (c *fileCommitter) applyTimes() error {
	mtime := c.entry.Modified
	atime := c.entry.Accessed
	if atime.IsZero() {
		atime = mtime
	}
	if !mtime.IsZero() || !atime.IsZero() {
		if err := c.root.Chtimes(c.fileRel, atime, mtime); err != nil {
			return fmt.Errorf("chtimes: %w", err)
		}
	}
	if !c.entry.Created.IsZero() {
		if err := platform.SetCreationTime(c.root, c.fileRel, c.entry.Created); err != nil {
			return fmt.Errorf("set creation time: %w", err)
		}
	}
	return nil
}

// fail removes the partial file and releases the root.
func (c *fileCommitter) fail(err error) error {
	_ = c.root.Remove(c.fileRel) //nolint:errcheck // best-effort cleanup
	_ = c.root.Close()           //nolint:errcheck // best-effort cleanup
	return err
}

// Discard closes and removes the file.
func (c *fileCommitter) Discard() error {
	_ = c.file.Close() //nolint:errcheck // we're cleaning up
	if err := c.root.Remove(c.fileRel); err != nil {
		_ = c.root.Close() //nolint:errcheck // best-effort cleanup
		return err
	}
	return c.root.Close()
}

func createTempFile(root *os.Root, dir, prefix string) (*os.File, string, error) {
	const attempts = 10
	for range attempts {
		name, err := randomSuffix()
		if err != nil {
			return nil, "", err
		}
		relPath := filepath.Join(dir, prefix+name)
		f, err := root.OpenFile(relPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			return f, relPath, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", errors.New("create temp file: exhausted retries")
}

func randomSuffix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

var _ Sink = (*FileSink)(nil)
