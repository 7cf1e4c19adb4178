package source

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// maxParts bounds the two-digit continuation suffix.
const maxParts = 99

// ContinuationName returns the candidate names of continuation part n of
// the installer at path: the upper-case suffix first, then the lower-case one.
func ContinuationName(path string, n int) []string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return []string{
		fmt.Sprintf("%s.D%02d", base, n),
		fmt.Sprintf("%s.d%02d", base, n),
	}
}

// Discover returns the continuation files that follow the installer at path,
// in order. Probing stops at the first missing part.
func Discover(fsys FileSystem, path string) ([]string, error) {
	var parts []string
	for n := 1; n <= maxParts; n++ {
		name, err := probe(fsys, ContinuationName(path, n))
		if err != nil {
			return nil, err
		}
		if name == "" {
			break
		}
		parts = append(parts, name)
	}
	return parts, nil
}

// probe returns the first candidate that exists as a regular file.
func probe(fsys FileSystem, candidates []string) (string, error) {
	for _, name := range candidates {
		info, err := fsys.Stat(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("stat continuation %s: %w", name, err)
		}
		if info.Mode().IsRegular() {
			return name, nil
		}
	}
	return "", nil
}
