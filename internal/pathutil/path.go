// Package pathutil turns installer paths into safe relative output paths.
package pathutil

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxComponent is the longest path element, in bytes.
	MaxComponent = 255

	// MaxPath is the longest sanitized path, in bytes.
	MaxPath = 4096
)

// Sanitize converts a path decoded from an installer into a slash-separated
// relative path that satisfies fs.ValidPath.
//
// It performs the following transformations:
//   - Backslashes become slashes: `bin\app.exe` → "bin/app.exe"
//   - Drive letters and leading separators are stripped: `C:\x` → "x"
//   - Empty, "." and ".." elements are dropped: `a\..\..\b` → "a/b"
//   - Characters invalid on Windows and control bytes become "_"
//   - Elements are clamped to MaxComponent bytes and the path to MaxPath
//
// It returns false when nothing usable remains.
func Sanitize(raw string) (string, bool) {
	p := strings.ReplaceAll(raw, `\`, "/")
	if len(p) >= 2 && p[1] == ':' && isLetter(p[0]) {
		p = p[2:]
	}

	var b strings.Builder
	for part := range strings.SplitSeq(p, "/") {
		part = cleanComponent(part)
		if part == "" || part == "." || part == ".." {
			continue
		}
		room := MaxPath - b.Len()
		if b.Len() > 0 {
			room--
		}
		if room <= 0 {
			break
		}
		part = clamp(part, min(room, MaxComponent))
		if part == "" {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('/')
		}
		b.WriteString(part)
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// cleanComponent replaces characters that cannot appear in a file name.
func cleanComponent(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F || strings.ContainsRune(`<>:"|?*`, r) {
			return '_'
		}
		return r
	}, s)
}

// clamp shortens s to at most n bytes without splitting a rune.
func clamp(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
