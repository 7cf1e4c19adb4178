package ictype

import (
	"fmt"
	"strconv"
	"strings"
)

// Version identifies one of the known file list record schemas.
// Higher numbers belong to newer releases of the installer tool.
type Version int

const (
	VersionUnknown Version = 0
	Version20      Version = 20
	Version30      Version = 30
	Version35      Version = 35
	Version40      Version = 40
)

// Versions lists the known schemas in detection order, newest first.
var Versions = []Version{Version40, Version35, Version30, Version20}

// String returns the version number, or "unknown".
func (v Version) String() string {
	if !v.Known() {
		return "unknown"
	}
	return strconv.Itoa(int(v))
}

// Known reports whether v is one of the supported schemas.
func (v Version) Known() bool {
	switch v {
	case Version20, Version30, Version35, Version40:
		return true
	default:
		return false
	}
}

// ParseVersion parses a schema number such as "35".
func ParseVersion(s string) (Version, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return VersionUnknown, fmt.Errorf("parse installer version %q: %w", s, err)
	}
	v := Version(n)
	if !v.Known() {
		return VersionUnknown, fmt.Errorf("%w: %d", ErrUnsupportedVersion, n)
	}
	return v, nil
}
