//go:build !windows

package platform

import (
	"os"
	"time"
)

// SetCreationTime is a no-op: creation time cannot be set on this platform.
func SetCreationTime(*os.Root, string, time.Time) error {
	return nil
}
