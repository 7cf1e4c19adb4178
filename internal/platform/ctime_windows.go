//go:build windows

package platform

import (
	"os"
	"syscall"
	"time"
)

// SetCreationTime sets the creation time of name below root.
func SetCreationTime(root *os.Root, name string, t time.Time) error {
	f, err := root.OpenFile(name, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	ft := syscall.NsecToFiletime(t.UnixNano())
	return syscall.SetFileTime(syscall.Handle(f.Fd()), &ft, nil, nil)
}
