//go:build linux

package proctitle

import (
	"errors"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Set renames the process via PR_SET_NAME and rewrites os.Args[0].
func Set(title string) error {
	if title == "" {
		return errors.New("empty process title")
	}
	if len(os.Args) > 0 {
		os.Args[0] = title
	}
	name := make([]byte, maxLen+1)
	copy(name, title)
	return unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&name[0])), 0, 0, 0)
}
