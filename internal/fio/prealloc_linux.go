//go:build linux

package fio

import (
	"os"

	"golang.org/x/sys/unix"
)

// reserveSpace asks the filesystem for a contiguous allocation. When
// fallocate is not supported (some network filesystems), fall back to
// forcing the file length by writing its last byte. Failures are
// ignored; preallocation is an optimization only.
func reserveSpace(f *os.File, size int64) {
	if err := unix.Fallocate(int(f.Fd()), 0, 0, size); err == nil {
		return
	}
	f.WriteAt([]byte{0}, size-1)
}
