//go:build !linux

package fio

import "os"

// reserveSpace forces the file length by writing its last byte.
// Failures are ignored; preallocation is an optimization only.
func reserveSpace(f *os.File, size int64) {
	f.WriteAt([]byte{0}, size-1)
}
