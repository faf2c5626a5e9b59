//go:build unix

package fio

import (
	"errors"

	"golang.org/x/sys/unix"
)

// transientError reports whether a write failure is worth retrying on a
// fresh descriptor.
func transientError(err error) bool {
	return errors.Is(err, unix.EINTR) ||
		errors.Is(err, unix.ETIMEDOUT) ||
		errors.Is(err, unix.ESTALE)
}
