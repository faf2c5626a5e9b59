//go:build !unix

package fio

func transientError(err error) bool {
	return false
}
