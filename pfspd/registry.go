package pfspd

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leoparders/pfspd/internal/fio"
)

// maxOpenFiles bounds the number of files the package keeps open at
// the same time. Least recently used files are closed when the limit
// is reached and transparently reopened on the next access.
const maxOpenFiles = 10

// regEntry is the administration of one open file.
type regEntry struct {
	file  *fio.File
	name  string
	mode  fio.Mode
	stamp uint64

	// Image count and sizes, cached from the last header read or
	// written on this file. noOfImages tracks the highest image number
	// written so the count in the header record can be corrected when
	// the file is closed.
	noOfImages  int
	sizeHeader  int64
	sizeImage   int64
	hdrNrImages int
}

var registry struct {
	mu      sync.Mutex
	entries []*regEntry
	clock   uint64

	// Standard input and output bypass the registry.
	stdin     *fio.File
	stdout    *fio.File
	stdinUsed bool
}

// SetFileBufferSize sets the I/O buffer size in kilobytes for files
// opened after this call. Zero restores the default.
func SetFileBufferSize(kb int) {
	if kb <= 0 {
		fio.SetBufferSize(fio.DefaultBufferSize)
		return
	}
	fio.SetBufferSize(kb << 10)
}

// FileBufferSize returns the I/O buffer size in kilobytes.
func FileBufferSize() int {
	return fio.BufferSize() >> 10
}

// modeConflict reports whether a file opened with have cannot serve a
// request for want. Update mode file handles serve any request.
func modeConflict(want, have fio.Mode) bool {
	return (want != fio.ModeRead && have == fio.ModeRead) ||
		(want == fio.ModeRead && have == fio.ModeWrite)
}

// openFile returns an open file handle for name, reusing a previously
// opened handle when the access modes are compatible. The pseudo name
// "-" yields standard input for reads and standard output otherwise.
// preallocate reserves file space when a file is created.
func openFile(name string, mode fio.Mode, preallocate int64) (*fio.File, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if name == "-" {
		return openStdio(mode)
	}

	var entry *regEntry
	for _, e := range registry.entries {
		if e.name == name {
			entry = e
			break
		}
	}
	if entry != nil {
		if !modeConflict(mode, entry.mode) {
			registry.clock++
			entry.stamp = registry.clock
			return entry.file, nil
		}
		// Reopen with the requested mode.
		if err := closeEntry(entry); err != nil {
			return nil, err
		}
		registry.entries = append(registry.entries, entry)
	} else {
		if len(registry.entries) < maxOpenFiles {
			entry = &regEntry{}
			registry.entries = append(registry.entries, entry)
		} else {
			// Evict the least recently used file.
			entry = registry.entries[0]
			for _, e := range registry.entries[1:] {
				if e.stamp < entry.stamp {
					entry = e
				}
			}
			if err := closeEntry(entry); err != nil {
				return nil, err
			}
			registry.entries = append(registry.entries, entry)
		}
	}

	f, err := fio.Open(name, mode, preallocate)
	if err != nil {
		removeEntry(entry)
		return nil, err
	}
	registry.clock++
	*entry = regEntry{file: f, name: name, mode: mode, stamp: registry.clock}
	return f, nil
}

func openStdio(mode fio.Mode) (*fio.File, error) {
	if mode == fio.ModeRead {
		if registry.stdin == nil {
			f, err := fio.Open("-", fio.ModeRead, 0)
			if err != nil {
				return nil, err
			}
			registry.stdin = f
		}
		registry.stdinUsed = true
		return registry.stdin, nil
	}
	if registry.stdout == nil {
		f, err := fio.Open("-", fio.ModeWrite, 0)
		if err != nil {
			return nil, err
		}
		registry.stdout = f
	}
	return registry.stdout, nil
}

func removeEntry(entry *regEntry) {
	for i, e := range registry.entries {
		if e == entry {
			registry.entries = append(registry.entries[:i], registry.entries[i+1:]...)
			return
		}
	}
}

// closeEntry patches the image count in the header record when images
// were written beyond the count in the header, trims preallocated
// space past the last image, and closes the file.
func closeEntry(entry *regEntry) error {
	f := entry.file
	removeEntry(entry)
	if f == nil {
		return nil
	}

	var err error
	if entry.mode != fio.ModeRead {
		images := entry.hdrNrImages
		if entry.noOfImages > images {
			images = entry.noOfImages
			if seekErr := f.Seek(0); seekErr == nil {
				count := fmt.Sprintf("%*d", widthNrImages, images)
				err = f.Write([]byte(count))
			} else {
				err = seekErr
			}
		}
		// A dirty buffer flushes as a whole padded block, so the flush
		// must precede the trim or the padding survives past the
		// logical end of the file.
		if err == nil {
			err = f.Flush()
		}
		if err == nil && entry.sizeImage > 0 {
			size := entry.sizeHeader + int64(images)*entry.sizeImage
			err = f.Truncate(size)
		}
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// setFileLength records that images up to and including count exist in
// the file. The recorded value only grows.
func setFileLength(f *fio.File, count int) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for _, e := range registry.entries {
		if e.file == f {
			if count > e.noOfImages {
				e.noOfImages = count
			}
			return
		}
	}
}

// setFileSizeInfo caches the header geometry on the open file, for the
// image count patch and the trim at close time.
func setFileSizeInfo(f *fio.File, h *Header) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for _, e := range registry.entries {
		if e.file == f {
			e.sizeHeader = h.sizeHeader()
			e.sizeImage = h.sizeImage()
			e.hdrNrImages = h.nrImages
			return
		}
	}
}

// CloseFile closes the named file if the package holds it open. Closing
// flushes buffered data and patches the image count in the header when
// needed. Files are also closed transparently, so calling CloseFile is
// only needed to release a file for other programs.
func CloseFile(name string) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for _, e := range registry.entries {
		if e.name == name {
			return closeEntry(e)
		}
	}
	return nil
}

// CloseAll closes all files held open by the package. When standard
// input was used it is drained first, so a writing process does not
// receive a broken pipe. Typically deferred from main.
func CloseAll() error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	var err error
	for len(registry.entries) > 0 {
		if closeErr := closeEntry(registry.entries[0]); err == nil {
			err = closeErr
		}
	}
	if registry.stdinUsed && registry.stdin != nil {
		registry.stdin.DrainStream()
	}
	if registry.stdout != nil {
		if closeErr := registry.stdout.Close(); err == nil {
			err = closeErr
		}
		registry.stdout = nil
	}
	registry.stdin = nil
	registry.stdinUsed = false
	return err
}

// writeData writes b at the current position. Writes to standard
// output always report success so a downstream process closing the
// pipe early does not abort the producer.
func writeData(f *fio.File, b []byte) error {
	err := f.Write(b)
	if err != nil && f.IsStream() {
		return nil
	}
	if err != nil {
		return ErrWriteFailed
	}
	return nil
}

// seekTo positions the file, translating a backward seek on a stream
// into its dedicated error.
func seekTo(f *fio.File, offset int64) error {
	err := f.Seek(offset)
	if err == nil {
		return nil
	}
	if errors.Is(err, fio.ErrNegativeSeek) {
		return ErrNegativeSeek
	}
	return ErrSeekFailed
}
