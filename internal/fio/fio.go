// Package fio implements the buffered file channel used for video image
// access.
//
// Every file carries two equally sized buffers. The application copies data
// into or out of one of them while an asynchronous transfer runs on the
// other, so sequential frame traffic overlaps computation with device I/O.
// Transfers always move whole blocks at block-aligned offsets; a partial
// block at the end of a written file is padded and the owner is expected to
// truncate the file to its logical length on close.
//
// The pseudo file name "-" selects standard input or standard output, with
// plain unbuffered pass-through semantics and forward-only seeking.
package fio

import (
	"errors"
	"io"
	"os"
	"strconv"
	"sync"
)

// Mode selects how a file is opened.
type Mode int

const (
	// ModeRead opens an existing file for reading.
	ModeRead Mode = iota
	// ModeWrite creates the file, truncating it when it exists.
	ModeWrite
	// ModeUpdate opens an existing file for reading and writing.
	ModeUpdate
)

const (
	// DefaultBufferSize is the size of each of the two transfer buffers.
	DefaultBufferSize = 256 << 10

	// bufferAlign keeps buffer sizes a multiple of the common page size.
	bufferAlign = 4 << 10

	// writeRetryLimit bounds how often a failed write is reissued after
	// reopening the file. Network mounts drop handles under sustained
	// load; reopening is cheaper than failing a recording session.
	writeRetryLimit = 2000
)

// Errors returned by buffered files.
var (
	// ErrNegativeSeek is returned when seeking backwards on a stream.
	ErrNegativeSeek = errors.New("fio: negative seek on a stream")
	// ErrClosed is returned when a closed file is used.
	ErrClosed = errors.New("fio: file is closed")
)

var (
	cfgMu   sync.Mutex
	cfgSize = DefaultBufferSize
	envOnce sync.Once
)

// SetBufferSize sets the transfer buffer size for files opened afterwards.
// The size is rounded up to a multiple of 4 KiB. Files that are already
// open keep their buffers.
func SetBufferSize(n int) {
	if n < bufferAlign {
		n = bufferAlign
	}
	n = (n + bufferAlign - 1) &^ (bufferAlign - 1)
	cfgMu.Lock()
	cfgSize = n
	cfgMu.Unlock()
}

// BufferSize returns the transfer buffer size used for new files. The
// PFSPD_BUFFER_KB environment variable, read once, overrides the default.
func BufferSize() int {
	envOnce.Do(func() {
		if s := os.Getenv("PFSPD_BUFFER_KB"); s != "" {
			if kb, err := strconv.Atoi(s); err == nil && kb > 0 {
				SetBufferSize(kb << 10)
			}
		}
	})
	cfgMu.Lock()
	defer cfgMu.Unlock()
	return cfgSize
}

type action int

const (
	actionNone action = iota
	actionRead
	actionWrite
)

type ioResult struct {
	n   int
	err error
}

// File is a double buffered random access file.
//
// A File is not safe for concurrent use. At most one transfer is in
// flight at any time, and every method waits for it before touching
// the descriptor, so the transfer goroutine is the sole user of the
// descriptor while it runs.
type File struct {
	path string
	mode Mode
	f    *os.File

	stream *stream // non-nil for the "-" pseudo file

	bufSize   int
	act       action
	pending   chan ioResult
	offsetAp  int64 // file offset of the application buffer
	offsetIO  int64 // file offset of the transfer buffer
	eof       bool
	bufOffset int // current position inside the application buffer
	bufUseAp  int // valid bytes in the application buffer
	bufUseIO  int // valid bytes in the transfer buffer
	dirty     bool
	bufAp     []byte
	bufIO     []byte
}

// Open opens path as a buffered file. The name "-" selects standard input
// for ModeRead and standard output otherwise. For ModeWrite a positive
// preallocate reserves that many bytes up front, which keeps sequential
// recordings from fragmenting; reservation failures are ignored.
func Open(path string, mode Mode, preallocate int64) (*File, error) {
	if path == "-" {
		return &File{path: path, mode: mode, stream: newStream(mode)}, nil
	}
	var flag int
	switch mode {
	case ModeRead:
		flag = os.O_RDONLY
	case ModeWrite:
		flag = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	case ModeUpdate:
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0o666)
	if err != nil {
		return nil, err
	}
	if mode == ModeWrite && preallocate > 0 {
		reserveSpace(f, preallocate)
	}
	return &File{
		path:    path,
		mode:    mode,
		f:       f,
		bufSize: BufferSize(),
		pending: make(chan ioResult, 1),
	}, nil
}

// Name returns the path the file was opened with.
func (f *File) Name() string {
	return f.path
}

// Mode returns the mode the file was opened with.
func (f *File) Mode() Mode {
	return f.mode
}

// IsStream reports whether the file is the stdin/stdout pseudo file.
func (f *File) IsStream() bool {
	return f.stream != nil
}

func (f *File) ensureBuffers() {
	if f.bufAp == nil {
		f.bufAp = getBuffer(f.bufSize)
		f.bufIO = getBuffer(f.bufSize)
	}
}

func (f *File) fileSize() (int64, error) {
	fi, err := f.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// startRead launches an asynchronous read of the transfer buffer at
// offsetIO. Once the end of the file has been seen no further reads
// are started.
func (f *File) startRead() {
	if f.eof {
		return
	}
	buf := f.bufIO[:f.bufSize]
	off := f.offsetIO
	file := f.f
	f.act = actionRead
	go func() {
		n, err := file.ReadAt(buf, off)
		f.pending <- ioResult{n, err}
	}()
}

// startWrite launches an asynchronous write of the transfer buffer at
// offsetIO. A whole block is always written.
func (f *File) startWrite() {
	buf := f.bufIO[:f.bufSize]
	off := f.offsetIO
	f.act = actionWrite
	go func() {
		f.pending <- f.writeRetry(buf, off)
	}()
}

// writeRetry reissues a failed write after reopening the path. Stale or
// timed out handles happen on network mounts; any other error is final.
func (f *File) writeRetry(p []byte, off int64) ioResult {
	n, err := f.f.WriteAt(p, off)
	for attempt := 0; err != nil && attempt < writeRetryLimit && transientError(err); attempt++ {
		nf, oerr := os.OpenFile(f.path, os.O_RDWR, 0o666)
		if oerr != nil {
			break
		}
		f.f.Close()
		f.f = nf
		n, err = f.f.WriteAt(p, off)
	}
	return ioResult{n, err}
}

// wait blocks until the running transfer, if any, has finished and
// applies its result.
func (f *File) wait() error {
	switch f.act {
	case actionRead:
		res := <-f.pending
		f.act = actionNone
		if res.err != nil && res.err != io.EOF {
			return res.err
		}
		f.bufUseIO = res.n
		if res.n < f.bufSize {
			f.eof = true
		}
	case actionWrite:
		res := <-f.pending
		f.act = actionNone
		if res.err != nil {
			return res.err
		}
		if res.n != f.bufSize {
			return io.ErrShortWrite
		}
	}
	return nil
}

// swapBuffers makes the transfer buffer the application buffer.
func (f *File) swapBuffers() {
	f.bufAp, f.bufIO = f.bufIO, f.bufAp
	f.bufUseAp = f.bufUseIO
	f.bufUseIO = 0
}

// readBuf waits for the running transfer, swaps the freshly read block
// into the application buffer and starts reading the block at offsetIO.
func (f *File) readBuf() error {
	if err := f.wait(); err != nil {
		return err
	}
	f.swapBuffers()
	f.startRead()
	return nil
}

// writeBuf waits for the running transfer, then hands the application
// buffer to a write at offsetIO. Only the raw buffers swap; the use
// counters stay untouched.
func (f *File) writeBuf() error {
	if err := f.wait(); err != nil {
		return err
	}
	f.bufAp, f.bufIO = f.bufIO, f.bufAp
	f.startWrite()
	return nil
}

// flushDirty writes the application buffer out. A partially filled block
// in the middle of the file is first merged with the tail of the block
// already on disk so the write cannot lose data beyond the dirty range.
func (f *File) flushDirty() error {
	if err := f.wait(); err != nil {
		return err
	}
	wr := f.bufUseAp
	if wr < f.bufSize {
		size, err := f.fileSize()
		if err != nil {
			return err
		}
		if size != f.offsetAp {
			// Pre-swap so readBuf's swap is a no-op for the raw
			// buffers: the application data stays put while the
			// block loads into the transfer buffer.
			f.bufAp, f.bufIO = f.bufIO, f.bufAp
			f.offsetIO = f.offsetAp
			if err := f.readBuf(); err != nil {
				return err
			}
			if err := f.wait(); err != nil {
				return err
			}
			if rd := f.bufUseIO; rd > wr {
				copy(f.bufAp[wr:rd], f.bufIO[wr:rd])
			}
		}
	}
	f.offsetIO = f.offsetAp
	if err := f.writeBuf(); err != nil {
		return err
	}
	if err := f.wait(); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

// Read fills p completely from the current position. It returns io.EOF
// when no data is available at all and io.ErrUnexpectedEOF when the file
// ends mid-transfer.
func (f *File) Read(p []byte) error {
	if f.stream != nil {
		return f.stream.read(p)
	}
	if f.f == nil {
		return ErrClosed
	}
	f.ensureBuffers()

	if f.bufUseAp == 0 {
		// Cold buffer: read the current block and prefetch the next.
		f.offsetIO = f.offsetAp
		if err := f.readBuf(); err != nil {
			return err
		}
		f.offsetIO = f.offsetAp + int64(f.bufSize)
		if err := f.readBuf(); err != nil {
			return err
		}
		f.dirty = false
	}
	if f.act == actionNone && f.bufUseIO == 0 && !f.eof {
		// Prefetch went idle (a write or seek intervened): restart it.
		f.offsetIO = f.offsetAp + int64(f.bufSize)
		f.startRead()
	}

	total := 0
	for total < len(p) {
		if avail := f.bufUseAp - f.bufOffset; avail > 0 {
			n := min(avail, len(p)-total)
			copy(p[total:], f.bufAp[f.bufOffset:f.bufOffset+n])
			f.bufOffset += n
			total += n
			continue
		}
		if f.eof && f.act == actionNone && f.bufUseIO == 0 {
			break
		}
		// Cross into the next block.
		if f.bufUseAp > 0 {
			f.offsetAp += int64(f.bufSize)
			f.offsetIO += int64(f.bufSize)
		}
		if err := f.readBuf(); err != nil {
			return err
		}
		f.bufOffset = 0
		f.dirty = false
		if f.bufUseAp == 0 {
			break
		}
	}
	switch {
	case total == len(p):
		return nil
	case total == 0:
		return io.EOF
	default:
		return io.ErrUnexpectedEOF
	}
}

// Write stores p at the current position. Blocks fill in the application
// buffer and are written behind once full. Writing into the middle of a
// clean block first loads that block from disk, and a gap left by a
// forward seek is filled from the file or with zeroes.
func (f *File) Write(p []byte) error {
	if f.stream != nil {
		return f.stream.write(p)
	}
	if f.f == nil {
		return ErrClosed
	}
	f.ensureBuffers()

	if !f.dirty && f.bufOffset != 0 {
		// Mid-block write on a clean buffer: load the block first so
		// the leading bytes survive the eventual full-block write.
		f.offsetIO = f.offsetAp
		if err := f.readBuf(); err != nil {
			return err
		}
		if err := f.wait(); err != nil {
			return err
		}
		// Reverse the swap; the loaded data must be the application
		// buffer.
		f.bufAp, f.bufIO = f.bufIO, f.bufAp
		f.dirty = false
		f.bufUseAp = f.bufUseIO
	}

	total := 0
	for {
		if n := min(f.bufSize-f.bufOffset, len(p)-total); n > 0 {
			if f.bufUseAp < f.bufOffset {
				if err := f.fillHole(); err != nil {
					return err
				}
			}
			copy(f.bufAp[f.bufOffset:], p[total:total+n])
			f.bufOffset += n
			if f.bufOffset > f.bufUseAp {
				f.bufUseAp = f.bufOffset
			}
			f.dirty = true
			total += n
		}
		if total == len(p) {
			return nil
		}
		// Block is full: write it behind and move on.
		if f.dirty {
			f.offsetIO = f.offsetAp
			if err := f.writeBuf(); err != nil {
				return err
			}
		}
		f.offsetAp += int64(f.bufSize)
		f.bufOffset = 0
		f.bufUseAp = 0
		f.dirty = false
	}
}

// fillHole fills the range between the valid part of the application
// buffer and the current write position. Data that exists on disk is
// used; the remainder becomes zeroes so no undefined bytes reach the
// file.
func (f *File) fillHole() error {
	f.offsetIO = f.offsetAp
	if err := f.wait(); err != nil {
		return err
	}
	f.startRead()
	if err := f.wait(); err != nil {
		return err
	}
	amt := 0
	if f.bufUseIO > f.bufOffset {
		amt = f.bufOffset - f.bufUseAp
	} else if f.bufUseIO > f.bufUseAp {
		amt = f.bufUseIO - f.bufUseAp
	}
	if amt > 0 {
		copy(f.bufAp[f.bufUseAp:f.bufUseAp+amt], f.bufIO[f.bufUseAp:f.bufUseAp+amt])
	}
	f.bufUseAp += amt
	if f.bufUseAp < f.bufOffset {
		zero(f.bufAp[f.bufUseAp:f.bufOffset])
	}
	f.bufUseAp = f.bufOffset
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Seek moves the position to the absolute offset pos. Seeks inside the
// application buffer are free; a seek into the prefetched block swaps
// it in without touching the disk. On streams only forward seeks work.
func (f *File) Seek(pos int64) error {
	if f.stream != nil {
		return f.stream.seek(pos)
	}
	if f.f == nil {
		return ErrClosed
	}
	f.ensureBuffers()

	newFileOff := pos / int64(f.bufSize) * int64(f.bufSize)
	newBufOff := int(pos - newFileOff)

	if newFileOff == f.offsetAp {
		if f.dirty && f.bufOffset > f.bufUseAp {
			// Record the high-water mark before moving back.
			f.bufUseAp = f.bufOffset
		}
		f.bufOffset = newBufOff
		return nil
	}

	f.eof = false

	var err error
	if f.dirty {
		err = f.flushDirty()
	} else {
		err = f.wait()
	}
	if err != nil {
		return err
	}

	if newFileOff == f.offsetIO && f.offsetIO > f.offsetAp {
		// Target block is the prefetched one.
		if f.bufUseAp > 0 {
			f.offsetAp += int64(f.bufSize)
			f.offsetIO += int64(f.bufSize)
		}
		f.swapBuffers()
		f.bufOffset = newBufOff
	} else {
		f.offsetAp = newFileOff
		f.bufOffset = newBufOff
		f.bufUseAp = 0
		f.bufUseIO = 0
		f.dirty = false
	}
	return nil
}

// Pos returns the current absolute position.
func (f *File) Pos() int64 {
	if f.stream != nil {
		return f.stream.pos
	}
	return f.offsetAp + int64(f.bufOffset)
}

// AtEOF reports whether the read position has reached the end of the
// file. Buffered data still counts as available.
func (f *File) AtEOF() bool {
	if f.stream != nil {
		return f.stream.eof
	}
	if f.bufOffset < f.bufUseAp {
		return false
	}
	return f.eof
}

// Flush writes any dirty buffer to disk and waits for it.
func (f *File) Flush() error {
	if f.stream != nil {
		return f.stream.flush()
	}
	if f.f == nil {
		return ErrClosed
	}
	if f.dirty {
		return f.flushDirty()
	}
	return f.wait()
}

// Truncate sets the file to the given length. The caller is expected to
// Flush first; block padded tails written past the logical end of the
// file are cut off this way.
func (f *File) Truncate(size int64) error {
	if f.stream != nil {
		return nil
	}
	if f.f == nil {
		return ErrClosed
	}
	if err := f.wait(); err != nil {
		return err
	}
	return f.f.Truncate(size)
}

// Close flushes pending data and releases the file and its buffers.
func (f *File) Close() error {
	if f.stream != nil {
		return f.stream.flush()
	}
	if f.f == nil {
		return ErrClosed
	}
	var err error
	if f.dirty {
		err = f.flushDirty()
	} else {
		err = f.wait()
	}
	if cerr := f.f.Close(); err == nil {
		err = cerr
	}
	f.f = nil
	if f.bufAp != nil {
		putBuffer(f.bufAp)
		putBuffer(f.bufIO)
		f.bufAp = nil
		f.bufIO = nil
	}
	return err
}
