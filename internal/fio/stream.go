package fio

import (
	"io"
	"os"
)

// stream is the unbuffered pass-through behind the "-" pseudo file.
// It tracks the absolute position so forward seeks can be emulated:
// by discarding input when reading, by emitting zero bytes when
// writing. Backward seeks are impossible on a pipe.
type stream struct {
	r   io.Reader
	w   io.Writer
	pos int64
	eof bool
}

func newStream(mode Mode) *stream {
	if mode == ModeRead {
		return &stream{r: os.Stdin}
	}
	return &stream{w: os.Stdout}
}

func (s *stream) read(p []byte) error {
	n, err := io.ReadFull(s.r, p)
	s.pos += int64(n)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		s.eof = true
	}
	return err
}

func (s *stream) write(p []byte) error {
	n, err := s.w.Write(p)
	s.pos += int64(n)
	return err
}

// skipChunk sizes the zero filler and the discard buffer.
const skipChunk = 2048

func (s *stream) seek(pos int64) error {
	delta := pos - s.pos
	if delta < 0 {
		return ErrNegativeSeek
	}
	if delta == 0 {
		return nil
	}
	if s.r != nil {
		n, err := io.CopyN(io.Discard, s.r, delta)
		s.pos += n
		if err == io.EOF {
			s.eof = true
		}
		return err
	}
	var zeroes [skipChunk]byte
	for delta > 0 {
		n := int64(len(zeroes))
		if n > delta {
			n = delta
		}
		if err := s.write(zeroes[:n]); err != nil {
			return err
		}
		delta -= n
	}
	return nil
}

// Drain consumes the rest of standard input. A writer on the other end
// of the pipe would otherwise see a broken pipe before its last frame.
func (s *stream) Drain() {
	if s.r == nil || s.eof {
		return
	}
	io.Copy(io.Discard, s.r)
	s.eof = true
}

func (s *stream) flush() error {
	if f, ok := s.w.(*os.File); ok && f != os.Stdout {
		return f.Sync()
	}
	return nil
}

// DrainStream consumes the remainder of a read stream. It is a no-op
// for regular files.
func (f *File) DrainStream() {
	if f.stream != nil {
		f.stream.Drain()
	}
}
