// Package ascii implements reading and writing of the fixed-width ASCII
// fields that make up PFSPD header records.
//
// Numeric fields are right-justified and space padded, string fields are
// left-justified. A NUL byte inside a field is treated as a space: several
// historical writers terminated fields with NUL instead of padding them.
package ascii

import (
	"errors"
	"strconv"
)

// Field decoding and encoding errors.
var (
	// ErrShortRecord is returned when a field extends past the end of the record.
	ErrShortRecord = errors.New("ascii: field extends past end of record")

	// ErrSyntax is returned when a field contains a byte that is not valid
	// for the field type.
	ErrSyntax = errors.New("ascii: invalid character in field")

	// ErrFieldOverflow is returned when a value does not fit its field width.
	ErrFieldOverflow = errors.New("ascii: value does not fit field width")
)

// Reader decodes consecutive fixed-width fields from a record.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a Reader for the given record.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the current decode offset within the record.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of bytes left in the record.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Skip advances the decode position by n bytes without interpreting them.
func (r *Reader) Skip(n int) error {
	if n < 0 || r.pos+n > len(r.buf) {
		return ErrShortRecord
	}
	r.pos += n
	return nil
}

func (r *Reader) field(width int) ([]byte, error) {
	if width < 0 || r.pos+width > len(r.buf) {
		return nil, ErrShortRecord
	}
	f := r.buf[r.pos : r.pos+width]
	r.pos += width
	return f, nil
}

// Int decodes a right-justified decimal integer field of the given width.
// Every byte must be a digit, a space or NUL. The value is the leading
// run of digits after any leading spaces; trailing spaces are allowed.
func (r *Reader) Int(width int) (int, error) {
	f, err := r.field(width)
	if err != nil {
		return 0, err
	}
	for _, c := range f {
		if c != 0 && c != ' ' && (c < '0' || c > '9') {
			return 0, ErrSyntax
		}
	}
	i := 0
	for i < len(f) && (f[i] == ' ' || f[i] == 0) {
		i++
	}
	v := 0
	for i < len(f) && f[i] >= '0' && f[i] <= '9' {
		v = v*10 + int(f[i]-'0')
		i++
	}
	return v, nil
}

// Float decodes a right-justified decimal floating-point field of the
// given width. Besides the characters allowed in integer fields the
// field may contain '-', '+', 'e', 'E' and '.'. An empty or all-space
// field decodes as zero.
func (r *Reader) Float(width int) (float64, error) {
	f, err := r.field(width)
	if err != nil {
		return 0, err
	}
	for _, c := range f {
		switch {
		case c == 0 || c == ' ':
		case c >= '0' && c <= '9':
		case c == '-' || c == '+' || c == 'e' || c == 'E' || c == '.':
		default:
			return 0, ErrSyntax
		}
	}
	b := make([]byte, 0, len(f))
	for _, c := range f {
		if c == 0 {
			c = ' '
		}
		b = append(b, c)
	}
	s := trimSpaces(string(b))
	// Longest prefix that parses as a number; garbage after the
	// number is ignored just like atof would.
	for len(s) > 0 {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, nil
		}
		s = s[:len(s)-1]
	}
	return 0, nil
}

// String decodes a left-justified string field of the given width.
// All bytes must be printable ASCII; NUL reads as space. Trailing
// spaces are stripped.
func (r *Reader) String(width int) (string, error) {
	f, err := r.field(width)
	if err != nil {
		return "", err
	}
	b := make([]byte, 0, len(f))
	for _, c := range f {
		if c == 0 {
			c = ' '
		}
		if c < 0x20 || c > 0x7E {
			return "", ErrSyntax
		}
		b = append(b, c)
	}
	n := len(b)
	for n > 0 && b[n-1] == ' ' {
		n--
	}
	return string(b[:n]), nil
}

// Padded decodes a string field of the given width, keeping the space
// padding. All bytes must be printable ASCII; NUL reads as space.
func (r *Reader) Padded(width int) (string, error) {
	f, err := r.field(width)
	if err != nil {
		return "", err
	}
	b := make([]byte, 0, len(f))
	for _, c := range f {
		if c == 0 {
			c = ' '
		}
		if c < 0x20 || c > 0x7E {
			return "", ErrSyntax
		}
		b = append(b, c)
	}
	return string(b), nil
}

// Byte decodes a single raw byte.
func (r *Reader) Byte() (byte, error) {
	f, err := r.field(1)
	if err != nil {
		return 0, err
	}
	return f[0], nil
}

func trimSpaces(s string) string {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	n := len(s)
	for n > i && s[n-1] == ' ' {
		n--
	}
	return s[i:n]
}

// Writer encodes consecutive fixed-width fields into a record.
// The record is created filled with spaces, so any field that is
// never written ends up as padding.
type Writer struct {
	buf []byte
	pos int
}

// NewWriter creates a Writer producing a record of the given size.
func NewWriter(size int) *Writer {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = ' '
	}
	return &Writer{buf: buf}
}

// Bytes returns the encoded record.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Pos returns the current encode offset within the record.
func (w *Writer) Pos() int {
	return w.pos
}

// Skip advances the encode position by n bytes, leaving spaces.
func (w *Writer) Skip(n int) error {
	if n < 0 || w.pos+n > len(w.buf) {
		return ErrShortRecord
	}
	w.pos += n
	return nil
}

func (w *Writer) field(width int) ([]byte, error) {
	if width < 0 || w.pos+width > len(w.buf) {
		return nil, ErrShortRecord
	}
	f := w.buf[w.pos : w.pos+width]
	w.pos += width
	return f, nil
}

// Int encodes v right-justified in a field of the given width.
func (w *Writer) Int(width, v int) error {
	s := strconv.Itoa(v)
	return w.putRight(width, s)
}

// Float encodes v right-justified with six decimals in a field of the
// given width.
func (w *Writer) Float(width int, v float64) error {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	return w.putRight(width, s)
}

// String encodes s left-justified in a field of the given width.
func (w *Writer) String(width int, s string) error {
	f, err := w.field(width)
	if err != nil {
		return err
	}
	if len(s) > width {
		return ErrFieldOverflow
	}
	copy(f, s)
	return nil
}

// Byte encodes a single raw byte.
func (w *Writer) Byte(c byte) error {
	f, err := w.field(1)
	if err != nil {
		return err
	}
	f[0] = c
	return nil
}

func (w *Writer) putRight(width int, s string) error {
	f, err := w.field(width)
	if err != nil {
		return err
	}
	if len(s) > width {
		return ErrFieldOverflow
	}
	copy(f[width-len(s):], s)
	return nil
}
