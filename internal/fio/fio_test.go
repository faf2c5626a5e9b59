package fio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pattern fills b with a position-dependent byte sequence so block
// mixups show up as content mismatches.
func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*31 + 7)
	}
	return b
}

func TestBufferSizeRounding(t *testing.T) {
	defer SetBufferSize(DefaultBufferSize)
	SetBufferSize(5000)
	if got := BufferSize(); got != 8192 {
		t.Errorf("BufferSize() = %d, want 8192", got)
	}
	SetBufferSize(1)
	if got := BufferSize(); got != 4096 {
		t.Errorf("BufferSize() = %d, want 4096", got)
	}
}

func TestReadSequential(t *testing.T) {
	defer SetBufferSize(DefaultBufferSize)
	SetBufferSize(4096)

	path := filepath.Join(t.TempDir(), "seq.bin")
	want := pattern(10000)
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path, ModeRead, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got := make([]byte, 0, len(want))
	chunk := make([]byte, 33)
	for len(got) < len(want) {
		n := min(len(chunk), len(want)-len(got))
		if err := f.Read(chunk[:n]); err != nil {
			t.Fatalf("Read at %d: %v", len(got), err)
		}
		got = append(got, chunk[:n]...)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("sequential read returned wrong data")
	}
	if !f.AtEOF() {
		t.Error("AtEOF() = false after reading the whole file")
	}
	if err := f.Read(chunk[:1]); err != io.EOF {
		t.Errorf("Read past end = %v, want io.EOF", err)
	}
}

func TestReadLargerThanBuffer(t *testing.T) {
	defer SetBufferSize(DefaultBufferSize)
	SetBufferSize(4096)

	path := filepath.Join(t.TempDir(), "large.bin")
	want := pattern(3 * 4096)
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path, ModeRead, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got := make([]byte, len(want))
	if err := f.Read(got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("multi block read returned wrong data")
	}
}

func TestWriteSequential(t *testing.T) {
	defer SetBufferSize(DefaultBufferSize)
	SetBufferSize(4096)

	path := filepath.Join(t.TempDir(), "out.bin")
	want := pattern(10000)

	f, err := Open(path, ModeWrite, 0)
	if err != nil {
		t.Fatal(err)
	}
	for off := 0; off < len(want); {
		n := min(777, len(want)-off)
		if err := f.Write(want[off : off+n]); err != nil {
			t.Fatalf("Write at %d: %v", off, err)
		}
		off += n
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := f.Truncate(int64(len(want))); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("file content differs after sequential write")
	}
}

func TestUpdateMiddle(t *testing.T) {
	defer SetBufferSize(DefaultBufferSize)
	SetBufferSize(4096)

	path := filepath.Join(t.TempDir(), "upd.bin")
	data := pattern(10000)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path, ModeUpdate, 0)
	if err != nil {
		t.Fatal(err)
	}
	patch := bytes.Repeat([]byte{0xAB}, 100)
	if err := f.Seek(5000); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if err := f.Write(patch); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	copy(data[5000:], patch)
	if !bytes.Equal(got, data) {
		t.Fatal("update damaged surrounding data")
	}
}

func TestForwardSeekFillsHole(t *testing.T) {
	defer SetBufferSize(DefaultBufferSize)
	SetBufferSize(4096)

	path := filepath.Join(t.TempDir(), "hole.bin")
	f, err := Open(path, ModeWrite, 0)
	if err != nil {
		t.Fatal(err)
	}
	head := bytes.Repeat([]byte{0x11}, 10)
	tail := bytes.Repeat([]byte{0x22}, 10)
	if err := f.Write(head); err != nil {
		t.Fatal(err)
	}
	if err := f.Seek(100); err != nil {
		t.Fatal(err)
	}
	if err := f.Write(tail); err != nil {
		t.Fatal(err)
	}
	if err := f.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(110); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 110 {
		t.Fatalf("file length = %d, want 110", len(got))
	}
	if !bytes.Equal(got[:10], head) || !bytes.Equal(got[100:], tail) {
		t.Fatal("written ranges are wrong")
	}
	for i, c := range got[10:100] {
		if c != 0 {
			t.Fatalf("hole byte %d = %#02x, want 0", 10+i, c)
		}
	}
}

func TestSeekWithinBuffer(t *testing.T) {
	defer SetBufferSize(DefaultBufferSize)
	SetBufferSize(4096)

	path := filepath.Join(t.TempDir(), "within.bin")
	want := pattern(4096)
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Open(path, ModeRead, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	buf := make([]byte, 16)
	if err := f.Read(buf); err != nil {
		t.Fatal(err)
	}
	if err := f.Seek(1000); err != nil {
		t.Fatal(err)
	}
	if err := f.Read(buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, want[1000:1016]) {
		t.Fatal("read after in-buffer seek returned wrong data")
	}
	if got := f.Pos(); got != 1016 {
		t.Errorf("Pos() = %d, want 1016", got)
	}
}

func TestSeekIntoPrefetchedBlock(t *testing.T) {
	defer SetBufferSize(DefaultBufferSize)
	SetBufferSize(4096)

	path := filepath.Join(t.TempDir(), "pref.bin")
	want := pattern(3 * 4096)
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Open(path, ModeRead, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	buf := make([]byte, 100)
	if err := f.Read(buf); err != nil {
		t.Fatal(err)
	}
	// 4500 lands in the block the engine prefetched behind the first read.
	if err := f.Seek(4500); err != nil {
		t.Fatal(err)
	}
	if err := f.Read(buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, want[4500:4600]) {
		t.Fatal("read after prefetched-block seek returned wrong data")
	}
}

func TestStreamSeek(t *testing.T) {
	s := &stream{r: strings.NewReader("0123456789")}
	if err := s.seek(4); err != nil {
		t.Fatalf("forward seek: %v", err)
	}
	buf := make([]byte, 2)
	if err := s.read(buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf) != "45" {
		t.Errorf("read after skip = %q, want %q", buf, "45")
	}
	if err := s.seek(1); err != ErrNegativeSeek {
		t.Errorf("backward seek = %v, want %v", err, ErrNegativeSeek)
	}
}

func TestStreamWriteSeekPadsZeroes(t *testing.T) {
	var out bytes.Buffer
	s := &stream{w: &out}
	if err := s.write([]byte("ab")); err != nil {
		t.Fatal(err)
	}
	if err := s.seek(10); err != nil {
		t.Fatal(err)
	}
	if err := s.write([]byte("cd")); err != nil {
		t.Fatal(err)
	}
	want := append([]byte("ab"), make([]byte, 8)...)
	want = append(want, []byte("cd")...)
	if !bytes.Equal(out.Bytes(), want) {
		t.Fatal("stream seek did not pad with zeroes")
	}
}

func TestPoolReuse(t *testing.T) {
	defer SetBufferSize(DefaultBufferSize)
	SetBufferSize(4096)

	path := filepath.Join(t.TempDir(), "pool.bin")
	if err := os.WriteFile(path, pattern(100), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		f, err := Open(path, ModeRead, 0)
		if err != nil {
			t.Fatal(err)
		}
		buf := make([]byte, 100)
		if err := f.Read(buf); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}
	}
	allocs, _, inUse := PoolStats()
	if allocs == 0 {
		t.Error("pool saw no requests")
	}
	if inUse != 0 {
		t.Errorf("pool reports %d buffers in use after close", inUse)
	}
}
