package pfspd

import (
	"hash/crc32"
	"testing"
)

// TestSequenceRoundTrip pushes a longer 4:2:0 sequence through the
// buffered channel, crossing many buffer boundaries, and verifies every
// frame by checksum.
func TestSequenceRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("long sequence test")
	}

	const frames = 50
	name := tempFile(t)
	h, err := NewHeaderSized(Color420, Freq50, SizeCIF, 0, false, AspectAuto)
	if err != nil {
		t.Fatalf("NewHeaderSized: %v", err)
	}
	h.SetNumFrames(frames)
	if err := WriteHeader(name, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	width, height := h.Width(), h.Height()
	uvWidth, uvHeight := width, height/2
	y := make([]byte, width*height)
	uv := make([]byte, uvWidth*uvHeight)
	sums := make([]uint32, frames)
	for frame := 1; frame <= frames; frame++ {
		for i := range y {
			y[i] = byte(i + frame)
		}
		for i := range uv {
			uv[i] = byte(i ^ frame)
		}
		if err := WriteFrame(name, h, frame, y, uv, width, height, width); err != nil {
			t.Fatalf("WriteFrame %d: %v", frame, err)
		}
		crc := crc32.NewIEEE()
		crc.Write(y)
		crc.Write(uv)
		sums[frame-1] = crc.Sum32()
	}

	for frame := 1; frame <= frames; frame++ {
		err := ReadFrame(name, h, frame, y, uv, ReadAll, width, height, width)
		if err != nil {
			t.Fatalf("ReadFrame %d: %v", frame, err)
		}
		crc := crc32.NewIEEE()
		crc.Write(y)
		crc.Write(uv)
		if crc.Sum32() != sums[frame-1] {
			t.Fatalf("frame %d checksum mismatch", frame)
		}
	}
}
