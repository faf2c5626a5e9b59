package pfspd

import (
	"errors"
	"testing"
)

func TestFloatRoundTripHalf(t *testing.T) {
	name := tempFile(t)
	h, err := NewHeaderSized(ColorRGB, Freq50, SizeSD, 0, true, AspectAuto)
	if err != nil {
		t.Fatalf("NewHeaderSized: %v", err)
	}
	if err := h.SetFileDataFormat(DataFloat); err != nil {
		t.Fatalf("SetFileDataFormat: %v", err)
	}
	h.SetNumFrames(1)
	if err := WriteHeader(name, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	width, height := h.Width(), h.Height()
	planes := make([][]float32, 3)
	values := []float32{0, 0.25, 0.5, 1, 1.5, -0.75, 2048, 0.125}
	for i := range planes {
		planes[i] = make([]float32, width*height)
		for j := range planes[i] {
			planes[i][j] = values[(j+i)%len(values)]
		}
	}
	err = WriteFloatXYZ(name, h, 1, 0, planes[0], planes[1], planes[2],
		width, height, width)
	if err != nil {
		t.Fatalf("WriteFloatXYZ: %v", err)
	}

	got := make([][]float32, 3)
	for i := range got {
		got[i] = make([]float32, width*height)
	}
	err = ReadFloatXYZ(name, h, 1, 0, got[0], got[1], got[2],
		width, height, width)
	if err != nil {
		t.Fatalf("ReadFloatXYZ: %v", err)
	}
	// All test values are exactly representable in 16 bit floats.
	for i := range got {
		for j := range got[i] {
			if got[i][j] != planes[i][j] {
				t.Fatalf("plane %d sample %d = %v, want %v", i, j, got[i][j], planes[i][j])
			}
		}
	}
}

func TestFloatRoundTrip8Bit(t *testing.T) {
	name := tempFile(t)
	h, err := NewHeader(Color444Planar, Freq50)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	h.SetNumFrames(1)
	if err := WriteHeader(name, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	width, height := h.Width(), h.Height()
	planes := make([][]float32, 3)
	for i := range planes {
		planes[i] = make([]float32, width*height)
		for j := range planes[i] {
			planes[i][j] = float32(j%256) / 255.0
		}
	}
	// Field zero addresses the whole frame, interleaved on this
	// interlaced file.
	err = WriteFloatXYZ(name, h, 1, 0, planes[0], planes[1], planes[2],
		width, height, width)
	if err != nil {
		t.Fatalf("WriteFloatXYZ: %v", err)
	}

	got := make([]float32, width*height)
	err = ReadComponentFloat(name, h, 1, 0, 0, got, 0, 255, width, height, width)
	if err != nil {
		t.Fatalf("ReadComponentFloat: %v", err)
	}
	// One 8 bit quantization step of tolerance.
	const tol = 1.0 / 255.0
	for j := range got {
		d := got[j] - planes[0][j]
		if d > tol || d < -tol {
			t.Fatalf("sample %d = %v, want %v", j, got[j], planes[0][j])
		}
	}
}

func TestFloatAccessRequiresPlanes(t *testing.T) {
	name := tempFile(t)
	h, err := NewHeader(Color422, Freq50)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	h.SetNumFrames(1)
	if err := WriteHeader(name, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	width, height := h.Width(), h.Height()
	buf := make([]float32, width*height)
	err = ReadFloatXYZ(name, h, 1, 0, buf, buf, buf, width, height, width)
	if !errors.Is(err, ErrColorFormat) {
		t.Errorf("ReadFloatXYZ on 4:2:2 = %v, want ErrColorFormat", err)
	}
}
