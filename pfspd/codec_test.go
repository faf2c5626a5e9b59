package pfspd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempFile(t *testing.T) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.yuv")
	t.Cleanup(func() { CloseFile(name) })
	return name
}

func TestHeaderRoundTrip(t *testing.T) {
	name := tempFile(t)

	h, err := NewHeader(Color420, Freq50)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	h.SetNumFrames(3)
	if err := h.SetDescription("round trip test"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	if err := WriteHeader(name, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if h.Modified() {
		t.Error("header still marked modified after WriteHeader")
	}

	g, err := ReadHeader(name)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if g.Width() != 720 || g.Height() != 576 {
		t.Errorf("size = %dx%d, want 720x576", g.Width(), g.Height())
	}
	if g.NumFrames() != 3 {
		t.Errorf("NumFrames() = %d, want 3", g.NumFrames())
	}
	if g.ColorFormat() != Color420 {
		t.Errorf("ColorFormat() = %v, want 4:2:0", g.ColorFormat())
	}
	if g.ImageFrequency() != Freq50 {
		t.Errorf("ImageFrequency() = %v, want 50 Hz", g.ImageFrequency())
	}
	if g.Description() != "round trip test" {
		t.Errorf("Description() = %q", g.Description())
	}
	if g.FileDataFormat() != Data8Bit {
		t.Errorf("FileDataFormat() = %v, want B*8", g.FileDataFormat())
	}
	img, lin, pix := g.Frequencies()
	if img != 50 || lin != 15.625 || pix != 13.5 {
		t.Errorf("Frequencies() = %v/%v/%v, want 50/15.625/13.5", img, lin, pix)
	}
}

func TestWriteHeaderPreallocates(t *testing.T) {
	name := tempFile(t)

	h, err := NewHeader(Color422, Freq50)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	h.SetNumFrames(2)
	if err := WriteHeader(name, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := CloseFile(name); err != nil {
		t.Fatalf("CloseFile: %v", err)
	}

	info, err := os.Stat(name)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	// Header: glob + attr + 36 description/aux records + 4 component
	// records, 512 bytes each. Data: 4 images of 720x288 luma plus
	// multiplexed chroma at one byte per sample.
	const want = (2+36+4)*512 + 4*(720*288*2)
	if info.Size() != want {
		t.Errorf("file size = %d, want %d", info.Size(), want)
	}
}

func TestReadHeaderNotPfspd(t *testing.T) {
	name := tempFile(t)
	if err := os.WriteFile(name, []byte("this is not a video file"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	h, err := ReadHeader(name)
	if !errors.Is(err, ErrNotPfspd) {
		t.Errorf("ReadHeader on garbage = %v, want ErrNotPfspd", err)
	}
	if h != nil {
		t.Error("ReadHeader returned a header for garbage input")
	}
}

func TestReadHeaderMissingFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "does-not-exist.yuv")
	if _, err := ReadHeader(name); !errors.Is(err, ErrOpenFailed) {
		t.Errorf("ReadHeader on missing file = %v, want ErrOpenFailed", err)
	}
}

func TestWriteHeaderBadBytesPerRecord(t *testing.T) {
	name := tempFile(t)
	h, err := NewHeader(Color422, Freq50)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	h.bytesRec = 32
	if err := WriteHeader(name, h); !errors.Is(err, ErrBytesPerRecord) {
		t.Errorf("WriteHeader = %v, want ErrBytesPerRecord", err)
	}
}

func TestRewriteHeader(t *testing.T) {
	name := tempFile(t)

	h, err := NewHeader(Color422, Freq50)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	h.SetNumFrames(2)
	if err := WriteHeader(name, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	// The description may change without touching the data layout.
	if err := h.SetDescription("updated"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	if err := RewriteHeader(name, h); err != nil {
		t.Fatalf("RewriteHeader: %v", err)
	}
	g, err := ReadHeader(name)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if g.Description() != "updated" {
		t.Errorf("Description() = %q, want %q", g.Description(), "updated")
	}

	// Changing the number of images changes the layout.
	h.SetNumFrames(4)
	if err := RewriteHeader(name, h); !errors.Is(err, ErrRewriteHeader) {
		t.Errorf("RewriteHeader after SetNumFrames = %v, want ErrRewriteHeader", err)
	}
}

func TestReadHeaderReportsInvalid(t *testing.T) {
	name := tempFile(t)

	h, err := NewHeader(Color422, Freq50)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	// An unknown component code passes the basic checks but fails
	// color format detection.
	h.DisableChecks()
	h.comps[1].code = "?    "
	if err := WriteHeader(name, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	g, err := ReadHeader(name)
	if err == nil {
		t.Fatal("ReadHeader accepted a header with an unknown component code")
	}
	if g == nil {
		t.Fatal("ReadHeader returned no header alongside the validation error")
	}
	if g.Width() != 720 {
		t.Errorf("Width() = %d, want 720", g.Width())
	}
}
