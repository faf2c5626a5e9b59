package pfspd

import (
	"strings"
	"testing"
)

func TestNewHeaderDefaults(t *testing.T) {
	h, err := NewHeader(Color422, Freq50)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	if got := h.Width(); got != 720 {
		t.Errorf("Width() = %d, want 720", got)
	}
	if got := h.Height(); got != 576 {
		t.Errorf("Height() = %d, want 576", got)
	}
	if !h.Interlaced() {
		t.Error("Interlaced() = false, want true")
	}
	if got := h.ColorFormat(); got != Color422 {
		t.Errorf("ColorFormat() = %v, want 4:2:2", got)
	}
	if got := h.ImageFrequency(); got != Freq50 {
		t.Errorf("ImageFrequency() = %v, want 50 Hz", got)
	}
	if got := h.AspectRatio(); got != Aspect4x3 {
		t.Errorf("AspectRatio() = %v, want 4:3", got)
	}
	if got := h.FileDataFormat(); got != Data8Bit {
		t.Errorf("FileDataFormat() = %v, want B*8", got)
	}
	if got := h.NumComponents(); got != 2 {
		t.Errorf("NumComponents() = %d, want 2", got)
	}
	if !h.Modified() {
		t.Error("new header not marked modified")
	}
	if err := h.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	w, ht := h.YBufferSize()
	if w != 720 || ht != 288 {
		t.Errorf("YBufferSize() = %dx%d, want 720x288", w, ht)
	}
	w, ht = h.UVBufferSize()
	if w != 720 || ht != 288 {
		t.Errorf("UVBufferSize() = %dx%d, want 720x288", w, ht)
	}
}

func TestNewHeaderComponentLayouts(t *testing.T) {
	tests := []struct {
		color ColorFormat
		comps int
		names []string
	}{
		{ColorNone, 1, []string{"Y"}},
		{Color422, 2, []string{"Y", "U/V"}},
		{Color420, 2, []string{"Y", "U/V"}},
		{Color444Planar, 3, []string{"Y", "U", "V"}},
		{Color422Planar, 3, []string{"Y", "U", "V"}},
		{Color420Planar, 3, []string{"Y", "U", "V"}},
		{ColorRGB, 3, []string{"R", "G", "B"}},
		{ColorXYZ, 3, []string{"X", "Y", "Z"}},
	}
	for _, tt := range tests {
		h, err := NewHeader(tt.color, Freq50)
		if err != nil {
			t.Errorf("NewHeader(%v): %v", tt.color, err)
			continue
		}
		if got := h.NumComponents(); got != tt.comps {
			t.Errorf("%v: NumComponents() = %d, want %d", tt.color, got, tt.comps)
		}
		if got := h.ColorFormat(); got != tt.color {
			t.Errorf("%v: detected color format %v", tt.color, got)
		}
		for i, name := range tt.names {
			info, err := h.Component(i)
			if err != nil {
				t.Errorf("%v: Component(%d): %v", tt.color, i, err)
				continue
			}
			if info.Name != name {
				t.Errorf("%v: Component(%d).Name = %q, want %q", tt.color, i, info.Name, name)
			}
		}
	}
}

func TestChromaSubsampling(t *testing.T) {
	h, err := NewHeader(Color420, Freq50)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	info, err := h.Component(1)
	if err != nil {
		t.Fatalf("Component(1): %v", err)
	}
	if info.PixSubsample != 2 || info.LineSubsample != 2 {
		t.Errorf("UV subsampling = %d/%d, want 2/2", info.PixSubsample, info.LineSubsample)
	}
	if info.Multiplex != 2 {
		t.Errorf("UV multiplex = %d, want 2", info.Multiplex)
	}
	// 4:2:0 halves the chroma height.
	w, ht := h.UVBufferSize()
	if w != 720 || ht != 144 {
		t.Errorf("UVBufferSize() = %dx%d, want 720x144", w, ht)
	}
}

func TestComponentByName(t *testing.T) {
	h, err := NewHeader(Color422, Freq50)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	if got := h.ComponentByName("Y"); got != 0 {
		t.Errorf("ComponentByName(Y) = %d, want 0", got)
	}
	if got := h.ComponentByName("U/V"); got != 1 {
		t.Errorf("ComponentByName(U/V) = %d, want 1", got)
	}
	if got := h.ComponentByName("nope"); got != -1 {
		t.Errorf("ComponentByName(nope) = %d, want -1", got)
	}
}

func TestClone(t *testing.T) {
	h, err := NewHeader(Color422, Freq50)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	if err := h.SetDescription("original"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	c := h.Clone()
	if err := c.SetDescription("copy"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	if got := h.Description(); got != "original" {
		t.Errorf("clone shares description storage: %q", got)
	}
	c.AddComponent()
	if h.NumComponents() != 2 {
		t.Error("clone shares component storage")
	}
}

func TestNumFrames(t *testing.T) {
	h, err := NewHeader(Color422, Freq50)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	h.SetNumFrames(25)
	if got := h.NumFrames(); got != 25 {
		t.Errorf("NumFrames() = %d, want 25", got)
	}
	// Interlaced: two images per frame.
	if h.nrImages != 50 {
		t.Errorf("nrImages = %d, want 50", h.nrImages)
	}
}

func TestPrint(t *testing.T) {
	h, err := NewHeader(Color422, Freq50)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	var sb strings.Builder
	if err := h.Print(&sb); err != nil {
		t.Fatalf("Print: %v", err)
	}
	out := sb.String()
	for _, want := range []string{
		"GLOBAL\n",
		"COMPONENT 0\n",
		"COMPONENT 1\n",
		"active lines                         : 576\n",
		"component code       : Y    \n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Print output missing %q", want)
		}
	}
}
