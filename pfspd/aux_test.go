package pfspd

import (
	"bytes"
	"errors"
	"testing"
)

func TestAuxChain(t *testing.T) {
	h := validHeader(t)
	if got := h.NumAux(); got != 0 {
		t.Fatalf("NumAux() = %d, want 0", got)
	}

	id, err := h.AddAux(256, "motion", "per image motion vectors")
	if err != nil {
		t.Fatalf("AddAux: %v", err)
	}
	if id != 0 {
		t.Errorf("first AddAux id = %d, want 0", id)
	}
	id, err = h.AddAux(0, "origin", "capture notes")
	if err != nil {
		t.Fatalf("AddAux: %v", err)
	}
	if id != 1 {
		t.Errorf("second AddAux id = %d, want 1", id)
	}
	if got := h.NumAux(); got != 2 {
		t.Errorf("NumAux() = %d, want 2", got)
	}

	maxSize, name, err := h.Aux(0)
	if err != nil {
		t.Fatalf("Aux(0): %v", err)
	}
	if maxSize != 256 || name != "motion" {
		t.Errorf("Aux(0) = %d, %q, want 256, motion", maxSize, name)
	}
	descr, err := h.AuxDescription(1)
	if err != nil {
		t.Fatalf("AuxDescription(1): %v", err)
	}
	if descr != "capture notes" {
		t.Errorf("AuxDescription(1) = %q", descr)
	}

	if got := h.AuxByName("origin"); got != 1 {
		t.Errorf("AuxByName(origin) = %d, want 1", got)
	}
	if got := h.AuxByName("missing"); got != -1 {
		t.Errorf("AuxByName(missing) = %d, want -1", got)
	}

	// Only the entry with a data budget claims image records.
	want := (256 + auxDataLenField + h.bytesRec - 1) / h.bytesRec
	if h.nrAuxDataRecs != want {
		t.Errorf("nrAuxDataRecs = %d, want %d", h.nrAuxDataRecs, want)
	}

	if _, err := h.AddAux(16, "motion", "duplicate"); !errors.Is(err, ErrAuxHeaderSize) {
		t.Errorf("AddAux with duplicate name = %v, want ErrAuxHeaderSize", err)
	}
	if _, _, err := h.Aux(7); !errors.Is(err, ErrInvalidAuxiliary) {
		t.Errorf("Aux(7) = %v, want ErrInvalidAuxiliary", err)
	}

	if err := h.RemoveAux(0); err != nil {
		t.Fatalf("RemoveAux: %v", err)
	}
	if got := h.NumAux(); got != 1 {
		t.Errorf("NumAux() after remove = %d, want 1", got)
	}
	if got := h.AuxByName("origin"); got != 0 {
		t.Errorf("AuxByName(origin) after remove = %d, want 0", got)
	}
	if h.nrAuxDataRecs != 0 {
		t.Errorf("nrAuxDataRecs after remove = %d, want 0", h.nrAuxDataRecs)
	}
}

func TestAuxDataRoundTrip(t *testing.T) {
	name := tempFile(t)
	h := validHeader(t)
	h.SetNumFrames(2)
	if _, err := h.AddAux(128, "meta", "frame metadata"); err != nil {
		t.Fatalf("AddAux: %v", err)
	}
	if err := WriteHeader(name, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	data := []byte("field one of frame two")
	if err := WriteAux(name, h, 2, 1, 0, data); err != nil {
		t.Fatalf("WriteAux: %v", err)
	}

	buf := make([]byte, 128)
	n, err := ReadAux(name, h, 2, 1, 0, buf)
	if err != nil {
		t.Fatalf("ReadAux: %v", err)
	}
	if !bytes.Equal(buf[:n], data) {
		t.Errorf("ReadAux = %q, want %q", buf[:n], data)
	}

	// An image that never got data reads back empty.
	n, err = ReadAux(name, h, 1, 2, 0, buf)
	if err != nil {
		t.Fatalf("ReadAux on empty element: %v", err)
	}
	if n != 0 {
		t.Errorf("ReadAux on empty element = %d bytes", n)
	}

	// The auxiliary chain survives the header round trip.
	g, err := ReadHeader(name)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	maxSize, auxName, err := g.Aux(0)
	if err != nil {
		t.Fatalf("Aux(0): %v", err)
	}
	if maxSize != 128 || auxName != "meta" {
		t.Errorf("Aux(0) = %d, %q, want 128, meta", maxSize, auxName)
	}
	n, err = ReadAux(name, g, 2, 1, 0, buf)
	if err != nil {
		t.Fatalf("ReadAux after ReadHeader: %v", err)
	}
	if !bytes.Equal(buf[:n], data) {
		t.Errorf("ReadAux after ReadHeader = %q, want %q", buf[:n], data)
	}
}

func TestAuxDataSizeLimits(t *testing.T) {
	name := tempFile(t)
	h := validHeader(t)
	h.SetNumFrames(1)
	if _, err := h.AddAux(16, "tiny", ""); err != nil {
		t.Fatalf("AddAux: %v", err)
	}
	if err := WriteHeader(name, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	big := make([]byte, 17)
	if err := WriteAux(name, h, 1, 1, 0, big); !errors.Is(err, ErrAuxDataSize) {
		t.Errorf("WriteAux beyond budget = %v, want ErrAuxDataSize", err)
	}

	if err := WriteAux(name, h, 1, 1, 0, big[:16]); err != nil {
		t.Fatalf("WriteAux: %v", err)
	}
	small := make([]byte, 8)
	if _, err := ReadAux(name, h, 1, 1, 0, small); !errors.Is(err, ErrAuxDataSize) {
		t.Errorf("ReadAux into short buffer = %v, want ErrAuxDataSize", err)
	}
}
