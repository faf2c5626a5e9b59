package half

import (
	"testing"
)

func TestConvertBitsToFloat32(t *testing.T) {
	src := []uint16{
		0x0000, // +0
		0x8000, // -0
		0x3c00, // 1.0
		0xc000, // -2.0
		0x3800, // 0.5
		0x7bff, // largest finite
		0x0400, // smallest normal
		0x0001, // smallest subnormal
		0x4248, // 3.140625
		0x6400, // 1024
		0xbe00, // -1.5
	}
	want := []float32{
		0, 0, 1.0, -2.0, 0.5, 65504,
		0.00006103515625, 0.000000059604645, 3.140625, 1024, -1.5,
	}

	dst := make([]float32, len(src))
	ConvertBitsToFloat32(dst, src)

	for i := range src {
		if dst[i] != want[i] {
			t.Errorf("ConvertBitsToFloat32[%d] (%#04x) = %v, want %v",
				i, src[i], dst[i], want[i])
		}
	}
}

// TestConvertRowRoundTrip uses a row longer than the unrolled batch so
// both the unrolled loop and the remainder loop run, with values that
// are exactly representable in half precision.
func TestConvertRowRoundTrip(t *testing.T) {
	src := []float32{0, 1, -2, 0.5, 65504, 0.25, -0.75, 1024, 3.5, -1.5, 0.125}

	bits := make([]uint16, len(src))
	ConvertFloat32ToBits(bits, src)
	back := make([]float32, len(src))
	ConvertBitsToFloat32(back, bits)

	for i := range src {
		if back[i] != src[i] {
			t.Errorf("round trip[%d] = %v, want %v", i, back[i], src[i])
		}
	}
}

func TestConvertShortDestinationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ConvertBitsToFloat32 with short destination did not panic")
		}
	}()
	ConvertBitsToFloat32(make([]float32, 1), make([]uint16, 2))
}

func BenchmarkConvertBitsToFloat32(b *testing.B) {
	n := 1920 * 1080
	src := make([]uint16, n)
	dst := make([]float32, n)
	for i := range src {
		src[i] = FromFloat32(float32(i) / float32(n)).Bits()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ConvertBitsToFloat32(dst, src)
	}
}

func BenchmarkConvertFloat32ToBits(b *testing.B) {
	n := 1920 * 1080
	src := make([]float32, n)
	dst := make([]uint16, n)
	for i := range src {
		src[i] = float32(i) / float32(n)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ConvertFloat32ToBits(dst, src)
	}
}
