package half

import (
	"encoding/binary"
	"math"
	"testing"
)

// FuzzFromFloat32 feeds arbitrary float32 values through the half
// conversion and back.
func FuzzFromFloat32(f *testing.F) {
	f.Add(float32(0))
	f.Add(float32(-1))
	f.Add(float32(math.MaxFloat32))
	f.Add(float32(math.SmallestNonzeroFloat32))
	f.Add(float32(math.Inf(1)))
	f.Add(float32(math.NaN()))
	f.Add(float32(65504))  // largest finite half
	f.Add(float32(65520))  // rounds to infinity
	f.Add(float32(0.00006103515625))  // smallest normal half
	f.Add(float32(0.000000059604645)) // smallest subnormal half

	f.Fuzz(func(t *testing.T, val float32) {
		h := FromFloat32(val)
		if FromBits(h.Bits()) != h {
			t.Errorf("bits round trip of %v: got %#04x", val, h.Bits())
		}

		// A finite half converts to float32 exactly, so converting it
		// again must reproduce the same bit pattern.
		if h.IsFinite() {
			if again := FromFloat32(h.Float32()); again != h {
				t.Errorf("FromFloat32(%v twice) = %#04x, want %#04x",
					val, again.Bits(), h.Bits())
			}
		}
	})
}

// FuzzBitsRoundTrip checks that every bit pattern survives the trip
// through float32, NaN payloads excepted.
func FuzzBitsRoundTrip(f *testing.F) {
	f.Add(uint16(0x0000)) // +0
	f.Add(uint16(0x8000)) // -0
	f.Add(uint16(0x3c00)) // 1.0
	f.Add(uint16(0x7c00)) // +Inf
	f.Add(uint16(0x7e00)) // NaN
	f.Add(uint16(0x7bff)) // largest finite
	f.Add(uint16(0x0001)) // smallest subnormal
	f.Add(uint16(0x0400)) // smallest normal

	f.Fuzz(func(t *testing.T, bits uint16) {
		h := FromBits(bits)
		if h.IsNaN() {
			if !FromFloat32(h.Float32()).IsNaN() {
				t.Errorf("NaN %#04x lost through float32", bits)
			}
			return
		}
		if got := FromFloat32(h.Float32()); got != h {
			t.Errorf("round trip of %#04x: got %#04x", bits, got.Bits())
		}
	})
}

// FuzzRowConversions runs arbitrary rows through the batch converters
// and verifies them against the scalar conversion.
func FuzzRowConversions(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00, 0x3c})
	f.Add([]byte{0xff, 0x7b, 0x00, 0x80, 0x01, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 10000 {
			return
		}
		src := make([]uint16, len(data)/2)
		for i := range src {
			src[i] = binary.LittleEndian.Uint16(data[i*2:])
		}

		floats := make([]float32, len(src))
		ConvertBitsToFloat32(floats, src)
		back := make([]uint16, len(floats))
		ConvertFloat32ToBits(back, floats)

		for i, bits := range src {
			if floats[i] != FromBits(bits).Float32() &&
				!math.IsNaN(float64(floats[i])) {
				t.Errorf("sample %d (%#04x) = %v, want %v",
					i, bits, floats[i], FromBits(bits).Float32())
			}
			if FromBits(bits).IsNaN() {
				continue
			}
			if back[i] != bits {
				t.Errorf("sample %d round trip = %#04x, want %#04x",
					i, back[i], bits)
			}
		}
	})
}
