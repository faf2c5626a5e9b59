package half

// Row conversions between half bit patterns and float32. Image lines
// travel through the file layer as raw uint16 bit patterns, so the
// conversions work on bits directly and skip an intermediate []Half
// copy per line. The loops are unrolled for image sized buffers.

// rowBatch is the number of samples converted per unrolled iteration.
const rowBatch = 8

// ConvertBitsToFloat32 converts a row of half bit patterns to float32.
func ConvertBitsToFloat32(dst []float32, src []uint16) {
	n := len(src)
	if len(dst) < n {
		panic("half: destination slice too small")
	}

	i := 0
	for ; i+rowBatch <= n; i += rowBatch {
		dst[i] = FromBits(src[i]).Float32()
		dst[i+1] = FromBits(src[i+1]).Float32()
		dst[i+2] = FromBits(src[i+2]).Float32()
		dst[i+3] = FromBits(src[i+3]).Float32()
		dst[i+4] = FromBits(src[i+4]).Float32()
		dst[i+5] = FromBits(src[i+5]).Float32()
		dst[i+6] = FromBits(src[i+6]).Float32()
		dst[i+7] = FromBits(src[i+7]).Float32()
	}
	for ; i < n; i++ {
		dst[i] = FromBits(src[i]).Float32()
	}
}

// ConvertFloat32ToBits converts a row of float32 samples to half bit
// patterns, rounding to nearest.
func ConvertFloat32ToBits(dst []uint16, src []float32) {
	n := len(src)
	if len(dst) < n {
		panic("half: destination slice too small")
	}

	i := 0
	for ; i+rowBatch <= n; i += rowBatch {
		dst[i] = FromFloat32(src[i]).Bits()
		dst[i+1] = FromFloat32(src[i+1]).Bits()
		dst[i+2] = FromFloat32(src[i+2]).Bits()
		dst[i+3] = FromFloat32(src[i+3]).Bits()
		dst[i+4] = FromFloat32(src[i+4]).Bits()
		dst[i+5] = FromFloat32(src[i+5]).Bits()
		dst[i+6] = FromFloat32(src[i+6]).Bits()
		dst[i+7] = FromFloat32(src[i+7]).Bits()
	}
	for ; i < n; i++ {
		dst[i] = FromFloat32(src[i]).Bits()
	}
}
