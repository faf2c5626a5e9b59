package pfspd

import (
	"github.com/leoparders/pfspd/internal/fio"
)

// MemoryFormat identifies how samples are aligned in a caller buffer.
// Samples are converted between the file data format and the memory
// format by shifting: reading a 10 bit file into Memory16Bit yields
// values shifted up by six bits, so the full 16 bit range is used
// regardless of the file depth.
type MemoryFormat int

const (
	// Memory16Bit uses the full range of a 16 bit buffer.
	Memory16Bit MemoryFormat = iota
	Memory8Bit
	Memory10Bit
	Memory12Bit
	Memory14Bit
	// Memory16BitLSB keeps only the low byte of each 16 bit sample,
	// for 8 bit processing in 16 bit buffers. Read only.
	Memory16BitLSB
	// MemoryAsFile uses the file's own bit alignment. Read only.
	MemoryAsFile
)

// bits returns the number of significant bits of the memory format,
// given the file depth for MemoryAsFile.
func (m MemoryFormat) bits(fileBits int) (int, bool) {
	switch m {
	case Memory8Bit:
		return 8, true
	case Memory10Bit:
		return 10, true
	case Memory12Bit:
		return 12, true
	case Memory14Bit:
		return 14, true
	case Memory16Bit, Memory16BitLSB:
		return 16, true
	case MemoryAsFile:
		return fileBits, true
	}
	return 0, false
}

// fileBits returns the number of significant bits per sample in the
// file for a data format.
func fileBits(f DataFormat) (int, bool) {
	switch f {
	case Data8Bit:
		return 8, true
	case Data10Bit:
		return 10, true
	case Data12Bit:
		return 12, true
	case Data14Bit:
		return 14, true
	case Data16Bit, DataFloat:
		return 16, true
	}
	return 0, false
}

// transcode captures the sample conversion between file and memory.
type transcode struct {
	shiftLeft  uint
	shiftRight uint
	preMask    uint32
	postMask   uint32
}

func (t *transcode) apply(sample uint32) uint32 {
	sample &= t.preMask
	sample >>= t.shiftRight
	sample <<= t.shiftLeft
	return sample & t.postMask
}

// passthrough reports whether the conversion leaves 16 bit samples
// untouched, so a line can be copied without masking and shifting.
func (t *transcode) passthrough() bool {
	return t.shiftLeft == 0 && t.shiftRight == 0 &&
		t.preMask == 0xffff && t.postMask == 0xffff
}

func shiftPair(from, to int) (left, right uint) {
	if to > from {
		return uint(to - from), 0
	}
	return 0, uint(from - to)
}

// imageOffset returns the file offset of a component within image nr
// (one based): past the header, the previous images and the current
// image's auxiliary data records.
func (h *Header) imageOffset(nr, compNr int) int64 {
	offset := h.sizeHeader() + int64(nr-1)*h.sizeImage()
	offset += int64(h.nrAuxDataRecs) * int64(h.bytesRec)
	for i := 0; i < compNr; i++ {
		offset += h.comps[i].size()
	}
	return offset
}

// getSample16 decodes one file sample of two bytes in file byte order.
func (h *Header) getSample16(b []byte) uint32 {
	if h.littleEndian {
		return uint32(b[0]) | uint32(b[1])<<8
	}
	return uint32(b[0])<<8 | uint32(b[1])
}

func (h *Header) putSample16(b []byte, sample uint32) {
	if h.littleEndian {
		b[0] = byte(sample)
		b[1] = byte(sample >> 8)
	} else {
		b[0] = byte(sample >> 8)
		b[1] = byte(sample)
	}
}

// readImage reads one component of image nr into a caller buffer.
// Exactly one of dst8 and dst16 is non-nil; stride counts elements of
// the destination. Requests larger than the component are clipped.
func (h *Header) readImage(name string, nr, compNr int,
	dst8 []byte, dst16 []uint16, memFmt MemoryFormat,
	width, height, stride int) error {

	comp := &h.comps[compNr]
	fileFmt := dataFormatOf(comp.dataFmt)
	fBits, ok := fileBits(fileFmt)
	if !ok {
		return ErrFileDataFormat
	}
	mBits, ok := memFmt.bits(fBits)
	if !ok || (dst8 != nil && memFmt == MemoryAsFile) {
		return ErrMemoryDataFormat
	}

	var t transcode
	t.shiftLeft, t.shiftRight = shiftPair(fBits, mBits)
	t.preMask = uint32(1)<<uint(fBits) - 1
	t.postMask = 0xffff
	if memFmt == Memory16BitLSB {
		t.postMask = 0x00ff
	}

	elSize := 2
	if fileFmt == Data8Bit {
		elSize = 1
	}
	localWidth := min(width, comp.pixLine)
	localHeight := min(height, comp.linImage)

	f, err := openFile(name, fio.ModeRead, 0)
	if err != nil {
		return ErrOpenFailed
	}
	offset := h.imageOffset(nr, compNr)
	if err := seekTo(f, offset); err != nil {
		return err
	}

	line := make([]byte, localWidth*elSize)
	for y := 0; y < localHeight; y++ {
		if err := f.Read(line); err != nil {
			return ErrReadFailed
		}
		offset += int64(comp.pixLine) * int64(elSize)
		if err := seekTo(f, offset); err != nil {
			return err
		}

		switch {
		case elSize == 1 && dst8 != nil:
			copy(dst8[y*stride:], line)
		case elSize == 1:
			row := dst16[y*stride:]
			for x := 0; x < localWidth; x++ {
				row[x] = uint16(t.apply(uint32(line[x])))
			}
		case dst8 != nil:
			row := dst8[y*stride:]
			for x := 0; x < localWidth; x++ {
				row[x] = byte(t.apply(h.getSample16(line[2*x:])))
			}
		case t.passthrough():
			row := dst16[y*stride:]
			if h.littleEndian {
				for x := 0; x < localWidth; x++ {
					row[x] = uint16(line[2*x]) | uint16(line[2*x+1])<<8
				}
			} else {
				for x := 0; x < localWidth; x++ {
					row[x] = uint16(line[2*x])<<8 | uint16(line[2*x+1])
				}
			}
		default:
			row := dst16[y*stride:]
			for x := 0; x < localWidth; x++ {
				row[x] = uint16(t.apply(h.getSample16(line[2*x:])))
			}
		}
	}
	return nil
}

// writeImage writes one component of image nr from a caller buffer.
// The component area not covered by the buffer is written as zero.
func (h *Header) writeImage(name string, nr, compNr int,
	src8 []byte, src16 []uint16, memFmt MemoryFormat,
	width, height, stride int) error {

	comp := &h.comps[compNr]
	fileFmt := dataFormatOf(comp.dataFmt)
	fBits, ok := fileBits(fileFmt)
	if !ok {
		return ErrFileDataFormat
	}
	if memFmt == Memory16BitLSB || memFmt == MemoryAsFile {
		return ErrMemoryDataFormat
	}
	mBits, ok := memFmt.bits(fBits)
	if !ok {
		return ErrMemoryDataFormat
	}

	var t transcode
	t.shiftLeft, t.shiftRight = shiftPair(mBits, fBits)
	t.preMask = uint32(1)<<uint(mBits) - 1
	t.postMask = 0xffff

	elSize := 2
	if fileFmt == Data8Bit {
		elSize = 1
	}
	localWidth := min(width, comp.pixLine)
	localHeight := min(height, comp.linImage)

	f, err := openFile(name, fio.ModeUpdate, 0)
	if err != nil {
		return ErrModifyFailed
	}
	if f.IsStream() && nr > h.nrImages {
		return ErrWriteBeyondImagesStdout
	}

	// The whole component is assembled in memory and written in one
	// piece; area outside the caller buffer becomes zero.
	buf := make([]byte, comp.size())
	for y := 0; y < localHeight; y++ {
		line := buf[y*comp.pixLine*elSize:]
		switch {
		case elSize == 1 && src8 != nil:
			copy(line[:localWidth], src8[y*stride:])
		case elSize == 1:
			row := src16[y*stride:]
			for x := 0; x < localWidth; x++ {
				line[x] = byte(t.apply(uint32(row[x])))
			}
		case src8 != nil:
			row := src8[y*stride:]
			for x := 0; x < localWidth; x++ {
				h.putSample16(line[2*x:], t.apply(uint32(row[x])))
			}
		case t.passthrough():
			row := src16[y*stride:]
			if h.littleEndian {
				for x := 0; x < localWidth; x++ {
					line[2*x] = byte(row[x])
					line[2*x+1] = byte(row[x] >> 8)
				}
			} else {
				for x := 0; x < localWidth; x++ {
					line[2*x] = byte(row[x] >> 8)
					line[2*x+1] = byte(row[x])
				}
			}
		default:
			row := src16[y*stride:]
			for x := 0; x < localWidth; x++ {
				h.putSample16(line[2*x:], t.apply(uint32(row[x])))
			}
		}
	}

	if err := seekTo(f, h.imageOffset(nr, compNr)); err != nil {
		return err
	}
	if err := writeData(f, buf); err != nil {
		return err
	}
	setFileLength(f, nr)
	return nil
}
