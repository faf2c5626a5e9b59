package pfspd

import (
	"github.com/leoparders/pfspd/half"
)

// Floating point convenience access. Samples travel through the file
// in their native format and are scaled to float32 with an offset and
// gain, so a full range integer file maps onto [0, 1]. Files in the
// R*2 format store 16 bit floats and are converted losslessly.

// compAccessMode returns the memory format that reads or writes a
// component's samples unshifted, so scaling is left entirely to the
// offset and gain.
func compAccessMode(fmt DataFormat) (MemoryFormat, error) {
	switch fmt {
	case Data8Bit:
		return Memory8Bit, nil
	case Data10Bit:
		return Memory10Bit, nil
	case Data12Bit:
		return Memory12Bit, nil
	case Data14Bit:
		return Memory14Bit, nil
	case DataFloat:
		if err := half.CheckPlatform(); err != nil {
			return 0, ErrFloatConversion
		}
		return Memory16Bit, nil
	default:
		return Memory16Bit, nil
	}
}

// ReadComponentFloat reads one component into a float32 buffer,
// converting every sample as (sample-offset)/gain. A zero field reads
// a whole frame, fields one and two read a single field.
func ReadComponentFloat(name string, h *Header, frame, field, comp int,
	dst []float32, offset, gain int, width, height, stride int) error {

	info, err := h.Component(comp)
	if err != nil {
		return err
	}
	memFmt, err := compAccessMode(info.Format)
	if err != nil {
		return err
	}

	buf := make([]uint16, width*height)
	if field == 0 {
		err = ReadFrameComponent16(name, h, frame, comp, buf, memFmt, width, height, width)
	} else {
		err = ReadFieldComponent16(name, h, frame, field, comp, buf, memFmt, width, height, width)
	}
	if err != nil {
		return err
	}

	off, g := float32(offset), float32(gain)
	if info.Format == DataFloat {
		for y := 0; y < height; y++ {
			row := dst[y*stride : y*stride+width]
			half.ConvertBitsToFloat32(row, buf[y*width : y*width+width])
			if off != 0 || g != 1 {
				for x := range row {
					row[x] = (row[x] - off) / g
				}
			}
		}
	} else {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				dst[y*stride+x] = (float32(buf[y*width+x]) - off) / g
			}
		}
	}
	return nil
}

// WriteComponentFloat writes one component from a float32 buffer,
// converting every sample as sample*gain+offset.
func WriteComponentFloat(name string, h *Header, frame, field, comp int,
	src []float32, offset, gain int, width, height, stride int) error {

	info, err := h.Component(comp)
	if err != nil {
		return err
	}
	memFmt, err := compAccessMode(info.Format)
	if err != nil {
		return err
	}

	buf := make([]uint16, width*height)
	off, g := float32(offset), float32(gain)
	if info.Format == DataFloat {
		var scaled []float32
		if off != 0 || g != 1 {
			scaled = make([]float32, width)
		}
		for y := 0; y < height; y++ {
			row := src[y*stride : y*stride+width]
			if scaled != nil {
				for x := range scaled {
					scaled[x] = row[x]*g + off
				}
				row = scaled
			}
			half.ConvertFloat32ToBits(buf[y*width : y*width+width], row)
		}
	} else {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				v := float64(src[y*stride+x])*float64(gain) + float64(offset) + 0.5
				buf[y*width+x] = uint16(v)
			}
		}
	}

	if field == 0 {
		return WriteFrameComponent16(name, h, frame, comp, buf, memFmt, width, height, width)
	}
	return WriteFieldComponent16(name, h, frame, field, comp, buf, memFmt, width, height, width)
}

// floatGain returns the gain that maps the file's full sample range
// onto [0, 1]: the maximum sample value, or one for float files.
func (h *Header) floatGain() (int, error) {
	switch h.FileDataFormat() {
	case Data8Bit:
		return 1<<8 - 1, nil
	case Data10Bit:
		return 1<<10 - 1, nil
	case Data12Bit:
		return 1<<12 - 1, nil
	case Data14Bit:
		return 1<<14 - 1, nil
	case Data16Bit:
		return 1<<16 - 1, nil
	case DataFloat:
		return 1, nil
	}
	return 0, ErrFileDataFormat
}

func (h *Header) checkFloatPlanes() error {
	switch h.ColorFormat() {
	case Color444Planar, ColorRGB, ColorXYZ:
		return nil
	}
	return ErrColorFormat
}

// ReadFloatXYZ reads the three planes of a planar YUV, RGB or XYZ
// image as float32, scaled so integer files map onto [0, 1].
func ReadFloatXYZ(name string, h *Header, frame, field int,
	p0, p1, p2 []float32, width, height, stride int) error {

	if err := h.checkFloatPlanes(); err != nil {
		return err
	}
	gain, err := h.floatGain()
	if err != nil {
		return err
	}
	for i, p := range [3][]float32{p0, p1, p2} {
		if err := ReadComponentFloat(name, h, frame, field, i, p, 0, gain,
			width, height, stride); err != nil {
			return err
		}
	}
	return nil
}

// WriteFloatXYZ writes the three planes of a planar YUV, RGB or XYZ
// image from float32 buffers, scaled to the file's sample range.
func WriteFloatXYZ(name string, h *Header, frame, field int,
	p0, p1, p2 []float32, width, height, stride int) error {

	if err := h.checkFloatPlanes(); err != nil {
		return err
	}
	gain, err := h.floatGain()
	if err != nil {
		return err
	}
	for i, p := range [3][]float32{p0, p1, p2} {
		if err := WriteComponentFloat(name, h, frame, field, i, p, 0, gain,
			width, height, stride); err != nil {
			return err
		}
	}
	return nil
}
