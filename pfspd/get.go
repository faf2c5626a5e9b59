package pfspd

// NumFrames returns the number of frames in the file. On interlaced
// files two images form one frame.
func (h *Header) NumFrames() int {
	return h.nrImages / h.interlace
}

// Interlaced reports whether every image holds one field.
func (h *Header) Interlaced() bool {
	return h.interlace == 2
}

// Progressive reports whether every image holds one frame.
func (h *Header) Progressive() bool {
	return h.interlace == 1
}

// Width returns the frame width in pixels.
func (h *Header) Width() int {
	return h.actPixel
}

// Height returns the frame height in lines.
func (h *Header) Height() int {
	return h.actLines
}

// YBufferSize returns the dimensions of a luminance or stream image
// buffer.
func (h *Header) YBufferSize() (width, height int) {
	return h.comps[0].pixLine, h.comps[0].linImage
}

// UVBufferSize returns the dimensions of a multiplexed chrominance
// image buffer.
func (h *Header) UVBufferSize() (width, height int) {
	return h.comps[1].pixLine, h.comps[1].linImage
}

// RGBBufferSize returns the dimensions of one R, G or B plane buffer.
func (h *Header) RGBBufferSize() (width, height int) {
	return h.comps[0].pixLine, h.comps[0].linImage
}

// StreamBufferSize returns the dimensions of a stream image buffer.
func (h *Header) StreamBufferSize() (width, height int) {
	return h.comps[0].pixLine, h.comps[0].linImage
}

// ColorFormat returns the color format of the file, or ColorUnknown
// when the components match no standard layout.
func (h *Header) ColorFormat() ColorFormat {
	color, err := h.checkColorFormat()
	if err != nil {
		return ColorUnknown
	}
	return color
}

// Frequencies returns the image, line and pixel frequencies. The line
// and pixel frequencies are in MHz and may be zero when unknown.
func (h *Header) Frequencies() (image, line, pixel float64) {
	return h.imaFreq, h.linFreq, h.pixFreq
}

// ImageFrequency classifies the image frequency, or returns
// FreqUnknown for a non-standard rate.
func (h *Header) ImageFrequency() Frequency {
	return classifyFrequency(h.imaFreq)
}

// ImageSize classifies the image dimensions, or returns SizeUnknown
// for a non-standard size.
func (h *Header) ImageSize() ImageSize {
	if h.ColorFormat() == ColorStream {
		switch h.actLines {
		case 525, 625:
			return SizeSD
		}
		return SizeUnknown
	}
	switch h.actLines {
	case 120, 144:
		return SizeQCIF
	case 240, 288:
		return SizeCIF
	case 480, 576:
		return SizeSD
	case 1080, 1152:
		return SizeHDi
	case 720:
		return SizeHDp
	}
	return SizeUnknown
}

// AspectRatio classifies the pixel aspect ratio fields.
func (h *Header) AspectRatio() AspectRatio {
	hr, vr := h.hPPSize, h.vPPSize
	switch {
	case hr == 4 && vr == 3:
		return Aspect4x3
	case hr == 16 && vr == 9:
		return Aspect16x9
	}
	// Square pixels within floating point rounding of the stored ratio.
	d := float64(h.actPixel)/float64(hr) - float64(h.actLines)/float64(vr)
	if d < 0 {
		d = -d
	}
	if d < 0.001 {
		return AspectSquarePixel
	}
	return AspectAuto
}

// FileDataFormat returns the data format shared by the color
// components, or DataUnknown when they differ or are non-standard.
func (h *Header) FileDataFormat() DataFormat {
	color := h.ColorFormat()
	format, err := h.checkFileDataFormat(color)
	if err != nil {
		return DataUnknown
	}
	return format
}

// ApplicationType returns the application type string of the file.
func (h *Header) ApplicationType() string {
	return h.applType
}

// Description returns the free form file description.
func (h *Header) Description() string {
	n := 0
	for n < len(h.description) && h.description[n] != 0 {
		n++
	}
	return string(h.description[:n])
}

// NumComponents returns the number of components per image.
func (h *Header) NumComponents() int {
	return h.nrCompon
}

// ComponentByName returns the index of the first component with the
// given name, or -1 when no component has that name.
func (h *Header) ComponentByName(name string) int {
	padded := padTo(name, widthComCode)
	for i := 0; i < h.nrCompon; i++ {
		if h.comps[i].code == padded {
			return i
		}
	}
	return -1
}

// ComponentInfo describes one component of an image.
type ComponentInfo struct {
	Name          string
	Format        DataFormat
	PixSubsample  int
	LineSubsample int
	// Multiplex is the number of samples the component stores per
	// image pixel, e.g. 2 for multiplexed UV.
	Multiplex int
}

// Component returns the properties of one component.
func (h *Header) Component(comp int) (ComponentInfo, error) {
	if comp < 0 || comp >= h.nrCompon {
		return ComponentInfo{}, ErrInvalidComponent
	}
	c := &h.comps[comp]
	info := ComponentInfo{
		Format:        dataFormatOf(c.dataFmt),
		PixSubsample:  c.pixSbsmpl,
		LineSubsample: c.linSbsmpl,
	}
	name := c.code
	for i := 0; i < len(name); i++ {
		if name[i] == ' ' {
			name = name[:i]
			break
		}
	}
	info.Name = name
	if h.actPixel > 0 {
		info.Multiplex = c.pixLine * c.pixSbsmpl / h.actPixel
	}
	if info.Format == DataUnknown {
		return info, ErrFileDataFormat
	}
	return info, nil
}

// ComponentBufferSize returns the dimensions of one component's image
// buffer.
func (h *Header) ComponentBufferSize(comp int) (width, height int, err error) {
	if comp < 0 || comp >= h.nrCompon {
		return 0, 0, ErrInvalidComponent
	}
	return h.comps[comp].pixLine, h.comps[comp].linImage, nil
}
