package pfspd

// Header modifiers. Every modifier marks the header modified, so the
// caller must store it with WriteHeader or RewriteHeader before
// accessing image data again.

// SetNumFrames sets the number of frames. On interlaced files the
// image count becomes twice the frame count.
func (h *Header) SetNumFrames(frames int) {
	h.nrImages = frames * h.interlace
	h.modified = true
}

// SetColorFormat changes the color format, keeping the image size,
// frequencies, frame count and file data format. The components are
// rebuilt from the new format's defaults, so the description, the
// auxiliary headers and any extra components are lost.
func (h *Header) SetColorFormat(color ColorFormat) error {
	old := h.ColorFormat()
	if old != color {
		frames := h.NumFrames()
		fileFmt := h.FileDataFormat()
		n, err := NewHeaderFree(color, h.imaFreq, h.linFreq, h.pixFreq,
			h.actLines, h.actPixel, h.interlace, h.hPPSize, h.vPPSize)
		if err != nil {
			return err
		}
		*h = *n
		h.SetNumFrames(frames)
		if err := h.SetFileDataFormat(fileFmt); err != nil {
			return err
		}
	}
	h.modified = true
	return nil
}

// SetAspectRatio changes the pixel aspect ratio fields.
func (h *Header) SetAspectRatio(ratio AspectRatio) error {
	h.modified = true
	switch ratio {
	case Aspect4x3:
		h.hPPSize, h.vPPSize = 4, 3
	case Aspect16x9:
		h.hPPSize, h.vPPSize = 16, 9
	case AspectSquarePixel:
		div := gcd(h.actPixel, h.actLines)
		h.hPPSize = h.actPixel / div
		h.vPPSize = h.actLines / div
	default:
		return ErrAspectRatio
	}
	return nil
}

// colorHeights returns the components whose height changes with the
// scan mode: the components of the color format.
func (h *Header) colorHeights() int {
	switch h.ColorFormat() {
	case ColorNone:
		return 1
	case Color422, Color420:
		return 2
	case Color444Planar, Color422Planar, Color420Planar, ColorRGB, ColorXYZ:
		return 3
	}
	return 0
}

// ToProgressive converts an interlaced header to progressive: each
// pair of fields becomes one frame image of twice the height.
func (h *Header) ToProgressive() {
	if h.Interlaced() {
		n := h.colorHeights()
		h.nrImages /= 2
		h.linFreq *= 2.0
		h.pixFreq *= 2.0
		h.interlace = 1
		for i := 0; i < n; i++ {
			h.comps[i].linImage *= 2
		}
	}
	h.modified = true
}

// ToInterlaced converts a progressive header to interlaced: each frame
// becomes two field images of half the height.
func (h *Header) ToInterlaced() {
	if h.Progressive() {
		n := h.colorHeights()
		h.nrImages *= 2
		h.linFreq /= 2.0
		h.pixFreq /= 2.0
		h.interlace = 2
		for i := 0; i < n; i++ {
			h.comps[i].linImage /= 2
		}
	}
	h.modified = true
}

// ToDoubleRate doubles the image rate of a 50 or 60 Hz header, e.g.
// for scan rate conversion output. Only the base rates can be doubled.
func (h *Header) ToDoubleRate() error {
	h.modified = true
	switch h.ImageFrequency() {
	case Freq50, Freq60, FreqReal60:
		h.nrImages *= 2
		h.imaFreq *= 2.0
		h.linFreq *= 2.0
		h.pixFreq *= 2.0
		return nil
	}
	return ErrFrequencyChange
}

// ToOneHalfRate raises the image rate of a 50 or 60 Hz header by one
// half, producing 75 or 90 Hz material.
func (h *Header) ToOneHalfRate() error {
	h.modified = true
	switch h.ImageFrequency() {
	case Freq50, Freq60, FreqReal60:
		h.nrImages = int(float64(h.nrImages) * 1.5)
		h.imaFreq *= 1.5
		h.linFreq *= 1.5
		h.pixFreq *= 1.5
		return nil
	}
	return ErrFrequencyChange
}

// SetImageSize changes the image dimensions, scaling every component by
// its current subsample factor. Shrinking keeps the line and pixel
// frequencies so a simulator can display the image centered in the
// original raster; growing resets them to zero since the raster no
// longer applies. Use SetDefinedImageSize to grow to a standard raster.
func (h *Header) SetImageSize(width, height int) {
	reset := width > h.actPixel || height > h.actLines
	for i := 0; i < h.nrCompon; i++ {
		c := &h.comps[i]
		hSub := h.actPixel / c.pixLine
		vSub := h.actLines / c.linImage // doubled when interlaced
		c.pixLine = width / hSub
		c.linImage = height / vSub
	}
	h.actPixel = width
	h.actLines = height
	if reset {
		h.pixFreq = 0.0
		h.linFreq = 0.0
	}
	h.modified = true
}

// SetDefinedImageSize rebuilds the header for a standard image size,
// keeping the color format, frequency, scan mode, aspect ratio, frame
// count and file data format.
func (h *Header) SetDefinedImageSize(size ImageSize, pixelsPerLine int) error {
	return h.rebuild(h.ImageFrequency(), size, pixelsPerLine)
}

// SetDefinedFrequency rebuilds the header for a standard image
// frequency, keeping the image size and the other properties.
func (h *Header) SetDefinedFrequency(freq Frequency) error {
	return h.rebuild(freq, h.ImageSize(), h.Width())
}

func (h *Header) rebuild(freq Frequency, size ImageSize, pixelsPerLine int) error {
	h.modified = true
	frames := h.NumFrames()
	fileFmt := h.FileDataFormat()
	n, err := NewHeaderSized(h.ColorFormat(), freq, size, pixelsPerLine,
		h.Progressive(), h.AspectRatio())
	if err != nil {
		return err
	}
	*h = *n
	h.SetNumFrames(frames)
	return h.SetFileDataFormat(fileFmt)
}

// SetFrequencies sets the image, line and pixel frequencies to
// arbitrary non-negative values.
func (h *Header) SetFrequencies(image, line, pixel float64) error {
	if image < 0 || line < 0 || pixel < 0 {
		return ErrAllFrequencyChange
	}
	h.imaFreq = image
	h.linFreq = line
	h.pixFreq = pixel
	h.modified = true
	return nil
}

// SetFileDataFormat sets the data format of the color components. The
// floating point format is only allowed on RGB and XYZ files; use
// SetComponent to force it elsewhere.
func (h *Header) SetFileDataFormat(format DataFormat) error {
	h.modified = true
	color := h.ColorFormat()
	code, ok := format.fileCode()
	if !ok || (format == DataFloat && color != ColorRGB && color != ColorXYZ) {
		return ErrFileDataFormat
	}
	n := color.numColorComps()
	if n == 0 {
		return ErrColorFormat
	}
	for i := 0; i < n; i++ {
		h.comps[i].dataFmt = code
	}
	return nil
}

// SetDescription sets the free form file description.
func (h *Header) SetDescription(description string) error {
	h.modified = true
	if len(description) >= descriptionSize {
		return ErrDescriptionSize
	}
	for i := range h.description {
		h.description[i] = 0
	}
	copy(h.description, description)
	return nil
}

// AddComponent appends a component with default properties: the full
// image size, no subsampling, 8 bit data format and no name. It
// returns the new component's index, or -1 when the file is full.
func (h *Header) AddComponent() int {
	if h.nrCompon >= MaxComponents {
		return -1
	}
	comp := h.nrCompon
	h.nrCompon++
	h.comps = append(h.comps, component{
		linImage:  h.actLines / h.interlace,
		pixLine:   h.actPixel,
		dataFmt:   fmtCode8Bit,
		temSbsmpl: 1,
		linSbsmpl: 1,
		pixSbsmpl: 1,
		code:      codeVoid,
	})
	h.modified = true
	return comp
}

// SetComponent sets the properties of a component. The component
// dimensions follow from the image size, the subsample factors and the
// multiplex factor; the name is truncated to the field width.
func (h *Header) SetComponent(comp int, name string, format DataFormat,
	pixSubsample, lineSubsample, multiplex int) error {

	h.modified = true
	if comp < 0 || comp >= h.nrCompon {
		return ErrInvalidComponent
	}
	if pixSubsample <= 0 || lineSubsample <= 0 ||
		h.actPixel%pixSubsample != 0 || h.actLines%lineSubsample != 0 {
		return ErrSubsampleFactor
	}
	code, ok := format.fileCode()
	if !ok {
		return ErrFileDataFormat
	}
	if len(name) > widthComCode {
		name = name[:widthComCode]
	}
	c := &h.comps[comp]
	c.temSbsmpl = 1
	c.linSbsmpl = lineSubsample
	c.pixSbsmpl = pixSubsample
	c.temPhshft = 0
	c.linPhshft = 0
	c.pixPhshft = 0
	c.linImage = (h.actLines / lineSubsample) / h.interlace
	c.pixLine = multiplex * h.actPixel / pixSubsample
	c.dataFmt = code
	c.code = padTo(name, widthComCode)
	return nil
}

// RemoveComponent removes a component, shifting later components down.
// Component -1 is ignored, so the result of a failed ComponentByName
// can be passed directly.
func (h *Header) RemoveComponent(comp int) error {
	if comp == -1 {
		return nil
	}
	if comp < 0 || comp >= h.nrCompon {
		return ErrInvalidComponent
	}
	h.comps = append(h.comps[:comp], h.comps[comp+1:]...)
	h.nrCompon--
	h.modified = true
	return nil
}

// RemoveExtraComponents removes every component beyond the color
// format.
func (h *Header) RemoveExtraComponents() error {
	h.modified = true
	color, err := h.checkColorFormat()
	if err != nil {
		return err
	}
	n := color.numColorComps()
	if n > 0 && n < h.nrCompon {
		h.comps = h.comps[:n]
		h.nrCompon = n
	}
	return nil
}
