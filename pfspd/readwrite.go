package pfspd

// ComponentMode selects which color components a read delivers.
type ComponentMode int

const (
	// ReadAll reads every component of the color format.
	ReadAll ComponentMode = iota
	// ReadLuma reads only the first component. On RGB and XYZ files it
	// reads all three planes, which old applications relied on.
	ReadLuma
	// ReadChroma reads the chrominance: the multiplexed UV component
	// or both chroma planes, depending on the color format.
	ReadChroma
	ReadChromaU
	ReadChromaV
	ReadRed
	ReadGreen
	ReadBlue
)

// normalComp flags access through the color format dispatch instead of
// a single explicit component.
const normalComp = -1

// selectComps determines which of the first three components to access
// for a component mode, given the color format.
func selectComps(color ColorFormat, mode ComponentMode) (sel [3]bool, err error) {
	switch color {
	case ColorNone:
		switch mode {
		case ReadLuma:
			sel[0] = true
		case ReadAll, ReadChroma, ReadChromaU, ReadChromaV:
			err = ErrChromaFromLumaOnly
		default:
			err = ErrRGBFromLumaOnly
		}
	case Color422, Color420:
		switch mode {
		case ReadAll:
			sel[0], sel[1] = true, true
		case ReadLuma:
			sel[0] = true
		case ReadChroma:
			sel[1] = true
		case ReadChromaU, ReadChromaV:
			err = ErrPlanarChromaFromMuxed
		default:
			err = ErrRGBFromYUV
		}
	case Color444Planar, Color422Planar, Color420Planar:
		switch mode {
		case ReadAll:
			sel[0], sel[1], sel[2] = true, true, true
		case ReadLuma:
			sel[0] = true
		case ReadChroma:
			sel[1], sel[2] = true, true
		case ReadChromaU:
			sel[1] = true
		case ReadChromaV:
			sel[2] = true
		default:
			err = ErrRGBFromYUV
		}
	case ColorRGB, ColorXYZ:
		switch mode {
		case ReadAll, ReadLuma: // ReadLuma for backwards compatibility
			sel[0], sel[1], sel[2] = true, true, true
		case ReadRed:
			sel[0] = true
		case ReadGreen:
			sel[1] = true
		case ReadBlue:
			sel[2] = true
		default:
			err = ErrChromaFromRGB
		}
	case ColorStream:
		switch mode {
		case ReadAll, ReadLuma:
			sel[0] = true
		case ReadChroma, ReadChromaU, ReadChromaV:
			err = ErrChromaFromStream
		default:
			err = ErrRGBFromStream
		}
	}
	return sel, err
}

// writeComps determines which components a write stores: always the
// full set of the color format.
func writeComps(color ColorFormat) (sel [3]bool) {
	switch color {
	case ColorNone, ColorStream:
		sel[0] = true
	case Color422, Color420:
		sel[0], sel[1] = true, true
	case Color444Planar, Color422Planar, Color420Planar, ColorRGB, ColorXYZ:
		sel[0], sel[1], sel[2] = true, true, true
	}
	return sel
}

// bufs carries up to three planes of either width, with per-plane
// strides. Exactly one of b8 and b16 is used.
type bufs struct {
	b8  [3][]byte
	b16 [3][]uint16
	str [3]int
}

// offset returns the buffer set shifted down by one line, for the
// second field of an interlaced frame.
func (b bufs) offset() bufs {
	for i := range b.b8 {
		if len(b.b8[i]) >= b.str[i] {
			b.b8[i] = b.b8[i][b.str[i]:]
		}
		if len(b.b16[i]) >= b.str[i] {
			b.b16[i] = b.b16[i][b.str[i]:]
		}
	}
	return b
}

// doubled returns the buffer set with doubled strides, to interleave
// fields into frame buffers.
func (b bufs) doubled() bufs {
	for i := range b.str {
		b.str[i] *= 2
	}
	return b
}

// strides fills the per-plane strides: YUV formats use uvStride for
// the chroma planes when it is nonzero.
func strides(color ColorFormat, stride, uvStride int) [3]int {
	switch color {
	case Color422, Color420, Color444Planar, Color422Planar, Color420Planar:
		if uvStride != 0 {
			return [3]int{stride, uvStride, uvStride}
		}
	}
	return [3]int{stride, stride, stride}
}

// accessBuffers reads or writes the selected components of one image.
// comp selects a single explicit component when not normalComp.
func (h *Header) accessBuffers(name string, color ColorFormat,
	frame, field, comp int, fieldAccess, writing bool,
	b bufs, mode ComponentMode, memFmt MemoryFormat, width, height int) error {

	var sel [3]bool
	comp0 := 0
	if comp != normalComp {
		sel[0] = true
		comp0 = comp
	} else if writing {
		sel = writeComps(color)
	} else {
		var err error
		if sel, err = selectComps(color, mode); err != nil {
			return err
		}
	}

	var w, ht [3]int
	for i := range sel {
		if !sel[i] {
			continue
		}
		c := &h.comps[i]
		if comp != normalComp {
			c = &h.comps[comp0]
		}
		w[i] = width / c.pixSbsmpl
		ht[i] = height / c.linSbsmpl
	}
	// The multiplexed UV component holds two samples per luma pixel.
	if comp == normalComp && (color == Color422 || color == Color420) {
		w[1] *= 2
	}

	nr := frame
	if fieldAccess {
		nr = 2*(frame-1) + field
	}

	for i := range sel {
		if !sel[i] {
			continue
		}
		compNr := i
		if comp != normalComp {
			compNr = comp0
		}
		var err error
		if writing {
			err = h.writeImage(name, nr, compNr, b.b8[i], b.b16[i], memFmt, w[i], ht[i], b.str[i])
		} else {
			err = h.readImage(name, nr, compNr, b.b8[i], b.b16[i], memFmt, w[i], ht[i], b.str[i])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// accessField accesses one field of an interlaced file.
func (h *Header) accessField(name string, color ColorFormat,
	frame, field, comp int, writing bool,
	b bufs, mode ComponentMode, memFmt MemoryFormat, width, fldHeight int) error {

	if h.Progressive() {
		return ErrShouldBeInterlaced
	}
	return h.accessBuffers(name, color, frame, field, comp, true, writing,
		b, mode, memFmt, width, fldHeight)
}

// accessFrame accesses a whole frame. On interlaced files the two
// fields are accessed separately and interleaved line by line.
func (h *Header) accessFrame(name string, color ColorFormat,
	frame, comp int, writing bool,
	b bufs, mode ComponentMode, memFmt MemoryFormat, width, frmHeight int) error {

	if !h.Interlaced() {
		return h.accessBuffers(name, color, frame, 0, comp, false, writing,
			b, mode, memFmt, width, frmHeight)
	}
	db := b.doubled()
	err := h.accessBuffers(name, color, frame, 1, comp, true, writing,
		db, mode, memFmt, width, frmHeight/2)
	if err != nil {
		return err
	}
	return h.accessBuffers(name, color, frame, 2, comp, true, writing,
		b.offset().doubled(), mode, memFmt, width, frmHeight/2)
}

// checkMultiplexed gates the field and frame access of the two-buffer
// functions: luminance only or multiplexed chrominance.
func checkMultiplexed(color ColorFormat, allowStream bool) error {
	switch color {
	case ColorNone, Color422, Color420:
		return nil
	case ColorStream:
		if allowStream {
			return nil
		}
	}
	return ErrMultiplexedColorFormat
}

// checkPlanar gates the three-buffer access functions.
func checkPlanar(color ColorFormat) error {
	switch color {
	case ColorNone, Color444Planar, Color422Planar, Color420Planar, ColorRGB, ColorXYZ:
		return nil
	}
	return ErrPlanarColorFormat
}

// checkedColor validates the header for image access and returns its
// color format.
func (h *Header) checkedColor() (ColorFormat, error) {
	if err := h.checkAccess(); err != nil {
		return ColorUnknown, err
	}
	color, _ := h.checkColorFormat()
	return color, nil
}

func (h *Header) checkComp(comp int, reading bool) error {
	if h.modified {
		return ErrHeaderModified
	}
	if comp < 0 || comp >= h.nrCompon {
		if reading {
			return ErrReadInvalidComponent
		}
		return ErrWriteInvalidComponent
	}
	return nil
}

// Multiplexed luminance/chrominance (YUV) or streaming files. The uv
// buffer receives the multiplexed UV component; it is unused for
// luminance only and stream files. Frames and fields count from one.

// ReadField reads one field of an interlaced file into 8 bit buffers.
func ReadField(name string, h *Header, frame, field int, y, uv []byte,
	mode ComponentMode, width, fldHeight, stride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkMultiplexed(color, false); err != nil {
		return err
	}
	b := bufs{b8: [3][]byte{y, uv}, str: strides(color, stride, 0)}
	return h.accessField(name, color, frame, field, normalComp, false,
		b, mode, Memory8Bit, width, fldHeight)
}

// ReadFrame reads one frame into 8 bit buffers. On interlaced files
// the fields are interleaved.
func ReadFrame(name string, h *Header, frame int, yOrS, uv []byte,
	mode ComponentMode, width, frmHeight, stride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkMultiplexed(color, true); err != nil {
		return err
	}
	b := bufs{b8: [3][]byte{yOrS, uv}, str: strides(color, stride, 0)}
	return h.accessFrame(name, color, frame, normalComp, false,
		b, mode, Memory8Bit, width, frmHeight)
}

// WriteField writes one field of an interlaced file from 8 bit
// buffers. All components of the color format are written.
func WriteField(name string, h *Header, frame, field int, y, uv []byte,
	width, fldHeight, stride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkMultiplexed(color, false); err != nil {
		return err
	}
	b := bufs{b8: [3][]byte{y, uv}, str: strides(color, stride, 0)}
	return h.accessField(name, color, frame, field, normalComp, true,
		b, ReadAll, Memory8Bit, width, fldHeight)
}

// WriteFrame writes one frame from 8 bit buffers.
func WriteFrame(name string, h *Header, frame int, yOrS, uv []byte,
	width, frmHeight, stride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkMultiplexed(color, true); err != nil {
		return err
	}
	b := bufs{b8: [3][]byte{yOrS, uv}, str: strides(color, stride, 0)}
	return h.accessFrame(name, color, frame, normalComp, true,
		b, ReadAll, Memory8Bit, width, frmHeight)
}

// ReadField16 reads one field into 16 bit buffers, converting samples
// to the given memory format.
func ReadField16(name string, h *Header, frame, field int, y, uv []uint16,
	mode ComponentMode, memFmt MemoryFormat, width, fldHeight, stride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkMultiplexed(color, false); err != nil {
		return err
	}
	b := bufs{b16: [3][]uint16{y, uv}, str: strides(color, stride, 0)}
	return h.accessField(name, color, frame, field, normalComp, false,
		b, mode, memFmt, width, fldHeight)
}

// ReadFrame16 reads one frame into 16 bit buffers.
func ReadFrame16(name string, h *Header, frame int, yOrS, uv []uint16,
	mode ComponentMode, memFmt MemoryFormat, width, frmHeight, stride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkMultiplexed(color, true); err != nil {
		return err
	}
	b := bufs{b16: [3][]uint16{yOrS, uv}, str: strides(color, stride, 0)}
	return h.accessFrame(name, color, frame, normalComp, false,
		b, mode, memFmt, width, frmHeight)
}

// WriteField16 writes one field from 16 bit buffers holding samples in
// the given memory format.
func WriteField16(name string, h *Header, frame, field int, y, uv []uint16,
	memFmt MemoryFormat, width, fldHeight, stride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkMultiplexed(color, false); err != nil {
		return err
	}
	b := bufs{b16: [3][]uint16{y, uv}, str: strides(color, stride, 0)}
	return h.accessField(name, color, frame, field, normalComp, true,
		b, ReadAll, memFmt, width, fldHeight)
}

// WriteFrame16 writes one frame from 16 bit buffers.
func WriteFrame16(name string, h *Header, frame int, yOrS, uv []uint16,
	memFmt MemoryFormat, width, frmHeight, stride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkMultiplexed(color, true); err != nil {
		return err
	}
	b := bufs{b16: [3][]uint16{yOrS, uv}, str: strides(color, stride, 0)}
	return h.accessFrame(name, color, frame, normalComp, true,
		b, ReadAll, memFmt, width, frmHeight)
}

// Planar luminance/chrominance (YUV), RGB or XYZ files. The three
// buffers hold the Y/U/V, R/G/B or X/Y/Z planes. uvStride, when
// nonzero, is used for the chroma planes of YUV files.

// ReadFieldPlanar reads one field of a planar file into 8 bit plane
// buffers.
func ReadFieldPlanar(name string, h *Header, frame, field int, p0, p1, p2 []byte,
	mode ComponentMode, width, fldHeight, stride, uvStride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkPlanar(color); err != nil {
		return err
	}
	b := bufs{b8: [3][]byte{p0, p1, p2}, str: strides(color, stride, uvStride)}
	return h.accessField(name, color, frame, field, normalComp, false,
		b, mode, Memory8Bit, width, fldHeight)
}

// ReadFramePlanar reads one frame of a planar file into 8 bit plane
// buffers.
func ReadFramePlanar(name string, h *Header, frame int, p0, p1, p2 []byte,
	mode ComponentMode, width, frmHeight, stride, uvStride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkPlanar(color); err != nil {
		return err
	}
	b := bufs{b8: [3][]byte{p0, p1, p2}, str: strides(color, stride, uvStride)}
	return h.accessFrame(name, color, frame, normalComp, false,
		b, mode, Memory8Bit, width, frmHeight)
}

// WriteFieldPlanar writes one field of a planar file from 8 bit plane
// buffers.
func WriteFieldPlanar(name string, h *Header, frame, field int, p0, p1, p2 []byte,
	width, fldHeight, stride, uvStride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkPlanar(color); err != nil {
		return err
	}
	b := bufs{b8: [3][]byte{p0, p1, p2}, str: strides(color, stride, uvStride)}
	return h.accessField(name, color, frame, field, normalComp, true,
		b, ReadAll, Memory8Bit, width, fldHeight)
}

// WriteFramePlanar writes one frame of a planar file from 8 bit plane
// buffers.
func WriteFramePlanar(name string, h *Header, frame int, p0, p1, p2 []byte,
	width, frmHeight, stride, uvStride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkPlanar(color); err != nil {
		return err
	}
	b := bufs{b8: [3][]byte{p0, p1, p2}, str: strides(color, stride, uvStride)}
	return h.accessFrame(name, color, frame, normalComp, true,
		b, ReadAll, Memory8Bit, width, frmHeight)
}

// ReadFieldPlanar16 reads one field of a planar file into 16 bit plane
// buffers.
func ReadFieldPlanar16(name string, h *Header, frame, field int, p0, p1, p2 []uint16,
	mode ComponentMode, memFmt MemoryFormat, width, fldHeight, stride, uvStride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkPlanar(color); err != nil {
		return err
	}
	b := bufs{b16: [3][]uint16{p0, p1, p2}, str: strides(color, stride, uvStride)}
	return h.accessField(name, color, frame, field, normalComp, false,
		b, mode, memFmt, width, fldHeight)
}

// ReadFramePlanar16 reads one frame of a planar file into 16 bit plane
// buffers.
func ReadFramePlanar16(name string, h *Header, frame int, p0, p1, p2 []uint16,
	mode ComponentMode, memFmt MemoryFormat, width, frmHeight, stride, uvStride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkPlanar(color); err != nil {
		return err
	}
	b := bufs{b16: [3][]uint16{p0, p1, p2}, str: strides(color, stride, uvStride)}
	return h.accessFrame(name, color, frame, normalComp, false,
		b, mode, memFmt, width, frmHeight)
}

// WriteFieldPlanar16 writes one field of a planar file from 16 bit
// plane buffers.
func WriteFieldPlanar16(name string, h *Header, frame, field int, p0, p1, p2 []uint16,
	memFmt MemoryFormat, width, fldHeight, stride, uvStride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkPlanar(color); err != nil {
		return err
	}
	b := bufs{b16: [3][]uint16{p0, p1, p2}, str: strides(color, stride, uvStride)}
	return h.accessField(name, color, frame, field, normalComp, true,
		b, ReadAll, memFmt, width, fldHeight)
}

// WriteFramePlanar16 writes one frame of a planar file from 16 bit
// plane buffers.
func WriteFramePlanar16(name string, h *Header, frame int, p0, p1, p2 []uint16,
	memFmt MemoryFormat, width, frmHeight, stride, uvStride int) error {

	color, err := h.checkedColor()
	if err != nil {
		return err
	}
	if err := checkPlanar(color); err != nil {
		return err
	}
	b := bufs{b16: [3][]uint16{p0, p1, p2}, str: strides(color, stride, uvStride)}
	return h.accessFrame(name, color, frame, normalComp, true,
		b, ReadAll, memFmt, width, frmHeight)
}

// Low level access to single components. These functions interpret no
// color format and only check the component range, so they work on
// non-video component layouts as well.

// ReadFieldComponent reads one field of a single component into an
// 8 bit buffer.
func ReadFieldComponent(name string, h *Header, frame, field, comp int, buf []byte,
	width, fldHeight, stride int) error {

	if err := h.checkComp(comp, true); err != nil {
		return err
	}
	b := bufs{b8: [3][]byte{buf}, str: [3]int{stride, stride, stride}}
	return h.accessField(name, ColorUnknown, frame, field, comp, false,
		b, ReadAll, Memory8Bit, width, fldHeight)
}

// ReadFrameComponent reads one frame of a single component into an
// 8 bit buffer.
func ReadFrameComponent(name string, h *Header, frame, comp int, buf []byte,
	width, frmHeight, stride int) error {

	if err := h.checkComp(comp, true); err != nil {
		return err
	}
	b := bufs{b8: [3][]byte{buf}, str: [3]int{stride, stride, stride}}
	return h.accessFrame(name, ColorUnknown, frame, comp, false,
		b, ReadAll, Memory8Bit, width, frmHeight)
}

// WriteFieldComponent writes one field of a single component from an
// 8 bit buffer.
func WriteFieldComponent(name string, h *Header, frame, field, comp int, buf []byte,
	width, fldHeight, stride int) error {

	if err := h.checkComp(comp, false); err != nil {
		return err
	}
	b := bufs{b8: [3][]byte{buf}, str: [3]int{stride, stride, stride}}
	return h.accessField(name, ColorUnknown, frame, field, comp, true,
		b, ReadAll, Memory8Bit, width, fldHeight)
}

// WriteFrameComponent writes one frame of a single component from an
// 8 bit buffer.
func WriteFrameComponent(name string, h *Header, frame, comp int, buf []byte,
	width, frmHeight, stride int) error {

	if err := h.checkComp(comp, false); err != nil {
		return err
	}
	b := bufs{b8: [3][]byte{buf}, str: [3]int{stride, stride, stride}}
	return h.accessFrame(name, ColorUnknown, frame, comp, true,
		b, ReadAll, Memory8Bit, width, frmHeight)
}

// ReadFieldComponent16 reads one field of a single component into a
// 16 bit buffer.
func ReadFieldComponent16(name string, h *Header, frame, field, comp int, buf []uint16,
	memFmt MemoryFormat, width, fldHeight, stride int) error {

	if err := h.checkComp(comp, true); err != nil {
		return err
	}
	b := bufs{b16: [3][]uint16{buf}, str: [3]int{stride, stride, stride}}
	return h.accessField(name, ColorUnknown, frame, field, comp, false,
		b, ReadAll, memFmt, width, fldHeight)
}

// ReadFrameComponent16 reads one frame of a single component into a
// 16 bit buffer.
func ReadFrameComponent16(name string, h *Header, frame, comp int, buf []uint16,
	memFmt MemoryFormat, width, frmHeight, stride int) error {

	if err := h.checkComp(comp, true); err != nil {
		return err
	}
	b := bufs{b16: [3][]uint16{buf}, str: [3]int{stride, stride, stride}}
	return h.accessFrame(name, ColorUnknown, frame, comp, false,
		b, ReadAll, memFmt, width, frmHeight)
}

// WriteFieldComponent16 writes one field of a single component from a
// 16 bit buffer.
func WriteFieldComponent16(name string, h *Header, frame, field, comp int, buf []uint16,
	memFmt MemoryFormat, width, fldHeight, stride int) error {

	if err := h.checkComp(comp, false); err != nil {
		return err
	}
	b := bufs{b16: [3][]uint16{buf}, str: [3]int{stride, stride, stride}}
	return h.accessField(name, ColorUnknown, frame, field, comp, true,
		b, ReadAll, memFmt, width, fldHeight)
}

// WriteFrameComponent16 writes one frame of a single component from a
// 16 bit buffer.
func WriteFrameComponent16(name string, h *Header, frame, comp int, buf []uint16,
	memFmt MemoryFormat, width, frmHeight, stride int) error {

	if err := h.checkComp(comp, false); err != nil {
		return err
	}
	b := bufs{b16: [3][]uint16{buf}, str: [3]int{stride, stride, stride}}
	return h.accessFrame(name, ColorUnknown, frame, comp, true,
		b, ReadAll, memFmt, width, frmHeight)
}
