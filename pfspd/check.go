package pfspd

// ColorFormat identifies the component layout of a file.
type ColorFormat int

const (
	ColorNone       ColorFormat = iota // luminance only
	Color422                           // YUV 4:2:2, multiplexed UV
	Color420                           // YUV 4:2:0, multiplexed UV
	Color444Planar                     // YUV 4:4:4, separate U and V planes
	Color422Planar                     // YUV 4:2:2, separate U and V planes
	Color420Planar                     // YUV 4:2:0, separate U and V planes
	ColorRGB                           // separate R, G and B planes
	ColorXYZ                           // separate X, Y and Z planes
	ColorStream                        // single stream component (CVBS)
	ColorUnknown
)

func (c ColorFormat) String() string {
	switch c {
	case ColorNone:
		return "no color"
	case Color422:
		return "4:2:2"
	case Color420:
		return "4:2:0"
	case Color444Planar:
		return "4:4:4 planar"
	case Color422Planar:
		return "4:2:2 planar"
	case Color420Planar:
		return "4:2:0 planar"
	case ColorRGB:
		return "RGB"
	case ColorXYZ:
		return "XYZ"
	case ColorStream:
		return "stream"
	}
	return "unknown"
}

// numColorComps returns the number of components the format defines.
// Extra components beyond this count are application specific.
func (c ColorFormat) numColorComps() int {
	switch c {
	case ColorNone, ColorStream:
		return 1
	case Color422, Color420:
		return 2
	case Color444Planar, Color422Planar, Color420Planar, ColorRGB, ColorXYZ:
		return 3
	}
	return 0
}

// templateComp describes one component of a standard color format.
type templateComp struct {
	name      string
	pixSub    int
	linSub    int
	multiplex int
}

type colorTemplate struct {
	format ColorFormat
	comps  []templateComp
}

// colorTemplates lists the standard color formats. Format detection
// walks the list front to back and keeps the last matching entry, so
// more specific layouts must come later than the layouts they extend.
var colorTemplates = []colorTemplate{
	{ColorNone, []templateComp{
		{codeLuma, 1, 1, 1}}},
	{Color422, []templateComp{
		{codeLuma, 1, 1, 1},
		{codeChroma, 2, 1, 2}}},
	{Color420, []templateComp{
		{codeLuma, 1, 1, 1},
		{codeChroma, 2, 2, 2}}},
	{Color444Planar, []templateComp{
		{codeLuma, 1, 1, 1},
		{codeChromaU, 1, 1, 1},
		{codeChromaV, 1, 1, 1}}},
	{Color422Planar, []templateComp{
		{codeLuma, 1, 1, 1},
		{codeChromaU, 2, 1, 1},
		{codeChromaV, 2, 1, 1}}},
	{Color420Planar, []templateComp{
		{codeLuma, 1, 1, 1},
		{codeChromaU, 2, 2, 1},
		{codeChromaV, 2, 2, 1}}},
	{ColorRGB, []templateComp{
		{codeRed, 1, 1, 1},
		{codeGreen, 1, 1, 1},
		{codeBlue, 1, 1, 1}}},
	{ColorXYZ, []templateComp{
		{codeXYZX, 1, 1, 1},
		{codeXYZY, 1, 1, 1},
		{codeXYZZ, 1, 1, 1}}},
	{ColorStream, []templateComp{
		{codeStream, 1, 1, 1}}},
}

func (c ColorFormat) template() *colorTemplate {
	for i := range colorTemplates {
		if colorTemplates[i].format == c {
			return &colorTemplates[i]
		}
	}
	return nil
}

// checkColorFormat matches the components against the standard color
// formats. The last matching template wins.
func (h *Header) checkColorFormat() (ColorFormat, error) {
	format := ColorUnknown
	for f := range colorTemplates {
		tmpl := &colorTemplates[f]
		if h.nrCompon < len(tmpl.comps) {
			continue
		}
		match := 0
		for i, tc := range tmpl.comps {
			c := &h.comps[i]
			if c.code == tc.name &&
				c.pixSbsmpl == tc.pixSub &&
				c.linSbsmpl == tc.linSub &&
				c.pixLine*c.pixSbsmpl == h.actPixel*tc.multiplex {
				match++
			}
		}
		if match == len(tmpl.comps) {
			format = tmpl.format
		}
	}
	if format == ColorUnknown {
		return format, ErrColorFormat
	}
	return format, nil
}

const maxTwoDigit = 99

func maxDecimal(width int) int {
	n := 1
	for i := 0; i < width; i++ {
		n *= 10
	}
	return n - 1
}

// checkBasic verifies the generic pfspd file limits that hold for any
// component layout, even with checks disabled.
func (h *Header) checkBasic() error {
	var err error
	if h.nrImages < 0 || h.nrImages > maxDecimal(widthNrImages) {
		err = ErrTooManyImages
	}
	if h.nrCompon < 0 || h.nrCompon > MaxComponents {
		err = ErrTooManyComponents
	}
	if h.nrAuxHdrRecs*h.bytesRec > auxHeaderSize {
		err = ErrAuxHeaderSize
	}
	if h.actLines < 0 || h.actLines > maxDecimal(widthActLines) {
		err = ErrImageSize
	}
	if h.actPixel < 0 || h.actPixel > maxDecimal(widthActPixel) {
		err = ErrImageSize
	}
	if h.interlace < 0 || h.interlace > 2 {
		err = ErrInterlace
	}
	for i := 0; err == nil && i < h.nrCompon; i++ {
		c := &h.comps[i]
		switch {
		case c.linImage < 0 || c.linImage > maxDecimal(widthLinImage):
			err = ErrComponentSize
		case c.pixLine < 0 || c.pixLine > maxDecimal(widthPixLine):
			err = ErrComponentSize
		case c.temSbsmpl != 1:
			err = ErrTemporalSubsampling
		case c.linSbsmpl < 0 || c.linSbsmpl > maxTwoDigit:
			err = ErrLineSubsampling
		case c.pixSbsmpl < 0 || c.pixSbsmpl > maxTwoDigit:
			err = ErrPixelSubsampling
		case c.temPhshft < 0 || c.temPhshft > maxTwoDigit,
			c.linPhshft < 0 || c.linPhshft > maxTwoDigit,
			c.pixPhshft < 0 || c.pixPhshft > maxTwoDigit:
			err = ErrPhaseShift
		}
	}
	return err
}

// checkComponentSizes verifies that the component dimensions are
// consistent with the image size and the detected color format.
func (h *Header) checkComponentSizes(format ColorFormat) error {
	sizeOK := func(i int) bool {
		return h.comps[i].pixLine == h.actPixel &&
			h.comps[i].linImage*h.interlace == h.actLines
	}

	switch format {
	case ColorNone, Color422, Color420, Color444Planar, Color422Planar, Color420Planar:
		if !sizeOK(0) {
			return ErrLumaSize
		}
	case ColorStream:
		if !sizeOK(0) {
			return ErrStreamSize
		}
	case ColorRGB:
		if !sizeOK(0) || !sizeOK(1) || !sizeOK(2) {
			return ErrRGBSize
		}
	case ColorXYZ:
		if !sizeOK(0) || !sizeOK(1) || !sizeOK(2) {
			return ErrXYZSize
		}
	default:
		return ErrColorFormat
	}

	chromaOK := func(i, mplex int) bool {
		c := &h.comps[i]
		return c.pixLine*c.pixSbsmpl == h.actPixel*mplex &&
			c.linImage*c.linSbsmpl*h.interlace == h.actLines
	}
	switch format {
	case Color422, Color420:
		if !chromaOK(1, 2) {
			return ErrChromaSize
		}
	case Color444Planar, Color422Planar, Color420Planar:
		if !chromaOK(1, 1) || !chromaOK(2, 1) {
			return ErrChromaSize
		}
	}

	// Extra components beyond the color format. The horizontal size may
	// be a multiple of act_pixel due to multiplexing; padding components
	// are free form.
	for i := format.numColorComps(); i < h.nrCompon; i++ {
		c := &h.comps[i]
		if c.code == codePadding {
			continue
		}
		multiplex := 0
		if h.actPixel > 0 {
			multiplex = c.pixLine * c.pixSbsmpl / h.actPixel
		}
		if !chromaOK(i, multiplex) {
			return ErrExtraComponentSize
		}
	}
	return nil
}

// checkFileDataFormat verifies that the components of the color format
// share a single known data format.
func (h *Header) checkFileDataFormat(format ColorFormat) (DataFormat, error) {
	first := DataUnknown
	var err error
	for i := 0; i < format.numColorComps(); i++ {
		fmt := dataFormatOf(h.comps[i].dataFmt)
		if i == 0 {
			first = fmt
		} else if fmt != first {
			err = ErrDataFormatsDiffer
		}
	}
	if first == DataUnknown ||
		(!h.disableChecks && first == DataFloat && format != ColorRGB && format != ColorXYZ) {
		err = ErrFileDataFormat
	}
	return first, err
}

// Validate checks the header for consistency. The generic pfspd limits
// are always enforced; the color format, component size and data format
// checks can be turned off with DisableChecks.
func (h *Header) Validate() error {
	if err := h.checkBasic(); err != nil {
		return err
	}
	if h.disableChecks {
		return nil
	}
	format, err := h.checkColorFormat()
	if err != nil {
		return err
	}
	if err := h.checkComponentSizes(format); err != nil {
		return err
	}
	if _, err := h.checkFileDataFormat(format); err != nil {
		return err
	}
	return nil
}

// checkAccess is the common gate for image data access: the header must
// match the file on disk and pass validation.
func (h *Header) checkAccess() error {
	if h.modified {
		return ErrHeaderModified
	}
	return h.Validate()
}
