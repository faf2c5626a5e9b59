// Package pfspd reads and writes Philips PFSPD video files.
//
// A pfspd file is a sequence of uncompressed images preceded by an ASCII
// header. Every image holds one field (interlaced material) or one frame
// (progressive material) and consists of one or more components such as
// luminance, multiplexed or planar chrominance, RGB or XYZ planes. Sample
// depths of 8 up to 16 bits per component are supported, as well as a
// 16 bit floating point format for wide gamut material.
//
// The package keeps a small pool of open files, so the caller passes a
// file name to every access function instead of a handle. The pseudo file
// name "-" reads from standard input or writes to standard output.
package pfspd

// Field widths of the global header record.
const (
	widthNrImages      = 7
	widthNrCompon      = 5
	widthNrFdRecs      = 5
	widthNrAuxDataRecs = 5
	widthApplType      = 25
	widthBytesRec      = 7
	widthEndian        = 1
	widthNrAuxHdrRecs  = 5

	globRecordLen = widthNrImages + widthNrCompon + widthNrFdRecs +
		widthNrAuxDataRecs + widthApplType + widthBytesRec +
		widthEndian + widthNrAuxHdrRecs
)

// Field widths of the global attribute record.
const (
	widthFreq      = 12
	widthActLines  = 6
	widthActPixel  = 6
	widthInterlace = 2
	widthHPPSize   = 5
	widthVPPSize   = 5

	attrRecordLen = 3*widthFreq + widthActLines + widthActPixel +
		widthInterlace + widthHPPSize + widthVPPSize
)

// Field widths of the per component records.
const (
	widthLinImage = 6
	widthPixLine  = 6
	widthDataFmt  = 4
	widthSbsmpl   = 2
	widthPhshft   = 2
	widthComCode  = 5

	compRecordLen     = widthLinImage + widthPixLine + widthDataFmt
	compAttrRecordLen = 3*widthSbsmpl + 3*widthPhshft + widthComCode
)

const (
	// MaxComponents is the highest number of components in a single file.
	MaxComponents = 128

	descriptionSize = 2048
	auxHeaderSize   = 16384

	numGlobRecs = 2 // global header + global attribute record
	numCompRecs = 2 // component header + component attribute record

	defaultBytesRec = 512
	minBytesRec     = 64

	videoApplType = "VIDEO"
)

// File data format codes as stored in the component records.
const (
	fmtCode8Bit  = "B*8 "
	fmtCode10Bit = "B*10"
	fmtCode12Bit = "B*12"
	fmtCode14Bit = "B*14"
	fmtCode16Bit = "I*2 "
	fmtCodeFloat = "R*2 "
)

// Component codes of the standard color formats, padded to the field
// width of the component attribute record.
const (
	codeLuma    = "Y    "
	codeChroma  = "U/V  "
	codeChromaU = "U    "
	codeChromaV = "V    "
	codeRed     = "R    "
	codeGreen   = "G    "
	codeBlue    = "B    "
	codeStream  = "S    "
	codePadding = "P    "
	codeXYZX    = "X    "
	codeXYZY    = "Y    "
	codeXYZZ    = "Z    "
	codeVoid    = "     "
)

// DataFormat identifies the sample format of a component in the file.
type DataFormat int

const (
	Data8Bit DataFormat = iota
	Data10Bit
	Data12Bit
	Data14Bit
	Data16Bit
	DataFloat // 16 bit floating point
	DataUnknown
)

// String returns the format code as stored in the file, without padding.
func (f DataFormat) String() string {
	switch f {
	case Data8Bit:
		return "B*8"
	case Data10Bit:
		return "B*10"
	case Data12Bit:
		return "B*12"
	case Data14Bit:
		return "B*14"
	case Data16Bit:
		return "I*2"
	case DataFloat:
		return "R*2"
	}
	return "unknown"
}

func (f DataFormat) fileCode() (string, bool) {
	switch f {
	case Data8Bit:
		return fmtCode8Bit, true
	case Data10Bit:
		return fmtCode10Bit, true
	case Data12Bit:
		return fmtCode12Bit, true
	case Data14Bit:
		return fmtCode14Bit, true
	case Data16Bit:
		return fmtCode16Bit, true
	case DataFloat:
		return fmtCodeFloat, true
	}
	return "", false
}

func dataFormatOf(code string) DataFormat {
	switch code {
	case fmtCode8Bit:
		return Data8Bit
	case fmtCode10Bit:
		return Data10Bit
	case fmtCode12Bit:
		return Data12Bit
	case fmtCode14Bit:
		return Data14Bit
	case fmtCode16Bit:
		return Data16Bit
	case fmtCodeFloat:
		return DataFloat
	}
	return DataUnknown
}

// component mirrors the two records that describe one image component.
// dataFmt and code hold the raw, space padded field contents.
type component struct {
	linImage  int
	pixLine   int
	dataFmt   string
	temSbsmpl int
	linSbsmpl int
	pixSbsmpl int
	temPhshft int
	linPhshft int
	pixPhshft int
	code      string
}

// size returns the number of bytes the component occupies per image.
func (c *component) size() int64 {
	el := int64(2)
	if c.dataFmt == fmtCode8Bit {
		el = 1
	}
	return el * int64(c.pixLine) * int64(c.linImage)
}

// Header describes a pfspd file. The zero value is not usable; obtain a
// Header from NewHeader, NewHeaderSized, NewHeaderFree or ReadHeader.
//
// A Header tracks whether it differs from what is on disk. Image access
// on a modified header fails with ErrHeaderModified until the header is
// written with WriteHeader or RewriteHeader.
type Header struct {
	nrImages      int
	nrCompon      int
	nrFdRecs      int
	nrAuxDataRecs int
	applType      string
	bytesRec      int
	littleEndian  bool
	nrAuxHdrRecs  int

	imaFreq float64
	linFreq float64
	pixFreq float64

	actLines  int
	actPixel  int
	interlace int
	hPPSize   int
	vPPSize   int

	description []byte // up to descriptionSize, NUL terminated
	auxHdrs     []byte // auxHeaderSize, chain of auxiliary headers

	comps []component

	modified      bool
	disableChecks bool
}

// sizeImage returns the byte size of one image: the auxiliary data
// records followed by all components.
func (h *Header) sizeImage() int64 {
	size := int64(h.nrAuxDataRecs) * int64(h.bytesRec)
	for i := range h.comps {
		size += h.comps[i].size()
	}
	return size
}

// sizeHeader returns the byte size of the file header.
func (h *Header) sizeHeader() int64 {
	recs := numGlobRecs + h.nrFdRecs + numCompRecs*h.nrCompon
	return int64(recs) * int64(h.bytesRec)
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() *Header {
	c := *h
	c.description = append([]byte(nil), h.description...)
	c.auxHdrs = append([]byte(nil), h.auxHdrs...)
	c.comps = append([]component(nil), h.comps...)
	return &c
}

// Modified reports whether the header differs from the file on disk.
func (h *Header) Modified() bool {
	return h.modified
}

// DisableChecks turns off validation of color format, component sizes
// and data formats. Only the generic pfspd file limits remain enforced.
// Needed for files with non-video component layouts.
func (h *Header) DisableChecks() {
	h.disableChecks = true
}

// newBareHeader builds the global part shared by all constructors.
func newBareHeader(imaFreq, linFreq, pixFreq float64, actLines, actPixel, interlace, hRatio, vRatio int) *Header {
	h := &Header{
		applType:      videoApplType,
		bytesRec:      defaultBytesRec,
		nrFdRecs:      (descriptionSize + defaultBytesRec - 1) / defaultBytesRec,
		nrAuxHdrRecs:  (auxHeaderSize + defaultBytesRec - 1) / defaultBytesRec,
		imaFreq:       imaFreq,
		linFreq:       linFreq,
		pixFreq:       pixFreq,
		actLines:      actLines,
		actPixel:      actPixel,
		interlace:     interlace,
		hPPSize:       hRatio,
		vPPSize:       vRatio,
		description:   make([]byte, descriptionSize),
		auxHdrs:       make([]byte, auxHeaderSize),
	}
	// nr_fd_recs counts both the description and the auxiliary headers.
	h.nrFdRecs += h.nrAuxHdrRecs
	copy(h.auxHdrs, auxSentinel)
	h.modified = true
	return h
}

// NewHeaderFree constructs a header from unrestricted frequency and size
// values. The components are the defaults of the given color format, in
// 8 bit file data format. Most callers want NewHeader or NewHeaderSized,
// which only produce standard video formats.
func NewHeaderFree(color ColorFormat, imaFreq, linFreq, pixFreq float64,
	actLines, actPixel, interlace, hRatio, vRatio int) (*Header, error) {

	tmpl := color.template()
	if tmpl == nil {
		return nil, ErrColorFormat
	}
	h := newBareHeader(imaFreq, linFreq, pixFreq, actLines, actPixel, interlace, hRatio, vRatio)
	for _, tc := range tmpl.comps {
		i := h.AddComponent()
		if err := h.SetComponent(i, tc.name, Data8Bit, tc.pixSub, tc.linSub, tc.multiplex); err != nil {
			return nil, err
		}
	}
	h.modified = true
	return h, nil
}
