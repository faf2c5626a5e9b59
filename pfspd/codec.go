package pfspd

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/leoparders/pfspd/internal/ascii"
	"github.com/leoparders/pfspd/internal/fio"
)

// hostLittleEndian reports the byte order of this machine, which
// determines the byte order of newly created files.
func hostLittleEndian() bool {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	return b[0] == 1
}

// padTo returns s padded with spaces to exactly width bytes.
func padTo(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s[:width]
}

// readHdr reads and decodes the file header. The caller validates.
func readHdr(name string) (*Header, error) {
	f, err := openFile(name, fio.ModeRead, 0)
	if err != nil {
		return nil, ErrOpenFailed
	}
	if err := seekTo(f, 0); err != nil {
		return nil, err
	}

	readRec := func(buf []byte) error {
		err := f.Read(buf)
		if err == nil {
			return nil
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrNotPfspd
		}
		return ErrReadFailed
	}

	buf := make([]byte, globRecordLen)
	if err := readRec(buf); err != nil {
		return nil, err
	}

	h := &Header{
		description: make([]byte, descriptionSize),
		auxHdrs:     make([]byte, auxHeaderSize),
	}
	copy(h.auxHdrs, auxSentinel)

	r := ascii.NewReader(buf)
	var endian byte
	parse := func() error {
		var err error
		get := func(v *int, width int) {
			if err == nil {
				*v, err = r.Int(width)
			}
		}
		get(&h.nrImages, widthNrImages)
		get(&h.nrCompon, widthNrCompon)
		get(&h.nrFdRecs, widthNrFdRecs)
		get(&h.nrAuxDataRecs, widthNrAuxDataRecs)
		if err == nil {
			h.applType, err = r.String(widthApplType)
		}
		get(&h.bytesRec, widthBytesRec)
		if err == nil {
			endian, err = r.Byte()
		}
		get(&h.nrAuxHdrRecs, widthNrAuxHdrRecs)
		return err
	}
	if parse() != nil {
		return nil, ErrNotPfspd
	}

	// Historically this character identified the machine type that
	// wrote the file; all that matters is its endian mode. Unknown
	// machine types read as big endian, matching old readers that
	// ignored the character entirely.
	switch endian {
	case 0, ' ', 'U', 'Q': // VAX and friends
		h.littleEndian = true
	default: // 'A' (Apollo, HP, SGI), 'S' (Sun), unknown
		h.littleEndian = false
	}

	if err := seekTo(f, int64(h.bytesRec)); err != nil {
		return nil, err
	}
	buf = make([]byte, attrRecordLen)
	if err := readRec(buf); err != nil {
		return nil, err
	}
	r = ascii.NewReader(buf)
	parseAttr := func() error {
		var err error
		getF := func(v *float64) {
			if err == nil {
				*v, err = r.Float(widthFreq)
			}
		}
		get := func(v *int, width int) {
			if err == nil {
				*v, err = r.Int(width)
			}
		}
		getF(&h.imaFreq)
		getF(&h.linFreq)
		getF(&h.pixFreq)
		get(&h.actLines, widthActLines)
		get(&h.actPixel, widthActPixel)
		get(&h.interlace, widthInterlace)
		get(&h.hPPSize, widthHPPSize)
		get(&h.vPPSize, widthVPPSize)
		return err
	}
	if parseAttr() != nil {
		return nil, ErrNotPfspd
	}

	if h.nrFdRecs > 0 {
		if err := seekTo(f, int64(numGlobRecs)*int64(h.bytesRec)); err != nil {
			return nil, err
		}
		amount := h.bytesRec * (h.nrFdRecs - h.nrAuxHdrRecs)
		if amount > descriptionSize {
			amount = descriptionSize
		}
		if amount > 0 {
			if err := readRec(h.description[:amount]); err != nil {
				return nil, err
			}
			h.description[descriptionSize-1] = 0
		}

		if h.nrAuxHdrRecs > 0 {
			off := int64(numGlobRecs+h.nrFdRecs-h.nrAuxHdrRecs) * int64(h.bytesRec)
			if err := seekTo(f, off); err != nil {
				return nil, err
			}
			amount = h.bytesRec * h.nrAuxHdrRecs
			if amount > auxHeaderSize {
				return nil, ErrAuxHeaderSize
			}
			if err := readRec(h.auxHdrs[:amount]); err != nil {
				return nil, err
			}
		}
	}

	if h.nrCompon > MaxComponents {
		return nil, ErrTooManyComponents
	}
	h.comps = make([]component, h.nrCompon)
	for i := range h.comps {
		c := &h.comps[i]
		off := int64(numGlobRecs+h.nrFdRecs+numCompRecs*i) * int64(h.bytesRec)
		if err := seekTo(f, off); err != nil {
			return nil, err
		}
		buf = make([]byte, compRecordLen)
		if err := readRec(buf); err != nil {
			return nil, err
		}
		r = ascii.NewReader(buf)
		var err error
		if c.linImage, err = r.Int(widthLinImage); err != nil {
			return nil, ErrNotPfspd
		}
		if c.pixLine, err = r.Int(widthPixLine); err != nil {
			return nil, ErrNotPfspd
		}
		if c.dataFmt, err = r.Padded(widthDataFmt); err != nil {
			return nil, ErrNotPfspd
		}

		if err := seekTo(f, off+int64(h.bytesRec)); err != nil {
			return nil, err
		}
		buf = make([]byte, compAttrRecordLen)
		if err := readRec(buf); err != nil {
			return nil, err
		}
		r = ascii.NewReader(buf)
		parseComp := func() error {
			var err error
			get := func(v *int) {
				if err == nil {
					*v, err = r.Int(widthSbsmpl)
				}
			}
			get(&c.temSbsmpl)
			get(&c.linSbsmpl)
			get(&c.pixSbsmpl)
			get(&c.temPhshft)
			get(&c.linPhshft)
			get(&c.pixPhshft)
			if err == nil {
				c.code, err = r.Padded(widthComCode)
			}
			return err
		}
		if parseComp() != nil {
			return nil, ErrNotPfspd
		}
	}

	setFileSizeInfo(f, h)
	return h, nil
}

// writeHdr encodes and writes the file header. With rewrite the file
// must exist and is updated in place, otherwise it is created and its
// full size is preallocated.
func writeHdr(name string, h *Header, rewrite bool) error {
	if h.bytesRec < minBytesRec {
		return ErrBytesPerRecord
	}
	if name == "-" && rewrite {
		return ErrRewriteStdout
	}

	mode := fio.ModeWrite
	var preallocate int64
	if rewrite {
		mode = fio.ModeUpdate
	} else {
		preallocate = h.sizeHeader() + int64(h.nrImages)*h.sizeImage()
	}
	f, err := openFile(name, mode, preallocate)
	if err != nil {
		if rewrite {
			return ErrModifyFailed
		}
		return ErrCreateFailed
	}
	if err := seekTo(f, 0); err != nil {
		return err
	}

	if !rewrite {
		// File endian mode follows the machine that creates the file.
		h.littleEndian = hostLittleEndian()
	}
	endian := "A"
	if h.littleEndian {
		endian = "U"
	}

	w := ascii.NewWriter(h.bytesRec)
	w.Int(widthNrImages, h.nrImages)
	w.Int(widthNrCompon, h.nrCompon)
	w.Int(widthNrFdRecs, h.nrFdRecs)
	w.Int(widthNrAuxDataRecs, h.nrAuxDataRecs)
	w.String(widthApplType, h.applType)
	w.Int(widthBytesRec, h.bytesRec)
	w.String(widthEndian, endian)
	if err := w.Int(widthNrAuxHdrRecs, h.nrAuxHdrRecs); err != nil {
		return ErrWriteFailed
	}
	if err := writeData(f, w.Bytes()); err != nil {
		return err
	}

	w = ascii.NewWriter(h.bytesRec)
	w.Float(widthFreq, h.imaFreq)
	w.Float(widthFreq, h.linFreq)
	w.Float(widthFreq, h.pixFreq)
	w.Int(widthActLines, h.actLines)
	w.Int(widthActPixel, h.actPixel)
	w.Int(widthInterlace, h.interlace)
	w.Int(widthHPPSize, h.hPPSize)
	if err := w.Int(widthVPPSize, h.vPPSize); err != nil {
		return ErrWriteFailed
	}
	if err := writeData(f, w.Bytes()); err != nil {
		return err
	}

	if h.nrFdRecs > 0 {
		amount := h.bytesRec * (h.nrFdRecs - h.nrAuxHdrRecs)
		if amount > descriptionSize {
			amount = descriptionSize
		}
		if amount > 0 {
			if err := writeData(f, h.description[:amount]); err != nil {
				return err
			}
		}
		off := int64(numGlobRecs+h.nrFdRecs-h.nrAuxHdrRecs) * int64(h.bytesRec)
		if err := seekTo(f, off); err != nil {
			return err
		}

		if h.nrAuxHdrRecs > 0 {
			amount = h.bytesRec * h.nrAuxHdrRecs
			if amount > auxHeaderSize {
				amount = auxHeaderSize
			}
			if err := writeData(f, h.auxHdrs[:amount]); err != nil {
				return err
			}
			off = int64(numGlobRecs+h.nrFdRecs) * int64(h.bytesRec)
			if err := seekTo(f, off); err != nil {
				return err
			}
		}
	}

	for i := range h.comps {
		c := &h.comps[i]
		w = ascii.NewWriter(h.bytesRec)
		w.Int(widthLinImage, c.linImage)
		w.Int(widthPixLine, c.pixLine)
		if err := w.String(widthDataFmt, c.dataFmt); err != nil {
			return ErrWriteFailed
		}
		if err := writeData(f, w.Bytes()); err != nil {
			return err
		}

		w = ascii.NewWriter(h.bytesRec)
		w.Int(widthSbsmpl, c.temSbsmpl)
		w.Int(widthSbsmpl, c.linSbsmpl)
		w.Int(widthSbsmpl, c.pixSbsmpl)
		w.Int(widthPhshft, c.temPhshft)
		w.Int(widthPhshft, c.linPhshft)
		w.Int(widthPhshft, c.pixPhshft)
		if err := w.String(widthComCode, c.code); err != nil {
			return ErrWriteFailed
		}
		if err := writeData(f, w.Bytes()); err != nil {
			return err
		}
	}

	setFileSizeInfo(f, h)
	return nil
}

// ReadHeader reads and validates the header of the named file.
func ReadHeader(name string) (*Header, error) {
	h, err := readHdr(name)
	if err != nil {
		return nil, err
	}
	err = h.Validate()
	h.modified = false
	return h, err
}

// WriteHeader validates the header and writes it to the named file,
// creating or overwriting the file. The full file size is preallocated
// so later image writes cannot run out of disk space halfway.
func WriteHeader(name string, h *Header) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if !h.disableChecks {
		// Reserve space for a full description and auxiliary header
		// blob even when the current header needs less, so both can
		// grow later via RewriteHeader.
		minAuxRecs := auxHeaderSize / h.bytesRec
		minFdRecs := descriptionSize / h.bytesRec
		if h.nrAuxHdrRecs < minAuxRecs {
			h.nrAuxHdrRecs = minAuxRecs
		}
		if h.nrFdRecs < h.nrAuxHdrRecs+minFdRecs {
			h.nrFdRecs = h.nrAuxHdrRecs + minFdRecs
		}
	}
	err := writeHdr(name, h, false)
	h.modified = false
	return err
}

// RewriteHeader updates the header of an existing file in place. Only
// fields that do not change the layout of the image data may differ
// from what is in the file: the application type, the frequencies, the
// aspect ratio, subsample and phase attributes, component codes, the
// description and auxiliary names. Anything else fails with
// ErrRewriteHeader.
func RewriteHeader(name string, h *Header) error {
	if err := h.Validate(); err != nil {
		return err
	}
	old, err := readHdr(name)
	if err != nil {
		return err
	}
	if err := rewriteCompatible(old, h); err != nil {
		return err
	}
	err = writeHdr(name, h, true)
	h.modified = false
	return err
}

// rewriteCompatible checks that a new header describes the same data
// layout as the header on disk.
func rewriteCompatible(old, h *Header) error {
	if old.nrImages != h.nrImages ||
		old.nrCompon != h.nrCompon ||
		old.nrFdRecs != h.nrFdRecs ||
		old.nrAuxDataRecs != h.nrAuxDataRecs ||
		old.bytesRec != h.bytesRec ||
		old.littleEndian != h.littleEndian ||
		old.nrAuxHdrRecs != h.nrAuxHdrRecs ||
		old.interlace != h.interlace ||
		old.actLines*old.actPixel != h.actLines*h.actPixel {
		return ErrRewriteHeader
	}
	for i := 0; i < h.nrCompon; i++ {
		oc, nc := &old.comps[i], &h.comps[i]
		if oc.linImage*oc.pixLine != nc.linImage*nc.pixLine ||
			oc.dataFmt != nc.dataFmt {
			return ErrRewriteHeader
		}
	}

	// A description needs description records in the file.
	if h.nrFdRecs == 0 {
		for _, b := range h.description {
			if b != 0 {
				return ErrDescriptionSize
			}
		}
	}

	// Auxiliary headers carrying data must match pairwise in order and
	// size; data-less auxiliaries may be added or removed freely.
	oldIDs := dataAuxIDs(old)
	newIDs := dataAuxIDs(h)
	if len(oldIDs) != len(newIDs) {
		return ErrRewriteHeader
	}
	for i := range oldIDs {
		oldSize, _, _ := old.Aux(oldIDs[i])
		newSize, _, _ := h.Aux(newIDs[i])
		if oldSize != newSize {
			return ErrRewriteHeader
		}
	}
	return nil
}

// dataAuxIDs lists the auxiliary headers that carry per-image data.
func dataAuxIDs(h *Header) []int {
	var ids []int
	for id := 0; id < h.NumAux(); id++ {
		if size, _, err := h.Aux(id); err == nil && size > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
