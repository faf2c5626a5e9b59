package pfspd

import (
	"fmt"
	"io"
)

// Print writes a human readable dump of the header, for diagnostics.
func (h *Header) Print(w io.Writer) error {
	endian := 0
	if h.littleEndian {
		endian = 1
	}
	fmt.Fprintf(w, "GLOBAL\n")
	fmt.Fprintf(w, "number of images                     : %d\n", h.nrImages)
	fmt.Fprintf(w, "number of components                 : %d\n", h.nrCompon)
	fmt.Fprintf(w, "number of file description records   : %d\n", h.nrFdRecs)
	fmt.Fprintf(w, "number of auxiliary data records     : %d\n", h.nrAuxDataRecs)
	fmt.Fprintf(w, "application type                     : %s\n", h.applType)
	fmt.Fprintf(w, "bytes per record                     : %d\n", h.bytesRec)
	fmt.Fprintf(w, "little endian                        : %d\n", endian)
	fmt.Fprintf(w, "number of auxiliary header records   : %d\n", h.nrAuxHdrRecs)
	fmt.Fprintf(w, "image frequency                      : %f\n", h.imaFreq)
	fmt.Fprintf(w, "line frequency                       : %f\n", h.linFreq)
	fmt.Fprintf(w, "pixel frequency                      : %f\n", h.pixFreq)
	fmt.Fprintf(w, "active lines                         : %d\n", h.actLines)
	fmt.Fprintf(w, "active pixels                        : %d\n", h.actPixel)
	fmt.Fprintf(w, "interlace factor                     : %d\n", h.interlace)
	fmt.Fprintf(w, "horizontal proportional picture size : %d\n", h.hPPSize)
	fmt.Fprintf(w, "vertical proportional picture size   : %d\n", h.vPPSize)
	if h.nrCompon > MaxComponents {
		return ErrTooManyComponents
	}
	for i := 0; i < h.nrCompon; i++ {
		c := &h.comps[i]
		fmt.Fprintf(w, "COMPONENT %d\n", i)
		fmt.Fprintf(w, "lines per image      : %d\n", c.linImage)
		fmt.Fprintf(w, "pixels per line      : %d\n", c.pixLine)
		fmt.Fprintf(w, "data format          : %s\n", c.dataFmt)
		fmt.Fprintf(w, "temporal subsampling : %d\n", c.temSbsmpl)
		fmt.Fprintf(w, "line subsampling     : %d\n", c.linSbsmpl)
		fmt.Fprintf(w, "pixel subsampling    : %d\n", c.pixSbsmpl)
		fmt.Fprintf(w, "temporal phase shift : %d\n", c.temPhshft)
		fmt.Fprintf(w, "line phase shift     : %d\n", c.linPhshft)
		fmt.Fprintf(w, "pixel phase shift    : %d\n", c.pixPhshft)
		fmt.Fprintf(w, "component code       : %s\n", c.code)
	}
	return nil
}
