package pfspd

import (
	"errors"
	"fmt"
	"os"
)

// Fatal prints the error to standard error and exits. Command line
// tools use it for errors they cannot recover from; the library itself
// never terminates the process.
func Fatal(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

// File level errors.
var (
	ErrNotPfspd      = errors.New("pfspd: file is not a pfspd file")
	ErrOpenFailed    = errors.New("pfspd: file open failed")
	ErrCreateFailed  = errors.New("pfspd: file create failed")
	ErrModifyFailed  = errors.New("pfspd: file modify failed")
	ErrWriteFailed   = errors.New("pfspd: write failed")
	ErrReadFailed    = errors.New("pfspd: read failed")
	ErrSeekFailed    = errors.New("pfspd: seek failed")
	ErrNegativeSeek  = errors.New("pfspd: negative seek on stdio cannot be performed")
	ErrRewriteStdout = errors.New("pfspd: no rewrite on stdout possible")
	ErrRewriteHeader = errors.New("pfspd: rewrite header that is inconsistent with data in file")
)

// Header structure errors.
var (
	ErrTooManyImages     = errors.New("pfspd: too many images")
	ErrTooManyComponents = errors.New("pfspd: too many components")
	ErrInvalidComponent  = errors.New("pfspd: invalid component")
	ErrInvalidAuxiliary  = errors.New("pfspd: invalid auxiliary ID")
	ErrBytesPerRecord    = errors.New("pfspd: illegal number of bytes per record")
	ErrDescriptionSize   = errors.New("pfspd: file description exceeds maximum size")
	ErrNoDescriptionRecs = errors.New("pfspd: no image header description records allowed")
	ErrAuxDataSize       = errors.New("pfspd: auxiliary data exceeds maximum size")
	ErrAuxHeaderSize     = errors.New("pfspd: auxiliary header exceeds maximum size")
	ErrHeaderModified    = errors.New("pfspd: header in memory is modified or not yet written to disk")
)

// Header validation errors.
var (
	ErrTemporalSubsampling = errors.New("pfspd: illegal temporal subsampling")
	ErrLineSubsampling     = errors.New("pfspd: illegal line subsampling")
	ErrPixelSubsampling    = errors.New("pfspd: illegal pixel subsampling")
	ErrSubsampleFactor     = errors.New("pfspd: image size is not a multiple of subsample factor")
	ErrPhaseShift          = errors.New("pfspd: illegal phase shift")
	ErrLumaSize            = errors.New("pfspd: wrong luminance component size")
	ErrChromaSize          = errors.New("pfspd: wrong chrominance component size")
	ErrRGBSize             = errors.New("pfspd: wrong RGB component size")
	ErrXYZSize             = errors.New("pfspd: wrong XYZ component size")
	ErrStreamSize          = errors.New("pfspd: wrong streaming (S) component size")
	ErrExtraComponentSize  = errors.New("pfspd: wrong extra component size")
	ErrComponentSize       = errors.New("pfspd: illegal component size")
	ErrImageSize           = errors.New("pfspd: illegal image size")
	ErrInterlace           = errors.New("pfspd: illegal interlace value")
	ErrColorFormat         = errors.New("pfspd: illegal file or color format")
	ErrAspectRatio         = errors.New("pfspd: illegal aspect ratio")
	ErrFileDataFormat      = errors.New("pfspd: illegal file data format")
	ErrDataFormatsDiffer   = errors.New("pfspd: not all file data formats of individual components are equal")
	ErrMemoryDataFormat    = errors.New("pfspd: illegal memory data format")
)

// Format combination errors.
var (
	ErrImageFrequency      = errors.New("pfspd: illegal image frequency")
	ErrFrequencyChange     = errors.New("pfspd: illegal image frequency modification")
	ErrAllFrequencyChange  = errors.New("pfspd: illegal image, line, or pixel frequency modification")
	ErrPixelsPerLine       = errors.New("pfspd: illegal number of pixels per line")
	ErrSizeWithFrequency   = errors.New("pfspd: illegal combination of image size and image frequency")
	ErrSizeWithInterlaced  = errors.New("pfspd: illegal combination of image size and interlaced mode")
	ErrSizeWithProgressive = errors.New("pfspd: illegal combination of image size and progressive mode")
	ErrFormatWithInterlace = errors.New("pfspd: illegal combination of format specifier and interlaced mode")
)

// Image access errors.
var (
	ErrShouldBeInterlaced       = errors.New("pfspd: format should be interlaced")
	ErrChromaFromLumaOnly       = errors.New("pfspd: read chrominance (U,V) from luminance only file")
	ErrRGBFromLumaOnly          = errors.New("pfspd: read R,G,B from luminance only file")
	ErrPlanarChromaFromMuxed    = errors.New("pfspd: read planar chrominance (U,V) from multiplexed chrominance (U,V) file")
	ErrRGBFromYUV               = errors.New("pfspd: read R,G,B from Y,U,V file")
	ErrChromaFromRGB            = errors.New("pfspd: read chrominance (U,V) from R,G,B file")
	ErrChromaFromStream         = errors.New("pfspd: read chrominance (U,V) from stream (S) file")
	ErrRGBFromStream            = errors.New("pfspd: read R,G,B from stream (S) file")
	ErrReadInvalidComponent     = errors.New("pfspd: read invalid component number")
	ErrWriteInvalidComponent    = errors.New("pfspd: write invalid component number")
	ErrMultiplexedColorFormat   = errors.New("pfspd: incompatible color format on frame or field access")
	ErrPlanarColorFormat        = errors.New("pfspd: incompatible color format on planar frame or field access")
	ErrWriteBeyondImagesStdout  = errors.New("pfspd: write beyond number of specified images on stdout")
	ErrFloatConversion          = errors.New("pfspd: this machine does not conform to IEEE 754 float format")
)
