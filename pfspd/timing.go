package pfspd

// Standard image frequencies. The broadcast 60 Hz family runs at the
// NTSC rate of 59.94 Hz; the Real variants run at exactly 60 Hz.
const (
	stdFreq50Hz     = 50.0
	stdFreq60Hz     = 59.94
	stdFreqReal60Hz = 60.0
)

// Frequency identifies a standard image frequency.
type Frequency int

const (
	FreqUnknown Frequency = iota
	Freq50
	Freq60 // 59.94 Hz
	FreqReal60
	Freq75
	Freq90 // 89.91 Hz
	FreqReal90
	Freq100
	Freq120 // 119.88 Hz
	FreqReal120
	Freq25
	Freq24 // 23.976 Hz
	FreqReal24
	Freq30 // 29.97 Hz
	FreqReal30
)

func (f Frequency) String() string {
	switch f {
	case Freq50:
		return "50 Hz"
	case Freq60:
		return "59.94 Hz"
	case FreqReal60:
		return "60 Hz"
	case Freq75:
		return "75 Hz"
	case Freq90:
		return "89.91 Hz"
	case FreqReal90:
		return "90 Hz"
	case Freq100:
		return "100 Hz"
	case Freq120:
		return "119.88 Hz"
	case FreqReal120:
		return "120 Hz"
	case Freq25:
		return "25 Hz"
	case Freq24:
		return "23.976 Hz"
	case FreqReal24:
		return "24 Hz"
	case Freq30:
		return "29.97 Hz"
	case FreqReal30:
		return "30 Hz"
	}
	return "unknown"
}

// centiHertz rounds a frequency to an integer number of 0.01 Hz so
// frequencies can be compared without floating point surprises.
func centiHertz(f float64) int {
	return int(100.0*f + 0.5)
}

// classifyFrequency maps an image frequency in Hz onto the standard
// frequencies, including the 1.5x and 2x scan rate conversions.
func classifyFrequency(imaFreq float64) Frequency {
	switch centiHertz(imaFreq) {
	case centiHertz(0.4 * stdFreq60Hz):
		return Freq24
	case centiHertz(0.4 * stdFreqReal60Hz):
		return FreqReal24
	case centiHertz(0.5 * stdFreq50Hz):
		return Freq25
	case centiHertz(0.5 * stdFreq60Hz):
		return Freq30
	case centiHertz(0.5 * stdFreqReal60Hz):
		return FreqReal30
	case centiHertz(stdFreq50Hz):
		return Freq50
	case centiHertz(stdFreq60Hz):
		return Freq60
	case centiHertz(stdFreqReal60Hz):
		return FreqReal60
	case centiHertz(1.5 * stdFreq50Hz):
		return Freq75
	case centiHertz(1.5 * stdFreq60Hz):
		return Freq90
	case centiHertz(1.5 * stdFreqReal60Hz):
		return FreqReal90
	case centiHertz(2.0 * stdFreq50Hz):
		return Freq100
	case centiHertz(2.0 * stdFreq60Hz):
		return Freq120
	case centiHertz(2.0 * stdFreqReal60Hz):
		return FreqReal120
	}
	return FreqUnknown
}

// is50HzClass reports whether the frequency belongs to the 625 line
// system.
func (f Frequency) is50HzClass() bool {
	return f == Freq50 || f == Freq25
}

// isBroadcast60 reports whether the frequency is a 59.94 Hz family
// member, as opposed to the Real 60 Hz family.
func (f Frequency) isBroadcast60() bool {
	return f == Freq60 || f == Freq24 || f == Freq30
}

// ImageSize identifies a standard image size.
type ImageSize int

const (
	SizeSD ImageSize = iota
	SizeCIF
	SizeQCIF
	SizeHDp // 720 lines progressive
	SizeHDi // 1080/1152 lines interlaced
	SizeUnknown
)

func (s ImageSize) String() string {
	switch s {
	case SizeSD:
		return "SD"
	case SizeCIF:
		return "CIF"
	case SizeQCIF:
		return "QCIF"
	case SizeHDp:
		return "HDp"
	case SizeHDi:
		return "HDi"
	}
	return "unknown"
}

// AspectRatio identifies the display aspect ratio of a file.
type AspectRatio int

const (
	// AspectAuto picks 16:9 or 4:3 from the image size when creating a
	// header, and is reported for files with a non-standard ratio.
	AspectAuto AspectRatio = iota
	Aspect4x3
	Aspect16x9
	// AspectSquarePixel stores the reduced width:height of the image,
	// which makes the pixels square.
	AspectSquarePixel
)

func (r AspectRatio) String() string {
	switch r {
	case Aspect4x3:
		return "4:3"
	case Aspect16x9:
		return "16:9"
	case AspectSquarePixel:
		return "square pixel"
	}
	return "unknown"
}

// gcd of positive numbers; anything else yields 1.
func gcd(x, y int) int {
	if x <= 0 || y <= 0 {
		return 1
	}
	for x*y != 0 {
		if x > y {
			x = x % y
		} else {
			y = y % x
		}
	}
	return x + y
}

// headerTiming holds the resolved global timing values of a header
// under construction.
type headerTiming struct {
	imaFreq   float64
	linFreq   float64
	pixFreq   float64
	actLines  int
	actPixel  int
	interlace int
	hRatio    int
	vRatio    int
}

func (t *headerTiming) setAspect(ratio AspectRatio) error {
	switch ratio {
	case Aspect4x3:
		t.hRatio, t.vRatio = 4, 3
	case Aspect16x9:
		t.hRatio, t.vRatio = 16, 9
	case AspectSquarePixel:
		div := gcd(t.actPixel, t.actLines)
		t.hRatio = t.actPixel / div
		t.vRatio = t.actLines / div
	default:
		return ErrAspectRatio
	}
	return nil
}

// resolveTiming fills in the standard frequencies and dimensions of a
// video format. The line and pixel frequency tables hold interlaced
// rates; progressive formats run them at twice the rate. Film mode
// frequencies (24, 25, 30 Hz and their Real variants) leave the line
// and pixel frequency at zero since there is no matching transmission
// format.
func resolveTiming(freq Frequency, size ImageSize, pixelsPerLine int,
	progressive bool, ratio AspectRatio) (headerTiming, error) {

	var t headerTiming

	switch freq {
	case Freq50:
		t.imaFreq = stdFreq50Hz
	case Freq25:
		t.imaFreq = stdFreq50Hz / 2.0
	case Freq60:
		t.imaFreq = stdFreq60Hz
	case Freq24:
		t.imaFreq = stdFreq60Hz / 2.5
	case Freq30:
		t.imaFreq = stdFreq60Hz / 2.0
	case FreqReal60:
		t.imaFreq = stdFreqReal60Hz
	case FreqReal24:
		t.imaFreq = stdFreqReal60Hz / 2.5
	case FreqReal30:
		t.imaFreq = stdFreqReal60Hz / 2.0
	default:
		return t, ErrImageFrequency
	}

	if freq.is50HzClass() {
		switch size {
		case SizeQCIF:
			t.linFreq, t.actLines = 15.625, 144
		case SizeCIF:
			t.linFreq, t.actLines = 15.625, 288
		case SizeSD:
			t.linFreq, t.actLines = 15.625, 576
		case SizeHDi:
			t.linFreq, t.actLines = 31.25, 1152 // 1250 total lines
		default:
			return t, ErrImageSize
		}
	} else {
		broadcast := freq.isBroadcast60()
		switch size {
		case SizeQCIF, SizeCIF, SizeSD:
			if broadcast {
				t.linFreq = 15.734264 // ITU-R BT.470-6
			} else {
				t.linFreq = 15.75 // 60 x 525 / 2
			}
		case SizeHDp:
			if broadcast {
				t.linFreq = 22.4775 // 59.94 x 750 / 2, ATSC A/54
			} else {
				t.linFreq = 22.5
			}
		case SizeHDi:
			if broadcast {
				t.linFreq = 33.71625 // 59.94 x 1125 / 2, ATSC A/54
			} else {
				t.linFreq = 33.75
			}
		default:
			return t, ErrImageSize
		}
		switch size {
		case SizeQCIF:
			t.actLines = 120
		case SizeCIF:
			t.actLines = 240
		case SizeSD:
			t.actLines = 480
		case SizeHDp:
			t.actLines = 720
		case SizeHDi:
			t.actLines = 1080
		}
	}

	pix := func(table map[int]float64, def int) error {
		n := pixelsPerLine
		if n == 0 {
			n = def
		}
		f, ok := table[n]
		if !ok {
			return ErrPixelsPerLine
		}
		t.pixFreq, t.actPixel = f, n
		return nil
	}
	var err error
	switch size {
	case SizeQCIF:
		err = pix(map[int]float64{176: 13.5, 180: 13.5}, 176)
	case SizeCIF:
		err = pix(map[int]float64{352: 13.5, 360: 13.5}, 352)
	case SizeSD:
		err = pix(map[int]float64{
			512: 9.6, 640: 12.0, 704: 13.5, 720: 13.5, 848: 16.0,
			960: 18.0, 1024: 19.2, 1280: 24.0, 1440: 27.0,
		}, 720)
	case SizeHDp:
		err = pix(map[int]float64{
			960: 27.84375, 1024: 29.7, 1280: 37.125,
			1440: 41.765625, 1920: 55.6875,
		}, 1280)
	case SizeHDi:
		if freq.is50HzClass() {
			err = pix(map[int]float64{
				960: 36.0, 1024: 38.4, 1280: 48.0, 1440: 54.0, 1920: 72.0,
			}, 1440)
		} else {
			err = pix(map[int]float64{
				960: 37.125, 1024: 39.6, 1280: 49.5, 1440: 55.6875, 1920: 74.25,
			}, 1920)
		}
	}
	if err != nil {
		return t, err
	}

	switch freq {
	case Freq25, Freq24, Freq30, FreqReal24, FreqReal30:
		t.linFreq, t.pixFreq = 0.0, 0.0
	}

	if progressive {
		t.interlace = 1
		t.linFreq *= 2.0
		t.pixFreq *= 2.0
	} else {
		t.interlace = 2
	}

	if ratio == AspectAuto {
		switch size {
		case SizeSD:
			ratio = autoRatio(pixelsPerLine > 720)
		case SizeCIF:
			ratio = autoRatio(pixelsPerLine > 352)
		case SizeQCIF:
			ratio = autoRatio(pixelsPerLine > 176)
		case SizeHDp, SizeHDi:
			ratio = Aspect16x9
		}
	}
	return t, t.setAspect(ratio)
}

func autoRatio(wide bool) AspectRatio {
	if wide {
		return Aspect16x9
	}
	return Aspect4x3
}

// resolveStreamTiming is the stream format variant of resolveTiming.
// Stream files store complete video lines including blanking, so the
// line counts are the full 625 or 525 and the default pixel counts are
// the full 864 or 858 per line. Only 25 and 30 Hz SD formats exist.
func resolveStreamTiming(freq Frequency, size ImageSize, pixelsPerLine int,
	ratio AspectRatio) (headerTiming, error) {

	var t headerTiming

	switch freq {
	case Freq25:
		if size != SizeSD {
			return t, ErrImageSize
		}
		t.imaFreq = stdFreq50Hz / 2.0
		t.linFreq, t.actLines = 15.625, 625
		switch pixelsPerLine {
		case 0, 864:
			t.pixFreq, t.actPixel = 13.5, 864
		case 1024:
			t.pixFreq, t.actPixel = 16.0, 1024
		case 1152:
			t.pixFreq, t.actPixel = 18.0, 1152
		default:
			return t, ErrPixelsPerLine
		}
	case Freq30:
		if size != SizeSD {
			return t, ErrImageSize
		}
		t.imaFreq = stdFreq60Hz / 2.0
		t.linFreq, t.actLines = 15.734264, 525
		switch pixelsPerLine {
		case 0, 858:
			t.pixFreq, t.actPixel = 13.5, 858
		case 1144:
			t.pixFreq, t.actPixel = 18.0, 1144
		default:
			return t, ErrPixelsPerLine
		}
	default:
		return t, ErrImageFrequency
	}

	// Stream files hold one complete frame per image.
	t.interlace = 1

	if ratio == AspectAuto {
		ratio = autoRatio(pixelsPerLine > 720)
	}
	return t, t.setAspect(ratio)
}

// NewHeader constructs a header for a standard definition file with the
// given color format and image frequency. Stream formats are created
// progressive, all others interlaced, both with a 4:3 aspect ratio.
// Use NewHeaderSized for other sizes and scan modes.
func NewHeader(color ColorFormat, freq Frequency) (*Header, error) {
	if color == ColorStream {
		return NewHeaderSized(color, freq, SizeSD, 0, true, Aspect4x3)
	}
	return NewHeaderSized(color, freq, SizeSD, 0, false, Aspect4x3)
}

// NewHeaderSized constructs a header for a standard video format.
// pixelsPerLine selects one of the standard pixel counts of the image
// size, or the size's default when zero. The aspect ratio AspectAuto
// derives the ratio from the image size and pixel count.
func NewHeaderSized(color ColorFormat, freq Frequency, size ImageSize,
	pixelsPerLine int, progressive bool, ratio AspectRatio) (*Header, error) {

	switch {
	case size == SizeHDp && freq.is50HzClass():
		return nil, ErrSizeWithFrequency
	case size == SizeHDp && !progressive:
		return nil, ErrSizeWithInterlaced
	case size == SizeHDi && progressive:
		return nil, ErrSizeWithProgressive
	case color == ColorStream && !progressive:
		return nil, ErrFormatWithInterlace
	}

	var t headerTiming
	var err error
	if color == ColorStream {
		t, err = resolveStreamTiming(freq, size, pixelsPerLine, ratio)
	} else {
		t, err = resolveTiming(freq, size, pixelsPerLine, progressive, ratio)
	}
	if err != nil {
		return nil, err
	}
	return NewHeaderFree(color, t.imaFreq, t.linFreq, t.pixFreq,
		t.actLines, t.actPixel, t.interlace, t.hRatio, t.vRatio)
}
