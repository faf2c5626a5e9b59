// pfspdframe extracts a single frame from a pfspd file and stores it
// as a lossless JPEG 2000 codestream.
//
// RGB and XYZ files are exported with all three planes; every other
// color format exports the first component (luminance or stream data)
// as a grayscale image. Samples are widened to the full 16 bit range,
// so an 8 bit file exports as a 16 bit image with the values shifted
// up.
//
// Usage:
//
//	pfspdframe [options] infile outfile
//
// Options:
//
//	-f <frame>   frame number to extract, counting from one (default 1)
//	-ht          use the high throughput (HTJ2K) coder
//	-v           verbose output
//	-version     show version information
package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/mrjoshuak/go-jpeg2000"

	"github.com/leoparders/pfspd/pfspd"
)

func main() {
	frame := flag.Int("f", 1, "frame number to extract (one based)")
	highThroughput := flag.Bool("ht", false, "use the high throughput (HTJ2K) coder")
	verbose := flag.Bool("v", false, "verbose output")
	showVersion := flag.Bool("version", false, "show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pfspdframe [options] infile outfile\n\n")
		fmt.Fprintf(os.Stderr, "Extract one frame from a pfspd file as a lossless JPEG 2000 codestream.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("pfspdframe version %s\n", pfspd.Version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(1)
	}

	pfspd.Fatal(extract(args[0], args[1], *frame, *highThroughput, *verbose))
}

func extract(inFile, outFile string, frame int, highThroughput, verbose bool) error {
	defer pfspd.CloseAll()

	h, err := pfspd.ReadHeader(inFile)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", inFile, err)
	}
	if frame < 1 || frame > h.NumFrames() {
		return fmt.Errorf("frame %d out of range, file has %d frames", frame, h.NumFrames())
	}

	if verbose {
		fmt.Printf("Reading frame %d of %s\n", frame, inFile)
		fmt.Printf("  %dx%d %s, %s\n", h.Width(), h.Height(),
			h.ColorFormat(), h.FileDataFormat())
	}

	var img image.Image
	switch h.ColorFormat() {
	case pfspd.ColorRGB, pfspd.ColorXYZ:
		img, err = readColorFrame(inFile, h, frame)
	default:
		img, err = readGrayFrame(inFile, h, frame)
	}
	if err != nil {
		return fmt.Errorf("cannot read frame %d: %w", frame, err)
	}

	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer out.Close()

	opts := &jpeg2000.Options{
		Format:         jpeg2000.FormatJ2K,
		Lossless:       true,
		HighThroughput: highThroughput,
		NumResolutions: 6,
	}
	if err := jpeg2000.Encode(out, img, opts); err != nil {
		return fmt.Errorf("jpeg2000 encode failed: %w", err)
	}
	if verbose {
		fmt.Printf("Wrote %s\n", outFile)
	}
	return nil
}

// readColorFrame reads the three planes of an RGB or XYZ frame.
func readColorFrame(name string, h *pfspd.Header, frame int) (image.Image, error) {
	width, height := h.Width(), h.Height()
	planes := make([][]uint16, 3)
	for i := range planes {
		planes[i] = make([]uint16, width*height)
	}
	err := pfspd.ReadFramePlanar16(name, h, frame,
		planes[0], planes[1], planes[2],
		pfspd.ReadAll, pfspd.Memory16Bit, width, height, width, 0)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA64(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			r := planes[0][y*width+x]
			g := planes[1][y*width+x]
			b := planes[2][y*width+x]
			p := row[x*8:]
			p[0], p[1] = byte(r>>8), byte(r)
			p[2], p[3] = byte(g>>8), byte(g)
			p[4], p[5] = byte(b>>8), byte(b)
			p[6], p[7] = 0xff, 0xff
		}
	}
	return img, nil
}

// readGrayFrame reads the first component of a frame as grayscale.
func readGrayFrame(name string, h *pfspd.Header, frame int) (image.Image, error) {
	width, _, err := h.ComponentBufferSize(0)
	if err != nil {
		return nil, err
	}
	height := h.Height()
	buf := make([]uint16, width*height)
	err = pfspd.ReadFrameComponent16(name, h, frame, 0, buf,
		pfspd.Memory16Bit, h.Width(), height, width)
	if err != nil {
		return nil, err
	}

	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			v := buf[y*width+x]
			row[x*2], row[x*2+1] = byte(v>>8), byte(v)
		}
	}
	return img, nil
}
