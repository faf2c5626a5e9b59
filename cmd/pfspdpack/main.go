// pfspdpack compresses and decompresses pfspd files with zstandard.
//
// Uncompressed video files are large and repetitive, so they compress
// well for archiving. A packed file carries the .zst suffix and is a
// plain zstandard stream; it must be unpacked before the library can
// access it.
//
// Usage:
//
//	pfspdpack [options] <filename> [<filename> ...]
//
// Options:
//
//	-d           decompress instead of compress
//	-l <level>   compression level 1 (fastest) to 4 (best), default 2
//	-k           keep the input file
//	-v           verbose output
//	-version     show version information
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/leoparders/pfspd/pfspd"
)

const packSuffix = ".zst"

func main() {
	decompress := flag.Bool("d", false, "decompress instead of compress")
	level := flag.Int("l", 2, "compression level 1 (fastest) to 4 (best)")
	keep := flag.Bool("k", false, "keep the input file")
	verbose := flag.Bool("v", false, "verbose output")
	showVersion := flag.Bool("version", false, "show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pfspdpack [options] <filename> [<filename> ...]\n\n")
		fmt.Fprintf(os.Stderr, "Compress pfspd files with zstandard, or decompress them with -d.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("pfspdpack version %s\n", pfspd.Version)
		os.Exit(0)
	}
	if *level < 1 || *level > 4 {
		fmt.Fprintf(os.Stderr, "Error: invalid compression level: %d\n", *level)
		os.Exit(1)
	}
	files := flag.Args()
	if len(files) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	failed := false
	for _, name := range files {
		var err error
		if *decompress {
			err = unpack(name, *keep, *verbose)
		} else {
			err = pack(name, zstd.EncoderLevel(*level), *keep, *verbose)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: error: %v\n", name, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func pack(name string, level zstd.EncoderLevel, keep, verbose bool) error {
	if strings.HasSuffix(name, packSuffix) {
		return fmt.Errorf("already has %s suffix", packSuffix)
	}

	in, err := os.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(name + packSuffix)
	if err != nil {
		return err
	}
	defer out.Close()

	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(level))
	if err != nil {
		return err
	}
	written, err := io.Copy(enc, in)
	if err != nil {
		enc.Close()
		os.Remove(name + packSuffix)
		return err
	}
	if err := enc.Close(); err != nil {
		os.Remove(name + packSuffix)
		return err
	}

	if verbose {
		if info, err := out.Stat(); err == nil && written > 0 {
			fmt.Printf("%s: %d -> %d bytes (%.1f%%)\n",
				name, written, info.Size(),
				100.0*float64(info.Size())/float64(written))
		}
	}
	if !keep {
		return os.Remove(name)
	}
	return nil
}

func unpack(name string, keep, verbose bool) error {
	if !strings.HasSuffix(name, packSuffix) {
		return fmt.Errorf("missing %s suffix", packSuffix)
	}
	outName := strings.TrimSuffix(name, packSuffix)

	in, err := os.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()

	dec, err := zstd.NewReader(in)
	if err != nil {
		return err
	}
	defer dec.Close()

	out, err := os.Create(outName)
	if err != nil {
		return err
	}
	defer out.Close()

	written, err := io.Copy(out, dec.IOReadCloser())
	if err != nil {
		os.Remove(outName)
		return err
	}

	if verbose {
		fmt.Printf("%s: %d bytes\n", outName, written)
	}
	if !keep {
		return os.Remove(name)
	}
	return nil
}
