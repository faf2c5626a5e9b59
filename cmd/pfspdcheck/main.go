// pfspdcheck validates pfspd video files and prints their properties.
//
// Usage:
//
//	pfspdcheck [-q|--quiet] [-p|--print] <filename> [<filename> ...]
//
// Options:
//
//	-q, --quiet   Only output errors. Exit code indicates pass/fail.
//	-p, --print   Dump the raw header fields of each file.
//	-h, --help    Show this help message.
//	--version     Show version information.
//
// Exit codes:
//
//	0: All files valid
//	1: One or more files invalid
//	2: Error (file not found, etc.)
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/leoparders/pfspd/pfspd"
)

func main() {
	quiet := false
	printHdr := false
	files := []string{}

	for i := 1; i < len(os.Args); i++ {
		arg := os.Args[i]
		switch arg {
		case "-q", "--quiet":
			quiet = true
		case "-p", "--print":
			printHdr = true
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		case "--version":
			fmt.Printf("pfspdcheck version %s\n", pfspd.Version)
			os.Exit(0)
		default:
			if strings.HasPrefix(arg, "-") && arg != "-" {
				fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
				printUsage()
				os.Exit(2)
			}
			files = append(files, arg)
		}
	}

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No input files specified")
		printUsage()
		os.Exit(2)
	}
	defer pfspd.CloseAll()

	validCount := 0
	errorOccurred := false

	for _, filename := range files {
		h, err := pfspd.ReadHeader(filename)
		if err != nil {
			if errors.Is(err, pfspd.ErrOpenFailed) || errors.Is(err, pfspd.ErrReadFailed) {
				fmt.Fprintf(os.Stderr, "%s: error: %v\n", filename, err)
				errorOccurred = true
				continue
			}
			if !quiet {
				fmt.Printf("%s: INVALID: %v\n", filename, err)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
			}
			if printHdr && !quiet && h != nil {
				h.Print(os.Stdout)
			}
			continue
		}

		validCount++
		if !quiet {
			printSummary(filename, h)
			if printHdr {
				h.Print(os.Stdout)
			}
		}
	}

	if len(files) > 1 && !quiet {
		fmt.Printf("\nSummary: %d of %d files valid\n", validCount, len(files))
	}

	if errorOccurred {
		os.Exit(2)
	}
	if validCount < len(files) {
		os.Exit(1)
	}
}

func printSummary(filename string, h *pfspd.Header) {
	scan := "interlaced"
	if h.Progressive() {
		scan = "progressive"
	}
	fmt.Printf("%s: OK\n", filename)
	fmt.Printf("  %dx%d %s, %s, %d frames\n",
		h.Width(), h.Height(), scan, h.ColorFormat(), h.NumFrames())
	fmt.Printf("  frequency %s, size %s, aspect ratio %s, data format %s\n",
		h.ImageFrequency(), h.ImageSize(), h.AspectRatio(), h.FileDataFormat())
	if desc := h.Description(); desc != "" {
		fmt.Printf("  description: %s\n", desc)
	}
	for id := 0; id < h.NumAux(); id++ {
		maxSize, name, err := h.Aux(id)
		if err != nil {
			continue
		}
		fmt.Printf("  auxiliary header %q, %d bytes per image\n", name, maxSize)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: pfspdcheck [options] <filename> [<filename> ...]\n\n")
	fmt.Fprintf(os.Stderr, "Validate pfspd video files and print their properties.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  -q, --quiet   Only output errors. Exit code indicates pass/fail.\n")
	fmt.Fprintf(os.Stderr, "  -p, --print   Dump the raw header fields of each file.\n")
	fmt.Fprintf(os.Stderr, "  -h, --help    Show this help message.\n")
	fmt.Fprintf(os.Stderr, "  --version     Show version information.\n")
}
