package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rajiv-sit/ultrasound-processor/replay"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: legacy_capture_convert [flags] <legacy_file_or_dir> <output.csv>")
	flag.PrintDefaults()
}

func main() {
	selftest := flag.Int("selftest", 0, "Generate a synthetic capture with N strides and convert that instead of the input")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		usage()
		os.Exit(1)
	}
	input := args[0]

	if *selftest > 0 {
		synth := filepath.Join(os.TempDir(), "uss_selftest.mudp")
		if err := replay.WriteSyntheticCapture(synth, *selftest); err != nil {
			fmt.Fprintf(os.Stderr, "Selftest capture error: %v\n", err)
			os.Exit(1)
		}
		defer os.Remove(synth)
		input = synth
	}

	if err := replay.ConvertLegacyCapture(input, args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Conversion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Conversion completed: %s\n", args[1])
}
