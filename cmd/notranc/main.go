// Command notranc compiles NOTRAN source into a bytecode object file.
package main

import (
	"flag"
	"fmt"
	"os"

	"notran/compiler"
	"notran/internal/telemetry"
	"notran/objfile"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "notranc:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("notranc", flag.ExitOnError)
	outFile := fs.String("o", "", "output object file (required)")
	listingFile := fs.String("l", "", "optional listing file")
	baseAddr := fs.Uint("a", 0, "base address for symbol resolution")
	format := fs.String("f", "bin", "output format: bin, pap, ihex")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-l listing.lst] [-a address] [-f bin|pap|ihex] -o output input.not\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *outFile == "" || fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("missing input file or -o output file")
	}
	outFmt, err := objfile.ParseFormat(*format)
	if err != nil {
		return err
	}

	in, err := os.Open(fs.Arg(0))
	if telemetry.IsErr(err) {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer in.Close()

	cfg := compiler.DefaultConfig()
	cfg.BaseAddress = uint16(*baseAddr)

	var listing *os.File
	if *listingFile != "" {
		listing, err = os.Create(*listingFile)
		if telemetry.IsErr(err) {
			return fmt.Errorf("creating listing file: %w", err)
		}
		defer listing.Close()
		cfg.ListingWriter = listing
	}

	result := compiler.Compile(in, cfg)
	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	if len(result.Diagnostics) > 0 {
		return fmt.Errorf("compilation failed with %d diagnostic(s)", len(result.Diagnostics))
	}

	out, err := os.Create(*outFile)
	if telemetry.IsErr(err) {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if err := objfile.Write(out, outFmt, result.Code, cfg.BaseAddress); telemetry.IsErr(err) {
		return fmt.Errorf("writing object file: %w", err)
	}

	fmt.Printf("compiled %d line(s), %d byte(s), %d symbol(s)\n", result.LineCount, len(result.Code), result.Symbols)
	return nil
}
