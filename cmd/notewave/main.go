// Command notewave generates wavetable binaries from a YAML file of
// harmonic specifications.
package main

import (
	"flag"
	"fmt"
	"os"

	"notran/internal/telemetry"
	"notran/wavetable"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "notewave:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("notewave", flag.ExitOnError)
	outFile := fs.String("o", "", "output wavetable binary (default: stdout)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-o output.bin] harmonics.yaml\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("missing input YAML file")
	}

	in, err := os.Open(fs.Arg(0))
	if telemetry.IsErr(err) {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer in.Close()

	specs, err := wavetable.LoadSpecs(in)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		return fmt.Errorf("no valid waveform specifications found in %s", fs.Arg(0))
	}

	out := os.Stdout
	if *outFile != "" {
		out, err = os.Create(*outFile)
		if telemetry.IsErr(err) {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer out.Close()
	}

	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "warning:", err)
			continue
		}
		table := wavetable.Generate(spec)
		if _, err := out.Write(table[:]); err != nil {
			return fmt.Errorf("writing wavetable for %q: %w", spec.Name, err)
		}
		fmt.Fprintf(os.Stderr, "generated %s (%d harmonics)\n", spec.Name, spec.NumHarmonics())
	}
	return nil
}
