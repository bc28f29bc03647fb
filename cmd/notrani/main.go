// Command notrani interprets a compiled NOTRAN bytecode program against a
// wavetable set and plays or renders the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"notran/audio"
	"notran/internal/telemetry"
	"notran/interp"
	"notran/wavetable"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "notrani:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("notrani", flag.ExitOnError)
	outFile := fs.String("o", "", "render to a WAV file instead of live playback")
	maxJumps := fs.Uint("j", 0, "maximum allowed jumps (0 = unlimited)")
	scopeFile := fs.String("scope", "", "publish a JSON telemetry snapshot for notranscope")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-o out.wav] [-j maxjumps] program.bin wavetable.bin\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return fmt.Errorf("expected a bytecode file and a wavetable file")
	}

	code, err := os.ReadFile(fs.Arg(0))
	if telemetry.IsErr(err) {
		return fmt.Errorf("reading bytecode file: %w", err)
	}

	wf, err := os.Open(fs.Arg(1))
	if telemetry.IsErr(err) {
		return fmt.Errorf("opening wavetable file: %w", err)
	}
	defer wf.Close()
	tables, err := wavetable.Load(wf)
	if telemetry.IsErr(err) {
		return fmt.Errorf("loading wavetables: %w", err)
	}

	sink, closeSink, err := buildSink(*outFile, *scopeFile)
	if err != nil {
		return err
	}
	defer closeSink()

	var opts []interp.Option
	if *maxJumps > 0 {
		opts = append(opts, interp.WithMaxJumps(uint32(*maxJumps)))
	}
	it := interp.New(code, tables, opts...)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	result := it.Run(ctx, sink)
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	if result.Err != nil {
		return fmt.Errorf("interpretation stopped (%s): %w", result.Reason, result.Err)
	}
	fmt.Println("stopped:", result.Reason)
	return nil
}

func buildSink(outFile, scopeFile string) (interp.Sink, func(), error) {
	var base audio.Sink
	closeFns := []func(){}

	if outFile != "" {
		f, err := os.Create(outFile)
		if telemetry.IsErr(err) {
			return nil, nil, fmt.Errorf("creating WAV file: %w", err)
		}
		wavSink := audio.NewWavSink(f)
		closeFns = append(closeFns, func() { wavSink.Close(); f.Close() })
		base = wavSink
	} else {
		pa, err := audio.NewPortaudioSink(1024)
		if err != nil {
			return nil, nil, err
		}
		closeFns = append(closeFns, func() { pa.Close() })
		base = pa
	}

	if scopeFile != "" {
		base = audio.NewTelemetrySink(base, scopeFile, 512)
	}

	return base, func() {
		for i := len(closeFns) - 1; i >= 0; i-- {
			closeFns[i]()
		}
	}, nil
}
