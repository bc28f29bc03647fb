// Command notranscope is a small SDL2 oscilloscope that polls the JSON
// telemetry snapshot notrani's -scope flag publishes and traces the
// waveform, the way the toolchain's other viewers poll a JSON file on a
// timer instead of sharing memory with the producer.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"notran/audio"
	"notran/internal/telemetry"
)

const (
	windowWidth  = 800
	windowHeight = 300
	pollInterval = 33 * time.Millisecond
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "notranscope:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("notranscope", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s scope.json\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("missing telemetry snapshot file")
	}
	scopeFile := fs.Arg(0)

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow("notranscope", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		windowWidth, windowHeight, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer renderer.Destroy()

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch event.(type) {
			case *sdl.QuitEvent:
				running = false
			}
		}

		var frame audio.Frame
		if err := telemetry.LoadSnapshot(scopeFile, &frame); err == nil {
			drawFrame(renderer, frame)
		}

		sdl.Delay(uint32(pollInterval / time.Millisecond))
	}
	return nil
}

// drawFrame renders frame's samples as a single polyline, mapping each
// 8-bit sample (0-255) onto the window height.
func drawFrame(renderer *sdl.Renderer, frame audio.Frame) {
	renderer.SetDrawColor(0, 0, 0, 255)
	renderer.Clear()
	renderer.SetDrawColor(0, 255, 0, 255)

	samples := frame.Samples
	if len(samples) < 2 {
		renderer.Present()
		return
	}

	xStep := float64(windowWidth) / float64(len(samples)-1)
	prevX, prevY := 0, sampleToY(samples[0])
	for i := 1; i < len(samples); i++ {
		x := int(float64(i) * xStep)
		y := sampleToY(samples[i])
		renderer.DrawLine(int32(prevX), int32(prevY), int32(x), int32(y))
		prevX, prevY = x, y
	}
	renderer.Present()
}

func sampleToY(sample byte) int {
	return windowHeight - 1 - (int(sample)*(windowHeight-1))/255
}
