// Package audio provides the sinks interp.Run streams synthesized 8-bit
// samples into: a live output device, a WAV file, and a telemetry
// decorator that publishes level snapshots to a monitoring viewer.
package audio

import (
	"notran/isa"
)

// Sink matches interp.Sink; declared again here so this package has no
// import-cycle dependency on interp.
type Sink interface {
	Write(samples []byte) error
}

// SampleRate is the playback rate every sink in this package assumes,
// matching the frequency table's calibration.
const SampleRate = isa.DefaultSampleRate
