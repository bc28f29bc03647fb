package audio

import "notran/internal/telemetry"

// Frame is one polled snapshot of recent samples, written to a JSON file
// notranscope reads to draw its oscilloscope trace.
type Frame struct {
	Samples []byte `json:"samples"`
}

// TelemetrySink wraps another sink and publishes the tail of each write
// as a JSON snapshot, without altering the audio path itself.
type TelemetrySink struct {
	inner    Sink
	filename string
	tail     int
}

// NewTelemetrySink decorates inner, publishing up to tail trailing
// samples from every Write to filename for a viewer to poll.
func NewTelemetrySink(inner Sink, filename string, tail int) *TelemetrySink {
	return &TelemetrySink{inner: inner, filename: filename, tail: tail}
}

func (s *TelemetrySink) Write(samples []byte) error {
	if err := s.inner.Write(samples); err != nil {
		return err
	}

	frame := Frame{Samples: samples}
	if len(frame.Samples) > s.tail {
		frame.Samples = frame.Samples[len(frame.Samples)-s.tail:]
	}
	return telemetry.SaveSnapshot(frame, s.filename)
}
