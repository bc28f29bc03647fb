package audio

import (
	"fmt"

	pa "github.com/gordonklaus/portaudio"
)

// PortaudioSink streams samples to the system's default output device,
// converting each 8-bit unsigned sample to the float32 format portaudio
// wants.
type PortaudioSink struct {
	stream *pa.Stream
	buf    []float32
}

// NewPortaudioSink opens the default output device at SampleRate, mono.
func NewPortaudioSink(bufferFrames int) (*PortaudioSink, error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: portaudio init: %w", err)
	}

	s := &PortaudioSink{buf: make([]float32, bufferFrames)}
	stream, err := pa.OpenDefaultStream(0, 1, float64(SampleRate), bufferFrames, &s.buf)
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("audio: opening default stream: %w", err)
	}
	s.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		pa.Terminate()
		return nil, fmt.Errorf("audio: starting stream: %w", err)
	}
	return s, nil
}

// Write converts unsigned 8-bit PCM to centered float32 and blocks until
// portaudio has consumed it.
func (s *PortaudioSink) Write(samples []byte) error {
	for i := 0; i < len(samples); i += len(s.buf) {
		end := i + len(s.buf)
		if end > len(samples) {
			end = len(samples)
		}
		chunk := samples[i:end]
		j := 0
		for ; j < len(chunk); j++ {
			s.buf[j] = (float32(chunk[j]) - 128) / 128
		}
		for ; j < len(s.buf); j++ {
			s.buf[j] = 0
		}
		if err := s.stream.Write(); err != nil {
			return fmt.Errorf("audio: portaudio write: %w", err)
		}
	}
	return nil
}

// Close stops the stream and releases portaudio's global state.
func (s *PortaudioSink) Close() error {
	if err := s.stream.Close(); err != nil {
		pa.Terminate()
		return err
	}
	return pa.Terminate()
}
