package audio

import (
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavSink writes 8-bit mono PCM to a seekable file, matching notint's
// wav_header_t layout (a standard RIFF/WAVE/fmt/data header).
type WavSink struct {
	enc *wav.Encoder
	buf *goaudio.IntBuffer
}

// NewWavSink wraps ws in a wav.Encoder configured for 8-bit mono PCM at
// SampleRate. Close must be called to finalize the RIFF/data sizes.
func NewWavSink(ws io.WriteSeeker) *WavSink {
	enc := wav.NewEncoder(ws, SampleRate, 8, 1, 1)
	return &WavSink{
		enc: enc,
		buf: &goaudio.IntBuffer{
			Format: &goaudio.Format{NumChannels: 1, SampleRate: SampleRate},
			SourceBitDepth: 8,
		},
	}
}

// Write appends samples as unsigned 8-bit PCM frames.
func (s *WavSink) Write(samples []byte) error {
	data := make([]int, len(samples))
	for i, b := range samples {
		data[i] = int(b)
	}
	s.buf.Data = data
	return s.enc.Write(s.buf)
}

// Close finalizes the WAV header with the total sample count.
func (s *WavSink) Close() error {
	return s.enc.Close()
}
