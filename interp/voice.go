package interp

import "notran/isa"

// Voice is the run time state of one of the four synthesizer voices: a
// 16-bit phase accumulator, the wavetable it reads from, and how many
// time units remain before it needs a new note.
type Voice struct {
	PhaseFrac      uint8
	PhaseInt       uint8
	WavetablePage  uint8
	NoteOffset     uint8
	FreqIncrement  uint16
	Duration       uint8
}

func newVoice() Voice {
	return Voice{Duration: isa.VoiceInactive}
}

func (v *Voice) setSilent() { v.FreqIncrement = 0 }

func (v *Voice) activate() {
	v.Duration = isa.VoiceActive
	v.setSilent()
}

func (v *Voice) deactivate() {
	v.Duration = isa.VoiceInactive
	v.setSilent()
}

func (v *Voice) resetPhase() {
	v.PhaseFrac = 0
	v.PhaseInt = 0
}

func (v *Voice) updateFrequency(noteOffset uint8) {
	v.NoteOffset = noteOffset
	v.FreqIncrement = isa.FrequencyIncrement(noteOffset)
}

func (v *Voice) isActive() bool  { return v.Duration != isa.VoiceInactive }
func (v *Voice) isExpired() bool { return v.Duration == 0 }

// assignShortNote decodes a one-byte short note: high nibble is a signed
// pitch delta in half-note-offset steps, low nibble the duration code.
func (v *Voice) assignShortNote(pitchField, durationCode uint8) {
	prevOffset := v.NoteOffset
	v.Duration = isa.DurationTable[durationCode]

	pitchNibble := isa.SignExtendNibble(pitchField >> isa.PitchShift)
	if pitchNibble == isa.PitchRest {
		v.setSilent()
		return
	}

	byteOffset := int8(pitchNibble) * 2
	v.NoteOffset = uint8(int8(v.NoteOffset) + byteOffset)
	v.updateFrequency(v.NoteOffset)

	if byteOffset == 0 && prevOffset == v.NoteOffset {
		v.resetPhase()
	}
}

func (v *Voice) assignLongNoteAbsolute(pitchByte, waveform, durationCode uint8) {
	v.NoteOffset = pitchByte
	v.WavetablePage = waveform
	v.Duration = isa.DurationTable[durationCode]
	v.updateFrequency(pitchByte)
}

func (v *Voice) assignLongNoteRelative(displacement int8, waveform, durationCode uint8) {
	v.NoteOffset = uint8(int8(v.NoteOffset) + displacement)
	v.WavetablePage = waveform
	v.Duration = isa.DurationTable[durationCode]
	v.updateFrequency(v.NoteOffset)
}

// advancePhase steps the 16-bit phase accumulator by the voice's
// frequency increment, wrapping modulo 2^16.
func (v *Voice) advancePhase() {
	phase := uint16(v.PhaseInt)<<8 | uint16(v.PhaseFrac)
	phase += v.FreqIncrement
	v.PhaseFrac = uint8(phase)
	v.PhaseInt = uint8(phase >> 8)
}
