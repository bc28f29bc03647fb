package compiler

import "notran/isa"

// noteSpec is one parsed `<voice><pitch><octave><duration>` token, before
// it has been folded into voice state.
type noteSpec struct {
	voice        uint8 // 0 means "unspecified"
	pitch        uint8 // 0 means rest
	octave       uint8
	durationCode uint8
	durationTime uint8
}

func (c *Compiler) parseNotePitch() (uint8, bool) {
	letter := c.peek()
	if letter < 'A' || letter > 'G' {
		c.reportError(ErrIncomprehensibleSpec)
		return 0, false
	}
	c.pos++
	accidental := 0
	switch c.peek() {
	case '#':
		accidental = 1
		c.pos++
	case '@':
		accidental = -1
		c.pos++
	}
	pitch, ok := isa.PitchClass(letter, accidental)
	if !ok {
		c.reportError(ErrIncomprehensibleSpec)
		return 0, false
	}
	return pitch, true
}

func (c *Compiler) parseDuration() (code, time uint8, ok bool) {
	letter := c.peek()
	idx := -1
	for i := 0; i < len(isa.DurationLetters); i++ {
		if isa.DurationLetters[i] == letter {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.reportError(ErrIllegalDuration)
		return 0, 0, false
	}
	durIdx := idx*3 + 1
	c.pos++

	switch c.peek() {
	case '.':
		durIdx--
		c.pos++
	case '3':
		durIdx++
		c.pos++
	}

	durCode := isa.DurationCodeTable[durIdx]
	if durCode == 0 {
		c.reportError(ErrIllegalDuration)
		return 0, 0, false
	}
	return durCode, isa.DurationTable[durCode], true
}

func (c *Compiler) parseNote() {
	var note noteSpec

	if c.peek() >= '1' && c.peek() <= '0'+isa.NumVoices {
		note.voice = c.peek() - '0'
		c.pos++
	}

	if c.peek() == 'R' {
		c.pos++
		note.pitch = 0
	} else {
		pitch, ok := c.parseNotePitch()
		if !ok {
			return
		}
		note.pitch = pitch

		if c.peek() >= '1' && c.peek() <= '6' {
			note.octave = c.peek() - '0'
			c.pos++
		}
	}

	code, time, ok := c.parseDuration()
	if !ok {
		return
	}
	note.durationCode = code
	note.durationTime = time

	if next := c.peek(); next != ' ' && next != ';' && next != 0 {
		c.reportError(ErrIncomprehensibleSpec)
		return
	}

	c.processNoteEvent(&note)
}

// -- voice/event state machine, grounded on notcmp.c's process_note_event --

func (c *Compiler) activateVoice(idx int) {
	c.voices[idx].duration = isa.VoiceActive
}

func (c *Compiler) deactivateVoice(idx int) {
	c.voices[idx].duration = isa.VoiceInactive
}

func (c *Compiler) anyVoiceActive() bool {
	for i := range c.voices {
		if c.voices[i].duration != isa.VoiceInactive {
			return true
		}
	}
	return false
}

func (c *Compiler) findNextVoiceNeedingNote(start int) int {
	for i := start; i < isa.NumVoices; i++ {
		if c.voices[i].duration == 0 {
			return i
		}
	}
	return isa.NumVoices
}

func (c *Compiler) calculateMinVoiceDuration() uint8 {
	min := uint8(isa.VoiceInactive)
	for i := range c.voices {
		d := c.voices[i].duration
		if d != isa.VoiceInactive && d < min {
			min = d
		}
	}
	return min
}

func (c *Compiler) subtractDurationFromVoices(duration uint8) {
	for i := range c.voices {
		if c.voices[i].duration != isa.VoiceInactive {
			c.voices[i].duration -= duration
		}
	}
}

func (c *Compiler) completeEvent() {
	c.subtractDurationFromVoices(c.calculateMinVoiceDuration())
	c.eventBuilding = false
}

func (c *Compiler) emitRest(durationCode uint8) {
	c.emitByte(isa.OpDeactivate | durationCode)
}

func (c *Compiler) emitShortNote(pitchDiff int, durationCode uint8) {
	c.emitByte(byte(pitchDiff&0x0F)<<4 | durationCode)
}

func (c *Compiler) emitLongNote(pitch int, waveform, durationCode uint8) {
	c.emitByte(isa.OpLongNoteAbs)
	c.emitByte(byte(pitch * 2))
	c.emitByte(waveform<<4 | durationCode)
}

func (c *Compiler) shouldUseShortEncoding(voiceIdx, newPitch int) bool {
	v := &c.voices[voiceIdx]
	if v.useAbsolute || v.pitch == 0 {
		return false
	}
	diff := newPitch - int(v.pitch)
	return diff >= -7 && diff <= 7
}

func (c *Compiler) processNoteEvent(note *noteSpec) {
	if !c.eventBuilding {
		c.voicePtr = 0
		c.eventBuilding = true
		if !c.anyVoiceActive() {
			c.reportError(ErrNoVoicesActive)
			return
		}
	}

	voiceIdx := c.findNextVoiceNeedingNote(c.voicePtr)
	if voiceIdx >= isa.NumVoices {
		c.reportError(ErrNoVoicesActive)
		return
	}

	if note.voice != 0 && voiceIdx != int(note.voice)-1 {
		c.reportError(ErrVoiceMismatch)
	}

	if note.pitch == 0 {
		c.emitRest(note.durationCode)
	} else {
		octave := note.octave
		if octave == 0 {
			octave = c.voices[voiceIdx].octave
			if octave == 0 {
				c.reportError(ErrPitchOutOfRange)
				octave = 4
			}
		}
		c.voices[voiceIdx].octave = octave

		absolutePitch := int(octave)*12 + int(note.pitch) - 12
		if absolutePitch < isa.MinPitch || absolutePitch > isa.MaxPitch {
			c.reportError(ErrPitchOutOfRange)
			absolutePitch = isa.MaxPitch
		}

		if c.shouldUseShortEncoding(voiceIdx, absolutePitch) {
			diff := absolutePitch - int(c.voices[voiceIdx].pitch)
			c.emitShortNote(diff, note.durationCode)
		} else {
			c.emitLongNote(absolutePitch, c.voices[voiceIdx].waveform, note.durationCode)
		}
		c.voices[voiceIdx].pitch = uint8(absolutePitch)
	}

	c.voices[voiceIdx].duration = note.durationTime
	c.voices[voiceIdx].useAbsolute = false

	if c.findNextVoiceNeedingNote(voiceIdx+1) >= isa.NumVoices {
		c.completeEvent()
	} else {
		c.voicePtr = voiceIdx + 1
	}
}
