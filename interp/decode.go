package interp

import "notran/isa"

// pccResult distinguishes "keep going" from the two ways draining
// control commands can end an interpretation step.
type pccResult int

const (
	pccContinue pccResult = iota
	pccEnd
	pccJumpBudget
)

// processPureControlCommands drains every control byte (duration nibble
// zero, and not a long-note prefix) at the current code position,
// applying tempo/call/return/jump/voice-count/activate/deactivate as it
// goes. It stops as soon as it meets a note or a long-note prefix.
func (it *Interpreter) processPureControlCommands() (pccResult, error) {
	for it.codePtr < len(it.code) {
		command := it.code[it.codePtr]
		if !isa.IsControlCommand(command) || isa.IsLongNoteCommand(command) {
			break
		}
		it.codePtr++
		res, err := it.processControlCommand(command)
		if err != nil {
			return pccContinue, err
		}
		if res != pccContinue {
			return res, nil
		}
	}
	return pccContinue, nil
}

func (it *Interpreter) processControlCommand(command byte) (pccResult, error) {
	if isa.IsLongNoteCommand(command) {
		return pccContinue, &runtimeError{it.codePtr - 1, "long note command seen in control processing"}
	}

	switch command & isa.PitchMask {
	case isa.OpEnd:
		return pccEnd, nil
	case isa.OpTempo:
		return pccContinue, it.handleTempo()
	case isa.OpCall:
		return pccContinue, it.handleCall()
	case isa.OpReturn:
		return pccContinue, it.handleReturn()
	case isa.OpJump:
		return it.handleJump()
	case isa.OpSetVoices:
		return pccContinue, it.handleSetVoices()
	case isa.OpDeactivate:
		it.handleDeactivate()
		return pccContinue, nil
	case isa.OpActivate:
		it.handleActivate()
		return pccContinue, nil
	default:
		return pccContinue, &runtimeError{it.codePtr - 1, "undefined control command"}
	}
}

func (it *Interpreter) handleTempo() error {
	tempo := it.readByte()
	if tempo == 0 {
		return &runtimeError{it.codePtr - 2, "tempo cannot be zero"}
	}
	it.tempo = tempo
	return nil
}

func (it *Interpreter) handleCall() error {
	if len(it.callStack) >= isa.CallStackSize {
		return &runtimeError{it.codePtr - 1, "call stack overflow"}
	}
	it.callStack = append(it.callStack, uint16(it.codePtr+2))
	addr := it.readAddress()
	if int(addr) >= len(it.code) {
		return &runtimeError{it.codePtr - 3, "call to invalid address"}
	}
	it.codePtr = int(addr)
	return nil
}

func (it *Interpreter) handleReturn() error {
	if len(it.callStack) == 0 {
		return &runtimeError{it.codePtr - 1, "return with empty call stack"}
	}
	addr := it.callStack[len(it.callStack)-1]
	it.callStack = it.callStack[:len(it.callStack)-1]
	it.codePtr = int(addr)
	return nil
}

func (it *Interpreter) handleJump() (pccResult, error) {
	if it.maxJumps == 0 {
		return pccJumpBudget, nil
	}
	it.maxJumps--
	addr := it.readAddress()
	if int(addr) >= len(it.code) {
		return pccContinue, &runtimeError{it.codePtr - 3, "jump to invalid address"}
	}
	it.codePtr = int(addr)
	return pccContinue, nil
}

func (it *Interpreter) handleSetVoices() error {
	n := it.readByte()
	if n < 1 || n > isa.NumVoices {
		it.warnf("invalid voice count %d at position %d", n, it.codePtr-2)
	}
	it.numActiveVoices = clampVoiceCount(int(n))
	return nil
}

func clampVoiceCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > isa.NumVoices {
		return isa.NumVoices
	}
	return n
}

func (it *Interpreter) handleDeactivate() {
	idx := it.readByte() & 0x03
	it.voices[idx].deactivate()
}

func (it *Interpreter) handleActivate() {
	idx := it.readByte() & 0x03
	it.voices[idx].activate()
}

func (it *Interpreter) processLongNote(voice *Voice, command byte) {
	cmdType := command & isa.PitchMask
	pitchByte := it.readByte()
	wdByte := it.readByte()

	waveform := (wdByte >> 4) & 0x0F
	durationCode := wdByte & 0x0F

	if durationCode == 0 {
		it.warnf("long note with duration code 0 at position %d", it.codePtr-3)
		durationCode = 1
	}
	if int(waveform) >= len(it.wavetables) {
		it.warnf("invalid wavetable %d at position %d", waveform, it.codePtr-3)
		waveform = uint8(len(it.wavetables) - 1)
	}

	if cmdType == isa.OpLongNoteAbs {
		voice.assignLongNoteAbsolute(pitchByte, waveform, durationCode)
	} else {
		voice.assignLongNoteRelative(int8(pitchByte), waveform, durationCode)
	}
}

// processNotesForVoices assigns a fresh note to every active voice whose
// duration has expired. If it encounters a byte that turns out to be a
// pure control command instead of a note, it backs up so the caller can
// process that control command before the next assignment cycle.
func (it *Interpreter) processNotesForVoices() {
	for i := 0; i < isa.NumVoices; i++ {
		voice := &it.voices[i]
		if !voice.isActive() {
			continue
		}

		if voice.Duration > 0 && it.duration > 0 {
			if voice.Duration > it.duration {
				voice.Duration -= it.duration
				continue
			}
			voice.Duration = 0
		}

		if !voice.isExpired() {
			continue
		}
		if it.codePtr >= len(it.code) {
			return
		}

		command := it.readByte()
		durationCode := command & isa.DurationMask

		if durationCode == 0 {
			if isa.IsLongNoteCommand(command) {
				it.processLongNote(voice, command)
			} else {
				it.codePtr--
				return
			}
		} else {
			pitchField := command & isa.PitchMask
			voice.assignShortNote(pitchField, durationCode)
		}
	}
}

func (it *Interpreter) findShortestDuration() uint8 {
	shortest := uint8(isa.VoiceInactive)
	for i := range it.voices {
		v := &it.voices[i]
		if v.isActive() && !v.isExpired() && v.Duration < shortest {
			shortest = v.Duration
		}
	}
	return shortest
}
