package interp

import (
	"context"
	"testing"

	"notran/isa"
)

type collectSink struct{ samples []byte }

func (s *collectSink) Write(b []byte) error {
	s.samples = append(s.samples, b...)
	return nil
}

func TestPhaseWrapsModulo65536(t *testing.T) {
	v := newVoice()
	v.PhaseInt = 0xFF
	v.PhaseFrac = 0xFF
	v.FreqIncrement = 2
	v.advancePhase()
	if v.PhaseInt != 0x00 || v.PhaseFrac != 0x01 {
		t.Fatalf("phase wrap: got int=%#x frac=%#x, want int=0x00 frac=0x01", v.PhaseInt, v.PhaseFrac)
	}
}

func TestSaturatingMixClampsInsteadOfWrapping(t *testing.T) {
	wavetables := [][isa.WavetableSize]byte{{}}
	for i := range wavetables[0] {
		wavetables[0][i] = 255
	}
	code := []byte{isa.OpEnd}
	it := New(code, wavetables)
	for i := range it.voices {
		it.voices[i].FreqIncrement = 1
		it.voices[i].WavetablePage = 0
	}
	sample := it.generateSample()
	if sample != isa.SampleMax {
		t.Fatalf("expected saturating clamp to %d, got %d", isa.SampleMax, sample)
	}
}

func TestSilentVoiceIsSkipped(t *testing.T) {
	wavetables := [][isa.WavetableSize]byte{{}}
	wavetables[0][0] = 200
	it := New([]byte{isa.OpEnd}, wavetables)
	it.voices[0].FreqIncrement = 0 // silent: freq_increment == 0
	if got := it.generateSample(); got != 0 {
		t.Fatalf("silent voice contributed to the mix: got %d", got)
	}
}

func TestCallReturnSymmetry(t *testing.T) {
	// CALL -> subroutine at offset 5 containing RETURN -> END.
	code := []byte{
		isa.OpCall, 0x05, 0x00, // 0: CALL 5
		isa.OpEnd, // 3: END (reached after the call returns)
		0x00,      // 4: padding, never executed
		isa.OpReturn, // 5: RETURN
	}
	wavetables := [][isa.WavetableSize]byte{{}}
	it := New(code, wavetables)
	it.tempo = 32

	res, err := it.processPureControlCommands()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != pccEnd {
		t.Fatalf("expected the program to reach END after the call returns, got %v", res)
	}
	if it.codePtr != 4 {
		t.Fatalf("PC after RETURN should be the byte after CALL's address field (3), landed on END at 3 then advanced to 4; got %d", it.codePtr)
	}
}

func TestJumpBudgetStopsAfterExactCount(t *testing.T) {
	code := []byte{isa.OpJump, 0x00, 0x00} // JMP 0: an infinite loop
	wavetables := [][isa.WavetableSize]byte{{}}
	it := New(code, wavetables, WithMaxJumps(5))
	res := it.Run(context.Background(), &collectSink{})
	if res.Reason != StopJumpBudget {
		t.Fatalf("expected StopJumpBudget, got %v (err=%v)", res.Reason, res.Err)
	}
}

func TestRestDeactivatePrefixDisambiguation(t *testing.T) {
	// 0x86: DEACTIVATE prefix (0x80) with a nonzero low nibble is a rest
	// with duration code 6, never a voice-deactivate command.
	it := New([]byte{0x86}, [][isa.WavetableSize]byte{{}})
	it.voices[0].activate()
	it.tempo = 32
	it.processNotesForVoices()
	if it.voices[0].Duration != isa.DurationTable[6] {
		t.Fatalf("0x86 should assign a rest of duration code 6, got duration=%d", it.voices[0].Duration)
	}
	if it.voices[0].FreqIncrement != 0 {
		t.Fatalf("a rest must be silent")
	}
}

func TestBackUpOneByteOnControlDuringAssignment(t *testing.T) {
	// Voice 0 needs a note; the next byte is TEMPO (a pure control), so
	// assignment must stop and rewind so the caller processes TEMPO first.
	code := []byte{isa.OpTempo, 0x20}
	it := New(code, [][isa.WavetableSize]byte{{}})
	it.voices[0].activate()
	it.processNotesForVoices()
	if it.codePtr != 0 {
		t.Fatalf("expected the decoder to back up to offset 0, got %d", it.codePtr)
	}
}
