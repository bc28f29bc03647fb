package isa

import "testing"

func TestPitchClass(t *testing.T) {
	tests := []struct {
		letter byte
		acc    int
		want   uint8
		ok     bool
	}{
		{'A', 0, 9, true},
		{'C', 0, 12, true},
		{'C', 1, 1, true},
		{'C', -1, 11, true},
		{'G', 0, 7, true},
		{'H', 0, 0, false},
	}
	for i, tst := range tests {
		got, ok := PitchClass(tst.letter, tst.acc)
		if got != tst.want || ok != tst.ok {
			t.Errorf("#%d PitchClass(%q, %d) => %d, %v; expected %d, %v",
				i, tst.letter, tst.acc, got, ok, tst.want, tst.ok)
		}
	}
}

func TestFrequencyIncrement(t *testing.T) {
	if FrequencyIncrement(0) != 0 {
		t.Fatal("note offset 0 must be silence")
	}
	if got := FrequencyIncrement(122); got != FrequencyTable[61] {
		t.Errorf("FrequencyIncrement(122) => %#x, expected %#x", got, FrequencyTable[61])
	}
	if got := FrequencyIncrement(255); got != 0 {
		t.Errorf("out-of-range note offset should be silent, got %#x", got)
	}
}

func TestSignExtendNibble(t *testing.T) {
	tests := []struct {
		nibble byte
		want   int8
	}{
		{0x0, 0}, {0x7, 7}, {0x8, -8}, {0xF, -1},
	}
	for _, tst := range tests {
		if got := SignExtendNibble(tst.nibble); got != tst.want {
			t.Errorf("SignExtendNibble(%#x) => %d, expected %d", tst.nibble, got, tst.want)
		}
	}
}

func TestClampSample(t *testing.T) {
	if ClampSample(300) != SampleMax {
		t.Fatal("expected saturation at 255")
	}
	if ClampSample(10) != 10 {
		t.Fatal("expected pass-through under the ceiling")
	}
}

func TestIsControlAndLongNote(t *testing.T) {
	if !IsControlCommand(OpEnd) {
		t.Fatal("END must be a control command")
	}
	if IsControlCommand(0x71) {
		t.Fatal("short note with nonzero duration is not a control command")
	}
	if !IsLongNoteCommand(OpLongNoteAbs) || !IsLongNoteCommand(OpLongNoteRel) {
		t.Fatal("long note prefixes must be recognised")
	}
	if IsLongNoteCommand(OpDeactivate) {
		t.Fatal("deactivate/rest prefix is not a long note")
	}
}
