package isa

// PitchLetterTable maps (letter*3 + accidental - 2) to a pitch-class
// value in [1,12]. Index with PitchClass.
var PitchLetterTable = [21]uint8{
	9, 10, 11, 11, 12, 1, 12, 1, 2, 2, 3, 4, 4, 5, 6, 5, 6, 7, 7, 8, 9,
}

// PitchClass returns the pitch-letter-table index for note letter
// 'A'..'G' with accidental -1 (flat), 0 (natural) or +1 (sharp).
func PitchClass(letter byte, accidental int) (uint8, bool) {
	if letter < 'A' || letter > 'G' {
		return 0, false
	}
	value := (int(letter-'A') + 1) * 3 + accidental
	idx := value - 2
	if idx < 0 || idx >= len(PitchLetterTable) {
		return 0, false
	}
	return PitchLetterTable[idx], true
}

// DurationCodeTable maps (letter*3 + dot/triplet - 2) to a duration code
// in [1,15]; zero means the combination is illegal (e.g. a whole triplet).
var DurationCodeTable = [18]uint8{
	0, 1, 0, 2, 3, 5, 4, 6, 8, 7, 9, 11, 10, 12, 14, 13, 15, 0,
}

// DurationLetters is the ordered set of base duration letters:
// Whole, Half, Quarter, Eighth, Sixteenth, Thirty-second.
const DurationLetters = "WHQEST"

// DurationTable maps a duration code (1-15) to the number of 1/192 whole
// note time units it represents. Index 0 is unused (never emitted).
var DurationTable = [16]uint8{
	0, 192, 144, 96, 72, 64, 48, 36, 32, 24, 18, 16, 12, 9, 8, 6,
}

// FrequencyTable holds the 62 phase increments (Q8.8 fixed point) used to
// step a voice's phase accumulator, indexed by note_offset/2. Entry 0 is
// silence. Calibrated for a sample rate of 8772 Hz.
var FrequencyTable = [NumNotes]uint16{
	0x0000, 0x00F4, 0x0103, 0x0112, 0x0123, 0x0134, 0x0146, 0x015A,
	0x016E, 0x0184, 0x019B, 0x01B3, 0x01CD, 0x01E9, 0x0206, 0x0225,
	0x0245, 0x0268, 0x028C, 0x02B3, 0x02DC, 0x0308, 0x0336, 0x0367,
	0x039A, 0x03D1, 0x040B, 0x0449, 0x048A, 0x04CF, 0x0519, 0x0566,
	0x05B8, 0x060F, 0x066C, 0x06CD, 0x0735, 0x07A3, 0x0817, 0x0892,
	0x0915, 0x099F, 0x0A31, 0x0ACC, 0x0B71, 0x0C1F, 0x0CD7, 0x0D9B,
	0x0E6A, 0x0F45, 0x102E, 0x1124, 0x1229, 0x133E, 0x1462, 0x1599,
	0x16E2, 0x183E, 0x19AF, 0x1B36, 0x1CD4, 0x1E8B,
}

// DefaultSampleRate is the sample rate FrequencyTable is calibrated for.
const DefaultSampleRate = 8772

// FrequencyIncrement returns the phase increment for a note offset,
// or 0 (silence) if the offset falls outside the table.
func FrequencyIncrement(noteOffset uint8) uint16 {
	idx := int(noteOffset) / 2
	if idx < 0 || idx >= NumNotes {
		return 0
	}
	return FrequencyTable[idx]
}
