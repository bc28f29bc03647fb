package objfile

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"bin": Binary, "pap": PAP, "ihex": IntelHex}
	for name, want := range cases {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v; want %v, nil", name, got, err, want)
		}
	}
	if _, err := ParseFormat("weird"); err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}

func TestWriteBinaryIsRawBytes(t *testing.T) {
	var buf bytes.Buffer
	data := []byte{0x10, 0x64, 0x00}
	if err := Write(&buf, Binary, data, 0x0200); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), data) {
		t.Fatalf("binary output should be the raw bytes verbatim, got %X", buf.Bytes())
	}
}

func TestWritePAPRecordFormat(t *testing.T) {
	var buf bytes.Buffer
	data := []byte{0x10, 0x64, 0x00}
	if err := Write(&buf, PAP, data, 0x0200); err != nil {
		t.Fatalf("Write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one data record and one trailer, got %d lines: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], ";030200") {
		t.Fatalf("expected a length-3 record at address 0200, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], ";0000") {
		t.Fatalf("expected a PAP trailer record, got %q", lines[1])
	}
}

func TestWriteIntelHexRecordFormat(t *testing.T) {
	var buf bytes.Buffer
	data := []byte{0x10, 0x64, 0x00}
	if err := Write(&buf, IntelHex, data, 0x0200); err != nil {
		t.Fatalf("Write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one data record and one EOF record, got %d lines: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], ":03020000") {
		t.Fatalf("expected a length-3 record at address 0200 type 00, got %q", lines[0])
	}
	if lines[1] != ":00000001FF" {
		t.Fatalf("expected the standard Intel HEX EOF record, got %q", lines[1])
	}
}

func TestIntelHexChecksumIsTwosComplement(t *testing.T) {
	// A single byte 0x00 at address 0x0000: length=1, addr=0, data=0,
	// sum=1, two's complement checksum = 0xFF.
	var buf bytes.Buffer
	if err := Write(&buf, IntelHex, []byte{0x00}, 0x0000); err != nil {
		t.Fatalf("Write: %v", err)
	}
	line := strings.Split(buf.String(), "\n")[0]
	want := ":0100000000FF"
	if line != want {
		t.Fatalf("checksum record = %q, want %q", line, want)
	}
}

func TestWriteEmptyDataProducesNoOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, PAP, nil, 0); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty data, got %q", buf.String())
	}
}

func TestLongPayloadSplitsAcrossMultipleLines(t *testing.T) {
	data := make([]byte, 50)
	var buf bytes.Buffer
	if err := Write(&buf, PAP, data, 0); err != nil {
		t.Fatalf("Write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// 50 bytes at 24 per line -> 3 data lines + 1 trailer.
	if len(lines) != 4 {
		t.Fatalf("expected 3 data records + 1 trailer, got %d: %q", len(lines), lines)
	}
}

func TestPAPRoundTrip(t *testing.T) {
	data := []byte{0x50, 0x04, 0x90, 0x00, 0x90, 0x01, 0x10, 0x64, 0x00}
	var buf bytes.Buffer
	if err := Write(&buf, PAP, data, 0x0300); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, addr, err := Decode(&buf, PAP)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %X, want %X", got, data)
	}
	if addr != 0x0300 {
		t.Fatalf("round trip base address = %#04x, want 0x0300", addr)
	}
}

func TestIntelHexRoundTrip(t *testing.T) {
	data := []byte{0x50, 0x04, 0x90, 0x00, 0x90, 0x01, 0x10, 0x64, 0x00}
	var buf bytes.Buffer
	if err := Write(&buf, IntelHex, data, 0x0300); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, addr, err := Decode(&buf, IntelHex)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %X, want %X", got, data)
	}
	if addr != 0x0300 {
		t.Fatalf("round trip base address = %#04x, want 0x0300", addr)
	}
}

func TestMultiLinePAPRoundTrip(t *testing.T) {
	data := make([]byte, 50)
	for i := range data {
		data[i] = byte(i)
	}
	var buf bytes.Buffer
	if err := Write(&buf, PAP, data, 0x1000); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, addr, err := Decode(&buf, PAP)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch across multiple records")
	}
	if addr != 0x1000 {
		t.Fatalf("round trip base address = %#04x, want 0x1000", addr)
	}
}

func TestDecodeBinaryReturnsRawBytes(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	got, _, err := Decode(bytes.NewReader(data), Binary)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("binary decode = %X, want %X", got, data)
	}
}

func TestDecodeRejectsCorruptedPAPChecksum(t *testing.T) {
	data := []byte{0x10, 0x64, 0x00}
	var buf bytes.Buffer
	if err := Write(&buf, PAP, data, 0x0200); err != nil {
		t.Fatalf("Write: %v", err)
	}

	corrupted := corruptChecksum(t, buf.String())
	if _, _, err := Decode(strings.NewReader(corrupted), PAP); err == nil {
		t.Fatalf("expected a checksum mismatch error for a corrupted PAP record")
	}
}

func TestDecodeRejectsCorruptedIntelHexChecksum(t *testing.T) {
	data := []byte{0x10, 0x64, 0x00}
	var buf bytes.Buffer
	if err := Write(&buf, IntelHex, data, 0x0200); err != nil {
		t.Fatalf("Write: %v", err)
	}

	corrupted := corruptChecksum(t, buf.String())
	if _, _, err := Decode(strings.NewReader(corrupted), IntelHex); err == nil {
		t.Fatalf("expected a checksum mismatch error for a corrupted Intel HEX record")
	}
}

// corruptChecksum flips the last hex digit of the first line, which is
// always part of that record's checksum field in both formats.
func corruptChecksum(t *testing.T, encoded string) string {
	t.Helper()
	lines := strings.SplitN(encoded, "\n", 2)
	line := lines[0]
	last := line[len(line)-1]
	flipped := byte('0')
	if last == '0' {
		flipped = '1'
	}
	lines[0] = line[:len(line)-1] + string(flipped)
	return strings.Join(lines, "\n")
}
