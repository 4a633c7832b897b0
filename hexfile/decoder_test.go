package hexfile

import (
	"strings"
	"testing"
)

func mustDecode(t *testing.T, src string) *Image {
	t.Helper()
	img, err := DecodeReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DecodeReader: %v", err)
	}
	return img
}

func TestDecodeDataRecord(t *testing.T) {
	// 16 bytes 00..0F at address 0, then EOF.
	img := mustDecode(t, ":10000000000102030405060708090A0B0C0D0E0F78\n:00000001FF\n")

	if img.Len() != 16 {
		t.Fatalf("Len() = %d, want 16", img.Len())
	}
	for i := 0; i < 16; i++ {
		b, ok := img.Lookup(uint16(i))
		if !ok || b != byte(i) {
			t.Fatalf("Lookup(%d) = %v,%v, want %d,true", i, b, ok, i)
		}
	}
}

func TestDecodeBadChecksum(t *testing.T) {
	// Flip the final checksum byte of a valid line.
	_, err := DecodeReader(strings.NewReader(":10000000000102030405060708090A0B0C0D0E0F69\n:00000001FF\n"))
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if perr.Kind != BadChecksum {
		t.Fatalf("Kind = %v, want BadChecksum", perr.Kind)
	}
	if perr.Line != 1 {
		t.Fatalf("Line = %d, want 1", perr.Line)
	}
}

func TestDecodeSingleBitFlipBreaksChecksum(t *testing.T) {
	good := ":10000000000102030405060708090A0B0C0D0E0F78\n:00000001FF\n"
	// Flip one bit in the first data byte (00 -> 01) without touching the checksum.
	bad := strings.Replace(good, ":10000000000102", ":10000000010102", 1)

	if _, err := DecodeReader(strings.NewReader(good)); err != nil {
		t.Fatalf("baseline should decode cleanly: %v", err)
	}
	_, err := DecodeReader(strings.NewReader(bad))
	perr, ok := err.(*ParseError)
	if !ok || perr.Kind != BadChecksum {
		t.Fatalf("err = %v, want BadChecksum", err)
	}
}

func TestDecodeMissingColon(t *testing.T) {
	_, err := DecodeReader(strings.NewReader("10000000000102030405060708090A0B0C0D0E0F68\n:00000001FF\n"))
	perr, ok := err.(*ParseError)
	if !ok || perr.Kind != MalformedLine {
		t.Fatalf("err = %v, want MalformedLine", err)
	}
}

func TestDecodeOddHexLength(t *testing.T) {
	_, err := DecodeReader(strings.NewReader(":1000000000102030405060708090A0B0C0D0E0F68\n:00000001FF\n"))
	perr, ok := err.(*ParseError)
	if !ok || perr.Kind != MalformedLine {
		t.Fatalf("err = %v, want MalformedLine", err)
	}
}

func TestDecodeLowercaseHexRejected(t *testing.T) {
	_, err := DecodeReader(strings.NewReader(":10000000000102030405060708090a0b0c0d0e0f78\n:00000001FF\n"))
	perr, ok := err.(*ParseError)
	if !ok || perr.Kind != MalformedLine {
		t.Fatalf("err = %v, want MalformedLine", err)
	}
}

func TestDecodeUnexpectedRecordType(t *testing.T) {
	// Record type 04 (extended linear address), not handled.
	_, err := DecodeReader(strings.NewReader(":02000004FFFFFC\n:00000001FF\n"))
	perr, ok := err.(*ParseError)
	if !ok || perr.Kind != UnexpectedRecordType {
		t.Fatalf("err = %v, want UnexpectedRecordType", err)
	}
}

func TestDecodeTrailingContent(t *testing.T) {
	_, err := DecodeReader(strings.NewReader(":00000001FF\n:10000000000102030405060708090A0B0C0D0E0F78\n"))
	perr, ok := err.(*ParseError)
	if !ok || perr.Kind != TrailingContent {
		t.Fatalf("err = %v, want TrailingContent", err)
	}
}

func TestDecodeMissingEOF(t *testing.T) {
	_, err := DecodeReader(strings.NewReader(":10000000000102030405060708090A0B0C0D0E0F78\n"))
	perr, ok := err.(*ParseError)
	if !ok || perr.Kind != MalformedLine {
		t.Fatalf("err = %v, want MalformedLine", err)
	}
}

func TestRoundTrip(t *testing.T) {
	src := ":10000000000102030405060708090A0B0C0D0E0F78\n" +
		":10001000101112131415161718191A1B1C1D1E1F68\n" +
		":00000001FF\n"

	img := mustDecode(t, src)
	canon := Encode(img)

	img2, err := DecodeReader(strings.NewReader(canon))
	if err != nil {
		t.Fatalf("re-decode of canonical form failed: %v", err)
	}

	lo, hi, ok := img.Range()
	lo2, hi2, ok2 := img2.Range()
	if ok != ok2 || lo != lo2 || hi != hi2 {
		t.Fatalf("range mismatch: (%d,%d,%v) vs (%d,%d,%v)", lo, hi, ok, lo2, hi2, ok2)
	}
	for addr := lo; addr <= hi; addr++ {
		b1, ok1 := img.Lookup(addr)
		b2, ok2 := img2.Lookup(addr)
		if ok1 != ok2 || b1 != b2 {
			t.Fatalf("byte mismatch at %d: (%v,%v) vs (%v,%v)", addr, b1, ok1, b2, ok2)
		}
	}
}

func TestCRLFTolerated(t *testing.T) {
	src := ":10000000000102030405060708090A0B0C0D0E0F78\r\n:00000001FF\r\n"
	img := mustDecode(t, src)
	if img.Len() != 16 {
		t.Fatalf("Len() = %d, want 16", img.Len())
	}
}
