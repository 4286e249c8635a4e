package crc16

import "testing"

func TestChecksumIBM(t *testing.T) {
	golden := []struct {
		in   string
		want uint16
	}{
		{in: "", want: 0x0000},
		{in: "123456789", want: 0xFEE8},
		{in: "The quick brown fox jumps over the lazy dog", want: 0x60AE},
		{in: "\xFF\xF8\x19\x08\x00\xBA\x00\x00\x00", want: 0x30B2},
	}
	for _, g := range golden {
		if got := ChecksumIBM([]byte(g.in)); got != g.want {
			t.Errorf("%q: checksum mismatch; expected 0x%04X, got 0x%04X", g.in, g.want, got)
		}
	}
}

func TestUpdate(t *testing.T) {
	// Incremental updates equal a single checksum.
	var crc uint16
	for _, s := range []string{"123", "456", "789"} {
		crc = Update(crc, IBMTable, []byte(s))
	}
	if crc != 0xFEE8 {
		t.Errorf("checksum mismatch; expected 0xFEE8, got 0x%04X", crc)
	}
}

func TestIBMTable(t *testing.T) {
	for i := 0; i < 256; i++ {
		if got, want := IBMTable[i], ChecksumIBM([]byte{byte(i)}); got != want {
			t.Errorf("entry %d: mismatch; expected 0x%04X, got 0x%04X", i, want, got)
		}
	}
	if IBMTable[1] != IBM {
		t.Errorf("entry 1: expected polynomial 0x%04X, got 0x%04X", IBM, IBMTable[1])
	}
}
