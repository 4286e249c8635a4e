// Package crc16 implements the 16-bit cyclic redundancy check, or CRC-16,
// checksum.
//
// Checksums are computed most significant bit first, with no reflection and
// an initial value of 0.
package crc16

// Predefined polynomials.
const (
	// IBM is the polynomial x^16 + x^15 + x^2 + x^0 used by FLAC frames.
	IBM = 0x8005
)

// Table is a 256-word table representing the polynomial for efficient
// processing.
type Table [256]uint16

// IBMTable is the table for the IBM polynomial.
var IBMTable = makeTable(IBM)

// makeTable returns the Table constructed from the specified polynomial.
func makeTable(poly uint16) *Table {
	t := new(Table)
	for i := range t {
		crc := uint16(i) << 8
		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}

// Update returns the result of adding the bytes in p to the crc.
func Update(crc uint16, table *Table, p []byte) uint16 {
	for _, v := range p {
		crc = crc<<8 ^ table[byte(crc>>8)^v]
	}
	return crc
}

// ChecksumIBM returns the CRC-16 checksum of data using the IBM polynomial.
func ChecksumIBM(data []byte) uint16 { return Update(0, IBMTable, data) }
