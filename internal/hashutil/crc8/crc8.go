// Package crc8 implements the 8-bit cyclic redundancy check, or CRC-8,
// checksum.
//
// Checksums are computed most significant bit first, with no reflection and
// an initial value of 0.
package crc8

// Predefined polynomials.
const (
	// ATM is the polynomial x^8 + x^2 + x^1 + x^0 used by FLAC frame headers.
	ATM = 0x07
)

// Table is a 256-byte table representing the polynomial for efficient
// processing.
type Table [256]uint8

// ATMTable is the table for the ATM polynomial.
var ATMTable = makeTable(ATM)

// makeTable returns the Table constructed from the specified polynomial.
func makeTable(poly uint8) *Table {
	t := new(Table)
	for i := range t {
		crc := uint8(i)
		for j := 0; j < 8; j++ {
			if crc&0x80 != 0 {
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
func Update(crc uint8, table *Table, p []byte) uint8 {
	for _, v := range p {
		crc = table[crc^v]
	}
	return crc
}

// ChecksumATM returns the CRC-8 checksum of data using the ATM polynomial.
func ChecksumATM(data []byte) uint8 { return Update(0, ATMTable, data) }
