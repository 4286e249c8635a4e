package bits

import (
	"io"

	"github.com/icza/bitio"
)

// A Reader reads bit fields, most significant bit first, from an underlying
// io.Reader. It is the counterpart of bitwriter.Writer and is used to verify
// encoded bit streams.
type Reader struct {
	br *bitio.Reader
}

// NewReader returns a new bit reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bitio.NewReader(r)}
}

// Read reads and returns the next n bits, at most 64.
func (br *Reader) Read(n uint) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	return br.br.ReadBits(uint8(n))
}
