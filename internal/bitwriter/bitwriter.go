// Package bitwriter implements a bit-granular writer which accumulates bit
// fields of arbitrary width into a byte buffer, most significant bit first.
//
// Bits are staged in a 64-bit scratch register and moved to the byte buffer
// whenever the register fills up, or on request through Flush and Align.
package bitwriter

import "fmt"

// scratchBits is the width in bits of the scratch register.
const scratchBits = 64

// A Writer accumulates bit fields into a byte buffer.
//
// The number of pending bits in scratch is always strictly less than 64 in
// between calls.
type Writer struct {
	// Flushed bytes.
	buf []byte
	// Pending bits, left-aligned; bit 63 is the oldest pending bit.
	scratch uint64
	// Number of pending bits in scratch.
	n uint
}

// New returns a new bit writer.
func New() *Writer {
	return &Writer{}
}

// NewSize returns a new bit writer with an initial buffer capacity of size
// bytes.
func NewSize(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

// Put appends the n least significant bits of x, most significant bit first.
// Bits of x above n are ignored. Put panics if n is larger than 64; wider
// fields must be split into several calls by the caller.
func (w *Writer) Put(n uint, x uint64) {
	if n > scratchBits {
		panic(fmt.Errorf("bitwriter.Writer.Put: bit count %d exceeds scratch width %d", n, scratchBits))
	}
	if n == 0 {
		return
	}
	if n < scratchBits {
		x &= 1<<n - 1
	}
	free := scratchBits - w.n
	if n <= free {
		w.scratch |= x << (free - n)
		w.n += n
		if w.n == scratchBits {
			w.Flush()
		}
		return
	}
	// Split the write in two chunks; the high bits fill up the scratch
	// register, which is then flushed, and the low bits start over.
	rest := n - free
	w.scratch |= x >> rest
	w.n = scratchBits
	w.Flush()
	w.scratch |= (x & (1<<rest - 1)) << (scratchBits - w.n - rest)
	w.n += rest
}

// PutBool appends a single bit; 1 if b is true and 0 otherwise.
func (w *Writer) PutBool(b bool) {
	if b {
		w.Put(1, 1)
		return
	}
	w.Put(1, 0)
}

// PutBytes appends the bytes of p.
func (w *Writer) PutBytes(p []byte) {
	if w.n == 0 {
		w.buf = append(w.buf, p...)
		return
	}
	for _, b := range p {
		w.Put(8, uint64(b))
	}
}

// Flush moves all complete bytes of the scratch register to the byte buffer.
// A trailing partial byte is kept in the scratch register for future writes.
func (w *Writer) Flush() {
	nbytes := w.n / 8
	for i := uint(0); i < nbytes; i++ {
		w.buf = append(w.buf, byte(w.scratch>>(scratchBits-8*(i+1))))
	}
	w.scratch <<= 8 * nbytes
	w.n -= 8 * nbytes
}

// Align pads the pending bits with zeros up to the next byte boundary and
// flushes the scratch register. It returns the number of padding bits, which
// is in the range [0, 7].
func (w *Writer) Align() int {
	pad := (8 - w.n%8) % 8
	w.n += pad
	w.Flush()
	return int(pad)
}

// Finish aligns and flushes the pending bits and returns the byte buffer. The
// writer must not be used after Finish.
func (w *Writer) Finish() []byte {
	w.Align()
	buf := w.buf
	w.buf = nil
	return buf
}

// Bytes returns the bytes flushed so far. The slice is valid until the next
// write.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes flushed so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// BitLen returns the total number of bits written so far, flushed or not.
func (w *Writer) BitLen() int {
	return 8*len(w.buf) + int(w.n)
}
