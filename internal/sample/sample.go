// Package sample models PCM sample widths and their widened counterparts.
//
// A sample type S is paired with a widened type W holding at least one more bit
// of range, so that sums and differences of two samples never overflow. The
// pairs used by the encoder are int16/int32 for samples of up to 16 bits, and
// int32/int64 for samples of up to 32 bits.
package sample

import (
	"encoding/binary"
)

// Int is the set of integer types used to hold audio samples.
type Int interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// Widen converts the sample s to the wider type W. W must be at least as wide
// as S.
func Widen[W, S Int](s S) W {
	return W(s)
}

// Narrow converts w to the narrower type S. The boolean result reports whether
// w is representable in S; the returned sample is only valid if it is.
func Narrow[S, W Int](w W) (S, bool) {
	s := S(w)
	return s, W(s) == w
}

// Fits reports whether x is representable as a two's complement integer of
// bps bits.
func Fits(x int64, bps uint) bool {
	if bps >= 64 {
		return true
	}
	lo := -int64(1) << (bps - 1)
	hi := int64(1)<<(bps-1) - 1
	return lo <= x && x <= hi
}

// Mid returns the average of the left and right samples, computed in the
// widened type W and rounded toward negative infinity by an arithmetic shift.
// The result always fits in S.
func Mid[S, W Int](l, r S) W {
	return (Widen[W](l) + Widen[W](r)) >> 1
}

// Side returns the difference between the left and right samples in the
// widened type W.
func Side[W, S Int](l, r S) W {
	return Widen[W](l) - Widen[W](r)
}

// AppendBytes appends the nbytes least significant bytes of the two's
// complement representation of s to dst, using the given byte order.
func AppendBytes[S Int](dst []byte, s S, nbytes int, order binary.ByteOrder) []byte {
	x := uint64(int64(s))
	if order == binary.BigEndian {
		for i := nbytes - 1; i >= 0; i-- {
			dst = append(dst, byte(x>>(8*uint(i))))
		}
		return dst
	}
	for i := 0; i < nbytes; i++ {
		dst = append(dst, byte(x>>(8*uint(i))))
	}
	return dst
}

// FromBytes decodes a signed sample of len(b) bytes stored in the given byte
// order, sign-extending it to 64 bits.
func FromBytes(b []byte, order binary.ByteOrder) int64 {
	var x uint64
	if order == binary.BigEndian {
		for _, c := range b {
			x = x<<8 | uint64(c)
		}
	} else {
		for i := len(b) - 1; i >= 0; i-- {
			x = x<<8 | uint64(b[i])
		}
	}
	n := uint(8 * len(b))
	if n == 0 || n >= 64 {
		return int64(x)
	}
	// Sign-extend.
	shift := 64 - n
	return int64(x<<shift) >> shift
}

// BytesPerSample returns the number of bytes used to store a sample of bps
// bits in byte oriented PCM formats.
func BytesPerSample(bps uint) int {
	return int((bps + 7) / 8)
}
