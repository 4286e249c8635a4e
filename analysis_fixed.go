package flac

import (
	"github.com/mewkiz/flacenc/frame"
	"github.com/mewkiz/flacenc/internal/fixed"
	"github.com/mewkiz/flacenc/internal/rice"
	"github.com/mewkiz/flacenc/internal/sample"
)

// analyzeSubframe selects the representation of the given subblock that
// produces the smallest subframe, and returns the subframe together with its
// length in bytes.
//
// The candidates are evaluated in order:
//  1. Constant, chosen unconditionally if every sample is identical.
//  2. Verbatim.
//  3. Fixed prediction of order 1 through 4.
//
// A fixed candidate replaces the verbatim candidate at equal length, while a
// higher fixed order must be strictly smaller to replace a lower one.
func analyzeSubframe[T sample.Int](samples []T, bps uint) (frame.Subframe[T], int) {
	if isConstant(samples) {
		sf := &frame.Constant[T]{Value: samples[0], N: len(samples)}
		return sf, subframeBytes[T](sf, bps)
	}
	var best frame.Subframe[T] = &frame.Verbatim[T]{Samples: samples}
	bestLen := subframeBytes(best, bps)
	for order := 1; order <= fixed.MaxOrder && order < len(samples); order++ {
		sf, err := frame.NewFixed(samples, order)
		if err != nil {
			// unreachable; the order and sample count are checked above.
			panic(err)
		}
		n := subframeBytes[T](sf, bps)
		if n < bestLen || (n == bestLen && best.Pred() == frame.PredVerbatim) {
			best, bestLen = sf, n
		}
	}
	return best, bestLen
}

// isConstant reports whether every sample of the non-empty subblock is
// identical.
func isConstant[T sample.Int](samples []T) bool {
	if len(samples) == 0 {
		return false
	}
	for _, s := range samples[1:] {
		if s != samples[0] {
			return false
		}
	}
	return true
}

// subframeBytes returns the length in bytes of the subframe, as stored by
// encodeSubframe in a bit writer of its own.
func subframeBytes[T sample.Int](sf frame.Subframe[T], bps uint) int {
	return int((subframeBits(sf, bps) + 7) / 8)
}

// subframeBits returns the length in bits of the subframe, with samples of bps
// bits.
func subframeBits[T sample.Int](sf frame.Subframe[T], bps uint) uint64 {
	// 1 bit: zero padding.
	// 6 bits: subframe type.
	// 1 bit: wasted bits-per-sample flag.
	const hdrBits = 1 + 6 + 1
	switch sf := sf.(type) {
	case *frame.Constant[T]:
		return hdrBits + uint64(bps)
	case *frame.Verbatim[T]:
		return hdrBits + uint64(len(sf.Samples))*uint64(bps)
	case *frame.Fixed[T]:
		// 2 bits: residual coding method.
		// 4 bits: partition order.
		const residualHdrBits = 2 + 4
		n := hdrBits + uint64(sf.Order)*uint64(bps) + residualHdrBits
		n += uint64(sf.Method.ParamSize())
		n += rice.Len(sf.Residuals, sf.Param)
		return n
	default:
		panic(errUnknownSubframe(sf))
	}
}
