package flac

import (
	"fmt"

	"github.com/mewkiz/flacenc/frame"
	"github.com/mewkiz/flacenc/internal/bits"
	"github.com/mewkiz/flacenc/internal/bitwriter"
	"github.com/mewkiz/flacenc/internal/fixed"
	"github.com/mewkiz/flacenc/internal/rice"
	"github.com/mewkiz/flacenc/internal/sample"
	"github.com/mewkiz/pkg/errutil"
	"github.com/pkg/errors"
)

// --- [ Subframe ] ------------------------------------------------------------

// encodeSubframe encodes the given subframe with samples of bps bits, writing
// to bw.
func encodeSubframe[T sample.Int](bw *bitwriter.Writer, sf frame.Subframe[T], bps uint) error {
	// Encode subframe header.
	encodeSubframeHeader(bw, sf)

	// Encode audio samples.
	switch sf := sf.(type) {
	case *frame.Constant[T]:
		encodeConstantSamples(bw, sf, bps)
	case *frame.Verbatim[T]:
		encodeVerbatimSamples(bw, sf, bps)
	case *frame.Fixed[T]:
		if err := encodeFixedSamples(bw, sf, bps); err != nil {
			return errors.WithStack(err)
		}
	default:
		return errUnknownSubframe(sf)
	}
	return nil
}

// errUnknownSubframe returns an error for subframes outside of the closed set
// of subframe types.
func errUnknownSubframe(sf interface{}) error {
	return errutil.Newf("support for subframe type %T not yet implemented", sf)
}

// --- [ Subframe header ] -----------------------------------------------------

// encodeSubframeHeader encodes the header of the given subframe, writing to
// bw.
func encodeSubframeHeader[T sample.Int](bw *bitwriter.Writer, sf frame.Subframe[T]) {
	// Zero bit padding, to prevent sync-fooling string of 1s.
	bw.Put(1, 0x0)

	// Subframe type:
	//     000000 : SUBFRAME_CONSTANT
	//     000001 : SUBFRAME_VERBATIM
	//     00001x : reserved
	//     0001xx : reserved
	//     001xxx : if(xxx <= 4) SUBFRAME_FIXED, xxx=order ; else reserved
	//     01xxxx : reserved
	//     1xxxxx : SUBFRAME_LPC, xxxxx=order-1
	var x uint64
	switch sf := sf.(type) {
	case *frame.Constant[T]:
		// 000000 : SUBFRAME_CONSTANT
		x = 0x00
	case *frame.Verbatim[T]:
		// 000001 : SUBFRAME_VERBATIM
		x = 0x01
	case *frame.Fixed[T]:
		// 001xxx : if(xxx <= 4) SUBFRAME_FIXED, xxx=order ; else reserved
		x = 0x08 | uint64(sf.Order)
	}
	bw.Put(6, x)

	// <1+k> 'Wasted bits-per-sample' flag:
	//
	//     0 : no wasted bits-per-sample in source subblock, k=0
	//     1 : k wasted bits-per-sample in source subblock, k-1 follows, unary coded; e.g. k=3 => 001 follows, k=7 => 0000001 follows.
	//
	// Wasted bits-per-sample are never detected; always 0.
	bw.PutBool(false)
}

// putSample stores the sample as a two's complement integer of bps bits.
func putSample[T sample.Int](bw *bitwriter.Writer, s T, bps uint) {
	bw.Put(bps, bits.UintN(int64(s), bps))
}

// --- [ Constant samples ] ----------------------------------------------------

// encodeConstantSamples stores the given constant sample, writing to bw.
func encodeConstantSamples[T sample.Int](bw *bitwriter.Writer, sf *frame.Constant[T], bps uint) {
	// Unencoded constant value of the subblock, n = frame's bits-per-sample.
	putSample(bw, sf.Value, bps)
}

// --- [ Verbatim samples ] ----------------------------------------------------

// encodeVerbatimSamples stores the given samples verbatim (uncompressed),
// writing to bw.
func encodeVerbatimSamples[T sample.Int](bw *bitwriter.Writer, sf *frame.Verbatim[T], bps uint) {
	// Unencoded subblock; n = frame's bits-per-sample, i = frame's blocksize.
	for _, s := range sf.Samples {
		putSample(bw, s, bps)
	}
}

// --- [ Fixed samples ] -------------------------------------------------------

// encodeFixedSamples stores the given samples using linear prediction coding
// with a fixed set of predefined polynomial coefficients, writing to bw.
func encodeFixedSamples[T sample.Int](bw *bitwriter.Writer, sf *frame.Fixed[T], bps uint) error {
	if sf.Order < 1 || sf.Order > fixed.MaxOrder {
		return errutil.Newf("invalid fixed prediction order %d", sf.Order)
	}
	if len(sf.Warmup) != sf.Order {
		return errutil.Newf("warm-up sample count mismatch; expected %d, got %d", sf.Order, len(sf.Warmup))
	}
	// Encode unencoded warm-up samples.
	for _, s := range sf.Warmup {
		putSample(bw, s, bps)
	}

	// Encode subframe residuals.
	return encodeResiduals(bw, sf.Method, sf.Param, sf.Residuals)
}

// encodeResiduals encodes the residuals (prediction method error signals) of
// the subframe as a single Rice partition.
//
// ref: https://www.xiph.org/flac/format.html#residual
func encodeResiduals(bw *bitwriter.Writer, method frame.ResidualCodingMethod, param uint, residuals []int64) error {
	// 2 bits: Residual coding method.
	//    00: Rice coding with a 4-bit Rice parameter.
	//    01: Rice coding with a 5-bit Rice parameter.
	//    10: reserved.
	//    11: reserved.
	var maxParam uint
	switch method {
	case frame.ResidualCodingMethodRice1:
		maxParam = rice.MaxParam4
	case frame.ResidualCodingMethodRice2:
		maxParam = rice.MaxParam5
	default:
		return fmt.Errorf("encodeResiduals: reserved residual coding method bit pattern (%02b)", uint8(method))
	}
	if param > maxParam {
		return errutil.Newf("Rice parameter %d exceeds %d-bit parameter field", param, method.ParamSize())
	}
	bw.Put(2, uint64(method))

	// 4 bits: Partition order; a single partition holds all residuals.
	bw.Put(4, 0)

	// 4 or 5 bits: Rice parameter.
	//
	// ref: https://www.xiph.org/flac/format.html#rice_partition
	bw.Put(method.ParamSize(), uint64(param))
	rice.Write(bw, param, residuals)
	return nil
}
