// Package fixed computes the residuals of the fixed polynomial predictors of
// FLAC.
//
// The fixed predictor of order k approximates a sample by the polynomial
// through the k preceding samples, which makes the residual of order k the
// k-th backward difference of the signal:
//
//	order 0: e[n] = x[n]
//	order 1: e[n] = x[n] - x[n-1]
//	order 2: e[n] = x[n] - 2x[n-1] + x[n-2]
//	order 3: e[n] = x[n] - 3x[n-1] + 3x[n-2] - x[n-3]
//	order 4: e[n] = x[n] - 4x[n-1] + 6x[n-2] - 4x[n-3] + x[n-4]
//
// ref: https://www.xiph.org/flac/format.html#subframe_fixed
package fixed

import (
	"github.com/mewkiz/flacenc/internal/sample"
	"github.com/pkg/errors"
)

// MaxOrder is the highest fixed predictor order.
const MaxOrder = 4

// ErrInvalidOrder is returned for predictor orders outside of [0, MaxOrder].
var ErrInvalidOrder = errors.New("invalid fixed predictor order")

// Validate reports whether order is a valid fixed predictor order.
func Validate(order int) error {
	if order < 0 || order > MaxOrder {
		return errors.Wrapf(ErrInvalidOrder, "order %d not in range [0, %d]", order, MaxOrder)
	}
	return nil
}

// Residuals returns the residuals of the fixed predictor of the given order,
// one for each sample following the order warm-up samples. Order 0 returns
// the samples themselves.
//
// Residuals are computed in 64-bit arithmetic; the k-th difference of samples
// of width b bits is bounded in magnitude by 2^(b-1+k), which fits for the
// 33-bit side channel of 32-bit audio at order 4.
//
// Residuals panics if order is invalid or if there are fewer samples than the
// order.
func Residuals[S sample.Int](samples []S, order int) []int64 {
	if err := Validate(order); err != nil {
		panic(err)
	}
	if len(samples) < order {
		panic(errors.Errorf("fixed.Residuals: %d samples is less than order %d", len(samples), order))
	}
	d := make([]int64, len(samples))
	for i, s := range samples {
		d[i] = int64(s)
	}
	// Each pass replaces the signal with its first backward difference,
	// iterating from the end so that d[i-1] still holds the previous pass.
	for pass := 1; pass <= order; pass++ {
		for i := len(d) - 1; i >= pass; i-- {
			d[i] -= d[i-1]
		}
	}
	return d[order:]
}

// Warmup returns the warm-up samples of the fixed predictor of the given
// order, which are stored verbatim ahead of the residuals.
func Warmup[S sample.Int](samples []S, order int) []S {
	return samples[:order]
}
