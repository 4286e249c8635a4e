package frame

import (
	"github.com/mewkiz/flacenc/internal/fixed"
	"github.com/mewkiz/flacenc/internal/rice"
	"github.com/mewkiz/flacenc/internal/sample"
	"github.com/pkg/errors"
)

// A Subframe contains the encoded audio samples of one channel of an audio
// block; it is one of *Constant, *Verbatim or *Fixed.
//
// ref: https://www.xiph.org/flac/format.html#subframe
type Subframe[T sample.Int] interface {
	// Pred returns the prediction method used to encode the audio samples.
	Pred() Pred
	// NSamples returns the number of audio samples of the subframe.
	NSamples() int
	subframe(T)
}

// Pred specifies the prediction method used to encode the audio samples of a
// subframe.
type Pred uint8

// Prediction methods.
const (
	// PredConstant specifies that the subframe contains a constant sound. The
	// audio samples are encoded using run-length encoding. Since every audio
	// sample has the same constant value, a single unencoded audio sample is
	// stored in practice. It is replicated a number of times, as specified by
	// BlockSize in the frame header.
	PredConstant Pred = iota
	// PredVerbatim specifies that the subframe contains unencoded audio
	// samples. Random sound is often stored verbatim, since no prediction
	// method can compress it sufficiently.
	PredVerbatim
	// PredFixed specifies that the subframe contains linear prediction coded
	// audio samples. The coefficients of the prediction polynomial are selected
	// from a fixed set, and can represent 0th through fourth-order polynomials.
	// The prediction order (0 through 4) is stored within the subframe along
	// with the same number of unencoded warm-up samples. The remaining samples
	// are stored as Rice coded residuals of the prediction.
	PredFixed
)

func (pred Pred) String() string {
	switch pred {
	case PredConstant:
		return "constant"
	case PredVerbatim:
		return "verbatim"
	case PredFixed:
		return "fixed"
	}
	return "<invalid prediction method>"
}

// ResidualCodingMethod specifies a residual coding method.
type ResidualCodingMethod uint8

// Residual coding methods.
const (
	// Rice coding with a 4-bit Rice parameter (rice1).
	ResidualCodingMethodRice1 ResidualCodingMethod = 0
	// Rice coding with a 5-bit Rice parameter (rice2).
	ResidualCodingMethodRice2 ResidualCodingMethod = 1
)

// ParamSize returns the size in bits of the Rice parameter field of the
// residual coding method.
func (method ResidualCodingMethod) ParamSize() uint {
	if method == ResidualCodingMethodRice2 {
		return 5
	}
	return 4
}

// A Constant subframe holds a single sample value shared by the entire block.
type Constant[T sample.Int] struct {
	// Constant sample value.
	Value T
	// Number of audio samples.
	N int
}

// A Verbatim subframe holds unencoded audio samples.
type Verbatim[T sample.Int] struct {
	// Audio samples.
	Samples []T
}

// A Fixed subframe holds audio samples encoded using a fixed polynomial
// predictor.
type Fixed[T sample.Int] struct {
	// Prediction order, in the range [1, 4].
	Order int
	// Unencoded warm-up samples; Order many.
	Warmup []T
	// Prediction residuals of the remaining samples.
	Residuals []int64
	// Residual coding method.
	Method ResidualCodingMethod
	// Rice parameter of the single residual partition.
	Param uint
}

// NewFixed returns a fixed prediction subframe of the given order for the
// samples, using the optimal Rice parameter for its residuals.
func NewFixed[T sample.Int](samples []T, order int) (*Fixed[T], error) {
	if order < 1 || order > fixed.MaxOrder {
		return nil, errors.Wrapf(fixed.ErrInvalidOrder, "fixed subframe order %d not in range [1, %d]", order, fixed.MaxOrder)
	}
	if len(samples) < order {
		return nil, errors.Wrapf(fixed.ErrInvalidOrder, "order %d exceeds sample count %d", order, len(samples))
	}
	residuals := fixed.Residuals(samples, order)
	param := rice.OptimalParam(residuals, rice.MaxParam5)
	method := ResidualCodingMethodRice1
	if param > rice.MaxParam4 {
		method = ResidualCodingMethodRice2
	}
	sf := &Fixed[T]{
		Order:     order,
		Warmup:    fixed.Warmup(samples, order),
		Residuals: residuals,
		Method:    method,
		Param:     param,
	}
	return sf, nil
}

// Pred returns PredConstant.
func (*Constant[T]) Pred() Pred { return PredConstant }

// Pred returns PredVerbatim.
func (*Verbatim[T]) Pred() Pred { return PredVerbatim }

// Pred returns PredFixed.
func (*Fixed[T]) Pred() Pred { return PredFixed }

func (sf *Constant[T]) NSamples() int { return sf.N }
func (sf *Verbatim[T]) NSamples() int { return len(sf.Samples) }
func (sf *Fixed[T]) NSamples() int    { return len(sf.Warmup) + len(sf.Residuals) }

func (*Constant[T]) subframe(T) {}
func (*Verbatim[T]) subframe(T) {}
func (*Fixed[T]) subframe(T)    {}
