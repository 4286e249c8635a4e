// Package rice implements Rice coding of prediction residuals.
//
// A residual is first folded to an unsigned integer u, and then stored as the
// quotient u>>k in unary (zeros terminated by a one) followed by the k least
// significant bits of u.
//
// ref: https://www.xiph.org/flac/format.html#partitioned_rice
package rice

import (
	"math"

	"github.com/mewkiz/flacenc/internal/bits"
	"github.com/mewkiz/flacenc/internal/bitwriter"
)

// Rice parameter limits of the residual coding methods. The all-ones pattern
// of each parameter field is reserved as escape code.
const (
	// MaxParam4 is the largest parameter of a 4-bit parameter field.
	MaxParam4 = 14
	// MaxParam5 is the largest parameter of a 5-bit parameter field.
	MaxParam5 = 30
)

// ZigZag folds a signed residual into an unsigned integer; non-negative
// values v map to 2v and negative values to -2v-1.
func ZigZag(v int64) uint64 {
	return bits.EncodeZigZag(v)
}

// Write stores the residuals Rice coded with parameter k, writing to bw.
func Write(bw *bitwriter.Writer, k uint, residuals []int64) {
	mask := uint64(1)<<k - 1
	for _, v := range residuals {
		u := ZigZag(v)
		bits.WriteUnary(bw, u>>k)
		bw.Put(k, u&mask)
	}
}

// Len returns the length in bits of the residuals Rice coded with parameter k.
func Len(residuals []int64, k uint) uint64 {
	var n uint64
	for _, v := range residuals {
		n += bits.UnaryLen(ZigZag(v)>>k) + uint64(k)
	}
	return n
}

// OptimalParam returns the Rice parameter in [0, maxParam] which minimizes the
// coded length of the residuals. Ties are resolved in favour of the smaller
// parameter, and empty or all-zero residuals give 0.
func OptimalParam(residuals []int64, maxParam uint) uint {
	var (
		best    uint
		bestLen uint64 = math.MaxUint64
	)
	for k := uint(0); k <= maxParam; k++ {
		if n := Len(residuals, k); n < bestLen {
			best, bestLen = k, n
		}
	}
	return best
}
