package flac

import (
	"github.com/mewkiz/flacenc/internal/sample"
)

// A block holds the samples of each channel of one time-slice of the audio
// stream, converted to the sample type S. Blocks of two channels additionally
// hold the derived mid and side channels.
type block[S, W sample.Int] struct {
	// Subblocks of each channel.
	channels [][]S
	// Mid (average) channel; nil if not representable in S.
	mid []S
	// Side (difference) channel; nil if not representable in bps+1 bits.
	side []W
}

// newBlock returns a block of the given channels of samples with bps
// bits-per-sample. Every sample must be representable in bps bits.
func newBlock[S, W sample.Int](channels [][]int32, bps uint) *block[S, W] {
	b := &block[S, W]{
		channels: make([][]S, len(channels)),
	}
	for i, ch := range channels {
		subblock := make([]S, len(ch))
		for j, x := range ch {
			subblock[j] = S(x)
		}
		b.channels[i] = subblock
	}
	// Side channels of up to 33 bits fit in W.
	if len(channels) == 2 && bps+1 <= 33 {
		b.mid, b.side = decorrelate[S, W](b.channels[0], b.channels[1], bps)
	}
	return b
}

// decorrelate derives the mid and side channels of the left and right
// channels. The side channel is nil if any of its samples requires more than
// bps+1 bits, in which case the mid channel is nil as well.
func decorrelate[S, W sample.Int](left, right []S, bps uint) (mid []S, side []W) {
	mid = make([]S, len(left))
	side = make([]W, len(left))
	midOK := true
	for i := range left {
		l, r := left[i], right[i]
		m, ok := sample.Narrow[S](sample.Mid[S, W](l, r))
		if !ok {
			midOK = false
		}
		mid[i] = m
		s := sample.Side[W](l, r)
		if !sample.Fits(int64(s), bps+1) {
			return nil, nil
		}
		side[i] = s
	}
	if !midOK {
		return nil, side
	}
	return mid, side
}
