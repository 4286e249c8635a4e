package flac

import (
	"github.com/mewkiz/flacenc/frame"
	"github.com/mewkiz/flacenc/internal/sample"
	"golang.org/x/sync/errgroup"
)

// A blockAnalyzer selects the channel layout and subframes of blocks with
// samples of type S and side channels of type W.
type blockAnalyzer[S, W sample.Int] struct {
	// Sample size in bits-per-sample.
	bps uint
	// Inter-channel decorrelation of two-channel blocks.
	stereo StereoMode
	// Maximum number of concurrently analyzed subblocks.
	concurrency int
}

// analysis holds the analyzed subframes of a block; the mid and side fields
// are only set for decorrelated two-channel blocks.
type analysis[S, W sample.Int] struct {
	subframes []frame.Subframe[S]
	sizes     []int
	mid       frame.Subframe[S]
	midLen    int
	side      frame.Subframe[W]
	sideLen   int
}

// analyze returns the channel layout of the block which produces the smallest
// frame, subject to the stereo mode.
//
// Blocks of other than two channels are always coded independently. For
// two-channel blocks, the candidate layouts are compared by the summed length
// of their subframes in the order independent, mid/side, left/side and
// side/right; a later candidate must be strictly smaller to be selected.
// Layouts requiring a side or mid channel which is not representable are
// skipped.
func (a *blockAnalyzer[S, W]) analyze(b *block[S, W]) frame.Layout[S, W] {
	useSide := len(b.channels) == 2 && a.stereo != StereoIndependent && b.side != nil
	useMid := useSide && b.mid != nil && (a.stereo == StereoAuto || a.stereo == StereoMidSide)
	res := &analysis[S, W]{
		subframes: make([]frame.Subframe[S], len(b.channels)),
		sizes:     make([]int, len(b.channels)),
	}

	// Each candidate only reads its own subblock and writes its own result.
	var jobs []func()
	for i := range b.channels {
		jobs = append(jobs, func() {
			res.subframes[i], res.sizes[i] = analyzeSubframe(b.channels[i], a.bps)
		})
	}
	if useSide {
		jobs = append(jobs, func() {
			// The side channel requires one extra bit.
			res.side, res.sideLen = analyzeSubframe(b.side, a.bps+1)
		})
	}
	if useMid {
		jobs = append(jobs, func() {
			res.mid, res.midLen = analyzeSubframe(b.mid, a.bps)
		})
	}
	a.run(jobs)

	independent := &frame.Independent[S, W]{Subframes: res.subframes}
	if !useSide {
		return independent
	}
	left, right := res.subframes[0], res.subframes[1]
	leftLen, rightLen := res.sizes[0], res.sizes[1]
	switch a.stereo {
	case StereoLeftSide:
		return &frame.LeftSide[S, W]{Left: left, Side: res.side}
	case StereoSideRight:
		return &frame.SideRight[S, W]{Side: res.side, Right: right}
	case StereoMidSide:
		if !useMid {
			return independent
		}
		return &frame.MidSide[S, W]{Mid: res.mid, Side: res.side}
	}

	var best frame.Layout[S, W] = independent
	bestLen := leftLen + rightLen
	if useMid {
		if n := res.midLen + res.sideLen; n < bestLen {
			best, bestLen = &frame.MidSide[S, W]{Mid: res.mid, Side: res.side}, n
		}
	}
	if n := leftLen + res.sideLen; n < bestLen {
		best, bestLen = &frame.LeftSide[S, W]{Left: left, Side: res.side}, n
	}
	if n := res.sideLen + rightLen; n < bestLen {
		best = &frame.SideRight[S, W]{Side: res.side, Right: right}
	}
	return best
}

// run runs the analysis jobs, concurrently if enabled.
func (a *blockAnalyzer[S, W]) run(jobs []func()) {
	if a.concurrency < 2 {
		for _, job := range jobs {
			job()
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for _, job := range jobs {
		g.Go(func() error {
			job()
			return nil
		})
	}
	// Jobs never fail.
	_ = g.Wait()
}
