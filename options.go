package flac

import (
	"fmt"
	"strings"

	"github.com/pion/logging"

	ilogging "github.com/mewkiz/flacenc/internal/logging"
)

// DefaultBlockSize is the default block size, in inter-channel samples.
const DefaultBlockSize = 4096

// StereoMode specifies the inter-channel decorrelation of two-channel
// streams.
type StereoMode uint8

// Stereo modes.
const (
	// StereoAuto selects the cheapest of the independent, mid/side, left/side
	// and side/right channel assignments for each frame.
	StereoAuto StereoMode = iota
	// StereoIndependent always encodes the left and right channels
	// independently.
	StereoIndependent
	// StereoLeftSide encodes the left and side channels.
	StereoLeftSide
	// StereoSideRight encodes the side and right channels.
	StereoSideRight
	// StereoMidSide encodes the mid and side channels.
	StereoMidSide
)

// stereoModeName maps from stereo mode to its name.
var stereoModeName = map[StereoMode]string{
	StereoAuto:        "auto",
	StereoIndependent: "independent",
	StereoLeftSide:    "left-side",
	StereoSideRight:   "side-right",
	StereoMidSide:     "mid-side",
}

func (mode StereoMode) String() string {
	if s, ok := stereoModeName[mode]; ok {
		return s
	}
	return fmt.Sprintf("<invalid stereo mode %d>", uint8(mode))
}

// ParseStereoMode returns the stereo mode of the given name.
func ParseStereoMode(s string) (StereoMode, error) {
	for mode, name := range stereoModeName {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("invalid stereo mode %q; expected auto, independent, left-side, side-right or mid-side", s)
}

// Options specifies the encoding parameters of an Encoder.
type Options struct {
	// Block size in inter-channel samples used by Encode; the nominal block
	// size of NewEncoder is taken from StreamInfo.BlockSizeMax.
	BlockSize int
	// Inter-channel decorrelation of two-channel streams.
	Stereo StereoMode
	// Produce a variable block size stream, where frame headers store sample
	// numbers instead of frame numbers and blocks may be of any size up to the
	// nominal block size.
	VariableBlockSize bool
	// Maximum number of goroutines analyzing the channels of a block; values
	// below 2 analyze the channels on the calling goroutine.
	Concurrency int
	// Logger of the encoder; a nil value uses the "flac" scope of the default
	// logger factory.
	Logger logging.LeveledLogger
}

// DefaultOptions returns the default encoding options.
func DefaultOptions() *Options {
	return &Options{
		BlockSize:   DefaultBlockSize,
		Stereo:      StereoAuto,
		Concurrency: 1,
	}
}

// withDefaults returns a copy of opts with unset fields replaced by their
// defaults.
func (opts *Options) withDefaults() *Options {
	o := DefaultOptions()
	if opts != nil {
		*o = *opts
	}
	if o.BlockSize == 0 {
		o.BlockSize = DefaultBlockSize
	}
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.Logger == nil {
		o.Logger = ilogging.NewLogger("flac")
	}
	return o
}
