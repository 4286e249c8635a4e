// Package frame defines the audio frames of a FLAC stream, as produced by the
// encoder.
//
// A frame holds the encoded samples of one block of the audio stream, one
// subframe per channel. The samples of a subframe are stored in a sample type
// S, while side channels of stereo frames, which require one extra bit of
// range, are stored in the widened sample type W.
//
// ref: https://www.xiph.org/flac/format.html#frame
package frame

import (
	"github.com/mewkiz/flacenc/internal/sample"
)

// A Frame contains the header and subframes of an audio frame.
type Frame[S, W sample.Int] struct {
	// Audio frame header.
	Header
	// Channel assignment and subframes of the frame.
	Layout Layout[S, W]
}

// A Layout specifies the channel assignment of a frame and holds its
// subframes; it is one of *Independent, *LeftSide, *SideRight or *MidSide.
//
// ref: https://www.xiph.org/flac/format.html#interchannel
type Layout[S, W sample.Int] interface {
	// Channels returns the channel assignment of the layout.
	Channels() Channels
	layout(S, W)
}

// Independent holds one subframe per independently coded channel; 1 to 8
// channels.
type Independent[S, W sample.Int] struct {
	Subframes []Subframe[S]
}

// LeftSide holds the left channel and the side (difference) channel.
type LeftSide[S, W sample.Int] struct {
	Left Subframe[S]
	Side Subframe[W]
}

// SideRight holds the side (difference) channel and the right channel.
type SideRight[S, W sample.Int] struct {
	Side  Subframe[W]
	Right Subframe[S]
}

// MidSide holds the mid (average) channel and the side (difference) channel.
type MidSide[S, W sample.Int] struct {
	Mid  Subframe[S]
	Side Subframe[W]
}

// Channels returns the channel assignment of len(l.Subframes) independent
// channels.
func (l *Independent[S, W]) Channels() Channels {
	return Channels(len(l.Subframes) - 1)
}

// Channels returns ChannelsLeftSide.
func (*LeftSide[S, W]) Channels() Channels { return ChannelsLeftSide }

// Channels returns ChannelsSideRight.
func (*SideRight[S, W]) Channels() Channels { return ChannelsSideRight }

// Channels returns ChannelsMidSide.
func (*MidSide[S, W]) Channels() Channels { return ChannelsMidSide }

func (*Independent[S, W]) layout(S, W) {}
func (*LeftSide[S, W]) layout(S, W)    {}
func (*SideRight[S, W]) layout(S, W)   {}
func (*MidSide[S, W]) layout(S, W)     {}
