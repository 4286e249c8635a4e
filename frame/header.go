package frame

import (
	"fmt"

	"github.com/pkg/errors"
)

// Limits of the frame header fields.
const (
	// MinBlockSize is the smallest nominal block size, in inter-channel
	// samples.
	MinBlockSize = 16
	// MaxBlockSize is the largest block size, in inter-channel samples.
	MaxBlockSize = 65535
	// MaxSampleRate is the highest sample rate, in Hz.
	MaxSampleRate = 655350
	// MinBitsPerSample is the lowest sample size, in bits-per-sample.
	MinBitsPerSample = 4
	// MaxBitsPerSample is the highest sample size, in bits-per-sample.
	MaxBitsPerSample = 32
	// MaxBlockNum is the exclusive upper bound of frame and sample numbers.
	MaxBlockNum = 1 << 36
)

// Errors returned by NewHeader.
var (
	ErrInvalidBlockSize     = errors.New("invalid block size")
	ErrInvalidSampleRate    = errors.New("invalid sample rate")
	ErrInvalidBitsPerSample = errors.New("invalid sample size")
	ErrInvalidBlockNum      = errors.New("invalid frame or sample number")
	ErrInvalidChannelCount  = errors.New("invalid channel count")
)

// A Header contains the basic properties of an audio frame, such as its sample
// rate and bits-per-sample. The channel assignment of the frame is given by its
// channel layout.
//
// ref: https://www.xiph.org/flac/format.html#frame_header
type Header struct {
	// Frame number of fixed block size streams, or number of the first sample
	// of the frame in variable block size streams.
	BlockID BlockID
	// Nominal block size of the stream in inter-channel samples. All frames of
	// a fixed block size stream, except for the last, hold this many samples.
	NominalBlockSize uint16
	// Block size in inter-channel samples, i.e. the number of audio samples in
	// each subframe.
	BlockSize uint16
	// Sample rate in Hz.
	SampleRate uint32
	// Sample size in bits-per-sample.
	BitsPerSample uint8
}

// NewHeader returns a new frame header, validating its fields.
func NewHeader(id BlockID, nominalBlockSize, blockSize, sampleRate, bps int) (Header, error) {
	if nominalBlockSize < MinBlockSize || nominalBlockSize > MaxBlockSize {
		return Header{}, errors.Wrapf(ErrInvalidBlockSize, "nominal block size %d not in range [%d, %d]", nominalBlockSize, MinBlockSize, MaxBlockSize)
	}
	if blockSize < 1 || blockSize > nominalBlockSize {
		return Header{}, errors.Wrapf(ErrInvalidBlockSize, "block size %d not in range [1, %d]", blockSize, nominalBlockSize)
	}
	if sampleRate <= 0 || sampleRate > MaxSampleRate {
		return Header{}, errors.Wrapf(ErrInvalidSampleRate, "sample rate %d not in range (0, %d]", sampleRate, MaxSampleRate)
	}
	if bps < MinBitsPerSample || bps > MaxBitsPerSample {
		return Header{}, errors.Wrapf(ErrInvalidBitsPerSample, "bits-per-sample %d not in range [%d, %d]", bps, MinBitsPerSample, MaxBitsPerSample)
	}
	if id == nil {
		return Header{}, errors.Wrap(ErrInvalidBlockNum, "missing frame or sample number")
	}
	if id.Num() >= MaxBlockNum {
		return Header{}, errors.Wrapf(ErrInvalidBlockNum, "%v exceeds 36 bits", id)
	}
	hdr := Header{
		BlockID:          id,
		NominalBlockSize: uint16(nominalBlockSize),
		BlockSize:        uint16(blockSize),
		SampleRate:       uint32(sampleRate),
		BitsPerSample:    uint8(bps),
	}
	return hdr, nil
}

// HasFixedBlockSize reports whether the frame belongs to a fixed block size
// stream, in which case the frame header stores the frame number instead of
// the sample number.
func (hdr Header) HasFixedBlockSize() bool {
	_, ok := hdr.BlockID.(FrameNumber)
	return ok
}

// A BlockID identifies the position of a frame within the stream; either
// FrameNumber or SampleNumber.
type BlockID interface {
	// Num returns the frame or sample number.
	Num() uint64
	isBlockID()
}

// FrameNumber is the frame number of a frame in a fixed block size stream.
type FrameNumber uint64

// SampleNumber is the number of the first sample of a frame in a variable
// block size stream.
type SampleNumber uint64

// Num returns the frame number.
func (n FrameNumber) Num() uint64 { return uint64(n) }

// Num returns the sample number.
func (n SampleNumber) Num() uint64 { return uint64(n) }

func (FrameNumber) isBlockID()  {}
func (SampleNumber) isBlockID() {}

func (n FrameNumber) String() string  { return fmt.Sprintf("frame number %d", uint64(n)) }
func (n SampleNumber) String() string { return fmt.Sprintf("sample number %d", uint64(n)) }

// Channels specifies the number of channels (subframes) that exist in a frame,
// their order and possible inter-channel decorrelation.
type Channels uint8

// Channel assignments. The following abbreviations are used:
//
//	C:   center (directly in front)
//	R:   right (standard stereo)
//	Sr:  side right (directly to the right)
//	Rs:  right surround (back right)
//	Cs:  center surround (rear center)
//	Ls:  left surround (back left)
//	Sl:  side left (directly to the left)
//	L:   left (standard stereo)
//	Lfe: low-frequency effect (placed according to room acoustics)
//
// The first 6 channel constants follow the SMPTE/ITU-R channel order:
//
//	L R C Lfe Ls Rs
const (
	ChannelsMono           Channels = iota // 1 channel: mono.
	ChannelsLR                             // 2 channels: left, right.
	ChannelsLRC                            // 3 channels: left, right, center.
	ChannelsLRLsRs                         // 4 channels: left, right, left surround, right surround.
	ChannelsLRCLsRs                        // 5 channels: left, right, center, left surround, right surround.
	ChannelsLRCLfeLsRs                     // 6 channels: left, right, center, LFE, left surround, right surround.
	ChannelsLRCLfeCsSlSr                   // 7 channels: left, right, center, LFE, center surround, side left, side right.
	ChannelsLRCLfeLsRsSlSr                 // 8 channels: left, right, center, LFE, left surround, right surround, side left, side right.
	ChannelsLeftSide                       // 2 channels: left, side; using inter-channel decorrelation.
	ChannelsSideRight                      // 2 channels: side, right; using inter-channel decorrelation.
	ChannelsMidSide                        // 2 channels: mid, side; using inter-channel decorrelation.
)

// nChannels specifies the number of channels used by each channel assignment.
var nChannels = [...]int{
	ChannelsMono:           1,
	ChannelsLR:             2,
	ChannelsLRC:            3,
	ChannelsLRLsRs:         4,
	ChannelsLRCLsRs:        5,
	ChannelsLRCLfeLsRs:     6,
	ChannelsLRCLfeCsSlSr:   7,
	ChannelsLRCLfeLsRsSlSr: 8,
	ChannelsLeftSide:       2,
	ChannelsSideRight:      2,
	ChannelsMidSide:        2,
}

// Count returns the number of channels (subframes) used by the provided
// channel assignment.
func (channels Channels) Count() int {
	if int(channels) >= len(nChannels) {
		return 0
	}
	return nChannels[channels]
}

// IndependentChannels returns the channel assignment of n independently coded
// channels.
func IndependentChannels(n int) (Channels, error) {
	if n < 1 || n > 8 {
		return 0, errors.Wrapf(ErrInvalidChannelCount, "channel count %d not in range [1, 8]", n)
	}
	return Channels(n - 1), nil
}

func (channels Channels) String() string {
	switch channels {
	case ChannelsLeftSide:
		return "left/side"
	case ChannelsSideRight:
		return "side/right"
	case ChannelsMidSide:
		return "mid/side"
	}
	if n := channels.Count(); n > 0 {
		return fmt.Sprintf("%d independent", n)
	}
	return fmt.Sprintf("<invalid channel assignment %d>", uint8(channels))
}
