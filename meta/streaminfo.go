package meta

import (
	"crypto/md5"

	"github.com/pkg/errors"
)

// Errors returned by StreamInfo.Validate.
var (
	ErrInvalidBlockSize     = errors.New("invalid block size")
	ErrInvalidSampleRate    = errors.New("invalid sample rate")
	ErrInvalidBitsPerSample = errors.New("invalid bits-per-sample")
	ErrInvalidChannelCount  = errors.New("invalid channel count")
	ErrInvalidSampleCount   = errors.New("invalid sample count")
)

// Limits of the StreamInfo fields.
const (
	// MinBlockSize is the smallest block size, in inter-channel samples.
	MinBlockSize = 16
	// MaxSampleRate is the highest sample rate, in Hz.
	MaxSampleRate = 655350
	// MaxChannels is the largest number of channels.
	MaxChannels = 8
	// MaxNSamples is the exclusive upper bound of the total number of
	// inter-channel samples.
	MaxNSamples = 1 << 36
)

// StreamInfo contains the basic properties of a FLAC audio stream, such as its
// sample rate and channel count. It is the only mandatory metadata block and
// must be present as the first metadata block of a FLAC stream.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_streaminfo
type StreamInfo struct {
	// Minimum block size (in samples) used in the stream; between 16 and 65535
	// samples.
	BlockSizeMin uint16
	// Maximum block size (in samples) used in the stream; between 16 and 65535
	// samples.
	BlockSizeMax uint16
	// Minimum frame size in bytes; a 0 value implies unknown.
	FrameSizeMin uint32
	// Maximum frame size in bytes; a 0 value implies unknown.
	FrameSizeMax uint32
	// Sample rate in Hz; between 1 and 655350 Hz.
	SampleRate uint32
	// Number of channels; between 1 and 8 channels.
	NChannels uint8
	// Sample size in bits-per-sample; between 4 and 32 bits.
	BitsPerSample uint8
	// Total number of inter-channel samples in the stream. One second of 44.1
	// KHz audio will have 44100 samples regardless of the number of channels. A
	// 0 value implies unknown.
	NSamples uint64
	// MD5 checksum of the unencoded audio data.
	MD5sum [md5.Size]uint8
}

// Validate reports whether the stream parameters may be encoded.
func (si *StreamInfo) Validate() error {
	if si.BlockSizeMin < MinBlockSize {
		return errors.Wrapf(ErrInvalidBlockSize, "minimum block size %d below %d", si.BlockSizeMin, MinBlockSize)
	}
	if si.BlockSizeMax < si.BlockSizeMin {
		return errors.Wrapf(ErrInvalidBlockSize, "maximum block size %d below minimum block size %d", si.BlockSizeMax, si.BlockSizeMin)
	}
	if si.SampleRate == 0 || si.SampleRate > MaxSampleRate {
		return errors.Wrapf(ErrInvalidSampleRate, "sample rate %d not in range (0, %d]", si.SampleRate, MaxSampleRate)
	}
	if si.NChannels < 1 || si.NChannels > MaxChannels {
		return errors.Wrapf(ErrInvalidChannelCount, "channel count %d not in range [1, %d]", si.NChannels, MaxChannels)
	}
	if si.BitsPerSample < 4 || si.BitsPerSample > 32 {
		return errors.Wrapf(ErrInvalidBitsPerSample, "bits-per-sample %d not in range [4, 32]", si.BitsPerSample)
	}
	if si.NSamples >= MaxNSamples {
		return errors.Wrapf(ErrInvalidSampleCount, "sample count %d exceeds 36 bits", si.NSamples)
	}
	return nil
}
