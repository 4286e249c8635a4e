// Package pcm provides sources of uncompressed audio samples to encode.
package pcm

import (
	"github.com/pkg/errors"
)

// Format describes the audio samples of a source.
type Format struct {
	// Sample rate in Hz.
	SampleRate int
	// Number of channels.
	Channels int
	// Sample size in bits-per-sample.
	BitsPerSample int
	// Total number of inter-channel samples; a 0 value implies unknown.
	NSamples uint64
}

// A Source is a source of audio samples.
type Source interface {
	// Format returns the audio format of the source.
	Format() Format
	// ReadBlock reads up to len(channels[0]) samples into each channel of
	// channels, and returns the number of inter-channel samples read. Fewer
	// samples are only returned at the end of the source, and io.EOF is
	// returned once the source is drained.
	ReadBlock(channels [][]int32) (n int, err error)
}

// ErrInvalidFormat is returned when a source has an unsupported audio format.
var ErrInvalidFormat = errors.New("invalid audio format")

// validate validates the audio format.
func (f Format) validate() error {
	switch {
	case f.SampleRate < 1:
		return errors.Wrapf(ErrInvalidFormat, "sample rate %d", f.SampleRate)
	case f.Channels < 1:
		return errors.Wrapf(ErrInvalidFormat, "channel count %d", f.Channels)
	case f.BitsPerSample < 1 || f.BitsPerSample > 32:
		return errors.Wrapf(ErrInvalidFormat, "%d bits-per-sample", f.BitsPerSample)
	}
	return nil
}

// checkChannels reports an error if channels does not hold one equally sized
// buffer per channel of the format.
func (f Format) checkChannels(channels [][]int32) error {
	if len(channels) != f.Channels {
		return errors.Errorf("channel count mismatch; expected %d, got %d", f.Channels, len(channels))
	}
	for i, ch := range channels {
		if len(ch) != len(channels[0]) {
			return errors.Errorf("buffer size mismatch of channel %d; expected %d, got %d", i, len(channels[0]), len(ch))
		}
	}
	return nil
}

// deinterleave distributes the interleaved samples of data over channels, and
// returns the number of inter-channel samples stored.
func deinterleave(channels [][]int32, data []int) int {
	n := len(data) / len(channels)
	for i := 0; i < n; i++ {
		for j, ch := range channels {
			ch[i] = int32(data[i*len(channels)+j])
		}
	}
	return n
}
