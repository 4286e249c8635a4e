package pcm

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/pkg/errors"
)

// IntBufferSource is a source of the interleaved samples of an audio buffer.
type IntBufferSource struct {
	buf    *audio.IntBuffer
	format Format
	// Offset into buf.Data of the next sample.
	pos int
}

// NewIntBufferSource returns a source of the samples of buf. The sample size
// is buf.SourceBitDepth.
func NewIntBufferSource(buf *audio.IntBuffer) (*IntBufferSource, error) {
	if buf == nil || buf.Format == nil {
		return nil, errors.Wrap(ErrInvalidFormat, "missing audio buffer format")
	}
	format := Format{
		SampleRate:    buf.Format.SampleRate,
		Channels:      buf.Format.NumChannels,
		BitsPerSample: buf.SourceBitDepth,
	}
	if err := format.validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	if len(buf.Data)%format.Channels != 0 {
		return nil, errors.Errorf("%d samples not a multiple of %d channels", len(buf.Data), format.Channels)
	}
	format.NSamples = uint64(len(buf.Data) / format.Channels)
	return &IntBufferSource{buf: buf, format: format}, nil
}

// Format returns the audio format of the source.
func (src *IntBufferSource) Format() Format {
	return src.format
}

// ReadBlock reads up to len(channels[0]) samples into each channel.
func (src *IntBufferSource) ReadBlock(channels [][]int32) (int, error) {
	if err := src.format.checkChannels(channels); err != nil {
		return 0, errors.WithStack(err)
	}
	if src.pos >= len(src.buf.Data) {
		return 0, io.EOF
	}
	end := src.pos + len(channels[0])*src.format.Channels
	if end > len(src.buf.Data) {
		end = len(src.buf.Data)
	}
	n := deinterleave(channels, src.buf.Data[src.pos:end])
	src.pos = end
	return n, nil
}
