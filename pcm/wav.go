package pcm

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// WAVSource is a source of the PCM samples of a WAV file.
type WAVSource struct {
	dec    *wav.Decoder
	format Format
	buf    *audio.IntBuffer
	// Decoded interleaved samples not yet read.
	pending []int
	eof     bool
}

// NewWAVSource returns a source of the PCM samples of the WAV file read from
// r.
func NewWAVSource(r io.ReadSeeker) (*WAVSource, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.Wrap(ErrInvalidFormat, "invalid WAV file")
	}
	format := Format{
		SampleRate:    int(dec.SampleRate),
		Channels:      int(dec.NumChans),
		BitsPerSample: int(dec.BitDepth),
	}
	if err := format.validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, errors.WithStack(err)
	}
	src := &WAVSource{
		dec:    dec,
		format: format,
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: format.Channels,
				SampleRate:  format.SampleRate,
			},
			SourceBitDepth: format.BitsPerSample,
		},
	}
	return src, nil
}

// Format returns the audio format of the source.
func (src *WAVSource) Format() Format {
	return src.format
}

// ReadBlock reads up to len(channels[0]) samples into each channel.
func (src *WAVSource) ReadBlock(channels [][]int32) (int, error) {
	if err := src.format.checkChannels(channels); err != nil {
		return 0, errors.WithStack(err)
	}
	want := len(channels[0]) * src.format.Channels
	for len(src.pending) < want && !src.eof {
		if err := src.fill(want - len(src.pending)); err != nil {
			return 0, errors.WithStack(err)
		}
	}
	m := want
	if m > len(src.pending) {
		// Drop trailing samples of an incomplete inter-channel sample.
		m = len(src.pending) - len(src.pending)%src.format.Channels
	}
	if m == 0 {
		return 0, io.EOF
	}
	n := deinterleave(channels, src.pending[:m])
	src.pending = src.pending[m:]
	return n, nil
}

// fill decodes up to n interleaved samples into the pending samples.
func (src *WAVSource) fill(n int) error {
	if cap(src.buf.Data) < n {
		src.buf.Data = make([]int, n)
	}
	src.buf.Data = src.buf.Data[:n]
	m, err := src.dec.PCMBuffer(src.buf)
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		src.eof = true
	default:
		return errors.WithStack(err)
	}
	if m == 0 || src.dec.EOF() {
		src.eof = true
	}
	data := src.buf.Data[:m]
	if src.format.BitsPerSample == 8 {
		// 8-bit WAV samples are unsigned.
		for i := range data {
			data[i] -= 128
		}
	}
	src.pending = append(src.pending, data...)
	return nil
}
