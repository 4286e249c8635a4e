package pcm

import (
	"encoding/binary"
	"io"

	"github.com/mewkiz/flacenc/internal/sample"
	"github.com/pkg/errors"
)

// RawSource is a source of raw interleaved signed PCM samples, each stored in
// the fewest whole bytes holding the sample size.
type RawSource struct {
	r      io.Reader
	format Format
	order  binary.ByteOrder
	buf    []byte
}

// NewRawSource returns a source of the raw PCM samples read from r, of the
// given audio format and byte order.
func NewRawSource(r io.Reader, format Format, order binary.ByteOrder) (*RawSource, error) {
	if err := format.validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	if order == nil {
		order = binary.LittleEndian
	}
	return &RawSource{r: r, format: format, order: order}, nil
}

// Format returns the audio format of the source.
func (src *RawSource) Format() Format {
	return src.format
}

// ReadBlock reads up to len(channels[0]) samples into each channel.
func (src *RawSource) ReadBlock(channels [][]int32) (int, error) {
	if err := src.format.checkChannels(channels); err != nil {
		return 0, errors.WithStack(err)
	}
	nbytes := sample.BytesPerSample(uint(src.format.BitsPerSample))
	frameSize := nbytes * src.format.Channels
	size := len(channels[0]) * frameSize
	if cap(src.buf) < size {
		src.buf = make([]byte, size)
	}
	buf := src.buf[:size]
	m, err := io.ReadFull(src.r, buf)
	switch err {
	case nil, io.ErrUnexpectedEOF:
	case io.EOF:
		return 0, io.EOF
	default:
		return 0, errors.WithStack(err)
	}
	if m%frameSize != 0 {
		return 0, errors.Wrapf(io.ErrUnexpectedEOF, "incomplete sample of %d bytes", m%frameSize)
	}
	n := m / frameSize
	for i := 0; i < n; i++ {
		for j, ch := range channels {
			off := i*frameSize + j*nbytes
			ch[i] = int32(sample.FromBytes(buf[off:off+nbytes], src.order))
		}
	}
	return n, nil
}
