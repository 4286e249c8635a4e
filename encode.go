package flac

import (
	"crypto/md5"
	"encoding/binary"
	"hash"
	"io"

	"github.com/mewkiz/flacenc/frame"
	"github.com/mewkiz/flacenc/internal/bitwriter"
	"github.com/mewkiz/flacenc/internal/sample"
	"github.com/mewkiz/flacenc/meta"
	"github.com/mewkiz/flacenc/pcm"
	"github.com/mewkiz/pkg/errutil"
	"github.com/pion/logging"
	"github.com/pkg/errors"
)

// An Encoder represents a FLAC encoder. It writes the audio samples of blocks
// as FLAC frames to an underlying io.Writer.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	// StreamInfo metadata block of the stream; updated by Close.
	Info *meta.StreamInfo
	// Metadata blocks following StreamInfo.
	Blocks []*meta.Block
	// Underlying io.Writer to the output stream.
	w io.Writer
	// io.Closer to flush pending writes to output stream.
	c io.Closer
	// Encoding options.
	opts *Options
	log  logging.LeveledLogger
	// Channel analysis and frame encoding of the sample type of the stream.
	fe frameEncoder
	// Nominal block size in inter-channel samples.
	blockSize int
	// Current frame number.
	curNum uint64
	// Number of inter-channel samples written.
	nsamples uint64
	// A block which may only end the stream has been written; shorter than the
	// nominal block size of fixed block size streams, or shorter than the
	// minimum block size of variable block size streams.
	short bool
	// Frame size range in bytes, and block size range in samples. The minimum
	// block size excludes the most recent block, which may end the stream.
	frameSizeMin, frameSizeMax uint32
	blockSizeMin, blockSizeMax uint16
	// Block size of the most recent block.
	lastBlockSize uint16
	// Frame count per channel assignment.
	nlayouts map[frame.Channels]int
	// MD5 running hash of unencoded audio samples.
	md5sum hash.Hash
	md5buf []byte
	closed bool
}

// NewEncoder returns a new FLAC encoder for the given metadata StreamInfo block
// and optional metadata blocks. The FLAC signature and the metadata blocks are
// written to w immediately.
//
// The nominal block size of the stream is info.BlockSizeMax; fixed block size
// streams require info.BlockSizeMin to be equal. The frame sizes and MD5
// checksum of info are computed by the encoder, and info.NSamples may be 0 if
// the stream length is unknown. A nil opts uses DefaultOptions.
func NewEncoder(w io.Writer, info *meta.StreamInfo, opts *Options, blocks ...*meta.Block) (*Encoder, error) {
	if info == nil {
		return nil, errutil.Newf("missing StreamInfo metadata block")
	}
	if err := info.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	opts = opts.withDefaults()
	if _, ok := stereoModeName[opts.Stereo]; !ok {
		return nil, errutil.Newf("invalid stereo mode %d", uint8(opts.Stereo))
	}
	if !opts.VariableBlockSize && info.BlockSizeMin != info.BlockSizeMax {
		return nil, errors.Wrapf(meta.ErrInvalidBlockSize, "minimum block size %d and maximum block size %d differ in fixed block size stream", info.BlockSizeMin, info.BlockSizeMax)
	}
	for _, block := range blocks {
		if err := block.Validate(); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	info.FrameSizeMin = 0
	info.FrameSizeMax = 0
	info.MD5sum = [md5.Size]uint8{}

	enc := &Encoder{
		Info:      info,
		Blocks:    blocks,
		w:         w,
		opts:      opts,
		log:       opts.Logger,
		fe:        newFrameEncoder(uint(info.BitsPerSample), opts),
		blockSize: int(info.BlockSizeMax),
		nlayouts:  make(map[frame.Channels]int),
		md5sum:    md5.New(),
	}
	if c, ok := w.(io.Closer); ok {
		enc.c = c
	}

	// Store FLAC signature.
	bw := bitwriter.New()
	bw.PutBytes(flacSignature)

	// Encode metadata blocks.
	encodeStreamInfo(bw, info, len(blocks) == 0)
	for i, block := range blocks {
		if err := encodeBlock(bw, block, i == len(blocks)-1); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	if _, err := w.Write(bw.Finish()); err != nil {
		return nil, errors.WithStack(err)
	}
	enc.log.Debugf("encoding %d Hz, %d channel(s), %d bits-per-sample; block size %d (variable=%v), stereo mode %v", info.SampleRate, info.NChannels, info.BitsPerSample, info.BlockSizeMax, opts.VariableBlockSize, opts.Stereo)
	return enc, nil
}

// WriteBlock encodes one block of audio samples as a FLAC frame, writing to
// the underlying io.Writer. channels holds one slice of samples per channel,
// each of the same length.
//
// Every block of a fixed block size stream holds the nominal block size of
// samples, except for the last block which may be shorter. Blocks of variable
// block size streams hold at most the nominal block size of samples.
func (enc *Encoder) WriteBlock(channels [][]int32) error {
	if enc.closed {
		return errutil.Newf("write to closed encoder")
	}
	n, err := enc.checkBlock(channels)
	if err != nil {
		return errors.WithStack(err)
	}

	// Encode frame.
	var id frame.BlockID = frame.FrameNumber(enc.curNum)
	if enc.opts.VariableBlockSize {
		id = frame.SampleNumber(enc.nsamples)
	}
	hdr, err := frame.NewHeader(id, enc.blockSize, n, int(enc.Info.SampleRate), int(enc.Info.BitsPerSample))
	if err != nil {
		return errors.WithStack(err)
	}
	bw := bitwriter.NewSize(n * len(channels) * int(enc.Info.BitsPerSample) / 8)
	layout, err := enc.fe.encodeBlock(bw, hdr, channels)
	if err != nil {
		return errors.WithStack(err)
	}
	buf := bw.Finish()
	if _, err := enc.w.Write(buf); err != nil {
		return errors.WithStack(err)
	}
	enc.log.Tracef("frame %d: %d samples, %v channel assignment, %d bytes", enc.curNum, n, layout, len(buf))

	// Update stream statistics.
	enc.hashSamples(channels, n)
	enc.updateStats(n, len(buf))
	enc.nlayouts[layout]++
	return nil
}

// checkBlock validates the block of audio samples, and returns its block
// size.
func (enc *Encoder) checkBlock(channels [][]int32) (int, error) {
	if len(channels) != int(enc.Info.NChannels) {
		return 0, errutil.Newf("channel count mismatch; expected %d, got %d", enc.Info.NChannels, len(channels))
	}
	n := len(channels[0])
	for i, ch := range channels {
		if len(ch) != n {
			return 0, errutil.Newf("sample count mismatch of channel %d; expected %d, got %d", i, n, len(ch))
		}
	}
	if n < 1 || n > enc.blockSize {
		return 0, errors.Wrapf(meta.ErrInvalidBlockSize, "block of %d samples not in range [1, %d]", n, enc.blockSize)
	}
	if enc.short {
		if enc.opts.VariableBlockSize {
			return 0, errors.Wrapf(meta.ErrInvalidBlockSize, "block following a block of %d samples below the minimum block size %d", enc.lastBlockSize, meta.MinBlockSize)
		}
		return 0, errors.Wrapf(meta.ErrInvalidBlockSize, "block following a short block of %d samples in fixed block size stream", enc.lastBlockSize)
	}
	if enc.nsamples+uint64(n) >= meta.MaxNSamples {
		return 0, errors.Wrapf(meta.ErrInvalidSampleCount, "stream of %d samples exceeds 36 bits", enc.nsamples+uint64(n))
	}
	if enc.Info.NSamples != 0 && enc.nsamples+uint64(n) > enc.Info.NSamples {
		return 0, errors.Wrapf(meta.ErrInvalidSampleCount, "stream of %d samples exceeds declared sample count %d", enc.nsamples+uint64(n), enc.Info.NSamples)
	}
	bps := uint(enc.Info.BitsPerSample)
	for i, ch := range channels {
		for j, x := range ch {
			if !sample.Fits(int64(x), bps) {
				return 0, errutil.Newf("sample %d of channel %d (%d) exceeds %d bits-per-sample", j, i, x, bps)
			}
		}
	}
	// Only the final frame may hold fewer samples than the nominal block size
	// of fixed block size streams, or the minimum block size otherwise.
	if enc.opts.VariableBlockSize {
		enc.short = n < meta.MinBlockSize
	} else {
		enc.short = n < enc.blockSize
	}
	return n, nil
}

// hashSamples adds the first n samples of the channels to the running MD5
// hash, interleaved and in little-endian byte order.
func (enc *Encoder) hashSamples(channels [][]int32, n int) {
	nbytes := sample.BytesPerSample(uint(enc.Info.BitsPerSample))
	buf := enc.md5buf[:0]
	for i := 0; i < n; i++ {
		for _, ch := range channels {
			buf = sample.AppendBytes(buf, ch[i], nbytes, binary.LittleEndian)
		}
	}
	enc.md5sum.Write(buf)
	enc.md5buf = buf
}

// updateStats records a frame of n samples and size bytes.
func (enc *Encoder) updateStats(n, size int) {
	if enc.curNum == 0 || uint32(size) < enc.frameSizeMin {
		enc.frameSizeMin = uint32(size)
	}
	if uint32(size) > enc.frameSizeMax {
		enc.frameSizeMax = uint32(size)
	}
	// The previous block no longer ends the stream.
	if enc.curNum == 1 || (enc.curNum > 1 && enc.lastBlockSize < enc.blockSizeMin) {
		enc.blockSizeMin = enc.lastBlockSize
	}
	if uint16(n) > enc.blockSizeMax {
		enc.blockSizeMax = uint16(n)
	}
	enc.lastBlockSize = uint16(n)
	enc.nsamples += uint64(n)
	enc.curNum++
}

// Close finalizes the stream and closes the underlying io.Writer of the
// encoder if it implements io.Closer.
//
// If the io.Writer implements io.Seeker, the encoder updates the StreamInfo
// metadata block with the MD5 checksum of the unencoded audio data, the number
// of samples, the minimum and maximum frame size and, for variable block size
// streams, the minimum and maximum block size. Otherwise the StreamInfo block
// as initially written is kept, which marks these values as unknown.
func (enc *Encoder) Close() (err error) {
	if enc.closed {
		return errutil.Newf("encoder already closed")
	}
	enc.closed = true
	if enc.c != nil {
		defer func() {
			if cerr := enc.c.Close(); cerr != nil && err == nil {
				err = errors.WithStack(cerr)
			}
		}()
	}
	ws, seekable := enc.w.(io.WriteSeeker)
	if !seekable && enc.Info.NSamples != 0 && enc.Info.NSamples != enc.nsamples {
		return errors.Wrapf(meta.ErrInvalidSampleCount, "sample count mismatch; declared %d, wrote %d", enc.Info.NSamples, enc.nsamples)
	}

	// Update StreamInfo metadata block.
	copy(enc.Info.MD5sum[:], enc.md5sum.Sum(nil))
	enc.Info.NSamples = enc.nsamples
	enc.Info.FrameSizeMin = enc.frameSizeMin
	enc.Info.FrameSizeMax = enc.frameSizeMax
	if enc.opts.VariableBlockSize {
		switch {
		case enc.curNum > 1:
			enc.Info.BlockSizeMin = enc.blockSizeMin
			enc.Info.BlockSizeMax = enc.blockSizeMax
		case enc.curNum == 1 && enc.lastBlockSize >= meta.MinBlockSize:
			enc.Info.BlockSizeMin = enc.lastBlockSize
			enc.Info.BlockSizeMax = enc.lastBlockSize
		}
	}
	if seekable {
		if err := enc.patchStreamInfo(ws); err != nil {
			return errors.WithStack(err)
		}
	} else {
		enc.log.Warnf("unable to update StreamInfo metadata block; %T is not an io.WriteSeeker", enc.w)
	}
	enc.log.Debugf("encoded %d samples in %d frames (%d-%d bytes); channel assignments %v", enc.nsamples, enc.curNum, enc.frameSizeMin, enc.frameSizeMax, enc.nlayouts)
	return nil
}

// patchStreamInfo rewrites the body of the StreamInfo metadata block in place,
// and returns to the end of the stream.
func (enc *Encoder) patchStreamInfo(ws io.WriteSeeker) error {
	if _, err := ws.Seek(streamInfoOffset, io.SeekStart); err != nil {
		return errors.WithStack(err)
	}
	bw := bitwriter.NewSize(streamInfoLength)
	encodeStreamInfoBody(bw, enc.Info)
	if _, err := ws.Write(bw.Finish()); err != nil {
		return errors.WithStack(err)
	}
	if _, err := ws.Seek(0, io.SeekEnd); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// A frameEncoder analyzes and encodes blocks of audio samples.
type frameEncoder interface {
	// encodeBlock encodes the block of samples as a frame with the given
	// header, writing to bw. It returns the channel assignment of the frame.
	encodeBlock(bw *bitwriter.Writer, hdr frame.Header, channels [][]int32) (frame.Channels, error)
}

// newFrameEncoder returns a frame encoder using the smallest sample type which
// holds samples of bps bits.
func newFrameEncoder(bps uint, opts *Options) frameEncoder {
	if bps <= 16 {
		return &blockAnalyzer[int16, int32]{bps: bps, stereo: opts.Stereo, concurrency: opts.Concurrency}
	}
	return &blockAnalyzer[int32, int64]{bps: bps, stereo: opts.Stereo, concurrency: opts.Concurrency}
}

// encodeBlock encodes the block of samples as a frame with the given header,
// writing to bw.
func (a *blockAnalyzer[S, W]) encodeBlock(bw *bitwriter.Writer, hdr frame.Header, channels [][]int32) (frame.Channels, error) {
	b := newBlock[S, W](channels, a.bps)
	f := &frame.Frame[S, W]{
		Header: hdr,
		Layout: a.analyze(b),
	}
	if err := encodeFrame(bw, f); err != nil {
		return 0, errors.WithStack(err)
	}
	return f.Layout.Channels(), nil
}

// Encode encodes the audio samples of src as a FLAC stream, writing to w. The
// samples are read in blocks of opts.BlockSize. w is closed if it implements
// io.Closer.
func Encode(w io.Writer, src pcm.Source, opts *Options, blocks ...*meta.Block) error {
	opts = opts.withDefaults()
	format := src.Format()
	info := &meta.StreamInfo{
		BlockSizeMin:  uint16(opts.BlockSize),
		BlockSizeMax:  uint16(opts.BlockSize),
		SampleRate:    uint32(format.SampleRate),
		NChannels:     uint8(format.Channels),
		BitsPerSample: uint8(format.BitsPerSample),
		NSamples:      format.NSamples,
	}
	if opts.BlockSize < meta.MinBlockSize || opts.BlockSize > frame.MaxBlockSize {
		return errors.Wrapf(meta.ErrInvalidBlockSize, "block size %d not in range [%d, %d]", opts.BlockSize, meta.MinBlockSize, frame.MaxBlockSize)
	}
	if format.Channels < 1 || format.Channels > meta.MaxChannels {
		return errors.Wrapf(meta.ErrInvalidChannelCount, "channel count %d not in range [1, %d]", format.Channels, meta.MaxChannels)
	}
	enc, err := NewEncoder(w, info, opts, blocks...)
	if err != nil {
		return errors.WithStack(err)
	}
	buf := make([][]int32, format.Channels)
	for i := range buf {
		buf[i] = make([]int32, opts.BlockSize)
	}
	channels := make([][]int32, format.Channels)
	for {
		n, err := src.ReadBlock(buf)
		if n > 0 {
			for i := range buf {
				channels[i] = buf[i][:n]
			}
			if err := enc.WriteBlock(channels); err != nil {
				enc.Close()
				return errors.WithStack(err)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			enc.Close()
			return errors.WithStack(err)
		}
	}
	if err := enc.Close(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
