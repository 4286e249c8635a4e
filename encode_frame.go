package flac

import (
	"github.com/mewkiz/flacenc/frame"
	"github.com/mewkiz/flacenc/internal/bitwriter"
	"github.com/mewkiz/flacenc/internal/hashutil/crc16"
	"github.com/mewkiz/flacenc/internal/hashutil/crc8"
	"github.com/mewkiz/flacenc/internal/sample"
	"github.com/mewkiz/pkg/errutil"
	"github.com/pkg/errors"
)

// --- [ Frame ] ---------------------------------------------------------------

// encodeFrame encodes the given audio frame, writing to bw.
//
// The frame header is followed by the subframes of the channel layout,
// zero-padding to a byte boundary and a CRC-16 of the entire frame.
func encodeFrame[S, W sample.Int](bw *bitwriter.Writer, f *frame.Frame[S, W]) error {
	// Frames start at a byte boundary; the CRC-16 covers every byte from here.
	bw.Align()
	start := bw.Len()

	// Encode frame header.
	if err := encodeFrameHeader(bw, f.Header, f.Layout.Channels()); err != nil {
		return errors.WithStack(err)
	}

	// Encode subframes.
	bps := uint(f.BitsPerSample)
	if err := encodeLayout(bw, f.Header, f.Layout, bps); err != nil {
		return errors.WithStack(err)
	}

	// Zero-padding to byte alignment.
	bw.Align()

	// CRC-16 (polynomial = x^16 + x^15 + x^2 + x^0, initialized with 0) of
	// everything before the crc, back to and including the frame header sync
	// code.
	crc := crc16.ChecksumIBM(bw.Bytes()[start:])
	bw.Put(16, uint64(crc))
	return nil
}

// encodeLayout encodes the subframes of the channel layout in their stored
// order, writing to bw. Side channels are encoded with one extra bit per
// sample.
func encodeLayout[S, W sample.Int](bw *bitwriter.Writer, hdr frame.Header, layout frame.Layout[S, W], bps uint) error {
	var (
		subframes []frame.Subframe[S]
		side      frame.Subframe[W]
		sideFirst bool
	)
	switch layout := layout.(type) {
	case *frame.Independent[S, W]:
		if _, err := frame.IndependentChannels(len(layout.Subframes)); err != nil {
			return errors.WithStack(err)
		}
		subframes = layout.Subframes
	case *frame.LeftSide[S, W]:
		// channel 0 is the left channel, channel 1 is the side channel.
		subframes = []frame.Subframe[S]{layout.Left}
		side = layout.Side
	case *frame.SideRight[S, W]:
		// channel 0 is the side channel, channel 1 is the right channel.
		subframes = []frame.Subframe[S]{layout.Right}
		side = layout.Side
		sideFirst = true
	case *frame.MidSide[S, W]:
		// channel 0 is the mid channel, channel 1 is the side channel.
		subframes = []frame.Subframe[S]{layout.Mid}
		side = layout.Side
	default:
		return errutil.Newf("support for channel layout %T not yet implemented", layout)
	}
	encodeSide := func() error {
		if side == nil {
			return nil
		}
		if err := checkSubframe(hdr, side); err != nil {
			return errors.WithStack(err)
		}
		return encodeSubframe(bw, side, bps+1)
	}
	if sideFirst {
		if err := encodeSide(); err != nil {
			return errors.WithStack(err)
		}
	}
	for _, sf := range subframes {
		if err := checkSubframe(hdr, sf); err != nil {
			return errors.WithStack(err)
		}
		if err := encodeSubframe(bw, sf, bps); err != nil {
			return errors.WithStack(err)
		}
	}
	if !sideFirst {
		if err := encodeSide(); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// checkSubframe verifies that the subframe holds one sample per inter-channel
// sample of the frame.
func checkSubframe[T sample.Int](hdr frame.Header, sf frame.Subframe[T]) error {
	if sf == nil {
		return errutil.Newf("missing subframe")
	}
	if n := sf.NSamples(); n != int(hdr.BlockSize) {
		return errutil.Newf("block size and sample count mismatch; expected %d, got %d", hdr.BlockSize, n)
	}
	return nil
}

// --- [ Frame header ] --------------------------------------------------------

// encodeFrameHeader encodes the given frame header, writing to bw. bw must be
// at a byte boundary.
func encodeFrameHeader(bw *bitwriter.Writer, hdr frame.Header, channels frame.Channels) error {
	start := bw.Len()

	//  Sync code: 11111111111110
	bw.Put(14, 0x3FFE)

	// Reserved: 0
	bw.Put(1, 0x0)

	// Blocking strategy:
	//    0 : fixed-blocksize stream; frame header encodes the frame number
	//    1 : variable-blocksize stream; frame header encodes the sample number
	bw.PutBool(!hdr.HasFixedBlockSize())

	// Block size in inter-channel samples:
	//    0000 : reserved
	//    0001 : 192 samples
	//    0010-0101 : 576 * (2^(n-2)) samples, i.e. 576/1152/2304/4608
	//    0110 : get 8 bit (blocksize-1) from end of header
	//    0111 : get 16 bit (blocksize-1) from end of header
	//    1000-1111 : 256 * (2^(n-8)) samples, i.e. 256/512/1024/2048/4096/8192/16384/32768
	bits, nblockSizeSuffixBits := blockSizeCode(hdr.BlockSize)
	bw.Put(4, bits)

	// Sample rate:
	//    0000 : get from STREAMINFO metadata block
	//    0001 : 88.2kHz
	//    0010 : 176.4kHz
	//    0011 : 192kHz
	//    0100 : 8kHz
	//    0101 : 16kHz
	//    0110 : 22.05kHz
	//    0111 : 24kHz
	//    1000 : 32kHz
	//    1001 : 44.1kHz
	//    1010 : 48kHz
	//    1011 : 96kHz
	//    1100 : get 8 bit sample rate (in kHz) from end of header
	//    1101 : get 16 bit sample rate (in Hz) from end of header
	//    1110 : get 16 bit sample rate (in tens of Hz) from end of header
	//    1111 : invalid, to prevent sync-fooling string of 1s
	//
	// Sample rates without a code of their own are read from StreamInfo.
	bw.Put(4, sampleRateCode(hdr.SampleRate))

	// Channel assignment.
	//    0000-0111 : (number of independent channels)-1. Where defined, the channel order follows SMPTE/ITU-R recommendations. The assignments are as follows:
	//        1 channel: mono
	//        2 channels: left, right
	//        3 channels: left, right, center
	//        4 channels: front left, front right, back left, back right
	//        5 channels: front left, front right, front center, back/surround left, back/surround right
	//        6 channels: front left, front right, front center, LFE, back/surround left, back/surround right
	//        7 channels: front left, front right, front center, LFE, back center, side left, side right
	//        8 channels: front left, front right, front center, LFE, back left, back right, side left, side right
	//    1000 : left/side stereo: channel 0 is the left channel, channel 1 is the side(difference) channel
	//    1001 : right/side stereo: channel 0 is the side(difference) channel, channel 1 is the right channel
	//    1010 : mid/side stereo: channel 0 is the mid(average) channel, channel 1 is the side(difference) channel
	//    1011-1111 : reserved
	if channels.Count() == 0 {
		return errutil.Newf("support for channel assignment %v not yet implemented", channels)
	}
	bw.Put(4, uint64(channels))

	// Sample size in bits:
	//    000 : get from STREAMINFO metadata block
	//    001 : 8 bits per sample
	//    010 : 12 bits per sample
	//    011 : reserved
	//    100 : 16 bits per sample
	//    101 : 20 bits per sample
	//    110 : 24 bits per sample
	//    111 : reserved
	bw.Put(3, sampleSizeCode(hdr.BitsPerSample))

	// Reserved: 0
	bw.Put(1, 0x0)

	//    if (variable blocksize)
	//       <8-56>:"UTF-8" coded sample number (decoded number is 36 bits)
	//    else
	//       <8-48>:"UTF-8" coded frame number (decoded number is 31 bits)
	var buf [7]byte
	bw.PutBytes(appendUTF8(buf[:0], hdr.BlockID.Num()))

	// Write block size after the frame header (used for uncommon block sizes).
	if nblockSizeSuffixBits > 0 {
		// 0110 : get 8 bit (blocksize-1) from end of header
		// 0111 : get 16 bit (blocksize-1) from end of header
		bw.Put(nblockSizeSuffixBits, uint64(hdr.BlockSize-1))
	}

	// CRC-8 (polynomial = x^8 + x^2 + x^1 + x^0, initialized with 0) of
	// everything before the crc, including the sync code.
	bw.Align()
	crc := crc8.ChecksumATM(bw.Bytes()[start:])
	bw.Put(8, uint64(crc))
	return nil
}

// blockSizeCode returns the 4-bit block size code of the frame header, and the
// number of bits used to store the block size after the frame header.
func blockSizeCode(blockSize uint16) (bits uint64, nsuffixBits uint) {
	switch blockSize {
	case 192:
		// 0001
		return 0x1, 0
	case 576, 1152, 2304, 4608:
		// 0010-0101 : 576 * (2^(n-2)) samples, i.e. 576/1152/2304/4608
		return 0x2 + log2(uint64(blockSize/576)), 0
	case 256, 512, 1024, 2048, 4096, 8192, 16384, 32768:
		// 1000-1111 : 256 * (2^(n-8)) samples, i.e. 256/512/1024/2048/4096/8192/16384/32768
		return 0x8 + log2(uint64(blockSize/256)), 0
	}
	if blockSize <= 256 {
		// 0110 : get 8 bit (blocksize-1) from end of header
		return 0x6, 8
	}
	// 0111 : get 16 bit (blocksize-1) from end of header
	return 0x7, 16
}

// log2 returns the base 2 logarithm of the power of two x.
func log2(x uint64) uint64 {
	var n uint64
	for x > 1 {
		x >>= 1
		n++
	}
	return n
}

// sampleRateCode returns the 4-bit sample rate code of the frame header.
func sampleRateCode(sampleRate uint32) uint64 {
	switch sampleRate {
	case 88200:
		// 0001 : 88.2kHz
		return 0x1
	case 176400:
		// 0010 : 176.4kHz
		return 0x2
	case 192000:
		// 0011 : 192kHz
		return 0x3
	case 8000:
		// 0100 : 8kHz
		return 0x4
	case 16000:
		// 0101 : 16kHz
		return 0x5
	case 22050:
		// 0110 : 22.05kHz
		return 0x6
	case 24000:
		// 0111 : 24kHz
		return 0x7
	case 32000:
		// 1000 : 32kHz
		return 0x8
	case 44100:
		// 1001 : 44.1kHz
		return 0x9
	case 48000:
		// 1010 : 48kHz
		return 0xA
	case 96000:
		// 1011 : 96kHz
		return 0xB
	default:
		// 0000 : get from STREAMINFO metadata block
		return 0x0
	}
}

// sampleSizeCode returns the 3-bit sample size code of the frame header.
func sampleSizeCode(bps uint8) uint64 {
	switch bps {
	case 8:
		// 001 : 8 bits per sample
		return 0x1
	case 12:
		// 010 : 12 bits per sample
		return 0x2
	case 16:
		// 100 : 16 bits per sample
		return 0x4
	case 20:
		// 101 : 20 bits per sample
		return 0x5
	case 24:
		// 110 : 24 bits per sample
		return 0x6
	default:
		// 000 : get from STREAMINFO metadata block
		return 0x0
	}
}
