package flac

import (
	"encoding/binary"

	"github.com/mewkiz/flacenc/internal/bitwriter"
	"github.com/mewkiz/flacenc/meta"
	"github.com/pkg/errors"
)

// flacSignature marks the beginning of a FLAC stream.
var flacSignature = []byte("fLaC")

// Length in bytes of the StreamInfo metadata block body.
const streamInfoLength = (16 + 16 + 24 + 24 + 20 + 3 + 5 + 36 + 8*16) / 8

// streamInfoOffset is the offset in bytes of the StreamInfo metadata block
// body, following the FLAC signature and the metadata block header.
const streamInfoOffset = 4 + 4

// --- [ Metadata block ] ------------------------------------------------------

// encodeBlock encodes the metadata block, writing to bw.
func encodeBlock(bw *bitwriter.Writer, block *meta.Block, last bool) error {
	if err := block.Validate(); err != nil {
		return errors.WithStack(err)
	}
	switch body := block.Body.(type) {
	case *meta.Application:
		encodeApplication(bw, body, last)
	case *meta.VorbisComment:
		encodeVorbisComment(bw, body, last)
	default:
		encodePadding(bw, block.Length, last)
	}
	return nil
}

// --- [ Metadata block header ] -----------------------------------------------

// encodeBlockHeader encodes the metadata block header, writing to bw.
func encodeBlockHeader(bw *bitwriter.Writer, hdr meta.Header) {
	// 1 bit: IsLast.
	bw.PutBool(hdr.IsLast)

	// 7 bits: Type.
	bw.Put(7, uint64(hdr.Type))

	// 24 bits: Length.
	bw.Put(24, uint64(hdr.Length))
}

// --- [ StreamInfo ] ----------------------------------------------------------

// encodeStreamInfo encodes the StreamInfo metadata block, writing to bw.
func encodeStreamInfo(bw *bitwriter.Writer, info *meta.StreamInfo, last bool) {
	// Store metadata block header.
	hdr := meta.Header{
		IsLast: last,
		Type:   meta.TypeStreamInfo,
		Length: streamInfoLength,
	}
	encodeBlockHeader(bw, hdr)

	// Store metadata block body.
	encodeStreamInfoBody(bw, info)
}

// encodeStreamInfoBody encodes the body of the StreamInfo metadata block,
// writing to bw.
func encodeStreamInfoBody(bw *bitwriter.Writer, info *meta.StreamInfo) {
	// 16 bits: BlockSizeMin.
	bw.Put(16, uint64(info.BlockSizeMin))

	// 16 bits: BlockSizeMax.
	bw.Put(16, uint64(info.BlockSizeMax))

	// 24 bits: FrameSizeMin.
	bw.Put(24, uint64(info.FrameSizeMin))

	// 24 bits: FrameSizeMax.
	bw.Put(24, uint64(info.FrameSizeMax))

	// 20 bits: SampleRate.
	bw.Put(20, uint64(info.SampleRate))

	// 3 bits: NChannels; stored as (number of channels) - 1.
	bw.Put(3, uint64(info.NChannels-1))

	// 5 bits: BitsPerSample; stored as (bits-per-sample) - 1.
	bw.Put(5, uint64(info.BitsPerSample-1))

	// 36 bits: NSamples; stored in two halves.
	bw.Put(4, info.NSamples>>32)
	bw.Put(32, info.NSamples&0xFFFFFFFF)

	// 16 bytes: MD5sum; stored in two halves.
	bw.Put(64, binary.BigEndian.Uint64(info.MD5sum[:8]))
	bw.Put(64, binary.BigEndian.Uint64(info.MD5sum[8:]))
}

// --- [ Padding ] -------------------------------------------------------------

// encodePadding encodes a Padding metadata block of n zero bytes, writing to
// bw.
func encodePadding(bw *bitwriter.Writer, n int64, last bool) {
	// Store metadata block header.
	hdr := meta.Header{
		IsLast: last,
		Type:   meta.TypePadding,
		Length: n,
	}
	encodeBlockHeader(bw, hdr)

	// Store metadata block body.
	bw.PutBytes(make([]byte, n))
}

// --- [ Application ] ---------------------------------------------------------

// encodeApplication encodes the Application metadata block, writing to bw.
func encodeApplication(bw *bitwriter.Writer, app *meta.Application, last bool) {
	// Store metadata block header.
	hdr := meta.Header{
		IsLast: last,
		Type:   meta.TypeApplication,
		Length: app.Len(),
	}
	encodeBlockHeader(bw, hdr)

	// Store metadata block body.
	// 32 bits: ID.
	bw.PutBytes([]byte(app.ID))

	// Application data.
	bw.PutBytes(app.Data)
}

// --- [ VorbisComment ] -------------------------------------------------------

// encodeVorbisComment encodes the VorbisComment metadata block, writing to
// bw. The lengths of the Vorbis comment are stored in little-endian byte
// order.
func encodeVorbisComment(bw *bitwriter.Writer, comment *meta.VorbisComment, last bool) {
	// Store metadata block header.
	hdr := meta.Header{
		IsLast: last,
		Type:   meta.TypeVorbisComment,
		Length: comment.Len(),
	}
	encodeBlockHeader(bw, hdr)

	// Store metadata block body.
	var buf []byte
	// 32 bits: vendor length.
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(comment.Vendor)))
	// (vendor length) bits: Vendor.
	buf = append(buf, comment.Vendor...)

	// Store tags.
	// 32 bits: number of tags.
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(comment.Tags)))
	for _, tag := range comment.Tags {
		// Store tag, which has the following format:
		//    NAME=VALUE
		vector := tag[0] + "=" + tag[1]

		// 32 bits: vector length
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(vector)))

		// (vector length): vector.
		buf = append(buf, vector...)
	}
	bw.PutBytes(buf)
}
