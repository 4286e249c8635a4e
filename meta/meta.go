// Package meta defines the metadata blocks of FLAC streams produced by the
// encoder.
//
// The StreamInfo block is mandatory and always stored first. It may be
// followed by Padding, Application and VorbisComment blocks, which are stored
// as given.
//
// ref: https://www.xiph.org/flac/format.html#format_overview
package meta

import (
	"fmt"

	"github.com/pkg/errors"
)

// MaxBlockLength is the largest length in bytes of a metadata block body, as
// stored in the 24-bit length field of the block header.
const MaxBlockLength = 1<<24 - 1

// ErrInvalidBlock is returned for metadata blocks which cannot be stored.
var ErrInvalidBlock = errors.New("invalid metadata block")

// A Block contains the header and body of a metadata block.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block
type Block struct {
	// Metadata block header.
	Header
	// Metadata block body: *StreamInfo, *Application, *VorbisComment or nil for
	// Padding.
	Body interface{}
}

// A Header contains information about the type and length of a metadata block.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_header
type Header struct {
	// Metadata block body type.
	Type Type
	// Length of body data in bytes.
	Length int64
	// IsLast specifies if the block is the last metadata block.
	IsLast bool
}

// Type represents the type of a metadata block body.
type Type uint8

// Metadata block body types.
const (
	TypeStreamInfo    Type = 0
	TypePadding       Type = 1
	TypeApplication   Type = 2
	TypeSeekTable     Type = 3
	TypeVorbisComment Type = 4
	TypeCueSheet      Type = 5
	TypePicture       Type = 6
)

func (t Type) String() string {
	switch t {
	case TypeStreamInfo:
		return "stream info"
	case TypePadding:
		return "padding"
	case TypeApplication:
		return "application"
	case TypeSeekTable:
		return "seek table"
	case TypeVorbisComment:
		return "vorbis comment"
	case TypeCueSheet:
		return "cue sheet"
	case TypePicture:
		return "picture"
	default:
		return fmt.Sprintf("<unknown block type %d>", uint8(t))
	}
}

// Validate reports whether the metadata block may follow the StreamInfo block
// of an encoded stream, and that its body matches the block type.
func (block *Block) Validate() error {
	switch block.Type {
	case TypePadding:
		if block.Body != nil {
			return errors.Wrapf(ErrInvalidBlock, "unexpected body %T of padding block", block.Body)
		}
		if block.Length < 0 || block.Length > MaxBlockLength {
			return errors.Wrapf(ErrInvalidBlock, "padding length %d not in range [0, %d]", block.Length, MaxBlockLength)
		}
		return nil
	case TypeApplication:
		app, ok := block.Body.(*Application)
		if !ok {
			return errors.Wrapf(ErrInvalidBlock, "unexpected body %T of application block", block.Body)
		}
		return app.validate()
	case TypeVorbisComment:
		comment, ok := block.Body.(*VorbisComment)
		if !ok {
			return errors.Wrapf(ErrInvalidBlock, "unexpected body %T of vorbis comment block", block.Body)
		}
		return comment.validate()
	case TypeStreamInfo:
		return errors.Wrap(ErrInvalidBlock, "stream info block is written by the encoder")
	default:
		return errors.Wrapf(ErrInvalidBlock, "encoding of %v blocks not supported", block.Type)
	}
}
