package meta

import (
	"github.com/pkg/errors"
)

// A VorbisComment metadata block is for storing a list of human-readable
// name/value pairs. Values are encoded using UTF-8. It is an implementation of
// the Vorbis comment specification (without the framing bit). There may be
// only one VORBIS_COMMENT block in a stream.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_vorbis_comment
type VorbisComment struct {
	// Vendor name.
	Vendor string
	// A list of tags, each represented by a name-value pair.
	Tags [][2]string
}

// NewVorbisComment returns a VorbisComment metadata block with the given
// vendor string and name-value pairs.
func NewVorbisComment(vendor string, tags ...[2]string) (*Block, error) {
	comment := &VorbisComment{Vendor: vendor, Tags: tags}
	if err := comment.validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	block := &Block{
		Header: Header{Type: TypeVorbisComment, Length: comment.Len()},
		Body:   comment,
	}
	return block, nil
}

// validate reports whether the tag names are valid and the block body fits in
// the length field of a metadata block header.
func (comment *VorbisComment) validate() error {
	for _, tag := range comment.Tags {
		if !validTagName(tag[0]) {
			return errors.Wrapf(ErrInvalidBlock, "invalid vorbis comment tag name %q", tag[0])
		}
	}
	if comment.Len() > MaxBlockLength {
		return errors.Wrapf(ErrInvalidBlock, "vorbis comment of %d bytes too large", comment.Len())
	}
	return nil
}

// validTagName reports whether name is a non-empty field name of printable
// ASCII characters in the range 0x20 through 0x7D, excluding '='.
//
// ref: https://www.xiph.org/vorbis/doc/v-comment.html
func validTagName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if c := name[i]; c < 0x20 || c > 0x7D || c == '=' {
			return false
		}
	}
	return true
}

// Len returns the length in bytes of the VorbisComment block body.
func (comment *VorbisComment) Len() int64 {
	// 32 bits: vendor length.
	// 32 bits: number of tags.
	n := int64(4 + len(comment.Vendor) + 4)
	for _, tag := range comment.Tags {
		// 32 bits: vector length.
		// NAME=VALUE
		n += int64(4 + len(tag[0]) + 1 + len(tag[1]))
	}
	return n
}
