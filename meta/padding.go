package meta

// NewPadding returns a Padding metadata block of n zero bytes. Padding
// reserves space in the stream for metadata added after encoding.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_padding
func NewPadding(n int) *Block {
	return &Block{
		Header: Header{Type: TypePadding, Length: int64(n)},
	}
}
