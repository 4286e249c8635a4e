package bits

// EncodeZigZag folds the signed integer x into an unsigned integer, so that
// values of small magnitude map to small codes.
//
// Examples of signed values on the left and ZigZag encoded values on the
// right:
//
//	 0 => 0
//	-1 => 1
//	 1 => 2
//	-2 => 3
//	 2 => 4
//	-3 => 5
//	 3 => 6
//
// ref: https://developers.google.com/protocol-buffers/docs/encoding
func EncodeZigZag(x int64) uint64 {
	return uint64(x<<1) ^ uint64(x>>63)
}

// DecodeZigZag decodes a ZigZag encoded integer and returns it.
func DecodeZigZag(x uint64) int64 {
	return int64(x>>1) ^ -int64(x&1)
}
