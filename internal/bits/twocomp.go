package bits

// UintN returns the n least significant bits of the two's complement
// representation of x.
//
// Examples of signed x values on the left and n-bit (n = 3) results on the
// right:
//
//	 3 -> 0b011
//	 2 -> 0b010
//	 1 -> 0b001
//	 0 -> 0b000
//	-1 -> 0b111
//	-2 -> 0b110
//	-3 -> 0b101
//	-4 -> 0b100
func UintN(x int64, n uint) uint64 {
	if n >= 64 {
		return uint64(x)
	}
	return uint64(x) & (1<<n - 1)
}
