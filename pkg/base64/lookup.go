package base64

// invalid is returned by the reverse lookups for bytes outside
// the alphabet. Valid 6-bit values never have bit 7 set.
const invalid = 0xff

// stdLookup converts the 6-bit value c to its corresponding
// character in the standard alphabet.
//
// c must be in [0, 63].
//
// See http://0x80.pl/notesen/2016-01-12-sse-base64-encoding.html
func stdLookup(c uint) byte {
	s := uint('A')
	s += (26 - c - 1) >> 8 & 6
	s -= (52 - c - 1) >> 8 & 75
	s -= (62 - c - 1) >> 8 & 15
	s += (63 - c - 1) >> 8 & 3
	return byte(c + s)
}

// stdRevLookup converts the standard alphabet character c to its
// 6-bit value, or returns invalid.
func stdRevLookup(c uint) byte {
	// switch {
	// case c >= 'A' && c <= 'Z':
	//     s = -65
	// case c >= 'a' && c <= 'z':
	//     s = -71
	// case c >= '0' && c <= '9':
	//     s = 4
	// case c == '+':
	//     s = 19
	// case c == '/':
	//     s = 16
	// }
	s := ((((64 - c) & (c - 91)) >> 8) & 191) ^
		((((96 - c) & (c - 123)) >> 8) & 185) ^
		((((47 - c) & (c - 58)) >> 8) & 4) ^
		((((42 - c) & (c - 44)) >> 8) & 19) ^
		((((46 - c) & (c - 48)) >> 8) & 16)
	return revResult(s, c)
}

// urlLookup converts the 6-bit value c to its corresponding
// character in the base64url alphabet.
//
// c must be in [0, 63].
func urlLookup(c uint) byte {
	// Start with 'A' and adjust the shift at each alphabet
	// boundary: 'a' (+6), '0' (-75), '-' (-13), '_' (+49).
	s := uint('A')
	s += (26 - c - 1) >> 8 & 6
	s -= (52 - c - 1) >> 8 & 75
	s -= (62 - c - 1) >> 8 & 13
	s += (63 - c - 1) >> 8 & 49
	return byte(c + s)
}

// urlRevLookup converts the base64url alphabet character c to its
// 6-bit value, or returns invalid.
func urlRevLookup(c uint) byte {
	// Same ranges as stdRevLookup except that
	//     c == '-' -> s = 17
	//     c == '_' -> s = 32
	s := ((((64 - c) & (c - 91)) >> 8) & 191) ^
		((((96 - c) & (c - 123)) >> 8) & 185) ^
		((((47 - c) & (c - 58)) >> 8) & 4) ^
		((((44 - c) & (c - 46)) >> 8) & 17) ^
		((((94 - c) & (c - 96)) >> 8) & 32)
	return revResult(s, c)
}

// revResult applies the shift s to c. A zero shift means c did not
// fall into any range, so the result is forced to invalid.
func revResult(s, c uint) byte {
	// s is non-zero and less than 256 for valid input, so
	// (0-s)>>8 has all of [8:0] set. For s == 0 it is zero and
	// the flipped mask becomes 0xff.
	return byte((s+c)&0x3f | ((((0 - s) >> 8) & 0xff) ^ 0xff))
}
