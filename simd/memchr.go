// Package simd provides portable SWAR (SIMD within a register) byte and
// substring search kernels used by the prefilter layer.
package simd

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// Memchr returns the index of the first instance of needle in haystack, or
// -1 if absent. Eight bytes are scanned per step using the zero-byte
// detection trick: XOR against the broadcast needle turns matches into zero
// bytes, and (v-lo8) & ^v & hi8 flags them.
func Memchr(haystack []byte, needle byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if haystack[i] == needle {
				return i
			}
		}
		return -1
	}

	mask := uint64(needle) * lo8
	i := 0
	for ; i+8 <= n; i += 8 {
		x := binary.LittleEndian.Uint64(haystack[i:]) ^ mask
		if z := (x - lo8) & ^x & hi8; z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}
