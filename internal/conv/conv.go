// Package conv provides checked narrowing conversions. Overflow panics:
// it means an internal limit (program length, class count) was silently
// exceeded, which is a bug, not an input error.
package conv

import "math"

// IntToUint32 converts an int to uint32, panicking when out of range.
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit ints cannot overflow the bound itself.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}
