package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack, or
// -1 if absent. Equivalent to bytes.Index.
//
// The search anchors on the rarest needle byte (per the frequency table):
// Memchr finds candidate positions for that byte, and each candidate is
// verified with a full comparison. Worst case degrades to O(n*m) on
// adversarial input, which the prefilter layer tolerates since every
// candidate is verified downstream anyway.
func Memmem(haystack, needle []byte) int {
	if len(needle) == 0 {
		return 0
	}
	if len(needle) > len(haystack) {
		return -1
	}
	if len(needle) == 1 {
		return Memchr(haystack, needle[0])
	}

	rare, rareIdx := selectRareByte(needle)
	for at := rareIdx; at+len(needle)-rareIdx <= len(haystack); {
		rel := Memchr(haystack[at:], rare)
		if rel < 0 {
			return -1
		}
		at += rel
		start := at - rareIdx
		if start >= 0 && start+len(needle) <= len(haystack) &&
			bytes.Equal(haystack[start:start+len(needle)], needle) {
			return start
		}
		at++
	}
	return -1
}
